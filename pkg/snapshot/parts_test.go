// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package snapshot

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"testing"

	"github.com/luxfi/flattener/internal/testutils"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

// noisySnapshot returns a snapshot whose payload does not compress well, so
// small max sizes produce many parts.
func noisySnapshot(n int) *Snapshot {
	content := testutils.RandomText(42, n)
	return &Snapshot{
		Metadata: Metadata{Version: "1.0", CreatedAt: "2024-05-01T12:30:45.123456", Source: "/src", TotalFiles: 1, TotalSize: int64(n)},
		Index:    []IndexItem{{ID: "1", Path: "noise.txt", Size: int64(n), Hash: Fingerprint(content)}},
		Files:    map[string]string{"1": content},
	}
}

func TestWrapLines(t *testing.T) {
	require := require.New(t)
	require.Equal("", WrapLines("", 4))
	require.Equal("abc\n", WrapLines("abc", 4))
	require.Equal("abcd\n", WrapLines("abcd", 4))
	require.Equal("abcd\nefgh\nij\n", WrapLines("abcdefghij", 4))
}

func TestSplitPayload(t *testing.T) {
	require := require.New(t)
	payload := strings.Repeat("x", 1000)

	chunks, err := SplitPayload(payload, 300)
	require.NoError(err)
	require.Len(chunks, 10)
	require.Equal(payload, strings.Join(chunks, ""))

	chunks, err = SplitPayload(payload, 1200)
	require.NoError(err)
	require.Len(chunks, 1)

	chunks, err = SplitPayload(payload, 201)
	require.NoError(err)
	require.Len(chunks, 1000)
}

func TestSplitPayloadTooSmall(t *testing.T) {
	for _, size := range []int64{0, 1, 100, 200} {
		_, err := SplitPayload("abc", size)
		require.ErrorIs(t, err, ErrPartSize, "size %d", size)
	}
}

func TestPartPath(t *testing.T) {
	require := require.New(t)
	require.Equal("out/snap_part1.txt", PartPath("out/snap.txt", 1))
	require.Equal("snap_part12.b64", PartPath("snap.b64", 12))
	require.Equal("snap_part3.txt", PartPath("snap", 3))
}

func TestWriterJSON(t *testing.T) {
	require := require.New(t)
	fs := afero.NewMemMapFs()
	snap := sampleSnapshot()

	res, err := NewWriter(fs).Write(snap, "/out/nested/snap.json", WriteOptions{})
	require.NoError(err)
	require.False(res.Compressed)
	require.False(res.Split)
	require.Len(res.Parts, 1)
	require.Equal(res.JSONSize, res.OutputSize)

	data, err := afero.ReadFile(fs, "/out/nested/snap.json")
	require.NoError(err)
	require.True(bytes.HasPrefix(data, []byte("{\n")))
	decoded, err := Decode(data)
	require.NoError(err)
	require.Equal(snap, decoded)
}

func TestWriterCompressedSingle(t *testing.T) {
	require := require.New(t)
	fs := afero.NewMemMapFs()
	snap := noisySnapshot(4000)

	res, err := NewWriter(fs).Write(snap, "/out/snap.txt", WriteOptions{Compressed: true})
	require.NoError(err)
	require.True(res.Compressed)
	require.False(res.Split)

	data, err := afero.ReadFile(fs, "/out/snap.txt")
	require.NoError(err)
	require.Equal(int64(len(data)), res.OutputSize)

	lines := strings.Split(strings.TrimSuffix(string(data), "\n"), "\n")
	require.Equal("# Project Snapshot (base64-gzip compressed)", lines[0])
	require.Equal("# Files: 1, Original: 3.9 KB", lines[1])
	require.Equal("# Created: 2024-05-01T12:30:45.123456", lines[2])
	require.Equal("# To restore: flattener restore -i snap.txt -t <target>", lines[3])
	require.Equal("#", lines[4])
	for _, line := range lines[5:] {
		require.LessOrEqual(len(line), 76)
		require.NotEmpty(line)
	}

	decoded, err := Decode(data)
	require.NoError(err)
	require.Equal(snap, decoded)
}

func TestWriterPartsReconstruct(t *testing.T) {
	snap := noisySnapshot(20000)
	payload, err := EncodeCompressed(snap)
	require.NoError(t, err)

	for _, maxSize := range []int64{250, 1000, 4096, 1 << 20} {
		t.Run(fmt.Sprintf("max=%d", maxSize), func(t *testing.T) {
			require := require.New(t)
			fs := afero.NewMemMapFs()

			res, err := NewWriter(fs).Write(snap, "/out/snap.txt", WriteOptions{Compressed: true, MaxSize: maxSize})
			require.NoError(err)
			require.True(res.Split)

			budget := maxSize - 200
			want := (int64(len(payload)) + budget - 1) / budget
			require.Len(res.Parts, int(want))

			exists, err := afero.Exists(fs, "/out/snap.txt")
			require.NoError(err)
			require.False(exists)

			var joined strings.Builder
			for i, part := range res.Parts {
				require.Equal(fmt.Sprintf("/out/snap_part%d.txt", i+1), part.Path)
				data, err := afero.ReadFile(fs, part.Path)
				require.NoError(err)
				header := fmt.Sprintf("# Project Snapshot Part %d/%d (base64-gzip)\n", i+1, want)
				require.True(strings.HasPrefix(string(data), header))
				require.Contains(string(data), "# To restore: cat snap_part*.txt | flattener restore -i - -t <target>\n")
				joined.WriteString(ExtractPayload(data))
			}
			require.Equal(payload, joined.String())

			// the missing base path resolves to the part files
			decoded, err := Load(fs, []string{"/out/snap.txt"}, nil)
			require.NoError(err)
			require.Equal(snap, decoded)
		})
	}
}

func TestWriterPartsTooSmall(t *testing.T) {
	fs := afero.NewMemMapFs()
	_, err := NewWriter(fs).Write(sampleSnapshot(), "/out/snap.txt", WriteOptions{Compressed: true, MaxSize: 150})
	require.ErrorIs(t, err, ErrPartSize)
}

func TestLoadFromStdin(t *testing.T) {
	require := require.New(t)
	fs := afero.NewMemMapFs()
	snap := noisySnapshot(5000)
	res, err := NewWriter(fs).Write(snap, "/out/snap.txt", WriteOptions{Compressed: true, MaxSize: 1000})
	require.NoError(err)

	var cat bytes.Buffer
	for _, part := range res.Parts {
		data, err := afero.ReadFile(fs, part.Path)
		require.NoError(err)
		cat.Write(data)
	}
	decoded, err := Load(fs, []string{"-"}, &cat)
	require.NoError(err)
	require.Equal(snap, decoded)
}

func TestLoadExplicitParts(t *testing.T) {
	require := require.New(t)
	fs := afero.NewMemMapFs()
	snap := noisySnapshot(3000)
	res, err := NewWriter(fs).Write(snap, "/out/snap.txt", WriteOptions{Compressed: true, MaxSize: 600})
	require.NoError(err)

	paths := make([]string, 0, len(res.Parts))
	for _, part := range res.Parts {
		paths = append(paths, part.Path)
	}
	decoded, err := Load(fs, paths, nil)
	require.NoError(err)
	require.Equal(snap, decoded)
}

func TestFindParts(t *testing.T) {
	require := require.New(t)
	fs := afero.NewMemMapFs()
	for _, name := range []string{"s_part1.txt", "s_part2.txt", "s_part10.txt", "s_partx.txt", "other.txt"} {
		require.NoError(afero.WriteFile(fs, "/d/"+name, []byte("#\n"), 0o644))
	}
	_, err := FindParts(fs, "/d/s.txt")
	require.ErrorContains(err, "part 3 of s.txt is missing")

	for i := 3; i <= 9; i++ {
		require.NoError(afero.WriteFile(fs, fmt.Sprintf("/d/s_part%d.txt", i), []byte("#\n"), 0o644))
	}
	parts, err := FindParts(fs, "/d/s.txt")
	require.NoError(err)
	require.Len(parts, 10)
	require.Equal("/d/s_part2.txt", parts[1])
	require.Equal("/d/s_part10.txt", parts[9])
}

func TestResolveInputsMissing(t *testing.T) {
	_, err := ResolveInputs(afero.NewMemMapFs(), []string{"/nope.txt"})
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		bytes    int64
		expected string
	}{
		{0, "0 B"},
		{100, "100 B"},
		{1023, "1023 B"},
		{1024, "1.0 KB"},
		{1536, "1.5 KB"},
		{1048576, "1.0 MB"},
		{1073741824, "1.0 GB"},
	}
	for _, tt := range tests {
		require.Equal(t, tt.expected, FormatBytes(tt.bytes))
	}
}
