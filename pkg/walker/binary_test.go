// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package walker

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

func TestIsBinaryContent(t *testing.T) {
	tests := []struct {
		name  string
		chunk []byte
		want  bool
	}{
		{"empty", nil, false},
		{"ascii", []byte("package main\n\nfunc main() {}\n"), false},
		{"control whitelist", []byte("a\tb\r\n\f\x1b[0m"), false},
		{"null byte", []byte("text\x00more"), true},
		{"latin1 high bytes", []byte("caf\xe9 na\xefve"), false},
		{"mostly control", bytes.Repeat([]byte{0x01, 0x02, 'a'}, 10), true},
		{"del is not text", bytes.Repeat([]byte{0x7f, 0x7f, 'a'}, 10), true},
		{"just under threshold", append(bytes.Repeat([]byte{'a'}, 7), 0x01, 0x02, 0x03), false},
		{"just over threshold", append(bytes.Repeat([]byte{'a'}, 6), 0x01, 0x02, 0x03, 0x04), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, IsBinaryContent(tt.chunk))
		})
	}
}

func TestIsBinary(t *testing.T) {
	require := require.New(t)
	fs := afero.NewMemMapFs()

	// a null byte near the end of the sniff window still counts
	withNull := append(bytes.Repeat([]byte("x"), 8000), 0)
	require.NoError(afero.WriteFile(fs, "/null.dat", withNull, 0o644))
	require.True(IsBinary(fs, "/null.dat"))

	// a null byte past the sniff window does not
	late := append(bytes.Repeat([]byte("x"), 9000), 0)
	require.NoError(afero.WriteFile(fs, "/late.dat", late, 0o644))
	require.False(IsBinary(fs, "/late.dat"))

	big := strings.Repeat("The quick brown fox jumps over the lazy dog.\n", 100000)
	require.NoError(afero.WriteFile(fs, "/big.txt", []byte(big), 0o644))
	require.False(IsBinary(fs, "/big.txt"))

	require.NoError(afero.WriteFile(fs, "/empty.txt", nil, 0o644))
	require.False(IsBinary(fs, "/empty.txt"))

	require.True(IsBinary(fs, "/missing.txt"))
}
