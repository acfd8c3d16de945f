// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package snapshot

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/luxfi/flattener/pkg/constants"
	"github.com/spf13/afero"
)

// ErrPartSize is returned when a max size leaves no room for payload.
var ErrPartSize = errors.New("max size too small")

// Part is one written output file
type Part struct {
	Number int
	Total  int
	Path   string
	Bytes  int64
}

// WrapLines breaks s into lines of at most width characters, each followed by
// a newline.
func WrapLines(s string, width int) string {
	if s == "" {
		return ""
	}
	var sb strings.Builder
	sb.Grow(len(s) + len(s)/width + 1)
	for len(s) > width {
		sb.WriteString(s[:width])
		sb.WriteByte('\n')
		s = s[width:]
	}
	sb.WriteString(s)
	sb.WriteByte('\n')
	return sb.String()
}

// SplitPayload cuts a payload into ceil(len/budget) chunks where budget is
// maxSize minus the part header reserve.
func SplitPayload(payload string, maxSize int64) ([]string, error) {
	budget := maxSize - constants.PartHeaderReserve
	if budget <= 0 {
		return nil, fmt.Errorf("%w: %d bytes leaves no room after the %d byte header reserve",
			ErrPartSize, maxSize, constants.PartHeaderReserve)
	}
	if payload == "" {
		return []string{""}, nil
	}
	chunks := make([]string, 0, (int64(len(payload))+budget-1)/budget)
	for int64(len(payload)) > budget {
		chunks = append(chunks, payload[:budget])
		payload = payload[budget:]
	}
	return append(chunks, payload), nil
}

// splitName returns the path without its extension, and the extension to use
// for part files.
func splitName(output string) (string, string) {
	ext := filepath.Ext(output)
	stem := strings.TrimSuffix(output, ext)
	if ext == "" {
		ext = constants.DefaultPartExt
	}
	return stem, ext
}

// PartPath returns the path of part n for output, as <stem>_part<n><ext>.
func PartPath(output string, n int) string {
	stem, ext := splitName(output)
	return fmt.Sprintf("%s%s%d%s", stem, constants.PartInfix, n, ext)
}

func singleHeader(meta Metadata, output string) string {
	return fmt.Sprintf(`%s (base64-gzip compressed)
# Files: %d, Original: %s
# Created: %s
# To restore: %s restore -i %s -t <target>
#
`, constants.HeaderMarker, meta.TotalFiles, FormatBytes(meta.TotalSize),
		meta.CreatedAt, constants.AppName, filepath.Base(output))
}

func partHeader(meta Metadata, output string, n, total int) string {
	stem, ext := splitName(filepath.Base(output))
	return fmt.Sprintf(`%s Part %d/%d (base64-gzip)
# Files: %d, Original: %s
# To restore: cat %s%s*%s | %s restore -i - -t <target>
# Or: Concatenate all parts, then restore
#
`, constants.HeaderMarker, n, total, meta.TotalFiles, FormatBytes(meta.TotalSize),
		stem, constants.PartInfix, ext, constants.AppName)
}

type WriteOptions struct {
	Compressed bool
	// MaxSize > 0 splits compressed output into parts.
	MaxSize int64
}

// WriteResult describes what Write put on disk.
type WriteResult struct {
	Compressed bool
	// Split is set when the output went to part files.
	Split bool
	Parts []Part
	// JSONSize is the size of the JSON document before compression.
	JSONSize int64
	// OutputSize sums the size of every written file.
	OutputSize int64
}

// Writer writes snapshots to a filesystem.
type Writer struct {
	fs afero.Fs
}

func NewWriter(fs afero.Fs) *Writer {
	return &Writer{fs: fs}
}

// Write encodes s and stores it at output, creating parent directories.
// Compressed output with a max size goes to part files next to output.
func (w *Writer) Write(s *Snapshot, output string, opts WriteOptions) (*WriteResult, error) {
	if dir := filepath.Dir(output); dir != "" {
		if err := w.fs.MkdirAll(dir, constants.DefaultPerms755); err != nil {
			return nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	res := &WriteResult{Compressed: opts.Compressed}
	if !opts.Compressed {
		data, err := EncodeJSON(s, false)
		if err != nil {
			return nil, err
		}
		res.JSONSize = int64(len(data))
		if err := w.put(res, output, 1, 1, data); err != nil {
			return nil, err
		}
		return res, nil
	}

	data, err := EncodeJSON(s, true)
	if err != nil {
		return nil, err
	}
	res.JSONSize = int64(len(data))
	payload, err := Compress(data)
	if err != nil {
		return nil, err
	}

	if opts.MaxSize <= 0 {
		doc := singleHeader(s.Metadata, output) + WrapLines(payload, constants.PayloadLineWidth)
		if err := w.put(res, output, 1, 1, []byte(doc)); err != nil {
			return nil, err
		}
		return res, nil
	}

	chunks, err := SplitPayload(payload, opts.MaxSize)
	if err != nil {
		return nil, err
	}
	res.Split = true
	for i, chunk := range chunks {
		n := i + 1
		doc := partHeader(s.Metadata, output, n, len(chunks)) + WrapLines(chunk, constants.PayloadLineWidth)
		if err := w.put(res, PartPath(output, n), n, len(chunks), []byte(doc)); err != nil {
			return nil, err
		}
	}
	return res, nil
}

func (w *Writer) put(res *WriteResult, path string, n, total int, data []byte) error {
	if err := afero.WriteFile(w.fs, path, data, constants.WriteReadReadPerms); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	res.Parts = append(res.Parts, Part{Number: n, Total: total, Path: path, Bytes: int64(len(data))})
	res.OutputSize += int64(len(data))
	return nil
}
