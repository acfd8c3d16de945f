// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package walker

import (
	"bytes"
	"io"

	"github.com/luxfi/flattener/pkg/constants"
	"github.com/spf13/afero"
)

// textBytes marks the bytes that count as text: tab, newline, form feed,
// carriage return, escape, and 0x20-0xFF except DEL.
var textBytes = func() [256]bool {
	var t [256]bool
	for _, b := range []byte{'\t', '\n', '\f', '\r', 0x1b} {
		t[b] = true
	}
	for b := 0x20; b <= 0xff; b++ {
		t[b] = b != 0x7f
	}
	return t
}()

// IsBinary sniffs the first BinarySniffSize bytes of path. Any read error
// classifies the file as binary.
func IsBinary(fs afero.Fs, path string) bool {
	f, err := fs.Open(path)
	if err != nil {
		return true
	}
	defer f.Close()

	buf := make([]byte, constants.BinarySniffSize)
	n, err := io.ReadFull(f, buf)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return true
	}
	return IsBinaryContent(buf[:n])
}

// IsBinaryContent classifies a leading chunk of file content.
func IsBinaryContent(chunk []byte) bool {
	if len(chunk) == 0 {
		return false
	}
	if bytes.IndexByte(chunk, 0) >= 0 {
		return true
	}
	nonText := 0
	for _, b := range chunk {
		if !textBytes[b] {
			nonText++
		}
	}
	return float64(nonText)/float64(len(chunk)) > constants.BinaryThreshold
}
