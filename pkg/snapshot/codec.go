// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package snapshot

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/luxfi/flattener/pkg/constants"
)

// ErrDecode is returned for any input that is not a valid snapshot.
var ErrDecode = errors.New("invalid snapshot data")

// EncodeJSON serializes the snapshot. Non-ASCII text is emitted as-is.
func EncodeJSON(s *Snapshot, compact bool) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if !compact {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(s); err != nil {
		return nil, fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// Compress gzips data at the best compression level and returns it base64
// encoded without line breaks.
func Compress(data []byte) (string, error) {
	var buf bytes.Buffer
	zw, err := gzip.NewWriterLevel(&buf, gzip.BestCompression)
	if err != nil {
		return "", err
	}
	if _, err := zw.Write(data); err != nil {
		return "", fmt.Errorf("failed to compress snapshot: %w", err)
	}
	if err := zw.Close(); err != nil {
		return "", fmt.Errorf("failed to compress snapshot: %w", err)
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// EncodeCompressed returns the base64 payload of the compact JSON snapshot.
func EncodeCompressed(s *Snapshot) (string, error) {
	data, err := EncodeJSON(s, true)
	if err != nil {
		return "", err
	}
	return Compress(data)
}

// IsCompressedText reports whether data starts with the compressed header.
func IsCompressedText(data []byte) bool {
	return bytes.HasPrefix(data, []byte(constants.HeaderMarker))
}

// ExtractPayload joins every non-empty, non-comment line of compressed text.
// Whitespace inside lines is dropped so CRLF or pasted text still decodes.
func ExtractPayload(data []byte) string {
	var sb strings.Builder
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, constants.CommentPrefix) {
			continue
		}
		sb.WriteString(strings.Join(strings.Fields(line), ""))
	}
	return sb.String()
}

// Decompress reverses Compress.
func Decompress(payload string) ([]byte, error) {
	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: bad base64: %v", ErrDecode, err)
	}
	zr, err := gzip.NewReader(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: bad gzip stream: %v", ErrDecode, err)
	}
	defer zr.Close()
	data, err := io.ReadAll(zr)
	if err != nil {
		return nil, fmt.Errorf("%w: bad gzip stream: %v", ErrDecode, err)
	}
	return data, nil
}

// Decode parses either format. Compressed text is recognized by its header
// marker; anything else must be plain JSON.
func Decode(data []byte) (*Snapshot, error) {
	if IsCompressedText(data) {
		var err error
		data, err = Decompress(ExtractPayload(data))
		if err != nil {
			return nil, err
		}
	}
	var s Snapshot
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("%w: bad json: %v", ErrDecode, err)
	}
	if s.Files == nil {
		s.Files = map[string]string{}
	}
	return &s, nil
}
