// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package snapshot builds, encodes and decodes directory snapshots.
//
// A snapshot holds every included text file of a directory tree in one
// document: metadata, an index of (id, path, size, hash) items sorted by path,
// and a map from id to file content.
//
// Two on-disk formats are supported:
//   - Plain JSON, pretty-printed with two-space indentation
//   - Compressed text: compact JSON, gzip at best compression, base64,
//     wrapped at 76 columns behind a "# Project Snapshot" comment header.
//     With a max size the payload is split over <base>_partN<ext> files whose
//     payload lines, concatenated in part order, give back the exact base64.
//
// Usage:
//
//	snap, err := snapshot.Build(ctx, fs, entries, snapshot.BuildOptions{Source: root})
//	if err != nil {
//	    // handle error
//	}
//	res, err := snapshot.NewWriter(fs).Write(snap, "out.txt", snapshot.WriteOptions{
//	    Compressed: true,
//	    MaxSize:    400 * 1024,
//	})
//
// Decoding detects the format from the header marker; any failure along
// base64, gzip or JSON is reported as ErrDecode.
package snapshot
