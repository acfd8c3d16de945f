// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package snapshot

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"runtime"
	"strconv"
	"time"
	"unicode/utf8"

	"github.com/luxfi/flattener/pkg/constants"
	"github.com/luxfi/flattener/pkg/walker"
	"github.com/spf13/afero"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/encoding/charmap"
)

// Metadata describes a snapshot as a whole
type Metadata struct {
	Version    string `json:"version"`
	CreatedAt  string `json:"created_at"`
	Source     string `json:"source"`
	TotalFiles int    `json:"total_files"`
	TotalSize  int64  `json:"total_size"`
}

// IndexItem is one file of the snapshot. Size is the UTF-8 length of the
// content and Hash its truncated SHA-256.
type IndexItem struct {
	ID   string `json:"id"`
	Path string `json:"path"`
	Size int64  `json:"size"`
	Hash string `json:"hash"`
}

// Snapshot is the full serialized tree
type Snapshot struct {
	Metadata Metadata          `json:"metadata"`
	Index    []IndexItem       `json:"index"`
	Files    map[string]string `json:"files"`
}

// FileCount returns the recorded file count, falling back to the index length
// for snapshots that omit it.
func (s *Snapshot) FileCount() int {
	if s.Metadata.TotalFiles == 0 && len(s.Index) > 0 {
		return len(s.Index)
	}
	return s.Metadata.TotalFiles
}

// Content looks up the text stored for an index item.
func (s *Snapshot) Content(item IndexItem) (string, bool) {
	content, ok := s.Files[item.ID]
	return content, ok
}

type BuildOptions struct {
	// Source is recorded as the snapshot's origin.
	Source string
	Now    func() time.Time
	// Workers bounds concurrent file reads; <= 0 means runtime.NumCPU().
	Workers int
	// Progress is called from worker goroutines once per file read attempt.
	Progress func()
	// OnFile is called in index order for every file that made it in.
	OnFile func(position, total int, relPath string)
	Log    *zap.Logger
}

// Build reads the given files and assembles a snapshot. Files that cannot be
// read are dropped; their position number is not reused as an id.
func Build(ctx context.Context, fs afero.Fs, entries []walker.FileEntry, opts BuildOptions) (*Snapshot, error) {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Log == nil {
		opts.Log = zap.NewNop()
	}
	if opts.Workers <= 0 {
		opts.Workers = runtime.NumCPU()
	}

	contents := make([]*string, len(entries))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Workers)
	for i := range entries {
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			if opts.Progress != nil {
				defer opts.Progress()
			}
			text, err := ReadText(fs, entries[i].Path)
			if err != nil {
				opts.Log.Debug("dropping unreadable file",
					zap.String("path", entries[i].RelPath), zap.Error(err))
				return nil
			}
			contents[i] = &text
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	snap := &Snapshot{
		Index: make([]IndexItem, 0, len(entries)),
		Files: make(map[string]string, len(entries)),
	}
	var total int64
	for i, e := range entries {
		if contents[i] == nil {
			continue
		}
		content := *contents[i]
		id := strconv.Itoa(i + 1)
		size := int64(len(content))
		total += size
		snap.Index = append(snap.Index, IndexItem{
			ID:   id,
			Path: e.RelPath,
			Size: size,
			Hash: Fingerprint(content),
		})
		snap.Files[id] = content
		if opts.OnFile != nil {
			opts.OnFile(i+1, len(entries), e.RelPath)
		}
	}

	snap.Metadata = Metadata{
		Version:    constants.FormatVersion,
		CreatedAt:  opts.Now().Format(constants.CreatedAtLayout),
		Source:     opts.Source,
		TotalFiles: len(snap.Index),
		TotalSize:  total,
	}
	return snap, nil
}

// ReadText reads a file as UTF-8, falling back to ISO-8859-1 when the bytes
// are not valid UTF-8.
func ReadText(fs afero.Fs, path string) (string, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return "", err
	}
	if utf8.Valid(data) {
		return string(data), nil
	}
	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
	if err != nil {
		return "", err
	}
	return string(decoded), nil
}

// Fingerprint returns the first 16 hex characters of the content's SHA-256.
func Fingerprint(content string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])[:constants.FingerprintLength]
}
