// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package restore writes a decoded snapshot back into a directory.
package restore

import (
	"context"
	"errors"
	"fmt"
	"path"
	"path/filepath"
	"strings"

	"github.com/luxfi/flattener/pkg/constants"
	"github.com/luxfi/flattener/pkg/snapshot"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

var (
	ErrUnresolvedConflicts = errors.New("target files already exist; use --force or --skip")
	ErrUnsafePath          = errors.New("path escapes the target directory")
	ErrMissingContent      = errors.New("no content stored for file")
)

type Options struct {
	// Force overwrites existing files and takes priority over Skip.
	Force bool
	Skip  bool
	// Resolver is consulted when conflicts exist and neither Force nor Skip is set.
	Resolver ConflictResolver
	// OnFile is called for every file written.
	OnFile func(relPath string)
	Log    *zap.Logger
}

// Failure records one file that could not be restored.
type Failure struct {
	Path string
	Err  error
}

func (f Failure) Error() string {
	return fmt.Sprintf("%s: %v", f.Path, f.Err)
}

func (f Failure) Unwrap() error {
	return f.Err
}

type Result struct {
	Restored int
	Skipped  int
	Errors   int
	Failures []Failure
	// Conflicts lists the relative paths that already existed.
	Conflicts []string
	Canceled  bool
}

// Success reports whether every file was either restored or skipped.
func (r *Result) Success() bool {
	return r.Errors == 0
}

type Restorer struct {
	fs   afero.Fs
	opts Options
}

func New(fs afero.Fs, opts Options) *Restorer {
	if opts.Log == nil {
		opts.Log = zap.NewNop()
	}
	return &Restorer{fs: fs, opts: opts}
}

// Restore is a shorthand for New(fs, opts).Restore.
func Restore(ctx context.Context, fs afero.Fs, snap *snapshot.Snapshot, target string, opts Options) (*Result, error) {
	return New(fs, opts).Restore(ctx, snap, target)
}

type plannedFile struct {
	item snapshot.IndexItem
	dest string
	err  error
}

// Restore writes every index item under target. Per-file problems are counted
// in the result; only a failed conflict decision or a canceled context is
// returned as an error.
func (r *Restorer) Restore(ctx context.Context, snap *snapshot.Snapshot, target string) (*Result, error) {
	log := r.opts.Log
	res := &Result{}

	plan := make([]plannedFile, 0, len(snap.Index))
	existing := map[int]bool{}
	for i, item := range snap.Index {
		dest, err := Destination(target, item.Path)
		plan = append(plan, plannedFile{item: item, dest: dest, err: err})
		if err != nil {
			continue
		}
		ok, err := afero.Exists(r.fs, dest)
		if err != nil {
			plan[i].err = err
			continue
		}
		if ok {
			existing[i] = true
			res.Conflicts = append(res.Conflicts, item.Path)
		}
	}

	skip := false
	if len(res.Conflicts) > 0 {
		decision, err := r.decide(res.Conflicts)
		if err != nil {
			return nil, err
		}
		log.Debug("resolved conflicts",
			zap.Int("conflicts", len(res.Conflicts)), zap.Stringer("decision", decision))
		switch decision {
		case Cancel:
			res.Canceled = true
			return res, nil
		case Skip:
			skip = true
		}
	}

	if err := r.fs.MkdirAll(target, constants.DefaultPerms755); err != nil {
		return nil, fmt.Errorf("failed to create target directory: %w", err)
	}

	for i, p := range plan {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		if existing[i] && skip {
			res.Skipped++
			continue
		}
		if err := r.writeOne(snap, p); err != nil {
			res.Errors++
			res.Failures = append(res.Failures, Failure{Path: p.item.Path, Err: err})
			log.Warn("failed to restore file", zap.String("path", p.item.Path), zap.Error(err))
			continue
		}
		res.Restored++
		if r.opts.OnFile != nil {
			r.opts.OnFile(p.item.Path)
		}
	}
	return res, nil
}

func (r *Restorer) decide(conflicts []string) (Decision, error) {
	switch {
	case r.opts.Force:
		return Overwrite, nil
	case r.opts.Skip:
		return Skip, nil
	case r.opts.Resolver == nil:
		return Cancel, fmt.Errorf("%w (%d conflicting files)", ErrUnresolvedConflicts, len(conflicts))
	}
	return r.opts.Resolver.Resolve(conflicts)
}

func (r *Restorer) writeOne(snap *snapshot.Snapshot, p plannedFile) error {
	if p.err != nil {
		return p.err
	}
	content, ok := snap.Content(p.item)
	if !ok {
		return fmt.Errorf("%w (id %s)", ErrMissingContent, p.item.ID)
	}
	if err := r.fs.MkdirAll(filepath.Dir(p.dest), constants.DefaultPerms755); err != nil {
		return err
	}
	return afero.WriteFile(r.fs, p.dest, []byte(content), constants.WriteReadReadPerms)
}

// Destination joins a snapshot-relative path onto target. Absolute paths and
// paths climbing out of target are rejected.
func Destination(target, rel string) (string, error) {
	rel = strings.ReplaceAll(rel, "\\", "/")
	if rel == "" || path.IsAbs(rel) || filepath.IsAbs(rel) || filepath.VolumeName(rel) != "" {
		return "", fmt.Errorf("%w: %q", ErrUnsafePath, rel)
	}
	clean := path.Clean(rel)
	if clean == "." || clean == ".." || strings.HasPrefix(clean, "../") {
		return "", fmt.Errorf("%w: %q", ErrUnsafePath, rel)
	}
	return filepath.Join(target, filepath.FromSlash(clean)), nil
}
