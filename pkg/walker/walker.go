// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package walker

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"github.com/luxfi/flattener/pkg/ignore"
	"github.com/spf13/afero"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// SkipReason says why a file was left out of the walk result.
type SkipReason string

const (
	SkipIgnored SkipReason = "ignored"
	SkipTest    SkipReason = "test"
	SkipBinary  SkipReason = "binary"
)

// FileEntry is one included file.
type FileEntry struct {
	// Path is the file's location on the walked filesystem.
	Path string
	// RelPath is relative to the walk root and always uses "/".
	RelPath string
}

type Options struct {
	ExcludeTests bool
	// Workers bounds concurrent binary sniffing; <= 0 means runtime.NumCPU().
	Workers int
	// OnSkip, when set, is called in path order for every dropped file.
	OnSkip func(relPath string, reason SkipReason)
	Log    *zap.Logger
}

type Walker struct {
	fs      afero.Fs
	matcher *ignore.Matcher
	opts    Options
}

func New(fs afero.Fs, matcher *ignore.Matcher, opts Options) *Walker {
	if opts.Log == nil {
		opts.Log = zap.NewNop()
	}
	if opts.Workers <= 0 {
		opts.Workers = runtime.NumCPU()
	}
	return &Walker{fs: fs, matcher: matcher, opts: opts}
}

// Walk is the one-shot form of Walker.Walk.
func Walk(ctx context.Context, fs afero.Fs, root string, rules []ignore.Rule, excludeTests bool) ([]FileEntry, error) {
	return New(fs, ignore.NewMatcher(rules), Options{ExcludeTests: excludeTests}).Walk(ctx, root)
}

type skipped struct {
	rel    string
	reason SkipReason
}

// Walk returns the included text files under root sorted by relative path.
// Excluded directories are pruned and never read.
func (w *Walker) Walk(ctx context.Context, root string) ([]FileEntry, error) {
	info, err := w.fs.Stat(root)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", root)
	}

	var (
		candidates []FileEntry
		skips      []skipped
	)
	err = afero.Walk(w.fs, root, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			// unreadable subtrees are dropped, the root is not
			if p == root {
				return err
			}
			w.opts.Log.Debug("walk error", zap.String("path", p), zap.Error(err))
			return nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if p == root {
			return nil
		}

		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		if info.IsDir() {
			if w.matcher.Match(rel, true) {
				w.opts.Log.Debug("pruned directory", zap.String("path", rel))
				return filepath.SkipDir
			}
			return nil
		}

		if w.matcher.Match(rel, false) {
			skips = append(skips, skipped{rel, SkipIgnored})
			return nil
		}
		if w.opts.ExcludeTests && IsTestFile(rel) {
			skips = append(skips, skipped{rel, SkipTest})
			return nil
		}
		candidates = append(candidates, FileEntry{Path: p, RelPath: rel})
		return nil
	})
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, fmt.Errorf("walk %s: %w", root, err)
	}

	binary, err := w.classify(ctx, candidates)
	if err != nil {
		return nil, err
	}

	entries := make([]FileEntry, 0, len(candidates))
	for i, c := range candidates {
		if binary[i] {
			skips = append(skips, skipped{c.RelPath, SkipBinary})
			continue
		}
		entries = append(entries, c)
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].RelPath < entries[j].RelPath })
	if w.opts.OnSkip != nil {
		sort.SliceStable(skips, func(i, j int) bool { return skips[i].rel < skips[j].rel })
		for _, s := range skips {
			w.opts.OnSkip(s.rel, s.reason)
		}
	}
	return entries, nil
}

// classify sniffs every candidate on a bounded pool; result[i] belongs to candidates[i].
func (w *Walker) classify(ctx context.Context, candidates []FileEntry) ([]bool, error) {
	result := make([]bool, len(candidates))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(w.opts.Workers)
	for i := range candidates {
		i := i
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			result[i] = IsBinary(w.fs, candidates[i].Path)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return result, nil
}

// IsTestFile reports whether a relative path looks like test code: a "test"
// directory segment, a segment starting with "Test", or a *Test.java /
// *_test.go file name.
func IsTestFile(rel string) bool {
	segments := strings.Split(rel, "/")
	for i, s := range segments {
		if i < len(segments)-1 && s == "test" {
			return true
		}
		if strings.HasPrefix(s, "Test") {
			return true
		}
	}
	name := path.Base(rel)
	return strings.HasSuffix(name, "Test.java") || strings.HasSuffix(name, "_test.go")
}
