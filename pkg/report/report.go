// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package report summarizes a decoded snapshot for display.
package report

import (
	"fmt"
	"io"
	"path"
	"sort"
	"strconv"
	"strings"

	"github.com/luxfi/flattener/pkg/constants"
	"github.com/luxfi/flattener/pkg/snapshot"
	"github.com/luxfi/flattener/pkg/ux"
)

const separatorWidth = 50

type ExtensionCount struct {
	Ext   string `json:"extension" yaml:"extension"`
	Count int    `json:"files" yaml:"files"`
}

// Summary is what info reports about a snapshot. Extensions holds the most
// common extensions, most frequent first; Directories holds sorted directory
// prefixes up to three levels deep.
type Summary struct {
	Version     string           `json:"version" yaml:"version"`
	CreatedAt   string           `json:"created_at" yaml:"created_at"`
	Source      string           `json:"source" yaml:"source"`
	TotalFiles  int              `json:"total_files" yaml:"total_files"`
	TotalSize   int64            `json:"total_size" yaml:"total_size"`
	Extensions  []ExtensionCount `json:"extensions" yaml:"extensions"`
	Directories []string         `json:"directories" yaml:"directories"`
}

// Summarize builds a read-only summary of s.
func Summarize(s *snapshot.Snapshot) Summary {
	paths := make([]string, 0, len(s.Index))
	for _, item := range s.Index {
		paths = append(paths, item.Path)
	}
	return Summary{
		Version:     orDash(s.Metadata.Version),
		CreatedAt:   orDash(s.Metadata.CreatedAt),
		Source:      orDash(s.Metadata.Source),
		TotalFiles:  s.FileCount(),
		TotalSize:   s.Metadata.TotalSize,
		Extensions:  TopExtensions(paths, constants.MaxReportExtensions),
		Directories: Directories(paths, constants.MaxReportDirDepth, constants.MaxReportDirectories),
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// Extension returns the lower-cased final suffix of the file name in p,
// including the dot. Names without one, dot-files like ".bashrc" and names
// ending in a dot have no extension.
func Extension(p string) string {
	name := path.Base(p)
	i := strings.LastIndexByte(name, '.')
	if i <= 0 || i == len(name)-1 {
		return ""
	}
	return strings.ToLower(name[i:])
}

// TopExtensions counts extensions and returns at most limit of them by
// descending count. Ties keep the order in which extensions first appear.
func TopExtensions(paths []string, limit int) []ExtensionCount {
	var counts []ExtensionCount
	pos := map[string]int{}
	for _, p := range paths {
		ext := Extension(p)
		if ext == "" {
			ext = constants.NoExtensionLabel
		}
		i, ok := pos[ext]
		if !ok {
			i = len(counts)
			pos[ext] = i
			counts = append(counts, ExtensionCount{Ext: ext})
		}
		counts[i].Count++
	}
	sort.SliceStable(counts, func(i, j int) bool { return counts[i].Count > counts[j].Count })
	if len(counts) > limit {
		counts = counts[:limit]
	}
	return counts
}

// Directories collects every directory prefix of paths up to depth levels,
// sorted, and returns at most limit of them.
func Directories(paths []string, depth, limit int) []string {
	seen := map[string]struct{}{}
	for _, p := range paths {
		segments := strings.Split(strings.Trim(p, "/"), "/")
		segments = segments[:len(segments)-1]
		for i := 0; i < len(segments) && i < depth; i++ {
			seen[strings.Join(segments[:i+1], "/")] = struct{}{}
		}
	}
	dirs := make([]string, 0, len(seen))
	for d := range seen {
		dirs = append(dirs, d)
	}
	sort.Strings(dirs)
	if len(dirs) > limit {
		dirs = dirs[:limit]
	}
	return dirs
}

// Render writes the report for the snapshot called name.
func Render(w io.Writer, name string, sum Summary) error {
	line := strings.Repeat("=", separatorWidth)
	fmt.Fprintf(w, "\n%s\nSnapshot: %s\n%s\n", line, name, line)
	fmt.Fprintf(w, "Version:  %s\n", sum.Version)
	fmt.Fprintf(w, "Created:  %s\n", sum.CreatedAt)
	fmt.Fprintf(w, "Source:   %s\n", sum.Source)
	fmt.Fprintf(w, "Files:    %d\n", sum.TotalFiles)
	fmt.Fprintf(w, "Size:     %s\n", snapshot.FormatBytes(sum.TotalSize))

	if len(sum.Extensions) > 0 {
		fmt.Fprintln(w, "\nFile types:")
		rows := make([][]string, 0, len(sum.Extensions))
		for _, e := range sum.Extensions {
			rows = append(rows, []string{e.Ext, strconv.Itoa(e.Count)})
		}
		if err := ux.AppendRows(ux.NewTable(w, "Extension", "Files"), rows); err != nil {
			return err
		}
	}

	if len(sum.Directories) > 0 {
		fmt.Fprintf(w, "\nDirectories (top %d levels):\n", constants.MaxReportDirDepth)
		for _, d := range sum.Directories {
			fmt.Fprintf(w, "  %s/\n", d)
		}
	}
	_, err := fmt.Fprintf(w, "%s\n", line)
	return err
}
