// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package snapshot

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/luxfi/flattener/pkg/constants"
	"github.com/spf13/afero"
)

// FindParts returns the part files written for output, ordered by part
// number. Missing parts in the 1..N sequence are an error.
func FindParts(fs afero.Fs, output string) ([]string, error) {
	stem, ext := splitName(output)
	prefix := stem + constants.PartInfix
	matches, err := afero.Glob(fs, prefix+"*"+ext)
	if err != nil {
		return nil, err
	}

	byNumber := map[int]string{}
	for _, m := range matches {
		n, err := strconv.Atoi(strings.TrimSuffix(strings.TrimPrefix(m, prefix), ext))
		if err != nil || n < 1 {
			continue
		}
		byNumber[n] = m
	}
	numbers := make([]int, 0, len(byNumber))
	for n := range byNumber {
		numbers = append(numbers, n)
	}
	sort.Ints(numbers)

	parts := make([]string, 0, len(numbers))
	for i, n := range numbers {
		if n != i+1 {
			return nil, fmt.Errorf("part %d of %s is missing", i+1, filepath.Base(output))
		}
		parts = append(parts, byNumber[n])
	}
	return parts, nil
}

// ResolveInputs expands restore inputs into the files to read, in order.
// "-" stands for standard input. A path that does not exist is looked up as
// the base name of a split snapshot.
func ResolveInputs(fs afero.Fs, inputs []string) ([]string, error) {
	var resolved []string
	for _, in := range inputs {
		if in == constants.StdinPath {
			resolved = append(resolved, in)
			continue
		}
		exists, err := afero.Exists(fs, in)
		if err != nil {
			return nil, err
		}
		if exists {
			resolved = append(resolved, in)
			continue
		}
		parts, err := FindParts(fs, in)
		if err != nil {
			return nil, err
		}
		if len(parts) == 0 {
			return nil, fmt.Errorf("input file not found: %s: %w", in, os.ErrNotExist)
		}
		resolved = append(resolved, parts...)
	}
	return resolved, nil
}

// ReadInputs concatenates the given files, reading "-" from stdin. Each file
// is newline-terminated so a part's payload never runs into the next header.
func ReadInputs(fs afero.Fs, paths []string, stdin io.Reader) ([]byte, error) {
	var buf bytes.Buffer
	for _, p := range paths {
		var (
			data []byte
			err  error
		)
		if p == constants.StdinPath {
			if stdin == nil {
				return nil, errors.New("no standard input available")
			}
			data, err = io.ReadAll(stdin)
		} else {
			data, err = afero.ReadFile(fs, p)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", p, err)
		}
		buf.Write(data)
		if len(data) > 0 && data[len(data)-1] != '\n' {
			buf.WriteByte('\n')
		}
	}
	return buf.Bytes(), nil
}

// Load resolves, reads and decodes snapshot inputs.
func Load(fs afero.Fs, inputs []string, stdin io.Reader) (*Snapshot, error) {
	paths, err := ResolveInputs(fs, inputs)
	if err != nil {
		return nil, err
	}
	data, err := ReadInputs(fs, paths, stdin)
	if err != nil {
		return nil, err
	}
	return Decode(data)
}
