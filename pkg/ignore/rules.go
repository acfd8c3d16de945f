// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ignore

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/gobwas/glob"
	"github.com/luxfi/flattener/pkg/constants"
	"github.com/spf13/afero"
)

// Rule is one parsed line of an ignore file.
type Rule struct {
	// Pattern is the line as written, markers included.
	Pattern  string
	Negate   bool
	DirOnly  bool
	Anchored bool

	body     string
	variants []glob.Glob
}

// ParseRule parses a single ignore line. It returns false for blank lines,
// comments, and lines that carry no pattern once their markers are removed.
func ParseRule(line string) (Rule, bool) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, constants.CommentPrefix) {
		return Rule{}, false
	}

	r := Rule{Pattern: line}
	body := line
	if strings.HasPrefix(body, "!") {
		r.Negate = true
		body = body[1:]
	}
	if strings.HasSuffix(body, "/") {
		r.DirOnly = true
		body = strings.TrimSuffix(body, "/")
	}
	if strings.HasPrefix(body, "/") {
		r.Anchored = true
		body = strings.TrimPrefix(body, "/")
	}
	if body == "" {
		return Rule{}, false
	}
	r.body = body

	if r.Anchored {
		r.variants = compileAll(body, body+"/*")
	} else {
		r.variants = compileAll(body, "*/"+body, body+"/*", "*/"+body+"/*")
	}
	return r, true
}

// ParseRules reads ignore lines from r in order.
func ParseRules(r io.Reader) ([]Rule, error) {
	var rules []Rule
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		if rule, ok := ParseRule(sc.Text()); ok {
			rules = append(rules, rule)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read ignore rules: %w", err)
	}
	return rules, nil
}

// ParsePatterns turns in-memory patterns (flags, config) into rules.
func ParsePatterns(patterns []string) []Rule {
	rules := make([]Rule, 0, len(patterns))
	for _, p := range patterns {
		if rule, ok := ParseRule(p); ok {
			rules = append(rules, rule)
		}
	}
	return rules
}

// LoadFile loads rules from an ignore file. A missing file yields no rules.
func LoadFile(fs afero.Fs, path string) ([]Rule, error) {
	f, err := fs.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open ignore file %s: %w", path, err)
	}
	defer f.Close()
	return ParseRules(f)
}

// WithDefaults appends the version-control directory rule unless the rule
// list already names it.
func WithDefaults(rules []Rule) []Rule {
	for _, r := range rules {
		if r.Pattern == constants.GitDir || r.Pattern == constants.GitDir+"/" {
			return rules
		}
	}
	gitRule, _ := ParseRule(constants.GitDir + "/")
	return append(rules, gitRule)
}

// matches reports whether the normalized path (with a trailing slash for
// directories) is hit by this rule, ignoring negation.
func (r Rule) matches(path string) bool {
	for _, g := range r.variants {
		if g.Match(path) {
			return true
		}
	}
	if r.Anchored {
		return false
	}
	return strings.Contains("/"+path+"/", "/"+r.body+"/")
}

func compileAll(patterns ...string) []glob.Glob {
	out := make([]glob.Glob, 0, len(patterns))
	for _, p := range patterns {
		out = append(out, compile(p))
	}
	return out
}

// compile builds an fnmatch-style glob: no separators, so "*" also crosses
// "/". Braces are not alternation in fnmatch and are escaped; anything that
// still fails to compile is matched literally.
func compile(pattern string) glob.Glob {
	escaped := strings.NewReplacer("{", `\{`, "}", `\}`, `\`, `\\`).Replace(pattern)
	if g, err := glob.Compile(escaped); err == nil {
		return g
	}
	return glob.MustCompile(glob.QuoteMeta(pattern))
}
