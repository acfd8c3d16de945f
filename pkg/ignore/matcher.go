// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package ignore

import (
	"strings"
)

// Matcher decides whether relative paths are excluded by an ordered rule list.
// It holds no mutable state and is safe for concurrent use.
type Matcher struct {
	rules []Rule
}

func NewMatcher(rules []Rule) *Matcher {
	return &Matcher{rules: rules}
}

// Rules returns the rules in evaluation order.
func (m *Matcher) Rules() []Rule {
	return m.rules
}

// Match reports whether path is excluded. The last rule that matches wins;
// a matching negated rule re-includes the path.
func (m *Matcher) Match(path string, isDir bool) bool {
	return Matches(path, m.rules, isDir)
}

// Matches is the functional form of Matcher.Match.
func Matches(path string, rules []Rule, isDir bool) bool {
	p := Normalize(path)
	if isDir && !strings.HasSuffix(p, "/") {
		p += "/"
	}

	excluded := false
	for _, r := range rules {
		if r.DirOnly && !isDir {
			continue
		}
		if r.matches(p) {
			excluded = !r.Negate
		}
	}
	return excluded
}

// Normalize converts a relative path to forward slashes without a leading "./".
func Normalize(path string) string {
	p := strings.ReplaceAll(path, `\`, "/")
	for strings.HasPrefix(p, "./") {
		p = p[2:]
	}
	return p
}
