// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package restore

import (
	"fmt"

	"github.com/luxfi/flattener/pkg/constants"
)

// Decision is the answer to a set of conflicting files
type Decision int

const (
	Overwrite Decision = iota
	Skip
	Cancel
)

func (d Decision) String() string {
	switch d {
	case Overwrite:
		return "overwrite"
	case Skip:
		return "skip"
	case Cancel:
		return "cancel"
	}
	return fmt.Sprintf("Decision(%d)", int(d))
}

// ConflictResolver decides what happens to target files that already exist.
// It is asked at most once per restore with every conflicting relative path.
type ConflictResolver interface {
	Resolve(conflicts []string) (Decision, error)
}

// ResolverFunc adapts a function to ConflictResolver.
type ResolverFunc func(conflicts []string) (Decision, error)

func (f ResolverFunc) Resolve(conflicts []string) (Decision, error) {
	return f(conflicts)
}

// Always returns a resolver that answers d without asking.
func Always(d Decision) ConflictResolver {
	return ResolverFunc(func([]string) (Decision, error) { return d, nil })
}

// ListPrompter is the part of prompts.Prompter the prompt resolver needs.
type ListPrompter interface {
	CaptureList(promptStr string, options []string) (string, error)
}

type promptResolver struct {
	prompt ListPrompter
	printf func(format string, args ...interface{})
}

// NewPromptResolver asks the operator through p. printf receives the list
// of example conflicts shown before the question.
func NewPromptResolver(p ListPrompter, printf func(format string, args ...interface{})) ConflictResolver {
	return &promptResolver{prompt: p, printf: printf}
}

func (r *promptResolver) Resolve(conflicts []string) (Decision, error) {
	r.printf("Found %d existing files that would be overwritten:", len(conflicts))
	for i, c := range conflicts {
		if i == constants.MaxConflictExamples {
			r.printf("  ... and %d more", len(conflicts)-constants.MaxConflictExamples)
			break
		}
		r.printf("  - %s", c)
	}

	choice, err := r.prompt.CaptureList(
		"How do you want to proceed?",
		[]string{constants.OverwriteAll, constants.SkipAll, constants.Cancel},
	)
	if err != nil {
		return Cancel, err
	}
	switch choice {
	case constants.OverwriteAll:
		return Overwrite, nil
	case constants.SkipAll:
		return Skip, nil
	default:
		return Cancel, nil
	}
}
