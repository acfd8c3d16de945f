// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package prompts

import (
	"errors"

	"github.com/manifoldco/promptui"
)

var errNoOptions = errors.New("no options to choose from")

// promptUISelectRunner is a variable for testing purposes to allow mocking select.Run()
var promptUISelectRunner = func(sel promptui.Select) (int, string, error) {
	return sel.Run()
}

// Prompter asks the operator for decisions the flags did not settle.
type Prompter interface {
	CaptureList(promptStr string, options []string) (string, error)
}

type realPrompter struct{}

// NewPrompter returns a Prompter backed by promptui selects
func NewPrompter() Prompter {
	return &realPrompter{}
}

func (*realPrompter) CaptureList(promptStr string, options []string) (string, error) {
	if len(options) == 0 {
		return "", errNoOptions
	}
	prompt := promptui.Select{
		Label: promptStr,
		Items: options,
	}
	_, listDecision, err := promptUISelectRunner(prompt)
	if err != nil {
		return "", err
	}
	return listDecision, nil
}
