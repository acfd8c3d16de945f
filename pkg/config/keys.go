// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/luxfi/flattener/pkg/constants"
	"github.com/luxfi/flattener/pkg/utils"
)

const (
	IgnoreFileKey    = "flatten.ignore-file"
	Base64Key        = "flatten.base64"
	NoTestsKey       = "flatten.no-tests"
	MaxSizeKey       = "flatten.max-size"
	ExcludeKey       = "flatten.exclude"
	WorkersKey       = "flatten.workers"
	RestorePolicyKey = "restore.policy"
)

type Kind int

const (
	KindString Kind = iota
	KindBool
	KindInt
	KindSize
	KindList
	KindPolicy
)

// Key describes one supported configuration setting.
type Key struct {
	Name    string
	Kind    Kind
	Default interface{}
	Usage   string
}

var knownKeys = []Key{
	{IgnoreFileKey, KindString, constants.DefaultIgnoreFile, "ignore file name read from the source root"},
	{Base64Key, KindBool, false, "write compressed base64 text by default"},
	{NoTestsKey, KindBool, false, "exclude test files by default"},
	{MaxSizeKey, KindSize, "", "default max size per part, e.g. 400k"},
	{ExcludeKey, KindList, []string{}, "extra ignore patterns, comma separated"},
	{WorkersKey, KindInt, 0, "parallel file readers, 0 means one per CPU"},
	{RestorePolicyKey, KindPolicy, constants.PolicyPrompt, "conflict policy: prompt, force or skip"},
}

// Keys returns the supported settings in display order.
func Keys() []Key {
	return append([]Key(nil), knownKeys...)
}

// LookupKey finds a supported setting by name.
func LookupKey(name string) (Key, bool) {
	for _, k := range knownKeys {
		if k.Name == name {
			return k, true
		}
	}
	return Key{}, false
}

// Parse converts the textual value into the type stored for the key.
func (k Key) Parse(value string) (interface{}, error) {
	switch k.Kind {
	case KindBool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return nil, fmt.Errorf("%s expects true or false: %w", k.Name, err)
		}
		return b, nil
	case KindInt:
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("%s expects a non-negative integer, got %q", k.Name, value)
		}
		return n, nil
	case KindSize:
		if value == "" {
			return value, nil
		}
		if _, err := utils.ParseSize(value); err != nil {
			return nil, err
		}
		return value, nil
	case KindList:
		var items []string
		for _, item := range strings.Split(value, ",") {
			if item = strings.TrimSpace(item); item != "" {
				items = append(items, item)
			}
		}
		return items, nil
	case KindPolicy:
		if err := ValidatePolicy(value); err != nil {
			return nil, err
		}
		return value, nil
	}
	return value, nil
}

// ValidatePolicy accepts prompt, force and skip.
func ValidatePolicy(policy string) error {
	switch policy {
	case constants.PolicyPrompt, constants.PolicyForce, constants.PolicySkip:
		return nil
	}
	return fmt.Errorf("%w: %q", constants.ErrUnknownPolicy, policy)
}
