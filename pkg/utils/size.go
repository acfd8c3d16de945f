// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package utils

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

var ErrInvalidSize = errors.New("invalid size")

var sizeMultipliers = map[byte]float64{
	'k': 1 << 10,
	'm': 1 << 20,
	'g': 1 << 30,
}

// ParseSize parses a byte count such as "4096", "400k", "1.5M" or "2g".
// Suffixes are case-insensitive and use 1024 multipliers; fractional results
// are truncated.
func ParseSize(s string) (int64, error) {
	str := strings.ToLower(strings.TrimSpace(s))
	if str == "" {
		return 0, fmt.Errorf("%w: empty value", ErrInvalidSize)
	}

	mult, ok := sizeMultipliers[str[len(str)-1]]
	if !ok {
		n, err := strconv.ParseInt(str, 10, 64)
		if err != nil || n < 0 {
			return 0, fmt.Errorf("%w: %q", ErrInvalidSize, s)
		}
		return n, nil
	}

	f, err := strconv.ParseFloat(str[:len(str)-1], 64)
	if err != nil || f < 0 || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidSize, s)
	}
	v := f * mult
	if v >= math.MaxInt64 {
		return 0, fmt.Errorf("%w: %q is too large", ErrInvalidSize, s)
	}
	return int64(v), nil
}
