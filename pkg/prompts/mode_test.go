// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package prompts

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func withTTY(t *testing.T, tty bool) {
	t.Helper()
	orig := stdinIsTTY
	stdinIsTTY = func() bool { return tty }
	t.Cleanup(func() { stdinIsTTY = orig })
}

func TestIsInteractive_EnvVar(t *testing.T) {
	tests := []struct {
		envValue string
		expected bool
	}{
		{"1", false},
		{"true", false},
		{"YES", false},
		{" on ", false},
		{"0", true},
		{"false", true},
		{"no", true},
		{"", true},
	}

	for _, tc := range tests {
		t.Run("FLATTENER_NON_INTERACTIVE="+tc.envValue, func(t *testing.T) {
			withTTY(t, true)
			t.Setenv(EnvCI, "")
			t.Setenv(EnvNonInteractive, tc.envValue)
			require.Equal(t, tc.expected, IsInteractive())
		})
	}
}

func TestIsInteractive_CI(t *testing.T) {
	withTTY(t, true)
	t.Setenv(EnvNonInteractive, "")
	t.Setenv(EnvCI, "true")
	require.False(t, IsInteractive())
}

func TestIsInteractive_NoTTY(t *testing.T) {
	withTTY(t, false)
	t.Setenv(EnvNonInteractive, "")
	t.Setenv(EnvCI, "")
	require.False(t, IsInteractive())
}

func TestIsNonInteractive_Flag(t *testing.T) {
	withTTY(t, true)
	t.Setenv(EnvNonInteractive, "")
	t.Setenv(EnvCI, "")
	require.True(t, IsNonInteractive(true))
	require.False(t, IsNonInteractive(false))
}

func TestNewPrompterForMode(t *testing.T) {
	withTTY(t, true)
	t.Setenv(EnvNonInteractive, "")
	t.Setenv(EnvCI, "")

	p := NewPrompterForMode(true)
	_, ok := p.(*NonInteractivePrompter)
	require.True(t, ok, "expected NonInteractivePrompter in non-interactive mode")

	p = NewPrompterForMode(false)
	_, ok = p.(*realPrompter)
	require.True(t, ok, "expected realPrompter on a TTY")
}
