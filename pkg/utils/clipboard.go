// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package utils

import (
	"fmt"

	"github.com/atotto/clipboard"
)

// clipboard access is swapped out in tests
var (
	clipboardRead  = clipboard.ReadAll
	clipboardWrite = clipboard.WriteAll
)

// ReadClipboard returns the text currently on the system clipboard.
func ReadClipboard() (string, error) {
	if clipboard.Unsupported {
		return "", fmt.Errorf("clipboard is not supported on this system")
	}
	text, err := clipboardRead()
	if err != nil {
		return "", fmt.Errorf("failed to read clipboard: %w", err)
	}
	return text, nil
}

// WriteClipboard replaces the system clipboard with text.
func WriteClipboard(text string) error {
	if clipboard.Unsupported {
		return fmt.Errorf("clipboard is not supported on this system")
	}
	if err := clipboardWrite(text); err != nil {
		return fmt.Errorf("failed to write clipboard: %w", err)
	}
	return nil
}

// SetClipboardForTest swaps the clipboard functions and returns a restore func.
func SetClipboardForTest(read func() (string, error), write func(string) error) func() {
	origRead, origWrite, origUnsupported := clipboardRead, clipboardWrite, clipboard.Unsupported
	clipboardRead, clipboardWrite = read, write
	clipboard.Unsupported = false
	return func() {
		clipboardRead, clipboardWrite = origRead, origWrite
		clipboard.Unsupported = origUnsupported
	}
}
