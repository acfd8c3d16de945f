// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

// Package status reports progress of long running steps on a terminal.
package status

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
)

// ProgressTracker handles progress reporting and UX. Nothing is written
// unless the writer is a terminal, so piped output stays clean.
type ProgressTracker struct {
	writer         io.Writer
	isTTY          bool
	spinnerChars   []string
	spinnerIndex   int
	lastLineLength int
	startTime      time.Time
	mu             sync.Mutex
}

// NewProgressTracker creates a new progress tracker
func NewProgressTracker(writer io.Writer) *ProgressTracker {
	return newProgressTracker(writer, isTerminal(writer))
}

func newProgressTracker(writer io.Writer, isTTY bool) *ProgressTracker {
	return &ProgressTracker{
		writer:       writer,
		isTTY:        isTTY,
		spinnerChars: []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"},
		startTime:    time.Now(),
	}
}

// Disabled returns a tracker that never writes.
func Disabled() *ProgressTracker {
	return newProgressTracker(io.Discard, false)
}

// isTerminal checks if the writer is a terminal
func isTerminal(w io.Writer) bool {
	if f, ok := w.(*os.File); ok {
		return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	return false
}

// Enabled reports whether the tracker draws anything
func (pt *ProgressTracker) Enabled() bool {
	return pt.isTTY
}

// StartStep begins a new step
func (pt *ProgressTracker) StartStep(stepName string) {
	pt.mu.Lock()
	defer pt.mu.Unlock()

	pt.startTime = time.Now()
	if !pt.isTTY {
		return
	}
	pt.clearLine()
	line := fmt.Sprintf("%s %s...", pt.getSpinner(), stepName)
	fmt.Fprint(pt.writer, line)
	pt.lastLineLength = len([]rune(line))
}

// CompleteStep marks a step as completed
func (pt *ProgressTracker) CompleteStep(stepName string) {
	pt.mu.Lock()
	defer pt.mu.Unlock()

	if !pt.isTTY {
		return
	}
	pt.clearLine()
	fmt.Fprintf(pt.writer, "✓ %s (%.1fs)\n", stepName, time.Since(pt.startTime).Seconds())
	pt.lastLineLength = 0
}

// FailStep marks a step as failed
func (pt *ProgressTracker) FailStep(stepName string, err error) {
	pt.mu.Lock()
	defer pt.mu.Unlock()

	if !pt.isTTY {
		return
	}
	pt.clearLine()
	fmt.Fprintf(pt.writer, "✗ %s: %v\n", stepName, err)
	pt.lastLineLength = 0
}

// getSpinner gets the current spinner character and advances it
func (pt *ProgressTracker) getSpinner() string {
	char := pt.spinnerChars[pt.spinnerIndex]
	pt.spinnerIndex = (pt.spinnerIndex + 1) % len(pt.spinnerChars)
	return char
}

// clearLine clears the current line
func (pt *ProgressTracker) clearLine() {
	if pt.lastLineLength > 0 {
		fmt.Fprint(pt.writer, "\r"+strings.Repeat(" ", pt.lastLineLength)+"\r")
		pt.lastLineLength = 0
	}
}

// Bar counts finished items. A nil Bar is valid and does nothing.
type Bar struct {
	bar *progressbar.ProgressBar
}

// Add1 advances the bar. Safe for concurrent use.
func (b *Bar) Add1() {
	if b == nil {
		return
	}
	_ = b.bar.Add(1)
}

// Finish completes the bar and moves to a new line
func (b *Bar) Finish() {
	if b == nil {
		return
	}
	_ = b.bar.Finish()
}

// CreateProgressBar creates a progress bar for a specific task
func (pt *ProgressTracker) CreateProgressBar(task string, total int) *Bar {
	if !pt.isTTY || total <= 0 {
		return nil
	}

	pt.mu.Lock()
	pt.clearLine()
	pt.mu.Unlock()

	return &Bar{bar: progressbar.NewOptions(
		total,
		progressbar.OptionSetWriter(pt.writer),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(15),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionSetDescription(fmt.Sprintf("[cyan]%s[reset]", task)),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "=",
			SaucerHead:    ">",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)}
}
