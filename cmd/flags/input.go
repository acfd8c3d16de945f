// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package flags

import (
	"errors"
	"fmt"
	"strings"

	"github.com/luxfi/flattener/pkg/application"
	"github.com/luxfi/flattener/pkg/snapshot"
	"github.com/luxfi/flattener/pkg/utils"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const (
	inputFlag     = "input"
	clipboardFlag = "clipboard"
)

var errNoInput = errors.New("an input is required: pass -i <file|->, or --clipboard")

// SnapshotInput is where restore and info read a snapshot from.
type SnapshotInput struct {
	Paths     []string
	Clipboard bool
}

// Name describes the input for display.
func (in *SnapshotInput) Name() string {
	if in.Clipboard {
		return "clipboard"
	}
	return strings.Join(in.Paths, ", ")
}

// AddSnapshotInputFlags registers -i/--input and --clipboard on cmd and
// validates that exactly one source was given.
func AddSnapshotInputFlags(cmd *cobra.Command, in *SnapshotInput) {
	cmd.Flags().StringArrayVarP(&in.Paths, inputFlag, "i", nil,
		"snapshot file, repeated for parts in order; - reads stdin; a missing path is looked up as <base>_partN")
	cmd.Flags().BoolVar(&in.Clipboard, clipboardFlag, false, "read the snapshot text from the clipboard")

	existingPreRunE := cmd.PreRunE
	cmd.PreRunE = func(cmd *cobra.Command, args []string) error {
		if existingPreRunE != nil {
			if err := existingPreRunE(cmd, args); err != nil {
				return err
			}
		}
		return ValidateSnapshotInput(in)
	}
}

func ValidateSnapshotInput(in *SnapshotInput) error {
	switch {
	case in.Clipboard && len(in.Paths) > 0:
		return fmt.Errorf("--%s and --%s are mutually exclusive", inputFlag, clipboardFlag)
	case !in.Clipboard && len(in.Paths) == 0:
		return errNoInput
	}
	return nil
}

// LoadSnapshot reads and decodes the snapshot named by in.
func LoadSnapshot(app *application.Flattener, in *SnapshotInput) (*snapshot.Snapshot, error) {
	if in.Clipboard {
		text, err := utils.ReadClipboard()
		if err != nil {
			return nil, err
		}
		app.Log.Debug("decoding snapshot from clipboard", zap.Int("bytes", len(text)))
		return snapshot.Decode([]byte(text))
	}
	paths, err := snapshot.ResolveInputs(app.FS, in.Paths)
	if err != nil {
		return nil, err
	}
	app.Log.Debug("decoding snapshot", zap.Strings("files", paths))
	data, err := snapshot.ReadInputs(app.FS, paths, app.Stdin)
	if err != nil {
		return nil, err
	}
	return snapshot.Decode(data)
}
