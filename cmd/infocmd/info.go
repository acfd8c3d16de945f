// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package infocmd

import (
	"fmt"
	"slices"
	"strings"

	"github.com/luxfi/flattener/cmd/flags"
	"github.com/luxfi/flattener/pkg/application"
	"github.com/luxfi/flattener/pkg/report"
	"github.com/luxfi/flattener/pkg/ux"
	"github.com/spf13/cobra"
)

var (
	app    *application.Flattener
	input  flags.SnapshotInput
	format string
)

// flattener info
func NewCmd(injectedApp *application.Flattener) *cobra.Command {
	app = injectedApp
	input = flags.SnapshotInput{}
	cmd := &cobra.Command{
		Use:   "info",
		Short: "Describe a snapshot without restoring it",
		Long: `The info command prints a snapshot's metadata, the most common file
extensions and the top level directories it contains. Inputs are resolved the
same way restore resolves them.`,
		Example: `  flattener info -i snap.json
  flattener info -i snap.txt --format yaml`,
		Args:         cobra.NoArgs,
		RunE:         printInfo,
		SilenceUsage: true,
	}
	flags.AddSnapshotInputFlags(cmd, &input)
	cmd.Flags().StringVar(&format, "format", report.FormatText,
		fmt.Sprintf("output format (%s)", strings.Join(report.Formats(), ", ")))
	return cmd
}

func printInfo(_ *cobra.Command, _ []string) error {
	if !slices.Contains(report.Formats(), format) {
		return fmt.Errorf("%w: %q", report.ErrUnknownFormat, format)
	}
	snap, err := flags.LoadSnapshot(app, &input)
	if err != nil {
		return err
	}
	return report.Write(ux.Logger.Writer(), format, input.Name(), report.Summarize(snap))
}
