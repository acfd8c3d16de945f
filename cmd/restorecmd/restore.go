// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package restorecmd

import (
	"fmt"
	"path/filepath"

	"github.com/luxfi/flattener/cmd/flags"
	"github.com/luxfi/flattener/pkg/application"
	"github.com/luxfi/flattener/pkg/config"
	"github.com/luxfi/flattener/pkg/constants"
	"github.com/luxfi/flattener/pkg/restore"
	"github.com/luxfi/flattener/pkg/snapshot"
	"github.com/luxfi/flattener/pkg/ux"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var app *application.Flattener

var (
	input   flags.SnapshotInput
	target  string
	force   bool
	skip    bool
	verbose bool
)

// flattener restore
func NewCmd(injectedApp *application.Flattener) *cobra.Command {
	app = injectedApp
	input = flags.SnapshotInput{}
	cmd := &cobra.Command{
		Use:   "restore",
		Short: "Recreate a directory tree from a snapshot",
		Long: `The restore command writes every file stored in a snapshot below the target
directory, creating directories as needed.

The input may be a JSON snapshot, a compressed text snapshot, a list of part
files given in order, or - for standard input. When the named file does not
exist, its numbered parts (<name>_part1.txt, ...) are used instead.

When files already exist you are asked whether to overwrite or skip them.
--force and --skip answer that question up front; the restore.policy config
key sets a default.`,
		Example: `  flattener restore -i snap.json -t ./restored
  flattener restore -i snap.txt -t ./restored --skip
  cat snap_part*.txt | flattener restore -i - -t ./restored`,
		Args:         cobra.NoArgs,
		RunE:         restoreSnapshot,
		SilenceUsage: true,
	}

	flags.AddSnapshotInputFlags(cmd, &input)
	cmd.Flags().StringVarP(&target, "target", "t", "", "directory to restore into")
	cmd.Flags().BoolVar(&force, "force", false, "overwrite existing files without asking")
	cmd.Flags().BoolVar(&skip, "skip", false, "keep existing files without asking")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "list every restored file")
	_ = cmd.MarkFlagRequired("target")

	return cmd
}

// conflictPolicy applies restore.policy when neither --force nor --skip was given.
func conflictPolicy() (bool, bool, error) {
	if force || skip {
		return force, skip, nil
	}
	policy := app.Conf.GetConfigStringValue(config.RestorePolicyKey)
	if err := config.ValidatePolicy(policy); err != nil {
		return false, false, err
	}
	return policy == constants.PolicyForce, policy == constants.PolicySkip, nil
}

func restoreSnapshot(cmd *cobra.Command, _ []string) error {
	forceAll, skipAll, err := conflictPolicy()
	if err != nil {
		return err
	}

	snap, err := flags.LoadSnapshot(app, &input)
	if err != nil {
		return err
	}
	ux.Logger.PrintToUser("Snapshot: %d files, %s", snap.FileCount(), snapshot.FormatBytes(snap.Metadata.TotalSize))

	abs, err := filepath.Abs(target)
	if err != nil {
		abs = target
	}
	ux.Logger.PrintToUser("\nRestoring to: %s", abs)

	opts := restore.Options{
		Force:    forceAll,
		Skip:     skipAll,
		Resolver: restore.NewPromptResolver(app.Prompt, ux.Logger.PrintToUser),
		Log:      app.Log,
	}
	if verbose {
		opts.OnFile = func(relPath string) {
			ux.Logger.PrintToUser("  %s", relPath)
		}
	}
	res, err := restore.Restore(cmd.Context(), app.FS, snap, target, opts)
	if err != nil {
		return err
	}
	if res.Canceled {
		ux.Logger.PrintToUser("Restore canceled, nothing was written")
		return nil
	}

	for _, f := range res.Failures {
		ux.Logger.RedXToUser("%s", f.Error())
	}
	ux.Logger.PrintToUser("\nDone! Restored: %d, Skipped: %d, Errors: %d", res.Restored, res.Skipped, res.Errors)
	app.Log.Info("restore finished",
		zap.String("target", abs),
		zap.Int("restored", res.Restored),
		zap.Int("skipped", res.Skipped),
		zap.Int("errors", res.Errors))

	if !res.Success() {
		return fmt.Errorf("%w: %d of %d files failed", constants.ErrRestoreFailures, res.Errors, snap.FileCount())
	}
	return nil
}
