// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package configcmd

import (
	"github.com/luxfi/flattener/pkg/ux"
	"github.com/spf13/cobra"
)

func newSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a configuration value",
		Long: `Set a configuration value in the config file.

Keys:
  flatten.ignore-file - Ignore file name read from the source root
  flatten.base64      - Write compressed text by default (true/false)
  flatten.no-tests    - Exclude test files by default (true/false)
  flatten.max-size    - Default part size, e.g. 400k (empty disables)
  flatten.exclude     - Extra ignore patterns, comma separated
  flatten.workers     - Parallel file readers, 0 means one per CPU
  restore.policy      - Conflict policy: prompt, force or skip

Examples:
  flattener config set flatten.base64 true
  flattener config set flatten.exclude "*.lock,dist/"
  flattener config set restore.policy skip`,
		Args:         cobra.ExactArgs(2),
		RunE:         runSet,
		SilenceUsage: true,
	}
}

func runSet(_ *cobra.Command, args []string) error {
	key := args[0]
	value := args[1]

	if err := app.Conf.SetConfigValue(key, value); err != nil {
		return err
	}
	ux.Logger.PrintToUser("Set %s = %s in %s", key, app.Conf.Format(key), app.Conf.GetConfigPath())
	return nil
}
