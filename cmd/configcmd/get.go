// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package configcmd

import (
	"fmt"

	"github.com/luxfi/flattener/pkg/config"
	"github.com/luxfi/flattener/pkg/ux"
	"github.com/spf13/cobra"
)

func newGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Get a configuration value",
		Long: `Get a configuration value, showing the effective value after merging the
config file, environment and defaults.

Run 'flattener config list' to see every key.

Examples:
  flattener config get flatten.max-size
  flattener config get restore.policy`,
		Args:         cobra.ExactArgs(1),
		RunE:         runGet,
		SilenceUsage: true,
	}
}

func runGet(_ *cobra.Command, args []string) error {
	key := args[0]
	if _, ok := config.LookupKey(key); !ok {
		return fmt.Errorf("%w: %s", config.ErrUnknownKey, key)
	}
	ux.Logger.PrintToUser("%s = %s", key, app.Conf.Format(key))
	return nil
}
