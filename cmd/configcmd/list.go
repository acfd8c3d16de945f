// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package configcmd

import (
	"github.com/luxfi/flattener/pkg/config"
	"github.com/luxfi/flattener/pkg/ux"
	"github.com/spf13/cobra"
)

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all configuration values",
		Long: `List all configuration values with their effective values.

Shows the merged configuration from the config file, FLATTENER_ environment
variables and defaults.`,
		Args:         cobra.NoArgs,
		RunE:         runList,
		SilenceUsage: true,
	}
}

func runList(_ *cobra.Command, _ []string) error {
	if app.Conf.ConfigFileExists() {
		ux.Logger.PrintToUser("Config file: %s", app.Conf.GetConfigPath())
	} else {
		ux.Logger.PrintToUser("Config file: %s (not created yet)", app.Conf.GetConfigPath())
	}

	table := ux.NewTable(ux.Logger.Writer(), "Key", "Value", "Description")
	rows := [][]string{}
	for _, k := range config.Keys() {
		rows = append(rows, []string{k.Name, app.Conf.Format(k.Name), k.Usage})
	}
	return ux.AppendRows(table, rows)
}
