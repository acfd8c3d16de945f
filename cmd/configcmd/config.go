// Copyright (C) 2022, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package configcmd

import (
	"github.com/luxfi/flattener/pkg/application"
	"github.com/luxfi/flattener/pkg/ux"
	"github.com/spf13/cobra"
)

var app *application.Flattener

func NewCmd(injectedApp *application.Flattener) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Modify configuration for flattener",
		Long: `Customize default flag values for flattener.

Settings are stored in $FLATTENER_HOME/config.yaml (or the file passed with
--config) and can be overridden with FLATTENER_ environment variables, e.g.
FLATTENER_FLATTEN_BASE64=true. Flags always win.`,
		Run: func(cmd *cobra.Command, args []string) {
			err := cmd.Help()
			if err != nil {
				ux.Logger.PrintToUser("%s", err)
			}
		},
	}
	app = injectedApp
	cmd.AddCommand(newGetCmd())
	cmd.AddCommand(newSetCmd())
	cmd.AddCommand(newListCmd())

	return cmd
}
