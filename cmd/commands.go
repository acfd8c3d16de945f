// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

// Command names exported for testing
const (
	// FlattenCmd is the flatten command name
	FlattenCmd = "flatten"

	// RestoreCmd is the restore command name
	RestoreCmd = "restore"

	// InfoCmd is the info command name
	InfoCmd = "info"

	// ConfigCmd is the config command name
	ConfigCmd = "config"
)
