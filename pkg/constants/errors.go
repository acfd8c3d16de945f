// Copyright (C) 2025, Lux Industries, Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package constants

import "errors"

var (
	ErrSourceNotFound  = errors.New("directory not found")
	ErrNoCommand       = errors.New("no command given")
	ErrRestoreFailures = errors.New("restore finished with errors")
	ErrUnknownPolicy   = errors.New("unknown restore policy")
)
