// Copyright (C) 2022, Lux Partners Limited, All rights reserved.
// See the file LICENSE for licensing terms.

package testutils

import (
	"io"
	"testing"

	"github.com/luxfi/flattener/pkg/application"
	"github.com/luxfi/flattener/pkg/config"
	"github.com/luxfi/flattener/pkg/prompts"
	"github.com/luxfi/flattener/pkg/ux"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func SetupTest(t *testing.T) *require.Assertions {
	// use io.Discard to not print anything
	ux.NewUserLog(zap.NewNop(), io.Discard)
	return require.New(t)
}

// SetupTestApp returns an application backed by an in-memory filesystem
// that never prompts.
func SetupTestApp(t *testing.T) *application.Flattener {
	fs := afero.NewMemMapFs()
	conf := config.New(fs)
	require.NoError(t, conf.Load(config.DefaultPath("/home")))

	app := application.New()
	app.Setup("/home", zap.NewNop(), conf, prompts.NewNonInteractivePrompter(), fs)
	ux.NewUserLog(zap.NewNop(), io.Discard)
	return app
}
