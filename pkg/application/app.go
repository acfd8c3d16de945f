// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.
package application

import (
	"io"
	"os"
	"path/filepath"

	"github.com/luxfi/flattener/pkg/config"
	"github.com/luxfi/flattener/pkg/constants"
	"github.com/luxfi/flattener/pkg/prompts"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// Flattener carries the state every command is built from.
type Flattener struct {
	Log     *zap.Logger
	baseDir string
	Conf    *config.Config
	Prompt  prompts.Prompter
	// FS is where sources are read and snapshots written.
	FS    afero.Fs
	Stdin io.Reader
}

func New() *Flattener {
	return &Flattener{
		Log:   zap.NewNop(),
		FS:    afero.NewOsFs(),
		Stdin: os.Stdin,
	}
}

func (app *Flattener) Setup(baseDir string, log *zap.Logger, conf *config.Config, prompt prompts.Prompter, fs afero.Fs) {
	app.baseDir = baseDir
	app.Log = log
	app.Conf = conf
	app.Prompt = prompt
	app.FS = fs
}

func (app *Flattener) GetBaseDir() string {
	return app.baseDir
}

func (app *Flattener) GetLogDir() string {
	return filepath.Join(app.baseDir, constants.LogDir)
}

func (app *Flattener) GetLogFile() string {
	return filepath.Join(app.GetLogDir(), constants.LogFileName)
}

func (app *Flattener) GetConfigFile() string {
	return config.DefaultPath(app.baseDir)
}

func (app *Flattener) ConfigFileExists() bool {
	return app.Conf != nil && app.Conf.ConfigFileExists()
}
