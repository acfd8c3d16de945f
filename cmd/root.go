// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/luxfi/flattener/cmd/configcmd"
	"github.com/luxfi/flattener/cmd/flattencmd"
	"github.com/luxfi/flattener/cmd/infocmd"
	"github.com/luxfi/flattener/cmd/restorecmd"
	"github.com/luxfi/flattener/pkg/application"
	"github.com/luxfi/flattener/pkg/config"
	"github.com/luxfi/flattener/pkg/constants"
	"github.com/luxfi/flattener/pkg/prompts"
	"github.com/luxfi/flattener/pkg/ux"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	app     *application.Flattener
	logFile io.Closer

	logLevel       string
	Version        = "1.0.0"
	cfgFile        string
	nonInteractive bool
	debugFlag      bool
	quietFlag      bool
)

func NewRootCmd() *cobra.Command {
	// rootCmd represents the base command when called without any subcommands
	rootCmd := &cobra.Command{
		Use:   constants.AppName,
		Short: "Flatten a project into one portable snapshot and restore it",
		Long: `flattener serializes a directory tree into a single snapshot and restores it.

Files matched by the source's .gitignore, binary files and (optionally) test
files are left out. The snapshot is plain JSON, or gzip+base64 text that can be
copied through a clipboard or chat window, optionally split into parts.

QUICK START:

  # Flatten a project into compressed text parts of at most 400 KB
  flattener flatten -s ./myproject -o snap.txt --base64 -m 400k

  # Inspect a snapshot (parts are found automatically)
  flattener info -i snap.txt

  # Restore it somewhere else
  flattener restore -i snap.txt -t ./restored`,
		PersistentPreRunE: createApp,
		Version:           Version,
		SilenceErrors:     true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_ = cmd.Help()
			return constants.ErrNoCommand
		},
	}

	// Disable printing the completion command
	rootCmd.CompletionOptions.HiddenDefaultCmd = true

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $FLATTENER_HOME/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level for console output (debug, info, warn, error)")
	rootCmd.PersistentFlags().BoolVar(&nonInteractive, "non-interactive", false,
		"Disable prompts; fail if a decision is needed (also enabled when stdin is not a TTY or CI=1)")
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "Show debug output (debug level logs)")
	rootCmd.PersistentFlags().BoolVar(&quietFlag, "quiet", false, "Show only errors (quiet mode)")

	rootCmd.AddCommand(flattencmd.NewCmd(app))
	rootCmd.AddCommand(restorecmd.NewCmd(app))
	rootCmd.AddCommand(infocmd.NewCmd(app))
	rootCmd.AddCommand(configcmd.NewCmd(app))

	return rootCmd
}

func createApp(cmd *cobra.Command, _ []string) error {
	baseDir, err := setupEnv()
	if err != nil {
		return err
	}
	log, err := setupLogging(baseDir, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	ux.NewUserLog(log, cmd.OutOrStdout())

	fs := afero.NewOsFs()
	cf := config.New(fs)
	path := cfgFile
	if path == "" {
		path = config.DefaultPath(baseDir)
	}
	if err := cf.Load(path); err != nil {
		return err
	}
	if cf.ConfigFileExists() {
		log.Debug("using config file", zap.String("config-file", path))
	}

	// If --non-interactive flag is set, propagate to env so IsInteractive() sees it
	if nonInteractive {
		_ = os.Setenv(prompts.EnvNonInteractive, "1")
	}
	prompter := prompts.NewPrompterForMode(nonInteractive)
	app.Setup(baseDir, log, cf, prompter, fs)
	app.Stdin = cmd.InOrStdin()
	return nil
}

func setupEnv() (string, error) {
	baseDir := os.Getenv(constants.EnvHome)
	if baseDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			// no logger here yet
			return "", fmt.Errorf("unable to find home directory: %w", err)
		}
		baseDir = filepath.Join(home, constants.BaseDirName)
	}

	// Create base dir if it doesn't exist
	if err := os.MkdirAll(baseDir, constants.UserOnlyPerms); err != nil {
		return "", fmt.Errorf("failed creating the basedir %s: %w", baseDir, err)
	}
	return baseDir, nil
}

// displayLevel resolves the console level from --debug, --quiet and
// --log-level, in that order. The default is WARN.
func displayLevel() (zapcore.Level, error) {
	switch {
	case debugFlag:
		return zapcore.DebugLevel, nil
	case quietFlag:
		return zapcore.ErrorLevel, nil
	case logLevel != "":
		lvl, err := zapcore.ParseLevel(logLevel)
		if err != nil {
			return zapcore.WarnLevel, fmt.Errorf("invalid --log-level %q: %w", logLevel, err)
		}
		return lvl, nil
	}
	return zapcore.WarnLevel, nil
}

func setupLogging(baseDir string, console io.Writer) (*zap.Logger, error) {
	display, err := displayLevel()
	if err != nil {
		return nil, err
	}

	logDir := filepath.Join(baseDir, constants.LogDir)
	if err := os.MkdirAll(logDir, constants.UserOnlyPerms); err != nil {
		return nil, fmt.Errorf("failed creating log directory: %w", err)
	}
	rotator := &lumberjack.Logger{
		Filename:   filepath.Join(logDir, constants.LogFileName),
		MaxSize:    constants.MaxLogFileSize,
		MaxBackups: constants.MaxNumOfLogFiles,
		MaxAge:     constants.RetainOldFiles,
	}
	closeLogs()
	logFile = rotator

	fileLevel := zapcore.InfoLevel
	if display < fileLevel {
		fileLevel = display
	}
	fileEncoder := zap.NewProductionEncoderConfig()
	fileEncoder.EncodeTime = zapcore.ISO8601TimeEncoder

	consoleEncoder := zap.NewDevelopmentEncoderConfig()
	consoleEncoder.TimeKey = ""
	consoleEncoder.CallerKey = ""

	core := zapcore.NewTee(
		zapcore.NewCore(zapcore.NewJSONEncoder(fileEncoder), zapcore.AddSync(rotator), fileLevel),
		zapcore.NewCore(zapcore.NewConsoleEncoder(consoleEncoder), zapcore.AddSync(console), display),
	)
	return zap.New(core).Named(constants.AppName), nil
}

func closeLogs() {
	if logFile != nil {
		_ = logFile.Close()
		logFile = nil
	}
}

// Run executes the CLI with args and returns the process exit status.
func Run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	app = application.New()
	rootCmd := NewRootCmd()
	rootCmd.SetArgs(args)
	rootCmd.SetIn(stdin)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	err := rootCmd.Execute()
	if app.Log != nil {
		_ = app.Log.Sync()
	}
	closeLogs()
	if err != nil {
		fmt.Fprintf(stderr, "\nERROR: %s\n", err)
		return 1
	}
	return 0
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	os.Exit(Run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}
