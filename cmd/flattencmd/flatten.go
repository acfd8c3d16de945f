// Copyright (C) 2022-2025, Lux Industries Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package flattencmd

import (
	"fmt"
	"path/filepath"

	"github.com/luxfi/flattener/pkg/application"
	"github.com/luxfi/flattener/pkg/config"
	"github.com/luxfi/flattener/pkg/constants"
	"github.com/luxfi/flattener/pkg/ignore"
	"github.com/luxfi/flattener/pkg/snapshot"
	"github.com/luxfi/flattener/pkg/status"
	"github.com/luxfi/flattener/pkg/utils"
	"github.com/luxfi/flattener/pkg/ux"
	"github.com/luxfi/flattener/pkg/walker"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var app *application.Flattener

var (
	source      string
	output      string
	verbose     bool
	useBase64   bool
	noTests     bool
	maxSize     string
	ignoreFile  string
	excludes    []string
	workers     int
	toClipboard bool
)

// flags bound to config keys; explicit flags win over the config file
var boundFlags = map[string]string{
	"base64":      config.Base64Key,
	"no-tests":    config.NoTestsKey,
	"max-size":    config.MaxSizeKey,
	"ignore-file": config.IgnoreFileKey,
	"exclude":     config.ExcludeKey,
	"workers":     config.WorkersKey,
}

// flattener flatten
func NewCmd(injectedApp *application.Flattener) *cobra.Command {
	app = injectedApp
	cmd := &cobra.Command{
		Use:   "flatten",
		Short: "Serialize a directory tree into a snapshot file",
		Long: `The flatten command walks a source directory and writes every text file it
finds into one snapshot.

Files matched by the source's ignore file (.gitignore by default) and by
--exclude patterns are left out, as are binary files and the .git directory.
--no-tests also drops test files.

By default the snapshot is pretty-printed JSON. With --base64 it is gzip
compressed and base64 encoded into 76 column text that survives copy and
paste; --max-size additionally splits that text into numbered part files
(<name>_part1.txt, <name>_part2.txt, ...).`,
		Example: `  flattener flatten -s ./myproject -o snap.json
  flattener flatten -s ./myproject -o snap.txt --base64 --no-tests
  flattener flatten -s ./myproject -o snap.txt --base64 -m 400k -e '*.lock'`,
		Args:         cobra.NoArgs,
		RunE:         flattenProject,
		SilenceUsage: true,
	}

	cmd.Flags().StringVarP(&source, "source", "s", "", "source directory to flatten")
	cmd.Flags().StringVarP(&output, "output", "o", "", "snapshot file to write")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "list every included and skipped file")
	cmd.Flags().BoolVar(&useBase64, "base64", false, "write gzip compressed base64 text instead of JSON")
	cmd.Flags().BoolVar(&noTests, "no-tests", false, "exclude test files and directories")
	cmd.Flags().StringVarP(&maxSize, "max-size", "m", "", "split compressed output into parts of at most this size (e.g. 400k, 1.5m)")
	cmd.Flags().StringVar(&ignoreFile, "ignore-file", constants.DefaultIgnoreFile, "ignore file name read from the source root")
	cmd.Flags().StringArrayVarP(&excludes, "exclude", "e", nil, "extra ignore pattern, may be repeated")
	cmd.Flags().IntVar(&workers, "workers", 0, "parallel file readers (0 means one per CPU)")
	cmd.Flags().BoolVar(&toClipboard, "clipboard", false, "also copy a single file compressed snapshot to the clipboard")
	_ = cmd.MarkFlagRequired("source")
	_ = cmd.MarkFlagRequired("output")

	return cmd
}

// settings are the flag values after config defaults were applied.
type settings struct {
	ignoreFile string
	base64     bool
	noTests    bool
	maxSize    int64
	excludes   []string
	workers    int
}

func resolveSettings(cmd *cobra.Command) (settings, error) {
	for flag, key := range boundFlags {
		if err := app.Conf.BindFlag(key, cmd.Flags().Lookup(flag)); err != nil {
			return settings{}, err
		}
	}
	s := settings{
		ignoreFile: app.Conf.GetConfigStringValue(config.IgnoreFileKey),
		base64:     app.Conf.GetConfigBoolValue(config.Base64Key),
		noTests:    app.Conf.GetConfigBoolValue(config.NoTestsKey),
		excludes:   app.Conf.GetConfigStringSlice(config.ExcludeKey),
		workers:    app.Conf.GetConfigIntValue(config.WorkersKey),
	}
	if s.ignoreFile == "" {
		s.ignoreFile = constants.DefaultIgnoreFile
	}
	if raw := app.Conf.GetConfigStringValue(config.MaxSizeKey); raw != "" {
		size, err := utils.ParseSize(raw)
		if err != nil {
			return settings{}, err
		}
		s.maxSize = size
	}
	if s.base64 && s.maxSize > 0 && s.maxSize <= constants.PartHeaderReserve {
		return settings{}, fmt.Errorf("%w: --max-size must be larger than %d bytes", snapshot.ErrPartSize, constants.PartHeaderReserve)
	}
	return s, nil
}

func flattenProject(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	opts, err := resolveSettings(cmd)
	if err != nil {
		return err
	}

	info, err := app.FS.Stat(source)
	if err != nil || !info.IsDir() {
		return fmt.Errorf("%w: %s", constants.ErrSourceNotFound, source)
	}
	if opts.maxSize > 0 && !opts.base64 {
		ux.Logger.PrintToUser("Warning: --max-size only applies with --base64, writing a single JSON file")
	}

	ux.Logger.PrintToUser("Scanning: %s", source)
	rules, err := loadRules(source, opts)
	if err != nil {
		return err
	}

	progress := status.NewProgressTracker(cmd.ErrOrStderr())
	if verbose {
		progress = status.Disabled()
	}

	walkStep := ux.NewStepTracker(ux.Logger)
	walkStep.Start("walk")
	progress.StartStep("Scanning files")
	w := walker.New(app.FS, ignore.NewMatcher(rules), walker.Options{
		ExcludeTests: opts.noTests,
		Workers:      opts.workers,
		OnSkip:       reportSkip,
		Log:          app.Log,
	})
	entries, err := w.Walk(ctx, source)
	if err != nil {
		progress.FailStep("Scanning files", err)
		walkStep.Failed(err.Error())
		return err
	}
	progress.CompleteStep("Scanning files")
	walkStep.Complete(fmt.Sprintf("%d files", len(entries)))
	ux.Logger.PrintToUser("Found %d text files", len(entries))

	bar := progress.CreateProgressBar("Reading files", len(entries))
	buildOpts := snapshot.BuildOptions{
		Source:   source,
		Workers:  opts.workers,
		Progress: bar.Add1,
		Log:      app.Log,
	}
	if verbose {
		buildOpts.OnFile = func(position, total int, relPath string) {
			ux.Logger.PrintToUser("  [%d/%d] %s", position, total, relPath)
		}
	}
	snap, err := snapshot.Build(ctx, app.FS, entries, buildOpts)
	bar.Finish()
	if err != nil {
		return err
	}

	res, err := snapshot.NewWriter(app.FS).Write(snap, output, snapshot.WriteOptions{
		Compressed: opts.base64,
		MaxSize:    opts.maxSize,
	})
	if err != nil {
		return err
	}
	app.Log.Info("snapshot written",
		zap.String("output", output),
		zap.Int("files", snap.FileCount()),
		zap.Int("parts", len(res.Parts)))

	printSummary(snap, res)

	if toClipboard {
		copyToClipboard(res)
	}
	return nil
}

func loadRules(root string, opts settings) ([]ignore.Rule, error) {
	path := filepath.Join(root, opts.ignoreFile)
	rules, err := ignore.LoadFile(app.FS, path)
	if err != nil {
		return nil, err
	}
	if exists, _ := afero.Exists(app.FS, path); exists {
		ux.Logger.PrintToUser("Using %s rules (%d patterns)", opts.ignoreFile, len(rules))
	}
	rules = ignore.WithDefaults(rules)
	if len(opts.excludes) > 0 {
		app.Log.Debug("extra exclude patterns", zap.Strings("patterns", opts.excludes))
		rules = append(rules, ignore.ParsePatterns(opts.excludes)...)
	}
	return rules, nil
}

func reportSkip(relPath string, reason walker.SkipReason) {
	switch {
	case !verbose:
	case reason == walker.SkipTest:
		ux.Logger.PrintToUser("  [skip test] %s", relPath)
	case reason == walker.SkipBinary:
		ux.Logger.PrintToUser("  [skip binary] %s", relPath)
	}
	app.Log.Debug("skipped", zap.String("path", relPath), zap.String("reason", string(reason)))
}

func printSummary(snap *snapshot.Snapshot, res *snapshot.WriteResult) {
	total := snap.Metadata.TotalSize
	files := snap.FileCount()

	switch {
	case res.Split:
		ux.Logger.PrintToUser("\nDone! Files: %d, Size: %s", files, snapshot.FormatBytes(total))
		ux.Logger.PrintToUser("Split into %d parts:", len(res.Parts))
		for _, p := range res.Parts {
			ux.Logger.PrintToUser("  Part %d: %s -> %s", p.Number, snapshot.FormatBytes(p.Bytes), p.Path)
		}
		ux.Logger.PrintToUser("\nTo restore: Concatenate all parts (copy-paste in order), then use restore command")
	case res.Compressed:
		ux.Logger.PrintToUser("\nDone! Files: %d, Size: %s -> %s",
			files, snapshot.FormatBytes(total), snapshot.FormatBytes(res.OutputSize))
		ux.Logger.PrintToUser("Compression ratio: %.1f%%", compressionRatio(total, res.OutputSize))
		ux.Logger.PrintToUser("Output: %s (base64-gzip, copyable text)", output)
	default:
		ux.Logger.PrintToUser("\nDone! Files: %d, Size: %s -> %s",
			files, snapshot.FormatBytes(total), snapshot.FormatBytes(res.OutputSize))
		ux.Logger.PrintToUser("Output: %s", output)
	}
}

// compressionRatio is the share of the original size saved, in percent.
func compressionRatio(original, written int64) float64 {
	if original <= 0 {
		return 0
	}
	return (1 - float64(written)/float64(original)) * 100
}

func copyToClipboard(res *snapshot.WriteResult) {
	if res.Split {
		ux.Logger.PrintToUser("Clipboard copy skipped: output was split into %d parts", len(res.Parts))
		return
	}
	data, err := afero.ReadFile(app.FS, output)
	if err != nil {
		ux.Logger.RedXToUser("Clipboard copy failed: %s", err)
		return
	}
	if err := utils.WriteClipboard(string(data)); err != nil {
		ux.Logger.RedXToUser("Clipboard copy failed: %s", err)
		return
	}
	ux.Logger.GreenCheckmarkToUser("Copied %s to the clipboard", snapshot.FormatBytes(int64(len(data))))
}
