// Package app implements the application layer for refmt.
package app

import (
	"context"
	"errors"
	"fmt"
	iofs "io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.trai.ch/refmt/internal/adapters/cache"
	"go.trai.ch/refmt/internal/adapters/encoding"
	progrockadapter "go.trai.ch/refmt/internal/adapters/telemetry/progrock"
	"go.trai.ch/refmt/internal/core/domain"
	"go.trai.ch/refmt/internal/core/ports"
	"go.trai.ch/refmt/internal/engine/runner"
	"go.trai.ch/zerr"
)

// Engine option keys populated from run options before the options document
// is merged in.
const (
	optSourceVersion     = "source.version"
	optComplianceVersion = "compliance.version"
	optTargetVersion     = "target.version"
)

// RunOptions carries the run-wide configuration of one reformat run.
type RunOptions struct {
	BaseDir  string
	Includes []string
	Excludes []string

	LineEnding string
	Encoding   string

	// OptionsFile is the path of the formatter options document; empty
	// means engine defaults.
	OptionsFile string
	// CacheDir overrides where the hash cache file lives. Empty means
	// <BaseDir>/.refmt.
	CacheDir string

	Jobs     int
	Skip     bool
	Progress bool

	// Engine version strings, overridable by the options document unless
	// OverrideEngineVersions is set.
	SourceVersion          string
	ComplianceVersion      string
	TargetVersion          string
	OverrideEngineVersions bool
}

// CachePath returns the location of the persisted hash cache for the run.
func (o RunOptions) CachePath() string {
	dir := o.CacheDir
	if dir == "" {
		dir = filepath.Join(o.BaseDir, ".refmt")
	}
	return filepath.Join(dir, cache.FileName)
}

// App wires the run controller together from its ports.
type App struct {
	selector      ports.FileSelector
	hasher        ports.Hasher
	optionsLoader ports.OptionsLoader
	engineFactory ports.EngineFactory
	telemetry     ports.Telemetry
	logger        ports.Logger
}

// New creates a new App instance.
func New(
	selector ports.FileSelector,
	hasher ports.Hasher,
	optionsLoader ports.OptionsLoader,
	engineFactory ports.EngineFactory,
	telemetry ports.Telemetry,
	logger ports.Logger,
) *App {
	return &App{
		selector:      selector,
		hasher:        hasher,
		optionsLoader: optionsLoader,
		engineFactory: engineFactory,
		telemetry:     telemetry,
		logger:        logger,
	}
}

// Run executes one reformat run. It returns an error only for
// configuration-tier failures; per-file failures are recovered inside the
// runner and reflected in the logged report.
func (a *App) Run(ctx context.Context, opts RunOptions) error {
	if opts.Skip {
		a.logger.Info("formatting is skipped")
		return nil
	}

	mode, err := domain.ParseLineEndingMode(opts.LineEnding)
	if err != nil {
		return err
	}

	codec, err := encoding.NewCodec(opts.Encoding)
	if err != nil {
		return err
	}
	if opts.Encoding == "" {
		a.logger.Warn("file encoding has not been set, using utf-8 to format source files")
	} else {
		a.logger.Info(fmt.Sprintf("using %q encoding to format source files", codec.Name()))
	}

	options, err := a.resolveEngineOptions(opts)
	if err != nil {
		return err
	}

	excludes := opts.Excludes
	// The cache file must never be a format candidate, or runs targeting a
	// non-LF separator would rewrite it forever and never converge.
	if rel, relErr := filepath.Rel(opts.BaseDir, opts.CachePath()); relErr == nil && !strings.HasPrefix(rel, "..") {
		excludes = append(excludes, filepath.ToSlash(rel))
	}

	files, err := a.selector.Select(opts.BaseDir, opts.Includes, excludes)
	if err != nil {
		return zerr.Wrap(err, "unable to find files using includes/excludes")
	}
	a.logger.Info(fmt.Sprintf("number of files to be formatted: %d", len(files)))
	if len(files) == 0 {
		return nil
	}

	engine, err := a.engineFactory.New(options)
	if err != nil {
		return zerr.Wrap(err, "failed to construct formatting engine")
	}

	store, err := cache.NewStore(opts.CachePath())
	if err != nil {
		// Best effort: a corrupt cache only costs efficiency.
		a.logger.Warn("cannot load hash cache file: " + err.Error())
	}

	telemetry := a.telemetry
	if opts.Progress {
		recorder := progrockadapter.New()
		defer func() {
			if err := recorder.Close(); err != nil {
				a.logger.Warn("failed to close progress recorder: " + err.Error())
			}
		}()
		telemetry = recorder
	}

	r := runner.New(engine, store, a.hasher, codec, telemetry, a.logger, runner.Params{
		BaseDir:    opts.BaseDir,
		LineEnding: mode,
		Jobs:       opts.Jobs,
	})
	report := r.Run(ctx, files)

	a.logger.Info(fmt.Sprintf("successfully formatted: %d file(s)", report.Formatted))
	a.logger.Info(fmt.Sprintf("failed to format:       %d file(s)", report.Failed))
	a.logger.Info(fmt.Sprintf("skipped:                %d file(s)", report.Skipped))
	a.logger.Info(fmt.Sprintf("approximate time taken: %s", report.Elapsed.Round(time.Millisecond)))
	return nil
}

// Clean removes the persisted hash cache so the next run reformats every
// candidate file. A missing cache file is not an error.
func (a *App) Clean(opts RunOptions) error {
	path := opts.CachePath()
	if err := os.Remove(path); err != nil {
		if errors.Is(err, iofs.ErrNotExist) {
			a.logger.Info("no hash cache file to remove")
			return nil
		}
		return zerr.With(zerr.Wrap(err, "failed to remove hash cache file"), "path", path)
	}
	a.logger.Info("removed hash cache file: " + path)
	return nil
}

// resolveEngineOptions builds the engine option map: run-option versions
// first, then the options document merged over them. When
// OverrideEngineVersions is set the run-option versions win instead.
func (a *App) resolveEngineOptions(opts RunOptions) (map[string]string, error) {
	options := make(map[string]string)
	putVersion := func(key, value string) {
		if value != "" {
			options[key] = value
		}
	}
	putVersion(optSourceVersion, opts.SourceVersion)
	putVersion(optComplianceVersion, opts.ComplianceVersion)
	putVersion(optTargetVersion, opts.TargetVersion)

	if opts.OptionsFile == "" {
		return options, nil
	}

	loaded, err := a.optionsLoader.Load(opts.OptionsFile)
	if err != nil {
		return nil, err
	}
	if opts.OverrideEngineVersions {
		delete(loaded, optSourceVersion)
		delete(loaded, optComplianceVersion)
		delete(loaded, optTargetVersion)
	}
	for k, v := range loaded {
		options[k] = v
	}
	return options, nil
}
