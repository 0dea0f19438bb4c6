// Package runner drives the per-file reformat state machine over a run's
// candidate files.
package runner

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.trai.ch/refmt/internal/core/domain"
	"go.trai.ch/refmt/internal/core/ports"
	"go.trai.ch/zerr"
	"golang.org/x/sync/errgroup"
)

// Params holds the run-wide settings of a Runner.
type Params struct {
	// BaseDir is the directory cache keys are computed relative to.
	BaseDir string
	// LineEnding is the run's line-ending mode.
	LineEnding domain.LineEndingMode
	// Jobs bounds the number of files processed concurrently. Values
	// below 1 mean sequential processing.
	Jobs int
}

// Runner processes candidate files: it decides per file whether to skip,
// format, write, or fail, updates the hash cache, and aggregates a report.
type Runner struct {
	engine    ports.Engine
	cache     ports.HashCache
	hasher    ports.Hasher
	codec     ports.Codec
	telemetry ports.Telemetry
	logger    ports.Logger

	baseDir    string
	lineEnding domain.LineEndingMode
	jobs       int
}

// New creates a Runner. The base directory is canonicalized once so cache
// keys are stable regardless of the invocation working directory.
func New(
	engine ports.Engine,
	cache ports.HashCache,
	hasher ports.Hasher,
	codec ports.Codec,
	telemetry ports.Telemetry,
	logger ports.Logger,
	params Params,
) *Runner {
	jobs := params.Jobs
	if jobs < 1 {
		jobs = 1
	}
	return &Runner{
		engine:     engine,
		cache:      cache,
		hasher:     hasher,
		codec:      codec,
		telemetry:  telemetry,
		logger:     logger,
		baseDir:    canonicalPath(params.BaseDir),
		lineEnding: params.LineEnding,
		jobs:       jobs,
	}
}

// Run processes every candidate file in list order, persists the cache
// exactly once, and returns the aggregate report. Per-file failures are
// recovered locally; a cache-persistence failure is reported as a warning.
func (r *Runner) Run(ctx context.Context, files []string) domain.Report {
	start := time.Now()

	var mu sync.Mutex
	var report domain.Report

	g := new(errgroup.Group)
	g.SetLimit(r.jobs)
	for _, file := range files {
		g.Go(func() error {
			out := r.processRecorded(ctx, file)
			mu.Lock()
			report.Record(out.Kind)
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	if err := r.cache.Persist(); err != nil {
		r.logger.Warn("cannot store hash cache file: " + err.Error())
	}

	report.Elapsed = time.Since(start)
	return report
}

// processRecorded wraps Process with a telemetry vertex and failure logging.
func (r *Runner) processRecorded(ctx context.Context, file string) domain.Outcome {
	_, vertex := r.telemetry.Record(ctx, r.relKey(file))

	var out domain.Outcome
	if err := ctx.Err(); err != nil {
		out = domain.Outcome{Path: file, Kind: domain.OutcomeFailed, Err: err}
	} else {
		out = r.Process(ctx, file)
	}

	switch out.Kind {
	case domain.OutcomeSkippedCached:
		vertex.Cached()
		vertex.Complete(nil)
	case domain.OutcomeFailed:
		vertex.Complete(out.Err)
		r.logger.Error(zerr.With(zerr.Wrap(out.Err, "failed to format file"), "path", file))
	default:
		vertex.Log(out.Kind.String())
		vertex.Complete(nil)
	}
	return out
}

// Process runs the per-file state machine and returns the outcome. A failed
// file's cache entry is left untouched.
func (r *Runner) Process(_ context.Context, file string) domain.Outcome {
	fail := func(err error) domain.Outcome {
		return domain.Outcome{Path: file, Kind: domain.OutcomeFailed, Err: err}
	}

	info, err := os.Stat(file)
	if err != nil {
		return fail(err)
	}

	raw, err := os.ReadFile(file) //nolint:gosec // Path comes from the file selector
	if err != nil {
		return fail(err)
	}
	text, err := r.codec.Decode(raw)
	if err != nil {
		return fail(err)
	}
	originalHash := r.hasher.Sum(raw)

	key := r.relKey(file)
	if cached, ok := r.cache.Get(key); ok && cached == originalHash {
		return domain.Outcome{Path: file, Kind: domain.OutcomeSkippedCached}
	}

	separator, ok := r.lineEnding.Resolve(text)
	if !ok {
		separator = domain.DefaultSeparator()
	}

	edits, err := r.engine.Format(text, separator)
	if err != nil {
		return fail(err)
	}
	if edits == nil {
		// Not applicable. The cache entry stays untouched so the file is
		// retried on every run.
		return domain.Outcome{Path: file, Kind: domain.OutcomeSkippedNotApplicable}
	}

	formatted, err := domain.ApplyEdits(text, edits)
	if err != nil {
		return fail(err)
	}
	encoded, err := r.codec.Encode(formatted)
	if err != nil {
		return fail(err)
	}

	formattedHash := r.hasher.Sum(encoded)
	if formattedHash == originalHash {
		// Recorded even though nothing is rewritten, so the next run
		// short-circuits at the cache lookup.
		r.cache.Put(key, formattedHash)
		return domain.Outcome{Path: file, Kind: domain.OutcomeSkippedUnchanged}
	}

	if err := writeFile(file, encoded, info.Mode()); err != nil {
		return fail(err)
	}
	r.cache.Put(key, formattedHash)
	return domain.Outcome{Path: file, Kind: domain.OutcomeFormatted}
}

// relKey computes the cache key: the file's canonical path relative to the
// canonical base directory, slash-separated.
func (r *Runner) relKey(file string) string {
	canonical := canonicalPath(file)
	rel, err := filepath.Rel(r.baseDir, canonical)
	if err != nil {
		return filepath.ToSlash(canonical)
	}
	return filepath.ToSlash(rel)
}

func canonicalPath(p string) string {
	abs, err := filepath.Abs(p)
	if err != nil {
		return filepath.Clean(p)
	}
	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		return resolved
	}
	return abs
}

func writeFile(path string, data []byte, mode fs.FileMode) error {
	if err := os.WriteFile(path, data, mode.Perm()); err != nil {
		return zerr.Wrap(err, "failed to write formatted file")
	}
	return nil
}
