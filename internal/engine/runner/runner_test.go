package runner_test

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/refmt/internal/adapters/cache"
	"go.trai.ch/refmt/internal/adapters/encoding"
	engineadapter "go.trai.ch/refmt/internal/adapters/engine"
	"go.trai.ch/refmt/internal/adapters/fs"
	"go.trai.ch/refmt/internal/adapters/logger"
	"go.trai.ch/refmt/internal/adapters/telemetry"
	"go.trai.ch/refmt/internal/core/domain"
	"go.trai.ch/refmt/internal/core/ports"
	"go.trai.ch/refmt/internal/core/ports/mocks"
	"go.trai.ch/refmt/internal/engine/runner"
	"go.trai.ch/zerr"
	"go.uber.org/mock/gomock"
)

type fixture struct {
	baseDir string
	store   *cache.Store
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	baseDir := t.TempDir()
	store, err := cache.NewStore(filepath.Join(baseDir, ".refmt", cache.FileName))
	require.NoError(t, err)
	return &fixture{baseDir: baseDir, store: store}
}

// reload re-opens the persisted cache, as a fresh run would.
func (f *fixture) reload(t *testing.T) {
	t.Helper()
	store, err := cache.NewStore(filepath.Join(f.baseDir, ".refmt", cache.FileName))
	require.NoError(t, err)
	f.store = store
}

func (f *fixture) newRunner(t *testing.T, eng ports.Engine, params runner.Params) *runner.Runner {
	t.Helper()
	codec, err := encoding.NewCodec("")
	require.NoError(t, err)
	log := logger.New()
	log.SetOutput(io.Discard)
	params.BaseDir = f.baseDir
	return runner.New(eng, f.store, fs.NewHasher(), codec, telemetry.NewNoOp(), log, params)
}

func (f *fixture) write(t *testing.T, rel, content string) string {
	t.Helper()
	path := filepath.Join(f.baseDir, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func realEngine(t *testing.T) ports.Engine {
	t.Helper()
	eng, err := engineadapter.NewFactory().New(nil)
	require.NoError(t, err)
	return eng
}

func TestRunner_EndToEndCRLFKeep(t *testing.T) {
	f := newFixture(t)
	path := f.write(t, "A.src", "a \r\nb\r\n")

	r := f.newRunner(t, realEngine(t), runner.Params{LineEnding: domain.LineEndingKeep})
	report := r.Run(context.Background(), []string{path})

	assert.Equal(t, 1, report.Formatted)
	assert.Equal(t, 0, report.Failed)
	assert.Equal(t, 0, report.Skipped)

	// KEEP resolves the pure-CRLF file to CRLF; only the trailing space goes.
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "a\r\nb\r\n", string(content))

	// Second run on the identical resulting file hits the cache.
	f.reload(t)
	r = f.newRunner(t, realEngine(t), runner.Params{LineEnding: domain.LineEndingKeep})
	report = r.Run(context.Background(), []string{path})
	assert.Equal(t, 0, report.Formatted)
	assert.Equal(t, 1, report.Skipped)
}

func TestRunner_Idempotence(t *testing.T) {
	f := newFixture(t)
	files := []string{
		f.write(t, "a.src", "x  \ny\n"),
		f.write(t, "sub/b.src", "p\r\nq"),
		f.write(t, "sub/c.src", "already\nformatted\n"),
	}

	r := f.newRunner(t, realEngine(t), runner.Params{LineEnding: domain.LineEndingLF})
	first := r.Run(context.Background(), files)
	assert.Equal(t, 2, first.Formatted)
	assert.Equal(t, 1, first.Skipped) // c.src is unchanged by formatting
	assert.Equal(t, 0, first.Failed)

	f.reload(t)
	r = f.newRunner(t, realEngine(t), runner.Params{LineEnding: domain.LineEndingLF})
	second := r.Run(context.Background(), files)
	assert.Equal(t, 0, second.Formatted)
	assert.Equal(t, 3, second.Skipped)
	assert.Equal(t, 0, second.Failed)
}

func TestRunner_UnchangedContentIsCachedButNotRewritten(t *testing.T) {
	f := newFixture(t)
	path := f.write(t, "a.src", "stable\n")

	ctrl := gomock.NewController(t)
	eng := mocks.NewMockEngine(ctrl)
	// Edits that reproduce byte-identical content.
	eng.EXPECT().Format(gomock.Any(), gomock.Any()).Return([]domain.Edit{}, nil)

	r := f.newRunner(t, eng, runner.Params{LineEnding: domain.LineEndingLF})
	out := r.Process(context.Background(), path)
	assert.Equal(t, domain.OutcomeSkippedUnchanged, out.Kind)

	hash, ok := f.store.Get("a.src")
	require.True(t, ok)
	assert.Len(t, hash, 16)
}

func TestRunner_NotApplicableLeavesCacheUntouched(t *testing.T) {
	f := newFixture(t)
	path := f.write(t, "a.src", "unparseable\n")

	ctrl := gomock.NewController(t)
	eng := mocks.NewMockEngine(ctrl)
	// The engine declines twice: the file is re-attempted on the next run.
	eng.EXPECT().Format(gomock.Any(), gomock.Any()).Return(nil, nil).Times(2)

	r := f.newRunner(t, eng, runner.Params{LineEnding: domain.LineEndingLF})
	out := r.Process(context.Background(), path)
	assert.Equal(t, domain.OutcomeSkippedNotApplicable, out.Kind)
	_, ok := f.store.Get("a.src")
	assert.False(t, ok)

	out = r.Process(context.Background(), path)
	assert.Equal(t, domain.OutcomeSkippedNotApplicable, out.Kind)
}

func TestRunner_FailureIsolation(t *testing.T) {
	f := newFixture(t)
	good1 := f.write(t, "a.src", "a \n")
	bad := filepath.Join(f.baseDir, "missing.src")
	good2 := f.write(t, "b.src", "b \n")

	r := f.newRunner(t, realEngine(t), runner.Params{LineEnding: domain.LineEndingLF})
	report := r.Run(context.Background(), []string{good1, bad, good2})

	assert.Equal(t, 1, report.Failed)
	assert.Equal(t, 2, report.Formatted)
}

func TestRunner_WriteFailureLeavesCacheUntouched(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("file permissions do not apply to root")
	}

	f := newFixture(t)
	path := f.write(t, "a.src", "a \n")
	f.store.Put("a.src", "feedfacefeedface")
	require.NoError(t, os.Chmod(path, 0o444))

	r := f.newRunner(t, realEngine(t), runner.Params{LineEnding: domain.LineEndingLF})
	out := r.Process(context.Background(), path)
	assert.Equal(t, domain.OutcomeFailed, out.Kind)

	hash, ok := f.store.Get("a.src")
	require.True(t, ok)
	assert.Equal(t, "feedfacefeedface", hash)
}

func TestRunner_FailedFileKeepsOldCacheEntry(t *testing.T) {
	f := newFixture(t)
	path := f.write(t, "a.src", "content\n")
	f.store.Put("a.src", "feedfacefeedface")

	ctrl := gomock.NewController(t)
	eng := mocks.NewMockEngine(ctrl)
	eng.EXPECT().Format(gomock.Any(), gomock.Any()).Return(nil, zerr.New("engine exploded"))

	r := f.newRunner(t, eng, runner.Params{LineEnding: domain.LineEndingLF})
	out := r.Process(context.Background(), path)
	assert.Equal(t, domain.OutcomeFailed, out.Kind)

	hash, ok := f.store.Get("a.src")
	require.True(t, ok)
	assert.Equal(t, "feedfacefeedface", hash)
}

func TestRunner_CacheKeysAreRelativeSlashPaths(t *testing.T) {
	f := newFixture(t)
	path := f.write(t, "sub/dir/a.src", "x \n")

	r := f.newRunner(t, realEngine(t), runner.Params{LineEnding: domain.LineEndingLF})
	report := r.Run(context.Background(), []string{path})
	require.Equal(t, 1, report.Formatted)

	_, ok := f.store.Get("sub/dir/a.src")
	assert.True(t, ok)
}

func TestRunner_KeepTieFallsBackToDefault(t *testing.T) {
	if domain.DefaultSeparator() != "\n" {
		t.Skip("platform default is not LF")
	}
	f := newFixture(t)
	// One LF line and one CRLF line: no strict majority.
	path := f.write(t, "a.src", "a\nb\r\n")

	r := f.newRunner(t, realEngine(t), runner.Params{LineEnding: domain.LineEndingKeep})
	report := r.Run(context.Background(), []string{path})
	require.Equal(t, 1, report.Formatted)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "a\nb\n", string(content))
}

func TestRunner_ParallelJobs(t *testing.T) {
	f := newFixture(t)
	var files []string
	for i := 0; i < 24; i++ {
		files = append(files, f.write(t, filepath.Join("p", string(rune('a'+i))+".src"), "x \n"))
	}

	r := f.newRunner(t, realEngine(t), runner.Params{LineEnding: domain.LineEndingLF, Jobs: 4})
	report := r.Run(context.Background(), files)

	assert.Equal(t, 24, report.Formatted)
	assert.Equal(t, 24, report.Total())
}

func TestRunner_PersistsCacheOnce(t *testing.T) {
	f := newFixture(t)
	path := f.write(t, "a.src", "x \n")

	r := f.newRunner(t, realEngine(t), runner.Params{LineEnding: domain.LineEndingLF})
	r.Run(context.Background(), []string{path})

	data, err := os.ReadFile(filepath.Join(f.baseDir, ".refmt", cache.FileName))
	require.NoError(t, err)
	assert.Contains(t, string(data), "a.src=")
}

func TestRunner_TelemetryVertices(t *testing.T) {
	f := newFixture(t)
	path := f.write(t, "a.src", "x\n")

	// Prime the cache so the file is a cache hit.
	r := f.newRunner(t, realEngine(t), runner.Params{LineEnding: domain.LineEndingLF})
	r.Run(context.Background(), []string{path})

	ctrl := gomock.NewController(t)
	tel := mocks.NewMockTelemetry(ctrl)
	vertex := mocks.NewMockVertex(ctrl)
	tel.EXPECT().Record(gomock.Any(), "a.src").Return(context.Background(), vertex)
	vertex.EXPECT().Cached()
	vertex.EXPECT().Complete(nil)

	codec, err := encoding.NewCodec("")
	require.NoError(t, err)
	log := logger.New()
	log.SetOutput(io.Discard)
	r2 := runner.New(realEngine(t), f.store, fs.NewHasher(), codec, tel, log,
		runner.Params{BaseDir: f.baseDir, LineEnding: domain.LineEndingLF})
	r2.Run(context.Background(), []string{path})
}

func TestRunner_CanceledContextFailsRemainingFiles(t *testing.T) {
	f := newFixture(t)
	path := f.write(t, "a.src", "x \n")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := f.newRunner(t, realEngine(t), runner.Params{LineEnding: domain.LineEndingLF})
	report := r.Run(ctx, []string{path})
	assert.Equal(t, 1, report.Failed)
}
