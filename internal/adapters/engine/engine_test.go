package engine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/refmt/internal/adapters/engine"
	"go.trai.ch/refmt/internal/core/domain"
	"go.trai.ch/refmt/internal/core/ports"
)

func newEngine(t *testing.T, options map[string]string) ports.Engine {
	t.Helper()
	e, err := engine.NewFactory().New(options)
	require.NoError(t, err)
	return e
}

func format(t *testing.T, e ports.Engine, source, sep string) string {
	t.Helper()
	edits, err := e.Format(source, sep)
	require.NoError(t, err)
	require.NotNil(t, edits)
	out, err := domain.ApplyEdits(source, edits)
	require.NoError(t, err)
	return out
}

func TestFactory_Defaults(t *testing.T) {
	e := newEngine(t, nil)
	assert.Equal(t, "a\nb\n", format(t, e, "a \nb", "\n"))
}

func TestFactory_InvalidOptions(t *testing.T) {
	tests := []struct {
		name    string
		options map[string]string
	}{
		{"bad bool", map[string]string{engine.OptTrimTrailingWhitespace: "yep"}},
		{"bad int", map[string]string{engine.OptMaxBlankLines: "many"}},
		{"negative int", map[string]string{engine.OptMaxBlankLines: "-1"}},
		{"bad version", map[string]string{engine.OptSourceVersion: "99"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := engine.NewFactory().New(tt.options)
			require.Error(t, err)
		})
	}
}

func TestFactory_IgnoresUnknownKeys(t *testing.T) {
	_, err := engine.NewFactory().New(map[string]string{"other.tool.option": "x"})
	require.NoError(t, err)
}

func TestEngine_NormalizesSeparators(t *testing.T) {
	e := newEngine(t, nil)
	assert.Equal(t, "a\nb\n", format(t, e, "a\r\nb\r\n", "\n"))
	assert.Equal(t, "a\r\nb\r\n", format(t, e, "a\nb\r", "\r\n"))
}

func TestEngine_TrimsTrailingWhitespace(t *testing.T) {
	e := newEngine(t, nil)
	assert.Equal(t, "a\nb\n", format(t, e, "a\t \nb  \n", "\n"))
}

func TestEngine_TrimDisabled(t *testing.T) {
	e := newEngine(t, map[string]string{engine.OptTrimTrailingWhitespace: "false"})
	assert.Equal(t, "a \n", format(t, e, "a \n", "\n"))
}

func TestEngine_CollapsesBlankLines(t *testing.T) {
	e := newEngine(t, nil)
	assert.Equal(t, "a\n\nb\n", format(t, e, "a\n\n\n\nb\n", "\n"))
}

func TestEngine_MaxBlankLinesZero(t *testing.T) {
	e := newEngine(t, map[string]string{engine.OptMaxBlankLines: "0"})
	assert.Equal(t, "a\nb\n", format(t, e, "a\n\n\nb\n", "\n"))
}

func TestEngine_WhitespaceOnlyLinesAreBlank(t *testing.T) {
	e := newEngine(t, nil)
	assert.Equal(t, "a\n\nb\n", format(t, e, "a\n \n\t\nb\n", "\n"))
}

func TestEngine_FinalNewline(t *testing.T) {
	e := newEngine(t, nil)
	assert.Equal(t, "a\n", format(t, e, "a", "\n"))

	noFinal := newEngine(t, map[string]string{engine.OptFinalNewline: "false"})
	assert.Equal(t, "a", format(t, noFinal, "a", "\n"))
}

func TestEngine_AlreadyFormattedYieldsNoEdits(t *testing.T) {
	e := newEngine(t, nil)
	edits, err := e.Format("a\n\nb\n", "\n")
	require.NoError(t, err)
	require.NotNil(t, edits)
	assert.Empty(t, edits)
}

func TestEngine_EmptyInput(t *testing.T) {
	e := newEngine(t, nil)
	assert.Equal(t, "", format(t, e, "", "\n"))
}

func TestEngine_BinaryContentNotApplicable(t *testing.T) {
	e := newEngine(t, nil)
	edits, err := e.Format("a\x00b", "\n")
	require.NoError(t, err)
	assert.Nil(t, edits)
}

func TestEngine_CRLFTarget(t *testing.T) {
	// End-to-end scenario shape: pure CRLF input stays CRLF.
	e := newEngine(t, nil)
	assert.Equal(t, "a\r\nb\r\n", format(t, e, "a\r\nb \r\n", "\r\n"))
}
