package logger_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.trai.ch/refmt/internal/adapters/logger"
	"go.trai.ch/zerr"
)

func TestLogger_Levels(t *testing.T) {
	var buf bytes.Buffer
	l := logger.New()
	l.SetOutput(&buf)

	l.Info("processing files")
	l.Warn("cache file corrupt")
	l.Error(zerr.New("write failed"))

	out := buf.String()
	assert.Contains(t, out, "level=INFO")
	assert.Contains(t, out, "processing files")
	assert.Contains(t, out, "level=WARN")
	assert.Contains(t, out, "cache file corrupt")
	assert.Contains(t, out, "level=ERROR")
	assert.Contains(t, out, "write failed")
}
