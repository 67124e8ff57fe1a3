package log

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"trace":   LevelTrace,
		"debug":   slog.LevelDebug,
		"":        slog.LevelInfo,
		"info":    slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"error":   slog.LevelError,
		"verbose": slog.LevelInfo,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLevel(in), in)
	}
}

func TestSetupLoggerSplitsStreams(t *testing.T) {
	var stdout, stderr bytes.Buffer
	logger, closers, err := setupLogger("trace", "", "text", &stdout, &stderr)
	require.NoError(t, err)
	assert.Empty(t, closers)

	logger.Log(t.Context(), LevelTrace, "visiting", "name", "Point")
	logger.Info("Generating", "file", "a.h")
	logger.Error("failed", "error", "boom")

	assert.Contains(t, stdout.String(), "level=TRACE")
	assert.Contains(t, stdout.String(), "file=a.h")
	assert.NotContains(t, stdout.String(), "boom")
	assert.Contains(t, stderr.String(), "error=boom")
	assert.NotContains(t, stderr.String(), "Generating")
}

func TestSetupLoggerLevelAndFormat(t *testing.T) {
	var stdout, stderr bytes.Buffer
	logger, _, err := setupLogger("warn", "", "json", &stdout, &stderr)
	require.NoError(t, err)

	logger.Info("hidden")
	logger.Warn("shown", "n", 2)

	lines := strings.Split(strings.TrimSpace(stdout.String()), "\n")
	require.Len(t, lines, 1)
	var rec map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &rec))
	assert.Equal(t, "shown", rec["msg"])
	assert.Equal(t, "WARN", rec["level"])
}

func TestSetupLoggerFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cstub.log")
	var stdout, stderr bytes.Buffer
	logger, closers, err := setupLogger("debug", path, "text", &stdout, &stderr)
	require.NoError(t, err)
	require.Len(t, closers, 1)

	logger.Debug("lowered", "decls", 3)
	require.NoError(t, closers[0].Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "decls=3")
	assert.Contains(t, stderr.String(), "decls=3")
	assert.Empty(t, stdout.String())
}

func TestRawLogger(t *testing.T) {
	NewRaw(nil).Log("ignored.h", "TranslationUnit")

	var buf bytes.Buffer
	raw := NewRaw(&buf)

	var wg sync.WaitGroup
	for _, p := range []string{"a.h", "b.h"} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			raw.Log(p, "TranslationUnit "+p+"\n  TypedefDecl t")
		}()
	}
	wg.Wait()

	out := buf.String()
	assert.Equal(t, 6, strings.Count(out, "\n"))
	assert.Contains(t, out, " a.h\nTranslationUnit a.h\n  TypedefDecl t\n")
	assert.Contains(t, out, " b.h\nTranslationUnit b.h\n  TypedefDecl t\n")
}
