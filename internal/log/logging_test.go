package log_test

import (
	"bytes"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Alia5/xkbrev/internal/log"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, log.LevelTrace, log.ParseLevel("trace"))
	assert.Equal(t, slog.LevelDebug, log.ParseLevel("debug"))
	assert.Equal(t, slog.LevelInfo, log.ParseLevel(""))
	assert.Equal(t, slog.LevelWarn, log.ParseLevel("warn"))
	assert.Equal(t, slog.LevelInfo, log.ParseLevel("bogus"))
}

func TestAdjustLevel(t *testing.T) {
	tests := []struct {
		name           string
		level          string
		quiet, verbose bool
		want           string
	}{
		{name: "unchanged", level: "info", want: "info"},
		{name: "verbose", level: "info", verbose: true, want: "debug"},
		{name: "verbose keeps trace", level: "trace", verbose: true, want: "trace"},
		{name: "quiet", level: "info", quiet: true, want: "warn"},
		{name: "quiet keeps error", level: "error", quiet: true, want: "error"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, log.AdjustLevel(tc.level, tc.quiet, tc.verbose))
		})
	}
}

func TestNewLoggerFansOut(t *testing.T) {
	var a, b bytes.Buffer
	logger := log.NewLogger(slog.LevelInfo, &a, &b)

	logger.Debug("hidden")
	logger.Info("shown", "key", "AD01")
	logger.Log(t.Context(), log.LevelTrace, "hidden trace")

	for _, out := range []string{a.String(), b.String()} {
		assert.Contains(t, out, "msg=shown key=AD01")
		assert.NotContains(t, out, "hidden")
	}
}

func TestTraceLevelName(t *testing.T) {
	var buf bytes.Buffer
	logger := log.NewLogger(log.LevelTrace, &buf)
	logger.Log(t.Context(), log.LevelTrace, "deep")
	assert.Contains(t, buf.String(), "level=TRACE")
}

func TestSetupLoggerFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "xkbrev.log")
	logger, closers, err := log.SetupLogger("warn", path)
	require.NoError(t, err)
	require.Len(t, closers, 1)
	logger.Warn("to file")
	require.NoError(t, closers[0].Close())
}

func TestRawLogger(t *testing.T) {
	var buf bytes.Buffer
	raw := log.NewRaw(&buf)
	raw.Log("xkbcomp", []byte("#define NUM_KEYS\t2\n};"))
	raw.Log("xkbcomp", nil)

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "xkbcomp output: 21 bytes")
	assert.Equal(t, "     1  #define NUM_KEYS\t2", lines[1])
	assert.Equal(t, "     2  };", lines[2])

	log.NewRaw(nil).Log("noop", []byte("x"))
}
