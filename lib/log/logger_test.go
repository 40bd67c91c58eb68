package log_test

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	trimixlog "github.com/fosdem/trimix/lib/log"
	"github.com/stretchr/testify/assert"
)

func TestHandler(t *testing.T) {
	var out bytes.Buffer
	logger := slog.New(trimixlog.NewHandler(&out, &slog.HandlerOptions{Level: slog.LevelInfo}))

	logger.Debug("hidden")
	logger.Info("compiled", slog.String("module", "shaders"))
	logger.With(slog.String("module", "api")).Error("boom")
	logger.Warn("no module")

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	assert.Len(t, lines, 3)
	assert.Contains(t, lines[0], "[shaders] ")
	assert.True(t, strings.HasSuffix(lines[0], "compiled"))
	assert.Contains(t, lines[0], "INFO")
	assert.Contains(t, lines[1], "[api] ")
	assert.Contains(t, lines[1], "ERROR")
	assert.NotRegexp(t, `\[\w+\] `, lines[2])
	assert.NotContains(t, out.String(), "hidden")
}
