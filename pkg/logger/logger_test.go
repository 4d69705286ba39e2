package logger_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dentamate/clinicauth/pkg/logger"
)

func TestNew_JSONOutput(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(
		logger.WithOutput(&buf),
		logger.WithService("authd", "production"),
	)

	log.Info("started", logger.UserID("u-1"))

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))

	assert.Equal(t, "started", record["msg"])
	assert.Equal(t, "authd", record["service"])
	assert.Equal(t, "production", record["env"])
	assert.Equal(t, "u-1", record["user_id"])
}

func TestNew_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(
		logger.WithOutput(&buf),
		logger.WithLevel(slog.LevelWarn),
	)

	log.Info("suppressed")
	assert.Empty(t, buf.String())

	log.Warn("kept")
	assert.Contains(t, buf.String(), "kept")
}

func TestNew_DevelopmentPreset(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(
		logger.WithOutput(&buf),
		logger.WithService("authd", "development"),
	)

	log.Debug("verbose")
	assert.Contains(t, buf.String(), "verbose", "development preset keeps debug records")
	assert.NotContains(t, buf.String(), "{", "development preset is text format")
}

func TestErrorAttr(t *testing.T) {
	assert.Equal(t, slog.Attr{}, logger.Error(nil))

	attr := logger.Error(errors.New("boom"))
	assert.Equal(t, "error", attr.Key)
}
