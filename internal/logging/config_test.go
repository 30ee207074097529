package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	var testCases = []struct {
		description string
		config      Config
		expectErr   bool
	}{
		{description: "default", config: DefaultConfig()},
		{description: "json debug", config: Config{Level: "debug", Format: FormatJSON}},
		{description: "bad level", config: Config{Level: "loud"}, expectErr: true},
		{description: "bad format", config: Config{Level: "info", Format: "xml"}, expectErr: true},
	}
	for _, testCase := range testCases {
		t.Run(testCase.description, func(t *testing.T) {
			logger, err := New(testCase.config, &bytes.Buffer{})
			if testCase.expectErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			expected, _ := logrus.ParseLevel(testCase.config.Level)
			assert.Equal(t, expected, logger.GetLevel())
		})
	}
}

func TestNew_JSON(t *testing.T) {
	buf := &bytes.Buffer{}
	logger, err := New(Config{Level: "info", Format: FormatJSON}, buf)
	require.NoError(t, err)
	logger.WithField("task", "hough").Info("configured")
	logger.Debug("hidden")

	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "hough", entry["task"])
	assert.Equal(t, "configured", entry["msg"])
	assert.Equal(t, "info", entry["level"])
}
