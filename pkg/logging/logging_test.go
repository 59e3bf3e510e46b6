package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	logger, zapLogger, err := New("debug", true)
	require.NoError(t, err)
	require.NotNil(t, logger)
	assert.True(t, zapLogger.Core().Enabled(-1))

	_, zapLogger, err = New("WARN", false)
	require.NoError(t, err)
	assert.False(t, zapLogger.Core().Enabled(0))
}

func TestNew_InvalidLevel(t *testing.T) {
	_, _, err := New("loud", false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "loud")
}
