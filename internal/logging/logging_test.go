// ABOUTME: Tests for logger construction.
// ABOUTME: Covers level parsing and format selection.
package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNewDefaults(t *testing.T) {
	l, err := New("", "")
	require.NoError(t, err)
	assert.True(t, l.Core().Enabled(zapcore.InfoLevel))
	assert.False(t, l.Core().Enabled(zapcore.DebugLevel))
}

func TestNewLevels(t *testing.T) {
	for _, format := range []string{FormatConsole, FormatJSON} {
		l, err := New("debug", format)
		require.NoError(t, err, format)
		assert.True(t, l.Core().Enabled(zapcore.DebugLevel), format)

		l, err = New("error", format)
		require.NoError(t, err, format)
		assert.False(t, l.Core().Enabled(zapcore.WarnLevel), format)
	}
}

func TestNewRejectsBadInput(t *testing.T) {
	_, err := New("loud", FormatConsole)
	assert.Error(t, err)

	_, err = New("info", "xml")
	assert.Error(t, err)
}
