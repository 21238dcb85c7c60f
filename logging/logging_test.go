package logging

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultLoggerLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriterLogger(&buf, WarnLevel)

	l.Debug("hidden")
	l.Info("hidden")
	assert.Empty(t, buf.String())

	l.Warn("shown")
	assert.Contains(t, buf.String(), "[WARN] shown")
}

func TestDefaultLoggerFieldsAreSorted(t *testing.T) {
	var buf bytes.Buffer
	l := NewWriterLogger(&buf, DebugLevel).WithFields(Fields{"component": "bark"})

	l.Error(errors.New("boom"), "projection failed", Fields{"bins": 2001, "a": 1})

	assert.Equal(t, "[ERROR] projection failed: boom a=1 bins=2001 component=bark\n", buf.String())
}

func TestWithContextPicksUpFields(t *testing.T) {
	var buf bytes.Buffer
	ctx := ContextWithFields(context.Background(), Fields{"request": "r1"})

	NewWriterLogger(&buf, InfoLevel).WithContext(ctx).Info("hello")

	assert.Equal(t, "[INFO] hello request=r1\n", buf.String())
}

func TestSetGlobalLoggerNil(t *testing.T) {
	prev := GetGlobalLogger()
	t.Cleanup(func() { SetGlobalLogger(prev) })

	SetGlobalLogger(nil)
	_, ok := GetGlobalLogger().(*NoOpLogger)
	assert.True(t, ok)
}
