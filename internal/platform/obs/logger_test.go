package obs

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewLogger(t *testing.T) {
	l, err := NewLogger("debug", "console")
	require.NoError(t, err)
	assert.True(t, l.Core().Enabled(zapcore.DebugLevel))

	_, err = NewLogger("loud", "json")
	assert.Error(t, err)

	_, err = NewLogger("info", "xml")
	assert.Error(t, err)
}

func TestWithRequestTagsLogger(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	ctx := WithRequest(context.Background(), zap.New(core), "req-1")

	assert.Equal(t, "req-1", RequestID(ctx))

	Logger(ctx).Info("hello")
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "req-1", logs.All()[0].ContextMap()["req_id"])
}

func TestLoggerFallsBackToGlobal(t *testing.T) {
	assert.NotNil(t, Logger(context.Background()))
	assert.Equal(t, "", RequestID(context.Background()))
}

func TestTimeLogsFailure(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	ctx := WithRequest(context.Background(), zap.New(core), "req-2")

	func() (err error) {
		defer Time(ctx, "listings.find")(&err)
		return errors.New("boom")
	}()

	entries := logs.FilterMessage("op failed").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "listings.find", entries[0].ContextMap()["op"])
	assert.Equal(t, "boom", entries[0].ContextMap()["error"])
}
