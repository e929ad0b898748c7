package logger_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"jobboard_backend/internal/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCtxLoggingCarriesRequestAndUser(t *testing.T) {
	var buf bytes.Buffer
	logger.InitWithWriter("production", &buf)
	t.Cleanup(func() { logger.Init("test") })

	ctx := logger.WithUserID(logger.WithRequestID(context.Background(), "req-1"), "user-1")
	logger.CtxWithError(ctx, "Notification delivery failed", errors.New("smtp down"), "recipient_id", "user-2")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "ERROR", entry["level"])
	assert.Equal(t, "req-1", entry["request_id"])
	assert.Equal(t, "user-1", entry["user_id"])
	assert.Equal(t, "smtp down", entry["error"])
	assert.Equal(t, "jobboard", entry["service"])
}

func TestWorkerLog(t *testing.T) {
	var buf bytes.Buffer
	logger.InitWithWriter("production", &buf)
	t.Cleanup(func() { logger.Init("test") })

	logger.WorkerLog("notification_cleanup", "delete", nil, "deleted", 3)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "notification_cleanup", entry["worker"])
	assert.Equal(t, float64(3), entry["deleted"])
}
