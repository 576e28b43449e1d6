package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	gormlogger "gorm.io/gorm/logger"

	"github.com/erp-mx/backend/internal/infrastructure/config"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.LogConfig
	}{
		{"json to stdout", config.LogConfig{Level: "info", Format: "json", Output: "stdout"}},
		{"console to stderr", config.LogConfig{Level: "debug", Format: "console", Output: "stderr"}},
		{"unknown level falls back to info", config.LogConfig{Level: "verbose", Format: "json", Output: "stdout"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := New(tt.cfg)
			require.NoError(t, err)
			assert.NotNil(t, l)
		})
	}
}

func TestContextPropagation(t *testing.T) {
	base := zap.NewNop()
	ctx := context.Background()

	assert.NotNil(t, FromContext(ctx), "missing logger yields a no-op, never nil")

	ctx, enriched := WithRequestID(ctx, base, "req-123")
	assert.Equal(t, "req-123", GetRequestID(ctx))
	assert.Same(t, enriched, FromContext(ctx))

	ctx, _ = WithUserID(ctx, base, "user-9")
	assert.Equal(t, "user-9", GetUserID(ctx))
}

func TestMapGormLogLevel(t *testing.T) {
	assert.Equal(t, gormlogger.Silent, MapGormLogLevel("silent"))
	assert.Equal(t, gormlogger.Info, MapGormLogLevel("debug"))
	assert.Equal(t, gormlogger.Warn, MapGormLogLevel("anything-else"))
}
