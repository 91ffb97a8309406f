package observability

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLogger(t *testing.T) {
	tests := []struct {
		name    string
		cfg     LogConfig
		wantErr bool
	}{
		{
			name:    "default config",
			cfg:     DefaultLogConfig(),
			wantErr: false,
		},
		{
			name: "debug console to stderr",
			cfg: LogConfig{
				Level:  "debug",
				Format: "console",
				Output: "stderr",
			},
			wantErr: false,
		},
		{
			name: "invalid level",
			cfg: LogConfig{
				Level: "loud",
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := NewLogger(tt.cfg)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, logger)
		})
	}
}

func TestNopLogger(t *testing.T) {
	logger := NopLogger()
	require.NotNil(t, logger)

	// All methods must be safe to call.
	logger.Debug("debug", String("k", "v"))
	logger.Info("info", Int("n", 1))
	logger.Warn("warn", Bool("b", true))
	logger.Error("error", Any("v", struct{}{}))
	require.NotNil(t, logger.With(String("k", "v")))
	assert.NoError(t, logger.Sync())
}

func TestRequestIDContext(t *testing.T) {
	ctx := context.Background()
	assert.Empty(t, RequestIDFromContext(ctx))

	ctx = ContextWithRequestID(ctx, "req-123")
	assert.Equal(t, "req-123", RequestIDFromContext(ctx))
}

func TestLogger_WithContext(t *testing.T) {
	logger := NopLogger()

	plain := logger.WithContext(context.Background())
	require.NotNil(t, plain)

	ctx := ContextWithRequestID(context.Background(), "req-123")
	withID := logger.WithContext(ctx)
	require.NotNil(t, withID)
}
