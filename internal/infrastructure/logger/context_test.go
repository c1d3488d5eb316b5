package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithContext(t *testing.T) {
	logger, err := NewForEnvironment("development")
	require.NoError(t, err)

	ctx := WithContext(context.Background(), logger)

	retrieved := FromContext(ctx)
	assert.Same(t, logger, retrieved)
}

func TestFromContext_NotFound(t *testing.T) {
	logger := FromContext(context.Background())

	// Should return a no-op logger rather than nil
	assert.NotNil(t, logger)
}

func TestWithRequestID(t *testing.T) {
	logger, err := NewForEnvironment("development")
	require.NoError(t, err)

	ctx, enriched := WithRequestID(context.Background(), logger, "req-123")

	assert.NotNil(t, enriched)
	assert.Equal(t, "req-123", GetRequestID(ctx))
	assert.Same(t, enriched, FromContext(ctx))
}

func TestGetRequestID_NotSet(t *testing.T) {
	assert.Empty(t, GetRequestID(context.Background()))
}
