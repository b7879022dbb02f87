package ctxlog

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromContext(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	ctx := WithLogger(context.Background(), logger)
	assert.Same(t, logger, FromContext(ctx))

	ctx = With(ctx, "document", "logo")
	FromContext(ctx).Info("compiled")
	assert.Contains(t, buf.String(), "document=logo")
	assert.Contains(t, buf.String(), "msg=compiled")
}

func TestFromContext_Missing(t *testing.T) {
	logger := FromContext(context.Background())
	assert.NotNil(t, logger)
	assert.NotPanics(t, func() { logger.Error("dropped") })
}
