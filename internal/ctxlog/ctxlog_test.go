package ctxlog

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromContext(t *testing.T) {
	t.Parallel()

	t.Run("returns the stored logger", func(t *testing.T) {
		logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
		ctx := WithLogger(context.Background(), logger)
		assert.Same(t, logger, FromContext(ctx))
	})

	t.Run("panics without a logger", func(t *testing.T) {
		assert.PanicsWithValue(t, "ctxlog: logger missing from context", func() {
			FromContext(context.Background())
		})
	})
}

func TestWith(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	var buf bytes.Buffer
	ctx := WithLogger(context.Background(), slog.New(slog.NewTextHandler(&buf, nil)))

	// --- Act ---
	ctx = With(ctx, "phase", "Update")
	FromContext(ctx).Info("Phase ran.")

	// --- Assert ---
	require.NotEmpty(t, buf.String())
	assert.Contains(t, buf.String(), "phase=Update")
	assert.Contains(t, buf.String(), `msg="Phase ran."`)
}
