package tenant

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTenantContext(t *testing.T) {
	t.Run("should carry tenant through context", func(t *testing.T) {
		ctx := WithTenant(context.Background(), "tenant-7")

		id, ok := FromContext(ctx)
		require.True(t, ok)
		assert.Equal(t, "tenant-7", id)
	})

	t.Run("should report missing tenant", func(t *testing.T) {
		_, ok := FromContext(context.Background())
		assert.False(t, ok)

		_, err := Require(context.Background())
		assert.ErrorIs(t, err, ErrNoTenant)
	})

	t.Run("should treat empty tenant as missing", func(t *testing.T) {
		ctx := WithTenant(context.Background(), "")

		_, ok := FromContext(ctx)
		assert.False(t, ok)
	})
}

func TestVerifyOwnership(t *testing.T) {
	t.Run("should accept entity of the context tenant", func(t *testing.T) {
		ctx := WithTenant(context.Background(), "tenant-7")

		assert.NoError(t, VerifyOwnership(ctx, "tenant-7"))
	})

	t.Run("should reject entity of another tenant", func(t *testing.T) {
		ctx := WithTenant(context.Background(), "tenant-7")

		err := VerifyOwnership(ctx, "tenant-9")

		var mismatch *MismatchError
		require.ErrorAs(t, err, &mismatch)
		assert.Equal(t, "tenant-7", mismatch.ContextTenant)
		assert.Equal(t, "tenant-9", mismatch.EntityTenant)
	})

	t.Run("should fail without tenant in context", func(t *testing.T) {
		assert.ErrorIs(t, VerifyOwnership(context.Background(), "tenant-7"), ErrNoTenant)
	})
}

func TestCorrelationContext(t *testing.T) {
	t.Run("should carry correlation and causation", func(t *testing.T) {
		ctx := WithCorrelation(context.Background(), "corr-1", "cause-1")

		corrID, ok := CorrelationID(ctx)
		require.True(t, ok)
		assert.Equal(t, "corr-1", corrID)

		causID, ok := CausationID(ctx)
		require.True(t, ok)
		assert.Equal(t, "cause-1", causID)
	})

	t.Run("should keep existing correlation on ensure", func(t *testing.T) {
		ctx := WithCorrelation(context.Background(), "corr-1", "")

		ctx = EnsureCorrelation(ctx)

		corrID, _ := CorrelationID(ctx)
		assert.Equal(t, "corr-1", corrID)
	})

	t.Run("should generate correlation when absent", func(t *testing.T) {
		ctx := EnsureCorrelation(context.Background())

		corrID, ok := CorrelationID(ctx)
		require.True(t, ok)
		assert.NotEmpty(t, corrID)
	})

	t.Run("should carry actor when present", func(t *testing.T) {
		ctx := WithActor(context.Background(), "user-42")

		actor, ok := Actor(ctx)
		require.True(t, ok)
		assert.Equal(t, "user-42", actor)

		_, ok = Actor(context.Background())
		assert.False(t, ok)
	})
}
