package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory_SetAndGet(t *testing.T) {
	ctx := context.Background()
	c := NewMemory("reports")

	require.NoError(t, c.Set(ctx, "transfers", []byte(`{"ok":true}`), time.Minute))

	payload, err := c.Get(ctx, "transfers")
	require.NoError(t, err)
	assert.Equal(t, []byte(`{"ok":true}`), payload)
}

func TestMemory_Miss(t *testing.T) {
	c := NewMemory("")
	_, err := c.Get(context.Background(), "absent")
	assert.ErrorIs(t, err, ErrMiss)
}

func TestMemory_Expiry(t *testing.T) {
	ctx := context.Background()
	c := NewMemory("")
	current := time.Date(2025, time.September, 1, 10, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return current }

	require.NoError(t, c.Set(ctx, "transfers", []byte("stale"), 30*time.Second))

	_, err := c.Get(ctx, "transfers")
	require.NoError(t, err)

	current = current.Add(time.Minute)
	_, err = c.Get(ctx, "transfers")
	assert.ErrorIs(t, err, ErrMiss)
}

func TestMemory_ZeroTTLNeverExpires(t *testing.T) {
	ctx := context.Background()
	c := NewMemory("")
	current := time.Date(2025, time.September, 1, 10, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return current }

	require.NoError(t, c.Set(ctx, "pinned", []byte("v"), 0))
	current = current.AddDate(1, 0, 0)

	payload, err := c.Get(ctx, "pinned")
	require.NoError(t, err)
	assert.Equal(t, []byte("v"), payload)
}

func TestMemory_Delete(t *testing.T) {
	ctx := context.Background()
	c := NewMemory("")
	require.NoError(t, c.Set(ctx, "transfers", []byte("v"), time.Minute))
	require.NoError(t, c.Delete(ctx, "transfers"))

	_, err := c.Get(ctx, "transfers")
	assert.ErrorIs(t, err, ErrMiss)
}

func TestNew_SelectsDriver(t *testing.T) {
	c, err := New(context.Background(), Config{Driver: "memory", Prefix: "x"})
	require.NoError(t, err)
	_, ok := c.(*Memory)
	assert.True(t, ok)

	_, err = New(context.Background(), Config{Driver: "bogus"})
	assert.Error(t, err)
}
