package redisx

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClaim(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := New(mr.Addr())
	ctx := context.Background()
	key := fmt.Sprintf(KeyDedup, "test", "evt-1")

	ok, err := Claim(ctx, rdb, key, "1", TTLDedup)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = Claim(ctx, rdb, key, "1", TTLDedup)
	require.NoError(t, err)
	assert.False(t, ok)

	assert.True(t, mr.Exists(key))

	mr.FastForward(TTLDedup + time.Second)
	assert.False(t, mr.Exists(key))

	ok, err = Claim(ctx, rdb, key, "1", TTLDedup)
	require.NoError(t, err)
	assert.True(t, ok)
}
