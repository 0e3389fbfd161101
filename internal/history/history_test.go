package history

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"patrio-api/internal/classifier"
	"patrio-api/internal/locate"
)

func entry(ref string) Entry {
	return NewEntry(ref, classifier.Result{BuildingCategory: classifier.Historical, Confidence: 90}, locate.DemoLocation())
}

func TestNewEntry(t *testing.T) {
	e := NewEntry("img.jpg", classifier.Result{IsOfflineAnalysis: true}, locate.DemoLocation())
	_, err := uuid.Parse(e.ID)
	require.NoError(t, err)
	assert.True(t, e.IsOffline)
	assert.False(t, e.Timestamp.IsZero())
	assert.Equal(t, "img.jpg", e.ImageRef)
}

func TestMemoryLog_NewestFirstAndCapped(t *testing.T) {
	ctx := context.Background()
	l := NewMemoryLog(3)
	for i := 0; i < 5; i++ {
		require.NoError(t, l.Append(ctx, entry(fmt.Sprintf("img-%d", i))))
	}
	got, err := l.List(ctx)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "img-4", got[0].ImageRef)
	assert.Equal(t, "img-3", got[1].ImageRef)
	assert.Equal(t, "img-2", got[2].ImageRef)

	// 返回副本
	got[0].ImageRef = "changed"
	again, _ := l.List(ctx)
	assert.Equal(t, "img-4", again[0].ImageRef)

	require.NoError(t, l.Clear(ctx))
	empty, _ := l.List(ctx)
	assert.Empty(t, empty)
}

func TestMemoryLog_DefaultCap(t *testing.T) {
	ctx := context.Background()
	l := NewMemoryLog(0)
	for i := 0; i < DefaultMaxItems+5; i++ {
		require.NoError(t, l.Append(ctx, entry("x")))
	}
	got, _ := l.List(ctx)
	assert.Len(t, got, DefaultMaxItems)
}

func TestMemoryLog_Concurrent(t *testing.T) {
	ctx := context.Background()
	l := NewMemoryLog(100)
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = l.Append(ctx, entry("c"))
		}()
	}
	wg.Wait()
	got, _ := l.List(ctx)
	assert.Len(t, got, 20)
}

// 需要真实 Redis：REDIS_TEST_ADDR=127.0.0.1:6379
func TestRedisLog(t *testing.T) {
	addr := os.Getenv("REDIS_TEST_ADDR")
	if addr == "" {
		t.Skip("REDIS_TEST_ADDR not set")
	}
	ctx := context.Background()
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { _ = rdb.Close() })

	l := NewRedisLog(rdb, "patrio:test_history:"+uuid.NewString(), 2)
	t.Cleanup(func() { _ = l.Clear(ctx) })

	for _, ref := range []string{"a", "b", "c"} {
		require.NoError(t, l.Append(ctx, entry(ref)))
	}
	require.NoError(t, rdb.LPush(ctx, l.key, "{broken").Err())

	got, err := l.List(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "c", got[0].ImageRef)
	assert.Equal(t, classifier.Historical, got[0].Analysis.BuildingCategory)
}
