package pager

import (
	"context"
	"errors"
	"net/url"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type item struct {
	ID    int
	Title string
}

func itemKey(it item) int { return it.ID }

// pageOf produces limit items with sequential IDs starting at first.
func pageOf(first, count int) []item {
	out := make([]item, count)
	for i := range out {
		out[i] = item{ID: first + i}
	}
	return out
}

func TestLoadInitial(t *testing.T) {
	t.Run("Exhaustion Boundary", func(t *testing.T) {
		cases := []struct {
			name      string
			count     int
			exhausted bool
		}{
			{"Short Page", 4, true},
			{"Exact Page", 6, false},
			{"Empty Page", 0, true},
		}

		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				p := New(func(ctx context.Context, page, limit int, params url.Values) ([]item, error) {
					return pageOf(1, tc.count), nil
				}, itemKey, 6)

				require.NoError(t, p.LoadInitial(context.Background(), nil))
				assert.Equal(t, tc.count, p.Len())
				assert.Equal(t, tc.exhausted, p.Exhausted())
				assert.Equal(t, 1, p.Page())
			})
		}
	})

	t.Run("Replaces Prior Items", func(t *testing.T) {
		calls := 0
		p := New(func(ctx context.Context, page, limit int, params url.Values) ([]item, error) {
			calls++
			return pageOf(calls*100, 6), nil
		}, itemKey, 6)

		require.NoError(t, p.LoadInitial(context.Background(), nil))
		require.NoError(t, p.LoadInitial(context.Background(), nil))

		items := p.Items()
		require.Len(t, items, 6)
		assert.Equal(t, 200, items[0].ID, "second load must replace, not append")
	})

	t.Run("Failure Leaves Pager Retryable", func(t *testing.T) {
		boom := errors.New("boom")
		fail := true
		p := New(func(ctx context.Context, page, limit int, params url.Values) ([]item, error) {
			if fail {
				return nil, boom
			}
			return pageOf(1, 6), nil
		}, itemKey, 6)

		require.ErrorIs(t, p.LoadInitial(context.Background(), nil), boom)
		assert.ErrorIs(t, p.Err(), boom)
		assert.Equal(t, 0, p.Page())

		fail = false
		require.NoError(t, p.LoadInitial(context.Background(), nil))
		assert.NoError(t, p.Err())
		assert.Equal(t, 6, p.Len())
	})

	t.Run("Stale Completion Is Discarded", func(t *testing.T) {
		release := make(chan struct{})

		first := true
		var mu sync.Mutex
		p := New(func(ctx context.Context, page, limit int, params url.Values) ([]item, error) {
			mu.Lock()
			slow := first
			first = false
			mu.Unlock()
			if slow {
				<-release
				return pageOf(900, 6), nil
			}
			return pageOf(1, 4), nil
		}, itemKey, 6)

		done := make(chan struct{})
		go func() {
			p.LoadInitial(context.Background(), nil)
			close(done)
		}()

		time.Sleep(10 * time.Millisecond)
		require.NoError(t, p.LoadInitial(context.Background(), nil))
		close(release)
		<-done

		items := p.Items()
		require.Len(t, items, 4)
		assert.Equal(t, 1, items[0].ID, "stale first load must not clobber the reset")
		assert.True(t, p.Exhausted())
	})
}

func TestLoadNext(t *testing.T) {
	t.Run("Appends And Advances", func(t *testing.T) {
		p := New(func(ctx context.Context, page, limit int, params url.Values) ([]item, error) {
			return pageOf((page-1)*limit+1, limit), nil
		}, itemKey, 6)

		require.NoError(t, p.LoadInitial(context.Background(), nil))
		require.NoError(t, p.LoadNext(context.Background()))

		assert.Equal(t, 12, p.Len())
		assert.Equal(t, 2, p.Page())
		assert.False(t, p.Exhausted())
	})

	t.Run("Short Second Page Exhausts", func(t *testing.T) {
		p := New(func(ctx context.Context, page, limit int, params url.Values) ([]item, error) {
			if page == 1 {
				return pageOf(1, 6), nil
			}
			return pageOf(7, 4), nil
		}, itemKey, 6)

		require.NoError(t, p.LoadInitial(context.Background(), nil))
		assert.False(t, p.Exhausted())

		require.NoError(t, p.LoadNext(context.Background()))
		assert.Equal(t, 10, p.Len())
		assert.True(t, p.Exhausted())

		// Sentinel re-trigger after exhaustion fetches nothing.
		require.NoError(t, p.LoadNext(context.Background()))
		assert.Equal(t, 10, p.Len())
		assert.Equal(t, 2, p.Page())
	})

	t.Run("No-Op Before Initial Load", func(t *testing.T) {
		calls := 0
		p := New(func(ctx context.Context, page, limit int, params url.Values) ([]item, error) {
			calls++
			return nil, nil
		}, itemKey, 6)

		require.NoError(t, p.LoadNext(context.Background()))
		assert.Equal(t, 0, calls)
	})

	t.Run("Failure Does Not Advance Page", func(t *testing.T) {
		boom := errors.New("boom")
		failNext := false
		p := New(func(ctx context.Context, page, limit int, params url.Values) ([]item, error) {
			if failNext && page == 2 {
				return nil, boom
			}
			return pageOf((page-1)*limit+1, limit), nil
		}, itemKey, 6)

		require.NoError(t, p.LoadInitial(context.Background(), nil))

		failNext = true
		require.ErrorIs(t, p.LoadNext(context.Background()), boom)
		assert.Equal(t, 1, p.Page())
		assert.Equal(t, 6, p.Len())
		assert.False(t, p.Exhausted())

		failNext = false
		require.NoError(t, p.LoadNext(context.Background()))
		assert.Equal(t, 2, p.Page())
		assert.Equal(t, 12, p.Len())
		assert.NoError(t, p.Err())
	})

	t.Run("Concurrent Storm Fetches Once", func(t *testing.T) {
		var fetches atomic.Int32
		release := make(chan struct{})

		p := New(func(ctx context.Context, page, limit int, params url.Values) ([]item, error) {
			if page == 1 {
				return pageOf(1, limit), nil
			}
			fetches.Add(1)
			<-release
			return pageOf((page-1)*limit+1, limit), nil
		}, itemKey, 6)

		require.NoError(t, p.LoadInitial(context.Background(), nil))

		var wg sync.WaitGroup
		for range 20 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				p.LoadNext(context.Background())
			}()
		}

		time.Sleep(20 * time.Millisecond)
		close(release)
		wg.Wait()

		assert.Equal(t, int32(1), fetches.Load(), "guard must admit a single in-flight fetch")
		assert.Equal(t, 2, p.Page(), "page advances exactly once per success")
		assert.Equal(t, 12, p.Len())
	})

	t.Run("Duplicate IDs Across Pages Dropped", func(t *testing.T) {
		p := New(func(ctx context.Context, page, limit int, params url.Values) ([]item, error) {
			if page == 1 {
				return pageOf(1, 6), nil
			}
			// Overlap: item 6 appears again on page two.
			return pageOf(6, 6), nil
		}, itemKey, 6)

		require.NoError(t, p.LoadInitial(context.Background(), nil))
		require.NoError(t, p.LoadNext(context.Background()))

		items := p.Items()
		assert.Len(t, items, 11)
		seen := map[int]bool{}
		for _, it := range items {
			assert.False(t, seen[it.ID], "duplicate ID %d", it.ID)
			seen[it.ID] = true
		}
	})
}
