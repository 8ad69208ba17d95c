package reconcile

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edvin/mitra-admin/internal/model"
)

type item struct {
	ID     int64
	Status string
}

func itemKey(it item) int64 { return it.ID }

// backend is a paginated fake of the server side of a list.
type backend struct {
	mu    sync.Mutex
	items []item
	limit int
	calls int
	hook  func(page int)
}

func (b *backend) fetch(_ context.Context, page int) (*model.Page[item], error) {
	b.mu.Lock()
	b.calls++
	hook := b.hook
	items := append([]item(nil), b.items...)
	b.mu.Unlock()

	if hook != nil {
		hook(page)
	}
	total := (len(items) + b.limit - 1) / b.limit
	p := &model.Page[item]{TotalPages: total, CurrentPage: page}
	p.Normalize()
	start := (p.CurrentPage - 1) * b.limit
	end := min(start+b.limit, len(items))
	if start < end {
		p.Data = items[start:end]
	}
	return p, nil
}

func (b *backend) set(id int64, status string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i := range b.items {
		if b.items[i].ID == id {
			b.items[i].Status = status
		}
	}
}

func newBackend(n, limit int) *backend {
	b := &backend{limit: limit}
	for i := 1; i <= n; i++ {
		b.items = append(b.items, item{ID: int64(i), Status: "pending"})
	}
	return b
}

func loaded(t *testing.T, b *backend, opts ...Option) *List[int64, item] {
	t.Helper()
	l := New(itemKey, b.fetch, opts...)
	require.NoError(t, l.Reload(context.Background()))
	return l
}

func setStatus(status string) func(item) item {
	return func(it item) item {
		it.Status = status
		return it
	}
}

func TestPatch_UpdatesInPlace(t *testing.T) {
	b := newBackend(3, 10)
	l := loaded(t, b)
	calls := b.calls

	err := l.Patch(context.Background(), 2, func(context.Context) error {
		b.set(2, "approved")
		return nil
	}, setStatus("approved"))
	require.NoError(t, err)

	assert.Equal(t, []item{
		{ID: 1, Status: "pending"},
		{ID: 2, Status: "approved"},
		{ID: 3, Status: "pending"},
	}, l.Items())
	assert.Equal(t, calls, b.calls, "no refetch after a successful mutation")
}

func TestPatch_FailureResyncs(t *testing.T) {
	b := newBackend(3, 10)
	l := loaded(t, b)

	// Someone else changed item 3 on the server meanwhile.
	b.set(3, "rejected")

	callErr := errors.New("server said no")
	err := l.Patch(context.Background(), 2, func(context.Context) error { return callErr }, setStatus("approved"))
	require.ErrorIs(t, err, callErr)

	assert.Equal(t, []item{
		{ID: 1, Status: "pending"},
		{ID: 2, Status: "pending"},
		{ID: 3, Status: "rejected"},
	}, l.Items())
}

func TestPatch_FailureAndResyncFailure(t *testing.T) {
	b := newBackend(1, 10)
	l := loaded(t, b)

	fetchErr := errors.New("offline")
	l.fetch = func(context.Context, int) (*model.Page[item], error) { return nil, fetchErr }

	callErr := errors.New("server said no")
	err := l.Patch(context.Background(), 1, func(context.Context) error { return callErr }, setStatus("approved"))
	assert.ErrorIs(t, err, callErr)
	assert.ErrorIs(t, err, fetchErr)
	assert.Equal(t, "pending", l.Items()[0].Status)
}

func TestPatch_CanceledSkipsResync(t *testing.T) {
	b := newBackend(2, 10)
	l := loaded(t, b)
	calls := b.calls

	ctx, cancel := context.WithCancel(context.Background())
	err := l.Patch(ctx, 1, func(ctx context.Context) error {
		cancel()
		return ctx.Err()
	}, setStatus("approved"))

	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, calls, b.calls)
	assert.Equal(t, "pending", l.Items()[0].Status)
}

func TestPatch_OutOfOrderResponseIsDropped(t *testing.T) {
	b := newBackend(1, 10)
	l := loaded(t, b)

	firstIssued := make(chan struct{})
	releaseFirst := make(chan struct{})
	done := make(chan error, 1)

	go func() {
		done <- l.Patch(context.Background(), 1, func(context.Context) error {
			close(firstIssued)
			<-releaseFirst
			return nil
		}, setStatus("rejected"))
	}()

	<-firstIssued
	require.NoError(t, l.Patch(context.Background(), 1, func(context.Context) error { return nil }, setStatus("approved")))
	close(releaseFirst)
	require.NoError(t, <-done)

	assert.Equal(t, "approved", l.Items()[0].Status)
}

func TestPatch_UnknownIDIsNoop(t *testing.T) {
	b := newBackend(2, 10)
	l := loaded(t, b)

	require.NoError(t, l.Patch(context.Background(), 99, func(context.Context) error { return nil }, setStatus("approved")))
	assert.Len(t, l.Items(), 2)
}

func TestRemove(t *testing.T) {
	b := newBackend(3, 10)
	l := loaded(t, b)

	require.NoError(t, l.Remove(context.Background(), 2, func(context.Context) error { return nil }))
	assert.Equal(t, []item{{ID: 1, Status: "pending"}, {ID: 3, Status: "pending"}}, l.Items())

	callErr := errors.New("not found")
	err := l.Remove(context.Background(), 1, func(context.Context) error { return callErr })
	assert.ErrorIs(t, err, callErr)
	// resync restores the server's view, which still has item 2
	assert.Len(t, l.Items(), 3)
}

func TestRefocus_GuardWindow(t *testing.T) {
	b := newBackend(2, 10)
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	l := loaded(t, b, WithClock(func() time.Time { return now }), WithGuardWindow(time.Second))

	require.NoError(t, l.Patch(context.Background(), 1, func(context.Context) error { return nil }, setStatus("approved")))
	calls := b.calls

	now = now.Add(500 * time.Millisecond)
	reloaded, err := l.Refocus(context.Background())
	require.NoError(t, err)
	assert.False(t, reloaded)
	assert.Equal(t, calls, b.calls)
	assert.Equal(t, "approved", l.Items()[0].Status)

	now = now.Add(time.Second)
	reloaded, err = l.Refocus(context.Background())
	require.NoError(t, err)
	assert.True(t, reloaded)
	// the backend never saw the change, so server truth wins again
	assert.Equal(t, "pending", l.Items()[0].Status)
}

func TestRefocus_DiscardsReloadRacingAMutation(t *testing.T) {
	b := newBackend(2, 10)
	l := loaded(t, b, WithGuardWindow(0))

	b.hook = func(int) {
		b.hook = nil
		require.NoError(t, l.Patch(context.Background(), 1, func(context.Context) error { return nil }, setStatus("approved")))
	}

	reloaded, err := l.Refocus(context.Background())
	require.NoError(t, err)
	assert.False(t, reloaded)
	assert.Equal(t, "approved", l.Items()[0].Status)
}

func TestLoadMore(t *testing.T) {
	b := newBackend(25, 10)
	l := loaded(t, b)

	page, total := l.Page()
	assert.Equal(t, 1, page)
	assert.Equal(t, 3, total)
	assert.True(t, l.HasMore())

	more, err := l.LoadMore(context.Background())
	require.NoError(t, err)
	assert.True(t, more)
	assert.Len(t, l.Items(), 20)

	more, err = l.LoadMore(context.Background())
	require.NoError(t, err)
	assert.True(t, more)
	assert.Len(t, l.Items(), 25)
	assert.False(t, l.HasMore())

	more, err = l.LoadMore(context.Background())
	require.NoError(t, err)
	assert.False(t, more)
}

func TestLoadMore_BeforeFirstLoad(t *testing.T) {
	b := newBackend(25, 10)
	l := New(itemKey, b.fetch)

	more, err := l.LoadMore(context.Background())
	require.NoError(t, err)
	assert.False(t, more)
	assert.Equal(t, 0, b.calls)
}

func TestLoadMore_SkipsDuplicates(t *testing.T) {
	b := newBackend(20, 10)
	l := loaded(t, b)

	// A new item at the head shifts page 2 right by one, repeating item 10.
	b.mu.Lock()
	b.items = append([]item{{ID: 100, Status: "pending"}}, b.items...)
	b.mu.Unlock()

	_, err := l.LoadMore(context.Background())
	require.NoError(t, err)

	items := l.Items()
	assert.Len(t, items, 19)
	seen := map[int64]bool{}
	for _, it := range items {
		assert.False(t, seen[it.ID], "duplicate id %d", it.ID)
		seen[it.ID] = true
	}
}

func TestLoadMore_DiscardedByReload(t *testing.T) {
	b := newBackend(20, 10)
	l := loaded(t, b)

	b.hook = func(page int) {
		if page == 2 {
			b.hook = nil
			require.NoError(t, l.Reload(context.Background()))
		}
	}

	more, err := l.LoadMore(context.Background())
	require.NoError(t, err)
	assert.False(t, more)
	assert.Len(t, l.Items(), 10)
}
