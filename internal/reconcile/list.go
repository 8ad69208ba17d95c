// Package reconcile keeps a paginated, in-memory copy of a server list in
// step with mutations made against single items.
//
// A successful mutation is applied to the local copy directly instead of
// refetching the list. A failed one leaves the copy untouched and forces a
// reload of the first page. Every mutation carries a sequence number per
// item id, so a response that arrives after a later one for the same id has
// already been applied is dropped.
package reconcile

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/edvin/mitra-admin/internal/model"
)

// DefaultGuardWindow is how long after an applied mutation Refocus skips its
// automatic reload.
const DefaultGuardWindow = 500 * time.Millisecond

// FetchFunc loads one 1-indexed page of the list.
type FetchFunc[T any] func(ctx context.Context, page int) (*model.Page[T], error)

type Option func(*options)

type options struct {
	guard  time.Duration
	now    func() time.Time
	logger zerolog.Logger
}

func WithGuardWindow(d time.Duration) Option {
	return func(o *options) { o.guard = d }
}

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// List is safe for concurrent use. Mutations may be issued from several
// goroutines at once; the network calls run without holding the lock.
type List[K comparable, T any] struct {
	key   func(T) K
	fetch FetchFunc[T]
	opts  options

	mu          sync.Mutex
	items       []T
	page        int
	totalPages  int
	generation  uint64
	seq         uint64
	applied     map[K]uint64
	appliedN    uint64
	lastApplied time.Time
}

// New returns an empty list. Call Reload to fetch the first page.
func New[K comparable, T any](key func(T) K, fetch FetchFunc[T], opts ...Option) *List[K, T] {
	o := options{guard: DefaultGuardWindow, now: time.Now, logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(&o)
	}
	o.logger = o.logger.With().Str("component", "reconcile").Logger()

	return &List[K, T]{
		key:     key,
		fetch:   fetch,
		opts:    o,
		applied: make(map[K]uint64),
	}
}

// Items returns a copy of the current items in display order.
func (l *List[K, T]) Items() []T {
	l.mu.Lock()
	defer l.mu.Unlock()
	return slices.Clone(l.items)
}

// Page returns the last loaded page and the total page count. Both are 0
// before the first load.
func (l *List[K, T]) Page() (page, totalPages int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.page, l.totalPages
}

// HasMore reports whether LoadMore would fetch another page.
func (l *List[K, T]) HasMore() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.page > 0 && l.page < l.totalPages
}

// Reload replaces the items with the first page. A LoadMore in flight when
// Reload completes is discarded.
func (l *List[K, T]) Reload(ctx context.Context) error {
	p, err := l.fetch(ctx, 1)
	if err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.replace(p)
	return nil
}

// replace must be called with mu held.
func (l *List[K, T]) replace(p *model.Page[T]) {
	p.Normalize()
	l.items = slices.Clone(p.Data)
	l.page = p.CurrentPage
	l.totalPages = p.TotalPages
	l.generation++
}

// LoadMore appends the next page when there is one and reports whether it
// did. Items already present are not duplicated.
func (l *List[K, T]) LoadMore(ctx context.Context) (bool, error) {
	l.mu.Lock()
	if l.page == 0 || l.page >= l.totalPages {
		l.mu.Unlock()
		return false, nil
	}
	next, gen := l.page+1, l.generation
	l.mu.Unlock()

	p, err := l.fetch(ctx, next)
	if err != nil {
		return false, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if gen != l.generation {
		l.opts.logger.Debug().Int("page", next).Msg("discarding page loaded before a reload")
		return false, nil
	}

	p.Normalize()
	seen := make(map[K]struct{}, len(l.items))
	for _, it := range l.items {
		seen[l.key(it)] = struct{}{}
	}
	for _, it := range p.Data {
		if _, dup := seen[l.key(it)]; !dup {
			l.items = append(l.items, it)
		}
	}
	l.page = p.CurrentPage
	l.totalPages = p.TotalPages
	return true, nil
}

// Refocus reloads the first page unless a mutation was applied within the
// guard window. A reload during which a mutation was applied is discarded, so it cannot overwrite the
// newer local state. It reports whether the items were replaced.
func (l *List[K, T]) Refocus(ctx context.Context) (bool, error) {
	l.mu.Lock()
	start := l.opts.now()
	if !l.lastApplied.IsZero() && start.Sub(l.lastApplied) < l.opts.guard {
		l.mu.Unlock()
		l.opts.logger.Debug().Msg("refocus within guard window, keeping local state")
		return false, nil
	}
	n := l.appliedN
	l.mu.Unlock()

	p, err := l.fetch(ctx, 1)
	if err != nil {
		return false, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.appliedN != n {
		l.opts.logger.Debug().Msg("discarding refocus reload older than local mutation")
		return false, nil
	}
	l.replace(p)
	return true, nil
}

// Patch runs call and, when it succeeds, replaces the item with id by
// patch(item). Items are matched by key; an id not in the list is a no-op
// locally. When call fails the list is reloaded unless ctx was canceled, and
// call's error is returned (joined with the reload error, if any).
func (l *List[K, T]) Patch(ctx context.Context, id K, call func(context.Context) error, patch func(T) T) error {
	return l.mutate(ctx, id, call, func(i int) {
		l.items[i] = patch(l.items[i])
	})
}

// Remove runs call and, when it succeeds, drops the item with id from the
// list. Failure handling matches Patch.
func (l *List[K, T]) Remove(ctx context.Context, id K, call func(context.Context) error) error {
	return l.mutate(ctx, id, call, func(i int) {
		l.items = slices.Delete(l.items, i, i+1)
	})
}

func (l *List[K, T]) mutate(ctx context.Context, id K, call func(context.Context) error, apply func(i int)) error {
	l.mu.Lock()
	l.seq++
	seq := l.seq
	l.mu.Unlock()

	if err := call(ctx); err != nil {
		if ctx.Err() != nil {
			return err
		}
		l.opts.logger.Debug().Err(err).Interface("id", id).Msg("mutation failed, reloading")
		if rerr := l.Reload(ctx); rerr != nil {
			return errors.Join(err, fmt.Errorf("resync after failed mutation: %w", rerr))
		}
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if seq < l.applied[id] {
		l.opts.logger.Debug().Interface("id", id).Uint64("seq", seq).Msg("dropping out-of-order result")
		return nil
	}
	l.applied[id] = seq
	l.appliedN++
	l.lastApplied = l.opts.now()

	if i := l.index(id); i >= 0 {
		apply(i)
	}
	return nil
}

// index must be called with mu held.
func (l *List[K, T]) index(id K) int {
	return slices.IndexFunc(l.items, func(it T) bool { return l.key(it) == id })
}
