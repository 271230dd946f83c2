package library

import (
	"context"
	"sync"
	"time"

	"github.com/y3rawat/mindstore/internal/api"
	"github.com/y3rawat/mindstore/internal/content"
)

// ContentAPI is the collaborator surface the loop consumes.
type ContentAPI interface {
	FetchContent(ctx context.Context, userID string, limit, offset int) (api.ContentPage, error)
	DeleteContent(ctx context.Context, contentHash, userID string) error
}

// stopper is the cancellable handle of a scheduled poll.
// *time.Timer satisfies it.
type stopper interface {
	Stop() bool
}

type scheduleFunc func(d time.Duration, fn func()) stopper

func realSchedule(d time.Duration, fn func()) stopper {
	return time.AfterFunc(d, fn)
}

// Snapshot is the loop state handed to observers after every change.
type Snapshot struct {
	Items   []content.Item
	Total   int
	HasMore bool
	Loading bool
	Polling bool
	Err     error
}

// Loop keeps one view's item list converged with the server. It loads
// pages from the collaborator API, and while any held item classifies
// as PENDING it re-polls with a reset load at a fixed interval. The
// timer is armed and disarmed purely as a function of the current
// pending count, so polling stops by itself the moment the last
// pending item resolves.
type Loop struct {
	client   ContentAPI
	userID   string
	pageSize int
	interval time.Duration

	mu         sync.Mutex
	items      []content.Item
	page       int
	total      int
	hasMore    bool
	loading    bool
	closed     bool
	timer      stopper
	issueSeq   uint64
	appliedSeq uint64

	schedule    scheduleFunc
	onUpdate    func(Snapshot)
	unsubscribe func()
}

func NewLoop(client ContentAPI, userID string, pageSize int, interval time.Duration) *Loop {
	if pageSize <= 0 {
		pageSize = 10
	}
	if interval <= 0 {
		interval = 5 * time.Second
	}
	return &Loop{
		client:   client,
		userID:   userID,
		pageSize: pageSize,
		interval: interval,
		schedule: realSchedule,
	}
}

// OnUpdate registers the observer called after every state change.
// The callback receives a defensive copy and may run on the poll
// goroutine.
func (l *Loop) OnUpdate(fn func(Snapshot)) {
	l.mu.Lock()
	l.onUpdate = fn
	l.mu.Unlock()
}

// Bind subscribes the loop to the invalidation bus: any broadcast is
// treated exactly like a manual reset load.
func (l *Loop) Bind(bus *Bus) {
	ch, cancel := bus.Subscribe()
	l.mu.Lock()
	l.unsubscribe = cancel
	l.mu.Unlock()
	go func() {
		for range ch {
			_ = l.Load(context.Background(), true)
		}
	}()
}

// Load fetches one page. reset replaces the held sequence and rewinds
// the cursor; otherwise the next page is appended. The cursor advances
// on success only, and a failed fetch leaves the held sequence and the
// poll timer untouched so transient errors never stop convergence.
//
// Overlapping reset loads resolve last-write-wins by issue order: a
// completion is dropped when a later-issued load has already applied.
func (l *Loop) Load(ctx context.Context, reset bool) error {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		return nil
	}
	pageNum := 1
	if !reset {
		pageNum = l.page + 1
	}
	offset := (pageNum - 1) * l.pageSize
	l.issueSeq++
	seq := l.issueSeq
	l.loading = true
	l.mu.Unlock()
	l.notify()

	page, err := l.client.FetchContent(ctx, l.userID, l.pageSize, offset)

	l.mu.Lock()
	l.loading = false
	if l.closed {
		l.mu.Unlock()
		return nil
	}
	if err != nil {
		l.mu.Unlock()
		l.evaluate()
		l.notifyErr(err)
		return err
	}
	if seq < l.appliedSeq {
		// A later-issued load already landed; this response is stale.
		l.mu.Unlock()
		l.notify()
		return nil
	}
	l.appliedSeq = seq
	if reset {
		l.items = page.Items
	} else {
		l.items = append(l.items, page.Items...)
	}
	l.page = pageNum
	l.total = page.Total
	l.hasMore = len(page.Items) == l.pageSize
	l.mu.Unlock()

	l.evaluate()
	l.notify()
	return nil
}

// LoadMore appends the next page. It is a no-op while a load is in
// flight or when the server has no more items.
func (l *Loop) LoadMore(ctx context.Context) error {
	l.mu.Lock()
	busy := l.loading || !l.hasMore || l.closed
	l.mu.Unlock()
	if busy {
		return nil
	}
	return l.Load(ctx, false)
}

// evaluate re-derives the poll timer from current classification
// state: armed iff some held item is PENDING and a user is configured.
// Arming is idempotent; the timer is one-shot and re-arms through this
// same path after each poll, so timers never overlap.
func (l *Loop) evaluate() {
	l.mu.Lock()
	defer l.mu.Unlock()
	pending := l.userID != "" && !l.closed && content.CountPending(l.items) > 0
	if pending && l.timer == nil {
		l.timer = l.schedule(l.interval, l.pollTick)
	}
	if !pending && l.timer != nil {
		l.timer.Stop()
		l.timer = nil
	}
}

func (l *Loop) pollTick() {
	l.mu.Lock()
	l.timer = nil
	closed := l.closed
	l.mu.Unlock()
	if closed {
		return
	}
	_ = l.Load(context.Background(), true)
}

// Snapshot returns a copy of the current state.
func (l *Loop) Snapshot() Snapshot {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.snapshotLocked(nil)
}

func (l *Loop) snapshotLocked(err error) Snapshot {
	items := make([]content.Item, len(l.items))
	copy(items, l.items)
	return Snapshot{
		Items:   items,
		Total:   l.total,
		HasMore: l.hasMore,
		Loading: l.loading,
		Polling: l.timer != nil,
		Err:     err,
	}
}

func (l *Loop) notify() {
	l.notifyErr(nil)
}

func (l *Loop) notifyErr(err error) {
	l.mu.Lock()
	fn := l.onUpdate
	snap := l.snapshotLocked(err)
	l.mu.Unlock()
	if fn != nil {
		fn(snap)
	}
}

// Items returns a copy of the held sequence.
func (l *Loop) Items() []content.Item {
	l.mu.Lock()
	defer l.mu.Unlock()
	items := make([]content.Item, len(l.items))
	copy(items, l.items)
	return items
}

// Polling reports whether the convergence timer is armed.
func (l *Loop) Polling() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.timer != nil
}

// Close disarms the timer and detaches the bus subscription. A load
// completing after Close is discarded.
func (l *Loop) Close() {
	l.mu.Lock()
	l.closed = true
	if l.timer != nil {
		l.timer.Stop()
		l.timer = nil
	}
	cancel := l.unsubscribe
	l.unsubscribe = nil
	l.mu.Unlock()
	if cancel != nil {
		cancel()
	}
}
