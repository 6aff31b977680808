package forum

import (
	"context"
	"sync"
	"time"
)

// DefaultRefreshDelay is how long a viewer looks at a listing before views
// are bumped.
const DefaultRefreshDelay = 2 * time.Second

// Refresher schedules one delayed BumpViews per viewer. Arming a viewer again
// replaces its pending refresh, and a refresh whose context ends first never
// fires.
type Refresher struct {
	m     *Manager
	delay time.Duration

	mu      sync.Mutex
	gen     uint64
	pending map[string]pendingRefresh
	stopped bool
}

type pendingRefresh struct {
	gen       uint64
	timer     *time.Timer
	stopWatch func() bool
}

func NewRefresher(m *Manager, delay time.Duration) *Refresher {
	if delay <= 0 {
		delay = DefaultRefreshDelay
	}
	return &Refresher{m: m, delay: delay, pending: map[string]pendingRefresh{}}
}

// Arm schedules a refresh for viewer, cancelling the one already pending.
// The refresh is dropped if ctx is done before it fires.
func (r *Refresher) Arm(ctx context.Context, viewer string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.stopped || ctx.Err() != nil {
		return
	}
	r.cancelLocked(viewer)

	r.gen++
	gen := r.gen
	p := pendingRefresh{gen: gen}
	p.timer = time.AfterFunc(r.delay, func() { r.fire(viewer, gen) })
	p.stopWatch = context.AfterFunc(ctx, func() { r.disarm(viewer, gen) })
	r.pending[viewer] = p
}

// Disarm cancels the viewer's pending refresh, if any.
func (r *Refresher) Disarm(viewer string) {
	r.mu.Lock()
	r.cancelLocked(viewer)
	r.mu.Unlock()
}

// Stop cancels everything. After Stop returns no refresh fires.
func (r *Refresher) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stopped = true
	for v := range r.pending {
		r.cancelLocked(v)
	}
}

func (r *Refresher) Pending() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.pending)
}

func (r *Refresher) fire(viewer string, gen uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.pending[viewer]
	if !ok || p.gen != gen || r.stopped {
		return
	}
	p.stopWatch()
	delete(r.pending, viewer)
	r.m.BumpViews()
}

func (r *Refresher) disarm(viewer string, gen uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if p, ok := r.pending[viewer]; ok && p.gen == gen {
		r.cancelLocked(viewer)
	}
}

func (r *Refresher) cancelLocked(viewer string) {
	p, ok := r.pending[viewer]
	if !ok {
		return
	}
	p.timer.Stop()
	p.stopWatch()
	delete(r.pending, viewer)
}
