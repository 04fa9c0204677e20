package app

import (
	"sync"
	"time"

	"github.com/user/privai/internal/types"
)

// debouncer coalesces session writes into a single trailing-edge save.
// It holds one slot: re-arming replaces whatever was pending, so a burst
// of mutations produces exactly one write after the window of quiet.
type debouncer struct {
	mu      sync.Mutex
	window  time.Duration
	save    func(types.SessionID)
	timer   *time.Timer
	pending types.SessionID
}

func newDebouncer(window time.Duration, save func(types.SessionID)) *debouncer {
	return &debouncer{window: window, save: save}
}

// Schedule arms (or re-arms) the trailing save for id.
func (d *debouncer) Schedule(id types.SessionID) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.pending = id
	d.timer = time.AfterFunc(d.window, d.fire)
}

// Flush runs any pending save immediately, synchronously. Callers use it
// when the process is about to lose the right to run (window hidden,
// shutdown) and the window must not be waited out.
func (d *debouncer) Flush() {
	d.fire()
}

// Cancel drops a pending save for id without writing it. Used when the
// session was deleted and a trailing write would resurrect the row.
func (d *debouncer) Cancel(id types.SessionID) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.pending != id {
		return
	}
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.pending = ""
}

func (d *debouncer) fire() {
	d.mu.Lock()
	id := d.pending
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.pending = ""
	d.mu.Unlock()
	if id != "" {
		d.save(id)
	}
}
