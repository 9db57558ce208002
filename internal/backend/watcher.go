package backend

import (
	"context"
	"os"
	"sync"
	"time"

	"github.com/atomicstack/menubar/internal/menu"
)

// Kind represents the type of data emitted by the backend watcher.
type Kind int

const (
	KindMenuFile Kind = iota
)

// Event conveys a reloaded definition file or the error that prevented it.
type Event struct {
	Kind Kind
	Path string
	Data *menu.File
	Err  error
}

var (
	statFn = os.Stat
	loadFn = menu.LoadFile
)

// Watcher polls the menu definition file at a fixed interval and publishes
// an event whenever its modification time or size changes.
type Watcher struct {
	path     string
	interval time.Duration

	ctx    context.Context
	cancel context.CancelFunc

	events chan Event
	wg     sync.WaitGroup
}

// NewWatcher creates a watcher that checks path every interval. The state of
// the file at creation time is the baseline; only later changes are emitted.
func NewWatcher(path string, interval time.Duration) *Watcher {
	ctx, cancel := context.WithCancel(context.Background())
	w := &Watcher{
		path:     path,
		interval: interval,
		ctx:      ctx,
		cancel:   cancel,
		events:   make(chan Event, 4),
	}

	w.startFilePoller()

	go func() {
		w.wg.Wait()
		close(w.events)
	}()

	return w
}

// Path returns the watched file.
func (w *Watcher) Path() string {
	return w.path
}

// Events returns a channel of backend events.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Stop cancels the watcher. The poller exits after its current check
// completes; use Wait if a clean drain is required (e.g. in tests).
func (w *Watcher) Stop() {
	w.cancel()
}

// Wait blocks until the poller goroutine has exited and the events channel
// is closed. Call after Stop when a clean shutdown is required.
func (w *Watcher) Wait() {
	w.wg.Wait()
}

type fileStamp struct {
	mod  time.Time
	size int64
	err  bool
}

func (w *Watcher) stamp() fileStamp {
	info, err := statFn(w.path)
	if err != nil {
		return fileStamp{err: true}
	}
	return fileStamp{mod: info.ModTime(), size: info.Size()}
}

func (w *Watcher) startFilePoller() {
	gate := newSettle(w.stamp(), settleDelay)
	w.wg.Add(1)
	go w.poll(func(ctx context.Context) (Event, bool) {
		if !gate.observe(w.stamp(), time.Now()) {
			return Event{}, false
		}
		evt := Event{Kind: KindMenuFile, Path: w.path}
		evt.Data, evt.Err = loadFn(w.path)
		return evt, true
	})
}

func (w *Watcher) poll(check func(context.Context) (Event, bool)) {
	defer w.wg.Done()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.ctx.Done():
			return
		case <-ticker.C:
			evt, changed := check(w.ctx)
			if !changed {
				continue
			}
			select {
			case <-w.ctx.Done():
				return
			case w.events <- evt:
			}
		}
	}
}
