// Package warm schedules periodic refresh callbacks so caches can be
// repopulated proactively instead of waiting for the first miss after
// expiry.
package warm

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"
)

var (
	// ErrEmptyName is returned by Schedule when the task name is empty.
	ErrEmptyName = errors.New("warm: task name must not be empty")
	// ErrInvalidInterval is returned by Schedule when the interval is not
	// positive.
	ErrInvalidInterval = errors.New("warm: interval must be positive")
)

// RefreshFunc repopulates a cache. A non-nil error marks that one tick as
// failed; the schedule itself keeps running.
type RefreshFunc func(ctx context.Context) error

// Warmer runs at most one periodic refresh task per name. Failures and
// panics inside a refresh are logged and isolated to their tick so a broken
// refresher can never take down the process or a sibling task.
type Warmer struct {
	mu    sync.Mutex
	log   *slog.Logger
	tasks map[string]*task
}

type task struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// New returns a Warmer that logs refresh failures through log. A nil logger
// falls back to slog.Default.
func New(log *slog.Logger) *Warmer {
	if log == nil {
		log = slog.Default()
	}
	return &Warmer{log: log, tasks: make(map[string]*task)}
}

// Schedule registers fn to run every interval under the given name. When a
// task with the same name already exists it is stopped first, so at most one
// timer per name is ever active.
func (w *Warmer) Schedule(name string, interval time.Duration, fn RefreshFunc) error {
	if name == "" {
		return ErrEmptyName
	}
	if interval <= 0 {
		return ErrInvalidInterval
	}

	ctx, cancel := context.WithCancel(context.Background())
	t := &task{cancel: cancel, done: make(chan struct{})}

	w.mu.Lock()
	if old, ok := w.tasks[name]; ok {
		old.cancel()
		<-old.done
	}
	w.tasks[name] = t
	w.mu.Unlock()

	go w.run(ctx, name, interval, fn, t.done)
	return nil
}

// Stop cancels the named task. It returns false when no such task exists.
// Once Stop returns, no further tick of that task fires.
func (w *Warmer) Stop(name string) bool {
	w.mu.Lock()
	t, ok := w.tasks[name]
	if ok {
		delete(w.tasks, name)
	}
	w.mu.Unlock()
	if !ok {
		return false
	}
	t.cancel()
	<-t.done
	return true
}

// StopAll cancels every registered task and waits for them to finish.
func (w *Warmer) StopAll() {
	w.mu.Lock()
	tasks := w.tasks
	w.tasks = make(map[string]*task)
	w.mu.Unlock()
	for _, t := range tasks {
		t.cancel()
		<-t.done
	}
}

func (w *Warmer) run(ctx context.Context, name string, interval time.Duration, fn RefreshFunc, done chan struct{}) {
	defer close(done)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			w.tick(ctx, name, fn)
		case <-ctx.Done():
			return
		}
	}
}

func (w *Warmer) tick(ctx context.Context, name string, fn RefreshFunc) {
	defer func() {
		if r := recover(); r != nil {
			w.log.Error("cache warming panicked", "task", name, "panic", r)
		}
	}()
	if err := fn(ctx); err != nil {
		w.log.Error("cache warming failed", "task", name, "error", err)
	}
}
