// Package poll provides a cancellable periodic task driven by the bubbletea
// event loop. Each tick runs inside Update, so a task never runs concurrently
// with other UI work, and a task that has been stopped simply never
// reschedules itself.
package poll

import (
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

var lastID atomic.Int64

// TickMsg is delivered to Update when a task is due
type TickMsg struct {
	ID  int64
	tag int
}

// Task calls fn every interval for as long as fn returns true and Stop has
// not been called.
type Task struct {
	id       int64
	tag      int
	interval time.Duration
	running  bool
	fn       func() bool
}

func New(interval time.Duration, fn func() bool) *Task {
	return &Task{
		id:       lastID.Add(1),
		interval: interval,
		fn:       fn,
	}
}

func (t *Task) ID() int64 { return t.id }

func (t *Task) Running() bool { return t.running }

// Start schedules the first tick. Starting a running task is a no-op.
func (t *Task) Start() tea.Cmd {
	if t.running {
		return nil
	}
	t.running = true
	t.tag++
	return t.schedule()
}

// Stop cancels the task; a tick already in flight is ignored on arrival
func (t *Task) Stop() {
	t.running = false
	t.tag++
}

// Update runs the task for its own tick messages and reschedules it
func (t *Task) Update(msg tea.Msg) tea.Cmd {
	tick, ok := msg.(TickMsg)
	if !ok || tick.ID != t.id || tick.tag != t.tag || !t.running {
		return nil
	}
	if !t.fn() {
		t.running = false
		return nil
	}
	return t.schedule()
}

// Tick returns the message the pending tick will deliver
func (t *Task) Tick() TickMsg {
	return TickMsg{ID: t.id, tag: t.tag}
}

func (t *Task) schedule() tea.Cmd {
	id, tag := t.id, t.tag
	return tea.Tick(t.interval, func(time.Time) tea.Msg {
		return TickMsg{ID: id, tag: tag}
	})
}
