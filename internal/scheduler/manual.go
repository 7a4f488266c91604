package scheduler

import (
	"sort"
	"sync"
	"time"
)

// Manual is a Scheduler driven by an explicit clock. Nothing fires until Advance
// is called; due tasks then run synchronously on the caller's goroutine.
type Manual struct {
	mu    sync.Mutex
	now   time.Duration
	seq   uint64
	tasks map[string]manualTask
}

type manualTask struct {
	due time.Duration
	seq uint64
	fn  func()
}

func NewManual() *Manual {
	return &Manual{tasks: make(map[string]manualTask)}
}

func (m *Manual) Schedule(name string, delay time.Duration, fn func()) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if delay < 0 {
		delay = 0
	}
	m.seq++
	m.tasks[name] = manualTask{due: m.now + delay, seq: m.seq, fn: fn}
}

func (m *Manual) Cancel(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.tasks, name)
}

func (m *Manual) CancelAll() {
	m.mu.Lock()
	defer m.mu.Unlock()
	clear(m.tasks)
}

// Advance moves the clock forward by d and runs every task that falls due, in due
// order. Tasks scheduled by a callback run too if they fall due within the window.
func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	target := m.now + d
	m.mu.Unlock()

	for {
		m.mu.Lock()
		name, task, ok := m.nextDue(target)
		if !ok {
			m.now = target
			m.mu.Unlock()
			return
		}
		delete(m.tasks, name)
		m.now = task.due
		m.mu.Unlock()

		task.fn()
	}
}

// Flush runs pending tasks until none remain.
func (m *Manual) Flush() {
	for {
		m.mu.Lock()
		if len(m.tasks) == 0 {
			m.mu.Unlock()
			return
		}
		var latest time.Duration
		for _, t := range m.tasks {
			latest = max(latest, t.due)
		}
		d := latest - m.now
		m.mu.Unlock()

		m.Advance(d)
	}
}

// Pending returns the names of tasks that have not fired, ordered by due time.
func (m *Manual) Pending() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	names := make([]string, 0, len(m.tasks))
	for name := range m.tasks {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		return m.less(m.tasks[names[i]], m.tasks[names[j]])
	})
	return names
}

// Now returns the elapsed manual time.
func (m *Manual) Now() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

func (m *Manual) nextDue(target time.Duration) (string, manualTask, bool) {
	var (
		bestName string
		best     manualTask
		found    bool
	)
	for name, t := range m.tasks {
		if t.due > target {
			continue
		}
		if !found || m.less(t, best) {
			bestName, best, found = name, t, true
		}
	}
	return bestName, best, found
}

func (m *Manual) less(a, b manualTask) bool {
	if a.due != b.due {
		return a.due < b.due
	}
	return a.seq < b.seq
}
