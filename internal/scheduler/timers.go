package scheduler

import (
	"sync"
	"time"
)

// Timers is a wall-clock Scheduler backed by time.AfterFunc.
// Callbacks run on their own goroutine.
type Timers struct {
	mu    sync.Mutex
	tasks map[string]*timerTask
}

type timerTask struct {
	timer *time.Timer
}

func NewTimers() *Timers {
	return &Timers{tasks: make(map[string]*timerTask)}
}

func (s *Timers) Schedule(name string, delay time.Duration, fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if prev, ok := s.tasks[name]; ok {
		prev.timer.Stop()
	}

	task := &timerTask{}
	task.timer = time.AfterFunc(delay, func() {
		s.mu.Lock()
		current, ok := s.tasks[name]
		if !ok || current != task {
			s.mu.Unlock()
			return
		}
		delete(s.tasks, name)
		s.mu.Unlock()

		fn()
	})
	s.tasks[name] = task
}

func (s *Timers) Cancel(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if task, ok := s.tasks[name]; ok {
		task.timer.Stop()
		delete(s.tasks, name)
	}
}

func (s *Timers) CancelAll() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for name, task := range s.tasks {
		task.timer.Stop()
		delete(s.tasks, name)
	}
}

// Pending returns the number of tasks that have not fired or been cancelled.
func (s *Timers) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tasks)
}
