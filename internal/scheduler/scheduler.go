// Package scheduler runs one-shot delayed tasks that can be cancelled by key.
package scheduler

import (
	"sync"
	"time"
)

type task struct {
	timer *time.Timer
	gen   uint64
}

type Scheduler struct {
	mu      sync.Mutex
	tasks   map[string]task
	nextGen uint64
	stopped bool
	wg      sync.WaitGroup
}

func New() *Scheduler {
	return &Scheduler{tasks: make(map[string]task)}
}

// Schedule runs fn after delay under key. A task already scheduled under key is replaced.
// It returns false once the scheduler has been stopped.
func (s *Scheduler) Schedule(key string, delay time.Duration, fn func()) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return false
	}
	if existing, ok := s.tasks[key]; ok {
		if existing.timer.Stop() {
			s.wg.Done()
		}
	}

	s.nextGen++
	gen := s.nextGen
	s.wg.Add(1)
	timer := time.AfterFunc(delay, func() {
		defer s.wg.Done()

		s.mu.Lock()
		current, ok := s.tasks[key]
		if !ok || current.gen != gen {
			s.mu.Unlock()
			return
		}
		delete(s.tasks, key)
		s.mu.Unlock()

		fn()
	})
	s.tasks[key] = task{timer: timer, gen: gen}
	return true
}

// Cancel stops the task under key. It reports whether a pending task was removed.
func (s *Scheduler) Cancel(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tasks[key]
	if !ok {
		return false
	}
	delete(s.tasks, key)
	if t.timer.Stop() {
		s.wg.Done()
	}
	return true
}

func (s *Scheduler) Pending(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.tasks[key]
	return ok
}

func (s *Scheduler) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tasks)
}

// Stop cancels every pending task, refuses new ones and waits for running callbacks.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	s.stopped = true
	for key, t := range s.tasks {
		if t.timer.Stop() {
			s.wg.Done()
		}
		delete(s.tasks, key)
	}
	s.mu.Unlock()

	s.wg.Wait()
}
