package timekeeper

import (
	"sync"
	"time"

	"timerdeck/internal/observability/metrics"
)

// fireFunc runs one countdown step and reports whether the job should keep ticking.
type fireFunc func(id string, now time.Time) bool

type job struct {
	stopCh   chan struct{}
	done     chan struct{}
	stopOnce sync.Once
}

func (j *job) cancel() {
	j.stopOnce.Do(func() {
		close(j.stopCh)
	})
}

// scheduler owns one ticking goroutine per running timer id.
// It never holds timer data, only the handles needed to cancel a job.
type scheduler struct {
	mu       sync.Mutex
	interval time.Duration
	jobs     map[string]*job
	fire     fireFunc
}

func newScheduler(interval time.Duration, fire fireFunc) *scheduler {
	if interval <= 0 {
		interval = time.Second
	}
	return &scheduler{
		interval: interval,
		jobs:     make(map[string]*job),
		fire:     fire,
	}
}

// start registers a job for id unless one is already registered.
func (s *scheduler) start(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.jobs[id]; exists {
		return false
	}
	j := &job{
		stopCh: make(chan struct{}),
		done:   make(chan struct{}),
	}
	s.jobs[id] = j
	metrics.SetActiveCountdowns(len(s.jobs))
	go s.run(id, j)
	return true
}

// stop cancels the job for id and waits for it to exit.
// No tick for id runs after stop returns. It must not be called from fire.
func (s *scheduler) stop(id string) bool {
	s.mu.Lock()
	j, exists := s.jobs[id]
	if exists {
		delete(s.jobs, id)
		metrics.SetActiveCountdowns(len(s.jobs))
	}
	s.mu.Unlock()
	if !exists {
		return false
	}
	j.cancel()
	<-j.done
	return true
}

func (s *scheduler) stopAll() {
	s.mu.Lock()
	ids := make([]string, 0, len(s.jobs))
	for id := range s.jobs {
		ids = append(ids, id)
	}
	s.mu.Unlock()
	for _, id := range ids {
		s.stop(id)
	}
}

func (s *scheduler) active(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, exists := s.jobs[id]
	return exists
}

func (s *scheduler) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.jobs)
}

func (s *scheduler) run(id string, j *job) {
	ticker := time.NewTicker(s.interval)
	defer func() {
		ticker.Stop()
		s.release(id, j)
		close(j.done)
	}()

	for {
		select {
		case <-j.stopCh:
			return
		case tickTime := <-ticker.C:
			// A cancel racing with the ticker wins.
			select {
			case <-j.stopCh:
				return
			default:
			}
			if !s.fire(id, tickTime) {
				return
			}
		}
	}
}

// release deregisters a job that exited on its own.
func (s *scheduler) release(id string, j *job) {
	s.mu.Lock()
	if s.jobs[id] == j {
		delete(s.jobs, id)
		metrics.SetActiveCountdowns(len(s.jobs))
	}
	s.mu.Unlock()
}
