package jobqueue

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// MemoryStore is an in-memory Store for tests and single-instance
// deployments. All operations are safe for concurrent use.
type MemoryStore struct {
	mu   sync.Mutex
	jobs map[string]*Job
	seq  uint64
}

// NewMemoryStore creates an empty in-memory job store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{jobs: make(map[string]*Job)}
}

func (s *MemoryStore) Create(ctx context.Context, job *Job) error {
	if job.ID == "" {
		return fmt.Errorf("%w: empty job id", ErrInvalidJob)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.jobs[job.ID]; exists {
		return fmt.Errorf("%w: job %s already exists", ErrInvalidJob, job.ID)
	}

	s.seq++
	job.Seq = s.seq
	job.State = StateQueued
	if job.CreatedAt.IsZero() {
		job.CreatedAt = time.Now()
	}

	stored := cloneJob(job)
	s.jobs[job.ID] = &stored
	return nil
}

func (s *MemoryStore) Claim(ctx context.Context, now time.Time) (*Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var best *Job
	for _, j := range s.jobs {
		if j.State != StateQueued || j.NotBefore.After(now) {
			continue
		}
		if j.Expired(now) {
			j.markExpired(now)
			continue
		}
		if best == nil || j.Rank < best.Rank || (j.Rank == best.Rank && j.Seq < best.Seq) {
			best = j
		}
	}
	if best == nil {
		return nil, ErrNoJobReady
	}

	best.State = StateProcessing
	claimed := cloneJob(best)
	return &claimed, nil
}

func (s *MemoryStore) Update(ctx context.Context, job *Job) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.jobs[job.ID]; !ok {
		return fmt.Errorf("%w: job %s", ErrJobNotFound, job.ID)
	}
	stored := cloneJob(job)
	s.jobs[job.ID] = &stored
	return nil
}

func (s *MemoryStore) Get(ctx context.Context, id string) (*Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	j, ok := s.jobs[id]
	if !ok {
		return nil, fmt.Errorf("%w: job %s", ErrJobNotFound, id)
	}
	found := cloneJob(j)
	return &found, nil
}

func (s *MemoryStore) Withdraw(ctx context.Context, id string, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	j, ok := s.jobs[id]
	if !ok {
		return fmt.Errorf("%w: job %s", ErrJobNotFound, id)
	}
	if j.State != StateQueued || !j.NotBefore.After(now) {
		return fmt.Errorf("%w: job %s is %s", ErrNotWithdrawable, id, j.State)
	}
	delete(s.jobs, id)
	return nil
}

// cloneJob copies a job so callers never share slices with the store.
func cloneJob(j *Job) Job {
	c := *j
	c.Channels = append([]ChannelState(nil), j.Channels...)
	c.Results = append([]Result(nil), j.Results...)
	if j.ExpiresAt != nil {
		exp := *j.ExpiresAt
		c.ExpiresAt = &exp
	}
	return c
}
