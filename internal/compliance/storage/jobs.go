// Package storage holds the engine's in-memory working set: extraction
// jobs with a TTL, and the per-shipment field set collection the rule
// engine validates against.
package storage

import (
	"crypto/rand"
	"sync"
	"time"

	"github.com/agroflow/agroflow-backend/internal/compliance/domain"
)

// JobStore keeps extraction jobs in memory. Jobs are automatically
// removed after a TTL; callers are expected to poll well within it.
type JobStore struct {
	mu   sync.RWMutex
	jobs map[string]*domain.ExtractionJob
	ttl  time.Duration
}

// NewJobStore creates a job store with the given TTL and starts its
// cleanup loop.
func NewJobStore(ttl time.Duration) *JobStore {
	s := &JobStore{
		jobs: make(map[string]*domain.ExtractionJob),
		ttl:  ttl,
	}
	go s.cleanupLoop()
	return s
}

// GenerateJobID creates a cryptographically random job ID.
func GenerateJobID() string {
	b := make([]byte, 16)
	rand.Read(b)
	const hex = "0123456789abcdef"
	id := make([]byte, 32)
	for i, v := range b {
		id[i*2] = hex[v>>4]
		id[i*2+1] = hex[v&0x0f]
	}
	return string(id)
}

// Store stores an extraction job.
func (s *JobStore) Store(job *domain.ExtractionJob) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.JobID] = job
}

// Get retrieves an extraction job by ID, or nil. The returned job is a
// copy taken under the store lock: the stored job keeps being mutated by
// Update while callers marshal or inspect the result.
func (s *JobStore) Get(jobID string) *domain.ExtractionJob {
	s.mu.RLock()
	defer s.mu.RUnlock()
	job, ok := s.jobs[jobID]
	if !ok {
		return nil
	}
	snapshot := *job
	if job.FieldSets != nil {
		snapshot.FieldSets = append([]*domain.ExtractedFieldSet(nil), job.FieldSets...)
	}
	return &snapshot
}

// Update applies a mutation to a stored job under the store lock.
func (s *JobStore) Update(jobID string, update func(*domain.ExtractionJob)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if job, ok := s.jobs[jobID]; ok {
		update(job)
	}
}

// Delete removes a job from the store.
func (s *JobStore) Delete(jobID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.jobs, jobID)
}

func (s *JobStore) cleanupLoop() {
	ticker := time.NewTicker(s.ttl / 2)
	defer ticker.Stop()
	for range ticker.C {
		s.cleanup()
	}
}

func (s *JobStore) cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()
	cutoff := time.Now().Add(-s.ttl)
	for id, job := range s.jobs {
		if job.CreatedAt.Before(cutoff) {
			delete(s.jobs, id)
		}
	}
}
