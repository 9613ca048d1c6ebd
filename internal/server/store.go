package server

import (
	"sync"
	"time"

	"github.com/sitelens/sitelens/internal/model"
)

// AnalysisStatus is the lifecycle state of an async analysis.
type AnalysisStatus string

const (
	// StatusPending means the analysis is queued but not started.
	StatusPending AnalysisStatus = "pending"

	// StatusProcessing means the analysis is in progress.
	StatusProcessing AnalysisStatus = "processing"

	// StatusCompleted means the analysis finished successfully.
	StatusCompleted AnalysisStatus = "completed"

	// StatusError means the analysis failed.
	StatusError AnalysisStatus = "error"
)

// analysisRecord is one tracked analysis.
type analysisRecord struct {
	Status    AnalysisStatus
	Result    *model.CombinedReport
	Error     string
	Timestamp time.Time
}

// analysisStore tracks analyses by id for the lifetime of the process.
//
// The id to result mapping is deliberately ephemeral: a restart forgets
// all analyses, and there is no eviction. Durable storage is the archive's
// job, not the front end's.
type analysisStore struct {
	mu      sync.RWMutex
	records map[string]*analysisRecord
}

func newAnalysisStore() *analysisStore {
	return &analysisStore{records: make(map[string]*analysisRecord)}
}

func (s *analysisStore) put(id string, status AnalysisStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[id] = &analysisRecord{Status: status, Timestamp: time.Now()}
}

func (s *analysisStore) setProcessing(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if rec, ok := s.records[id]; ok {
		rec.Status = StatusProcessing
		rec.Timestamp = time.Now()
	}
}

func (s *analysisStore) complete(id string, result *model.CombinedReport) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if rec, ok := s.records[id]; ok {
		rec.Status = StatusCompleted
		rec.Result = result
		rec.Timestamp = time.Now()
	}
}

func (s *analysisStore) fail(id string, errMsg string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if rec, ok := s.records[id]; ok {
		rec.Status = StatusError
		rec.Error = errMsg
		rec.Timestamp = time.Now()
	}
}

// get returns a copy of the record so callers never hold a reference into
// the store.
func (s *analysisStore) get(id string) (analysisRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[id]
	if !ok {
		return analysisRecord{}, false
	}
	return *rec, true
}

func (s *analysisStore) delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[id]; !ok {
		return false
	}
	delete(s.records, id)
	return true
}
