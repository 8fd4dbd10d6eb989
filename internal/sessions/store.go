// Package sessions holds the explicit session-scoped state of both tools:
// assembly runs (progress, result, document) and catalog sessions (the grid
// carried between fetch and submit). Sessions are created at session start,
// cleared on explicit delete or refetch, and never shared across sessions.
package sessions

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"labels-service/internal/models"
)

// AssemblyRun tracks one assembly run from upload to completion. The run is
// written by exactly one request; other requests only read snapshots.
type AssemblyRun struct {
	ID        uuid.UUID
	FileName  string
	CreatedAt time.Time

	mu        sync.RWMutex
	status    models.RunStatus
	rowsSeen  int
	totalRows int
	result    *models.AssemblyResult
	document  []byte
}

// Begin records the total row count before processing starts.
func (r *AssemblyRun) Begin(totalRows int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.totalRows = totalRows
	r.rowsSeen = 0
	r.status = models.RunStatusRunning
}

// RowSeen advances the progress fraction by one row.
func (r *AssemblyRun) RowSeen() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rowsSeen++
}

// Complete freezes the run with its result and document bytes.
func (r *AssemblyRun) Complete(result *models.AssemblyResult, document []byte) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.status = models.RunStatusCompleted
	r.result = result
	r.document = document
}

// Fail marks the run failed without a result.
func (r *AssemblyRun) Fail() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.status = models.RunStatusFailed
}

// Progress reports rowsSeen/totalRows as a monotonically increasing
// fraction; a completed run always reports 1.
func (r *AssemblyRun) Progress() float64 {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.status == models.RunStatusCompleted {
		return 1
	}
	if r.totalRows == 0 {
		return 0
	}
	return float64(r.rowsSeen) / float64(r.totalRows)
}

func (r *AssemblyRun) Status() models.RunStatus {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.status
}

func (r *AssemblyRun) Result() *models.AssemblyResult {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.result
}

func (r *AssemblyRun) Document() []byte {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.document
}

// CatalogSession holds one fetched grid between fetch and submit.
type CatalogSession struct {
	ID        uuid.UUID
	ProductID int64
	Grid      *models.CatalogGrid
	CreatedAt time.Time
}

// Store is the in-memory session registry. The maps are mutex-guarded
// because the server handles requests concurrently; individual sessions are
// single-writer by construction.
type Store struct {
	mu       sync.RWMutex
	runs     map[uuid.UUID]*AssemblyRun
	catalogs map[uuid.UUID]*CatalogSession
}

func NewStore() *Store {
	return &Store{
		runs:     make(map[uuid.UUID]*AssemblyRun),
		catalogs: make(map[uuid.UUID]*CatalogSession),
	}
}

func (s *Store) NewRun(fileName string) *AssemblyRun {
	run := &AssemblyRun{
		ID:        uuid.New(),
		FileName:  fileName,
		CreatedAt: time.Now(),
		status:    models.RunStatusRunning,
	}
	s.mu.Lock()
	s.runs[run.ID] = run
	s.mu.Unlock()
	return run
}

func (s *Store) GetRun(id uuid.UUID) (*AssemblyRun, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	run, ok := s.runs[id]
	return run, ok
}

func (s *Store) NewCatalogSession(productID int64, grid *models.CatalogGrid) *CatalogSession {
	session := &CatalogSession{
		ID:        uuid.New(),
		ProductID: productID,
		Grid:      grid,
		CreatedAt: time.Now(),
	}
	grid.SessionID = session.ID.String()
	s.mu.Lock()
	s.catalogs[session.ID] = session
	s.mu.Unlock()
	return session
}

func (s *Store) GetCatalogSession(id uuid.UUID) (*CatalogSession, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.catalogs[id]
	return session, ok
}

// DeleteCatalogSession implements the explicit "refresh" lifecycle step.
func (s *Store) DeleteCatalogSession(id uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.catalogs[id]; !ok {
		return false
	}
	delete(s.catalogs, id)
	return true
}
