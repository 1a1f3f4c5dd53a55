package recommend

import (
	"context"
	"sync"
	"time"

	"myHairMatch/domain"
	"myHairMatch/pkg/logger"
)

// Resync statuses reported to callers polling a background catalog refresh.
const (
	ResyncStatusRunning   = "running"
	ResyncStatusCompleted = "completed"
	ResyncStatusFailed    = "failed"
	ResyncStatusIdle      = "idle"
)

type ResyncStatus struct {
	Status     string    `json:"status"`
	StartedAt  time.Time `json:"started_at,omitempty"`
	FinishedAt time.Time `json:"finished_at,omitempty"`
	Fetched    int       `json:"fetched"`
	Persisted  int       `json:"persisted"`
	Failures   int       `json:"failures"`
	Error      string    `json:"error,omitempty"`
}

// resyncState tracks at most one in-flight catalog resync.
type resyncState struct {
	mu      sync.Mutex
	running bool
	last    ResyncStatus
}

func newResyncState() *resyncState {
	return &resyncState{last: ResyncStatus{Status: ResyncStatusIdle}}
}

// StartResync kicks off a background refresh of the stored catalog from all
// configured sources. Returns false when a resync is already in flight.
func (s *Service) StartResync(tags []string) bool {
	s.resync.mu.Lock()
	if s.resync.running {
		s.resync.mu.Unlock()
		return false
	}
	s.resync.running = true
	s.resync.last = ResyncStatus{
		Status:    ResyncStatusRunning,
		StartedAt: time.Now(),
	}
	s.resync.mu.Unlock()

	go s.runResync(tags)

	return true
}

func (s *Service) ResyncStatus() ResyncStatus {
	s.resync.mu.Lock()
	defer s.resync.mu.Unlock()
	return s.resync.last
}

// runResync fetches, deduplicates and persists without scoring. The context
// is detached from the triggering request so the refresh outlives it.
func (s *Service) runResync(tags []string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	status := ResyncStatus{Status: ResyncStatusRunning, StartedAt: time.Now()}

	defer func() {
		status.FinishedAt = time.Now()
		if status.Status == ResyncStatusRunning {
			status.Status = ResyncStatusCompleted
		}

		s.resync.mu.Lock()
		s.resync.running = false
		s.resync.last = status
		s.resync.mu.Unlock()

		logger.Info("catalog_resync_finished",
			"status", status.Status,
			"fetched", status.Fetched,
			"persisted", status.Persisted,
			"failures", status.Failures,
		)
	}()

	var metadata domain.RunMetadata
	records := s.fetchAll(ctx, tags, &metadata)
	status.Fetched = len(records)
	status.Failures = metadata.SourcesFailed

	if len(records) == 0 && len(s.sources) > 0 && metadata.SourcesFailed == len(s.sources) {
		status.Status = ResyncStatusFailed
		status.Error = "all catalog sources failed"
		return
	}

	deduped := Deduplicate(records)
	status.Persisted = len(deduped)
	status.Failures += s.persistRecords(ctx, deduped)
}
