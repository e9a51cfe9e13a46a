package report

import (
	"sort"
	"sync"

	"github.com/ternarybob/scrutor/internal/models"
)

// maxReports bounds the in-memory index; the oldest report is evicted
// once the cap is reached.
const maxReports = 100

// Store keeps generated reports in memory for the process lifetime so they
// can be re-read and exported by ID.
type Store struct {
	mu      sync.RWMutex
	reports map[string]*models.Report
}

// NewStore creates an empty report store.
func NewStore() *Store {
	return &Store{reports: make(map[string]*models.Report)}
}

// Save records a report, replacing any previous entry with the same ID.
func (s *Store) Save(report *models.Report) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.reports[report.ID]; !exists && len(s.reports) >= maxReports {
		oldestID := ""
		for id, r := range s.reports {
			if oldestID == "" || r.GeneratedAt.Before(s.reports[oldestID].GeneratedAt) {
				oldestID = id
			}
		}
		delete(s.reports, oldestID)
	}

	s.reports[report.ID] = report
}

// Get returns the report with the given ID.
func (s *Store) Get(id string) (*models.Report, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	report, ok := s.reports[id]
	return report, ok
}

// List returns all stored reports, newest first.
func (s *Store) List() []*models.Report {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*models.Report, 0, len(s.reports))
	for _, report := range s.reports {
		out = append(out, report)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].GeneratedAt.After(out[j].GeneratedAt)
	})
	return out
}
