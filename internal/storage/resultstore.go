package storage

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/brasiledu/BenchAESDES/internal/benchmark"
	"github.com/brasiledu/BenchAESDES/pkg/sysinfo"
)

// Report is one completed benchmark sweep kept for later retrieval and
// download.
type Report struct {
	ID         string              `json:"id"`
	CreatedAt  time.Time           `json:"created_at"`
	Config     benchmark.Config    `json:"config"`
	SystemInfo *sysinfo.SystemInfo `json:"system_info"`
	Results    []benchmark.Result  `json:"results"`
	Artifacts  []string            `json:"artifacts,omitempty"`
}

type ReportStore struct {
	mu      sync.RWMutex
	reports map[string]*Report
}

func NewReportStore() *ReportStore {
	return &ReportStore{
		reports: make(map[string]*Report),
	}
}

func (rs *ReportStore) Add(config benchmark.Config, info *sysinfo.SystemInfo, results []benchmark.Result) *Report {
	report := &Report{
		ID:         uuid.New().String(),
		CreatedAt:  time.Now(),
		Config:     config,
		SystemInfo: info,
		Results:    results,
	}

	rs.mu.Lock()
	rs.reports[report.ID] = report
	rs.mu.Unlock()

	return report
}

func (rs *ReportStore) Get(id string) (*Report, bool) {
	rs.mu.RLock()
	defer rs.mu.RUnlock()

	report, exists := rs.reports[id]
	return report, exists
}

func (rs *ReportStore) All() []*Report {
	rs.mu.RLock()
	defer rs.mu.RUnlock()

	reports := make([]*Report, 0, len(rs.reports))
	for _, report := range rs.reports {
		reports = append(reports, report)
	}
	return reports
}

func (rs *ReportStore) Delete(id string) {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	delete(rs.reports, id)
}

// AttachArtifacts records file paths (CSV, JSON, charts) persisted for a
// report.
func (rs *ReportStore) AttachArtifacts(id string, paths []string) {
	rs.mu.Lock()
	defer rs.mu.Unlock()

	if report, exists := rs.reports[id]; exists {
		report.Artifacts = append(report.Artifacts, paths...)
	}
}
