package server

import (
	"context"
	"fmt"
	"io"
	"log"
	"sync"
	"time"

	"github.com/brasiledu/BenchAESDES/internal/benchmark"
	"github.com/brasiledu/BenchAESDES/internal/output"
	"github.com/brasiledu/BenchAESDES/internal/storage"
	"github.com/brasiledu/BenchAESDES/pkg/sysinfo"
)

// JobQueue runs benchmark jobs one at a time. A single worker is
// deliberate: overlapping sweeps would share the CPU and invalidate every
// timing they produce.
type JobQueue struct {
	jobQueue    chan *BenchmarkJob
	wg          sync.WaitGroup
	ctx         context.Context
	cancel      context.CancelFunc
	jobStore    *JobStore
	reportStore *storage.ReportStore
	fileStorage *storage.FileStorage
	sysInfo     *sysinfo.SystemInfo
}

func NewJobQueue(jobStore *JobStore, reportStore *storage.ReportStore, fileStorage *storage.FileStorage, sysInfo *sysinfo.SystemInfo) *JobQueue {
	ctx, cancel := context.WithCancel(context.Background())

	return &JobQueue{
		jobQueue:    make(chan *BenchmarkJob, 8),
		ctx:         ctx,
		cancel:      cancel,
		jobStore:    jobStore,
		reportStore: reportStore,
		fileStorage: fileStorage,
		sysInfo:     sysInfo,
	}
}

func (q *JobQueue) Start() {
	q.wg.Add(1)
	go q.worker()
}

func (q *JobQueue) Stop() {
	log.Println("Stopping job queue...")
	q.cancel()
	close(q.jobQueue)
	q.wg.Wait()
	log.Println("Job queue stopped")
}

func (q *JobQueue) Submit(job *BenchmarkJob) error {
	select {
	case q.jobQueue <- job:
		return nil
	case <-q.ctx.Done():
		return fmt.Errorf("job queue is shutting down")
	default:
		return fmt.Errorf("job queue is full")
	}
}

func (q *JobQueue) worker() {
	defer q.wg.Done()

	for {
		select {
		case job, ok := <-q.jobQueue:
			if !ok {
				return
			}
			log.Printf("Processing benchmark job %s", job.ID)
			q.processJob(job)

		case <-q.ctx.Done():
			return
		}
	}
}

func (q *JobQueue) processJob(job *BenchmarkJob) {
	q.jobStore.UpdateStatus(job.ID, "running")

	runner := benchmark.NewRunner(job.Config)
	if job.Progress != nil {
		runner.SetProgressChannel(job.Progress)
	}

	results, err := runner.Run()
	if err != nil {
		q.jobStore.CompleteJob(job.ID, "", nil, err)
		log.Printf("Job %s failed: %v", job.ID, err)
	} else {
		report := q.reportStore.Add(job.Config, q.sysInfo, results)
		q.persistArtifacts(report)
		q.jobStore.CompleteJob(job.ID, report.ID, results, nil)
		log.Printf("Job %s completed with %d result rows", job.ID, len(results))
	}

	if job.Progress != nil {
		close(job.Progress)
	}
}

// persistArtifacts exports a completed report as CSV and JSON files plus
// the two throughput charts. Export failures are logged, not fatal: the
// report itself is already stored.
func (q *JobQueue) persistArtifacts(report *storage.Report) {
	data := output.Data{
		SystemInfo: report.SystemInfo,
		Results:    report.Results,
		Config:     report.Config,
	}

	var paths []string
	for _, format := range []string{"csv", "json"} {
		formatter, err := output.NewFormatter(format)
		if err != nil {
			continue
		}
		path, err := q.fileStorage.SaveArtifact(report.ID, "results."+format, func(w io.Writer) error {
			return formatter.Format(w, data)
		})
		if err != nil {
			log.Printf("Failed to persist %s for report %s: %v", format, report.ID, err)
			continue
		}
		paths = append(paths, path)
	}

	chartPaths, err := output.RenderThroughputCharts(q.fileStorage.ChartDir(report.ID), report.Results)
	if err != nil {
		log.Printf("Failed to render charts for report %s: %v", report.ID, err)
	} else {
		for _, path := range chartPaths {
			if err := q.fileStorage.Register(report.ID, path); err != nil {
				log.Printf("Failed to track chart %s: %v", path, err)
			}
		}
		paths = append(paths, chartPaths...)
	}

	q.reportStore.AttachArtifacts(report.ID, paths)
}

// Helper methods for JobStore
func (js *JobStore) UpdateStatus(jobID, status string) {
	js.mu.Lock()
	defer js.mu.Unlock()

	if job, exists := js.jobs[jobID]; exists {
		job.Status = status
		job.UpdatedAt = time.Now()
	}
}

func (js *JobStore) CompleteJob(jobID, reportID string, results []benchmark.Result, err error) {
	js.mu.Lock()
	defer js.mu.Unlock()

	if job, exists := js.jobs[jobID]; exists {
		completedAt := time.Now()
		job.CompletedAt = &completedAt
		job.UpdatedAt = completedAt

		if err != nil {
			job.Status = "failed"
			job.Error = err.Error()
		} else {
			job.Status = "completed"
			job.ReportID = reportID
			job.Results = results
		}
	}
}
