package server

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/brasiledu/BenchAESDES/internal/benchmark"
	"github.com/brasiledu/BenchAESDES/internal/output"
	"github.com/brasiledu/BenchAESDES/internal/storage"
	"github.com/brasiledu/BenchAESDES/pkg/sysinfo"
)

type Server struct {
	router      *mux.Router
	reportStore *storage.ReportStore
	fileStorage *storage.FileStorage
	jobStore    *JobStore
	queue       *JobQueue
	sysInfo     *sysinfo.SystemInfo
	upgrader    websocket.Upgrader
	port        string
}

type JobStore struct {
	mu   sync.RWMutex
	jobs map[string]*BenchmarkJob
}

type BenchmarkJob struct {
	ID          string                        `json:"id"`
	Config      benchmark.Config              `json:"config"`
	Status      string                        `json:"status"`
	StartedAt   time.Time                     `json:"started_at"`
	UpdatedAt   time.Time                     `json:"updated_at"`
	CompletedAt *time.Time                    `json:"completed_at,omitempty"`
	ReportID    string                        `json:"report_id,omitempty"`
	Results     []benchmark.Result            `json:"results,omitempty"`
	Error       string                        `json:"error,omitempty"`
	Progress    chan benchmark.ProgressUpdate `json:"-"`
}

func NewServer(port, resultsDir string) (*Server, error) {
	sysInfo, err := sysinfo.Collect()
	if err != nil {
		return nil, fmt.Errorf("failed to collect system info: %w", err)
	}

	fileStorage, err := storage.NewFileStorage(resultsDir)
	if err != nil {
		return nil, fmt.Errorf("failed to create file storage: %w", err)
	}

	reportStore := storage.NewReportStore()
	jobStore := &JobStore{
		jobs: make(map[string]*BenchmarkJob),
	}

	s := &Server{
		router:      mux.NewRouter(),
		reportStore: reportStore,
		fileStorage: fileStorage,
		jobStore:    jobStore,
		sysInfo:     sysInfo,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		port: port,
	}

	// Benchmark jobs must never overlap: concurrent sweeps would contend
	// for CPU and corrupt each other's timings. The queue serializes them.
	s.queue = NewJobQueue(jobStore, reportStore, fileStorage, sysInfo)

	// Prune exported artifacts older than 24 hours.
	fileStorage.StartCleanupRoutine(1*time.Hour, 24*time.Hour)

	s.setupRoutes()
	return s, nil
}

func (s *Server) setupRoutes() {
	api := s.router.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/system-info", s.handleSystemInfo).Methods("GET")
	api.HandleFunc("/benchmarks", s.handleCreateBenchmark).Methods("POST")
	api.HandleFunc("/benchmarks", s.handleListBenchmarks).Methods("GET")
	api.HandleFunc("/benchmarks/{id}", s.handleGetBenchmark).Methods("GET")
	api.HandleFunc("/benchmarks/{id}/progress", s.handleBenchmarkProgress).Methods("GET")
	api.HandleFunc("/reports", s.handleListReports).Methods("GET")
	api.HandleFunc("/reports/{id}", s.handleGetReport).Methods("GET")
	api.HandleFunc("/reports/{id}/download", s.handleDownloadReport).Methods("GET")
}

func (s *Server) Start() error {
	s.queue.Start()

	log.Printf("Benchmark web server starting on http://localhost:%s", s.port)

	return http.ListenAndServe(":"+s.port, s.router)
}

func (s *Server) handleSystemInfo(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(s.sysInfo)
}

func (s *Server) handleCreateBenchmark(w http.ResponseWriter, r *http.Request) {
	var config benchmark.Config
	if err := json.NewDecoder(r.Body).Decode(&config); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if config.Runs == 0 {
		config.Runs = benchmark.DefaultRuns
	}
	if len(config.Algorithms) == 0 {
		config.Algorithms = []string{"AES-128", "AES-256", "DES"}
	}
	if len(config.Sizes) == 0 {
		config.Sizes = benchmark.DefaultSizes
	}
	// The progress bar is for terminals; web jobs stream updates instead.
	config.ShowProgress = false

	job := &BenchmarkJob{
		ID:        uuid.New().String(),
		Config:    config,
		Status:    "queued",
		StartedAt: time.Now(),
		UpdatedAt: time.Now(),
		Progress:  make(chan benchmark.ProgressUpdate, 100),
	}

	s.jobStore.mu.Lock()
	s.jobStore.jobs[job.ID] = job
	s.jobStore.mu.Unlock()

	if err := s.queue.Submit(job); err != nil {
		http.Error(w, "Server is busy, please try again later", http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"job_id": job.ID,
		"status": "queued",
	})
}

func (s *Server) handleListBenchmarks(w http.ResponseWriter, r *http.Request) {
	// The worker mutates jobs under the lock, so encoding works on
	// snapshots taken while holding it.
	s.jobStore.mu.RLock()
	jobs := make([]BenchmarkJob, 0, len(s.jobStore.jobs))
	for _, job := range s.jobStore.jobs {
		jobs = append(jobs, *job)
	}
	s.jobStore.mu.RUnlock()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(jobs)
}

func (s *Server) handleGetBenchmark(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id := vars["id"]

	s.jobStore.mu.RLock()
	job, exists := s.jobStore.jobs[id]
	var snapshot BenchmarkJob
	if exists {
		snapshot = *job
	}
	s.jobStore.mu.RUnlock()

	if !exists {
		http.Error(w, "Benchmark not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(snapshot)
}

func (s *Server) handleBenchmarkProgress(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id := vars["id"]

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	s.jobStore.mu.RLock()
	job, exists := s.jobStore.jobs[id]
	s.jobStore.mu.RUnlock()

	if !exists {
		return
	}

	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	// Once the worker closes the progress channel, receiving from it would
	// succeed forever. Nil it out so the select blocks on the ticker instead.
	progress := job.Progress

	for {
		select {
		case update, ok := <-progress:
			if !ok {
				progress = nil
				continue
			}
			conn.WriteJSON(map[string]any{
				"status":     "running",
				"completed":  false,
				"current":    update.Current,
				"total":      update.Total,
				"percentage": update.Percentage,
				"algorithm":  update.Algorithm,
				"file":       update.File,
				"operation":  update.Operation,
			})
		case <-ticker.C:
			s.jobStore.mu.RLock()
			currentJob, exists := s.jobStore.jobs[id]
			status := ""
			if exists {
				status = currentJob.Status
			}
			s.jobStore.mu.RUnlock()

			if !exists {
				return
			}

			if status != "running" && status != "queued" {
				conn.WriteJSON(map[string]any{
					"status":    status,
					"completed": true,
				})
				return
			}

		case <-r.Context().Done():
			return
		}
	}
}

func (s *Server) handleListReports(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(s.reportStore.All())
}

func (s *Server) handleGetReport(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	report, exists := s.reportStore.Get(vars["id"])
	if !exists {
		http.Error(w, "Report not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(report)
}

// handleDownloadReport streams a report through one of the CLI formatters
// (?format=csv|json|table).
func (s *Server) handleDownloadReport(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	report, exists := s.reportStore.Get(vars["id"])
	if !exists {
		http.Error(w, "Report not found", http.StatusNotFound)
		return
	}

	format := r.URL.Query().Get("format")
	if format == "" {
		format = "csv"
	}
	formatter, err := output.NewFormatter(format)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	switch format {
	case "json":
		w.Header().Set("Content-Type", "application/json")
	case "csv":
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=benchmark_%s.csv", report.ID[:8]))
	default:
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	}

	data := output.Data{
		SystemInfo: report.SystemInfo,
		Results:    report.Results,
		Config:     report.Config,
	}
	if err := formatter.Format(w, data); err != nil {
		log.Printf("Failed to stream report %s: %v", report.ID, err)
	}
}
