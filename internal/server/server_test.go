package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/brasiledu/BenchAESDES/internal/benchmark"
	"github.com/brasiledu/BenchAESDES/internal/storage"
)

func TestServerBenchmarkFlow(t *testing.T) {
	srv, err := NewServer("8080", t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create server: %v", err)
	}
	srv.queue.Start()
	defer srv.queue.Stop()

	config := benchmark.Config{
		Algorithms: []string{"des"},
		Sizes:      []benchmark.FileSize{{Label: "1KB", Bytes: 1024}},
		Runs:       2,
		DataDir:    t.TempDir(),
	}

	configJSON, _ := json.Marshal(config)
	req := httptest.NewRequest("POST", "/api/v1/benchmarks", bytes.NewBuffer(configJSON))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	srv.router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}

	var response map[string]string
	json.NewDecoder(w.Body).Decode(&response)

	jobID, ok := response["job_id"]
	if !ok {
		t.Fatal("No job_id in response")
	}

	// Wait for the queued job to finish.
	var job BenchmarkJob
	deadline := time.Now().Add(10 * time.Second)
	for {
		req = httptest.NewRequest("GET", "/api/v1/benchmarks/"+jobID, nil)
		w = httptest.NewRecorder()
		srv.router.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d", w.Code)
		}

		json.NewDecoder(w.Body).Decode(&job)
		if job.Status == "completed" || job.Status == "failed" {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("Job did not finish in time, status %q", job.Status)
		}
		time.Sleep(50 * time.Millisecond)
	}

	if job.Status != "completed" {
		t.Fatalf("Expected status 'completed', got '%s' (%s)", job.Status, job.Error)
	}

	// One algorithm, one file, two operations.
	if len(job.Results) != 2 {
		t.Errorf("Expected 2 results, got %d", len(job.Results))
	}
	if job.ReportID == "" {
		t.Fatal("Completed job has no report ID")
	}

	// The report must be retrievable with its persisted artifacts.
	req = httptest.NewRequest("GET", "/api/v1/reports/"+job.ReportID, nil)
	w = httptest.NewRecorder()
	srv.router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var report storage.Report
	json.NewDecoder(w.Body).Decode(&report)
	if len(report.Results) != 2 {
		t.Errorf("Expected 2 result rows in report, got %d", len(report.Results))
	}
	if len(report.Artifacts) == 0 {
		t.Error("Expected persisted artifacts on the report")
	}

	// Download the report as CSV.
	req = httptest.NewRequest("GET", "/api/v1/reports/"+job.ReportID+"/download?format=csv", nil)
	w = httptest.NewRecorder()
	srv.router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "text/csv" {
		t.Errorf("Expected text/csv, got %s", ct)
	}
	if !bytes.Contains(w.Body.Bytes(), []byte("DES")) {
		t.Error("CSV download missing DES rows")
	}
}

// The worker mutates jobs under the store lock while clients poll, so the
// job endpoints have to encode snapshots, not live pointers.
func TestJobEndpointsDuringRun(t *testing.T) {
	srv, err := NewServer("8080", t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create server: %v", err)
	}
	srv.queue.Start()
	defer srv.queue.Stop()

	config := benchmark.Config{
		Algorithms: []string{"des"},
		Sizes:      []benchmark.FileSize{{Label: "1KB", Bytes: 1024}},
		Runs:       3,
		DataDir:    t.TempDir(),
	}
	configJSON, _ := json.Marshal(config)
	req := httptest.NewRequest("POST", "/api/v1/benchmarks", bytes.NewBuffer(configJSON))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	srv.router.ServeHTTP(w, req)

	var created map[string]string
	json.NewDecoder(w.Body).Decode(&created)
	jobID := created["job_id"]
	if jobID == "" {
		t.Fatal("No job_id in response")
	}

	stop := make(chan struct{})
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
				}
				for _, path := range []string{"/api/v1/benchmarks", "/api/v1/benchmarks/" + jobID} {
					req := httptest.NewRequest("GET", path, nil)
					w := httptest.NewRecorder()
					srv.router.ServeHTTP(w, req)
					if w.Code != http.StatusOK {
						t.Errorf("GET %s returned %d", path, w.Code)
						return
					}
					if !json.Valid(w.Body.Bytes()) {
						t.Errorf("GET %s returned invalid JSON", path)
						return
					}
				}
			}
		}()
	}

	var job BenchmarkJob
	deadline := time.Now().Add(10 * time.Second)
	for {
		req := httptest.NewRequest("GET", "/api/v1/benchmarks/"+jobID, nil)
		w := httptest.NewRecorder()
		srv.router.ServeHTTP(w, req)
		json.NewDecoder(w.Body).Decode(&job)
		if job.Status == "completed" || job.Status == "failed" {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("Job did not finish in time, status %q", job.Status)
		}
		time.Sleep(20 * time.Millisecond)
	}
	close(stop)
	wg.Wait()

	if job.Status != "completed" {
		t.Fatalf("Expected status 'completed', got '%s' (%s)", job.Status, job.Error)
	}
}

func TestBenchmarkProgressWebsocket(t *testing.T) {
	srv, err := NewServer("8080", t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create server: %v", err)
	}
	srv.queue.Start()
	defer srv.queue.Stop()

	ts := httptest.NewServer(srv.router)
	defer ts.Close()

	config := benchmark.Config{
		Algorithms: []string{"des"},
		Sizes:      []benchmark.FileSize{{Label: "1KB", Bytes: 1024}},
		Runs:       2,
		DataDir:    t.TempDir(),
	}
	configJSON, _ := json.Marshal(config)
	resp, err := http.Post(ts.URL+"/api/v1/benchmarks", "application/json", bytes.NewBuffer(configJSON))
	if err != nil {
		t.Fatalf("Failed to submit benchmark: %v", err)
	}
	var created map[string]string
	json.NewDecoder(resp.Body).Decode(&created)
	resp.Body.Close()
	jobID := created["job_id"]
	if jobID == "" {
		t.Fatal("No job_id in response")
	}

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/v1/benchmarks/" + jobID + "/progress"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("WebSocket dial failed: %v", err)
	}
	defer conn.Close()

	// The stream must keep delivering after the worker closes the job's
	// progress channel, ending with a completion frame.
	conn.SetReadDeadline(time.Now().Add(10 * time.Second))
	for {
		var msg map[string]any
		if err := conn.ReadJSON(&msg); err != nil {
			t.Fatalf("Reading progress stream: %v", err)
		}
		if completed, _ := msg["completed"].(bool); completed {
			if msg["status"] != "completed" {
				t.Errorf("Expected final status 'completed', got %v", msg["status"])
			}
			break
		}
	}
}

func TestServerRejectsBadRequests(t *testing.T) {
	srv, err := NewServer("8080", t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create server: %v", err)
	}

	req := httptest.NewRequest("POST", "/api/v1/benchmarks", bytes.NewBufferString("{not json"))
	w := httptest.NewRecorder()
	srv.router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", w.Code)
	}

	req = httptest.NewRequest("GET", "/api/v1/benchmarks/no-such-id", nil)
	w = httptest.NewRecorder()
	srv.router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", w.Code)
	}

	req = httptest.NewRequest("GET", "/api/v1/reports/no-such-id", nil)
	w = httptest.NewRecorder()
	srv.router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", w.Code)
	}
}

func TestSystemInfoEndpoint(t *testing.T) {
	srv, err := NewServer("8080", t.TempDir())
	if err != nil {
		t.Fatalf("Failed to create server: %v", err)
	}

	req := httptest.NewRequest("GET", "/api/v1/system-info", nil)
	w := httptest.NewRecorder()
	srv.router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var info map[string]any
	if err := json.NewDecoder(w.Body).Decode(&info); err != nil {
		t.Fatalf("Invalid JSON: %v", err)
	}
	if info["os"] == "" {
		t.Error("Expected os field in system info")
	}
}
