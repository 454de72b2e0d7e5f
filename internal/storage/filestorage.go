package storage

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// FileStorage persists report artifacts (CSV exports, JSON reports, chart
// PNGs) under a results directory and prunes aged ones.
type FileStorage struct {
	basePath string
	mu       sync.RWMutex
	files    map[string]*ArtifactInfo
}

type ArtifactInfo struct {
	ReportID  string    `json:"report_id"`
	Path      string    `json:"path"`
	Size      int64     `json:"size"`
	CreatedAt time.Time `json:"created_at"`
}

func NewFileStorage(basePath string) (*FileStorage, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}

	for _, dir := range []string{"reports", "charts"} {
		if err := os.MkdirAll(filepath.Join(basePath, dir), 0755); err != nil {
			return nil, err
		}
	}

	return &FileStorage{
		basePath: basePath,
		files:    make(map[string]*ArtifactInfo),
	}, nil
}

// ChartDir returns the directory chart renderers should write into for a
// report. The rendered files still need Register calls to be tracked.
func (fs *FileStorage) ChartDir(reportID string) string {
	return filepath.Join(fs.basePath, "charts", reportID)
}

// SaveArtifact writes one artifact via the supplied writer callback and
// tracks it. The name becomes part of the on-disk filename.
func (fs *FileStorage) SaveArtifact(reportID, name string, write func(io.Writer) error) (string, error) {
	path := filepath.Join(fs.basePath, "reports", fmt.Sprintf("%s_%s", reportID, name))

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create artifact file: %w", err)
	}
	if err := write(f); err != nil {
		f.Close()
		os.Remove(path)
		return "", fmt.Errorf("failed to write artifact %s: %w", name, err)
	}
	if err := f.Close(); err != nil {
		return "", err
	}

	return path, fs.Register(reportID, path)
}

// Register tracks an artifact file that was written in place (charts).
func (fs *FileStorage) Register(reportID, path string) error {
	stat, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("failed to stat artifact %s: %w", path, err)
	}

	fs.mu.Lock()
	fs.files[path] = &ArtifactInfo{
		ReportID:  reportID,
		Path:      path,
		Size:      stat.Size(),
		CreatedAt: time.Now(),
	}
	fs.mu.Unlock()

	return nil
}

func (fs *FileStorage) ListArtifacts(reportID string) []*ArtifactInfo {
	fs.mu.RLock()
	defer fs.mu.RUnlock()

	var artifacts []*ArtifactInfo
	for _, info := range fs.files {
		if info.ReportID == reportID {
			artifacts = append(artifacts, info)
		}
	}
	return artifacts
}

// StartCleanupRoutine periodically removes tracked artifacts older than
// maxAge.
func (fs *FileStorage) StartCleanupRoutine(interval, maxAge time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for range ticker.C {
			removed, err := fs.CleanupOlderThan(maxAge)
			if err != nil {
				log.Printf("Artifact cleanup failed: %v", err)
			} else if removed > 0 {
				log.Printf("Cleaned up %d aged artifacts", removed)
			}
		}
	}()
}

func (fs *FileStorage) CleanupOlderThan(maxAge time.Duration) (int, error) {
	cutoff := time.Now().Add(-maxAge)

	fs.mu.Lock()
	defer fs.mu.Unlock()

	removed := 0
	var firstErr error
	for path, info := range fs.files {
		if info.CreatedAt.After(cutoff) {
			continue
		}
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		delete(fs.files, path)
		removed++
	}
	return removed, firstErr
}
