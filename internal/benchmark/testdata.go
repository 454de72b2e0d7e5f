package benchmark

import (
	"crypto/rand"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// EnsureTestFiles creates any missing payload files with random content
// and loads all of them fully into memory. Files are reused across
// invocations so repeated sweeps measure the same bytes.
func EnsureTestFiles(dataDir string, sizes []FileSize) ([]TestFile, error) {
	if len(sizes) == 0 {
		return nil, fmt.Errorf("%w: no file sizes configured", ErrInvalidConfig)
	}
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	files := make([]TestFile, 0, len(sizes))
	for _, size := range sizes {
		if size.Bytes <= 0 {
			return nil, fmt.Errorf("%w: size %q must be positive, got %d", ErrInvalidConfig, size.Label, size.Bytes)
		}

		path := filepath.Join(dataDir, size.Label+".bin")
		if _, err := os.Stat(path); os.IsNotExist(err) {
			if err := writeRandomFile(path, size.Bytes); err != nil {
				return nil, err
			}
		}

		content, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("loading %s: %w", path, err)
		}
		files = append(files, TestFile{Label: size.Label, Size: len(content), Content: content})
	}

	return files, nil
}

func writeRandomFile(path string, size int) error {
	buf := make([]byte, size)
	if _, err := io.ReadFull(rand.Reader, buf); err != nil {
		return fmt.Errorf("generating content for %s: %w", path, err)
	}
	if err := os.WriteFile(path, buf, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
