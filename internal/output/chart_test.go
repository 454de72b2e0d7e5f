package output

import (
	"os"
	"path/filepath"
	"testing"
)

func TestRenderThroughputCharts(t *testing.T) {
	dir := t.TempDir()

	paths, err := RenderThroughputCharts(dir, sampleData().Results)
	if err != nil {
		t.Fatalf("RenderThroughputCharts failed: %v", err)
	}

	if len(paths) != 2 {
		t.Fatalf("Expected 2 charts, got %d", len(paths))
	}

	for _, name := range []string{"throughput_encrypt.png", "throughput_decrypt.png"} {
		path := filepath.Join(dir, name)
		info, err := os.Stat(path)
		if err != nil {
			t.Errorf("Expected chart %s: %v", name, err)
			continue
		}
		if info.Size() == 0 {
			t.Errorf("Chart %s is empty", name)
		}
	}
}

func TestRenderThroughputChartsRequiresResults(t *testing.T) {
	if _, err := RenderThroughputCharts(t.TempDir(), nil); err == nil {
		t.Error("Expected error with no results")
	}
}
