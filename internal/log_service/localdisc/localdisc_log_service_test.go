package localdisc

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/AnishMulay/sandfat/internal/log_service"
)

func TestLocalDiscLogService_FiltersByLevel(t *testing.T) {
	dir := t.TempDir()
	ls, err := NewLocalDiscLogService(dir, "node1", log_service.WarnLevel)
	if err != nil {
		t.Fatalf("NewLocalDiscLogService() error = %v", err)
	}

	ls.Debug(log_service.LogEvent{Message: "debug message"})
	ls.Info(log_service.LogEvent{Message: "info message"})
	ls.Warn(log_service.LogEvent{Message: "warn message"})
	ls.Error(log_service.LogEvent{Message: "error message", Metadata: map[string]any{"name": "a.txt"}})

	ls.DisableFiltering()
	ls.Debug(log_service.LogEvent{Message: "unfiltered debug"})

	if err := ls.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "node1.log"))
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	content := string(data)

	for _, absent := range []string{"debug message", "info message"} {
		if strings.Contains(content, absent) {
			t.Errorf("log contains %q, want it filtered", absent)
		}
	}
	for _, present := range []string{"[node1] WARN: warn message", "ERROR: error message name=a.txt", "DEBUG: unfiltered debug"} {
		if !strings.Contains(content, present) {
			t.Errorf("log does not contain %q:\n%s", present, content)
		}
	}
}
