package log_service

import (
	"testing"
	"time"
)

func TestGetLevelValue(t *testing.T) {
	tests := []struct {
		level string
		want  int
	}{
		{"DEBUG", DebugLevelValue},
		{"info", InfoLevelValue},
		{" WARN ", WarnLevelValue},
		{"ERROR", ErrorLevelValue},
		{"chatty", InfoLevelValue},
		{"", InfoLevelValue},
	}
	for _, tt := range tests {
		if got := GetLevelValue(tt.level); got != tt.want {
			t.Errorf("GetLevelValue(%q) = %d, want %d", tt.level, got, tt.want)
		}
	}
}

func TestFormatLine(t *testing.T) {
	event := LogEvent{
		Timestamp: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
		NodeID:    "node1",
		Message:   "File created",
		Metadata:  map[string]any{"name": "a.txt", "clusters": 3},
	}

	got := FormatLine(InfoLevel, event)
	want := "2024-03-01T12:00:00Z [node1] INFO: File created clusters=3 name=a.txt"
	if got != want {
		t.Errorf("FormatLine() = %q, want %q", got, want)
	}
}
