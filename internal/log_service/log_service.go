package log_service

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

const (
	DebugLevel = "DEBUG"
	InfoLevel  = "INFO"
	WarnLevel  = "WARN"
	ErrorLevel = "ERROR"
)

const (
	DebugLevelValue = iota
	InfoLevelValue
	WarnLevelValue
	ErrorLevelValue
)

type LogEvent struct {
	Timestamp time.Time
	NodeID    string
	Message   string
	Metadata  map[string]any
}

type LogService interface {
	Debug(event LogEvent)
	Info(event LogEvent)
	Warn(event LogEvent)
	Error(event LogEvent)
}

// GetLevelValue maps a level name onto its ordering. Unknown names are
// treated as INFO.
func GetLevelValue(level string) int {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case DebugLevel:
		return DebugLevelValue
	case InfoLevel:
		return InfoLevelValue
	case WarnLevel:
		return WarnLevelValue
	case ErrorLevel:
		return ErrorLevelValue
	default:
		return InfoLevelValue
	}
}

// FormatLine renders an event as a single log line. Metadata keys are
// sorted so the same event always renders the same way.
func FormatLine(level string, event LogEvent) string {
	ts := event.Timestamp
	if ts.IsZero() {
		ts = time.Now().UTC()
	}

	keys := make([]string, 0, len(event.Metadata))
	for k := range event.Metadata {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var meta strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&meta, "%s=%v ", k, event.Metadata[k])
	}

	return fmt.Sprintf("%s [%s] %s: %s %s", ts.Format(time.RFC3339), event.NodeID, level, event.Message, strings.TrimSpace(meta.String()))
}
