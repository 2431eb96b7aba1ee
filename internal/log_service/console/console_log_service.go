package console

import (
	"fmt"
	"io"
	"sync"

	"github.com/AnishMulay/sandfat/internal/log_service"
)

// ConsoleLogService writes the same line format as the local disc
// logger to an arbitrary writer, typically stderr.
type ConsoleLogService struct {
	mu       sync.Mutex
	w        io.Writer
	nodeID   string
	minLevel int
}

func NewConsoleLogService(w io.Writer, nodeID string, minLogLevel string) *ConsoleLogService {
	return &ConsoleLogService{
		w:        w,
		nodeID:   nodeID,
		minLevel: log_service.GetLevelValue(minLogLevel),
	}
}

// NewDiscardLogService drops everything. Used by tests and by callers
// that have nowhere to send logs.
func NewDiscardLogService() *ConsoleLogService {
	return NewConsoleLogService(io.Discard, "", log_service.ErrorLevel)
}

func (ls *ConsoleLogService) log(level string, event log_service.LogEvent) {
	if log_service.GetLevelValue(level) < ls.minLevel {
		return
	}

	ls.mu.Lock()
	defer ls.mu.Unlock()

	event.NodeID = ls.nodeID
	fmt.Fprintln(ls.w, log_service.FormatLine(level, event))
}

func (ls *ConsoleLogService) Debug(event log_service.LogEvent) {
	ls.log(log_service.DebugLevel, event)
}

func (ls *ConsoleLogService) Info(event log_service.LogEvent) {
	ls.log(log_service.InfoLevel, event)
}

func (ls *ConsoleLogService) Warn(event log_service.LogEvent) {
	ls.log(log_service.WarnLevel, event)
}

func (ls *ConsoleLogService) Error(event log_service.LogEvent) {
	ls.log(log_service.ErrorLevel, event)
}

var _ log_service.LogService = (*ConsoleLogService)(nil)
