package localdisc

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"

	"github.com/AnishMulay/sandfat/internal/log_service"
)

type LocalDiscLogService struct {
	logDir        string
	nodeID        string
	mu            sync.Mutex
	file          *os.File
	logger        *log.Logger
	minLevel      int
	filterEnabled bool
}

func NewLocalDiscLogService(logDir string, nodeID string, minLogLevel ...string) (*LocalDiscLogService, error) {
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	filePath := filepath.Join(logDir, fmt.Sprintf("%s.log", nodeID))
	file, err := os.OpenFile(filePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	service := &LocalDiscLogService{
		logDir:        logDir,
		nodeID:        nodeID,
		file:          file,
		logger:        log.New(file, "", 0),
		filterEnabled: true,
		minLevel:      log_service.DebugLevelValue,
	}

	if len(minLogLevel) > 0 && minLogLevel[0] != "" {
		service.SetMinLogLevel(minLogLevel[0])
	}

	return service, nil
}

func (ls *LocalDiscLogService) SetMinLogLevel(level string) {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	ls.minLevel = log_service.GetLevelValue(level)
	ls.filterEnabled = true
}

func (ls *LocalDiscLogService) DisableFiltering() {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	ls.filterEnabled = false
}

func (ls *LocalDiscLogService) Close() error {
	ls.mu.Lock()
	defer ls.mu.Unlock()
	return ls.file.Close()
}

func (ls *LocalDiscLogService) log(level string, event log_service.LogEvent) {
	ls.mu.Lock()
	defer ls.mu.Unlock()

	if ls.filterEnabled && log_service.GetLevelValue(level) < ls.minLevel {
		return
	}

	event.NodeID = ls.nodeID
	ls.logger.Println(log_service.FormatLine(level, event))
}

func (ls *LocalDiscLogService) Debug(event log_service.LogEvent) {
	ls.log(log_service.DebugLevel, event)
}

func (ls *LocalDiscLogService) Info(event log_service.LogEvent) {
	ls.log(log_service.InfoLevel, event)
}

func (ls *LocalDiscLogService) Warn(event log_service.LogEvent) {
	ls.log(log_service.WarnLevel, event)
}

func (ls *LocalDiscLogService) Error(event log_service.LogEvent) {
	ls.log(log_service.ErrorLevel, event)
}

var _ log_service.LogService = (*LocalDiscLogService)(nil)
