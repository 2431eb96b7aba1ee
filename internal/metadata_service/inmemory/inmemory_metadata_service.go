package inmemory

import (
	"sync"

	"github.com/AnishMulay/sandfat/internal/log_service"
	"github.com/AnishMulay/sandfat/internal/metadata_service"
	"github.com/AnishMulay/sandfat/internal/volume"
)

// InMemoryMetadataService keeps the encoded document in memory. It
// still goes through a codec so saves and loads never share slices
// with the caller.
type InMemoryMetadataService struct {
	mu    sync.RWMutex
	codec metadata_service.Codec
	data  []byte
	saves int
	ls    log_service.LogService

	// FailSaves makes every SaveState fail, for exercising rollback.
	FailSaves bool
}

func NewInMemoryMetadataService(ls log_service.LogService) *InMemoryMetadataService {
	return &InMemoryMetadataService{
		codec: metadata_service.JSONCodec{},
		ls:    ls,
	}
}

func (ms *InMemoryMetadataService) SaveState(doc *volume.Document) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	if ms.FailSaves {
		ms.ls.Error(log_service.LogEvent{
			Message:  "Refusing to save volume state",
			Metadata: map[string]any{"reason": "saves disabled"},
		})
		return metadata_service.ErrStateSaveFailed
	}

	data, err := ms.codec.Marshal(doc)
	if err != nil {
		return metadata_service.ErrStateSaveFailed
	}
	ms.data = data
	ms.saves++

	ms.ls.Debug(log_service.LogEvent{
		Message:  "Volume state saved in memory",
		Metadata: map[string]any{"bytes": len(data)},
	})
	return nil
}

func (ms *InMemoryMetadataService) LoadState() (*volume.Document, error) {
	ms.mu.RLock()
	defer ms.mu.RUnlock()

	if ms.data == nil {
		return nil, metadata_service.ErrNoState
	}
	return ms.codec.Unmarshal(ms.data)
}

// Saves reports how many documents have been written.
func (ms *InMemoryMetadataService) Saves() int {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	return ms.saves
}

var _ metadata_service.MetadataService = (*InMemoryMetadataService)(nil)
