package localdisc

import (
	"errors"
	"os"
	"path/filepath"
	"sync"

	"github.com/AnishMulay/sandfat/internal/log_service"
	"github.com/AnishMulay/sandfat/internal/metadata_service"
	"github.com/AnishMulay/sandfat/internal/volume"
)

// StateFileName is the name of the document inside the state directory.
const StateFileName = ".fat"

// LocalDiscMetadataService stores the state document in a single file.
// Saves go to a temporary file in the same directory which is synced
// and then renamed over the old document.
type LocalDiscMetadataService struct {
	mu      sync.Mutex
	baseDir string
	codec   metadata_service.Codec
	ls      log_service.LogService
}

func NewLocalDiscMetadataService(baseDir string, codec metadata_service.Codec, ls log_service.LogService) (*LocalDiscMetadataService, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, err
	}
	if codec == nil {
		codec = metadata_service.JSONCodec{}
	}
	return &LocalDiscMetadataService{
		baseDir: baseDir,
		codec:   codec,
		ls:      ls,
	}, nil
}

func (ms *LocalDiscMetadataService) statePath() string {
	return filepath.Join(ms.baseDir, StateFileName)
}

func (ms *LocalDiscMetadataService) SaveState(doc *volume.Document) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	data, err := ms.codec.Marshal(doc)
	if err != nil {
		ms.ls.Error(log_service.LogEvent{
			Message:  "Failed to encode volume state",
			Metadata: map[string]any{"codec": ms.codec.Name(), "error": err.Error()},
		})
		return metadata_service.ErrStateSaveFailed
	}

	if err := ms.writeAtomic(data); err != nil {
		ms.ls.Error(log_service.LogEvent{
			Message:  "Failed to write volume state",
			Metadata: map[string]any{"path": ms.statePath(), "error": err.Error()},
		})
		return metadata_service.ErrStateSaveFailed
	}

	ms.ls.Debug(log_service.LogEvent{
		Message:  "Volume state saved",
		Metadata: map[string]any{"path": ms.statePath(), "bytes": len(data), "codec": ms.codec.Name()},
	})
	return nil
}

func (ms *LocalDiscMetadataService) writeAtomic(data []byte) error {
	tmp, err := os.CreateTemp(ms.baseDir, StateFileName+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, ms.statePath()); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}

func (ms *LocalDiscMetadataService) LoadState() (*volume.Document, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	data, err := os.ReadFile(ms.statePath())
	if errors.Is(err, os.ErrNotExist) {
		return nil, metadata_service.ErrNoState
	}
	if err != nil {
		ms.ls.Error(log_service.LogEvent{
			Message:  "Failed to read volume state",
			Metadata: map[string]any{"path": ms.statePath(), "error": err.Error()},
		})
		return nil, metadata_service.ErrStateLoadFailed
	}

	doc, err := ms.codec.Unmarshal(data)
	if err != nil {
		ms.ls.Error(log_service.LogEvent{
			Message:  "Failed to decode volume state",
			Metadata: map[string]any{"path": ms.statePath(), "codec": ms.codec.Name(), "error": err.Error()},
		})
		return nil, err
	}
	return doc, nil
}

var _ metadata_service.MetadataService = (*LocalDiscMetadataService)(nil)
