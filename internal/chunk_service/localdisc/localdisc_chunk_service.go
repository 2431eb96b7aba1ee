package localdisc

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/AnishMulay/sandfat/internal/chunk_service"
	"github.com/AnishMulay/sandfat/internal/log_service"
)

const chunkSuffix = ".chunk"

type LocalDiscChunkService struct {
	baseDir string
	ls      log_service.LogService
}

func NewLocalDiscChunkService(baseDir string, ls log_service.LogService) (*LocalDiscChunkService, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, err
	}
	return &LocalDiscChunkService{
		baseDir: baseDir,
		ls:      ls,
	}, nil
}

func (cs *LocalDiscChunkService) chunkPath(name string) string {
	return filepath.Join(cs.baseDir, name+chunkSuffix)
}

func (cs *LocalDiscChunkService) PutChunk(name string, data []byte) (int64, error) {
	cs.ls.Debug(log_service.LogEvent{
		Message:  "Writing chunk",
		Metadata: map[string]any{"name": name, "size": len(data)},
	})

	if err := os.WriteFile(cs.chunkPath(name), data, 0644); err != nil {
		cs.ls.Error(log_service.LogEvent{
			Message:  "Failed to write chunk",
			Metadata: map[string]any{"name": name, "error": err.Error()},
		})
		return 0, chunk_service.ErrChunkWriteFailed
	}
	return int64(len(data)), nil
}

func (cs *LocalDiscChunkService) ReadChunk(name string) ([]byte, error) {
	data, err := os.ReadFile(cs.chunkPath(name))
	if errors.Is(err, os.ErrNotExist) {
		return nil, chunk_service.ErrChunkNotFound
	}
	if err != nil {
		cs.ls.Error(log_service.LogEvent{
			Message:  "Failed to read chunk",
			Metadata: map[string]any{"name": name, "error": err.Error()},
		})
		return nil, chunk_service.ErrChunkReadFailed
	}
	return data, nil
}

func (cs *LocalDiscChunkService) DeleteChunk(name string) error {
	err := os.Remove(cs.chunkPath(name))
	if errors.Is(err, os.ErrNotExist) {
		return chunk_service.ErrChunkNotFound
	}
	if err != nil {
		cs.ls.Error(log_service.LogEvent{
			Message:  "Failed to delete chunk",
			Metadata: map[string]any{"name": name, "error": err.Error()},
		})
		return chunk_service.ErrChunkDeleteFailed
	}
	return nil
}

func (cs *LocalDiscChunkService) ChunkExists(name string) (bool, error) {
	_, err := os.Stat(cs.chunkPath(name))
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, chunk_service.ErrChunkReadFailed
	}
	return true, nil
}

func (cs *LocalDiscChunkService) ChunkLength(name string) (int64, error) {
	info, err := os.Stat(cs.chunkPath(name))
	if errors.Is(err, os.ErrNotExist) {
		return 0, chunk_service.ErrChunkNotFound
	}
	if err != nil {
		return 0, chunk_service.ErrChunkReadFailed
	}
	return info.Size(), nil
}

// Purge removes only *.chunk files so a state document kept in the same
// directory survives.
func (cs *LocalDiscChunkService) Purge() error {
	entries, err := os.ReadDir(cs.baseDir)
	if err != nil {
		return chunk_service.ErrPurgeFailed
	}

	removed := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), chunkSuffix) {
			continue
		}
		if err := os.Remove(filepath.Join(cs.baseDir, entry.Name())); err != nil {
			cs.ls.Error(log_service.LogEvent{
				Message:  "Failed to purge chunk",
				Metadata: map[string]any{"file": entry.Name(), "error": err.Error()},
			})
			return chunk_service.ErrPurgeFailed
		}
		removed++
	}

	cs.ls.Info(log_service.LogEvent{
		Message:  "Chunks purged",
		Metadata: map[string]any{"dir": cs.baseDir, "removed": removed},
	})
	return nil
}

var _ chunk_service.ChunkService = (*LocalDiscChunkService)(nil)
