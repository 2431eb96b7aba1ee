package inmemory

import (
	"sync"

	"github.com/AnishMulay/sandfat/internal/chunk_service"
)

type InMemoryChunkService struct {
	mu     sync.RWMutex
	chunks map[string][]byte

	// FailPuts makes every PutChunk fail.
	FailPuts bool
}

func NewInMemoryChunkService() *InMemoryChunkService {
	return &InMemoryChunkService{
		chunks: make(map[string][]byte),
	}
}

func (cs *InMemoryChunkService) PutChunk(name string, data []byte) (int64, error) {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	if cs.FailPuts {
		return 0, chunk_service.ErrChunkWriteFailed
	}
	stored := make([]byte, len(data))
	copy(stored, data)
	cs.chunks[name] = stored
	return int64(len(data)), nil
}

func (cs *InMemoryChunkService) ReadChunk(name string) ([]byte, error) {
	cs.mu.RLock()
	defer cs.mu.RUnlock()

	data, ok := cs.chunks[name]
	if !ok {
		return nil, chunk_service.ErrChunkNotFound
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

func (cs *InMemoryChunkService) DeleteChunk(name string) error {
	cs.mu.Lock()
	defer cs.mu.Unlock()

	if _, ok := cs.chunks[name]; !ok {
		return chunk_service.ErrChunkNotFound
	}
	delete(cs.chunks, name)
	return nil
}

func (cs *InMemoryChunkService) ChunkExists(name string) (bool, error) {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	_, ok := cs.chunks[name]
	return ok, nil
}

func (cs *InMemoryChunkService) ChunkLength(name string) (int64, error) {
	cs.mu.RLock()
	defer cs.mu.RUnlock()

	data, ok := cs.chunks[name]
	if !ok {
		return 0, chunk_service.ErrChunkNotFound
	}
	return int64(len(data)), nil
}

func (cs *InMemoryChunkService) Purge() error {
	cs.mu.Lock()
	defer cs.mu.Unlock()
	cs.chunks = make(map[string][]byte)
	return nil
}

// Len reports how many chunks are stored.
func (cs *InMemoryChunkService) Len() int {
	cs.mu.RLock()
	defer cs.mu.RUnlock()
	return len(cs.chunks)
}

var _ chunk_service.ChunkService = (*InMemoryChunkService)(nil)
