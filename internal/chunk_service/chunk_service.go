package chunk_service

// ChunkService holds the bytes of each file. The allocation table only
// records how many clusters a file needs; the content itself is kept
// here under the file's name.
type ChunkService interface {
	// PutChunk stores data under name, replacing any previous content,
	// and returns the number of bytes stored.
	PutChunk(name string, data []byte) (int64, error)
	ReadChunk(name string) ([]byte, error)
	DeleteChunk(name string) error
	ChunkExists(name string) (bool, error)
	ChunkLength(name string) (int64, error)
	// Purge removes every stored chunk.
	Purge() error
}
