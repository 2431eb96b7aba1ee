package localdisc

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/AnishMulay/sandfat/internal/chunk_service"
	"github.com/AnishMulay/sandfat/internal/log_service/console"
)

func newService(t *testing.T, dir string) *LocalDiscChunkService {
	t.Helper()
	cs, err := NewLocalDiscChunkService(dir, console.NewDiscardLogService())
	if err != nil {
		t.Fatalf("NewLocalDiscChunkService() error = %v", err)
	}
	return cs
}

func TestLocalDiscChunkService_PutChunk(t *testing.T) {
	tests := []struct {
		name      string
		chunkName string
		data      []byte
		wantErr   bool
	}{
		{
			name:      "put chunk with data",
			chunkName: "hello.txt",
			data:      []byte("hello world"),
		},
		{
			name:      "put empty chunk",
			chunkName: "empty.txt",
			data:      []byte{},
		},
		{
			name:      "put binary data",
			chunkName: "binary.bin",
			data:      []byte{0x00, 0x01, 0x02, 0xFF},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cs := newService(t, t.TempDir())

			n, err := cs.PutChunk(tt.chunkName, tt.data)
			if (err != nil) != tt.wantErr {
				t.Errorf("PutChunk() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if n != int64(len(tt.data)) {
				t.Errorf("PutChunk() length = %d, want %d", n, len(tt.data))
			}

			written, err := os.ReadFile(cs.chunkPath(tt.chunkName))
			if err != nil {
				t.Errorf("PutChunk() failed to read written file: %v", err)
				return
			}
			if !bytes.Equal(written, tt.data) {
				t.Errorf("PutChunk() written data = %v, want %v", written, tt.data)
			}
		})
	}
}

func TestLocalDiscChunkService_ReadChunk(t *testing.T) {
	tests := []struct {
		name      string
		chunkName string
		data      []byte
		setupFn   func(*LocalDiscChunkService)
		wantErr   error
	}{
		{
			name:      "read existing chunk",
			chunkName: "a.txt",
			data:      []byte("hello world"),
			setupFn: func(cs *LocalDiscChunkService) {
				_, _ = cs.PutChunk("a.txt", []byte("hello world"))
			},
		},
		{
			name:      "read missing chunk",
			chunkName: "missing.txt",
			wantErr:   chunk_service.ErrChunkNotFound,
		},
		{
			name:      "read empty chunk",
			chunkName: "empty.txt",
			data:      []byte{},
			setupFn: func(cs *LocalDiscChunkService) {
				_, _ = cs.PutChunk("empty.txt", nil)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cs := newService(t, t.TempDir())
			if tt.setupFn != nil {
				tt.setupFn(cs)
			}

			data, err := cs.ReadChunk(tt.chunkName)
			if err != tt.wantErr {
				t.Errorf("ReadChunk() error = %v, want %v", err, tt.wantErr)
				return
			}
			if tt.wantErr == nil && !bytes.Equal(data, tt.data) {
				t.Errorf("ReadChunk() data = %v, want %v", data, tt.data)
			}
		})
	}
}

func TestLocalDiscChunkService_DeleteChunk(t *testing.T) {
	cs := newService(t, t.TempDir())
	if _, err := cs.PutChunk("a.txt", []byte("data")); err != nil {
		t.Fatalf("PutChunk() error = %v", err)
	}

	if err := cs.DeleteChunk("a.txt"); err != nil {
		t.Errorf("DeleteChunk() error = %v", err)
	}
	if _, err := os.Stat(cs.chunkPath("a.txt")); !os.IsNotExist(err) {
		t.Errorf("DeleteChunk() file still exists")
	}
	if err := cs.DeleteChunk("a.txt"); err != chunk_service.ErrChunkNotFound {
		t.Errorf("DeleteChunk() second call error = %v, want %v", err, chunk_service.ErrChunkNotFound)
	}
}

func TestLocalDiscChunkService_ExistsAndLength(t *testing.T) {
	cs := newService(t, t.TempDir())
	if _, err := cs.PutChunk("a.txt", make([]byte, 9000)); err != nil {
		t.Fatalf("PutChunk() error = %v", err)
	}

	exists, err := cs.ChunkExists("a.txt")
	if err != nil || !exists {
		t.Errorf("ChunkExists(a.txt) = %v, %v, want true, nil", exists, err)
	}
	exists, err = cs.ChunkExists("b.txt")
	if err != nil || exists {
		t.Errorf("ChunkExists(b.txt) = %v, %v, want false, nil", exists, err)
	}

	length, err := cs.ChunkLength("a.txt")
	if err != nil || length != 9000 {
		t.Errorf("ChunkLength(a.txt) = %d, %v, want 9000, nil", length, err)
	}
	if _, err := cs.ChunkLength("b.txt"); err != chunk_service.ErrChunkNotFound {
		t.Errorf("ChunkLength(b.txt) error = %v, want %v", err, chunk_service.ErrChunkNotFound)
	}
}

func TestLocalDiscChunkService_PurgeKeepsOtherFiles(t *testing.T) {
	dir := t.TempDir()
	cs := newService(t, dir)
	for _, name := range []string{"a.txt", "b.txt", "c.txt"} {
		if _, err := cs.PutChunk(name, []byte(name)); err != nil {
			t.Fatalf("PutChunk(%s) error = %v", name, err)
		}
	}
	if err := os.WriteFile(filepath.Join(dir, ".fat"), []byte("{}"), 0644); err != nil {
		t.Fatal(err)
	}

	if err := cs.Purge(); err != nil {
		t.Fatalf("Purge() error = %v", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Name() != ".fat" {
		t.Errorf("Purge() left %v, want only .fat", entries)
	}
}
