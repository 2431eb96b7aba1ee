package file_service

import (
	"errors"
	"fmt"

	"github.com/AnishMulay/sandfat/internal/chunk_service"
	"github.com/AnishMulay/sandfat/internal/log_service"
	"github.com/AnishMulay/sandfat/internal/metadata_service"
	"github.com/AnishMulay/sandfat/internal/volume"
)

// ChainFileService creates, copies and deletes files by allocating and
// freeing cluster chains. Creating a name that already exists fails
// with volume.ErrAlreadyExists; nothing is ever overwritten in place.
type ChainFileService struct {
	ms metadata_service.MetadataService
	cs chunk_service.ChunkService
	ls log_service.LogService
}

func NewChainFileService(ms metadata_service.MetadataService, cs chunk_service.ChunkService, ls log_service.LogService) *ChainFileService {
	return &ChainFileService{
		ms: ms,
		cs: cs,
		ls: ls,
	}
}

func (fs *ChainFileService) CreateFile(st *volume.State, name string, data []byte) (*volume.FileRecord, error) {
	if st == nil {
		return nil, volume.ErrNotInitialized
	}
	if err := volume.ValidateName(name); err != nil {
		return nil, err
	}

	fs.ls.Info(log_service.LogEvent{
		Message:  "Creating file",
		Metadata: map[string]any{"name": name, "size": len(data)},
	})

	rec, err := fs.commitNewFile(st, name, data)
	if err != nil {
		fs.ls.Error(log_service.LogEvent{
			Message:  "Failed to create file",
			Metadata: map[string]any{"name": name, "error": err.Error()},
		})
		return nil, err
	}

	fs.ls.Info(log_service.LogEvent{
		Message:  "File created successfully",
		Metadata: map[string]any{"name": name, "clusters": len(rec.Chain)},
	})
	return rec, nil
}

func (fs *ChainFileService) CopyFile(st *volume.State, src, dest string) (*volume.FileRecord, error) {
	if st == nil {
		return nil, volume.ErrNotInitialized
	}
	if err := volume.ValidateName(dest); err != nil {
		return nil, err
	}

	fs.ls.Info(log_service.LogEvent{
		Message:  "Copying file",
		Metadata: map[string]any{"src": src, "dest": dest},
	})

	if _, err := st.Lookup(src); err != nil {
		return nil, err
	}

	data, err := fs.cs.ReadChunk(src)
	if err != nil {
		fs.ls.Error(log_service.LogEvent{
			Message:  "Failed to read source content",
			Metadata: map[string]any{"src": src, "error": err.Error()},
		})
		return nil, fmt.Errorf("%w: %s: %v", ErrChunkReadFailed, src, err)
	}

	rec, err := fs.commitNewFile(st, dest, data)
	if err != nil {
		fs.ls.Error(log_service.LogEvent{
			Message:  "Failed to copy file",
			Metadata: map[string]any{"src": src, "dest": dest, "error": err.Error()},
		})
		return nil, err
	}

	fs.ls.Info(log_service.LogEvent{
		Message:  "File copied successfully",
		Metadata: map[string]any{"src": src, "dest": dest, "clusters": len(rec.Chain)},
	})
	return rec, nil
}

// commitNewFile stages a new chain on a copy of st, stores the content
// and persists the staged state before making it visible in st.
func (fs *ChainFileService) commitNewFile(st *volume.State, name string, data []byte) (*volume.FileRecord, error) {
	if st.Exists(name) {
		return nil, fmt.Errorf("%w: %s", volume.ErrAlreadyExists, name)
	}

	staged := st.Clone()
	length := int64(len(data))

	chain, err := staged.Allocator.Allocate(volume.ClustersFor(length, staged.ClusterSize))
	if err != nil {
		return nil, err
	}
	rec := &volume.FileRecord{Name: name, Chain: chain, Length: length}
	staged.Files[name] = rec

	if _, err := fs.cs.PutChunk(name, data); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrChunkStoreFailed, name, err)
	}

	if err := fs.ms.SaveState(staged.ToDocument()); err != nil {
		if delErr := fs.cs.DeleteChunk(name); delErr != nil {
			fs.ls.Warn(log_service.LogEvent{
				Message:  "Failed to remove content of uncommitted file",
				Metadata: map[string]any{"name": name, "error": delErr.Error()},
			})
		}
		return nil, fmt.Errorf("%w: %v", ErrMetadataPersistFailed, err)
	}

	*st = *staged
	return cloneRecord(rec), nil
}

func (fs *ChainFileService) DeleteFile(st *volume.State, name string) error {
	if st == nil {
		return volume.ErrNotInitialized
	}

	fs.ls.Info(log_service.LogEvent{
		Message:  "Deleting file",
		Metadata: map[string]any{"name": name},
	})

	rec, err := st.Lookup(name)
	if err != nil {
		return err
	}

	staged := st.Clone()
	if err := staged.Allocator.Free(rec.Chain); err != nil {
		fs.ls.Error(log_service.LogEvent{
			Message:  "Chain does not match allocation table",
			Metadata: map[string]any{"name": name, "chain": rec.Chain, "error": err.Error()},
		})
		return err
	}
	delete(staged.Files, name)

	if err := fs.ms.SaveState(staged.ToDocument()); err != nil {
		fs.ls.Error(log_service.LogEvent{
			Message:  "Failed to persist deletion",
			Metadata: map[string]any{"name": name, "error": err.Error()},
		})
		return fmt.Errorf("%w: %v", ErrMetadataPersistFailed, err)
	}
	*st = *staged

	// The deletion is committed. Content left behind is unreachable and
	// is overwritten by the next file stored under the same name.
	if err := fs.cs.DeleteChunk(name); err != nil && !errors.Is(err, chunk_service.ErrChunkNotFound) {
		fs.ls.Warn(log_service.LogEvent{
			Message:  "Failed to delete file content",
			Metadata: map[string]any{"name": name, "error": err.Error()},
		})
	}

	fs.ls.Info(log_service.LogEvent{
		Message:  "File deleted successfully",
		Metadata: map[string]any{"name": name, "clusters": len(rec.Chain)},
	})
	return nil
}

func (fs *ChainFileService) ReadFile(st *volume.State, name string) ([]byte, error) {
	if st == nil {
		return nil, volume.ErrNotInitialized
	}
	if _, err := st.Lookup(name); err != nil {
		return nil, err
	}

	data, err := fs.cs.ReadChunk(name)
	if err != nil {
		fs.ls.Error(log_service.LogEvent{
			Message:  "Failed to read file content",
			Metadata: map[string]any{"name": name, "error": err.Error()},
		})
		return nil, fmt.Errorf("%w: %s: %v", ErrChunkReadFailed, name, err)
	}
	return data, nil
}

func (fs *ChainFileService) FileExists(st *volume.State, name string) (bool, error) {
	if st == nil {
		return false, volume.ErrNotInitialized
	}
	return st.Exists(name), nil
}

func (fs *ChainFileService) ListFiles(st *volume.State) ([]string, error) {
	if st == nil {
		return nil, volume.ErrNotInitialized
	}
	return st.Names(), nil
}

func (fs *ChainFileService) ChainOf(st *volume.State, name string) ([]int, error) {
	if st == nil {
		return nil, volume.ErrNotInitialized
	}
	rec, err := st.Lookup(name)
	if err != nil {
		return nil, err
	}
	return cloneRecord(rec).Chain, nil
}

func cloneRecord(rec *volume.FileRecord) *volume.FileRecord {
	chain := make([]int, len(rec.Chain))
	copy(chain, rec.Chain)
	return &volume.FileRecord{Name: rec.Name, Chain: chain, Length: rec.Length}
}

var _ FileService = (*ChainFileService)(nil)
