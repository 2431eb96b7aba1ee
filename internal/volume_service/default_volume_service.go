package volume_service

import (
	"errors"
	"fmt"
	"sync"

	"github.com/AnishMulay/sandfat/internal/chunk_service"
	"github.com/AnishMulay/sandfat/internal/file_service"
	"github.com/AnishMulay/sandfat/internal/log_service"
	"github.com/AnishMulay/sandfat/internal/metadata_service"
	"github.com/AnishMulay/sandfat/internal/space_service"
	"github.com/AnishMulay/sandfat/internal/volume"
)

type Options struct {
	// PurgeOnFormat removes all stored content when the volume is
	// formatted.
	PurgeOnFormat bool
}

// DefaultVolumeService owns the state of one volume. The state is nil
// until Format or Load succeeds; until then every command fails with
// volume.ErrNotInitialized. A single mutex covers each command
// together with the persistence write it triggers.
type DefaultVolumeService struct {
	mu   sync.Mutex
	st   *volume.State
	fs   file_service.FileService
	ms   metadata_service.MetadataService
	cs   chunk_service.ChunkService
	ls   log_service.LogService
	opts Options
}

func NewDefaultVolumeService(fs file_service.FileService, ms metadata_service.MetadataService, cs chunk_service.ChunkService, ls log_service.LogService, opts Options) *DefaultVolumeService {
	return &DefaultVolumeService{
		fs:   fs,
		ms:   ms,
		cs:   cs,
		ls:   ls,
		opts: opts,
	}
}

// Load enters the formatted state from the persisted document.
func (vs *DefaultVolumeService) Load() error {
	vs.mu.Lock()
	defer vs.mu.Unlock()

	doc, err := vs.ms.LoadState()
	if errors.Is(err, metadata_service.ErrNoState) {
		return fmt.Errorf("%w: no saved state, format the volume first", volume.ErrNotInitialized)
	}
	if err != nil {
		if errors.Is(err, metadata_service.ErrStateDecodeFailed) {
			return fmt.Errorf("%w: %v", volume.ErrCorruptState, err)
		}
		return err
	}

	st, err := volume.FromDocument(doc, vs.cs.ChunkLength)
	if err != nil {
		vs.ls.Error(log_service.LogEvent{
			Message:  "Persisted volume state is invalid",
			Metadata: map[string]any{"error": err.Error()},
		})
		return err
	}

	vs.st = st
	vs.ls.Info(log_service.LogEvent{
		Message: "Volume loaded",
		Metadata: map[string]any{
			"volumeID": st.VolumeID,
			"clusters": st.Allocator.TotalClusters(),
			"files":    len(st.Files),
		},
	})
	return nil
}

func (vs *DefaultVolumeService) Format(capacityBytes, clusterSize int64) (space_service.Stats, error) {
	vs.mu.Lock()
	defer vs.mu.Unlock()

	vs.ls.Info(log_service.LogEvent{
		Message:  "Formatting volume",
		Metadata: map[string]any{"capacity": capacityBytes, "clusterSize": clusterSize},
	})

	st, err := volume.New(capacityBytes, clusterSize)
	if err != nil {
		return space_service.Stats{}, err
	}

	if err := vs.ms.SaveState(st.ToDocument()); err != nil {
		vs.ls.Error(log_service.LogEvent{
			Message:  "Failed to persist formatted volume",
			Metadata: map[string]any{"error": err.Error()},
		})
		return space_service.Stats{}, fmt.Errorf("%w: %v", file_service.ErrMetadataPersistFailed, err)
	}
	vs.st = st

	if vs.opts.PurgeOnFormat {
		// The new empty namespace is already committed; content left
		// behind by a failed purge is unreachable.
		if err := vs.cs.Purge(); err != nil {
			vs.ls.Warn(log_service.LogEvent{
				Message:  "Failed to purge content during format",
				Metadata: map[string]any{"error": err.Error()},
			})
		}
	}

	vs.ls.Info(log_service.LogEvent{
		Message: "Volume formatted",
		Metadata: map[string]any{
			"volumeID":      st.VolumeID,
			"clusters":      st.Allocator.TotalClusters(),
			"unaddressable": space_service.Unaddressable(st),
		},
	})
	return space_service.GetStats(st)
}

func (vs *DefaultVolumeService) Stats() (space_service.Stats, error) {
	vs.mu.Lock()
	defer vs.mu.Unlock()
	return space_service.GetStats(vs.st)
}

func (vs *DefaultVolumeService) CreateFile(name string, data []byte) ([]int, error) {
	vs.mu.Lock()
	defer vs.mu.Unlock()

	rec, err := vs.fs.CreateFile(vs.st, name, data)
	if err != nil {
		return nil, err
	}
	return rec.Chain, nil
}

func (vs *DefaultVolumeService) CopyFile(src, dest string) ([]int, error) {
	vs.mu.Lock()
	defer vs.mu.Unlock()

	rec, err := vs.fs.CopyFile(vs.st, src, dest)
	if err != nil {
		return nil, err
	}
	return rec.Chain, nil
}

func (vs *DefaultVolumeService) DeleteFile(name string) error {
	vs.mu.Lock()
	defer vs.mu.Unlock()
	return vs.fs.DeleteFile(vs.st, name)
}

func (vs *DefaultVolumeService) ReadFile(name string) ([]byte, error) {
	vs.mu.Lock()
	defer vs.mu.Unlock()
	return vs.fs.ReadFile(vs.st, name)
}

func (vs *DefaultVolumeService) FileExists(name string) (bool, error) {
	vs.mu.Lock()
	defer vs.mu.Unlock()
	return vs.fs.FileExists(vs.st, name)
}

func (vs *DefaultVolumeService) ListFiles() ([]string, error) {
	vs.mu.Lock()
	defer vs.mu.Unlock()
	return vs.fs.ListFiles(vs.st)
}

func (vs *DefaultVolumeService) ChainOf(name string) ([]int, error) {
	vs.mu.Lock()
	defer vs.mu.Unlock()
	return vs.fs.ChainOf(vs.st, name)
}

func (vs *DefaultVolumeService) SlackOf(name string) (int64, error) {
	vs.mu.Lock()
	defer vs.mu.Unlock()
	return space_service.Slack(vs.st, name)
}

// Check verifies the in-memory state against the table and namespace
// invariants.
func (vs *DefaultVolumeService) Check() error {
	vs.mu.Lock()
	defer vs.mu.Unlock()

	if vs.st == nil {
		return volume.ErrNotInitialized
	}
	if err := vs.st.CheckConsistency(); err != nil {
		vs.ls.Error(log_service.LogEvent{
			Message:  "Volume consistency check failed",
			Metadata: map[string]any{"error": err.Error()},
		})
		return err
	}
	return nil
}

var _ VolumeService = (*DefaultVolumeService)(nil)
