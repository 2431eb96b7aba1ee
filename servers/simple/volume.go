package simple

import (
	"errors"
	"fmt"
	"os"

	"github.com/AnishMulay/sandfat/internal/chunk_service"
	"github.com/AnishMulay/sandfat/internal/chunk_service/compressed"
	chunklocaldisc "github.com/AnishMulay/sandfat/internal/chunk_service/localdisc"
	"github.com/AnishMulay/sandfat/internal/config"
	"github.com/AnishMulay/sandfat/internal/file_service"
	logservice "github.com/AnishMulay/sandfat/internal/log_service"
	"github.com/AnishMulay/sandfat/internal/log_service/console"
	locallog "github.com/AnishMulay/sandfat/internal/log_service/localdisc"
	"github.com/AnishMulay/sandfat/internal/metadata_service"
	metalocaldisc "github.com/AnishMulay/sandfat/internal/metadata_service/localdisc"
	"github.com/AnishMulay/sandfat/internal/volume"
	"github.com/AnishMulay/sandfat/internal/volume_service"
)

// NewLogService logs to a file under cfg.Log.Dir, or to stderr when
// no directory is configured. The returned close func is never nil.
func NewLogService(cfg *config.Config) (logservice.LogService, func() error, error) {
	if cfg.Log.Dir == "" {
		return console.NewConsoleLogService(os.Stderr, cfg.NodeID, cfg.Log.Level), func() error { return nil }, nil
	}
	ls, err := locallog.NewLocalDiscLogService(cfg.Log.Dir, cfg.NodeID, cfg.Log.Level)
	if err != nil {
		return nil, nil, err
	}
	return ls, ls.Close, nil
}

// Volume is a volume opened from the data directory.
type Volume struct {
	*volume_service.DefaultVolumeService

	// Formatted is false when the data directory holds no volume yet.
	Formatted bool

	closeChunks func()
}

func (v *Volume) Close() {
	if v.closeChunks != nil {
		v.closeChunks()
	}
}

// OpenVolume wires the persistent stack for cfg and loads the saved
// state, if any. A data directory without state yields an unformatted
// volume rather than an error.
func OpenVolume(cfg *config.Config, ls logservice.LogService) (*Volume, error) {
	codec, err := metadata_service.NewCodec(cfg.Metadata.Codec)
	if err != nil {
		return nil, err
	}
	ms, err := metalocaldisc.NewLocalDiscMetadataService(cfg.DataDir, codec, ls)
	if err != nil {
		return nil, err
	}

	v := &Volume{}
	var cs chunk_service.ChunkService
	cs, err = chunklocaldisc.NewLocalDiscChunkService(cfg.DataDir, ls)
	if err != nil {
		return nil, err
	}
	if cfg.Chunks.Compression == config.CompressionZstd {
		zcs, err := compressed.NewCompressedChunkService(cs)
		if err != nil {
			return nil, err
		}
		cs = zcs
		v.closeChunks = zcs.Close
	}

	fs := file_service.NewChainFileService(ms, cs, ls)
	v.DefaultVolumeService = volume_service.NewDefaultVolumeService(fs, ms, cs, ls, volume_service.Options{
		PurgeOnFormat: cfg.Volume.PurgeOnFormat,
	})

	err = v.Load()
	switch {
	case err == nil:
		v.Formatted = true
	case errors.Is(err, volume.ErrNotInitialized):
		ls.Info(logservice.LogEvent{
			Message:  "No volume found in data directory",
			Metadata: map[string]any{"dataDir": cfg.DataDir},
		})
	default:
		v.Close()
		return nil, fmt.Errorf("failed to load volume from %s: %w", cfg.DataDir, err)
	}
	return v, nil
}
