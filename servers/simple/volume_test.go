package simple

import (
	"testing"

	"github.com/AnishMulay/sandfat/internal/config"
	"github.com/AnishMulay/sandfat/internal/log_service/console"
	"github.com/AnishMulay/sandfat/internal/volume"
	"github.com/stretchr/testify/require"
)

func TestOpenVolume_Reopen(t *testing.T) {
	tests := []struct {
		name        string
		codec       string
		compression string
	}{
		{name: "json plain", codec: config.CodecJSON, compression: config.CompressionNone},
		{name: "cbor zstd", codec: config.CodecCBOR, compression: config.CompressionZstd},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			cfg.DataDir = t.TempDir()
			cfg.Metadata.Codec = tt.codec
			cfg.Chunks.Compression = tt.compression
			ls := console.NewDiscardLogService()

			vol, err := OpenVolume(cfg, ls)
			require.NoError(t, err)
			require.False(t, vol.Formatted)
			_, err = vol.Stats()
			require.ErrorIs(t, err, volume.ErrNotInitialized)

			_, err = vol.Format(16*1024, 1024)
			require.NoError(t, err)
			_, err = vol.CreateFile("readme", []byte("a fat little volume"))
			require.NoError(t, err)
			vol.Close()

			reopened, err := OpenVolume(cfg, ls)
			require.NoError(t, err)
			defer reopened.Close()
			require.True(t, reopened.Formatted)

			data, err := reopened.ReadFile("readme")
			require.NoError(t, err)
			require.Equal(t, "a fat little volume", string(data))

			stats, err := reopened.Stats()
			require.NoError(t, err)
			require.Equal(t, 16, stats.TotalClusters)
			require.Equal(t, 1, stats.UsedClusters)
		})
	}
}

func TestNewCommunicator(t *testing.T) {
	ls := console.NewDiscardLogService()

	comm, err := NewCommunicator(config.TransportHTTP, "127.0.0.1:0", ls)
	require.NoError(t, err)
	require.Equal(t, "127.0.0.1:0", comm.Address())

	_, err = NewCommunicator(config.TransportGRPC, "127.0.0.1:0", ls)
	require.NoError(t, err)

	_, err = NewCommunicator("carrier-pigeon", "", ls)
	require.ErrorIs(t, err, config.ErrInvalidConfig)
}
