package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoad_WritesDefaultsWhenMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf", "sandfat.yaml")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, Default(), cfg)

	_, err = os.Stat(path)
	require.NoError(t, err)

	again, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, cfg, again)
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sandfat.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
node_id: vol-a
volume:
  cluster_size: 512
metadata:
  codec: cbor
server:
  transport: grpc
`), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "vol-a", cfg.NodeID)
	require.Equal(t, int64(512), cfg.Volume.ClusterSize)
	require.Equal(t, DefaultCapacityBytes, cfg.Volume.CapacityBytes)
	require.True(t, cfg.Volume.PurgeOnFormat)
	require.Equal(t, CodecCBOR, cfg.Metadata.Codec)
	require.Equal(t, TransportGRPC, cfg.Server.Transport)
	require.Equal(t, "localhost:8080", cfg.Server.Listen)
}

func TestLoad_RejectsMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sandfat.yaml")
	require.NoError(t, os.WriteFile(path, []byte("volume: [unterminated"), 0644))

	_, err := Load(path)
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		valid  bool
	}{
		{name: "defaults", mutate: func(*Config) {}, valid: true},
		{name: "zstd and cbor", mutate: func(c *Config) {
			c.Chunks.Compression = CompressionZstd
			c.Metadata.Codec = CodecCBOR
		}, valid: true},
		{name: "zero cluster size", mutate: func(c *Config) { c.Volume.ClusterSize = 0 }},
		{name: "negative capacity", mutate: func(c *Config) { c.Volume.CapacityBytes = -1 }},
		{name: "too many clusters", mutate: func(c *Config) {
			c.Volume.CapacityBytes = 1 << 62
			c.Volume.ClusterSize = 1
		}},
		{name: "empty data dir", mutate: func(c *Config) { c.DataDir = "" }},
		{name: "unknown codec", mutate: func(c *Config) { c.Metadata.Codec = "xml" }},
		{name: "unknown compression", mutate: func(c *Config) { c.Chunks.Compression = "lz4" }},
		{name: "unknown transport", mutate: func(c *Config) { c.Server.Transport = "udp" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.valid {
				require.NoError(t, err)
			} else {
				require.ErrorIs(t, err, ErrInvalidConfig)
			}
		})
	}
}
