// Package config loads the YAML configuration shared by the sandfat
// binaries. A missing file is replaced by the defaults, written back
// to disk so it can be edited.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/AnishMulay/sandfat/internal/volume"
	"gopkg.in/yaml.v3"
)

const (
	DefaultCapacityBytes int64 = 1 << 30
	DefaultClusterSize   int64 = 4096

	CodecJSON = "json"
	CodecCBOR = "cbor"

	CompressionNone = "none"
	CompressionZstd = "zstd"

	TransportHTTP = "http"
	TransportGRPC = "grpc"
)

var ErrInvalidConfig = errors.New("invalid configuration")

type Config struct {
	NodeID   string         `yaml:"node_id"`
	DataDir  string         `yaml:"data_dir"`
	Volume   VolumeConfig   `yaml:"volume"`
	Metadata MetadataConfig `yaml:"metadata"`
	Chunks   ChunksConfig   `yaml:"chunks"`
	Log      LogConfig      `yaml:"log"`
	Server   ServerConfig   `yaml:"server"`
}

// VolumeConfig is the geometry used when the volume is formatted.
type VolumeConfig struct {
	CapacityBytes int64 `yaml:"capacity_bytes"`
	ClusterSize   int64 `yaml:"cluster_size"`
	PurgeOnFormat bool  `yaml:"purge_on_format"`
}

type MetadataConfig struct {
	// Codec is the encoding of the persisted volume state: json or cbor.
	Codec string `yaml:"codec"`
}

type ChunksConfig struct {
	Compression string `yaml:"compression"`
}

type LogConfig struct {
	// Dir receives the log file. Empty logs to stderr.
	Dir   string `yaml:"dir"`
	Level string `yaml:"level"`
}

type ServerConfig struct {
	Listen        string `yaml:"listen"`
	Transport     string `yaml:"transport"`
	MetricsListen string `yaml:"metrics_listen"`
}

func Default() *Config {
	return &Config{
		NodeID:  "sandfat",
		DataDir: "./data",
		Volume: VolumeConfig{
			CapacityBytes: DefaultCapacityBytes,
			ClusterSize:   DefaultClusterSize,
			PurgeOnFormat: true,
		},
		Metadata: MetadataConfig{Codec: CodecJSON},
		Chunks:   ChunksConfig{Compression: CompressionNone},
		Log:      LogConfig{Level: "INFO"},
		Server: ServerConfig{
			Listen:        "localhost:8080",
			Transport:     TransportHTTP,
			MetricsListen: "localhost:9090",
		},
	}
}

// Load reads the configuration at path. Keys absent from the file keep
// their default values. If the file does not exist the defaults are
// written to it and returned.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		if err := cfg.Write(path); err != nil {
			return nil, err
		}
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Write(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func (c *Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("%w: data_dir is empty", ErrInvalidConfig)
	}
	if c.Volume.ClusterSize <= 0 {
		return fmt.Errorf("%w: cluster_size must be positive, got %d", ErrInvalidConfig, c.Volume.ClusterSize)
	}
	if c.Volume.CapacityBytes <= 0 {
		return fmt.Errorf("%w: capacity_bytes must be positive, got %d", ErrInvalidConfig, c.Volume.CapacityBytes)
	}
	if clusters := c.Volume.CapacityBytes / c.Volume.ClusterSize; clusters > volume.MaxClusters {
		return fmt.Errorf("%w: volume of %d clusters exceeds the limit of %d", ErrInvalidConfig, clusters, volume.MaxClusters)
	}

	switch c.Metadata.Codec {
	case CodecJSON, CodecCBOR:
	default:
		return fmt.Errorf("%w: unknown metadata codec %q", ErrInvalidConfig, c.Metadata.Codec)
	}
	switch c.Chunks.Compression {
	case CompressionNone, CompressionZstd:
	default:
		return fmt.Errorf("%w: unknown chunk compression %q", ErrInvalidConfig, c.Chunks.Compression)
	}
	switch c.Server.Transport {
	case TransportHTTP, TransportGRPC:
	default:
		return fmt.Errorf("%w: unknown transport %q", ErrInvalidConfig, c.Server.Transport)
	}
	return nil
}
