package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/AnishMulay/sandfat/internal/config"
	"github.com/AnishMulay/sandfat/internal/log_service/console"
	"github.com/AnishMulay/sandfat/internal/node_registry"
	"github.com/AnishMulay/sandfat/servers/simple"
	"github.com/mark3labs/mcp-go/server"
	"gopkg.in/yaml.v3"
)

type MCPConfig struct {
	Communicator struct {
		Type string `yaml:"type"`
	} `yaml:"communicator"`
	Servers       []node_registry.Node `yaml:"servers"`
	DefaultServer string               `yaml:"default_server"`
	LogLevel      string               `yaml:"log_level"`
}

func defaultMCPConfig() *MCPConfig {
	cfg := &MCPConfig{
		Servers: []node_registry.Node{
			{ID: "server1", Address: "localhost:8080", Healthy: true},
		},
		DefaultServer: "server1",
		LogLevel:      "WARN",
	}
	cfg.Communicator.Type = config.TransportHTTP
	return cfg
}

func LoadConfig(path string) (*MCPConfig, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		defaultConfig := defaultMCPConfig()

		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create directory: %w", err)
		}
		data, err := yaml.Marshal(defaultConfig)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal default config: %w", err)
		}
		if err := os.WriteFile(path, data, 0644); err != nil {
			return nil, fmt.Errorf("failed to write default config: %w", err)
		}
		return defaultConfig, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := defaultMCPConfig()
	cfg.Servers = nil
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if len(cfg.Servers) == 0 {
		return nil, fmt.Errorf("no servers configured in %s", path)
	}
	return cfg, nil
}

func main() {
	configPath := flag.String("config", "mcp.yaml", "path to the MCP configuration file")
	flag.Parse()

	cfg, err := LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// stdout carries the MCP protocol, so logs go to stderr.
	ls := console.NewConsoleLogService(os.Stderr, "sandfat-mcp", cfg.LogLevel)
	comm, err := simple.NewCommunicator(cfg.Communicator.Type, "", ls)
	if err != nil {
		log.Fatalf("Failed to create communicator: %v", err)
	}
	defer comm.Stop()

	nodes, err := node_registry.NewInMemoryNodeRegistry(cfg.Servers...)
	if err != nil {
		log.Fatalf("Invalid server list: %v", err)
	}
	registry := &ServerRegistry{
		Nodes:         nodes,
		DefaultServer: cfg.DefaultServer,
		Communicator:  comm,
		LogService:    ls,
	}

	s := server.NewMCPServer(
		"sandfat",
		"0.1.0",
		server.WithToolCapabilities(false),
	)
	addTools(s, registry)

	if err := server.ServeStdio(s); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
