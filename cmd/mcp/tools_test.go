package main

import (
	"context"
	"path/filepath"
	"testing"

	chunkinmemory "github.com/AnishMulay/sandfat/internal/chunk_service/inmemory"
	httpcomm "github.com/AnishMulay/sandfat/internal/communication/http"
	"github.com/AnishMulay/sandfat/internal/file_service"
	"github.com/AnishMulay/sandfat/internal/log_service/console"
	metainmemory "github.com/AnishMulay/sandfat/internal/metadata_service/inmemory"
	"github.com/AnishMulay/sandfat/internal/node_registry"
	sandserver "github.com/AnishMulay/sandfat/internal/server"
	"github.com/AnishMulay/sandfat/internal/volume_service"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/require"
)

func newRegistry(t *testing.T) *ServerRegistry {
	t.Helper()
	ls := console.NewDiscardLogService()
	ms := metainmemory.NewInMemoryMetadataService(ls)
	cs := chunkinmemory.NewInMemoryChunkService()
	vs := volume_service.NewDefaultVolumeService(file_service.NewChainFileService(ms, cs, ls), ms, cs, ls, volume_service.Options{})

	srv := sandserver.NewVolumeServer(httpcomm.NewHTTPCommunicator("127.0.0.1:0", ls), vs, ls)
	require.NoError(t, srv.Start())
	t.Cleanup(func() { srv.Stop() })

	nodes, err := node_registry.NewInMemoryNodeRegistry(
		node_registry.Node{ID: "local", Address: srv.Address(), Healthy: true},
		node_registry.Node{ID: "down", Address: "127.0.0.1:1"},
	)
	require.NoError(t, err)

	return &ServerRegistry{
		Nodes:         nodes,
		DefaultServer: "local",
		Communicator:  httpcomm.NewHTTPCommunicator("", ls),
		LogService:    ls,
	}
}

func call(t *testing.T, r *ServerRegistry, fn toolFunc, args map[string]any) (string, bool) {
	t.Helper()
	var request mcp.CallToolRequest
	request.Params.Arguments = args

	result, err := r.handler(fn)(context.Background(), request)
	require.NoError(t, err)
	require.Len(t, result.Content, 1)
	text, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok)
	return text.Text, result.IsError
}

func TestTools(t *testing.T) {
	r := newRegistry(t)

	_, isErr := call(t, r, handleStats, nil)
	require.True(t, isErr)

	out, isErr := call(t, r, handleFormat, map[string]any{"capacity_bytes": float64(4096), "cluster_size": float64(1024)})
	require.False(t, isErr)
	require.Contains(t, out, `"total_clusters": 4`)

	out, isErr = call(t, r, handleCreateFile, map[string]any{"name": "note", "content": "hi"})
	require.False(t, isErr)
	require.Equal(t, "Created note, chain: [0]", out)

	_, isErr = call(t, r, handleCreateFile, map[string]any{"name": "note"})
	require.True(t, isErr)

	out, isErr = call(t, r, handleCopyFile, map[string]any{"src": "note", "dest": "copy"})
	require.False(t, isErr)
	require.Equal(t, "Copied note to copy, chain: [1]", out)

	out, isErr = call(t, r, handleReadFile, map[string]any{"name": "copy"})
	require.False(t, isErr)
	require.Equal(t, "hi", out)

	out, isErr = call(t, r, handleSlack, map[string]any{"name": "note"})
	require.False(t, isErr)
	require.Equal(t, "1022 bytes", out)

	out, isErr = call(t, r, handleListFiles, nil)
	require.False(t, isErr)
	require.Equal(t, "copy\nnote", out)

	_, isErr = call(t, r, handleDeleteFile, map[string]any{"name": "note"})
	require.False(t, isErr)

	out, isErr = call(t, r, handleFileExists, map[string]any{"name": "note"})
	require.False(t, isErr)
	require.Equal(t, "false", out)

	out, isErr = call(t, r, handleChain, map[string]any{"name": "note"})
	require.True(t, isErr)
	require.Contains(t, out, "not found")

	_, isErr = call(t, r, handleCheck, map[string]any{"server": "local"})
	require.False(t, isErr)

	out, isErr = call(t, r, handleCheck, map[string]any{"server": "elsewhere"})
	require.True(t, isErr)
	require.Equal(t, "server elsewhere not found", out)

	out, isErr = call(t, r, handleCheck, map[string]any{"server": "down"})
	require.True(t, isErr)
	require.Equal(t, "server down is marked unhealthy", out)
}

func TestFormatRejectsNonIntegralGeometry(t *testing.T) {
	r := newRegistry(t)

	tests := []struct {
		name string
		args map[string]any
		want string
	}{
		{
			name: "fractional cluster size",
			args: map[string]any{"capacity_bytes": float64(40960), "cluster_size": 4096.5},
			want: "must be a whole number",
		},
		{
			name: "fractional capacity",
			args: map[string]any{"capacity_bytes": 0.5, "cluster_size": float64(512)},
			want: "must be a whole number",
		},
		{
			name: "capacity beyond int64",
			args: map[string]any{"capacity_bytes": 1e19, "cluster_size": float64(512)},
			want: "out of range",
		},
		{
			name: "too many clusters",
			args: map[string]any{"capacity_bytes": float64(1 << 62), "cluster_size": float64(1)},
			want: "invalid volume geometry",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, isErr := call(t, r, handleFormat, tt.args)
			require.True(t, isErr)
			require.Contains(t, out, tt.want)
		})
	}

	_, isErr := call(t, r, handleStats, nil)
	require.True(t, isErr)
}

func TestListServers(t *testing.T) {
	r := newRegistry(t)

	result, err := r.handleListServers(context.Background(), mcp.CallToolRequest{})
	require.NoError(t, err)
	text := result.Content[0].(mcp.TextContent).Text
	require.Contains(t, text, "- local: 127.0.0.1:")
	require.NotContains(t, text, "down")
	require.Contains(t, text, "Default server: local")
}

func TestLoadConfig_WritesDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mcp.yaml")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, "server1", cfg.DefaultServer)

	again, err := LoadConfig(path)
	require.NoError(t, err)
	require.Equal(t, cfg, again)
}
