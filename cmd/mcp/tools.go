package main

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/AnishMulay/sandfat/internal/communication"
	"github.com/AnishMulay/sandfat/internal/log_service"
	"github.com/AnishMulay/sandfat/internal/node_registry"
	sandserver "github.com/AnishMulay/sandfat/internal/server"
	"github.com/AnishMulay/sandfat/internal/volume_service"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

type ServerRegistry struct {
	Nodes         node_registry.NodeRegistry
	DefaultServer string
	Communicator  communication.Communicator
	LogService    log_service.LogService
}

// volume resolves the optional "server" argument to a client for that
// server.
func (r *ServerRegistry) volume(request mcp.CallToolRequest) (volume_service.VolumeService, error) {
	serverID, _ := request.RequireString("server")
	if serverID == "" {
		serverID = r.DefaultServer
	}
	node, err := r.Nodes.GetNode(serverID)
	if err != nil {
		return nil, fmt.Errorf("server %s not found", serverID)
	}
	if !node.Healthy {
		return nil, fmt.Errorf("server %s is marked unhealthy", serverID)
	}
	return sandserver.NewClient(r.Communicator, node.Address, "sandfat-mcp", r.LogService), nil
}

type toolFunc func(ctx context.Context, request mcp.CallToolRequest, vs volume_service.VolumeService) (*mcp.CallToolResult, error)

func (r *ServerRegistry) handler(fn toolFunc) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		vs, err := r.volume(request)
		if err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return fn(ctx, request, vs)
	}
}

func serverArg() mcp.ToolOption {
	return mcp.WithString("server", mcp.Description("ID of the server to use (default server if omitted)"))
}

func nameArg(description string) mcp.ToolOption {
	return mcp.WithString("name", mcp.Required(), mcp.Description(description))
}

func addTools(s *server.MCPServer, registry *ServerRegistry) {
	s.AddTool(mcp.NewTool("list_servers",
		mcp.WithDescription("List all configured servers"),
	), registry.handleListServers)

	s.AddTool(mcp.NewTool("format_volume",
		mcp.WithDescription("Format the volume, discarding all files"),
		mcp.WithNumber("capacity_bytes", mcp.Required(), mcp.Description("Volume capacity in bytes")),
		mcp.WithNumber("cluster_size", mcp.Required(), mcp.Description("Cluster size in bytes")),
		serverArg(),
	), registry.handler(handleFormat))

	s.AddTool(mcp.NewTool("volume_stats",
		mcp.WithDescription("Show space usage of the volume"),
		serverArg(),
	), registry.handler(handleStats))

	s.AddTool(mcp.NewTool("create_file",
		mcp.WithDescription("Create a file and return its cluster chain"),
		nameArg("Name of the new file"),
		mcp.WithString("content", mcp.Required(), mcp.Description("Content of the file")),
		serverArg(),
	), registry.handler(handleCreateFile))

	s.AddTool(mcp.NewTool("copy_file",
		mcp.WithDescription("Copy a file into a new cluster chain"),
		mcp.WithString("src", mcp.Required(), mcp.Description("Name of the source file")),
		mcp.WithString("dest", mcp.Required(), mcp.Description("Name of the new file")),
		serverArg(),
	), registry.handler(handleCopyFile))

	s.AddTool(mcp.NewTool("delete_file",
		mcp.WithDescription("Delete a file and free its clusters"),
		nameArg("Name of the file to delete"),
		serverArg(),
	), registry.handler(handleDeleteFile))

	s.AddTool(mcp.NewTool("read_file",
		mcp.WithDescription("Read the content of a file"),
		nameArg("Name of the file to read"),
		serverArg(),
	), registry.handler(handleReadFile))

	s.AddTool(mcp.NewTool("file_exists",
		mcp.WithDescription("Report whether a file exists"),
		nameArg("Name of the file"),
		serverArg(),
	), registry.handler(handleFileExists))

	s.AddTool(mcp.NewTool("list_files",
		mcp.WithDescription("List file names"),
		serverArg(),
	), registry.handler(handleListFiles))

	s.AddTool(mcp.NewTool("file_chain",
		mcp.WithDescription("Show the cluster chain of a file"),
		nameArg("Name of the file"),
		serverArg(),
	), registry.handler(handleChain))

	s.AddTool(mcp.NewTool("file_slack",
		mcp.WithDescription("Show the unused bytes in the last cluster of a file"),
		nameArg("Name of the file"),
		serverArg(),
	), registry.handler(handleSlack))

	s.AddTool(mcp.NewTool("check_volume",
		mcp.WithDescription("Verify the allocation table against the file chains"),
		serverArg(),
	), registry.handler(handleCheck))
}

func (r *ServerRegistry) handleListServers(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	nodes, err := r.Nodes.GetHealthyNodes()
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var b strings.Builder
	b.WriteString("Available servers:\n")
	for _, node := range nodes {
		fmt.Fprintf(&b, "- %s: %s\n", node.ID, node.Address)
	}
	fmt.Fprintf(&b, "Default server: %s\n", r.DefaultServer)
	return mcp.NewToolResultText(b.String()), nil
}

// requireInt64 reads a numeric argument that must hold a whole number
// representable as int64. JSON numbers arrive as float64.
func requireInt64(request mcp.CallToolRequest, key string) (int64, error) {
	v, err := request.RequireFloat(key)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) || v != math.Trunc(v) {
		return 0, fmt.Errorf("argument %q must be a whole number, got %v", key, v)
	}
	if v < math.MinInt64 || v >= math.MaxInt64 {
		return 0, fmt.Errorf("argument %q is out of range: %v", key, v)
	}
	return int64(v), nil
}

func handleFormat(ctx context.Context, request mcp.CallToolRequest, vs volume_service.VolumeService) (*mcp.CallToolResult, error) {
	capacity, err := requireInt64(request, "capacity_bytes")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	clusterSize, err := requireInt64(request, "cluster_size")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	stats, err := vs.Format(capacity, clusterSize)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to format volume: %v", err)), nil
	}
	return jsonResult(stats)
}

func handleStats(ctx context.Context, request mcp.CallToolRequest, vs volume_service.VolumeService) (*mcp.CallToolResult, error) {
	stats, err := vs.Stats()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to get stats: %v", err)), nil
	}
	return jsonResult(stats)
}

func handleCreateFile(ctx context.Context, request mcp.CallToolRequest, vs volume_service.VolumeService) (*mcp.CallToolResult, error) {
	name, err := request.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	content, err := request.RequireString("content")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	chain, err := vs.CreateFile(name, []byte(content))
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to create file: %v", err)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Created %s, chain: %v", name, chain)), nil
}

func handleCopyFile(ctx context.Context, request mcp.CallToolRequest, vs volume_service.VolumeService) (*mcp.CallToolResult, error) {
	src, err := request.RequireString("src")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	dest, err := request.RequireString("dest")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	chain, err := vs.CopyFile(src, dest)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to copy file: %v", err)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Copied %s to %s, chain: %v", src, dest, chain)), nil
}

func handleDeleteFile(ctx context.Context, request mcp.CallToolRequest, vs volume_service.VolumeService) (*mcp.CallToolResult, error) {
	name, err := request.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := vs.DeleteFile(name); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to delete file: %v", err)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("Deleted %s", name)), nil
}

func handleReadFile(ctx context.Context, request mcp.CallToolRequest, vs volume_service.VolumeService) (*mcp.CallToolResult, error) {
	name, err := request.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	data, err := vs.ReadFile(name)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to read file: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

func handleFileExists(ctx context.Context, request mcp.CallToolRequest, vs volume_service.VolumeService) (*mcp.CallToolResult, error) {
	name, err := request.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	exists, err := vs.FileExists(name)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to check file: %v", err)), nil
	}
	return mcp.NewToolResultText(fmt.Sprint(exists)), nil
}

func handleListFiles(ctx context.Context, request mcp.CallToolRequest, vs volume_service.VolumeService) (*mcp.CallToolResult, error) {
	names, err := vs.ListFiles()
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to list files: %v", err)), nil
	}
	return mcp.NewToolResultText(strings.Join(names, "\n")), nil
}

func handleChain(ctx context.Context, request mcp.CallToolRequest, vs volume_service.VolumeService) (*mcp.CallToolResult, error) {
	name, err := request.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	chain, err := vs.ChainOf(name)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to get chain: %v", err)), nil
	}
	return mcp.NewToolResultText(fmt.Sprint(chain)), nil
}

func handleSlack(ctx context.Context, request mcp.CallToolRequest, vs volume_service.VolumeService) (*mcp.CallToolResult, error) {
	name, err := request.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	slack, err := vs.SlackOf(name)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to get slack: %v", err)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("%d bytes", slack)), nil
}

func handleCheck(ctx context.Context, request mcp.CallToolRequest, vs volume_service.VolumeService) (*mcp.CallToolResult, error) {
	if err := vs.Check(); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Volume check failed: %v", err)), nil
	}
	return mcp.NewToolResultText("Volume is consistent"), nil
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}
