package mcp

import (
	"context"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/stackwm/internal/ipc"
)

const (
	ServerName    = "stackwm"
	ServerVersion = "0.1.0"
)

// Server is the MCP server exposing the layout daemon to agent tooling.
// Every tool is a thin shim over the daemon's IPC surface.
type Server struct {
	mcpServer *mcpsdk.Server
	client    *ipc.Client
}

// NewServer creates a new MCP server backed by the daemon socket.
func NewServer(client *ipc.Client) *Server {
	s := &Server{client: client}

	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    ServerName,
			Version: ServerVersion,
		},
		nil,
	)

	s.registerTools()
	return s
}

// Run starts the MCP server on stdio transport, blocking until done.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "get_status",
		Description: "Get the layout daemon status: display geometry, rotation, stack count, docked/minimize state and current user.",
	}, s.handleGetStatus)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "list_stacks",
		Description: "List all stacks with their effective and raw bounds, dock side and task counts.",
	}, s.handleListStacks)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "dump_stack",
		Description: "Get the deterministic diagnostic dump of one stack, including its tasks top-down and any active bounds adjustment.",
	}, s.handleDumpStack)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "create_stack",
		Description: "Create a stack and attach it to the display. Creating the docked stack (id 3) splits the screen and resizes the other stacks around it.",
	}, s.handleCreateStack)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "remove_stack",
		Description: "Detach and remove a stack. Removing the docked stack restores the other stacks to fullscreen.",
	}, s.handleRemoveStack)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "resize_stack",
		Description: "Resize a stack to an explicit rectangle, or make it fullscreen when no edges are given. Returns whether the layout changed.",
	}, s.handleResizeStack)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "rotate_display",
		Description: "Rotate the display to a quarter-turn rotation (0-3). Stack bounds are carried over and the docked stack re-snaps to the nearest target.",
	}, s.handleRotateDisplay)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "set_minimized",
		Description: "Drive the docked stack minimize progress between 0 (restored) and 1 (fully minimized). Returns whether a relayout is needed.",
	}, s.handleSetMinimized)
}
