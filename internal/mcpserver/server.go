// Package mcpserver provides an MCP (Model Context Protocol) server
// that exposes the note list as tools over stdio transport.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/starford/jotpad/internal/notes"
)

// Server wraps the MCP server with note tools.
type Server struct {
	mcp   *server.MCPServer
	store *notes.Store
}

// New creates a new MCP server with all note tools registered.
func New(store *notes.Store) *Server {
	s := &Server{store: store}

	s.mcp = server.NewMCPServer(
		"jotpad",
		"1.0.0",
		server.WithToolCapabilities(false),
	)

	s.mcp.AddTool(mcp.NewTool("read_notes",
		mcp.WithDescription("Return the note list as a JSON array of strings, in display order."),
	), s.readNotes)

	s.mcp.AddTool(mcp.NewTool("append_note",
		mcp.WithDescription("Append one note to the end of the list."),
		mcp.WithString("text", mcp.Required(), mcp.Description("Note text; may be empty")),
	), s.appendNote)

	s.mcp.AddTool(mcp.NewTool("remove_note",
		mcp.WithDescription("Remove the note at a 1-based position."),
		mcp.WithNumber("index", mcp.Required(), mcp.Description("1-based position of the note")),
	), s.removeNote)

	s.mcp.AddTool(mcp.NewTool("replace_notes",
		mcp.WithDescription("Overwrite the whole note list. Open writer pages will overwrite it again on their next save."),
		mcp.WithArray("notes", mcp.Required(), mcp.Description("New note list"), mcp.WithStringItems()),
	), s.replaceNotes)

	return s
}

// ServeStdio serves MCP on stdin/stdout until ctx is cancelled or stdin closes.
func (s *Server) ServeStdio(ctx context.Context) error {
	return server.NewStdioServer(s.mcp).Listen(ctx, os.Stdin, os.Stdout)
}

// MCPServer returns the underlying server for testing.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

func (s *Server) readNotes(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	list, err := s.store.Load(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	out, _ := json.Marshal(list)
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) appendNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	text, err := req.RequireString("text")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	list, err := s.store.Load(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	list = append(list, text)
	if err := s.store.Save(ctx, list); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("appended note %d", len(list))), nil
}

func (s *Server) removeNote(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	index, err := req.RequireInt("index")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	list, err := s.store.Load(ctx)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if index < 1 || index > len(list) {
		return mcp.NewToolResultError(fmt.Sprintf("no note %d (have %d)", index, len(list))), nil
	}
	list = append(list[:index-1], list[index:]...)
	if err := s.store.Save(ctx, list); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("removed note %d, %d left", index, len(list))), nil
}

func (s *Server) replaceNotes(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	list, err := req.RequireStringSlice("notes")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if err := s.store.Save(ctx, list); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("stored %d notes", len(list))), nil
}
