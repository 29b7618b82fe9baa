// Package mcp provides an MCP (Model Context Protocol) server that exposes
// the discovery wall to AI coding assistants as read-only tools.
package mcp

import (
	"context"
	"fmt"
	"time"

	"github.com/hanselhq/hansel/internal/storage"
	"github.com/hanselhq/hansel/pkg/models"
	gomcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// Server wraps the artifact store and exposes it as MCP tools.
type Server struct {
	server *gomcp.Server
	store  storage.ArtifactStoreManager
}

// NewServer creates a new MCP server over the given artifact store.
func NewServer(store storage.ArtifactStoreManager, version string) *Server {
	if version == "" {
		version = "dev"
	}

	s := &Server{store: store}
	s.server = gomcp.NewServer(
		&gomcp.Implementation{Name: "hansel", Version: version},
		nil,
	)
	s.registerTools()
	return s
}

// Run starts the MCP server on stdio, blocking until the client disconnects
// or the context is cancelled.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &gomcp.StdioTransport{})
}

// MCPServer returns the underlying mcp.Server for testing purposes.
func (s *Server) MCPServer() *gomcp.Server {
	return s.server
}

// --- Tool input/output types ---

type listArtifactsInput struct {
	Type string `json:"type,omitempty" jsonschema:"filter by artifact type (mandate, research_question, insight, hmw_challenge, idea, test_card, learning_card)"`
}

type artifactOutput struct {
	ID        string   `json:"id"`
	Type      string   `json:"type"`
	Title     string   `json:"title"`
	Content   string   `json:"content"`
	Status    string   `json:"status"`
	Category  string   `json:"category"`
	CreatedBy string   `json:"created_by"`
	Created   string   `json:"created"`
	Updated   string   `json:"updated"`
	RelatedTo []string `json:"related_to,omitempty"`
}

type listArtifactsOutput struct {
	Artifacts []artifactOutput `json:"artifacts"`
	Count     int              `json:"count"`
}

type getMandateInput struct{}

type getWallCountsInput struct{}

type wallCountsOutput struct {
	Counts map[string]int `json:"counts"`
	Total  int            `json:"total"`
}

// --- Tool registration ---

func (s *Server) registerTools() {
	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "list_artifacts",
		Description: "List discovery wall artifacts with an optional type filter. Returns full artifact records.",
	}, s.handleListArtifacts)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "get_mandate",
		Description: "Get the current mandate artifact, the singleton strategic brief of the discovery session.",
	}, s.handleGetMandate)

	gomcp.AddTool(s.server, &gomcp.Tool{
		Name:        "get_wall_counts",
		Description: "Get artifact counts per wall category (mandate, problem, solution, test).",
	}, s.handleGetWallCounts)
}

// --- Tool handlers ---

func artifactToOutput(a models.Artifact) artifactOutput {
	return artifactOutput{
		ID:        a.ID,
		Type:      string(a.Type),
		Title:     a.Title,
		Content:   a.Content,
		Status:    string(a.Status),
		Category:  a.Category(),
		CreatedBy: a.CreatedBy,
		Created:   a.CreatedAt.Format(time.RFC3339),
		Updated:   a.UpdatedAt.Format(time.RFC3339),
		RelatedTo: a.RelatedTo,
	}
}

func (s *Server) handleListArtifacts(_ context.Context, _ *gomcp.CallToolRequest, input listArtifactsInput) (*gomcp.CallToolResult, listArtifactsOutput, error) {
	var artifacts []models.Artifact
	var err error

	if input.Type != "" {
		artifacts, err = s.store.LoadByType(models.ArtifactType(input.Type))
	} else {
		artifacts, err = s.store.LoadAll()
	}
	if err != nil {
		return errorResult(fmt.Sprintf("listing artifacts: %s", err)), listArtifactsOutput{}, nil
	}

	out := listArtifactsOutput{
		Artifacts: make([]artifactOutput, len(artifacts)),
		Count:     len(artifacts),
	}
	for i, a := range artifacts {
		out.Artifacts[i] = artifactToOutput(a)
	}
	return nil, out, nil
}

func (s *Server) handleGetMandate(_ context.Context, _ *gomcp.CallToolRequest, _ getMandateInput) (*gomcp.CallToolResult, artifactOutput, error) {
	mandates, err := s.store.LoadByType(models.TypeMandate)
	if err != nil {
		return errorResult(fmt.Sprintf("loading mandate: %s", err)), artifactOutput{}, nil
	}
	if len(mandates) == 0 {
		return errorResult("no mandate exists yet"), artifactOutput{}, nil
	}
	return nil, artifactToOutput(mandates[0]), nil
}

func (s *Server) handleGetWallCounts(_ context.Context, _ *gomcp.CallToolRequest, _ getWallCountsInput) (*gomcp.CallToolResult, wallCountsOutput, error) {
	counts, err := s.store.CountsByCategory()
	if err != nil {
		return errorResult(fmt.Sprintf("counting artifacts: %s", err)), wallCountsOutput{}, nil
	}
	total := 0
	for _, c := range counts {
		total += c
	}
	return nil, wallCountsOutput{Counts: counts, Total: total}, nil
}

func errorResult(msg string) *gomcp.CallToolResult {
	return &gomcp.CallToolResult{
		Content: []gomcp.Content{&gomcp.TextContent{Text: msg}},
		IsError: true,
	}
}
