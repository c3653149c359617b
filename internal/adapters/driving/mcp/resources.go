package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const uriScheme = "hookdex://"

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "sources",
		Name:        "sources",
		Description: "List of all registered sources",
		MIMEType:    "application/json",
	}, s.handleSourcesResource)

	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "stats",
		Name:        "stats",
		Description: "Aggregate counts across the whole index",
		MIMEType:    "application/json",
	}, s.handleStatsResource)
}

// handleSourcesResource returns a list of all registered sources.
func (s *Server) handleSourcesResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	if s.ports.Source == nil {
		return jsonResource(req.Params.URI, []byte("[]"))
	}

	sources, err := s.ports.Source.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing sources: %w", err)
	}

	type sourceInfo struct {
		Name        string `json:"name"`
		Type        string `json:"type"`
		ContentType string `json:"content_type"`
		Enabled     bool   `json:"enabled"`
		Location    string `json:"location,omitempty"`
	}

	infos := make([]sourceInfo, len(sources))
	for i, src := range sources {
		location := src.Config["path"]
		if location == "" {
			location = src.Config["repo"]
		}
		infos[i] = sourceInfo{
			Name:        src.Name,
			Type:        src.Type,
			ContentType: string(src.ContentType),
			Enabled:     src.Enabled,
			Location:    location,
		}
	}

	data, err := json.MarshalIndent(infos, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling sources: %w", err)
	}
	return jsonResource(req.Params.URI, data)
}

// handleStatsResource returns aggregate index statistics.
func (s *Server) handleStatsResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	stats, err := s.ports.Search.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("collecting stats: %w", err)
	}

	data, err := json.MarshalIndent(stats, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling stats: %w", err)
	}
	return jsonResource(req.Params.URI, data)
}

func jsonResource(uri string, data []byte) (*mcp.ReadResourceResult, error) {
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}
