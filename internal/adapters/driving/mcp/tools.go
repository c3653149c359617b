package mcp

import (
	"context"
	"errors"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/hookdex-labs/hookdex-cli/internal/core/domain"
	"github.com/hookdex-labs/hookdex-cli/internal/core/ports/driving"
)

const defaultToolLimit = 20

// SearchHooksInput is the input schema for the search_hooks tool.
type SearchHooksInput struct {
	Query          string `json:"query" jsonschema:"the search query, e.g. a hook name fragment or keywords"`
	Kind           string `json:"kind,omitempty" jsonschema:"filter by hook kind: action, filter, action_ref_array, filter_ref_array"`
	Source         string `json:"source,omitempty" jsonschema:"filter by source name"`
	DynamicOnly    bool   `json:"dynamic_only,omitempty" jsonschema:"only dynamically named hooks"`
	IncludeRemoved bool   `json:"include_removed,omitempty" jsonschema:"include hooks no longer present in the code"`
	Limit          int    `json:"limit,omitempty" jsonschema:"maximum number of results (default 20)"`
}

// HookOutput is one hook in tool output.
type HookOutput struct {
	ID          int64    `json:"id"`
	Name        string   `json:"name"`
	Kind        string   `json:"kind"`
	Source      string   `json:"source"`
	FilePath    string   `json:"file_path"`
	LineNumber  int      `json:"line_number"`
	Params      []string `json:"params,omitempty"`
	Description string   `json:"description,omitempty"`
	DocComment  string   `json:"doc_comment,omitempty"`
	IsDynamic   bool     `json:"is_dynamic,omitempty"`
	Status      string   `json:"status"`
	Score       float64  `json:"score,omitempty"`
}

// SearchHooksOutput is the output schema for the search_hooks tool.
type SearchHooksOutput struct {
	Results []HookOutput `json:"results"`
	Count   int          `json:"count"`
}

// ValidateHookInput is the input schema for the validate_hook tool.
type ValidateHookInput struct {
	Name string `json:"name" jsonschema:"the exact, case-sensitive hook name to validate"`
}

// LocationOutput is one declaration site in validation output.
type LocationOutput struct {
	Source     string `json:"source"`
	FilePath   string `json:"file_path"`
	LineNumber int    `json:"line_number"`
	Kind       string `json:"kind"`
}

// ValidateHookOutput is the output schema for the validate_hook tool.
type ValidateHookOutput struct {
	Name        string           `json:"name"`
	Status      string           `json:"status"`
	Locations   []LocationOutput `json:"locations,omitempty"`
	RemovedAt   string           `json:"removed_at,omitempty"`
	Suggestions []HookOutput     `json:"suggestions,omitempty"`
}

// GetHookInput is the input schema for the get_hook tool.
type GetHookInput struct {
	IDOrName string `json:"id_or_name" jsonschema:"a numeric hook ID or an exact hook name"`
}

// GetHookOutput is the output schema for the get_hook tool.
type GetHookOutput struct {
	Hook        HookOutput `json:"hook"`
	CodeContext string     `json:"code_context,omitempty"`
	Scope       string     `json:"scope,omitempty"`
}

// SubSearchInput is the shared input schema for the secondary search tools.
type SubSearchInput struct {
	Query string `json:"query" jsonschema:"the search query"`
	Limit int    `json:"limit,omitempty" jsonschema:"maximum number of results (default 20)"`
}

// RegistrationOutput is one registration in tool output.
type RegistrationOutput struct {
	Name       string  `json:"name"`
	Title      string  `json:"title,omitempty"`
	Category   string  `json:"category,omitempty"`
	Source     string  `json:"source"`
	FilePath   string  `json:"file_path"`
	LineNumber int     `json:"line_number"`
	Score      float64 `json:"score,omitempty"`
}

// SearchRegistrationsOutput is the output schema for search_registrations.
type SearchRegistrationsOutput struct {
	Results []RegistrationOutput `json:"results"`
	Count   int                  `json:"count"`
}

// APIUsageOutput is one API call site in tool output.
type APIUsageOutput struct {
	Name       string  `json:"name"`
	Namespace  string  `json:"namespace"`
	Method     string  `json:"method"`
	Source     string  `json:"source"`
	FilePath   string  `json:"file_path"`
	LineNumber int     `json:"line_number"`
	Score      float64 `json:"score,omitempty"`
}

// SearchAPIUsagesOutput is the output schema for search_api_usages.
type SearchAPIUsagesOutput struct {
	Results []APIUsageOutput `json:"results"`
	Count   int              `json:"count"`
}

// DocPageOutput is one documentation page in tool output.
type DocPageOutput struct {
	Title       string  `json:"title"`
	Category    string  `json:"category,omitempty"`
	Subcategory string  `json:"subcategory,omitempty"`
	Summary     string  `json:"summary,omitempty"`
	Source      string  `json:"source"`
	FilePath    string  `json:"file_path"`
	Score       float64 `json:"score,omitempty"`
}

// SearchDocsOutput is the output schema for search_docs.
type SearchDocsOutput struct {
	Results []DocPageOutput `json:"results"`
	Count   int             `json:"count"`
}

// ReindexInput is the input schema for the reindex tool.
type ReindexInput struct {
	Source string `json:"source,omitempty" jsonschema:"index only this source (default all enabled sources)"`
	Force  bool   `json:"force,omitempty" jsonschema:"rescan every file, bypassing the change cache"`
}

// ReindexOutput is the output schema for the reindex tool.
type ReindexOutput struct {
	SourcesProcessed int      `json:"sources_processed"`
	FilesScanned     int      `json:"files_scanned"`
	FilesSkipped     int      `json:"files_skipped"`
	HooksChanged     int      `json:"hooks_changed"`
	Errors           []string `json:"errors,omitempty"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search_hooks",
		Description: "Search hook declarations by name, kind, documentation, and surrounding code",
	}, s.handleSearchHooks)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "validate_hook",
		Description: "Check whether an exact hook name exists; unknown names get fuzzy suggestions",
	}, s.handleValidateHook)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_hook",
		Description: "Fetch the full record for one hook by ID or exact name",
	}, s.handleGetHook)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search_registrations",
		Description: "Search registered components by name, title, and category",
	}, s.handleSearchRegistrations)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search_api_usages",
		Description: "Search client API call sites by dotted namespace and method",
	}, s.handleSearchAPIUsages)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search_docs",
		Description: "Search indexed documentation pages",
	}, s.handleSearchDocs)

	if s.ports.Index != nil {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        "reindex",
			Description: "Run an incremental indexing pass over registered sources",
		}, s.handleReindex)
	}
}

func (s *Server) handleSearchHooks(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchHooksInput,
) (*mcp.CallToolResult, SearchHooksOutput, error) {
	opts := domain.SearchOptions{
		Limit:          limitOrDefault(input.Limit),
		Kind:           input.Kind,
		SourceName:     input.Source,
		DynamicOnly:    input.DynamicOnly,
		IncludeRemoved: input.IncludeRemoved,
	}

	results, err := s.ports.Search.SearchHooks(ctx, input.Query, opts)
	if err != nil {
		return nil, SearchHooksOutput{}, err
	}

	output := SearchHooksOutput{
		Results: make([]HookOutput, len(results)),
		Count:   len(results),
	}
	for i := range results {
		output.Results[i] = hookOutput(&results[i].Hook, results[i].SourceName, results[i].Score)
	}
	return nil, output, nil
}

func (s *Server) handleValidateHook(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ValidateHookInput,
) (*mcp.CallToolResult, ValidateHookOutput, error) {
	result, err := s.ports.Search.Validate(ctx, input.Name)
	if err != nil {
		return nil, ValidateHookOutput{}, err
	}

	output := ValidateHookOutput{
		Name:   result.Name,
		Status: string(result.Status),
	}
	for _, loc := range result.Locations {
		output.Locations = append(output.Locations, LocationOutput{
			Source:     loc.SourceName,
			FilePath:   loc.FilePath,
			LineNumber: loc.LineNumber,
			Kind:       string(loc.Kind),
		})
	}
	if result.RemovedAt != nil {
		output.RemovedAt = result.RemovedAt.Format(time.RFC3339)
	}
	for i := range result.Suggestions {
		sg := &result.Suggestions[i]
		output.Suggestions = append(output.Suggestions, hookOutput(&sg.Hook, sg.SourceName, sg.Score))
	}
	return nil, output, nil
}

func (s *Server) handleGetHook(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input GetHookInput,
) (*mcp.CallToolResult, GetHookOutput, error) {
	hook, sourceName, err := s.ports.Search.Lookup(ctx, input.IDOrName)
	if err != nil {
		return nil, GetHookOutput{}, err
	}

	return nil, GetHookOutput{
		Hook:        hookOutput(hook, sourceName, 0),
		CodeContext: hook.CodeContext,
		Scope:       hook.EnclosingScope,
	}, nil
}

func (s *Server) handleSearchRegistrations(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SubSearchInput,
) (*mcp.CallToolResult, SearchRegistrationsOutput, error) {
	results, err := s.ports.Search.SearchRegistrations(ctx, input.Query, limitOrDefault(input.Limit))
	if err != nil {
		return nil, SearchRegistrationsOutput{}, err
	}

	output := SearchRegistrationsOutput{
		Results: make([]RegistrationOutput, len(results)),
		Count:   len(results),
	}
	for i := range results {
		r := &results[i].Registration
		output.Results[i] = RegistrationOutput{
			Name:       r.Name,
			Title:      r.Title,
			Category:   r.Category,
			Source:     results[i].SourceName,
			FilePath:   r.FilePath,
			LineNumber: r.LineNumber,
			Score:      results[i].Score,
		}
	}
	return nil, output, nil
}

func (s *Server) handleSearchAPIUsages(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SubSearchInput,
) (*mcp.CallToolResult, SearchAPIUsagesOutput, error) {
	results, err := s.ports.Search.SearchAPIUsages(ctx, input.Query, limitOrDefault(input.Limit))
	if err != nil {
		return nil, SearchAPIUsagesOutput{}, err
	}

	output := SearchAPIUsagesOutput{
		Results: make([]APIUsageOutput, len(results)),
		Count:   len(results),
	}
	for i := range results {
		u := &results[i].Usage
		output.Results[i] = APIUsageOutput{
			Name:       u.Name(),
			Namespace:  u.Namespace,
			Method:     u.Method,
			Source:     results[i].SourceName,
			FilePath:   u.FilePath,
			LineNumber: u.LineNumber,
			Score:      results[i].Score,
		}
	}
	return nil, output, nil
}

func (s *Server) handleSearchDocs(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SubSearchInput,
) (*mcp.CallToolResult, SearchDocsOutput, error) {
	results, err := s.ports.Search.SearchDocs(ctx, input.Query, limitOrDefault(input.Limit))
	if err != nil {
		return nil, SearchDocsOutput{}, err
	}

	output := SearchDocsOutput{
		Results: make([]DocPageOutput, len(results)),
		Count:   len(results),
	}
	for i := range results {
		p := &results[i].Page
		output.Results[i] = DocPageOutput{
			Title:       p.Title,
			Category:    p.Category,
			Subcategory: p.Subcategory,
			Summary:     p.Summary,
			Source:      results[i].SourceName,
			FilePath:    p.FilePath,
			Score:       results[i].Score,
		}
	}
	return nil, output, nil
}

func (s *Server) handleReindex(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input ReindexInput,
) (*mcp.CallToolResult, ReindexOutput, error) {
	if s.ports.Index == nil {
		return nil, ReindexOutput{}, errors.New("mcp: index service not available")
	}

	summary, err := s.ports.Index.Run(ctx, driving.IndexOptions{
		SourceName: input.Source,
		Force:      input.Force,
	})
	if err != nil {
		return nil, ReindexOutput{}, err
	}

	return nil, ReindexOutput{
		SourcesProcessed: summary.SourcesProcessed,
		FilesScanned:     summary.FilesScanned,
		FilesSkipped:     summary.FilesSkipped,
		HooksChanged:     summary.Hooks.Inserted + summary.Hooks.Updated + summary.Hooks.Removed,
		Errors:           summary.Errors,
	}, nil
}

func hookOutput(h *domain.Hook, sourceName string, score float64) HookOutput {
	return HookOutput{
		ID:          h.ID,
		Name:        h.Name,
		Kind:        string(h.Kind),
		Source:      sourceName,
		FilePath:    h.FilePath,
		LineNumber:  h.LineNumber,
		Params:      h.Params,
		Description: h.Description,
		DocComment:  h.DocComment,
		IsDynamic:   h.IsDynamic,
		Status:      string(h.Status),
		Score:       score,
	}
}

func limitOrDefault(limit int) int {
	if limit <= 0 {
		return defaultToolLimit
	}
	return limit
}
