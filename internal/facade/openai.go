package facade

import (
	"encoding/json"
	"fmt"
)

// OpenAI uses the standard flat function-calling schema: one tool per
// operation, parameters at the top level (no provider-specific nesting).

type OpenAIReadFileFacade struct{}

func (OpenAIReadFileFacade) Provider() string { return "openai" }
func (OpenAIReadFileFacade) ToolName() string { return "read_file" }
func (OpenAIReadFileFacade) Family() Family   { return FamilyFile }

func (OpenAIReadFileFacade) Definition() ToolDefinition {
	return ToolDefinition{
		Name:        "read_file",
		Description: "Read a file from the project.",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"path":   map[string]any{"type": "string"},
				"offset": map[string]any{"type": "integer"},
				"limit":  map[string]any{"type": "integer"},
			},
			"required": []string{"path"},
		},
	}
}

func (OpenAIReadFileFacade) MapParams(raw json.RawMessage) (any, error) {
	var p struct {
		Path   string `json:"path"`
		Offset *int   `json:"offset,omitempty"`
		Limit  *int   `json:"limit,omitempty"`
	}
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("facade: openai read_file params: %w", err)
	}
	return InternalFileParams{Op: FileOpRead, Path: p.Path, Offset: p.Offset, Limit: p.Limit}, nil
}

type OpenAIWriteFileFacade struct{}

func (OpenAIWriteFileFacade) Provider() string { return "openai" }
func (OpenAIWriteFileFacade) ToolName() string { return "write_file" }
func (OpenAIWriteFileFacade) Family() Family   { return FamilyFile }

func (OpenAIWriteFileFacade) Definition() ToolDefinition {
	return ToolDefinition{
		Name:        "write_file",
		Description: "Write content to a file, creating or overwriting it.",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"path":    map[string]any{"type": "string"},
				"content": map[string]any{"type": "string"},
			},
			"required": []string{"path", "content"},
		},
	}
}

func (OpenAIWriteFileFacade) MapParams(raw json.RawMessage) (any, error) {
	var p struct {
		Path    string `json:"path"`
		Content string `json:"content"`
	}
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("facade: openai write_file params: %w", err)
	}
	return InternalFileParams{Op: FileOpWrite, Path: p.Path, Content: p.Content}, nil
}

type OpenAIEditFileFacade struct{}

func (OpenAIEditFileFacade) Provider() string { return "openai" }
func (OpenAIEditFileFacade) ToolName() string { return "edit_file" }
func (OpenAIEditFileFacade) Family() Family   { return FamilyFile }

func (OpenAIEditFileFacade) Definition() ToolDefinition {
	return ToolDefinition{
		Name:        "edit_file",
		Description: "Replace old_text with new_text in a file.",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"path":     map[string]any{"type": "string"},
				"old_text": map[string]any{"type": "string"},
				"new_text": map[string]any{"type": "string"},
			},
			"required": []string{"path", "old_text", "new_text"},
		},
	}
}

func (OpenAIEditFileFacade) MapParams(raw json.RawMessage) (any, error) {
	var p struct {
		Path    string `json:"path"`
		OldText string `json:"old_text"`
		NewText string `json:"new_text"`
	}
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("facade: openai edit_file params: %w", err)
	}
	return InternalFileParams{Op: FileOpEdit, Path: p.Path, OldText: p.OldText, NewText: p.NewText}, nil
}

type OpenAIGrepFacade struct{}

func (OpenAIGrepFacade) Provider() string { return "openai" }
func (OpenAIGrepFacade) ToolName() string { return "grep" }
func (OpenAIGrepFacade) Family() Family   { return FamilySearch }

func (OpenAIGrepFacade) Definition() ToolDefinition {
	return ToolDefinition{
		Name:        "grep",
		Description: "Search file contents for a regular expression.",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"pattern": map[string]any{"type": "string"},
				"path":    map[string]any{"type": "string"},
			},
			"required": []string{"pattern"},
		},
	}
}

func (OpenAIGrepFacade) MapParams(raw json.RawMessage) (any, error) {
	var p struct {
		Pattern string `json:"pattern"`
		Path    string `json:"path,omitempty"`
	}
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("facade: openai grep params: %w", err)
	}
	return InternalSearchParams{Op: SearchOpGrep, Pattern: p.Pattern, Path: p.Path}, nil
}

type OpenAIGlobFacade struct{}

func (OpenAIGlobFacade) Provider() string { return "openai" }
func (OpenAIGlobFacade) ToolName() string { return "glob" }
func (OpenAIGlobFacade) Family() Family   { return FamilySearch }

func (OpenAIGlobFacade) Definition() ToolDefinition {
	return ToolDefinition{
		Name:        "glob",
		Description: "List files matching a glob pattern.",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"pattern": map[string]any{"type": "string"},
				"path":    map[string]any{"type": "string"},
			},
			"required": []string{"pattern"},
		},
	}
}

func (OpenAIGlobFacade) MapParams(raw json.RawMessage) (any, error) {
	var p struct {
		Pattern string `json:"pattern"`
		Path    string `json:"path,omitempty"`
	}
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("facade: openai glob params: %w", err)
	}
	return InternalSearchParams{Op: SearchOpGlob, Pattern: p.Pattern, Path: p.Path}, nil
}

type OpenAIWebSearchFacade struct{}

func (OpenAIWebSearchFacade) Provider() string { return "openai" }
func (OpenAIWebSearchFacade) ToolName() string { return "web_search" }
func (OpenAIWebSearchFacade) Family() Family   { return FamilyWebSearch }

func (OpenAIWebSearchFacade) Definition() ToolDefinition {
	return ToolDefinition{
		Name:        "web_search",
		Description: "Search the web and return links.",
		Parameters: map[string]any{
			"type":       "object",
			"properties": map[string]any{"query": map[string]any{"type": "string"}},
			"required":   []string{"query"},
		},
	}
}

func (OpenAIWebSearchFacade) MapParams(raw json.RawMessage) (any, error) {
	var p struct {
		Query string `json:"query"`
	}
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("facade: openai web_search params: %w", err)
	}
	return InternalWebSearchParams{Op: WebOpSearch, Query: p.Query}, nil
}

type OpenAIOpenPageFacade struct{}

func (OpenAIOpenPageFacade) Provider() string { return "openai" }
func (OpenAIOpenPageFacade) ToolName() string { return "open_page" }
func (OpenAIOpenPageFacade) Family() Family   { return FamilyWebSearch }

func (OpenAIOpenPageFacade) Definition() ToolDefinition {
	return ToolDefinition{
		Name:        "open_page",
		Description: "Fetch a URL and return it as Markdown.",
		Parameters: map[string]any{
			"type":       "object",
			"properties": map[string]any{"url": map[string]any{"type": "string"}},
			"required":   []string{"url"},
		},
	}
}

func (OpenAIOpenPageFacade) MapParams(raw json.RawMessage) (any, error) {
	var p struct {
		URL string `json:"url"`
	}
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("facade: openai open_page params: %w", err)
	}
	return InternalWebSearchParams{Op: WebOpOpenPage, URL: p.URL}, nil
}

type OpenAIFindInPageFacade struct{}

func (OpenAIFindInPageFacade) Provider() string { return "openai" }
func (OpenAIFindInPageFacade) ToolName() string { return "find_in_page" }
func (OpenAIFindInPageFacade) Family() Family   { return FamilyWebSearch }

func (OpenAIFindInPageFacade) Definition() ToolDefinition {
	return ToolDefinition{
		Name:        "find_in_page",
		Description: "Render a URL in a browser and return pattern matches with context.",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"url":     map[string]any{"type": "string"},
				"pattern": map[string]any{"type": "string"},
			},
			"required": []string{"url", "pattern"},
		},
	}
}

func (OpenAIFindInPageFacade) MapParams(raw json.RawMessage) (any, error) {
	var p struct {
		URL     string `json:"url"`
		Pattern string `json:"pattern"`
	}
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("facade: openai find_in_page params: %w", err)
	}
	return InternalWebSearchParams{Op: WebOpFindInPage, URL: p.URL, Pattern: p.Pattern}, nil
}
