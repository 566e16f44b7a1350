package facade

import (
	"encoding/json"
	"fmt"
)

// ClaudeFileFacade projects InternalFileParams into Claude's single "file"
// tool, whose schema nests read/write/edit as oneOf action variants.
type ClaudeFileFacade struct{}

func (ClaudeFileFacade) Provider() string { return "anthropic" }
func (ClaudeFileFacade) ToolName() string { return "file" }
func (ClaudeFileFacade) Family() Family   { return FamilyFile }

func (ClaudeFileFacade) Definition() ToolDefinition {
	return ToolDefinition{
		Name:        "file",
		Description: "Read, write, or edit a file in the project.",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"action": map[string]any{
					"oneOf": []any{
						map[string]any{
							"type": "object",
							"properties": map[string]any{
								"type":   map[string]any{"const": "read"},
								"path":   map[string]any{"type": "string"},
								"offset": map[string]any{"type": "integer"},
								"limit":  map[string]any{"type": "integer"},
							},
							"required": []string{"type", "path"},
						},
						map[string]any{
							"type": "object",
							"properties": map[string]any{
								"type":    map[string]any{"const": "write"},
								"path":    map[string]any{"type": "string"},
								"content": map[string]any{"type": "string"},
							},
							"required": []string{"type", "path", "content"},
						},
						map[string]any{
							"type": "object",
							"properties": map[string]any{
								"type":     map[string]any{"const": "edit"},
								"path":     map[string]any{"type": "string"},
								"old_text": map[string]any{"type": "string"},
								"new_text": map[string]any{"type": "string"},
							},
							"required": []string{"type", "path", "old_text", "new_text"},
						},
					},
				},
			},
			"required": []string{"action"},
		},
	}
}

type claudeFileAction struct {
	Type    string `json:"type"`
	Path    string `json:"path"`
	Offset  *int   `json:"offset,omitempty"`
	Limit   *int   `json:"limit,omitempty"`
	Content string `json:"content,omitempty"`
	OldText string `json:"old_text,omitempty"`
	NewText string `json:"new_text,omitempty"`
}

func (ClaudeFileFacade) MapParams(raw json.RawMessage) (any, error) {
	var wrapper struct {
		Action claudeFileAction `json:"action"`
	}
	if err := json.Unmarshal(raw, &wrapper); err != nil {
		return nil, fmt.Errorf("facade: claude file params: %w", err)
	}
	a := wrapper.Action
	switch a.Type {
	case "read":
		return InternalFileParams{Op: FileOpRead, Path: a.Path, Offset: a.Offset, Limit: a.Limit}, nil
	case "write":
		return InternalFileParams{Op: FileOpWrite, Path: a.Path, Content: a.Content}, nil
	case "edit":
		return InternalFileParams{Op: FileOpEdit, Path: a.Path, OldText: a.OldText, NewText: a.NewText}, nil
	default:
		return nil, fmt.Errorf("facade: unknown claude file action %q", a.Type)
	}
}

// ClaudeSearchFacade projects InternalSearchParams into Claude's single
// "search" tool.
type ClaudeSearchFacade struct{}

func (ClaudeSearchFacade) Provider() string { return "anthropic" }
func (ClaudeSearchFacade) ToolName() string { return "search" }
func (ClaudeSearchFacade) Family() Family   { return FamilySearch }

func (ClaudeSearchFacade) Definition() ToolDefinition {
	return ToolDefinition{
		Name:        "search",
		Description: "Search file contents by regex (grep) or file paths by glob.",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"action": map[string]any{
					"oneOf": []any{
						map[string]any{
							"type": "object",
							"properties": map[string]any{
								"type":    map[string]any{"const": "grep"},
								"pattern": map[string]any{"type": "string"},
								"path":    map[string]any{"type": "string"},
							},
							"required": []string{"type", "pattern"},
						},
						map[string]any{
							"type": "object",
							"properties": map[string]any{
								"type":    map[string]any{"const": "glob"},
								"pattern": map[string]any{"type": "string"},
								"path":    map[string]any{"type": "string"},
							},
							"required": []string{"type", "pattern"},
						},
					},
				},
			},
			"required": []string{"action"},
		},
	}
}

type claudeSearchAction struct {
	Type    string `json:"type"`
	Pattern string `json:"pattern"`
	Path    string `json:"path,omitempty"`
}

func (ClaudeSearchFacade) MapParams(raw json.RawMessage) (any, error) {
	var wrapper struct {
		Action claudeSearchAction `json:"action"`
	}
	if err := json.Unmarshal(raw, &wrapper); err != nil {
		return nil, fmt.Errorf("facade: claude search params: %w", err)
	}
	a := wrapper.Action
	switch a.Type {
	case "grep":
		return InternalSearchParams{Op: SearchOpGrep, Pattern: a.Pattern, Path: a.Path}, nil
	case "glob":
		return InternalSearchParams{Op: SearchOpGlob, Pattern: a.Pattern, Path: a.Path}, nil
	default:
		return nil, fmt.Errorf("facade: unknown claude search action %q", a.Type)
	}
}

// ClaudeWebSearchFacade projects InternalWebSearchParams into Claude's
// "web_search" tool, whose schema nests search/open_page/find_in_page as
// oneOf action variants.
type ClaudeWebSearchFacade struct{}

func (ClaudeWebSearchFacade) Provider() string { return "anthropic" }
func (ClaudeWebSearchFacade) ToolName() string { return "web_search" }
func (ClaudeWebSearchFacade) Family() Family   { return FamilyWebSearch }

func (ClaudeWebSearchFacade) Definition() ToolDefinition {
	return ToolDefinition{
		Name:        "web_search",
		Description: "Search the web, open a page as Markdown, or find a pattern within a rendered page.",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"action": map[string]any{
					"oneOf": []any{
						map[string]any{
							"type": "object",
							"properties": map[string]any{
								"type":  map[string]any{"const": "search"},
								"query": map[string]any{"type": "string"},
							},
							"required": []string{"type", "query"},
						},
						map[string]any{
							"type": "object",
							"properties": map[string]any{
								"type": map[string]any{"const": "open_page"},
								"url":  map[string]any{"type": "string"},
							},
							"required": []string{"type", "url"},
						},
						map[string]any{
							"type": "object",
							"properties": map[string]any{
								"type":    map[string]any{"const": "find_in_page"},
								"url":     map[string]any{"type": "string"},
								"pattern": map[string]any{"type": "string"},
							},
							"required": []string{"type", "url", "pattern"},
						},
					},
				},
			},
			"required": []string{"action"},
		},
	}
}

type claudeWebAction struct {
	Type    string `json:"type"`
	Query   string `json:"query,omitempty"`
	URL     string `json:"url,omitempty"`
	Pattern string `json:"pattern,omitempty"`
}

func (ClaudeWebSearchFacade) MapParams(raw json.RawMessage) (any, error) {
	var wrapper struct {
		Action claudeWebAction `json:"action"`
	}
	if err := json.Unmarshal(raw, &wrapper); err != nil {
		return nil, fmt.Errorf("facade: claude web_search params: %w", err)
	}
	a := wrapper.Action
	switch a.Type {
	case "search":
		return InternalWebSearchParams{Op: WebOpSearch, Query: a.Query}, nil
	case "open_page":
		return InternalWebSearchParams{Op: WebOpOpenPage, URL: a.URL}, nil
	case "find_in_page":
		return InternalWebSearchParams{Op: WebOpFindInPage, URL: a.URL, Pattern: a.Pattern}, nil
	default:
		return nil, fmt.Errorf("facade: unknown claude web_search action %q", a.Type)
	}
}
