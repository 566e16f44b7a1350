package facade

import (
	"encoding/json"
	"fmt"
)

// Z.AI GLM speaks OpenAI-compatible function calling but names every tool
// in snake_case as run_fspec_<verb>, and exposes no web-search
// facade at all (GLM has no built-in browsing tool to project onto).

type ZAIFileReadFacade struct{}

func (ZAIFileReadFacade) Provider() string { return "zai" }
func (ZAIFileReadFacade) ToolName() string { return "run_fspec_read" }
func (ZAIFileReadFacade) Family() Family   { return FamilyFile }

func (ZAIFileReadFacade) Definition() ToolDefinition {
	return ToolDefinition{
		Name:        "run_fspec_read",
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

func (ZAIFileReadFacade) MapParams(raw json.RawMessage) (any, error) {
	var p struct {
		Path   string `json:"path"`
		Offset *int   `json:"offset,omitempty"`
		Limit  *int   `json:"limit,omitempty"`
	}
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("facade: zai run_fspec_read params: %w", err)
	}
	return InternalFileParams{Op: FileOpRead, Path: p.Path, Offset: p.Offset, Limit: p.Limit}, nil
}

type ZAIFileWriteFacade struct{}

func (ZAIFileWriteFacade) Provider() string { return "zai" }
func (ZAIFileWriteFacade) ToolName() string { return "run_fspec_write" }
func (ZAIFileWriteFacade) Family() Family   { return FamilyFile }

func (ZAIFileWriteFacade) Definition() ToolDefinition {
	return ToolDefinition{
		Name:        "run_fspec_write",
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

func (ZAIFileWriteFacade) MapParams(raw json.RawMessage) (any, error) {
	var p struct {
		Path    string `json:"path"`
		Content string `json:"content"`
	}
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("facade: zai run_fspec_write params: %w", err)
	}
	return InternalFileParams{Op: FileOpWrite, Path: p.Path, Content: p.Content}, nil
}

type ZAIFileEditFacade struct{}

func (ZAIFileEditFacade) Provider() string { return "zai" }
func (ZAIFileEditFacade) ToolName() string { return "run_fspec_edit" }
func (ZAIFileEditFacade) Family() Family   { return FamilyFile }

func (ZAIFileEditFacade) Definition() ToolDefinition {
	return ToolDefinition{
		Name:        "run_fspec_edit",
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

func (ZAIFileEditFacade) MapParams(raw json.RawMessage) (any, error) {
	var p struct {
		Path    string `json:"path"`
		OldText string `json:"old_text"`
		NewText string `json:"new_text"`
	}
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("facade: zai run_fspec_edit params: %w", err)
	}
	return InternalFileParams{Op: FileOpEdit, Path: p.Path, OldText: p.OldText, NewText: p.NewText}, nil
}

type ZAISearchGrepFacade struct{}

func (ZAISearchGrepFacade) Provider() string { return "zai" }
func (ZAISearchGrepFacade) ToolName() string { return "run_fspec_grep" }
func (ZAISearchGrepFacade) Family() Family   { return FamilySearch }

func (ZAISearchGrepFacade) Definition() ToolDefinition {
	return ToolDefinition{
		Name:        "run_fspec_grep",
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

func (ZAISearchGrepFacade) MapParams(raw json.RawMessage) (any, error) {
	var p struct {
		Pattern string `json:"pattern"`
		Path    string `json:"path,omitempty"`
	}
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("facade: zai run_fspec_grep params: %w", err)
	}
	return InternalSearchParams{Op: SearchOpGrep, Pattern: p.Pattern, Path: p.Path}, nil
}

type ZAISearchGlobFacade struct{}

func (ZAISearchGlobFacade) Provider() string { return "zai" }
func (ZAISearchGlobFacade) ToolName() string { return "run_fspec_glob" }
func (ZAISearchGlobFacade) Family() Family   { return FamilySearch }

func (ZAISearchGlobFacade) Definition() ToolDefinition {
	return ToolDefinition{
		Name:        "run_fspec_glob",
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

func (ZAISearchGlobFacade) MapParams(raw json.RawMessage) (any, error) {
	var p struct {
		Pattern string `json:"pattern"`
		Path    string `json:"path,omitempty"`
	}
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("facade: zai run_fspec_glob params: %w", err)
	}
	return InternalSearchParams{Op: SearchOpGlob, Pattern: p.Pattern, Path: p.Path}, nil
}
