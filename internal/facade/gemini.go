package facade

import (
	"encoding/json"
	"fmt"
	"regexp"
)

// Gemini never nests tool variants; each operation gets its own flat tool
// with its own name, matching how the Gemini function-calling API is
// typically wired.

type GeminiReadFileFacade struct{}

func (GeminiReadFileFacade) Provider() string { return "google" }
func (GeminiReadFileFacade) ToolName() string { return "read_file" }
func (GeminiReadFileFacade) Family() Family   { return FamilyFile }

func (GeminiReadFileFacade) Definition() ToolDefinition {
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

func (GeminiReadFileFacade) MapParams(raw json.RawMessage) (any, error) {
	var p struct {
		Path   string `json:"path"`
		Offset *int   `json:"offset,omitempty"`
		Limit  *int   `json:"limit,omitempty"`
	}
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("facade: gemini read_file params: %w", err)
	}
	return InternalFileParams{Op: FileOpRead, Path: p.Path, Offset: p.Offset, Limit: p.Limit}, nil
}

type GeminiWriteFileFacade struct{}

func (GeminiWriteFileFacade) Provider() string { return "google" }
func (GeminiWriteFileFacade) ToolName() string { return "write_file" }
func (GeminiWriteFileFacade) Family() Family   { return FamilyFile }

func (GeminiWriteFileFacade) Definition() ToolDefinition {
	return ToolDefinition{
		Name:        "write_file",
		Description: "Write content to a file in the project, creating or overwriting it.",
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

func (GeminiWriteFileFacade) MapParams(raw json.RawMessage) (any, error) {
	var p struct {
		Path    string `json:"path"`
		Content string `json:"content"`
	}
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("facade: gemini write_file params: %w", err)
	}
	return InternalFileParams{Op: FileOpWrite, Path: p.Path, Content: p.Content}, nil
}

type GeminiReplaceFacade struct{}

func (GeminiReplaceFacade) Provider() string { return "google" }
func (GeminiReplaceFacade) ToolName() string { return "replace" }
func (GeminiReplaceFacade) Family() Family   { return FamilyFile }

func (GeminiReplaceFacade) Definition() ToolDefinition {
	return ToolDefinition{
		Name:        "replace",
		Description: "Replace one occurrence of old_text with new_text in a file.",
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

func (GeminiReplaceFacade) MapParams(raw json.RawMessage) (any, error) {
	var p struct {
		Path    string `json:"path"`
		OldText string `json:"old_text"`
		NewText string `json:"new_text"`
	}
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("facade: gemini replace params: %w", err)
	}
	return InternalFileParams{Op: FileOpEdit, Path: p.Path, OldText: p.OldText, NewText: p.NewText}, nil
}

type GeminiSearchFileContentFacade struct{}

func (GeminiSearchFileContentFacade) Provider() string { return "google" }
func (GeminiSearchFileContentFacade) ToolName() string { return "search_file_content" }
func (GeminiSearchFileContentFacade) Family() Family   { return FamilySearch }

func (GeminiSearchFileContentFacade) Definition() ToolDefinition {
	return ToolDefinition{
		Name:        "search_file_content",
		Description: "Search file contents for a regular expression.",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"pattern":  map[string]any{"type": "string"},
				"dir_path": map[string]any{"type": "string"},
			},
			"required": []string{"pattern"},
		},
	}
}

func (GeminiSearchFileContentFacade) MapParams(raw json.RawMessage) (any, error) {
	var p struct {
		Pattern string `json:"pattern"`
		DirPath string `json:"dir_path,omitempty"`
	}
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("facade: gemini search_file_content params: %w", err)
	}
	return InternalSearchParams{Op: SearchOpGrep, Pattern: p.Pattern, Path: p.DirPath}, nil
}

type GeminiGlobFacade struct{}

func (GeminiGlobFacade) Provider() string { return "google" }
func (GeminiGlobFacade) ToolName() string { return "glob" }
func (GeminiGlobFacade) Family() Family   { return FamilySearch }

func (GeminiGlobFacade) Definition() ToolDefinition {
	return ToolDefinition{
		Name:        "glob",
		Description: "List files matching a glob pattern.",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"pattern":  map[string]any{"type": "string"},
				"dir_path": map[string]any{"type": "string"},
			},
			"required": []string{"pattern"},
		},
	}
}

func (GeminiGlobFacade) MapParams(raw json.RawMessage) (any, error) {
	var p struct {
		Pattern string `json:"pattern"`
		DirPath string `json:"dir_path,omitempty"`
	}
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("facade: gemini glob params: %w", err)
	}
	return InternalSearchParams{Op: SearchOpGlob, Pattern: p.Pattern, Path: p.DirPath}, nil
}

type GeminiGoogleWebSearchFacade struct{}

func (GeminiGoogleWebSearchFacade) Provider() string { return "google" }
func (GeminiGoogleWebSearchFacade) ToolName() string { return "google_web_search" }
func (GeminiGoogleWebSearchFacade) Family() Family   { return FamilyWebSearch }

func (GeminiGoogleWebSearchFacade) Definition() ToolDefinition {
	return ToolDefinition{
		Name:        "google_web_search",
		Description: "Search the web and return links.",
		Parameters: map[string]any{
			"type":       "object",
			"properties": map[string]any{"query": map[string]any{"type": "string"}},
			"required":   []string{"query"},
		},
	}
}

func (GeminiGoogleWebSearchFacade) MapParams(raw json.RawMessage) (any, error) {
	var p struct {
		Query string `json:"query"`
	}
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("facade: gemini google_web_search params: %w", err)
	}
	return InternalWebSearchParams{Op: WebOpSearch, Query: p.Query}, nil
}

// geminiURLPattern extracts the first http(s) URL from a free-form prompt,
// since web_fetch takes a prompt rather than a bare url argument.
var geminiURLPattern = regexp.MustCompile(`https?://[^\s)>\]]+`)

type GeminiWebFetchFacade struct{}

func (GeminiWebFetchFacade) Provider() string { return "google" }
func (GeminiWebFetchFacade) ToolName() string { return "web_fetch" }
func (GeminiWebFetchFacade) Family() Family   { return FamilyWebSearch }

func (GeminiWebFetchFacade) Definition() ToolDefinition {
	return ToolDefinition{
		Name:        "web_fetch",
		Description: "Fetch a web page referenced in prompt and return it as Markdown.",
		Parameters: map[string]any{
			"type":       "object",
			"properties": map[string]any{"prompt": map[string]any{"type": "string"}},
			"required":   []string{"prompt"},
		},
	}
}

func (GeminiWebFetchFacade) MapParams(raw json.RawMessage) (any, error) {
	var p struct {
		Prompt string `json:"prompt"`
	}
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("facade: gemini web_fetch params: %w", err)
	}
	url := geminiURLPattern.FindString(p.Prompt)
	if url == "" {
		return nil, fmt.Errorf("facade: web_fetch prompt contains no URL")
	}
	return InternalWebSearchParams{Op: WebOpOpenPage, URL: url}, nil
}

type GeminiCaptureScreenshotFacade struct{}

func (GeminiCaptureScreenshotFacade) Provider() string { return "google" }
func (GeminiCaptureScreenshotFacade) ToolName() string { return "capture_screenshot" }
func (GeminiCaptureScreenshotFacade) Family() Family   { return FamilyWebSearch }

func (GeminiCaptureScreenshotFacade) Definition() ToolDefinition {
	return ToolDefinition{
		Name:        "capture_screenshot",
		Description: "Capture a screenshot of a rendered web page.",
		Parameters: map[string]any{
			"type":       "object",
			"properties": map[string]any{"url": map[string]any{"type": "string"}},
			"required":   []string{"url"},
		},
	}
}

func (GeminiCaptureScreenshotFacade) MapParams(raw json.RawMessage) (any, error) {
	var p struct {
		URL string `json:"url"`
	}
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("facade: gemini capture_screenshot params: %w", err)
	}
	return InternalWebSearchParams{Op: WebOpScreenshot, URL: p.URL}, nil
}
