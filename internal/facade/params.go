// Package facade projects one canonical tool/parameter model into each
// provider's wire schema: Claude's nested tool schema, Gemini's flat
// per-verb tools, OpenAI's standard schema, and Z.AI's snake_case variant.
package facade

// InternalFileParams is the canonical shape of a file operation, regardless
// of which wire-level tool name or schema a provider used to produce it.
type InternalFileParams struct {
	Op      FileOp
	Path    string
	Offset  *int
	Limit   *int
	Content string
	OldText string
	NewText string
}

// FileOp selects which file operation InternalFileParams carries.
type FileOp string

const (
	FileOpRead  FileOp = "read"
	FileOpWrite FileOp = "write"
	FileOpEdit  FileOp = "edit"
)

// InternalSearchParams is the canonical shape of a search operation.
type InternalSearchParams struct {
	Op      SearchOp
	Pattern string
	Path    string
}

// SearchOp selects which search operation InternalSearchParams carries.
type SearchOp string

const (
	SearchOpGrep SearchOp = "grep"
	SearchOpGlob SearchOp = "glob"
)

// InternalWebSearchParams is the canonical shape of a web operation.
type InternalWebSearchParams struct {
	Op      WebOp
	Query   string
	URL     string
	Pattern string
}

// WebOp selects which web operation InternalWebSearchParams carries.
type WebOp string

const (
	WebOpSearch     WebOp = "search"
	WebOpOpenPage   WebOp = "open_page"
	WebOpFindInPage WebOp = "find_in_page"
	// WebOpScreenshot is a Gemini-only extension beyond the canonical three
	// operations; Claude and OpenAI never emit it.
	WebOpScreenshot WebOp = "screenshot"
)

// ToolDefinition is what a facade hands the provider client to advertise a
// tool: name, human description, and a JSON-schema parameters object.
type ToolDefinition struct {
	Name        string
	Description string
	Parameters  map[string]any
}
