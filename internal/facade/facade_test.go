package facade

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClaudeFileFacadeMapsReadAction(t *testing.T) {
	raw := json.RawMessage(`{"action":{"type":"read","path":"main.go"}}`)
	v, err := ClaudeFileFacade{}.MapParams(raw)
	require.NoError(t, err)
	p := v.(InternalFileParams)
	assert.Equal(t, FileOpRead, p.Op)
	assert.Equal(t, "main.go", p.Path)
}

func TestClaudeFileFacadeRejectsUnknownAction(t *testing.T) {
	raw := json.RawMessage(`{"action":{"type":"delete","path":"main.go"}}`)
	_, err := ClaudeFileFacade{}.MapParams(raw)
	assert.Error(t, err)
}

func TestClaudeWebSearchFacadeMapsFindInPage(t *testing.T) {
	raw := json.RawMessage(`{"action":{"type":"find_in_page","url":"https://example.com","pattern":"foo"}}`)
	v, err := ClaudeWebSearchFacade{}.MapParams(raw)
	require.NoError(t, err)
	p := v.(InternalWebSearchParams)
	assert.Equal(t, WebOpFindInPage, p.Op)
	assert.Equal(t, "foo", p.Pattern)
}

func TestGeminiWebFetchExtractsURLFromPrompt(t *testing.T) {
	raw := json.RawMessage(`{"prompt":"please read https://example.com/page and summarize"}`)
	v, err := GeminiWebFetchFacade{}.MapParams(raw)
	require.NoError(t, err)
	p := v.(InternalWebSearchParams)
	assert.Equal(t, "https://example.com/page", p.URL)
}

func TestGeminiWebFetchErrorsWithoutURL(t *testing.T) {
	raw := json.RawMessage(`{"prompt":"summarize the last page"}`)
	_, err := GeminiWebFetchFacade{}.MapParams(raw)
	assert.Error(t, err)
}

func TestOpenAIGrepFacadeMapsParams(t *testing.T) {
	raw := json.RawMessage(`{"pattern":"TODO","path":"internal"}`)
	v, err := OpenAIGrepFacade{}.MapParams(raw)
	require.NoError(t, err)
	p := v.(InternalSearchParams)
	assert.Equal(t, SearchOpGrep, p.Op)
	assert.Equal(t, "internal", p.Path)
}

func TestZAIFacadesUseSnakeCaseFspecNames(t *testing.T) {
	assert.Equal(t, "run_fspec_read", ZAIFileReadFacade{}.ToolName())
	assert.Equal(t, "run_fspec_write", ZAIFileWriteFacade{}.ToolName())
	assert.Equal(t, "run_fspec_edit", ZAIFileEditFacade{}.ToolName())
}

func TestForProviderZAIHasNoWebSearchFacade(t *testing.T) {
	for _, f := range ForProvider("zai") {
		assert.NotEqual(t, FamilyWebSearch, f.Family())
	}
}

func TestDefinitionsCoversAllFacades(t *testing.T) {
	defs := Definitions("google")
	assert.Len(t, defs, len(ForProvider("google")))
}

func TestFacadeToolWrapperRoutesThroughMapParams(t *testing.T) {
	var captured any
	w := NewFacadeToolWrapper(OpenAIReadFileFacade{}, func(params any) (any, error) {
		captured = params
		return "ok", nil
	})
	out, err := w.Call(json.RawMessage(`{"path":"a.go"}`))
	require.NoError(t, err)
	assert.Equal(t, "ok", out)
	assert.Equal(t, InternalFileParams{Op: FileOpRead, Path: "a.go"}, captured)
	assert.Equal(t, "read_file", w.Name())
}

func TestClaudeSystemBlocksOAuthMode(t *testing.T) {
	blocks := ClaudeSystemBlocks(true, "Project-specific instructions")
	require.Len(t, blocks, 2)
	assert.Contains(t, blocks[0].Text, "Claude Code")
	assert.True(t, blocks[0].CacheControl)
	assert.Equal(t, "Project-specific instructions", blocks[1].Text)
}

func TestClaudeSystemBlocksOAuthModeNoEmptyPreambleBlock(t *testing.T) {
	blocks := ClaudeSystemBlocks(true, "")
	require.Len(t, blocks, 1)
}

func TestClaudeSystemBlocksAPIKeyMode(t *testing.T) {
	blocks := ClaudeSystemBlocks(false, "custom preamble")
	require.Len(t, blocks, 1)
	assert.Equal(t, "custom preamble", blocks[0].Text)
}
