package facade

// ForProvider returns every facade a given provider name exposes, grouped
// in the order InternalFileParams/InternalSearchParams/InternalWebSearchParams
// tools are typically advertised.
func ForProvider(provider string) []Facade {
	switch provider {
	case "anthropic", "claude":
		return []Facade{
			ClaudeFileFacade{},
			ClaudeSearchFacade{},
			ClaudeWebSearchFacade{},
		}
	case "google", "gemini":
		return []Facade{
			GeminiReadFileFacade{},
			GeminiWriteFileFacade{},
			GeminiReplaceFacade{},
			GeminiSearchFileContentFacade{},
			GeminiGlobFacade{},
			GeminiGoogleWebSearchFacade{},
			GeminiWebFetchFacade{},
			GeminiCaptureScreenshotFacade{},
		}
	case "openai", "codex":
		return []Facade{
			OpenAIReadFileFacade{},
			OpenAIWriteFileFacade{},
			OpenAIEditFileFacade{},
			OpenAIGrepFacade{},
			OpenAIGlobFacade{},
			OpenAIWebSearchFacade{},
			OpenAIOpenPageFacade{},
			OpenAIFindInPageFacade{},
		}
	case "zai", "z.ai", "glm":
		return []Facade{
			ZAIFileReadFacade{},
			ZAIFileWriteFacade{},
			ZAIFileEditFacade{},
			ZAISearchGrepFacade{},
			ZAISearchGlobFacade{},
		}
	default:
		return nil
	}
}

// Definitions projects ForProvider's facades into the ToolDefinition list a
// provider client advertises.
func Definitions(provider string) []ToolDefinition {
	facades := ForProvider(provider)
	defs := make([]ToolDefinition, 0, len(facades))
	for _, f := range facades {
		defs = append(defs, f.Definition())
	}
	return defs
}
