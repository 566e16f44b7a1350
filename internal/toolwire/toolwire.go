// Package toolwire builds a tools.Registry from a provider's facade set,
// routing each facade's canonical params to a filesystem- or
// webfetch-backed implementation scoped to a working directory.
package toolwire

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"codelet/internal/facade"
	"codelet/internal/sandbox"
	"codelet/internal/tools"
	"codelet/internal/webfetch"
)

// Build registers every facade.ForProvider(provider) tool against tools
// grounded under workdir, plus web an optional webfetch.Collaborator for
// the web-search family. web may be nil, in which case web facades return
// an error payload rather than panicking.
func Build(provider, workdir string, web webfetch.Collaborator) tools.Registry {
	reg := tools.NewRegistry()
	for _, f := range facade.ForProvider(provider) {
		reg.Register(&facadeTool{
			wrapper: facade.NewFacadeToolWrapper(f, baseFor(f.Family(), workdir, web)),
		})
	}
	return reg
}

// facadeTool adapts a *facade.FacadeToolWrapper (synchronous, no context) to
// tools.Tool's context-carrying Call and map-shaped JSONSchema.
type facadeTool struct {
	wrapper *facade.FacadeToolWrapper
}

func (t *facadeTool) Name() string { return t.wrapper.Name() }

func (t *facadeTool) JSONSchema() map[string]any {
	def := t.wrapper.Definition()
	return map[string]any{
		"description": def.Description,
		"parameters":  def.Parameters,
	}
}

func (t *facadeTool) Call(ctx context.Context, raw json.RawMessage) (any, error) {
	return t.wrapper.Call(raw)
}

func baseFor(family facade.Family, workdir string, web webfetch.Collaborator) func(any) (any, error) {
	switch family {
	case facade.FamilyFile:
		return func(params any) (any, error) { return callFile(workdir, params) }
	case facade.FamilySearch:
		return func(params any) (any, error) { return callSearch(workdir, params) }
	case facade.FamilyWebSearch:
		return func(params any) (any, error) { return callWeb(web, params) }
	default:
		return func(any) (any, error) { return nil, fmt.Errorf("toolwire: unhandled family %q", family) }
	}
}

func callFile(workdir string, params any) (any, error) {
	p, ok := params.(facade.InternalFileParams)
	if !ok {
		return nil, fmt.Errorf("toolwire: unexpected file params type %T", params)
	}
	rel, err := sandbox.SanitizeArg(workdir, p.Path)
	if err != nil {
		return nil, err
	}
	full := filepath.Join(workdir, rel)

	switch p.Op {
	case facade.FileOpRead:
		data, err := os.ReadFile(full)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", p.Path, err)
		}
		text := string(data)
		if p.Offset != nil || p.Limit != nil {
			text = sliceLines(text, p.Offset, p.Limit)
		}
		return map[string]any{"ok": true, "content": text}, nil

	case facade.FileOpWrite:
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			return nil, fmt.Errorf("write %s: %w", p.Path, err)
		}
		if err := os.WriteFile(full, []byte(p.Content), 0o644); err != nil {
			return nil, fmt.Errorf("write %s: %w", p.Path, err)
		}
		return map[string]any{"ok": true}, nil

	case facade.FileOpEdit:
		data, err := os.ReadFile(full)
		if err != nil {
			return nil, fmt.Errorf("edit %s: %w", p.Path, err)
		}
		content := string(data)
		if !strings.Contains(content, p.OldText) {
			return nil, fmt.Errorf("edit %s: old_text not found", p.Path)
		}
		updated := strings.Replace(content, p.OldText, p.NewText, 1)
		if err := os.WriteFile(full, []byte(updated), 0o644); err != nil {
			return nil, fmt.Errorf("edit %s: %w", p.Path, err)
		}
		return map[string]any{"ok": true}, nil

	default:
		return nil, fmt.Errorf("toolwire: unknown file op %q", p.Op)
	}
}

func sliceLines(text string, offset, limit *int) string {
	lines := strings.Split(text, "\n")
	start := 0
	if offset != nil && *offset > 0 {
		start = *offset
	}
	if start > len(lines) {
		start = len(lines)
	}
	end := len(lines)
	if limit != nil && *limit > 0 && start+*limit < end {
		end = start + *limit
	}
	return strings.Join(lines[start:end], "\n")
}

func callSearch(workdir string, params any) (any, error) {
	p, ok := params.(facade.InternalSearchParams)
	if !ok {
		return nil, fmt.Errorf("toolwire: unexpected search params type %T", params)
	}
	rel := "."
	if p.Path != "" {
		r, err := sandbox.SanitizeArg(workdir, p.Path)
		if err != nil {
			return nil, err
		}
		rel = r
	}
	root := filepath.Join(workdir, rel)

	switch p.Op {
	case facade.SearchOpGlob:
		matches, err := filepath.Glob(filepath.Join(root, p.Pattern))
		if err != nil {
			return nil, fmt.Errorf("glob %s: %w", p.Pattern, err)
		}
		rels := make([]string, 0, len(matches))
		for _, m := range matches {
			r, err := filepath.Rel(workdir, m)
			if err == nil {
				rels = append(rels, r)
			}
		}
		return map[string]any{"ok": true, "matches": rels}, nil

	case facade.SearchOpGrep:
		var hits []map[string]any
		err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
			if err != nil || d.IsDir() {
				return err
			}
			data, rerr := os.ReadFile(path)
			if rerr != nil {
				return nil
			}
			if !strings.Contains(string(data), p.Pattern) {
				return nil
			}
			for i, line := range strings.Split(string(data), "\n") {
				if strings.Contains(line, p.Pattern) {
					rel, _ := filepath.Rel(workdir, path)
					hits = append(hits, map[string]any{"file": rel, "line": i + 1, "text": line})
				}
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("grep %s: %w", p.Pattern, err)
		}
		return map[string]any{"ok": true, "matches": hits}, nil

	default:
		return nil, fmt.Errorf("toolwire: unknown search op %q", p.Op)
	}
}

func callWeb(web webfetch.Collaborator, params any) (any, error) {
	p, ok := params.(facade.InternalWebSearchParams)
	if !ok {
		return nil, fmt.Errorf("toolwire: unexpected web params type %T", params)
	}
	if web == nil {
		return nil, fmt.Errorf("toolwire: web-fetch collaborator not configured")
	}
	ctx := context.Background()

	switch p.Op {
	case facade.WebOpSearch:
		results, err := web.Search(ctx, p.Query)
		if err != nil {
			return nil, err
		}
		return map[string]any{"ok": true, "results": results}, nil

	case facade.WebOpOpenPage:
		page, err := web.Fetch(ctx, p.URL)
		if err != nil {
			return nil, err
		}
		return map[string]any{"ok": true, "title": page.Title, "markdown": page.Markdown}, nil

	case facade.WebOpFindInPage:
		matches, err := web.Find(ctx, p.URL, p.Pattern)
		if err != nil {
			return nil, err
		}
		return map[string]any{"ok": true, "matches": matches}, nil

	case facade.WebOpScreenshot:
		// No screenshot-image capability in the collaborator; fall back to
		// a rendered-page fetch so the caller still gets page state back.
		page, err := web.Fetch(ctx, p.URL)
		if err != nil {
			return nil, err
		}
		return map[string]any{"ok": true, "title": page.Title, "markdown": page.Markdown}, nil

	default:
		return nil, fmt.Errorf("toolwire: unknown web op %q", p.Op)
	}
}
