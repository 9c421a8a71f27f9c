// ABOUTME: Markdown renderer wrapper around glamour for message bodies
// ABOUTME: Caches rendered results keyed by content hash, width and glamour style

package ui

import (
	"crypto/sha256"
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
)

// MarkdownRenderer wraps glamour to render markdown with caching.
type MarkdownRenderer struct {
	cache     map[string]string // "hash:width:style" -> rendered
	renderers map[string]*glamour.TermRenderer
}

// NewMarkdownRenderer creates a MarkdownRenderer with an empty cache.
func NewMarkdownRenderer() *MarkdownRenderer {
	return &MarkdownRenderer{
		cache:     make(map[string]string),
		renderers: make(map[string]*glamour.TermRenderer),
	}
}

// Render returns the terminal-styled rendering of md wrapped at width using
// the named glamour style. Rendering failures fall back to the raw text.
func (r *MarkdownRenderer) Render(md string, width int, style string) string {
	if md == "" {
		return ""
	}

	key := cacheKey(md, width, style)
	if cached, ok := r.cache[key]; ok {
		return cached
	}

	renderer, err := r.renderer(width, style)
	if err != nil {
		return md
	}
	rendered, err := renderer.Render(md)
	if err != nil {
		return md
	}

	// glamour pads with blank lines and trailing spaces
	rendered = strings.Trim(rendered, "\n")
	lines := strings.Split(rendered, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimRight(l, " ")
	}
	rendered = strings.Join(lines, "\n")

	r.cache[key] = rendered
	return rendered
}

func (r *MarkdownRenderer) renderer(width int, style string) (*glamour.TermRenderer, error) {
	key := fmt.Sprintf("%s:%d", style, width)
	if tr, ok := r.renderers[key]; ok {
		return tr, nil
	}
	if style == "" {
		style = "dark"
	}
	tr, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return nil, err
	}
	r.renderers[key] = tr
	return tr, nil
}

// cacheKey produces a string key from content hash, width and style.
func cacheKey(content string, width int, style string) string {
	h := sha256.Sum256([]byte(content))
	return fmt.Sprintf("%x:%d:%s", h[:8], width, style)
}
