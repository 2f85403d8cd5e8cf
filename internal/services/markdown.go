package services

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// resultMarkdown renders model output with GitHub-flavored markdown.
// The default renderer omits raw HTML and unsafe link targets.
var resultMarkdown = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
)

// RenderResultHTML converts the evaluation text to HTML for display.
// The evaluation text itself is never modified.
func RenderResultHTML(result string) (string, error) {
	var buf bytes.Buffer
	if err := resultMarkdown.Convert([]byte(result), &buf); err != nil {
		return "", fmt.Errorf("failed to render result markdown: %w", err)
	}
	return buf.String(), nil
}
