package markdown

import (
	"hanafiyah/contexts/publishing/article-service/ports"
	"hanafiyah/internal/platform/text"
)

// Renderer adapts the goldmark pipeline to the article import port.
type Renderer struct {
	Markdown text.Markdown
}

func NewRenderer() Renderer {
	return Renderer{Markdown: text.NewMarkdown()}
}

func (r Renderer) Render(source []byte) (ports.RenderedMarkdown, error) {
	doc, err := r.Markdown.Render(source)
	if err != nil {
		return ports.RenderedMarkdown{}, err
	}
	return ports.RenderedMarkdown{Title: doc.Title, HTML: doc.HTML}, nil
}

var _ ports.MarkdownRenderer = Renderer{}
