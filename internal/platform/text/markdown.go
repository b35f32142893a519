package text

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
	gmtext "github.com/yuin/goldmark/text"
)

// MarkdownDocument is a rendered Markdown source.
type MarkdownDocument struct {
	Title string
	HTML  string
}

type Markdown struct {
	md goldmark.Markdown
}

func NewMarkdown() Markdown {
	return Markdown{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithRendererOptions(html.WithUnsafe()),
		),
	}
}

// Render converts source to HTML. The first level-one heading becomes the
// title and is left out of the body.
func (m Markdown) Render(source []byte) (MarkdownDocument, error) {
	md := m.md
	if md == nil {
		md = NewMarkdown().md
	}
	doc := md.Parser().Parse(gmtext.NewReader(source))

	var title string
	for node := doc.FirstChild(); node != nil; node = node.NextSibling() {
		heading, ok := node.(*ast.Heading)
		if !ok || heading.Level != 1 {
			continue
		}
		title = headingText(heading, source)
		doc.RemoveChild(doc, heading)
		break
	}

	var buf bytes.Buffer
	if err := md.Renderer().Render(&buf, source, doc); err != nil {
		return MarkdownDocument{}, err
	}
	return MarkdownDocument{Title: title, HTML: strings.TrimSpace(buf.String())}, nil
}

func headingText(heading *ast.Heading, source []byte) string {
	var b strings.Builder
	lines := heading.Lines()
	for i := 0; i < lines.Len(); i++ {
		segment := lines.At(i)
		b.Write(segment.Value(source))
	}
	return strings.TrimSpace(b.String())
}
