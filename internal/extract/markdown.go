package extract

import (
	"bytes"
	"io"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/dcunha/narravox/internal/document"
)

// MarkdownExtractor handles Markdown files using goldmark. Headings
// become plain paragraphs in reading order; narration has no use for
// nesting.
type MarkdownExtractor struct{}

func (e *MarkdownExtractor) Extract(r io.Reader, filename string) (*document.Document, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	md := goldmark.New()
	reader := text.NewReader(src)
	root := md.Parser().Parse(reader)

	doc := &document.Document{Title: titleFromFilename(filename)}

	var blocks []string
	firstHeading := true
	for n := root.FirstChild(); n != nil; n = n.NextSibling() {
		switch node := n.(type) {
		case *ast.Heading:
			title := strings.TrimSpace(string(node.Text(src)))
			if title == "" {
				continue
			}
			// The first heading doubles as the document title.
			if firstHeading {
				doc.Title = title
				firstHeading = false
			}
			blocks = append(blocks, title)
		default:
			if t := inlineText(n, src); t != "" {
				blocks = append(blocks, t)
			}
		}
	}

	doc.Text = joinBlocks(blocks)
	return doc, nil
}

// inlineText gets the text content of a goldmark AST node. Leaf blocks
// carry their source lines directly; container blocks recurse.
func inlineText(n ast.Node, src []byte) string {
	var buf bytes.Buffer
	if n.Type() == ast.TypeBlock && n.Lines().Len() > 0 {
		lines := n.Lines()
		for i := 0; i < lines.Len(); i++ {
			line := lines.At(i)
			buf.Write(line.Value(src))
		}
		return strings.TrimSpace(buf.String())
	}
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		if t, ok := c.(*ast.Text); ok {
			buf.Write(t.Value(src))
			if t.HardLineBreak() || t.SoftLineBreak() {
				buf.WriteByte('\n')
			}
			continue
		}
		if s := inlineText(c, src); s != "" {
			buf.WriteString(s)
			buf.WriteByte('\n')
		}
	}
	return strings.TrimSpace(buf.String())
}
