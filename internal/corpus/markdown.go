package corpus

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	extast "github.com/yuin/goldmark/extension/ast"
	"github.com/yuin/goldmark/text"

	"github.com/stormlightlabs/docsift/internal/index"
)

// structure is the searchable content of a document body.
type structure struct {
	Headings   []string
	CodeBlocks []index.CodeBlock
	Body       string
}

var markdown = goldmark.New(goldmark.WithExtensions(extension.GFM))

// extractStructure walks the markdown AST of body and sorts its text into
// headings, code blocks and plain body text, all in document order.
func extractStructure(body string) structure {
	var (
		s      structure
		source = []byte(body)
		plain  []string
	)

	doc := markdown.Parser().Parse(text.NewReader(source))

	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch n := n.(type) {
		case *ast.Heading:
			if h := strings.TrimSpace(inlineText(n, source)); h != "" {
				s.Headings = append(s.Headings, h)
			}
			return ast.WalkSkipChildren, nil

		case *ast.FencedCodeBlock:
			s.CodeBlocks = append(s.CodeBlocks, index.CodeBlock{
				Language: string(n.Language(source)),
				Content:  blockLines(n, source),
			})
			return ast.WalkSkipChildren, nil

		case *ast.CodeBlock:
			s.CodeBlocks = append(s.CodeBlocks, index.CodeBlock{Content: blockLines(n, source)})
			return ast.WalkSkipChildren, nil

		case *ast.HTMLBlock:
			if t := strings.TrimSpace(blockLines(n, source)); t != "" {
				plain = append(plain, t)
			}
			return ast.WalkSkipChildren, nil

		case *ast.Paragraph, *ast.TextBlock, *extast.TableCell:
			if t := strings.TrimSpace(inlineText(n, source)); t != "" {
				plain = append(plain, t)
			}
			return ast.WalkSkipChildren, nil
		}

		return ast.WalkContinue, nil
	})

	s.Body = strings.Join(plain, "\n")
	return s
}

// inlineText concatenates the text of n's inline descendants.
func inlineText(n ast.Node, source []byte) string {
	var buf bytes.Buffer
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch c := c.(type) {
		case *ast.Text:
			buf.Write(c.Segment.Value(source))
			if c.SoftLineBreak() || c.HardLineBreak() {
				buf.WriteByte(' ')
			}
		case *ast.String:
			buf.Write(c.Value)
		case *ast.AutoLink:
			buf.Write(c.URL(source))
			return ast.WalkSkipChildren, nil
		case *ast.RawHTML:
			return ast.WalkSkipChildren, nil
		}
		return ast.WalkContinue, nil
	})
	return buf.String()
}

func blockLines(n ast.Node, source []byte) string {
	var buf bytes.Buffer
	lines := n.Lines()
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		buf.Write(seg.Value(source))
	}
	return strings.TrimRight(buf.String(), "\n")
}
