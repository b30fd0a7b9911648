package render

import (
	"bytes"
	"fmt"
	"regexp"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"

	"github.com/dmitrymomot/remindr/internal/model"
)

var htmlTagPattern = regexp.MustCompile(`(?i)<\s*/?\s*(html|body|p|div|table|br|a|h[1-6]|ul|ol|span|strong|em|img)\b`)

// LooksLikeHTML reports whether s already contains common HTML tags.
func LooksLikeHTML(s string) bool {
	return htmlTagPattern.MatchString(s)
}

// Markdown converts legacy markdown bodies to email HTML.
// It understands [!button|Label](url) in addition to CommonMark.
type Markdown struct {
	md goldmark.Markdown
}

// NewMarkdown creates a markdown converter with the button extension.
func NewMarkdown() *Markdown {
	return &Markdown{
		md: goldmark.New(goldmark.WithExtensions(NewButtonExtension())),
	}
}

// Fragment converts source to an HTML fragment.
func (m *Markdown) Fragment(source string) (string, error) {
	var buf bytes.Buffer
	if err := m.md.Convert([]byte(source), &buf); err != nil {
		return "", fmt.Errorf("render: convert markdown: %w", err)
	}
	return buf.String(), nil
}

// Document converts source and wraps it in the email document used for
// block templates.
func (m *Markdown) Document(source string) (string, error) {
	fragment, err := m.Fragment(source)
	if err != nil {
		return "", err
	}
	return documentHead + `          <tr>
            <td style="padding: 0 20px; font-size: 16px; line-height: 1.6; color: ` + model.DefaultTextColor + `;">
` + fragment + `            </td>
          </tr>
` + documentTail, nil
}

// ButtonNode is an inline call-to-action link.
type ButtonNode struct {
	ast.BaseInline
	URL   []byte
	Label []byte
}

// KindButton is the node kind for ButtonNode.
var KindButton = ast.NewNodeKind("Button")

const buttonPrefix = "[!button|"

func (n *ButtonNode) Kind() ast.NodeKind {
	return KindButton
}

func (n *ButtonNode) Dump(source []byte, level int) {
	ast.DumpHelper(n, source, level, map[string]string{
		"URL":   string(n.URL),
		"Label": string(n.Label),
	}, nil)
}

type buttonParser struct{}

// NewButtonParser parses [!button|Label](url).
func NewButtonParser() parser.InlineParser {
	return &buttonParser{}
}

func (p *buttonParser) Trigger() []byte {
	return []byte{'['}
}

func (p *buttonParser) Parse(_ ast.Node, block text.Reader, _ parser.Context) ast.Node {
	line, _ := block.PeekLine()
	if !bytes.HasPrefix(line, []byte(buttonPrefix)) {
		return nil
	}

	rest := line[len(buttonPrefix):]
	labelEnd := bytes.IndexByte(rest, ']')
	if labelEnd < 0 || labelEnd+1 >= len(rest) || rest[labelEnd+1] != '(' {
		return nil
	}
	target := rest[labelEnd+2:]
	urlEnd := bytes.IndexByte(target, ')')
	if urlEnd < 0 {
		return nil
	}

	block.Advance(len(buttonPrefix) + labelEnd + 2 + urlEnd + 1)

	return &ButtonNode{
		Label: rest[:labelEnd],
		URL:   target[:urlEnd],
	}
}

type buttonRenderer struct {
	html.Config
}

// NewButtonRenderer renders ButtonNode as a table-based email button.
func NewButtonRenderer(opts ...html.Option) renderer.NodeRenderer {
	r := &buttonRenderer{Config: html.NewConfig()}
	for _, opt := range opts {
		opt.SetHTMLOption(&r.Config)
	}
	return r
}

func (r *buttonRenderer) RegisterFuncs(reg renderer.NodeRendererFuncRegisterer) {
	reg.Register(KindButton, r.renderButton)
}

func (r *buttonRenderer) renderButton(w util.BufWriter, _ []byte, node ast.Node, entering bool) (ast.WalkStatus, error) {
	if !entering {
		return ast.WalkContinue, nil
	}
	n := node.(*ButtonNode)

	_, _ = w.WriteString(`<table border="0" cellpadding="0" cellspacing="0" role="presentation" style="margin: 16px 0;"><tr><td style="border-radius: 6px; background-color: ` +
		model.DefaultButtonColor + `;"><a href="`)
	_, _ = w.Write(util.EscapeHTML(n.URL))
	_, _ = w.WriteString(`" target="_blank" class="btn" style="display: inline-block; padding: 14px 28px; font-size: 16px; font-weight: bold; color: ` +
		model.DefaultButtonTextColor + `; text-decoration: none; border-radius: 6px;">`)
	_, _ = w.Write(util.EscapeHTML(n.Label))
	_, _ = w.WriteString(`</a></td></tr></table>`)

	return ast.WalkContinue, nil
}

type buttonExtension struct{}

func (e *buttonExtension) Extend(m goldmark.Markdown) {
	m.Parser().AddOptions(parser.WithInlineParsers(
		util.Prioritized(NewButtonParser(), 50),
	))
	m.Renderer().AddOptions(renderer.WithNodeRenderers(
		util.Prioritized(NewButtonRenderer(), 50),
	))
}

// NewButtonExtension registers the button parser and renderer with goldmark.
func NewButtonExtension() goldmark.Extender {
	return &buttonExtension{}
}
