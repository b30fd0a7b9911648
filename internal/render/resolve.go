package render

import (
	"fmt"
	"strings"

	"github.com/dmitrymomot/remindr/internal/model"
)

// Message is a fully resolved email: subject and HTML body with
// placeholders substituted, plus a plain-text alternative.
type Message struct {
	Subject string
	Body    string
	Text    string
	Mode    model.Mode
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithLegacyMarkdown converts legacy text bodies that do not already
// contain markup from markdown to HTML.
func WithLegacyMarkdown() Option {
	return func(r *Resolver) {
		r.markdown = NewMarkdown()
	}
}

// Resolver turns templates into messages.
type Resolver struct {
	markdown *Markdown
}

// NewResolver creates a resolver. With no options legacy bodies are sent
// exactly as written.
func NewResolver(opts ...Option) *Resolver {
	r := &Resolver{}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

var defaultResolver = NewResolver()

// Resolve resolves t with the default resolver.
func Resolve(t *model.Template, vars map[string]string) (Message, error) {
	return defaultResolver.Resolve(t, vars)
}

// Resolve substitutes vars into the template subject and renders the body
// according to the template mode. It returns ErrEmptyContent when the
// content of that mode is empty.
func (r *Resolver) Resolve(t *model.Template, vars map[string]string) (Message, error) {
	if t == nil {
		return Message{}, ErrNilTemplate
	}

	msg := Message{
		Subject: Substitute(t.Subject, vars),
		Mode:    t.Mode(),
	}

	switch c := t.Content.(type) {
	case model.HTMLContent:
		if strings.TrimSpace(c.HTML) == "" {
			return Message{}, fmt.Errorf("%w: html body", ErrEmptyContent)
		}
		msg.Body = Substitute(c.HTML, vars)
		msg.Text = PlainTextFromHTML(msg.Body)

	case model.BlockContent:
		if len(c.Blocks) == 0 {
			return Message{}, fmt.Errorf("%w: blocks", ErrEmptyContent)
		}
		msg.Body = RenderHTML(c.Blocks, vars)
		msg.Text = RenderText(c.Blocks, vars)

	case model.TextContent:
		if strings.TrimSpace(c.Body) == "" {
			return Message{}, fmt.Errorf("%w: body", ErrEmptyContent)
		}
		body := Substitute(c.Body, vars)
		msg.Body = body
		msg.Text = body
		// Only the author's markup decides; variable values must not.
		if r.markdown != nil && !LooksLikeHTML(c.Body) {
			html, err := r.markdown.Document(body)
			if err != nil {
				return Message{}, err
			}
			msg.Body = html
		}

	default:
		return Message{}, fmt.Errorf("%w: body", ErrEmptyContent)
	}

	return msg, nil
}
