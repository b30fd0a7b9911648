package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Mode names the content variant of a template.
type Mode string

const (
	ModeText   Mode = "text"
	ModeHTML   Mode = "html"
	ModeBlocks Mode = "blocks"
)

// Content is the mode-specific part of a template.
type Content interface {
	Mode() Mode
	isContent()
}

// TextContent is the legacy plain-text body with {{var}} placeholders.
type TextContent struct {
	Body string
}

// HTMLContent is an author-supplied HTML document. Variable values are
// inserted into it verbatim.
type HTMLContent struct {
	HTML string
}

// BlockContent is an ordered list of content blocks.
type BlockContent struct {
	Blocks []Block
}

func (TextContent) Mode() Mode  { return ModeText }
func (HTMLContent) Mode() Mode  { return ModeHTML }
func (BlockContent) Mode() Mode { return ModeBlocks }

func (TextContent) isContent()  {}
func (HTMLContent) isContent()  {}
func (BlockContent) isContent() {}

// Template is a reusable email definition.
type Template struct {
	Content   Content
	CreatedAt time.Time
	UpdatedAt time.Time
	ID        string
	Name      string
	Subject   string
}

// Mode returns the template content mode, or ModeText when Content is nil.
func (t *Template) Mode() Mode {
	if t.Content == nil {
		return ModeText
	}
	return t.Content.Mode()
}

// Validate checks the write-path constraints: name and subject are required
// and the content of the selected mode must be non-empty.
func (t *Template) Validate() error {
	var errs []error
	if strings.TrimSpace(t.Name) == "" {
		errs = append(errs, errors.New("name is required"))
	}
	if strings.TrimSpace(t.Subject) == "" {
		errs = append(errs, errors.New("subject is required"))
	}

	switch c := t.Content.(type) {
	case TextContent:
		if strings.TrimSpace(c.Body) == "" {
			errs = append(errs, errors.New("body is required"))
		}
	case HTMLContent:
		if strings.TrimSpace(c.HTML) == "" {
			errs = append(errs, errors.New("html body is required"))
		}
	case BlockContent:
		if len(c.Blocks) == 0 {
			errs = append(errs, errors.New("at least one block is required"))
		}
		seen := make(map[string]struct{}, len(c.Blocks))
		for i, b := range c.Blocks {
			if b.ID == "" {
				continue
			}
			if _, dup := seen[b.ID]; dup {
				errs = append(errs, fmt.Errorf("block %d: duplicate id %q", i+1, b.ID))
			}
			seen[b.ID] = struct{}{}
		}
	default:
		errs = append(errs, errors.New("content is required"))
	}

	if len(errs) > 0 {
		return errors.Join(append([]error{ErrInvalidTemplate}, errs...)...)
	}
	return nil
}

// Record is the flat storage and wire shape of a template. Mode flags and
// content fields are independent columns, so a badly written record may
// carry more than one of them.
type Record struct {
	CreatedAt    time.Time `json:"createdAt,omitzero" yaml:"-"`
	UpdatedAt    time.Time `json:"updatedAt,omitzero" yaml:"-"`
	ID           string    `json:"id" yaml:"id"`
	Name         string    `json:"name" yaml:"name"`
	Subject      string    `json:"subject" yaml:"subject"`
	Body         string    `json:"body,omitempty" yaml:"body,omitempty"`
	HTMLBody     string    `json:"htmlBody,omitempty" yaml:"htmlBody,omitempty"`
	Blocks       []Block   `json:"blocks,omitempty" yaml:"blocks,omitempty"`
	IsHTML       bool      `json:"isHtml" yaml:"isHtml"`
	IsBlockBased bool      `json:"isBlockBased" yaml:"isBlockBased"`
}

// Template converts the record into the tagged form. The HTML flag wins
// over the block flag, which wins over legacy text.
func (r Record) Template() Template {
	t := Template{
		ID:        r.ID,
		Name:      r.Name,
		Subject:   r.Subject,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
	switch {
	case r.IsHTML:
		t.Content = HTMLContent{HTML: r.HTMLBody}
	case r.IsBlockBased:
		t.Content = BlockContent{Blocks: r.Blocks}
	default:
		t.Content = TextContent{Body: r.Body}
	}
	return t
}

// Ambiguous reports whether the record carries content for more than one
// mode. Validated writes never produce such records.
func (r Record) Ambiguous() bool {
	n := 0
	if r.IsHTML || r.HTMLBody != "" {
		n++
	}
	if r.IsBlockBased || len(r.Blocks) > 0 {
		n++
	}
	if r.Body != "" {
		n++
	}
	return n > 1
}

// Record converts the template into its flat form. Only the fields of the
// active mode are populated.
func (t Template) Record() Record {
	r := Record{
		ID:        t.ID,
		Name:      t.Name,
		Subject:   t.Subject,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
	switch c := t.Content.(type) {
	case HTMLContent:
		r.IsHTML = true
		r.HTMLBody = c.HTML
	case BlockContent:
		r.IsBlockBased = true
		r.Blocks = c.Blocks
	case TextContent:
		r.Body = c.Body
	}
	return r
}

func (t Template) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Record())
}

func (t *Template) UnmarshalJSON(data []byte) error {
	var r Record
	if err := json.Unmarshal(data, &r); err != nil {
		return err
	}
	*t = r.Template()
	return nil
}

// TemplateUsage describes how many groups reference a template.
type TemplateUsage struct {
	TemplateID string
	Groups     int
}

// CheckDeletable returns ErrTemplateInUse when the template is still
// referenced by a group.
func (u TemplateUsage) CheckDeletable() error {
	if u.Groups > 0 {
		return fmt.Errorf("%w: %d group(s) reference template %s", ErrTemplateInUse, u.Groups, u.TemplateID)
	}
	return nil
}
