package render

import (
	"bytes"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/dmitrymomot/remindr/internal/model"
)

// ErrInvalidFrontmatter is returned when a markdown template header cannot
// be parsed.
var ErrInvalidFrontmatter = errors.New("render: invalid frontmatter")

type frontmatter struct {
	ID      string `yaml:"id"`
	Name    string `yaml:"name"`
	Subject string `yaml:"subject"`
}

// ParseMarkdownTemplate reads a legacy text template stored as markdown with
// an optional YAML header carrying id, name and subject:
//
//	---
//	subject: Your {{service}} renews on {{nextDate}}
//	---
//	Hi {{name}}, ...
func ParseMarkdownTemplate(content []byte) (model.Template, error) {
	delimiter := []byte("---")
	if !bytes.HasPrefix(content, delimiter) {
		return model.Template{Content: model.TextContent{Body: string(content)}}, nil
	}

	rest := bytes.TrimLeft(bytes.TrimPrefix(content, delimiter), "\r\n")
	end := bytes.Index(rest, delimiter)
	if end < 0 {
		return model.Template{}, fmt.Errorf("%w: closing delimiter not found", ErrInvalidFrontmatter)
	}

	var meta frontmatter
	if header := bytes.TrimSpace(rest[:end]); len(header) > 0 {
		if err := yaml.Unmarshal(header, &meta); err != nil {
			return model.Template{}, fmt.Errorf("%w: %v", ErrInvalidFrontmatter, err)
		}
	}

	body := rest[end+len(delimiter):]
	body = bytes.TrimPrefix(body, []byte("\r"))
	body = bytes.TrimPrefix(body, []byte("\n"))

	return model.Template{
		ID:      meta.ID,
		Name:    meta.Name,
		Subject: meta.Subject,
		Content: model.TextContent{Body: string(body)},
	}, nil
}
