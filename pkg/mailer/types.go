package mailer

import (
	"fmt"
	"strings"
)

// Tags are provider tags. A struct{}{} value marks a presence-only tag.
type Tags map[string]any

// SimpleTags creates presence-only tags.
func SimpleTags(names ...string) Tags {
	t := make(Tags, len(names))
	for _, n := range names {
		t[n] = struct{}{}
	}
	return t
}

// Address formats a name and email as "Name <email>", or just the email
// when name is empty.
func Address(name, email string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return email
	}
	return fmt.Sprintf("%s <%s>", name, email)
}

// Email is a fully prepared message.
type Email struct {
	Headers     map[string]string
	Tags        Tags
	Subject     string
	HTML        string
	Text        string // plain text alternative
	From        string // overrides the provider default
	ReplyTo     string
	To          []string
	CC          []string
	BCC         []string
	Attachments []Attachment
}

// Attachment is a file attached to an Email.
type Attachment struct {
	Filename    string
	ContentType string
	ContentID   string
	Content     []byte
}
