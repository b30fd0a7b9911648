package model

import (
	"errors"
	"strings"
	"time"
)

// Recipient is a subscriber that receives scheduled emails.
type Recipient struct {
	// ReferenceDate is exposed to templates as nextDate (e.g. a renewal
	// date). It never drives scheduling.
	ReferenceDate *time.Time `json:"referenceDate,omitempty"`

	// NextOccurrence is when the recipient is next due through its group.
	NextOccurrence *time.Time `json:"nextOccurrence,omitempty"`

	CustomVariables map[string]string `json:"customVariables,omitempty" validate:"varkeys"`

	ID      string `json:"id"`
	Name    string `json:"name" validate:"required,max=100"`
	Email   string `json:"email" validate:"required,email"`
	Service string `json:"service" validate:"required,max=100"`
	GroupID string `json:"groupId,omitempty"`
	Active  bool   `json:"active"`
}

// Normalize trims text fields and lowercases the email address.
func (r *Recipient) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Service = strings.TrimSpace(r.Service)
	r.Email = NormalizeEmail(r.Email)
}

// Validate checks the write-path constraints of a recipient.
func (r *Recipient) Validate() error {
	if err := validate.Struct(r); err != nil {
		return errors.Join(ErrInvalidRecipient, err)
	}
	if r.Email != NormalizeEmail(r.Email) {
		return errors.Join(ErrInvalidRecipient, errors.New("email must be lowercase and trimmed"))
	}
	return nil
}

// HasGroup reports whether the recipient is owned by a group.
func (r *Recipient) HasGroup() bool {
	return r.GroupID != ""
}

// NormalizeEmail trims and lowercases an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// PlausibleEmail is the dispatch-time sanity check: the address must
// contain an "@" with something on both sides.
func PlausibleEmail(email string) bool {
	at := strings.LastIndex(email, "@")
	return at > 0 && at < len(email)-1
}
