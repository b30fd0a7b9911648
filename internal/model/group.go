package model

import (
	"errors"

	"github.com/dmitrymomot/remindr/internal/occurrence"
)

// Group owns recipients that share one template and send interval.
type Group struct {
	ID           string `json:"id"`
	Name         string `json:"name" validate:"required,max=100"`
	TemplateID   string `json:"templateId" validate:"required"`
	IntervalDays int    `json:"intervalDays" validate:"min=1"`
	Active       bool   `json:"active"`
}

// Validate checks the write-path constraints of a group.
func (g *Group) Validate() error {
	if err := validate.Struct(g); err != nil {
		return errors.Join(ErrInvalidGroup, err)
	}
	return nil
}

// Rule returns the recurrence applied to every recipient of the group.
func (g *Group) Rule() occurrence.Rule {
	return occurrence.Interval(g.IntervalDays)
}
