package model

import "errors"

var (
	ErrInvalidRecipient = errors.New("model: invalid recipient")
	ErrInvalidGroup     = errors.New("model: invalid group")
	ErrInvalidSchedule  = errors.New("model: invalid schedule")
	ErrInvalidTemplate  = errors.New("model: invalid template")

	// ErrTemplateInUse is returned by TemplateUsage.CheckDeletable when at
	// least one group still references the template.
	ErrTemplateInUse = errors.New("model: template is used by one or more groups")
)
