package render

import "errors"

var (
	// ErrEmptyContent is returned when a template has no usable content for
	// its declared mode.
	ErrEmptyContent = errors.New("render: template has no content")

	// ErrNilTemplate is returned when Resolve receives a nil template.
	ErrNilTemplate = errors.New("render: template is nil")

	// ErrUnknownVariable is returned by ValidateVariables.
	ErrUnknownVariable = errors.New("render: unknown template variable")

	// ErrInvalidBlock is returned by ValidateBlocks.
	ErrInvalidBlock = errors.New("render: invalid block")
)
