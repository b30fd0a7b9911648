package dispatch

import (
	"errors"

	"github.com/dmitrymomot/remindr/internal/render"
)

var (
	// ErrNotFound is returned by repositories when a referenced record does
	// not exist.
	ErrNotFound = errors.New("dispatch: record not found")

	// ErrRepositoryUnavailable is returned by Run when the due items cannot
	// be loaded.
	ErrRepositoryUnavailable = errors.New("dispatch: repository unavailable")

	ErrMissingReference = errors.New("dispatch: missing subscriber or template")
	ErrInvalidEmail     = errors.New("dispatch: invalid recipient email")
	ErrEmptyContent     = render.ErrEmptyContent
	ErrSendFailure      = errors.New("dispatch: send failed")
	ErrNotAdvanced      = errors.New("dispatch: sent but not advanced")
	ErrUnexpected       = errors.New("dispatch: unexpected error")
)
