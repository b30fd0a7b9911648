package cache

import "errors"

var (
	ErrNotFound  = errors.New("cache: entry not found")
	ErrClosed    = errors.New("cache: closed")
	ErrMarshal   = errors.New("cache: failed to marshal value")
	ErrUnmarshal = errors.New("cache: failed to unmarshal value")

	ErrEmptyConnectionURL = errors.New("cache: empty redis connection URL")
	ErrFailedToParseURL   = errors.New("cache: failed to parse redis connection URL")
	ErrConnectionFailed   = errors.New("cache: failed to connect to redis")
	ErrHealthcheckFailed  = errors.New("cache: redis healthcheck failed")
)
