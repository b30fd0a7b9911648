package job

import "errors"

var (
	// ErrAlreadyStarted is returned when starting a running manager.
	ErrAlreadyStarted = errors.New("job: already started")

	// ErrNotStarted is returned when stopping a manager that is not running.
	ErrNotStarted = errors.New("job: not started")

	// ErrPoolRequired is returned when NewManager gets a nil pool.
	ErrPoolRequired = errors.New("job: pool is required")

	// ErrDispatcherRequired is returned when NewManager gets a nil dispatcher.
	ErrDispatcherRequired = errors.New("job: dispatcher is required")

	// ErrInvalidSchedule is returned for cron expressions that do not parse.
	ErrInvalidSchedule = errors.New("job: invalid cron schedule")

	// ErrHealthcheckFailed is returned when the manager health check fails.
	ErrHealthcheckFailed = errors.New("job: healthcheck failed")
)

var (
	errManagerNil        = errors.New("manager is nil")
	errManagerNotStarted = errors.New("manager not started")
)
