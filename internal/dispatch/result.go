package dispatch

import (
	"errors"
	"time"
)

// Kind tells which entity a result belongs to.
type Kind string

const (
	KindSchedule  Kind = "schedule"
	KindRecipient Kind = "recipient"
)

// Status is the outcome of one item.
type Status string

const (
	StatusSuccess Status = "success"
	StatusSkipped Status = "skipped"
	StatusFailed  Status = "failed"
)

// Reasons reported for skipped and failed items.
const (
	ReasonMissingReference = "missing subscriber or template"
	ReasonInvalidEmail     = "invalid email"
	ReasonEmptyContent     = "template has no content"
	ReasonInvalidRule      = "invalid recurrence"
	ReasonSendFailed       = "send failed"
	ReasonNotAdvanced      = "sent but not advanced"
	ReasonUnexpected       = "unexpected error"
)

// Result is the outcome of one due item.
type Result struct {
	Err            error  `json:"-"`
	ItemID         string `json:"itemId"`
	Kind           Kind   `json:"kind"`
	Status         Status `json:"status"`
	Reason         string `json:"reason,omitempty"`
	RecipientEmail string `json:"recipientEmail,omitempty"`
}

func success(it item) Result {
	return Result{ItemID: it.id, Kind: it.kind, Status: StatusSuccess, RecipientEmail: it.email()}
}

func skipped(it item, reason string, err error) Result {
	return Result{ItemID: it.id, Kind: it.kind, Status: StatusSkipped, Reason: reason, RecipientEmail: it.email(), Err: err}
}

func failed(it item, reason string, err error) Result {
	return Result{ItemID: it.id, Kind: it.kind, Status: StatusFailed, Reason: reason, RecipientEmail: it.email(), Err: err}
}

// Report is the outcome of one run.
type Report struct {
	StartedAt time.Time     `json:"startedAt"`
	RunID     string        `json:"runId"`
	Results   []Result      `json:"results"`
	Duration  time.Duration `json:"-"`
	Processed int           `json:"processed"`
	DryRun    bool          `json:"dryRun,omitempty"`
}

// Count returns how many results have status s.
func (r *Report) Count(s Status) int {
	n := 0
	for _, res := range r.Results {
		if res.Status == s {
			n++
		}
	}
	return n
}

// Err joins the errors of all failed items, or returns nil.
func (r *Report) Err() error {
	var errs []error
	for _, res := range r.Results {
		if res.Status == StatusFailed && res.Err != nil {
			errs = append(errs, res.Err)
		}
	}
	return errors.Join(errs...)
}
