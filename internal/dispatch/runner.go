package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/remindr/internal/logger"
	"github.com/dmitrymomot/remindr/internal/model"
	"github.com/dmitrymomot/remindr/internal/occurrence"
	"github.com/dmitrymomot/remindr/internal/render"
)

// Runner executes dispatch runs. One Runner runs one batch at a time;
// concurrent calls to Run wait for each other.
type Runner struct {
	repo     Repository
	mailer   Mailer
	resolver *render.Resolver
	logger   *slog.Logger
	metrics  *Metrics
	location *time.Location
	window   occurrence.Window
	mu       sync.Mutex
	dryRun   bool
}

// Option configures a Runner.
type Option func(*Runner)

// WithLogger sets the logger. The default discards output.
func WithLogger(l *slog.Logger) Option {
	return func(r *Runner) {
		if l != nil {
			r.logger = l
		}
	}
}

// WithWindow sets the lookback and item cap.
func WithWindow(w occurrence.Window) Option {
	return func(r *Runner) {
		r.window = w
	}
}

// WithLocation sets the time zone used for formatted dates and for
// monthly day-of-month arithmetic. The default is UTC.
func WithLocation(loc *time.Location) Option {
	return func(r *Runner) {
		if loc != nil {
			r.location = loc
		}
	}
}

// WithResolver sets the template resolver.
func WithResolver(res *render.Resolver) Option {
	return func(r *Runner) {
		if res != nil {
			r.resolver = res
		}
	}
}

// WithMetrics enables prometheus metrics.
func WithMetrics(m *Metrics) Option {
	return func(r *Runner) {
		r.metrics = m
	}
}

// WithDryRun leaves schedules and recipients untouched after a send, so the
// same items stay due for the next run.
func WithDryRun() Option {
	return func(r *Runner) {
		r.dryRun = true
	}
}

// NewRunner creates a Runner.
func NewRunner(repo Repository, mailer Mailer, opts ...Option) *Runner {
	r := &Runner{
		repo:     repo,
		mailer:   mailer,
		resolver: render.NewResolver(),
		logger:   logger.NewNope(),
		location: time.UTC,
		window:   occurrence.DefaultWindow(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.window.Lookback <= 0 {
		r.window.Lookback = occurrence.DefaultLookback
	}
	if r.window.Limit <= 0 {
		r.window.Limit = occurrence.DefaultLimit
	}
	return r
}

// Run processes every item due at now and returns one result per item.
// The error is non-nil only when the batch could not be loaded; per-item
// failures are reported in the results.
func (r *Runner) Run(ctx context.Context, now time.Time) (*Report, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	started := time.Now()
	now = now.In(r.location)
	report := &Report{RunID: uuid.NewString(), StartedAt: now, Results: []Result{}, DryRun: r.dryRun}
	ctx = logger.WithRunID(ctx, report.RunID)

	items, err := r.load(ctx, now)
	if err != nil {
		r.metrics.observeRun(false, time.Since(started), now)
		r.logger.ErrorContext(ctx, "dispatch: failed to load due items", slog.String("error", err.Error()))
		return nil, err
	}

	for _, it := range items {
		res := r.process(ctx, it, now)
		report.Results = append(report.Results, res)
		r.metrics.observeItem(res)
		r.logResult(ctx, res)
	}

	report.Processed = len(report.Results)
	report.Duration = time.Since(started)
	r.metrics.observeRun(true, report.Duration, now)

	r.logger.InfoContext(ctx, "dispatch finished",
		slog.Int("processed", report.Processed),
		slog.Int("success", report.Count(StatusSuccess)),
		slog.Int("skipped", report.Count(StatusSkipped)),
		slog.Int("failed", report.Count(StatusFailed)),
		slog.Duration("duration", report.Duration),
		slog.Bool("dry_run", r.dryRun),
	)

	return report, nil
}

// load fetches schedules first, then fills the rest of the cap with group
// recipients.
func (r *Runner) load(ctx context.Context, now time.Time) ([]item, error) {
	limit := r.window.Limit

	schedules, err := r.repo.FindDueSchedules(ctx, now, r.window.Lookback, limit)
	if err != nil {
		return nil, errors.Join(ErrRepositoryUnavailable, fmt.Errorf("find due schedules: %w", err))
	}
	if len(schedules) > limit {
		schedules = schedules[:limit]
	}

	var recipients []model.Recipient
	if remaining := limit - len(schedules); remaining > 0 {
		recipients, err = r.repo.FindDueRecipients(ctx, now, r.window.Lookback, remaining)
		if err != nil {
			return nil, errors.Join(ErrRepositoryUnavailable, fmt.Errorf("find due recipients: %w", err))
		}
		if len(recipients) > remaining {
			recipients = recipients[:remaining]
		}
	}

	items := make([]item, 0, len(schedules)+len(recipients))
	for i := range schedules {
		it := scheduleItem(&schedules[i], r.location)
		if r.due(ctx, it, now) {
			items = append(items, it)
		}
	}
	for i := range recipients {
		it := recipientItem(&recipients[i], r.location)
		if r.due(ctx, it, now) {
			items = append(items, it)
		}
	}
	return items, nil
}

func (r *Runner) due(ctx context.Context, it item, now time.Time) bool {
	if r.window.IsDue(it.occurrence, now) {
		return true
	}
	r.logger.DebugContext(ctx, "dispatch: ignoring item outside due window",
		slog.String("item_id", it.id),
		slog.String("kind", string(it.kind)),
		slog.Time("occurrence", it.occurrence),
	)
	return false
}

// process handles one item. It never panics and never returns an error;
// every outcome is a Result.
func (r *Runner) process(ctx context.Context, it item, now time.Time) (res Result) {
	defer func() {
		if p := recover(); p != nil {
			res = failed(it, ReasonUnexpected, fmt.Errorf("%w: panic: %v", ErrUnexpected, p))
		}
	}()

	tpl, rule, err := r.resolveRefs(ctx, &it)
	if err != nil {
		if errors.Is(err, ErrMissingReference) {
			return skipped(it, ReasonMissingReference, err)
		}
		return failed(it, ReasonUnexpected, errors.Join(ErrUnexpected, err))
	}

	if !model.PlausibleEmail(it.recipient.Email) {
		return skipped(it, ReasonInvalidEmail, fmt.Errorf("%w: %q", ErrInvalidEmail, it.recipient.Email))
	}

	next, err := occurrence.Next(rule, it.occurrence)
	if err != nil {
		return failed(it, ReasonInvalidRule, err)
	}

	msg, err := r.resolver.Resolve(tpl, Variables(it.recipient, now, next))
	if err != nil {
		if errors.Is(err, render.ErrEmptyContent) {
			return failed(it, ReasonEmptyContent, err)
		}
		return failed(it, ReasonUnexpected, errors.Join(ErrUnexpected, err))
	}

	if err := r.send(ctx, Message{
		To:      model.NormalizeEmail(it.recipient.Email),
		Subject: msg.Subject,
		HTML:    msg.Body,
		Text:    msg.Text,
	}); err != nil {
		return failed(it, ReasonSendFailed, errors.Join(ErrSendFailure, err))
	}

	if r.dryRun {
		return success(it)
	}
	if err := r.advance(ctx, it, now, next); err != nil {
		return failed(it, ReasonNotAdvanced, errors.Join(ErrNotAdvanced, err))
	}

	return success(it)
}

// send calls the mailer. A panicking mailer counts as a failed send.
func (r *Runner) send(ctx context.Context, msg Message) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("mailer panic: %v", p)
		}
	}()
	return r.mailer.Send(ctx, msg)
}

// resolveRefs loads the recipient, template and recurrence rule of it.
// Missing records are reported as ErrMissingReference.
func (r *Runner) resolveRefs(ctx context.Context, it *item) (*model.Template, occurrence.Rule, error) {
	var (
		rule       occurrence.Rule
		templateID string
	)

	switch it.kind {
	case KindSchedule:
		recipient, err := r.repo.GetRecipient(ctx, it.schedule.RecipientID)
		if err := missing(recipient == nil, err, "subscriber"); err != nil {
			return nil, rule, err
		}
		it.recipient = recipient
		rule = it.schedule.Rule()
		templateID = it.schedule.TemplateID

	case KindRecipient:
		if !it.recipient.HasGroup() {
			return nil, rule, fmt.Errorf("%w: recipient has no group", ErrMissingReference)
		}
		group, err := r.repo.GetGroup(ctx, it.recipient.GroupID)
		if err := missing(group == nil, err, "group"); err != nil {
			return nil, rule, err
		}
		rule = group.Rule()
		templateID = group.TemplateID
	}

	tpl, err := r.repo.GetTemplate(ctx, templateID)
	if err := missing(tpl == nil, err, "template"); err != nil {
		return nil, rule, err
	}
	return tpl, rule, nil
}

func missing(isNil bool, err error, what string) error {
	switch {
	case errors.Is(err, ErrNotFound):
		return fmt.Errorf("%w: %s: %w", ErrMissingReference, what, err)
	case err != nil:
		return fmt.Errorf("get %s: %w", what, err)
	case isNil:
		return fmt.Errorf("%w: %s", ErrMissingReference, what)
	}
	return nil
}

func (r *Runner) advance(ctx context.Context, it item, now, next time.Time) error {
	if it.kind == KindSchedule {
		return r.repo.UpdateScheduleAfterSend(ctx, it.id, now, next)
	}
	return r.repo.UpdateRecipientAfterSend(ctx, it.id, next)
}

func (r *Runner) logResult(ctx context.Context, res Result) {
	attrs := []slog.Attr{
		slog.String("item_id", res.ItemID),
		slog.String("kind", string(res.Kind)),
		slog.String("email", res.RecipientEmail),
	}
	switch res.Status {
	case StatusSuccess:
		r.logger.LogAttrs(ctx, slog.LevelInfo, "dispatch: email sent", attrs...)
	case StatusSkipped:
		attrs = append(attrs, slog.String("reason", res.Reason))
		r.logger.LogAttrs(ctx, slog.LevelWarn, "dispatch: item skipped", attrs...)
	case StatusFailed:
		attrs = append(attrs, slog.String("reason", res.Reason))
		if res.Err != nil {
			attrs = append(attrs, slog.String("error", res.Err.Error()))
		}
		r.logger.LogAttrs(ctx, slog.LevelError, "dispatch: item failed", attrs...)
	}
}

// item is one unit of work: a legacy schedule or a group recipient.
type item struct {
	occurrence time.Time
	schedule   *model.Schedule
	recipient  *model.Recipient
	id         string
	kind       Kind
}

func scheduleItem(s *model.Schedule, loc *time.Location) item {
	return item{id: s.ID, kind: KindSchedule, schedule: s, occurrence: s.NextSendDate.In(loc)}
}

func recipientItem(rc *model.Recipient, loc *time.Location) item {
	it := item{id: rc.ID, kind: KindRecipient, recipient: rc}
	if rc.NextOccurrence != nil {
		it.occurrence = rc.NextOccurrence.In(loc)
	}
	return it
}

func (it item) email() string {
	if it.recipient == nil {
		return ""
	}
	return it.recipient.Email
}
