package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmitrymomot/remindr/internal/cache"
	"github.com/dmitrymomot/remindr/internal/db"
	"github.com/dmitrymomot/remindr/internal/dispatch"
	"github.com/dmitrymomot/remindr/internal/model"
	"github.com/dmitrymomot/remindr/internal/render"
)

// DefaultTemplateTTL is how long a loaded template stays cached.
const DefaultTemplateTTL = 5 * time.Minute

// Postgres implements dispatch.Repository.
type Postgres struct {
	pool      *pgxpool.Pool
	templates *cache.Loader[model.Record]
	owned     cache.Cache[model.Record]
}

// Option configures Postgres.
type Option func(*Postgres)

// WithTemplateCache caches template reads in c for ttl.
func WithTemplateCache(c cache.Cache[model.Record], ttl time.Duration) Option {
	return func(p *Postgres) {
		p.templates = cache.NewLoader(c, ttl)
	}
}

// New creates the repository. Without WithTemplateCache templates are
// cached in memory.
func New(pool *pgxpool.Pool, opts ...Option) *Postgres {
	p := &Postgres{pool: pool}
	for _, opt := range opts {
		opt(p)
	}
	if p.templates == nil {
		p.owned = cache.NewMemory[model.Record](DefaultTemplateTTL, time.Minute)
		p.templates = cache.NewLoader(p.owned, DefaultTemplateTTL)
	}
	return p
}

// Close releases the template cache created by New. A cache passed with
// WithTemplateCache belongs to the caller and stays open.
func (p *Postgres) Close() error {
	if p.owned == nil {
		return nil
	}
	return p.owned.Close()
}

var _ dispatch.Repository = (*Postgres)(nil)

const scheduleColumns = `id::text, recipient_id::text, template_id::text, schedule_type,
	coalesce(day_of_month, 0), coalesce(interval_days, 0), next_send_date, last_sent_date, active`

func (p *Postgres) FindDueSchedules(ctx context.Context, now time.Time, lookback time.Duration, limit int) ([]model.Schedule, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT `+scheduleColumns+`
		FROM schedules
		WHERE active AND next_send_date BETWEEN $1 AND $2
		ORDER BY next_send_date, id
		LIMIT $3`,
		now.Add(-lookback), now, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query due schedules: %w", err)
	}
	return pgx.CollectRows(rows, scanSchedule)
}

const recipientColumns = `r.id::text, r.name, r.email, r.service, r.reference_date, r.next_occurrence,
	r.custom_variables, coalesce(r.group_id::text, ''), r.active`

func (p *Postgres) FindDueRecipients(ctx context.Context, now time.Time, lookback time.Duration, limit int) ([]model.Recipient, error) {
	rows, err := p.pool.Query(ctx, `
		SELECT `+recipientColumns+`
		FROM recipients r
		JOIN groups g ON g.id = r.group_id
		WHERE r.active AND g.active AND r.next_occurrence BETWEEN $1 AND $2
		ORDER BY r.next_occurrence, r.id
		LIMIT $3`,
		now.Add(-lookback), now, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query due recipients: %w", err)
	}
	return pgx.CollectRows(rows, scanRecipient)
}

// GetTemplate returns the template with id, served from the cache when
// possible.
func (p *Postgres) GetTemplate(ctx context.Context, id string) (*model.Template, error) {
	if err := checkID("template", id); err != nil {
		return nil, err
	}
	rec, err := p.templates.GetOrSet(ctx, id, func(ctx context.Context) (model.Record, error) {
		return p.loadTemplate(ctx, id)
	})
	if err != nil {
		return nil, err
	}
	t := rec.Template()
	return &t, nil
}

func (p *Postgres) loadTemplate(ctx context.Context, id string) (model.Record, error) {
	row := p.pool.QueryRow(ctx, `
		SELECT id::text, name, subject, coalesce(body, ''), coalesce(html_body, ''),
			coalesce(blocks, '[]'::jsonb), is_html, is_block_based, created_at, updated_at
		FROM templates
		WHERE id = $1`, id)

	var r model.Record
	err := row.Scan(&r.ID, &r.Name, &r.Subject, &r.Body, &r.HTMLBody, &r.Blocks,
		&r.IsHTML, &r.IsBlockBased, &r.CreatedAt, &r.UpdatedAt)
	if err != nil {
		return model.Record{}, notFound(err, "template", id)
	}
	return r, nil
}

func (p *Postgres) GetRecipient(ctx context.Context, id string) (*model.Recipient, error) {
	if err := checkID("recipient", id); err != nil {
		return nil, err
	}
	rows, err := p.pool.Query(ctx, `SELECT `+recipientColumns+` FROM recipients r WHERE r.id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("query recipient: %w", err)
	}
	r, err := pgx.CollectExactlyOneRow(rows, scanRecipient)
	if err != nil {
		return nil, notFound(err, "recipient", id)
	}
	return &r, nil
}

func (p *Postgres) GetGroup(ctx context.Context, id string) (*model.Group, error) {
	if err := checkID("group", id); err != nil {
		return nil, err
	}
	var g model.Group
	err := p.pool.QueryRow(ctx, `
		SELECT id::text, name, template_id::text, interval_days, active
		FROM groups
		WHERE id = $1`, id,
	).Scan(&g.ID, &g.Name, &g.TemplateID, &g.IntervalDays, &g.Active)
	if err != nil {
		return nil, notFound(err, "group", id)
	}
	return &g, nil
}

func (p *Postgres) UpdateScheduleAfterSend(ctx context.Context, id string, lastSent, nextSend time.Time) error {
	tag, err := p.pool.Exec(ctx, `
		UPDATE schedules
		SET last_sent_date = $2, next_send_date = $3, updated_at = now()
		WHERE id = $1`, id, lastSent, nextSend)
	if err != nil {
		return fmt.Errorf("update schedule: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: schedule %s", dispatch.ErrNotFound, id)
	}
	return nil
}

func (p *Postgres) UpdateRecipientAfterSend(ctx context.Context, id string, nextOccurrence time.Time) error {
	tag, err := p.pool.Exec(ctx, `
		UPDATE recipients
		SET next_occurrence = $2, updated_at = now()
		WHERE id = $1`, id, nextOccurrence)
	if err != nil {
		return fmt.Errorf("update recipient: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: recipient %s", dispatch.ErrNotFound, id)
	}
	return nil
}

// TemplateUsage counts the groups referencing a template.
func (p *Postgres) TemplateUsage(ctx context.Context, id string) (model.TemplateUsage, error) {
	return templateUsage(ctx, p.pool, id)
}

type querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func templateUsage(ctx context.Context, q querier, id string) (model.TemplateUsage, error) {
	u := model.TemplateUsage{TemplateID: id}
	if err := q.QueryRow(ctx, `SELECT count(*) FROM groups WHERE template_id = $1`, id).Scan(&u.Groups); err != nil {
		return u, fmt.Errorf("count template usage: %w", err)
	}
	return u, nil
}

// SaveTemplate validates t and inserts or updates it. A new id is assigned
// when t.ID is empty.
func (p *Postgres) SaveTemplate(ctx context.Context, t *model.Template) error {
	if err := t.Validate(); err != nil {
		return err
	}
	if bc, ok := t.Content.(model.BlockContent); ok {
		if err := render.ValidateBlocks(bc.Blocks); err != nil {
			return err
		}
	}
	if t.ID == "" {
		t.ID = uuid.NewString()
	}

	r := t.Record()
	var blocks any
	if r.IsBlockBased {
		blocks = r.Blocks
	}

	err := p.pool.QueryRow(ctx, `
		INSERT INTO templates (id, name, subject, body, html_body, blocks, is_html, is_block_based)
		VALUES ($1, $2, $3, nullif($4, ''), nullif($5, ''), $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			name = excluded.name,
			subject = excluded.subject,
			body = excluded.body,
			html_body = excluded.html_body,
			blocks = excluded.blocks,
			is_html = excluded.is_html,
			is_block_based = excluded.is_block_based,
			updated_at = now()
		RETURNING created_at, updated_at`,
		t.ID, r.Name, r.Subject, r.Body, r.HTMLBody, blocks, r.IsHTML, r.IsBlockBased,
	).Scan(&t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return fmt.Errorf("save template: %w", err)
	}

	_ = p.templates.Forget(ctx, t.ID)
	return nil
}

// DeleteTemplate removes a template that no group references. It returns
// model.ErrTemplateInUse otherwise.
func (p *Postgres) DeleteTemplate(ctx context.Context, id string) error {
	if err := checkID("template", id); err != nil {
		return err
	}
	err := db.WithTx(ctx, p.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `SELECT id FROM templates WHERE id = $1 FOR UPDATE`, id); err != nil {
			return fmt.Errorf("lock template: %w", err)
		}
		usage, err := templateUsage(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := usage.CheckDeletable(); err != nil {
			return err
		}
		tag, err := tx.Exec(ctx, `DELETE FROM templates WHERE id = $1`, id)
		if err != nil {
			return fmt.Errorf("delete template: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return fmt.Errorf("%w: template %s", dispatch.ErrNotFound, id)
		}
		return nil
	})
	if err != nil {
		return err
	}
	_ = p.templates.Forget(ctx, id)
	return nil
}

func scanSchedule(row pgx.CollectableRow) (model.Schedule, error) {
	var s model.Schedule
	err := row.Scan(&s.ID, &s.RecipientID, &s.TemplateID, &s.Type,
		&s.DayOfMonth, &s.IntervalDays, &s.NextSendDate, &s.LastSentDate, &s.Active)
	return s, err
}

func scanRecipient(row pgx.CollectableRow) (model.Recipient, error) {
	var r model.Recipient
	err := row.Scan(&r.ID, &r.Name, &r.Email, &r.Service, &r.ReferenceDate, &r.NextOccurrence,
		&r.CustomVariables, &r.GroupID, &r.Active)
	return r, err
}

// checkID rejects ids that are not UUIDs before they reach the database,
// where they would fail with a cast error instead of a miss.
func checkID(what, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("%w: %s %q", dispatch.ErrNotFound, what, id)
	}
	return nil
}

func notFound(err error, what, id string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("%w: %s %s", dispatch.ErrNotFound, what, id)
	}
	return fmt.Errorf("get %s: %w", what, err)
}
