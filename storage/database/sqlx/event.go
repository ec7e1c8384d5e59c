package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/kmande/chuo/core/event"
)

type eventRow struct {
	ID          string     `db:"id"`
	Title       string     `db:"title"`
	Description string     `db:"description"`
	Category    string     `db:"category"`
	Department  string     `db:"department"`
	Venue       string     `db:"venue"`
	StartDate   time.Time  `db:"start_date"`
	EndDate     null.Time  `db:"end_date"`
	Capacity    int        `db:"capacity"`
	CreatedAt   time.Time  `db:"created_at"`
	RSVPCount   int        `db:"rsvp_count"`
	CreatedBy   profileRow `db:"created_by"`
}

type attachmentRow struct {
	ID      string `db:"id"`
	EventID string `db:"event_id"`
	Name    string `db:"name"`
	URL     string `db:"url"`
	Type    string `db:"type"`
}

type rsvpRow struct {
	EventID   string     `db:"event_id"`
	Status    string     `db:"status"`
	UpdatedAt time.Time  `db:"updated_at"`
	User      profileRow `db:"user"`
}

func (r eventRow) event() event.Event {
	return event.Event{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		Category:    r.Category,
		Department:  r.Department,
		Venue:       r.Venue,
		StartDate:   r.StartDate,
		EndDate:     r.EndDate.Time,
		Capacity:    r.Capacity,
		CreatedBy:   r.CreatedBy.profile(),
		CreatedAt:   r.CreatedAt,
		RSVPCount:   r.RSVPCount,
	}
}

func (r rsvpRow) rsvp() event.RSVP {
	return event.RSVP{
		EventID:   r.EventID,
		User:      r.User.profile(),
		Status:    r.Status,
		UpdatedAt: r.UpdatedAt,
	}
}

const eventSelect = `
	SELECT e.id, e.title, e.description, e.category, e.department, e.venue,
	       e.start_date, e.end_date, e.capacity, e.created_at,
	       (SELECT COUNT(*) FROM event_rsvp r WHERE r.event_id = e.id) AS rsvp_count,
	       u.id AS "created_by.id", u.name AS "created_by.name", u.email AS "created_by.email",
	       u.role AS "created_by.role", u.avatar AS "created_by.avatar"
	FROM event e
	         JOIN identity u ON u.id = e.created_by`

type eventRepository struct {
	db *sqlx.DB
}

var _ event.Repository = (*eventRepository)(nil) // interface compliance check

func NewEventRepository(db *sqlx.DB) event.Repository {
	return &eventRepository{db: db}
}

func (repo *eventRepository) CreateEvent(ctx context.Context, evt event.Event) (event.Event, error) {
	if evt.ID == "" {
		evt.ID = uuid.NewString()
	}

	tx, err := repo.db.BeginTxx(ctx, nil)
	if err != nil {
		return event.Event{}, errors.Wrap(err, "creating event")
	}
	defer func() { _ = tx.Rollback() }()

	var endDate interface{}
	if !evt.EndDate.IsZero() {
		endDate = evt.EndDate
	}
	query := `
		INSERT INTO event (id, title, description, category, department, venue, start_date, end_date, capacity, created_by, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`
	_, err = tx.ExecContext(ctx, query,
		evt.ID, evt.Title, evt.Description, evt.Category, evt.Department, evt.Venue,
		evt.StartDate, endDate, evt.Capacity, evt.CreatedBy.ID, evt.CreatedAt,
	)
	if err != nil {
		return event.Event{}, errors.Wrap(err, "creating event")
	}

	for i := range evt.Attachments {
		if evt.Attachments[i].ID == "" {
			evt.Attachments[i].ID = uuid.NewString()
		}
		att := evt.Attachments[i]
		_, err = tx.ExecContext(ctx,
			`INSERT INTO event_attachment (id, event_id, name, url, type) VALUES ($1, $2, $3, $4, $5)`,
			att.ID, evt.ID, att.Name, att.URL, att.Type,
		)
		if err != nil {
			return event.Event{}, errors.Wrap(err, "creating event attachment")
		}
	}

	if err = tx.Commit(); err != nil {
		return event.Event{}, errors.Wrap(err, "creating event")
	}
	return evt, nil
}

func (repo *eventRepository) QueryEvents(ctx context.Context) ([]event.Event, error) {
	var rows []eventRow
	if err := repo.db.SelectContext(ctx, &rows, eventSelect+` ORDER BY e.start_date`); err != nil {
		return nil, errors.Wrap(err, "querying events")
	}
	events := make([]event.Event, 0, len(rows))
	for _, row := range rows {
		events = append(events, row.event())
	}
	if err := repo.loadAttachments(ctx, events); err != nil {
		return nil, err
	}
	return events, nil
}

func (repo *eventRepository) GetEvent(ctx context.Context, id string) (event.Event, error) {
	var row eventRow
	if err := repo.db.GetContext(ctx, &row, eventSelect+` WHERE e.id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return event.Event{}, event.ErrNotFound
		}
		return event.Event{}, errors.Wrap(err, "getting event")
	}
	evt := row.event()

	events := []event.Event{evt}
	if err := repo.loadAttachments(ctx, events); err != nil {
		return event.Event{}, err
	}
	evt = events[0]

	var rsvpRows []rsvpRow
	query := `
		SELECT r.event_id, r.status, r.updated_at,
		       u.id AS "user.id", u.name AS "user.name", u.email AS "user.email",
		       u.role AS "user.role", u.avatar AS "user.avatar"
		FROM event_rsvp r
		         JOIN identity u ON u.id = r.identity_id
		WHERE r.event_id = $1
		ORDER BY r.updated_at`
	if err := repo.db.SelectContext(ctx, &rsvpRows, query, id); err != nil {
		return event.Event{}, errors.Wrap(err, "querying event RSVPs")
	}
	for _, r := range rsvpRows {
		evt.RSVPs = append(evt.RSVPs, r.rsvp())
	}
	evt.RSVPCount = len(evt.RSVPs)
	return evt, nil
}

func (repo *eventRepository) UpsertRSVP(ctx context.Context, rsvp event.RSVP) (event.RSVP, error) {
	query := `
		INSERT INTO event_rsvp (event_id, identity_id, status, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (event_id, identity_id) DO UPDATE SET status = EXCLUDED.status, updated_at = EXCLUDED.updated_at`
	_, err := repo.db.ExecContext(ctx, query, rsvp.EventID, rsvp.User.ID, rsvp.Status, rsvp.UpdatedAt)
	if err != nil {
		return event.RSVP{}, errors.Wrap(err, "saving RSVP")
	}
	return rsvp, nil
}

func (repo *eventRepository) loadAttachments(ctx context.Context, events []event.Event) error {
	if len(events) == 0 {
		return nil
	}
	ids := make([]string, 0, len(events))
	for _, evt := range events {
		ids = append(ids, evt.ID)
	}

	query, args, err := sqlx.In(`SELECT id, event_id, name, url, type FROM event_attachment WHERE event_id IN (?)`, ids)
	if err != nil {
		return errors.Wrap(err, "querying event attachments")
	}
	var rows []attachmentRow
	if err = repo.db.SelectContext(ctx, &rows, repo.db.Rebind(query), args...); err != nil {
		return errors.Wrap(err, "querying event attachments")
	}

	byEvent := make(map[string][]event.Attachment, len(rows))
	for _, row := range rows {
		byEvent[row.EventID] = append(byEvent[row.EventID], event.Attachment{
			ID:   row.ID,
			Name: row.Name,
			URL:  row.URL,
			Type: row.Type,
		})
	}
	for i := range events {
		events[i].Attachments = byEvent[events[i].ID]
	}
	return nil
}
