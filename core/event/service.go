package event

import (
	"context"
	"time"

	"github.com/pkg/errors"

	"github.com/kmande/chuo/core/user"
)

var ErrNotFound = errors.New("event not found")

type (
	Repository interface {
		CreateEvent(ctx context.Context, evt Event) (Event, error)
		// QueryEvents returns events ordered by start date (soonest first)
		// with their RSVP counts but without attendee lists.
		QueryEvents(ctx context.Context) ([]Event, error)
		// GetEvent returns one event with attachments and the full RSVP list.
		GetEvent(ctx context.Context, id string) (Event, error)
		// UpsertRSVP creates or updates the (event, user) RSVP row.
		UpsertRSVP(ctx context.Context, rsvp RSVP) (RSVP, error)
	}

	ServiceInterface interface {
		Create(ctx context.Context, ne NewEvent, creator user.User) (Event, error)
		QueryAll(ctx context.Context) ([]Event, error)
		GetByID(ctx context.Context, id string) (Event, error)
		RSVP(ctx context.Context, eventID string, usr user.User, status string) (RSVP, error)
	}

	service struct {
		repo Repository
	}
)

var _ ServiceInterface = (*service)(nil)

func NewService(repo Repository) ServiceInterface {
	return &service{repo: repo}
}

func (svc *service) Create(ctx context.Context, ne NewEvent, creator user.User) (Event, error) {
	attachments := make([]Attachment, 0, len(ne.Attachments))
	for _, na := range ne.Attachments {
		attachments = append(attachments, Attachment{Name: na.Name, URL: na.URL, Type: na.Type})
	}
	evt := Event{
		Title:       ne.Title,
		Description: ne.Description,
		Category:    ne.Category,
		Department:  ne.Department,
		Venue:       ne.Venue,
		StartDate:   ne.StartDate.UTC(),
		EndDate:     ne.EndDate.UTC(),
		Capacity:    ne.Capacity,
		Attachments: attachments,
		CreatedBy:   creator.Profile(),
		CreatedAt:   time.Now().UTC(),
	}
	return svc.repo.CreateEvent(ctx, evt)
}

func (svc *service) QueryAll(ctx context.Context) ([]Event, error) {
	return svc.repo.QueryEvents(ctx)
}

func (svc *service) GetByID(ctx context.Context, id string) (Event, error) {
	return svc.repo.GetEvent(ctx, id)
}

// RSVP upserts the caller's attendance status; re-submitting replaces the
// previous status rather than erroring.
func (svc *service) RSVP(ctx context.Context, eventID string, usr user.User, status string) (RSVP, error) {
	if _, err := svc.repo.GetEvent(ctx, eventID); err != nil {
		return RSVP{}, err
	}
	rsvp := RSVP{
		EventID:   eventID,
		User:      usr.Profile(),
		Status:    status,
		UpdatedAt: time.Now().UTC(),
	}
	return svc.repo.UpsertRSVP(ctx, rsvp)
}
