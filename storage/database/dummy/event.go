package dummydb

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/kmande/chuo/core/event"
)

type eventRepository struct {
	db *eventTable
}

var _ event.Repository = (*eventRepository)(nil) // interface compliance check

func NewEventRepository(db *DB) event.Repository {
	return &eventRepository{db: db.event}
}

func (repo *eventRepository) CreateEvent(ctx context.Context, evt event.Event) (event.Event, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if evt.ID == "" {
		evt.ID = uuid.NewString()
	}
	for i := range evt.Attachments {
		if evt.Attachments[i].ID == "" {
			evt.Attachments[i].ID = uuid.NewString()
		}
	}
	repo.db.table[evt.ID] = &evt
	return evt, nil
}

func (repo *eventRepository) QueryEvents(ctx context.Context) ([]event.Event, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	events := make([]event.Event, 0, len(repo.db.table))
	for _, evt := range repo.db.table {
		e := *evt
		e.RSVPCount = len(repo.db.rsvps[e.ID])
		e.RSVPs = nil
		events = append(events, e)
	}
	// soonest first
	sort.Slice(events, func(i, j int) bool { return events[i].StartDate.Before(events[j].StartDate) })
	return events, nil
}

func (repo *eventRepository) GetEvent(ctx context.Context, id string) (event.Event, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	evt, ok := repo.db.table[id]
	if !ok {
		return event.Event{}, event.ErrNotFound
	}
	e := *evt
	for _, rsvp := range repo.db.rsvps[id] {
		e.RSVPs = append(e.RSVPs, *rsvp)
	}
	sort.Slice(e.RSVPs, func(i, j int) bool { return e.RSVPs[i].UpdatedAt.Before(e.RSVPs[j].UpdatedAt) })
	e.RSVPCount = len(e.RSVPs)
	return e, nil
}

func (repo *eventRepository) UpsertRSVP(ctx context.Context, rsvp event.RSVP) (event.RSVP, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[rsvp.EventID]; !ok {
		return event.RSVP{}, event.ErrNotFound
	}
	byUser, ok := repo.db.rsvps[rsvp.EventID]
	if !ok {
		byUser = make(map[string]*event.RSVP)
		repo.db.rsvps[rsvp.EventID] = byUser
	}
	byUser[rsvp.User.ID] = &rsvp
	return rsvp, nil
}
