package dummydb

import (
	"sort"
	"time"

	"github.com/jamesdoliver/minimusiker-sub007/core/event"
)

type eventRepository struct {
	db *eventTable
}

var _ event.Repository = (*eventRepository)(nil) // interface compliance check

func NewEventRepository(db *DB) event.Repository {
	return &eventRepository{db: db.event}
}

func (repo *eventRepository) query() []event.Event {
	events := make([]event.Event, 0, len(repo.db.table))
	for _, evt := range repo.db.table {
		events = append(events, *evt)
	}
	sort.Slice(events, func(i, j int) bool { return events[i].CreatedAt.Before(events[j].CreatedAt) })
	return events
}

func (repo *eventRepository) CreateEvent(evt event.Event) (event.Event, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	repo.db.table[evt.ID] = &evt
	return evt, nil
}

func (repo *eventRepository) QueryAllEvents() ([]event.Event, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()
	return repo.query(), nil
}

func (repo *eventRepository) GetEventByID(id string) (event.Event, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if evt, ok := repo.db.table[id]; ok {
		return *evt, nil
	}
	return event.Event{}, event.ErrNotFound
}

func (repo *eventRepository) QueryEventsWithDateBetween(from, to time.Time) ([]event.Event, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	var events []event.Event
	for _, evt := range repo.query() {
		if !evt.EventDate.Valid {
			continue
		}
		date := evt.EventDate.Time
		if !date.Before(from) && !date.After(to) {
			events = append(events, evt)
		}
	}
	return events, nil
}

func (repo *eventRepository) UpdateEvent(evt event.Event) (event.Event, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.table[evt.ID]; !ok {
		return event.Event{}, event.ErrNotFound
	}
	repo.db.table[evt.ID] = &evt
	return evt, nil
}
