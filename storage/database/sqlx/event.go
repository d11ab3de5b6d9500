package sqlxrepos

import (
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/volatiletech/null/v8"

	"github.com/jamesdoliver/minimusiker-sub007/core/event"
)

type eventRow struct {
	ID             string      `db:"id"`
	SchoolName     string      `db:"school_name"`
	ClassName      string      `db:"class_name"`
	TeacherName    string      `db:"teacher_name"`
	ContactEmail   string      `db:"contact_email"`
	EventDate      null.Time   `db:"event_date"`
	Settings       null.String `db:"settings"`
	AudioReleaseAt null.Time   `db:"audio_release_at"`
	CreatedAt      time.Time   `db:"created_at"`
	UpdatedAt      time.Time   `db:"updated_at"`
}

func (r eventRow) toEvent() event.Event {
	return event.Event{
		ID:             r.ID,
		SchoolName:     r.SchoolName,
		ClassName:      r.ClassName,
		TeacherName:    r.TeacherName,
		ContactEmail:   r.ContactEmail,
		EventDate:      r.EventDate,
		Settings:       r.Settings,
		AudioReleaseAt: r.AudioReleaseAt,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
}

func toRow(evt event.Event) eventRow {
	return eventRow{
		ID:             evt.ID,
		SchoolName:     evt.SchoolName,
		ClassName:      evt.ClassName,
		TeacherName:    evt.TeacherName,
		ContactEmail:   evt.ContactEmail,
		EventDate:      evt.EventDate,
		Settings:       evt.Settings,
		AudioReleaseAt: evt.AudioReleaseAt,
		CreatedAt:      evt.CreatedAt,
		UpdatedAt:      evt.UpdatedAt,
	}
}

type eventRepository struct {
	db *sqlx.DB
}

var _ event.Repository = (*eventRepository)(nil) // interface compliance check

func NewEventRepository(db *sqlx.DB) event.Repository {
	return &eventRepository{db: db}
}

func (repo *eventRepository) CreateEvent(evt event.Event) (event.Event, error) {
	_, err := repo.db.NamedExec(`
		INSERT INTO "event" (id, school_name, class_name, teacher_name, contact_email,
		                     event_date, settings, audio_release_at, created_at, updated_at)
		VALUES (:id, :school_name, :class_name, :teacher_name, :contact_email,
		        :event_date, :settings, :audio_release_at, :created_at, :updated_at)`,
		toRow(evt),
	)
	if err != nil {
		return event.Event{}, errors.Wrap(err, "creating event")
	}
	return evt, nil
}

func (repo *eventRepository) QueryAllEvents() ([]event.Event, error) {
	var rows []eventRow
	if err := repo.db.Select(&rows, `SELECT * FROM "event" ORDER BY created_at`); err != nil {
		return nil, errors.Wrap(err, "querying events")
	}
	events := make([]event.Event, 0, len(rows))
	for _, r := range rows {
		events = append(events, r.toEvent())
	}
	return events, nil
}

func (repo *eventRepository) GetEventByID(id string) (event.Event, error) {
	var row eventRow
	err := repo.db.Get(&row, `SELECT * FROM "event" WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return event.Event{}, event.ErrNotFound
	}
	if err != nil {
		return event.Event{}, errors.Wrap(err, "getting event")
	}
	return row.toEvent(), nil
}

func (repo *eventRepository) QueryEventsWithDateBetween(from, to time.Time) ([]event.Event, error) {
	var rows []eventRow
	err := repo.db.Select(&rows, `
		SELECT * FROM "event"
		WHERE event_date IS NOT NULL AND event_date BETWEEN $1 AND $2
		ORDER BY event_date`,
		from, to,
	)
	if err != nil {
		return nil, errors.Wrap(err, "querying events by date")
	}
	events := make([]event.Event, 0, len(rows))
	for _, r := range rows {
		events = append(events, r.toEvent())
	}
	return events, nil
}

func (repo *eventRepository) UpdateEvent(evt event.Event) (event.Event, error) {
	res, err := repo.db.NamedExec(`
		UPDATE "event"
		SET school_name = :school_name, class_name = :class_name,
		    teacher_name = :teacher_name, contact_email = :contact_email,
		    event_date = :event_date, settings = :settings,
		    audio_release_at = :audio_release_at, updated_at = :updated_at
		WHERE id = :id`,
		toRow(evt),
	)
	if err != nil {
		return event.Event{}, errors.Wrap(err, "updating event")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return event.Event{}, event.ErrNotFound
	}
	return evt, nil
}
