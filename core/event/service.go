package event

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"

	"github.com/jamesdoliver/minimusiker-sub007/core/timeline"
)

var (
	// errors
	ErrNotFound    = errors.New("event not found")
	ErrNoEventDate = errors.New("event has no date yet")
)

type (
	Repository interface {
		CreateEvent(evt Event) (Event, error)
		QueryAllEvents() ([]Event, error)
		GetEventByID(id string) (Event, error)
		// QueryEventsWithDateBetween returns events whose date lies in [from, to].
		QueryEventsWithDateBetween(from, to time.Time) ([]Event, error)
		UpdateEvent(evt Event) (Event, error)
	}

	Service struct {
		repo Repository
	}
)

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (svc *Service) Create(ne NewEvent) (Event, error) {
	now := time.Now().UTC()
	evt := Event{
		ID:           uuid.New().String(),
		SchoolName:   ne.SchoolName,
		ClassName:    ne.ClassName,
		TeacherName:  ne.TeacherName,
		ContactEmail: ne.ContactEmail,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if ne.EventDate != "" {
		date, err := timeline.ParseEventDate(ne.EventDate)
		if err != nil {
			return Event{}, err
		}
		evt.EventDate = null.TimeFrom(date)
	}
	return svc.repo.CreateEvent(evt)
}

func (svc *Service) QueryAll() ([]Event, error) {
	return svc.repo.QueryAllEvents()
}

// QueryWithDateBetween returns events whose date lies in [from, to].
// A zero bound is open-ended on that side; dateless events never match.
func (svc *Service) QueryWithDateBetween(from, to time.Time) ([]Event, error) {
	if to.IsZero() {
		to = time.Date(9999, time.December, 31, 23, 59, 59, 0, time.UTC)
	}
	return svc.repo.QueryEventsWithDateBetween(from, to)
}

func (svc *Service) GetByID(id string) (Event, error) {
	return svc.repo.GetEventByID(id)
}

// Timeline computes the full timeline snapshot for an event.
func (svc *Service) Timeline(id string) (timeline.Info, error) {
	evt, err := svc.repo.GetEventByID(id)
	if err != nil {
		return timeline.Info{}, err
	}
	if !evt.EventDate.Valid {
		return timeline.Info{}, ErrNoEventDate
	}
	return timeline.ComputeTimeline(evt.EventDate.Time, evt.Overrides()), nil
}

// Settings returns the effective per-event policy: every threshold and
// milestone resolved against the stored overrides.
func (svc *Service) Settings(id string) (Settings, error) {
	evt, err := svc.repo.GetEventByID(id)
	if err != nil {
		return Settings{}, err
	}
	o := evt.Overrides()

	s := Settings{
		TaskOffsets:    o.TaskOffsets(),
		HiddenProducts: []string{},
	}
	if s.TaskOffsets == nil {
		s.TaskOffsets = map[string]int{}
	}
	if o != nil {
		s.AudioHidden = o.AudioHidden
		if o.HiddenProducts != nil {
			s.HiddenProducts = o.HiddenProducts
		}
	}
	for _, key := range timeline.ThresholdKeys() {
		_, overridden := o.Threshold(key)
		s.Thresholds = append(s.Thresholds, ResolvedThreshold{
			Key:        key,
			Value:      timeline.ResolveThreshold(key, o),
			Default:    timeline.DefaultThreshold(key),
			Overridden: overridden,
		})
	}
	for _, m := range timeline.Milestones() {
		_, overridden := o.MilestoneOffset(m)
		s.Milestones = append(s.Milestones, ResolvedMilestone{
			Milestone:  m,
			Label:      m.Label(),
			Offset:     timeline.ResolveMilestoneOffset(m, o),
			Default:    timeline.DefaultMilestoneOffset(m),
			Overridden: overridden,
		})
	}
	return s, nil
}

// UpdateSettings replaces an event's override blob from a validated payload.
// Values equal to the defaults are stripped so the stored blob stays minimal;
// when nothing differs, no blob is stored at all.
func (svc *Service) UpdateSettings(id string, su SettingsUpdate) (Event, error) {
	evt, err := svc.repo.GetEventByID(id)
	if err != nil {
		return Event{}, err
	}

	raw, err := su.overrides().MarshalMinimal()
	if err != nil {
		return Event{}, err
	}
	if raw == "" {
		evt.Settings = null.String{}
	} else {
		evt.Settings = null.StringFrom(raw)
	}
	evt.UpdatedAt = time.Now().UTC()
	return svc.repo.UpdateEvent(evt)
}

// ShopStatus answers the shop's eligibility questions for an event. An event
// without a date reports everything as unavailable rather than erroring.
func (svc *Service) ShopStatus(id string) (ShopStatus, error) {
	evt, err := svc.repo.GetEventByID(id)
	if err != nil {
		return ShopStatus{}, err
	}
	o := evt.Overrides()

	var date time.Time
	if evt.EventDate.Valid {
		date = evt.EventDate.Time
	}

	status := ShopStatus{
		CanOrderPersonalizedClothing: timeline.CanOrderPersonalizedClothing(
			date, timeline.ResolveThreshold(timeline.ThresholdPersonalizedClothingCutoffDays, o)),
		CanOrderPersonalizedProducts: timeline.CanOrderPersonalizedProducts(date, o),
		EarlyBird:                    timeline.EarlyBirdCountdown(date, o),
		SchulsongClothing:            timeline.SchulsongClothingCountdown(date, o),
		PersonalizedProduct:          timeline.PersonalizedProductCountdown(date, o),
		HiddenProducts:               []string{},
	}
	if o != nil {
		status.AudioHidden = o.AudioHidden
		if o.HiddenProducts != nil {
			status.HiddenProducts = o.HiddenProducts
		}
	}
	return status, nil
}

// PlanAudioReleases schedules the audio release for every event whose event
// day has passed and that has no release scheduled yet. The release instant
// is the next workday at 07:00 civil time in loc. Events with hidden audio
// are skipped. Returns the events that were (re)scheduled.
func (svc *Service) PlanAudioReleases(loc *time.Location) ([]Event, error) {
	events, err := svc.repo.QueryAllEvents()
	if err != nil {
		return nil, err
	}

	now := time.Now()
	var planned []Event
	for _, evt := range events {
		if !evt.EventDate.Valid || evt.AudioReleaseAt.Valid {
			continue
		}
		o := evt.Overrides()
		if o != nil && o.AudioHidden {
			continue
		}
		if timeline.DaysUntilEvent(evt.EventDate.Time) >= 0 {
			continue
		}

		evt.AudioReleaseAt = null.TimeFrom(timeline.ComputeScheduledReleaseDate(now, loc))
		evt.UpdatedAt = now.UTC()
		evt, err = svc.repo.UpdateEvent(evt)
		if err != nil {
			return planned, err
		}
		planned = append(planned, evt)
	}
	return planned, nil
}
