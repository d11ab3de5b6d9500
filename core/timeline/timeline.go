package timeline

import (
	"errors"
	"sort"
	"time"
)

var (
	ErrInvalidDate = errors.New("invalid event date")

	nowFunc = time.Now // mockable
)

// Phase is an event's lifecycle phase relative to "today".
type Phase string

const (
	PhasePreEvent  Phase = "pre-event"
	PhaseEventDay  Phase = "event-day"
	PhasePostEvent Phase = "post-event"
)

// Fixed engagement window bounds, in days relative to the event. These are
// deliberately NOT wired to the resolved BOOKING_CONFIRMED/PORTAL_CLOSES
// offsets: a per-event milestone override does not move this window.
const (
	portalWindowOpenDays  = 56
	portalWindowCloseDays = 30
)

// Info is a computed snapshot of an event's timeline for one
// (event date, now) pair. It is derived on demand and never stored.
type Info struct {
	DaysUntilEvent     int         `json:"days_until_event"`
	DaysFromEvent      int         `json:"days_from_event"`
	Phase              Phase       `json:"phase"`
	CurrentMilestone   Milestone   `json:"current_milestone,omitempty"`
	NextMilestone      Milestone   `json:"next_milestone,omitempty"`
	PassedMilestones   []Milestone `json:"passed_milestones"`
	UpcomingMilestones []Milestone `json:"upcoming_milestones"`
	WithinPortalWindow bool        `json:"within_portal_window"`
}

// eventDateLayouts accepted by ParseEventDate, most specific first.
var eventDateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ParseEventDate parses an event date as stored externally. Unlike override
// blobs, an unparseable date is an explicit error: letting it through would
// silently make every eligibility check answer false.
func ParseEventDate(s string) (time.Time, error) {
	for _, layout := range eventDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, ErrInvalidDate
}

// startOfDay truncates t to midnight of its civil date, re-anchored in UTC so
// that day counting is calendar-day-exact even across DST transitions.
func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// endOfDay pins t to 23:59:59.999 of its civil date, in t's own location.
func endOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, int(999*time.Millisecond), t.Location())
}

// DaysUntilEventAt returns the signed number of calendar days from now to
// eventDate: positive = event in the future, zero = today, negative = passed.
// Both instants are truncated to midnight first, so the count is
// calendar-day-exact rather than elapsed-24h-periods.
func DaysUntilEventAt(eventDate, now time.Time) int {
	return int(startOfDay(eventDate).Sub(startOfDay(now)) / (24 * time.Hour))
}

func DaysUntilEvent(eventDate time.Time) int {
	return DaysUntilEventAt(eventDate, nowFunc())
}

// MilestoneDate returns the event date shifted by m's resolved offset.
func MilestoneDate(eventDate time.Time, m Milestone, o *Overrides) time.Time {
	return eventDate.AddDate(0, 0, ResolveMilestoneOffset(m, o))
}

// IsMilestonePassed reports whether m's target day is strictly before today.
func IsMilestonePassed(eventDate time.Time, m Milestone, o *Overrides) bool {
	return IsMilestonePassedAt(eventDate, m, o, nowFunc())
}

func IsMilestonePassedAt(eventDate time.Time, m Milestone, o *Overrides, now time.Time) bool {
	return DaysUntilEventAt(eventDate, now)+ResolveMilestoneOffset(m, o) < 0
}

// IsWithinMilestoneWindow reports whether m is upcoming within windowDays
// from today. An already-passed milestone is never within the window.
func IsWithinMilestoneWindow(eventDate time.Time, m Milestone, windowDays int, o *Overrides) bool {
	return IsWithinMilestoneWindowAt(eventDate, m, windowDays, o, nowFunc())
}

func IsWithinMilestoneWindowAt(eventDate time.Time, m Milestone, windowDays int, o *Overrides, now time.Time) bool {
	daysToMilestone := DaysUntilEventAt(eventDate, now) + ResolveMilestoneOffset(m, o)
	if daysToMilestone < 0 {
		return false
	}
	return daysToMilestone <= windowDays
}

// ComputeTimeline derives the full timeline snapshot for eventDate.
//
// Milestones are walked in ascending resolved-offset order. Each falls in
// exactly one of passed/upcoming, except the milestone landing exactly on
// today: it becomes CurrentMilestone AND is appended to PassedMilestones —
// a milestone reached today counts as achieved.
func ComputeTimeline(eventDate time.Time, o *Overrides) Info {
	return ComputeTimelineAt(eventDate, o, nowFunc())
}

func ComputeTimelineAt(eventDate time.Time, o *Overrides, now time.Time) Info {
	daysUntil := DaysUntilEventAt(eventDate, now)

	info := Info{
		DaysUntilEvent:     daysUntil,
		DaysFromEvent:      abs(daysUntil),
		PassedMilestones:   []Milestone{},
		UpcomingMilestones: []Milestone{},
	}
	switch {
	case daysUntil > 0:
		info.Phase = PhasePreEvent
	case daysUntil == 0:
		info.Phase = PhaseEventDay
	default:
		info.Phase = PhasePostEvent
	}

	for _, m := range milestonesByResolvedOffset(o) {
		daysToMilestone := daysUntil + ResolveMilestoneOffset(m, o)
		switch {
		case daysToMilestone < 0:
			info.PassedMilestones = append(info.PassedMilestones, m)
		case daysToMilestone == 0:
			info.CurrentMilestone = m
			info.PassedMilestones = append(info.PassedMilestones, m)
		default:
			if info.NextMilestone == "" {
				info.NextMilestone = m
			}
			info.UpcomingMilestones = append(info.UpcomingMilestones, m)
		}
	}

	info.WithinPortalWindow = daysUntil <= portalWindowOpenDays && daysUntil >= -portalWindowCloseDays
	return info
}

// milestonesByResolvedOffset sorts all milestones by their effective offset,
// so overridden milestones keep their lifecycle position in the walk.
func milestonesByResolvedOffset(o *Overrides) []Milestone {
	ms := Milestones()
	if o == nil || len(o.milestones) == 0 {
		return ms
	}
	sort.SliceStable(ms, func(i, j int) bool {
		return ResolveMilestoneOffset(ms[i], o) < ResolveMilestoneOffset(ms[j], o)
	})
	return ms
}

// CanOrderPersonalizedClothing reports whether personalized clothing can
// still be ordered: any time before the event through |cutoffDays| days after
// it (cutoffDays is negative, boundary inclusive). There is no pre-event
// bound. A zero eventDate means no event is scheduled yet: always false.
//
// This is deliberately distinct from CanOrderPersonalizedProducts, which is a
// hard pre-event milestone cutoff; call sites rely on the difference.
func CanOrderPersonalizedClothing(eventDate time.Time, cutoffDays ...int) bool {
	return CanOrderPersonalizedClothingAt(eventDate, nowFunc(), cutoffDays...)
}

func CanOrderPersonalizedClothingAt(eventDate, now time.Time, cutoffDays ...int) bool {
	if eventDate.IsZero() {
		return false
	}
	cutoff := DefaultThreshold(ThresholdPersonalizedClothingCutoffDays)
	if len(cutoffDays) > 0 {
		cutoff = cutoffDays[0]
	}
	return DaysUntilEventAt(eventDate, now) >= cutoff
}

// CanOrderPersonalizedProducts reports whether the hard pre-event product
// order deadline has not passed yet.
func CanOrderPersonalizedProducts(eventDate time.Time, o *Overrides) bool {
	return CanOrderPersonalizedProductsAt(eventDate, o, nowFunc())
}

func CanOrderPersonalizedProductsAt(eventDate time.Time, o *Overrides, now time.Time) bool {
	if eventDate.IsZero() {
		return false
	}
	return !IsMilestonePassedAt(eventDate, MilestoneTshirtOrderDeadline, o, now)
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
