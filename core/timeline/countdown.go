package timeline

import "time"

// Countdown is the positive remaining time to a deadline, decomposed for
// display. A nil *Countdown means the deadline has already passed.
type Countdown struct {
	Days    int `json:"days"`
	Hours   int `json:"hours"`
	Minutes int `json:"minutes"`
	Seconds int `json:"seconds"`
}

const (
	msPerDay    = 24 * 60 * 60 * 1000
	msPerHour   = 60 * 60 * 1000
	msPerMinute = 60 * 1000
	msPerSecond = 1000
)

func newCountdown(deadline, now time.Time) *Countdown {
	diff := deadline.Sub(now).Milliseconds()
	if diff < 0 {
		return nil
	}
	return &Countdown{
		Days:    int(diff / msPerDay),
		Hours:   int(diff % msPerDay / msPerHour),
		Minutes: int(diff % msPerHour / msPerMinute),
		Seconds: int(diff % msPerMinute / msPerSecond),
	}
}

// EarlyBirdCountdown counts down to the end (23:59:59.999) of the early-bird
// deadline day. Nil once the deadline is behind "now" or no date is set.
func EarlyBirdCountdown(eventDate time.Time, o *Overrides) *Countdown {
	return EarlyBirdCountdownAt(eventDate, o, nowFunc())
}

func EarlyBirdCountdownAt(eventDate time.Time, o *Overrides, now time.Time) *Countdown {
	if eventDate.IsZero() {
		return nil
	}
	days := ResolveThreshold(ThresholdEarlyBirdDeadlineDays, o)
	return newCountdown(endOfDay(eventDate.AddDate(0, 0, -days)), now)
}

// SchulsongClothingCountdown counts down to the end of the Schulsong clothing
// order window, which extends past the event (the cutoff is stored negative).
func SchulsongClothingCountdown(eventDate time.Time, o *Overrides) *Countdown {
	return SchulsongClothingCountdownAt(eventDate, o, nowFunc())
}

func SchulsongClothingCountdownAt(eventDate time.Time, o *Overrides, now time.Time) *Countdown {
	if eventDate.IsZero() {
		return nil
	}
	days := ResolveThreshold(ThresholdSchulsongClothingCutoffDays, o)
	return newCountdown(endOfDay(eventDate.AddDate(0, 0, -days)), now)
}

// PersonalizedProductCountdown counts down to the hard product order
// deadline. Unlike the two countdowns above it is not pinned to end of day:
// the deadline instant is the shifted event date itself.
func PersonalizedProductCountdown(eventDate time.Time, o *Overrides) *Countdown {
	return PersonalizedProductCountdownAt(eventDate, o, nowFunc())
}

func PersonalizedProductCountdownAt(eventDate time.Time, o *Overrides, now time.Time) *Countdown {
	if eventDate.IsZero() {
		return nil
	}
	return newCountdown(MilestoneDate(eventDate, MilestoneTshirtOrderDeadline, o), now)
}
