package timeline

import (
	"time"

	"github.com/jamesdoliver/minimusiker-sub007/core"
)

const releaseHour = 7 // civil time in the release timezone

// ReleaseLocation loads the configured civil timezone for audio releases.
func ReleaseLocation() (*time.Location, error) {
	return time.LoadLocation(core.Conf.GetString("releaseTimezone"))
}

// ComputeScheduledReleaseDate returns the next workday at 07:00 civil time in
// loc, as an absolute instant. It always advances to at least the following
// calendar day (never releases same-day); Saturday rolls to Monday, Sunday
// rolls to Monday. Civil-to-absolute conversion goes through loc, so the
// result honors DST transitions rather than assuming a fixed UTC offset.
func ComputeScheduledReleaseDate(from time.Time, loc *time.Location) time.Time {
	day := from.In(loc).AddDate(0, 0, 1)
	switch day.Weekday() {
	case time.Saturday:
		day = day.AddDate(0, 0, 2)
	case time.Sunday:
		day = day.AddDate(0, 0, 1)
	}
	y, m, d := day.Date()
	return time.Date(y, m, d, releaseHour, 0, 0, 0, loc)
}
