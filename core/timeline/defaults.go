package timeline

import "sort"

// ThresholdKey identifies a single scalar day-offset policy.
//
// Sign convention: values counting "days before the event" are positive;
// cutoffs counting "days after the event" are stored negative (their display
// form is the absolute value — a presentation concern, not handled here).
type ThresholdKey string

const (
	ThresholdEarlyBirdDeadlineDays          ThresholdKey = "early_bird_deadline_days"
	ThresholdPersonalizedClothingCutoffDays ThresholdKey = "personalized_clothing_cutoff_days"
	ThresholdSchulsongClothingCutoffDays    ThresholdKey = "schulsong_clothing_cutoff_days"
	ThresholdMerchandiseDeadlineDays        ThresholdKey = "merchandise_deadline_days"
	ThresholdPreviewAvailableDays           ThresholdKey = "preview_available_days"
	ThresholdFullReleaseDays                ThresholdKey = "full_release_days"
	ThresholdClothingOrderDayOffset         ThresholdKey = "clothing_order_day_offset"
	ThresholdClothingVisibilityWindowDays   ThresholdKey = "clothing_visibility_window_days"
)

var thresholdDefaults = map[ThresholdKey]int{
	ThresholdEarlyBirdDeadlineDays:          19,
	ThresholdPersonalizedClothingCutoffDays: -4,
	ThresholdSchulsongClothingCutoffDays:    -14,
	ThresholdMerchandiseDeadlineDays:        -21,
	ThresholdPreviewAvailableDays:           -7,
	ThresholdFullReleaseDays:                -14,
	ThresholdClothingOrderDayOffset:         0,
	ThresholdClothingVisibilityWindowDays:   30,
}

// DefaultThreshold returns the canonical default for key. The table is total
// over all enumerated keys.
func DefaultThreshold(key ThresholdKey) int {
	return thresholdDefaults[key]
}

// IsThresholdKey reports whether key names a known threshold.
func IsThresholdKey(key string) bool {
	_, ok := thresholdDefaults[ThresholdKey(key)]
	return ok
}

// ThresholdKeys returns all known threshold keys in stable (lexical) order.
func ThresholdKeys() []ThresholdKey {
	keys := make([]ThresholdKey, 0, len(thresholdDefaults))
	for k := range thresholdDefaults {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// Milestone identifies a point in an event's lifecycle. Offsets are days
// relative to the event date: negative = before, positive = after.
type Milestone string

const (
	MilestoneBookingConfirmed     Milestone = "BOOKING_CONFIRMED"
	MilestonePortalOpens          Milestone = "PORTAL_OPENS"
	MilestoneInfoMaterialSent     Milestone = "INFO_MATERIAL_SENT"
	MilestoneSongSelectionDue     Milestone = "SONG_SELECTION_DUE"
	MilestoneRehearsalStart       Milestone = "REHEARSAL_START"
	MilestoneEarlyBirdEnds        Milestone = "EARLY_BIRD_ENDS"
	MilestoneTshirtOrderDeadline  Milestone = "TSHIRT_ORDER_DEADLINE"
	MilestoneFinalScheduleSent    Milestone = "FINAL_SCHEDULE_SENT"
	MilestoneEquipmentCheck       Milestone = "EQUIPMENT_CHECK"
	MilestoneEventDay             Milestone = "EVENT_DAY"
	MilestoneAudioPreviewReady    Milestone = "AUDIO_PREVIEW_READY"
	MilestoneFullRelease          Milestone = "FULL_RELEASE"
	MilestoneMerchandiseCloses    Milestone = "MERCHANDISE_CLOSES"
	MilestonePortalCloses         Milestone = "PORTAL_CLOSES"
)

var milestoneOffsets = map[Milestone]int{
	MilestoneBookingConfirmed:    -56,
	MilestonePortalOpens:         -49,
	MilestoneInfoMaterialSent:    -42,
	MilestoneSongSelectionDue:    -35,
	MilestoneRehearsalStart:      -28,
	MilestoneEarlyBirdEnds:       -19,
	MilestoneTshirtOrderDeadline: -12,
	MilestoneFinalScheduleSent:   -7,
	MilestoneEquipmentCheck:      -1,
	MilestoneEventDay:            0,
	MilestoneAudioPreviewReady:   7,
	MilestoneFullRelease:         14,
	MilestoneMerchandiseCloses:   21,
	MilestonePortalCloses:        30,
}

var milestoneLabels = map[Milestone]string{
	MilestoneBookingConfirmed:    "Booking confirmed",
	MilestonePortalOpens:         "Teacher portal opens",
	MilestoneInfoMaterialSent:    "Info material sent",
	MilestoneSongSelectionDue:    "Song selection due",
	MilestoneRehearsalStart:      "Rehearsals start",
	MilestoneEarlyBirdEnds:       "Early-bird pricing ends",
	MilestoneTshirtOrderDeadline: "T-shirt order deadline",
	MilestoneFinalScheduleSent:   "Final schedule sent",
	MilestoneEquipmentCheck:      "Equipment check",
	MilestoneEventDay:            "Event day",
	MilestoneAudioPreviewReady:   "Audio preview ready",
	MilestoneFullRelease:         "Full release",
	MilestoneMerchandiseCloses:   "Merchandise shop closes",
	MilestonePortalCloses:        "Parent portal closes",
}

// DefaultMilestoneOffset returns the canonical default day-offset for m. The
// table is total over all enumerated milestones.
func DefaultMilestoneOffset(m Milestone) int {
	return milestoneOffsets[m]
}

// Label returns a human-readable label for m.
func (m Milestone) Label() string {
	return milestoneLabels[m]
}

// IsMilestone reports whether name names a known milestone.
func IsMilestone(name string) bool {
	_, ok := milestoneOffsets[Milestone(name)]
	return ok
}

// Milestones returns all lifecycle milestones sorted by ascending default
// offset (earliest lifecycle point first).
func Milestones() []Milestone {
	ms := make([]Milestone, 0, len(milestoneOffsets))
	for m := range milestoneOffsets {
		ms = append(ms, m)
	}
	sort.Slice(ms, func(i, j int) bool { return milestoneOffsets[ms[i]] < milestoneOffsets[ms[j]] })
	return ms
}
