package event

import (
	"time"

	"github.com/volatiletech/null/v8"

	"github.com/jamesdoliver/minimusiker-sub007/core"
	"github.com/jamesdoliver/minimusiker-sub007/core/timeline"
)

// Event is a booked school event. EventDate is nullable: a booking exists
// before a date is fixed, and date-dependent features stay off until then.
// Settings holds the raw per-event timeline override blob; it is untrusted
// and only ever read through timeline.ParseOverrides.
type Event struct {
	ID             string    `json:"id"`
	SchoolName     string    `json:"school_name"`
	ClassName      string    `json:"class_name"`
	TeacherName    string    `json:"teacher_name"`
	ContactEmail   string    `json:"contact_email"`
	EventDate      null.Time `json:"event_date"`
	Settings       null.String `json:"-"`
	AudioReleaseAt null.Time `json:"audio_release_at"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Overrides parses the stored settings blob; nil means all defaults.
func (evt Event) Overrides() *timeline.Overrides {
	return timeline.ParseOverrides(evt.Settings.String)
}

type NewEvent struct {
	SchoolName   string `json:"school_name" validate:"required"`
	ClassName    string `json:"class_name"`
	TeacherName  string `json:"teacher_name" validate:"required"`
	ContactEmail string `json:"contact_email" validate:"required,email"`
	EventDate    string `json:"event_date"` // optional; parsed with timeline.ParseEventDate
}

func (ne *NewEvent) Validate() error {
	ne.SchoolName = core.CleanString(ne.SchoolName)
	ne.ClassName = core.CleanString(ne.ClassName)
	ne.TeacherName = core.CleanString(ne.TeacherName)
	ne.ContactEmail = core.CleanString(ne.ContactEmail, true /* lower */)
	ne.EventDate = core.CleanString(ne.EventDate)
	return core.Validate.Struct(ne)
}

// SettingsUpdate is the untrusted edit payload for an event's timeline
// overrides. It replaces the stored blob wholesale; values equal to the
// defaults are stripped before persistence.
type SettingsUpdate struct {
	Thresholds     map[string]int `json:"thresholds"`
	Milestones     map[string]int `json:"milestones"`
	TaskOffsets    map[string]int `json:"task_offsets"`
	AudioHidden    bool           `json:"audio_hidden"`
	HiddenProducts []string       `json:"hidden_products"`
}

func (su SettingsUpdate) Validate() error {
	return core.Validate.Struct(su)
}

// overrides builds the typed override record from a validated payload.
func (su SettingsUpdate) overrides() *timeline.Overrides {
	o := timeline.NewOverrides()
	for key, v := range su.Thresholds {
		o.SetThreshold(timeline.ThresholdKey(key), v)
	}
	for name, v := range su.Milestones {
		o.SetMilestoneOffset(timeline.Milestone(name), v)
	}
	for id, v := range su.TaskOffsets {
		o.SetTaskOffset(id, v)
	}
	o.AudioHidden = su.AudioHidden
	o.HiddenProducts = su.HiddenProducts
	return o
}

// ResolvedThreshold is one effective threshold value for the settings UI.
type ResolvedThreshold struct {
	Key        timeline.ThresholdKey `json:"key"`
	Value      int                   `json:"value"`
	Default    int                   `json:"default"`
	Overridden bool                  `json:"overridden"`
}

// ResolvedMilestone is one effective milestone offset for the settings UI.
type ResolvedMilestone struct {
	Milestone  timeline.Milestone `json:"milestone"`
	Label      string             `json:"label"`
	Offset     int                `json:"offset"`
	Default    int                `json:"default"`
	Overridden bool               `json:"overridden"`
}

// Settings is the effective per-event policy view: every key resolved,
// override state included.
type Settings struct {
	Thresholds     []ResolvedThreshold `json:"thresholds"`
	Milestones     []ResolvedMilestone `json:"milestones"`
	TaskOffsets    map[string]int      `json:"task_offsets"`
	AudioHidden    bool                `json:"audio_hidden"`
	HiddenProducts []string            `json:"hidden_products"`
}

// ShopStatus answers the shop's eligibility questions for one event.
// The two clothing answers intentionally use different rules (window past
// the event vs. hard pre-event cutoff).
type ShopStatus struct {
	CanOrderPersonalizedClothing bool                `json:"can_order_personalized_clothing"`
	CanOrderPersonalizedProducts bool                `json:"can_order_personalized_products"`
	EarlyBird                    *timeline.Countdown `json:"early_bird_countdown"`
	SchulsongClothing            *timeline.Countdown `json:"schulsong_clothing_countdown"`
	PersonalizedProduct          *timeline.Countdown `json:"personalized_product_countdown"`
	AudioHidden                  bool                `json:"audio_hidden"`
	HiddenProducts               []string            `json:"hidden_products"`
}
