package event

import (
	"github.com/go-playground/validator/v10"

	"github.com/jamesdoliver/minimusiker-sub007/core"
	"github.com/jamesdoliver/minimusiker-sub007/core/timeline"
)

var (
	unknownThresholdTag  = "unknownthreshold"
	unknownThresholdText = "unknown threshold key"

	unknownMilestoneTag  = "unknownmilestone"
	unknownMilestoneText = "unknown milestone"
)

func init() {
	core.Validate.RegisterStructValidation(settingsUpdateStructValidation, SettingsUpdate{})
	core.RegisterCustomTranslation(unknownThresholdTag, unknownThresholdText)
	core.RegisterCustomTranslation(unknownMilestoneTag, unknownMilestoneText)
}

// settingsUpdateStructValidation rejects override keys that do not name a
// known threshold or milestone. Stored blobs tolerate unknown keys; the edit
// API does not, so typos surface to the settings UI instead of being dropped.
func settingsUpdateStructValidation(sl validator.StructLevel) {
	su, ok := sl.Current().Interface().(SettingsUpdate)
	if !ok {
		return
	}
	for key := range su.Thresholds {
		if !timeline.IsThresholdKey(key) {
			sl.ReportError(su.Thresholds, "thresholds."+key, "Thresholds", unknownThresholdTag, "")
		}
	}
	for name := range su.Milestones {
		if !timeline.IsMilestone(name) {
			sl.ReportError(su.Milestones, "milestones."+name, "Milestones", unknownMilestoneTag, "")
		}
	}
}
