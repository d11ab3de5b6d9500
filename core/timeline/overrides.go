package timeline

import (
	"encoding/json"
	"math"

	"github.com/jamesdoliver/minimusiker-sub007/core"
)

// Overrides is a per-event policy override record. It is parsed defensively
// from an untrusted stored blob: malformed payloads and malformed individual
// values degrade to "use defaults" instead of erroring.
//
// A nil *Overrides is valid everywhere and means "no overrides".
type Overrides struct {
	thresholds  map[ThresholdKey]int
	milestones  map[Milestone]int
	taskOffsets map[string]int

	AudioHidden    bool
	HiddenProducts []string
}

// blob field names beside the threshold keys themselves.
const (
	fieldMilestones     = "milestones"
	fieldTaskOffsets    = "task_offsets"
	fieldAudioHidden    = "audio_hidden"
	fieldHiddenProducts = "hidden_products"
)

func NewOverrides() *Overrides {
	return &Overrides{
		thresholds:  make(map[ThresholdKey]int),
		milestones:  make(map[Milestone]int),
		taskOffsets: make(map[string]int),
	}
}

// ParseOverrides parses a stored override blob. It returns nil — never an
// error — when raw is blank, not valid JSON, or not a JSON object: stored
// data must never crash a caller, it degrades to defaults instead.
// Unknown keys are ignored; individual non-finite or non-numeric values are
// dropped per-key without affecting the rest of the blob.
func ParseOverrides(raw string) *Overrides {
	if core.CleanString(raw) == "" {
		return nil
	}

	var parsed interface{}
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return nil
	}
	obj, ok := parsed.(map[string]interface{})
	if !ok {
		return nil
	}

	o := NewOverrides()
	for key, val := range obj {
		switch {
		case IsThresholdKey(key):
			if n, ok := finiteInt(val); ok {
				o.thresholds[ThresholdKey(key)] = n
			}
		case key == fieldMilestones:
			sub, ok := val.(map[string]interface{})
			if !ok {
				continue
			}
			for name, mv := range sub {
				if !IsMilestone(name) {
					continue
				}
				if n, ok := finiteInt(mv); ok {
					o.milestones[Milestone(name)] = n
				}
			}
		case key == fieldTaskOffsets:
			sub, ok := val.(map[string]interface{})
			if !ok {
				continue
			}
			for id, tv := range sub {
				if n, ok := finiteInt(tv); ok {
					o.taskOffsets[id] = n
				}
			}
		case key == fieldAudioHidden:
			if b, ok := val.(bool); ok {
				o.AudioHidden = b
			}
		case key == fieldHiddenProducts:
			list, ok := val.([]interface{})
			if !ok {
				continue
			}
			for _, pv := range list {
				if s, ok := pv.(string); ok {
					o.HiddenProducts = append(o.HiddenProducts, s)
				}
			}
		}
	}
	return o
}

// finiteInt accepts a decoded JSON value only if it is a finite number.
func finiteInt(val interface{}) (int, bool) {
	f, ok := val.(float64)
	if !ok || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return int(f), true
}

// ResolveThreshold returns the effective value for key: the override when one
// is set, else the default. o may be nil.
func ResolveThreshold(key ThresholdKey, o *Overrides) int {
	if o != nil {
		if v, ok := o.thresholds[key]; ok {
			return v
		}
	}
	return DefaultThreshold(key)
}

// ResolveMilestoneOffset returns the effective day-offset for m: the override
// when one is set, else the default. o may be nil.
func ResolveMilestoneOffset(m Milestone, o *Overrides) int {
	if o != nil {
		if v, ok := o.milestones[m]; ok {
			return v
		}
	}
	return DefaultMilestoneOffset(m)
}

// ResolveTaskOffset returns the override for an arbitrary task id. The second
// return distinguishes "not overridden" from an explicit offset of 0; there
// is no default table for task offsets.
func ResolveTaskOffset(taskID string, o *Overrides) (int, bool) {
	if o == nil {
		return 0, false
	}
	v, ok := o.taskOffsets[taskID]
	return v, ok
}

// Threshold reports the raw override for key, if set.
func (o *Overrides) Threshold(key ThresholdKey) (int, bool) {
	if o == nil {
		return 0, false
	}
	v, ok := o.thresholds[key]
	return v, ok
}

// MilestoneOffset reports the raw override for m, if set.
func (o *Overrides) MilestoneOffset(m Milestone) (int, bool) {
	if o == nil {
		return 0, false
	}
	v, ok := o.milestones[m]
	return v, ok
}

// TaskOffsets returns a copy of all task-offset overrides.
func (o *Overrides) TaskOffsets() map[string]int {
	if o == nil {
		return nil
	}
	cp := make(map[string]int, len(o.taskOffsets))
	for id, v := range o.taskOffsets {
		cp[id] = v
	}
	return cp
}

func (o *Overrides) SetThreshold(key ThresholdKey, days int) {
	o.thresholds[key] = days
}

func (o *Overrides) SetMilestoneOffset(m Milestone, days int) {
	o.milestones[m] = days
}

func (o *Overrides) SetTaskOffset(taskID string, days int) {
	o.taskOffsets[taskID] = days
}

// MarshalMinimal serializes o keeping only values that differ from the
// defaults, so stored blobs stay minimal. It returns "" when nothing differs
// (the caller should then store no blob at all). o may be nil.
func (o *Overrides) MarshalMinimal() (string, error) {
	if o == nil {
		return "", nil
	}

	obj := make(map[string]interface{})
	for key, v := range o.thresholds {
		if v != DefaultThreshold(key) {
			obj[string(key)] = v
		}
	}

	milestones := make(map[string]int)
	for m, v := range o.milestones {
		if v != DefaultMilestoneOffset(m) {
			milestones[string(m)] = v
		}
	}
	if len(milestones) > 0 {
		obj[fieldMilestones] = milestones
	}
	if len(o.taskOffsets) > 0 {
		obj[fieldTaskOffsets] = o.taskOffsets
	}
	if o.AudioHidden {
		obj[fieldAudioHidden] = true
	}
	if len(o.HiddenProducts) > 0 {
		obj[fieldHiddenProducts] = o.HiddenProducts
	}

	if len(obj) == 0 {
		return "", nil
	}
	data, err := json.Marshal(obj)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
