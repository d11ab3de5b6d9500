package event_test

import (
	"testing"
	"time"

	"github.com/jamesdoliver/minimusiker-sub007/core/event"
	"github.com/jamesdoliver/minimusiker-sub007/core/timeline"
	"github.com/jamesdoliver/minimusiker-sub007/storage/database/dummy"
)

func setup(t *testing.T) (*event.Service, event.Repository) {
	t.Helper()
	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("setup() failed: %v", err)
	}
	repo := dummydb.NewEventRepository(db)
	return event.NewService(repo), repo
}

func createEvent(t *testing.T, svc *event.Service, date string) event.Event {
	t.Helper()
	evt, err := svc.Create(event.NewEvent{
		SchoolName:   "Grundschule Nord",
		ClassName:    "3b",
		TeacherName:  "Frau Weber",
		ContactEmail: "weber@schule.test",
		EventDate:    date,
	})
	if err != nil {
		t.Fatalf("createEvent() failed: %v", err)
	}
	return evt
}

func TestServiceCreate(t *testing.T) {
	svc, _ := setup(t)

	evt := createEvent(t, svc, "2021-06-18")
	if evt.ID == "" {
		t.Error("Create() did not assign an ID")
	}
	if !evt.EventDate.Valid {
		t.Error("Create() dropped the event date")
	}

	noDate := createEvent(t, svc, "")
	if noDate.EventDate.Valid {
		t.Error("Create() set a date from an empty string")
	}

	if _, err := svc.Create(event.NewEvent{
		SchoolName:   "Grundschule Nord",
		TeacherName:  "Frau Weber",
		ContactEmail: "weber@schule.test",
		EventDate:    "sometime in June",
	}); err != timeline.ErrInvalidDate {
		t.Errorf("Create(bad date) error = %v, want ErrInvalidDate", err)
	}
}

func TestServiceTimeline(t *testing.T) {
	svc, _ := setup(t)

	evt := createEvent(t, svc, "")
	if _, err := svc.Timeline(evt.ID); err != event.ErrNoEventDate {
		t.Errorf("Timeline(no date) error = %v, want ErrNoEventDate", err)
	}

	today := time.Now().Format("2006-01-02")
	evt = createEvent(t, svc, today)
	info, err := svc.Timeline(evt.ID)
	if err != nil {
		t.Fatalf("Timeline() error = %v", err)
	}
	if info.Phase != timeline.PhaseEventDay {
		t.Errorf("Phase = %s, want %s", info.Phase, timeline.PhaseEventDay)
	}
	if info.CurrentMilestone != timeline.MilestoneEventDay {
		t.Errorf("CurrentMilestone = %s, want EVENT_DAY", info.CurrentMilestone)
	}

	if _, err := svc.Timeline("nope"); err != event.ErrNotFound {
		t.Errorf("Timeline(unknown id) error = %v, want ErrNotFound", err)
	}
}

func TestServiceUpdateSettings(t *testing.T) {
	svc, _ := setup(t)
	evt := createEvent(t, svc, "2021-06-18")

	// values equal to defaults are stripped: nothing stored
	updated, err := svc.UpdateSettings(evt.ID, event.SettingsUpdate{
		Thresholds: map[string]int{string(timeline.ThresholdEarlyBirdDeadlineDays): 19},
	})
	if err != nil {
		t.Fatalf("UpdateSettings() error = %v", err)
	}
	if updated.Settings.Valid {
		t.Errorf("Settings blob = %q, want none (all defaults)", updated.Settings.String)
	}

	updated, err = svc.UpdateSettings(evt.ID, event.SettingsUpdate{
		Thresholds: map[string]int{string(timeline.ThresholdEarlyBirdDeadlineDays): 10},
		Milestones: map[string]int{string(timeline.MilestonePortalCloses): 45},
	})
	if err != nil {
		t.Fatalf("UpdateSettings() error = %v", err)
	}
	if !updated.Settings.Valid {
		t.Fatal("Settings blob missing after override update")
	}

	settings, err := svc.Settings(evt.ID)
	if err != nil {
		t.Fatalf("Settings() error = %v", err)
	}
	for _, th := range settings.Thresholds {
		switch th.Key {
		case timeline.ThresholdEarlyBirdDeadlineDays:
			if th.Value != 10 || !th.Overridden {
				t.Errorf("early_bird = (%d, overridden=%t), want (10, true)", th.Value, th.Overridden)
			}
		default:
			if th.Overridden {
				t.Errorf("%s unexpectedly overridden", th.Key)
			}
			if th.Value != th.Default {
				t.Errorf("%s = %d, want default %d", th.Key, th.Value, th.Default)
			}
		}
	}
	for _, ms := range settings.Milestones {
		if ms.Milestone == timeline.MilestonePortalCloses {
			if ms.Offset != 45 || !ms.Overridden {
				t.Errorf("PORTAL_CLOSES = (%d, overridden=%t), want (45, true)", ms.Offset, ms.Overridden)
			}
		}
	}
}

func TestServiceShopStatus(t *testing.T) {
	svc, _ := setup(t)

	// no date: everything unavailable, no countdowns
	evt := createEvent(t, svc, "")
	status, err := svc.ShopStatus(evt.ID)
	if err != nil {
		t.Fatalf("ShopStatus() error = %v", err)
	}
	if status.CanOrderPersonalizedClothing || status.CanOrderPersonalizedProducts {
		t.Error("shop open for an event without a date")
	}
	if status.EarlyBird != nil || status.SchulsongClothing != nil || status.PersonalizedProduct != nil {
		t.Error("countdowns present for an event without a date")
	}

	// date well in the future: everything open
	future := time.Now().AddDate(0, 0, 40).Format("2006-01-02")
	evt = createEvent(t, svc, future)
	status, err = svc.ShopStatus(evt.ID)
	if err != nil {
		t.Fatalf("ShopStatus() error = %v", err)
	}
	if !status.CanOrderPersonalizedClothing || !status.CanOrderPersonalizedProducts {
		t.Error("shop closed for an event 40 days out")
	}
	if status.EarlyBird == nil {
		t.Error("EarlyBird countdown missing for an event 40 days out")
	}
}

func TestServicePlanAudioReleases(t *testing.T) {
	svc, _ := setup(t)

	past := createEvent(t, svc, time.Now().AddDate(0, 0, -3).Format("2006-01-02"))
	createEvent(t, svc, time.Now().AddDate(0, 0, 30).Format("2006-01-02")) // future: skipped
	hidden := createEvent(t, svc, time.Now().AddDate(0, 0, -3).Format("2006-01-02"))
	if _, err := svc.UpdateSettings(hidden.ID, event.SettingsUpdate{AudioHidden: true}); err != nil {
		t.Fatalf("UpdateSettings() error = %v", err)
	}

	planned, err := svc.PlanAudioReleases(time.UTC)
	if err != nil {
		t.Fatalf("PlanAudioReleases() error = %v", err)
	}
	if len(planned) != 1 || planned[0].ID != past.ID {
		t.Fatalf("PlanAudioReleases() planned %d events, want exactly the past visible one", len(planned))
	}
	release := planned[0].AudioReleaseAt
	if !release.Valid {
		t.Fatal("planned event has no release instant")
	}
	if wd := release.Time.Weekday(); wd == time.Saturday || wd == time.Sunday {
		t.Errorf("release scheduled on a weekend: %v", release.Time)
	}
	if release.Time.Hour() != 7 {
		t.Errorf("release hour = %d, want 7", release.Time.Hour())
	}

	// second run is a no-op: already planned
	planned, err = svc.PlanAudioReleases(time.UTC)
	if err != nil {
		t.Fatalf("PlanAudioReleases() error = %v", err)
	}
	if len(planned) != 0 {
		t.Errorf("second PlanAudioReleases() planned %d events, want 0", len(planned))
	}
}
