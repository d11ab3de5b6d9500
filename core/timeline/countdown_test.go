package timeline

import (
	"testing"
	"time"
)

func TestEarlyBirdCountdownAtBoundary(t *testing.T) {
	event := time.Date(2021, time.March, 29, 0, 0, 0, 0, time.UTC) // testNow + 19 days
	deadline := time.Date(2021, time.March, 10, 23, 59, 59, int(999*time.Millisecond), time.UTC)

	tests := []struct {
		name string
		now  time.Time
		want *Countdown
	}{
		{
			name: "morning of deadline day",
			now:  time.Date(2021, time.March, 10, 14, 30, 0, 0, time.UTC),
			want: &Countdown{Days: 0, Hours: 9, Minutes: 29, Seconds: 59},
		},
		{
			name: "last millisecond",
			now:  deadline,
			want: &Countdown{},
		},
		{
			name: "first millisecond after",
			now:  deadline.Add(time.Millisecond),
			want: nil,
		},
		{
			name: "well before",
			now:  time.Date(2021, time.March, 8, 23, 59, 59, int(999*time.Millisecond), time.UTC),
			want: &Countdown{Days: 2, Hours: 0, Minutes: 0, Seconds: 0},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EarlyBirdCountdownAt(event, nil, tt.now)
			if (got == nil) != (tt.want == nil) {
				t.Fatalf("EarlyBirdCountdownAt() = %+v, want %+v", got, tt.want)
			}
			if got != nil && *got != *tt.want {
				t.Errorf("EarlyBirdCountdownAt() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestEarlyBirdCountdownOverride(t *testing.T) {
	event := day(10)
	// default deadline (event-19d) is already behind now
	if got := EarlyBirdCountdownAt(event, nil, testNow); got != nil {
		t.Errorf("EarlyBirdCountdownAt(default) = %+v, want nil", got)
	}
	// shortening the deadline to 5 days before the event reopens it
	o := NewOverrides()
	o.SetThreshold(ThresholdEarlyBirdDeadlineDays, 5)
	if got := EarlyBirdCountdownAt(event, o, testNow); got == nil {
		t.Error("EarlyBirdCountdownAt(override 5) = nil, want countdown")
	}
}

func TestSchulsongClothingCountdownAt(t *testing.T) {
	// cutoff −14: window extends 14 days past the event
	if got := SchulsongClothingCountdownAt(day(-14), nil, testNow); got == nil {
		t.Error("SchulsongClothingCountdownAt(event-14d) = nil, want countdown until end of day")
	}
	if got := SchulsongClothingCountdownAt(day(-15), nil, testNow); got != nil {
		t.Errorf("SchulsongClothingCountdownAt(event-15d) = %+v, want nil", got)
	}
}

func TestPersonalizedProductCountdownAt(t *testing.T) {
	// not pinned to end of day: the deadline is the shifted event instant
	event := time.Date(2021, time.March, 22, 14, 30, 0, 0, time.UTC) // deadline = Mar 10 14:30
	now := time.Date(2021, time.March, 10, 14, 0, 0, 0, time.UTC)

	got := PersonalizedProductCountdownAt(event, nil, now)
	want := Countdown{Days: 0, Hours: 0, Minutes: 30, Seconds: 0}
	if got == nil || *got != want {
		t.Errorf("PersonalizedProductCountdownAt() = %+v, want %+v", got, want)
	}

	if got := PersonalizedProductCountdownAt(event, nil, now.Add(31*time.Minute)); got != nil {
		t.Errorf("PersonalizedProductCountdownAt(past) = %+v, want nil", got)
	}
}

func TestCountdownsNoEventDate(t *testing.T) {
	if got := EarlyBirdCountdownAt(time.Time{}, nil, testNow); got != nil {
		t.Errorf("EarlyBirdCountdownAt(zero) = %+v, want nil", got)
	}
	if got := SchulsongClothingCountdownAt(time.Time{}, nil, testNow); got != nil {
		t.Errorf("SchulsongClothingCountdownAt(zero) = %+v, want nil", got)
	}
	if got := PersonalizedProductCountdownAt(time.Time{}, nil, testNow); got != nil {
		t.Errorf("PersonalizedProductCountdownAt(zero) = %+v, want nil", got)
	}
}
