package echoapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/jamesdoliver/minimusiker-sub007/core/event"
	"github.com/jamesdoliver/minimusiker-sub007/core/timeline"
	"github.com/jamesdoliver/minimusiker-sub007/services/logger"
	"github.com/jamesdoliver/minimusiker-sub007/storage/database/dummy"
)

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	wantCode int
}

func setup(t *testing.T) (Server, *event.Service) {
	t.Helper()
	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("setup() failed: %v", err)
	}
	svc := event.NewService(dummydb.NewEventRepository(db))
	srv := NewServer(&Options{
		Address:        ":0",
		DisableReqLogs: true,
		EventSvc:       svc,
		Logger:         logsvc.NewStdLogger(log.New(os.Stdout, "", 0)),
	})
	return srv, svc
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	return req, rec
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

func TestEventAPICreate(t *testing.T) {
	srv, _ := setup(t)

	tests := []httpTest{
		{
			name:     "valid",
			method:   http.MethodPost,
			path:     "/v1/events",
			body:     []byte(`{"school_name":"Grundschule Nord","teacher_name":"Frau Weber","contact_email":"weber@schule.test","event_date":"2021-06-18"}`),
			wantCode: http.StatusCreated,
		},
		{
			name:     "valid without date",
			method:   http.MethodPost,
			path:     "/v1/events",
			body:     []byte(`{"school_name":"Grundschule Nord","teacher_name":"Frau Weber","contact_email":"weber@schule.test"}`),
			wantCode: http.StatusCreated,
		},
		{
			name:     "missing fields",
			method:   http.MethodPost,
			path:     "/v1/events",
			body:     []byte(`{"class_name":"3b"}`),
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "bad email",
			method:   http.MethodPost,
			path:     "/v1/events",
			body:     []byte(`{"school_name":"Grundschule Nord","teacher_name":"Frau Weber","contact_email":"nope"}`),
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "unparseable date",
			method:   http.MethodPost,
			path:     "/v1/events",
			body:     []byte(`{"school_name":"Grundschule Nord","teacher_name":"Frau Weber","contact_email":"weber@schule.test","event_date":"next June"}`),
			wantCode: http.StatusBadRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(tt.method, tt.path, tt.body)
			srv.ServeHTTP(rec, req)
			assert.Equal(t, tt.wantCode, rec.Code, rec.Body.String())
		})
	}
}

func TestEventAPIQuery(t *testing.T) {
	srv, svc := setup(t)
	createEvent(t, svc, "2021-06-18")
	createEvent(t, svc, "2021-09-03")
	createEvent(t, svc, "") // dateless: excluded from date filters

	tests := []struct {
		name     string
		path     string
		wantCode int
		wantLen  int
	}{
		{"all", "/v1/events", http.StatusOK, 3},
		{"within range", "/v1/events?from=2021-06-01&to=2021-06-30", http.StatusOK, 1},
		{"open-ended from", "/v1/events?from=2021-07-01", http.StatusOK, 1},
		{"open-ended to", "/v1/events?to=2021-12-31", http.StatusOK, 2},
		{"empty range", "/v1/events?from=2022-01-01&to=2022-12-31", http.StatusOK, 0},
		{"bad bound", "/v1/events?from=whenever", http.StatusBadRequest, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(http.MethodGet, tt.path)
			srv.ServeHTTP(rec, req)
			assert.Equal(t, tt.wantCode, rec.Code, rec.Body.String())
			if tt.wantCode == http.StatusOK {
				var events []event.Event
				assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &events))
				assert.Len(t, events, tt.wantLen)
			}
		})
	}
}

func TestEventAPIRetrieve(t *testing.T) {
	srv, svc := setup(t)
	evt := createEvent(t, svc, "2021-06-18")

	req, rec := newRequest(http.MethodGet, "/v1/events/"+evt.ID)
	srv.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	var got event.Event
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, evt.ID, got.ID)

	req, rec = newRequest(http.MethodGet, "/v1/events/unknown-id")
	srv.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestEventAPITimeline(t *testing.T) {
	srv, svc := setup(t)

	today := time.Now().Format("2006-01-02")
	evt := createEvent(t, svc, today)
	noDate := createEvent(t, svc, "")

	req, rec := newRequest(http.MethodGet, fmt.Sprintf("/v1/events/%s/timeline", evt.ID))
	srv.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	var info timeline.Info
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &info))
	assert.Equal(t, timeline.PhaseEventDay, info.Phase)
	assert.Equal(t, timeline.MilestoneEventDay, info.CurrentMilestone)
	assert.Contains(t, info.PassedMilestones, timeline.MilestoneEventDay)

	req, rec = newRequest(http.MethodGet, fmt.Sprintf("/v1/events/%s/timeline", noDate.ID))
	srv.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestEventAPISettings(t *testing.T) {
	srv, svc := setup(t)
	evt := createEvent(t, svc, "2021-06-18")

	// round trip: update then read back
	body := []byte(`{
		"thresholds": {"early_bird_deadline_days": 10},
		"milestones": {"PORTAL_CLOSES": 45},
		"task_offsets": {"send-invites": 0}
	}`)
	req, rec := newRequest(http.MethodPut, fmt.Sprintf("/v1/events/%s/settings", evt.ID), body)
	srv.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var settings event.Settings
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &settings))
	for _, th := range settings.Thresholds {
		if th.Key == timeline.ThresholdEarlyBirdDeadlineDays {
			assert.Equal(t, 10, th.Value)
			assert.True(t, th.Overridden)
		}
	}
	assert.Equal(t, map[string]int{"send-invites": 0}, settings.TaskOffsets)

	// unknown keys are rejected by the edit API
	req, rec = newRequest(http.MethodPut, fmt.Sprintf("/v1/events/%s/settings", evt.ID),
		[]byte(`{"thresholds": {"not_a_threshold": 5}}`))
	srv.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())

	req, rec = newRequest(http.MethodGet, fmt.Sprintf("/v1/events/%s/settings", evt.ID))
	srv.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestEventAPIShop(t *testing.T) {
	srv, svc := setup(t)

	future := time.Now().AddDate(0, 0, 40).Format("2006-01-02")
	evt := createEvent(t, svc, future)

	req, rec := newRequest(http.MethodGet, fmt.Sprintf("/v1/events/%s/shop", evt.ID))
	srv.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	var status event.ShopStatus
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.True(t, status.CanOrderPersonalizedClothing)
	assert.True(t, status.CanOrderPersonalizedProducts)
	assert.NotNil(t, status.EarlyBird)
}
