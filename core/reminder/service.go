package reminder

import (
	"fmt"
	"net/mail"
	"sync"

	"github.com/jamesdoliver/minimusiker-sub007/core"
	"github.com/jamesdoliver/minimusiker-sub007/core/event"
	"github.com/jamesdoliver/minimusiker-sub007/core/timeline"
)

// Service emails teachers when an event milestone enters the alert window.
// Deduplication is in-memory per (event, milestone): the job may run as often
// as the schedule fires without re-mailing.
type Service struct {
	evtSvc  *event.Service
	mailSvc core.EmailService
	logger  core.Logger

	mu   sync.Mutex
	sent map[string]bool
}

func NewService(evtSvc *event.Service, mailSvc core.EmailService, logger core.Logger) *Service {
	return &Service{
		evtSvc:  evtSvc,
		mailSvc: mailSvc,
		logger:  logger,
		sent:    make(map[string]bool),
	}
}

type reminderData struct {
	Event     event.Event
	Milestone timeline.Milestone
	Label     string
	Date      string
}

// Run scans all events and sends one reminder per milestone entering the
// window. Events without a date are skipped.
func (svc *Service) Run() error {
	windowDays := core.Conf.GetInt("reminderWindowDays")

	events, err := svc.evtSvc.QueryAll()
	if err != nil {
		return err
	}

	var count int
	for _, evt := range events {
		if !evt.EventDate.Valid || evt.ContactEmail == "" {
			continue
		}
		o := evt.Overrides()
		for _, m := range timeline.Milestones() {
			if !timeline.IsWithinMilestoneWindow(evt.EventDate.Time, m, windowDays, o) {
				continue
			}
			if !svc.markSent(evt.ID, m) {
				continue
			}
			svc.send(evt, m, o)
			count++
		}
	}
	if count > 0 {
		svc.logger.Info(fmt.Sprintf("reminder: sent %d milestone reminders", count))
	}
	return nil
}

// markSent records (event, milestone) and reports whether it was new.
func (svc *Service) markSent(eventID string, m timeline.Milestone) bool {
	key := eventID + "|" + string(m)

	svc.mu.Lock()
	defer svc.mu.Unlock()
	if svc.sent[key] {
		return false
	}
	svc.sent[key] = true
	return true
}

func (svc *Service) send(evt event.Event, m timeline.Milestone, o *timeline.Overrides) {
	date := timeline.MilestoneDate(evt.EventDate.Time, m, o)
	msg := &core.EmailMessage{
		To:           []mail.Address{{Name: evt.TeacherName, Address: evt.ContactEmail}},
		Subject:      fmt.Sprintf("Upcoming: %s", m.Label()),
		TemplateName: "milestone-reminder",
		TemplateData: reminderData{
			Event:     evt,
			Milestone: m,
			Label:     m.Label(),
			Date:      date.Format("02.01.2006"),
		},
	}
	svc.mailSvc.SendMessages(msg)
}
