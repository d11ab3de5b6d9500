package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/robfig/cron/v3"

	"github.com/jamesdoliver/minimusiker-sub007/core"
	"github.com/jamesdoliver/minimusiker-sub007/core/event"
	"github.com/jamesdoliver/minimusiker-sub007/core/reminder"
	"github.com/jamesdoliver/minimusiker-sub007/core/timeline"
	"github.com/jamesdoliver/minimusiker-sub007/services/email"
	"github.com/jamesdoliver/minimusiker-sub007/services/logger"
	"github.com/jamesdoliver/minimusiker-sub007/storage/database"
	"github.com/jamesdoliver/minimusiker-sub007/storage/database/sqlx"
)

// The scheduler runs the periodic jobs: milestone reminder emails and audio
// release planning.
func main() {
	std := log.New(os.Stdout, "SCHED : ", log.LstdFlags|log.Lshortfile)

	var logger core.Logger
	if core.Conf.GetBool("debug") {
		logger = logsvc.NewStdLogger(std)
	} else {
		logger = logsvc.NewRollbarLogger(std)
	}

	db, err := database.Open()
	if err != nil {
		logger.Fatal("opening database", err)
	}
	defer func() { _ = db.Close() }()

	var mailSvc core.EmailService
	if core.Conf.GetBool("debug") {
		mailSvc = emailsvc.NewConsoleService()
	} else {
		mailSvc = emailsvc.NewSendgridService(logger)
	}

	evtSvc := event.NewService(sqlxrepos.NewEventRepository(db))
	remSvc := reminder.NewService(evtSvc, mailSvc, logger)

	releaseLoc, err := timeline.ReleaseLocation()
	if err != nil {
		logger.Fatal("loading release timezone", err)
	}

	c := cron.New()
	if _, err := c.AddFunc(core.Conf.GetString("reminderSchedule"), func() {
		if err := remSvc.Run(); err != nil {
			logger.Error("reminder job failed", err)
		}
	}); err != nil {
		logger.Fatal("scheduling reminder job", err)
	}
	if _, err := c.AddFunc(core.Conf.GetString("releaseSchedule"), func() {
		planned, err := evtSvc.PlanAudioReleases(releaseLoc)
		if err != nil {
			logger.Error("release planning job failed", err)
			return
		}
		if len(planned) > 0 {
			logger.Info(fmt.Sprintf("scheduled audio release for %d events", len(planned)))
		}
	}); err != nil {
		logger.Fatal("scheduling release planning job", err)
	}

	c.Start()
	logger.Info("scheduler started")

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	<-shutdown

	<-c.Stop().Done()
	logger.Info("scheduler stopped")
}
