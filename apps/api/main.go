package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/jamesdoliver/minimusiker-sub007/apps/api/echo"
	"github.com/jamesdoliver/minimusiker-sub007/core"
	"github.com/jamesdoliver/minimusiker-sub007/core/event"
	"github.com/jamesdoliver/minimusiker-sub007/services/logger"
	"github.com/jamesdoliver/minimusiker-sub007/storage/database"
	"github.com/jamesdoliver/minimusiker-sub007/storage/database/sqlx"
)

func init() {
	core.Conf.SetDefault("serverAddress", ":8000")
}

func main() {
	std := log.New(os.Stdout, "API : ", log.LstdFlags|log.Lshortfile)

	var logger core.Logger
	if core.Conf.GetBool("debug") {
		logger = logsvc.NewStdLogger(std)
	} else {
		logger = logsvc.NewRollbarLogger(std)
	}

	// set up DB
	db, err := database.Open()
	if err != nil {
		logger.Fatal("opening database", err)
	}
	defer func() { _ = db.Close() }()

	evtSvc := event.NewService(sqlxrepos.NewEventRepository(db))

	// start API server
	app := echoapi.NewServer(
		&echoapi.Options{
			Address:  core.Conf.GetString("serverAddress"),
			EventSvc: evtSvc,
			Logger:   logger,
		},
	)

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	go func() {
		select {
		case <-shutdown:
		case <-app.ShutdownSignal(): // integrity error caught by the error handler
		}
		ctx, cancel := context.WithTimeout(context.Background(), core.Conf.GetDuration("shutdownTimeout"))
		defer cancel()
		if err := app.Stop(ctx); err != nil {
			logger.Error("graceful shutdown failed", err)
		}
	}()

	app.Start()
}
