package echoapi

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/jamesdoliver/minimusiker-sub007/core"
	"github.com/jamesdoliver/minimusiker-sub007/core/event"
	"github.com/jamesdoliver/minimusiker-sub007/core/timeline"
)

type eventApi struct {
	service *event.Service
}

func registerEventAPI(g *echo.Group, svc *event.Service) {
	api := eventApi{service: svc}

	eg := g.Group("/events")
	eg.POST("", api.eventCreate)
	eg.GET("", api.eventQuery)

	// detail endpoints
	dg := eg.Group("/:id")
	dg.GET("", api.eventRetrieve)
	dg.GET("/timeline", api.eventTimeline)
	dg.GET("/settings", api.eventSettingsRetrieve)
	dg.PUT("/settings", api.eventSettingsUpdate)
	dg.GET("/shop", api.eventShopStatus)
}

// Handlers

func (api *eventApi) eventCreate(ctx echo.Context) error {
	data := new(event.NewEvent)
	if err := ctx.Bind(data); err != nil {
		return err
	}
	if err := data.Validate(); err != nil {
		return err
	}

	evt, err := api.service.Create(*data)
	if err != nil {
		if err == timeline.ErrInvalidDate {
			return core.NewValidationError(err, core.FieldError{Field: "event_date", Error: err.Error()})
		}
		return err
	}
	return ctx.JSON(http.StatusCreated, evt)
}

// eventQuery lists events, optionally filtered by date range
// (?from=2021-06-01&to=2021-07-31). A missing bound is open-ended.
func (api *eventApi) eventQuery(ctx echo.Context) error {
	fromStr := ctx.QueryParam("from")
	toStr := ctx.QueryParam("to")
	if fromStr == "" && toStr == "" {
		events, err := api.service.QueryAll()
		if err != nil {
			return err
		}
		return ctx.JSON(http.StatusOK, events)
	}

	var from, to time.Time
	var err error
	if fromStr != "" {
		if from, err = timeline.ParseEventDate(fromStr); err != nil {
			return core.NewValidationError(err, core.FieldError{Field: "from", Error: err.Error()})
		}
	}
	if toStr != "" {
		if to, err = timeline.ParseEventDate(toStr); err != nil {
			return core.NewValidationError(err, core.FieldError{Field: "to", Error: err.Error()})
		}
	}

	events, err := api.service.QueryWithDateBetween(from, to)
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, events)
}

func (api *eventApi) eventRetrieve(ctx echo.Context) error {
	evt, err := api.service.GetByID(ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, evt)
}

func (api *eventApi) eventTimeline(ctx echo.Context) error {
	info, err := api.service.Timeline(ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, info)
}

func (api *eventApi) eventSettingsRetrieve(ctx echo.Context) error {
	settings, err := api.service.Settings(ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, settings)
}

func (api *eventApi) eventSettingsUpdate(ctx echo.Context) error {
	data := new(event.SettingsUpdate)
	if err := ctx.Bind(data); err != nil {
		return err
	}
	if err := data.Validate(); err != nil {
		return err
	}

	if _, err := api.service.UpdateSettings(ctx.Param("id"), *data); err != nil {
		return err
	}
	settings, err := api.service.Settings(ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, settings)
}

func (api *eventApi) eventShopStatus(ctx echo.Context) error {
	status, err := api.service.ShopStatus(ctx.Param("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(http.StatusOK, status)
}
