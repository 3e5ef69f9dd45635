package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"github.com/labstack/echo/v4"
	"github.com/markusressel/pid2go/internal/controller"
	"github.com/markusressel/pid2go/internal/persistence"
	"github.com/markusressel/pid2go/internal/pid"
	"github.com/markusressel/pid2go/internal/scheduler"
	"github.com/qdm12/reprint"
	"net/http"
	"os"
	"strconv"
)

const (
	queryParamLimit     = "limit"
	defaultHistoryLimit = 100
)

func registerControllerEndpoints(rest *echo.Echo, p persistence.Persistence) {
	group := rest.Group("/controller")

	group.GET("/", getControllers)
	group.GET("/:"+urlParamId+"/", getController)
	group.GET("/:"+urlParamId+"/config/", getControllerConfig)
	group.POST("/:"+urlParamId+"/input/", postControllerInput)
	group.GET("/:"+urlParamId+"/history/", func(c echo.Context) error {
		return getControllerHistory(c, p)
	})
}

func getControllers(c echo.Context) error {
	snapshots := map[string]controller.Snapshot{}
	for id, contr := range controller.ControllerMap.Items() {
		snapshots[id] = contr.Snapshot()
	}
	data := reprint.This(snapshots)
	return c.JSONPretty(http.StatusOK, data, indentationChar)
}

func getController(c echo.Context) error {
	id := c.Param(urlParamId)

	contr, exists := controller.ControllerMap.Get(id)
	if !exists {
		return returnNotFound(c, id)
	}
	return c.JSONPretty(http.StatusOK, contr.Snapshot(), indentationChar)
}

func getControllerConfig(c echo.Context) error {
	id := c.Param(urlParamId)

	contr, exists := controller.ControllerMap.Get(id)
	if !exists {
		return returnNotFound(c, id)
	}
	return c.JSONPretty(http.StatusOK, contr.GetConfig(), indentationChar)
}

func postControllerInput(c echo.Context) error {
	id := c.Param(urlParamId)

	contr, exists := controller.ControllerMap.Get(id)
	if !exists {
		return returnNotFound(c, id)
	}

	var msg pid.Message
	if err := json.NewDecoder(c.Request().Body).Decode(&msg); err != nil {
		return returnBadRequest(c, fmt.Sprintf("invalid message: %v", err))
	}

	err := contr.Post(msg)
	if errors.Is(err, scheduler.ErrLoopStopped) {
		return c.JSONPretty(http.StatusServiceUnavailable, &Result{
			Name:    "Unavailable",
			Message: "Controller '" + id + "' is not running",
		}, indentationChar)
	} else if err != nil {
		return returnError(c, err)
	}

	return c.JSONPretty(http.StatusAccepted, &Result{
		Name:    "Accepted",
		Message: "Message for topic '" + msg.Topic + "' queued",
	}, indentationChar)
}

func getControllerHistory(c echo.Context, p persistence.Persistence) error {
	id := c.Param(urlParamId)

	if _, exists := controller.ControllerMap.Get(id); !exists {
		return returnNotFound(c, id)
	}

	limit := defaultHistoryLimit
	if value := c.QueryParam(queryParamLimit); len(value) > 0 {
		parsed, err := strconv.Atoi(value)
		if err != nil || parsed < 0 {
			return returnBadRequest(c, "limit must be a non-negative number")
		}
		limit = parsed
	}

	records, err := p.LoadOutputRecords(id, limit)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return returnError(c, err)
	}
	if records == nil {
		records = []persistence.OutputRecord{}
	}
	return c.JSONPretty(http.StatusOK, records, indentationChar)
}
