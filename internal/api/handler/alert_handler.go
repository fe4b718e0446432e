package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/retailflow/plm-console/internal/core/service"
)

type AlertHandler struct {
	alerts *service.Notifier
}

func NewAlertHandler(alerts *service.Notifier) *AlertHandler {
	return &AlertHandler{alerts: alerts}
}

// Get returns the pending alert; alert is null when there is none.
//
// @Summary      Current alert
// @Tags         alert
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  alertResponse
// @Router       /alert [get]
func (h *AlertHandler) Get(c echo.Context) error {
	return c.JSON(http.StatusOK, alertResponse{Alert: h.alerts.Current()})
}

// Dismiss clears the pending alert.
//
// @Summary      Dismiss alert
// @Tags         alert
// @Security     BearerAuth
// @Success      204
// @Router       /alert [delete]
func (h *AlertHandler) Dismiss(c echo.Context) error {
	h.alerts.Dismiss()
	return c.NoContent(http.StatusNoContent)
}
