package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/retailflow/plm-console/internal/core/service"
)

type AnalyticsHandler struct {
	analytics *service.AnalyticsService
	alerts    *service.Notifier
}

func NewAnalyticsHandler(analytics *service.AnalyticsService, alerts *service.Notifier) *AnalyticsHandler {
	return &AnalyticsHandler{analytics: analytics, alerts: alerts}
}

// Get summarizes every product by status and category.
//
// @Summary      Product analytics
// @Tags         analytics
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  service.Analytics
// @Failure      403  {object}  map[string]string
// @Failure      502  {object}  map[string]string
// @Router       /analytics [get]
func (h *AnalyticsHandler) Get(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}
	summary, err := h.analytics.Load(c.Request().Context(), sess)
	if err != nil {
		if raisesAlert(err) {
			h.alerts.Danger(alertMessage(err))
		}
		return err
	}
	return c.JSON(http.StatusOK, summary)
}
