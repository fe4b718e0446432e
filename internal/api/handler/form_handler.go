package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/retailflow/plm-console/internal/core/domain"
	"github.com/retailflow/plm-console/internal/core/service"
)

type FormHandler struct {
	form   *service.ProductForm
	alerts *service.Notifier
}

func NewFormHandler(form *service.ProductForm, alerts *service.Notifier) *FormHandler {
	return &FormHandler{form: form, alerts: alerts}
}

// Get returns the current step and draft.
//
// @Summary      Create form state
// @Tags         form
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  service.FormState
// @Router       /products/form [get]
func (h *FormHandler) Get(c echo.Context) error {
	return c.JSON(http.StatusOK, h.form.Current())
}

// Update replaces the draft.
//
// @Summary      Edit the draft
// @Tags         form
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      domain.ProductDraft  true  "Draft fields"
// @Success      200   {object}  service.FormState
// @Router       /products/form [put]
func (h *FormHandler) Update(c echo.Context) error {
	var draft domain.ProductDraft
	if err := c.Bind(&draft); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	return c.JSON(http.StatusOK, h.form.Update(draft))
}

// Reset discards the draft.
//
// @Summary      Discard the draft
// @Tags         form
// @Security     BearerAuth
// @Success      200  {object}  service.FormState
// @Router       /products/form [delete]
func (h *FormHandler) Reset(c echo.Context) error {
	return c.JSON(http.StatusOK, h.form.Reset())
}

// Next validates the current step and moves forward.
//
// @Summary      Next step
// @Tags         form
// @Security     BearerAuth
// @Success      200  {object}  service.FormState
// @Failure      422  {object}  map[string]string
// @Router       /products/form/next [post]
func (h *FormHandler) Next(c echo.Context) error {
	st, err := h.form.Next()
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, st)
}

// Prev moves back one step.
//
// @Summary      Previous step
// @Tags         form
// @Security     BearerAuth
// @Success      200  {object}  service.FormState
// @Router       /products/form/prev [post]
func (h *FormHandler) Prev(c echo.Context) error {
	return c.JSON(http.StatusOK, h.form.Prev())
}

// Submit creates the product from the review step.
//
// @Summary      Submit the draft
// @Tags         form
// @Produce      json
// @Security     BearerAuth
// @Success      201  {object}  domain.Product
// @Failure      409  {object}  map[string]string
// @Failure      422  {object}  map[string]string
// @Router       /products/form/submit [post]
func (h *FormHandler) Submit(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}

	created, err := h.form.Submit(c.Request().Context(), sess)
	if err != nil {
		if raisesAlert(err) {
			h.alerts.Danger(alertMessage(err))
		}
		return err
	}

	h.alerts.Success("Product submitted for approval!")
	return c.JSON(http.StatusCreated, created)
}
