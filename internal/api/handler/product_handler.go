package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/retailflow/plm-console/internal/core/domain"
	"github.com/retailflow/plm-console/internal/core/ports"
	"github.com/retailflow/plm-console/internal/core/service"
)

type ProductHandler struct {
	products ports.ProductService
	board    *service.ProductBoard
	guard    *service.InFlight
	alerts   *service.Notifier
	log      zerolog.Logger
}

func NewProductHandler(
	products ports.ProductService,
	board *service.ProductBoard,
	guard *service.InFlight,
	alerts *service.Notifier,
	log zerolog.Logger,
) *ProductHandler {
	return &ProductHandler{
		products: products,
		board:    board,
		guard:    guard,
		alerts:   alerts,
		log:      log,
	}
}

// List reloads the product board and returns the products matching search.
//
// @Summary      List products
// @Tags         products
// @Produce      json
// @Security     BearerAuth
// @Param        status  query     string  false  "Lifecycle status filter (server-side)"
// @Param        search  query     string  false  "Case-insensitive name/description filter"
// @Success      200     {object}  productListResponse
// @Failure      400     {object}  map[string]string
// @Failure      409     {object}  map[string]string
// @Failure      502     {object}  map[string]string
// @Router       /products [get]
func (h *ProductHandler) List(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}

	var status domain.ProductStatus
	if raw := c.QueryParam("status"); raw != "" {
		if status, err = domain.ParseProductStatus(raw); err != nil {
			return err
		}
	}
	search := c.QueryParam("search")

	if _, err := h.board.Refresh(c.Request().Context(), sess, status); err != nil {
		h.alert(err)
		return err
	}

	visible := h.board.Visible(search)
	return c.JSON(http.StatusOK, productListResponse{
		Status:   status,
		Search:   search,
		Total:    len(visible),
		Products: newProductViews(visible, sess),
	})
}

// Advance moves a product in the current view to its successor status.
//
// @Summary      Advance product status
// @Tags         products
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Product ID"
// @Success      200  {object}  advanceResponse
// @Failure      404  {object}  map[string]string
// @Failure      409  {object}  map[string]string
// @Failure      422  {object}  map[string]string
// @Router       /products/{id}/advance [post]
func (h *ProductHandler) Advance(c echo.Context) error {
	sess, err := ctxSession(c)
	if err != nil {
		return err
	}

	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid product id")
	}

	// 1. Only products the operator can see may be advanced.
	product, err := h.board.Find(id)
	if err != nil {
		return err
	}

	// 2. Terminal statuses offer no advance.
	next, ok := domain.NextStatus(product.Status)
	if !ok {
		return fmt.Errorf("product %d in %s: %w", id, product.Status, domain.ErrNoSuccessor)
	}

	// 3. One request per product at a time.
	err = h.guard.Do(service.AdvanceAction(id), func() error {
		return h.products.RequestAdvance(c.Request().Context(), sess, product, next)
	})
	if err != nil {
		h.alert(err)
		return err
	}
	h.alerts.Success(fmt.Sprintf("Product status updated to %s", next))

	// 4. Reload the view the operator was looking at.
	if _, err := h.board.Refresh(c.Request().Context(), sess, h.board.Status()); err != nil && !errors.Is(err, domain.ErrStaleResult) {
		h.log.Warn().Err(err).Int64("product_id", id).Msg("refresh after advance failed")
		h.alert(err)
	}

	return c.JSON(http.StatusOK, advanceResponse{ID: id, From: product.Status, To: next})
}

func (h *ProductHandler) alert(err error) {
	if raisesAlert(err) {
		h.alerts.Danger(alertMessage(err))
	}
}
