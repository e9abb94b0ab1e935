package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"marketplace-api/internal/dto"
	"marketplace-api/internal/service"
)

type OrderHandler struct {
	checkoutService service.CheckoutService
	reportService   service.ReportService
}

func NewOrderHandler(checkoutService service.CheckoutService, reportService service.ReportService) *OrderHandler {
	return &OrderHandler{
		checkoutService: checkoutService,
		reportService:   reportService,
	}
}

// Complete finalizes the purchase and sends the buyer back to the listing.
func (h *OrderHandler) Complete(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	var req dto.CompleteOrderRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	if _, err := h.checkoutService.Complete(ctx, userID, req.OrderID, req.PaymentTypeID); err != nil {
		return httpError(err)
	}

	return c.Redirect(http.StatusSeeOther, "/api/products")
}

func (h *OrderHandler) History(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	entries, err := h.reportService.OrderHistory(ctx, userID)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, entries)
}
