package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"marketplace-api/internal/dto"
	"marketplace-api/internal/service"
)

type PaymentHandler struct {
	paymentService service.PaymentService
}

func NewPaymentHandler(paymentService service.PaymentService) *PaymentHandler {
	return &PaymentHandler{
		paymentService: paymentService,
	}
}

func (h *PaymentHandler) Create(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	var input dto.PaymentTypeInput
	if err := c.Bind(&input); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	paymentType, err := h.paymentService.Create(ctx, userID, input)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusCreated, paymentType)
}

func (h *PaymentHandler) List(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	paymentTypes, err := h.paymentService.ListForUser(ctx, userID)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, paymentTypes)
}

func (h *PaymentHandler) Delete(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	if err := h.paymentService.Delete(ctx, userID, id); err != nil {
		return httpError(err)
	}

	return c.NoContent(http.StatusNoContent)
}
