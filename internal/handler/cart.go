package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"marketplace-api/internal/dto"
	"marketplace-api/internal/service"
)

type CartHandler struct {
	cartService service.CartService
}

func NewCartHandler(cartService service.CartService) *CartHandler {
	return &CartHandler{
		cartService: cartService,
	}
}

func (h *CartHandler) View(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	cart, err := h.cartService.ViewCart(ctx, userID)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, cart)
}

func (h *CartHandler) AddItem(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	var req dto.AddCartItemRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}
	if req.ProductID == 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "product_id is required")
	}

	order, err := h.cartService.AddItem(ctx, userID, req.ProductID)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusCreated, map[string]uint{"order_id": order.ID})
}

func (h *CartHandler) RemoveItems(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	productID, err := pathID(c, "productID")
	if err != nil {
		return err
	}

	if err := h.cartService.RemoveItems(ctx, userID, productID); err != nil {
		return httpError(err)
	}

	return c.NoContent(http.StatusNoContent)
}

func (h *CartHandler) DeleteOrder(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	orderID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	if err := h.cartService.DeleteOrder(ctx, userID, orderID); err != nil {
		return httpError(err)
	}

	return c.NoContent(http.StatusNoContent)
}
