package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"marketplace-api/internal/service"
)

type ReportHandler struct {
	reportService service.ReportService
}

func NewReportHandler(reportService service.ReportService) *ReportHandler {
	return &ReportHandler{
		reportService: reportService,
	}
}

func (h *ReportHandler) AbandonedProducts(c echo.Context) error {
	ctx := c.Request().Context()

	rows, err := h.reportService.AbandonedProducts(ctx)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, rows)
}

func (h *ReportHandler) MultipleOpenOrders(c echo.Context) error {
	ctx := c.Request().Context()

	rows, err := h.reportService.MultipleOpenOrders(ctx)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, rows)
}

func (h *ReportHandler) SellerProducts(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	rows, err := h.reportService.SellerProductStatus(ctx, userID)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, rows)
}
