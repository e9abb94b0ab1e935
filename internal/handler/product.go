package handler

import (
	"io"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"marketplace-api/internal/dto"
	"marketplace-api/internal/service"
)

type ProductHandler struct {
	catalogService service.CatalogService
}

func NewProductHandler(catalogService service.CatalogService) *ProductHandler {
	return &ProductHandler{
		catalogService: catalogService,
	}
}

func pathID(c echo.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid "+name)
	}
	return uint(id), nil
}

func (h *ProductHandler) List(c echo.Context) error {
	ctx := c.Request().Context()

	products, err := h.catalogService.List(ctx, c.QueryParam("search"))
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, products)
}

func (h *ProductHandler) Get(c echo.Context) error {
	ctx := c.Request().Context()

	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	product, err := h.catalogService.Get(ctx, id)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, product)
}

// Create accepts multipart form data so a listing and its image arrive in one
// request; the image part is optional.
func (h *ProductHandler) Create(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := currentUserID(c)
	if err != nil {
		return err
	}

	input, err := bindProductInput(c)
	if err != nil {
		return err
	}

	var image io.Reader
	imageName := ""
	if file, ferr := c.FormFile("image"); ferr == nil {
		src, oerr := file.Open()
		if oerr != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "unreadable image upload")
		}
		defer src.Close()
		image = src
		imageName = file.Filename
	}

	product, err := h.catalogService.Create(ctx, userID, input, image, imageName)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusCreated, product)
}

func (h *ProductHandler) Update(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var input dto.ProductInput
	if err := c.Bind(&input); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid req body")
	}

	if err := h.catalogService.Update(ctx, userID, id, input); err != nil {
		return httpError(err)
	}

	return c.NoContent(http.StatusNoContent)
}

func (h *ProductHandler) Delete(c echo.Context) error {
	ctx := c.Request().Context()

	userID, err := currentUserID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	if err := h.catalogService.Delete(ctx, userID, id); err != nil {
		return httpError(err)
	}

	return c.NoContent(http.StatusNoContent)
}

func (h *ProductHandler) Categories(c echo.Context) error {
	ctx := c.Request().Context()

	categories, err := h.catalogService.Categories(ctx)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, categories)
}

func bindProductInput(c echo.Context) (dto.ProductInput, error) {
	var input dto.ProductInput

	price, err := decimal.NewFromString(c.FormValue("price"))
	if err != nil {
		return input, echo.NewHTTPError(http.StatusBadRequest, "invalid price")
	}
	quantity, err := strconv.Atoi(c.FormValue("quantity"))
	if err != nil {
		return input, echo.NewHTTPError(http.StatusBadRequest, "invalid quantity")
	}
	categoryID, err := strconv.ParseUint(c.FormValue("category_id"), 10, 32)
	if err != nil {
		return input, echo.NewHTTPError(http.StatusBadRequest, "invalid category_id")
	}

	input = dto.ProductInput{
		Title:       c.FormValue("title"),
		Description: c.FormValue("description"),
		Price:       price,
		Quantity:    quantity,
		City:        c.FormValue("city"),
		CategoryID:  uint(categoryID),
	}
	return input, nil
}
