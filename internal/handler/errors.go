package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"marketplace-api/internal/middleware"
	"marketplace-api/internal/service"
)

func httpError(err error) error {
	switch {
	case errors.Is(err, service.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrValidation):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrConflict):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrIntegrity):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	}
	return err
}

func currentUserID(c echo.Context) (string, error) {
	userID, _ := c.Get(middleware.UserIDKey).(string)
	if userID == "" {
		return "", echo.NewHTTPError(http.StatusUnauthorized, "no authenticated user")
	}
	return userID, nil
}
