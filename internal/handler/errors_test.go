package handler

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketplace-api/internal/service"
)

func TestHTTPErrorMapping(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{fmt.Errorf("%w: order 7", service.ErrNotFound), http.StatusNotFound},
		{fmt.Errorf("%w: a payment type must be selected", service.ErrValidation), http.StatusBadRequest},
		{fmt.Errorf("%w: order 7 was modified concurrently", service.ErrConflict), http.StatusConflict},
		{fmt.Errorf("%w: product 3 is referenced", service.ErrIntegrity), http.StatusConflict},
	}

	for _, tc := range cases {
		var httpErr *echo.HTTPError
		require.True(t, errors.As(httpError(tc.err), &httpErr))
		assert.Equal(t, tc.status, httpErr.Code)
	}
}

func TestHTTPErrorPassesUnknownThrough(t *testing.T) {
	unknown := errors.New("disk on fire")
	assert.Equal(t, unknown, httpError(unknown))
}
