package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/roletapro/roleta-client/internal/core/domain"
	"github.com/roletapro/roleta-client/pkg/apiclient"
)

// errorResponse uses the backend's envelope so Stripe and operators see the
// same shape whichever side failed.
type errorResponse struct {
	Detail string `json:"detail"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - maps domain errors to 4xx codes,
//   - passes backend HTTP errors through with their status and detail,
//   - reports an unreachable backend as 502,
//   - logs anything else and answers a generic 500.
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c)
		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, errorResponse{Detail: msg})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context) (int, string) {
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	switch {
	case errors.Is(err, domain.ErrMissingSignature):
		return http.StatusBadRequest, domain.ErrMissingSignature.Error()
	case errors.Is(err, domain.ErrInvalidWebhookPayload):
		return http.StatusBadRequest, err.Error()
	}

	var apiErr *apiclient.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Kind {
		case apiclient.KindHTTP:
			return apiErr.Status, apiErr.Message
		case apiclient.KindTransport:
			log.Warn().Err(err).Str("path", c.Path()).Msg("backend unreachable")
			return http.StatusBadGateway, "backend unavailable"
		}
	}

	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error"
}
