package http

import (
	"errors"
	"log/slog"
	"net/http"

	"fulfillment/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

const (
	kindUnauthorized = "unauthorized"
	kindRateLimited  = "rate_limited"
)

var kindStatus = map[errs.Kind]int{
	errs.KindValidation:             http.StatusBadRequest,
	errs.KindNotFound:               http.StatusNotFound,
	errs.KindInsufficientStock:      http.StatusUnprocessableEntity,
	errs.KindInsufficientBonus:      http.StatusUnprocessableEntity,
	errs.KindNoAvailableRestaurant:  http.StatusUnprocessableEntity,
	errs.KindRestaurantClosed:       http.StatusUnprocessableEntity,
	errs.KindMissingCoordinates:     http.StatusUnprocessableEntity,
	errs.KindInvalidStateTransition: http.StatusConflict,
	errs.KindConflict:               http.StatusConflict,
	errs.KindForbidden:              http.StatusForbidden,
	errs.KindPaymentProvider:        http.StatusBadGateway,
	errs.KindPaymentIncomplete:      http.StatusAccepted,
	errs.KindInternal:               http.StatusInternalServerError,
}

// newErrorResponse classifies err. Internal errors are reported without their
// message.
func newErrorResponse(err error) ErrorResponse {
	kind := errs.KindOf(err)
	status, ok := kindStatus[kind]
	if !ok {
		status = http.StatusInternalServerError
	}
	message := err.Error()
	if status == http.StatusInternalServerError {
		message = "internal error"
	}
	return ErrorResponse{Code: status, Kind: string(kind), Message: message}
}

// NewErrorHandler renders every error returned by a handler or middleware as
// an ErrorResponse.
func NewErrorHandler(logger *slog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var resp ErrorResponse
		var httpErr *echo.HTTPError
		if errors.As(err, &httpErr) {
			resp = newHTTPErrorResponse(httpErr)
		} else {
			resp = newErrorResponse(err)
		}

		if resp.Code >= http.StatusInternalServerError {
			logger.ErrorContext(c.Request().Context(), "request failed",
				"method", c.Request().Method, "path", c.Path(), "error", err)
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(resp.Code)
		} else {
			err = c.JSON(resp.Code, resp)
		}
		if err != nil {
			logger.ErrorContext(c.Request().Context(), "write error response", "error", err)
		}
	}
}

func newHTTPErrorResponse(e *echo.HTTPError) ErrorResponse {
	kind := string(errs.KindInternal)
	switch {
	case e.Code == http.StatusUnauthorized:
		kind = kindUnauthorized
	case e.Code == http.StatusTooManyRequests:
		kind = kindRateLimited
	case e.Code == http.StatusConflict:
		kind = string(errs.KindConflict)
	case e.Code == http.StatusForbidden:
		kind = string(errs.KindForbidden)
	case e.Code == http.StatusNotFound || e.Code == http.StatusMethodNotAllowed:
		kind = string(errs.KindNotFound)
	case e.Code < http.StatusInternalServerError:
		kind = string(errs.KindValidation)
	}

	message := http.StatusText(e.Code)
	if m, ok := e.Message.(string); ok && m != "" {
		message = m
	}
	return ErrorResponse{Code: e.Code, Kind: kind, Message: message}
}
