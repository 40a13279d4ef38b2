package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/iliyamo/cinema-booking/internal/pkg/logger"
	"github.com/iliyamo/cinema-booking/internal/service"
)

// ErrorResponse is the body of every error reply.
type ErrorResponse struct {
	Error    string                 `json:"error"`
	Code     int                    `json:"code"`
	Problems []service.FieldProblem `json:"problems,omitempty"`
	Seats    []service.SeatRef      `json:"seats,omitempty"`
	Count    int                    `json:"active_bookings,omitempty"`
}

// statusOf maps business outcomes to HTTP status codes.
func statusOf(err error) int {
	switch {
	case errors.Is(err, service.ErrInvalidRequest), errors.Is(err, service.ErrUnsupportedDimension):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrSeatUnavailable),
		errors.Is(err, service.ErrSeatsAlreadyTaken),
		errors.Is(err, service.ErrSeatInUse),
		errors.Is(err, service.ErrRoomHasActiveBookings),
		errors.Is(err, service.ErrRoomExists):
		return http.StatusConflict
	case errors.Is(err, service.ErrRoomNotFound),
		errors.Is(err, service.ErrSeatNotFound),
		errors.Is(err, service.ErrBookingNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes err as an ErrorResponse.  Conflicts enumerate the
// seats involved and invalid requests list every bad field.
func respondError(c echo.Context, err error) error {
	code := statusOf(err)
	body := ErrorResponse{Error: err.Error(), Code: code}

	var ire *service.InvalidRequestError
	if errors.As(err, &ire) {
		body.Error = service.ErrInvalidRequest.Error()
		body.Problems = ire.Problems
	}
	var sce *service.SeatConflictError
	if errors.As(err, &sce) {
		body.Error = sce.Kind.Error()
		body.Seats = sce.Seats
	}
	var abe *service.ActiveBookingsError
	if errors.As(err, &abe) {
		body.Error = service.ErrRoomHasActiveBookings.Error()
		body.Count = abe.Count
	}
	if code >= http.StatusInternalServerError {
		logger.Error("request failed",
			zap.String("method", c.Request().Method),
			zap.String("path", c.Path()),
			zap.Error(err))
		// Storage details stay in the log.
		body.Error = http.StatusText(code)
		if errors.Is(err, service.ErrBookingFailed) {
			body.Error = service.ErrBookingFailed.Error()
		}
	}
	return c.JSON(code, body)
}

func badRequest(c echo.Context, field, reason string) error {
	return respondError(c, &service.InvalidRequestError{Problems: []service.FieldProblem{{Field: field, Reason: reason}}})
}

// CustomHTTPErrorHandler renders errors that escape the handlers, such as
// unknown routes or body size limits, in the same shape.
func CustomHTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	code := http.StatusInternalServerError
	message := http.StatusText(code)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		if m, ok := he.Message.(string); ok {
			message = m
		} else {
			message = http.StatusText(code)
		}
	}
	if code >= http.StatusInternalServerError {
		logger.Error("unhandled error", zap.Int("status", code), zap.String("path", c.Request().URL.Path), zap.Error(err))
	}
	if err := c.JSON(code, ErrorResponse{Error: message, Code: code}); err != nil {
		logger.Error("write error response failed", zap.Error(err))
	}
}
