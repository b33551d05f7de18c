package ginserver

import (
	"errors"
	"net/http"
	"strings"

	gin "github.com/gin-gonic/gin"

	"qbooking/internal/app/middleware"
	"qbooking/internal/domain/calendar"
	"qbooking/internal/domain/inventory"
	"qbooking/internal/domain/shared/daterange"
	"qbooking/internal/infra/validation"
)

// envelope is the response shape every endpoint shares.
type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

func respondOK(c *gin.Context, status int, data any) {
	c.JSON(status, envelope{Success: true, Data: data})
}

func respondError(c *gin.Context, err error) {
	status := statusFor(err)
	_ = c.Error(err)
	c.AbortWithStatusJSON(status, envelope{Success: false, Message: messageFor(err, status)})
}

func respondBadRequest(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, envelope{Success: false, Message: message})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, validation.ErrInvalid),
		errors.Is(err, inventory.ErrInvalidBookingQuery),
		errors.Is(err, daterange.ErrInvalidRange),
		errors.Is(err, daterange.ErrInvalidDay),
		errors.Is(err, calendar.ErrInvalidMonth):
		return http.StatusBadRequest
	case errors.Is(err, inventory.ErrPropertyNotFound),
		errors.Is(err, inventory.ErrRoomTypeNotFound),
		errors.Is(err, inventory.ErrReservationNotFound):
		return http.StatusNotFound
	case errors.Is(err, inventory.ErrInsufficientRooms),
		errors.Is(err, inventory.ErrConcurrentUpdate),
		errors.Is(err, inventory.ErrReservationInactive),
		errors.Is(err, middleware.ErrIdempotencyKeyReused):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func messageFor(err error, status int) string {
	if status == http.StatusInternalServerError {
		return "internal error"
	}
	msg := err.Error()
	if errors.Is(err, inventory.ErrInvalidBookingQuery) {
		msg = strings.TrimPrefix(msg, inventory.ErrInvalidBookingQuery.Error()+": ")
	}
	return msg
}
