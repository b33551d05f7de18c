package ginserver

import (
	"net/http"

	gin "github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"qbooking/internal/app/commands"
	"qbooking/internal/app/dto"
	bookingapp "qbooking/internal/app/handlers/booking"
)

type BookingHandler struct {
	Commands commands.Bus
	NewID    func() string
}

// Create holds rooms for a stay. Retrying with the same Idempotency-Key
// returns the first reservation instead of booking twice.
func (h BookingHandler) Create(c *gin.Context) {
	var req dto.ReserveRoomsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body: "+err.Error())
		return
	}
	cmd := bookingapp.ReserveRoomsCommand{
		ReserveRoomsRequest: req,
		ReservationID:       h.newID(),
		IdempotencyKeyV:     c.GetHeader("Idempotency-Key"),
	}
	result, err := commands.Dispatch[bookingapp.ReserveRoomsCommand, *dto.ReservationResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusCreated, result)
}

func (h BookingHandler) Cancel(c *gin.Context) {
	cmd := bookingapp.CancelReservationCommand{ReservationID: c.Param("id")}
	result, err := commands.Dispatch[bookingapp.CancelReservationCommand, *dto.CancellationResult](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, result)
}

func (h BookingHandler) newID() string {
	if h.NewID != nil {
		return h.NewID()
	}
	return uuid.NewString()
}

var _ BookingHTTP = BookingHandler{}
