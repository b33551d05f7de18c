package ginserver

import (
	"net/http"

	gin "github.com/gin-gonic/gin"

	"qbooking/internal/app/dto"
	availabilityapp "qbooking/internal/app/handlers/availability"
	"qbooking/internal/app/queries"
)

type AvailabilityHandler struct {
	Queries queries.Bus
}

// Check answers POST /bookings/check-availability.
func (h AvailabilityHandler) Check(c *gin.Context) {
	var req dto.CheckAvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, "invalid request body: "+err.Error())
		return
	}
	query := availabilityapp.CheckAvailabilityQuery{CheckAvailabilityRequest: req}
	result, err := queries.Ask[availabilityapp.CheckAvailabilityQuery, dto.AvailabilityResult](c.Request.Context(), h.Queries, query)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, result)
}

// AvailableDates answers GET /bookings/available-dates.
func (h AvailabilityHandler) AvailableDates(c *gin.Context) {
	var req dto.AvailableDatesRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		respondBadRequest(c, "invalid query parameters: "+err.Error())
		return
	}
	query := availabilityapp.GetAvailableDatesQuery{AvailableDatesRequest: req}
	result, err := queries.Ask[availabilityapp.GetAvailableDatesQuery, dto.AvailableDates](c.Request.Context(), h.Queries, query)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, result)
}

var _ AvailabilityHTTP = AvailabilityHandler{}
