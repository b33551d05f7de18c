package ginserver

import (
	"net/http"
	"strconv"

	gin "github.com/gin-gonic/gin"

	"qbooking/internal/app/dto"
	holidaysapp "qbooking/internal/app/handlers/holidays"
	inventoryapp "qbooking/internal/app/handlers/inventory"
	"qbooking/internal/app/queries"
)

type InventoryHandler struct {
	Queries queries.Bus
}

func (h InventoryHandler) RoomType(c *gin.Context) {
	propertyID, err := strconv.ParseInt(c.Param("propertyId"), 10, 64)
	if err != nil {
		respondBadRequest(c, "propertyId must be an integer")
		return
	}
	roomTypeID, err := strconv.ParseInt(c.Param("roomTypeId"), 10, 64)
	if err != nil {
		respondBadRequest(c, "roomTypeId must be an integer")
		return
	}
	query := inventoryapp.GetRoomTypeQuery{PropertyID: propertyID, RoomTypeID: roomTypeID}
	result, err := queries.Ask[inventoryapp.GetRoomTypeQuery, dto.RoomType](c.Request.Context(), h.Queries, query)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, result)
}

func (h InventoryHandler) RoomTypes(c *gin.Context) {
	propertyID, err := strconv.ParseInt(c.Param("propertyId"), 10, 64)
	if err != nil {
		respondBadRequest(c, "propertyId must be an integer")
		return
	}
	query := inventoryapp.ListRoomTypesQuery{PropertyID: propertyID}
	result, err := queries.Ask[inventoryapp.ListRoomTypesQuery, []dto.RoomType](c.Request.Context(), h.Queries, query)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, result)
}

func (h InventoryHandler) Holidays(c *gin.Context) {
	year, err := strconv.Atoi(c.Query("year"))
	if err != nil {
		respondBadRequest(c, "year must be an integer")
		return
	}
	result, err := queries.Ask[holidaysapp.ListHolidaysQuery, dto.HolidayCollection](c.Request.Context(), h.Queries, holidaysapp.ListHolidaysQuery{Year: year})
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, http.StatusOK, result)
}

var _ InventoryHTTP = InventoryHandler{}
