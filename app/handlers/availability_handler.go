package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/mohammedgidrah/testing-hotel-sub000/app/middleware"
	"github.com/mohammedgidrah/testing-hotel-sub000/app/usecases"
)

type AvailabilityHandler struct {
	availabilityUsecase usecases.AvailabilityUsecase
}

func NewAvailabilityHandler(availabilityUsecase usecases.AvailabilityUsecase) *AvailabilityHandler {
	return &AvailabilityHandler{availabilityUsecase: availabilityUsecase}
}

// GetBlockedDates godoc
// @Summary Get the blocked dates of a room
// @Description Get the inclusive date ranges occupied by the room's reservations and the expanded list of blocked days
// @Tags Availability
// @Produce json
// @Security BearerAuth
// @Param id path int true "Room ID"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Failure 502 {object} map[string]string
// @Router /rooms/{id}/blocked-dates [get]
func (h *AvailabilityHandler) GetBlockedDates(c echo.Context) error {
	roomID, err := strconv.Atoi(c.Param("id"))
	if err != nil || roomID < 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid room id", "error": usecases.KindValidation})
	}

	ranges, err := h.availabilityUsecase.GetBlockedRanges(c.Request().Context(), middleware.SessionFrom(c), roomID)
	if err != nil {
		return errorResponse(c, err, nil)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message": "success",
		"data": echo.Map{
			"room_id": roomID,
			"ranges":  ranges,
			"dates":   usecases.BlockedDates(ranges),
		},
	})
}
