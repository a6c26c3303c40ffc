package handlers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/mohammedgidrah/testing-hotel-sub000/app/middleware"
	"github.com/mohammedgidrah/testing-hotel-sub000/app/usecases"
)

type FollowUpHandler struct {
	followUpUsecase usecases.FollowUpUsecase
}

func NewFollowUpHandler(followUpUsecase usecases.FollowUpUsecase) *FollowUpHandler {
	return &FollowUpHandler{followUpUsecase: followUpUsecase}
}

// GetFollowUps godoc
// @Summary List payment follow-ups
// @Description Bookings whose payment could not be recorded
// @Tags Payment
// @Produce json
// @Security BearerAuth
// @Param status query string false "open, retrying or resolved"
// @Success 200 {object} entities.FollowUpListResponse
// @Failure 400 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /payments/follow-ups [get]
func (h *FollowUpHandler) GetFollowUps(c echo.Context) error {
	res, err := h.followUpUsecase.List(c.Request().Context(), c.QueryParam("status"))
	if err != nil {
		return errorResponse(c, err, nil)
	}
	return c.JSON(http.StatusOK, res)
}

// RetryFollowUp godoc
// @Summary Retry a payment
// @Description Record the payment again and close the follow-up
// @Tags Payment
// @Produce json
// @Security BearerAuth
// @Param id path int true "Follow-up ID"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Failure 502 {object} map[string]string
// @Router /payments/follow-ups/{id}/retry [post]
func (h *FollowUpHandler) RetryFollowUp(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid follow-up id", "error": usecases.KindValidation})
	}

	payment, err := h.followUpUsecase.Retry(c.Request().Context(), middleware.SessionFrom(c), id)
	if err != nil {
		return errorResponse(c, err, nil)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "payment recorded", "data": payment})
}

// ResolveFollowUp godoc
// @Summary Close a payment follow-up
// @Tags Payment
// @Produce json
// @Security BearerAuth
// @Param id path int true "Follow-up ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /payments/follow-ups/{id}/resolve [post]
func (h *FollowUpHandler) ResolveFollowUp(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid follow-up id", "error": usecases.KindValidation})
	}

	if err := h.followUpUsecase.Resolve(c.Request().Context(), id); err != nil {
		return errorResponse(c, err, nil)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "payment follow-up resolved"})
}
