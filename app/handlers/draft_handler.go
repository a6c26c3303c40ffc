package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/mohammedgidrah/testing-hotel-sub000/app/entities"
	"github.com/mohammedgidrah/testing-hotel-sub000/app/middleware"
	"github.com/mohammedgidrah/testing-hotel-sub000/app/usecases"
)

type DraftHandler struct {
	selectionUsecase usecases.SelectionUsecase
	bookingUsecase   usecases.BookingUsecase
}

func NewDraftHandler(selectionUsecase usecases.SelectionUsecase, bookingUsecase usecases.BookingUsecase) *DraftHandler {
	return &DraftHandler{selectionUsecase: selectionUsecase, bookingUsecase: bookingUsecase}
}

// OpenDraft godoc
// @Summary Open a booking draft
// @Description Open a booking draft, loading guests and services. An optional room_id selects the room right away.
// @Tags Booking
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body entities.OpenDraftRequest false "Room to book"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Failure 502 {object} map[string]string
// @Router /booking/drafts [post]
func (h *DraftHandler) OpenDraft(c echo.Context) error {
	var req entities.OpenDraftRequest
	if ok, err := bind(c, &req); !ok {
		return err
	}

	view, err := h.selectionUsecase.Open(c.Request().Context(), middleware.SessionFrom(c), req)
	if err != nil {
		return draftResponse(c, view, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"message": "booking draft opened", "data": view})
}

// GetDraft godoc
// @Summary Get a booking draft
// @Description Get the draft state, blocked ranges, selection and pricing
// @Tags Booking
// @Produce json
// @Security BearerAuth
// @Param id path string true "Draft ID"
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /booking/drafts/{id} [get]
func (h *DraftHandler) GetDraft(c echo.Context) error {
	id, ok := draftID(c)
	if !ok {
		return invalidDraftID(c)
	}
	view, err := h.selectionUsecase.Get(c.Request().Context(), middleware.SessionFrom(c), id)
	return draftResponse(c, view, err)
}

// SelectRoom godoc
// @Summary Select the room of a draft
// @Description Clears the dates and loads the room's blocked dates
// @Tags Booking
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Draft ID"
// @Param request body entities.SelectRoomRequest true "Room"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Failure 502 {object} map[string]string
// @Router /booking/drafts/{id}/room [put]
func (h *DraftHandler) SelectRoom(c echo.Context) error {
	id, ok := draftID(c)
	if !ok {
		return invalidDraftID(c)
	}
	var req entities.SelectRoomRequest
	if ok, err := bind(c, &req); !ok {
		return err
	}

	view, err := h.selectionUsecase.SelectRoom(c.Request().Context(), middleware.SessionFrom(c), id, req.RoomID)
	return draftResponse(c, view, err)
}

// RetryAvailability godoc
// @Summary Reload blocked dates
// @Description Reload the blocked dates of the draft's room after a failure
// @Tags Booking
// @Produce json
// @Security BearerAuth
// @Param id path string true "Draft ID"
// @Success 200 {object} map[string]interface{}
// @Failure 502 {object} map[string]string
// @Router /booking/drafts/{id}/availability/retry [post]
func (h *DraftHandler) RetryAvailability(c echo.Context) error {
	id, ok := draftID(c)
	if !ok {
		return invalidDraftID(c)
	}
	view, err := h.selectionUsecase.RetryAvailability(c.Request().Context(), middleware.SessionFrom(c), id)
	return draftResponse(c, view, err)
}

// PickCheckIn godoc
// @Summary Pick the check-in date
// @Tags Booking
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Draft ID"
// @Param request body entities.PickDateRequest true "Date (YYYY-MM-DD)"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Router /booking/drafts/{id}/check-in [put]
func (h *DraftHandler) PickCheckIn(c echo.Context) error {
	id, ok := draftID(c)
	if !ok {
		return invalidDraftID(c)
	}
	var req entities.PickDateRequest
	if ok, err := bind(c, &req); !ok {
		return err
	}

	view, err := h.selectionUsecase.PickCheckIn(c.Request().Context(), middleware.SessionFrom(c), id, req.Date)
	return draftResponse(c, view, err)
}

// PickCheckOut godoc
// @Summary Pick the check-out date
// @Description A check-out on or before the check-in leaves the draft in range_invalid
// @Tags Booking
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Draft ID"
// @Param request body entities.PickDateRequest true "Date (YYYY-MM-DD)"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Router /booking/drafts/{id}/check-out [put]
func (h *DraftHandler) PickCheckOut(c echo.Context) error {
	id, ok := draftID(c)
	if !ok {
		return invalidDraftID(c)
	}
	var req entities.PickDateRequest
	if ok, err := bind(c, &req); !ok {
		return err
	}

	view, err := h.selectionUsecase.PickCheckOut(c.Request().Context(), middleware.SessionFrom(c), id, req.Date)
	return draftResponse(c, view, err)
}

// SelectGuest godoc
// @Summary Select the guest
// @Tags Booking
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Draft ID"
// @Param request body entities.SelectGuestRequest true "Guest"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Router /booking/drafts/{id}/guest [put]
func (h *DraftHandler) SelectGuest(c echo.Context) error {
	id, ok := draftID(c)
	if !ok {
		return invalidDraftID(c)
	}
	var req entities.SelectGuestRequest
	if ok, err := bind(c, &req); !ok {
		return err
	}

	view, err := h.selectionUsecase.SelectGuest(c.Request().Context(), middleware.SessionFrom(c), id, req.GuestID)
	return draftResponse(c, view, err)
}

// SetServices godoc
// @Summary Replace the selected services
// @Tags Booking
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Draft ID"
// @Param request body entities.SetServicesRequest true "Service IDs"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Router /booking/drafts/{id}/services [put]
func (h *DraftHandler) SetServices(c echo.Context) error {
	id, ok := draftID(c)
	if !ok {
		return invalidDraftID(c)
	}
	var req entities.SetServicesRequest
	if ok, err := bind(c, &req); !ok {
		return err
	}

	view, err := h.selectionUsecase.SetServices(c.Request().Context(), middleware.SessionFrom(c), id, req.ServiceIDs)
	return draftResponse(c, view, err)
}

// ToggleService godoc
// @Summary Toggle one service
// @Tags Booking
// @Produce json
// @Security BearerAuth
// @Param id path string true "Draft ID"
// @Param serviceId path int true "Service ID"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Router /booking/drafts/{id}/services/{serviceId}/toggle [post]
func (h *DraftHandler) ToggleService(c echo.Context) error {
	id, ok := draftID(c)
	if !ok {
		return invalidDraftID(c)
	}
	serviceID, err := strconv.Atoi(c.Param("serviceId"))
	if err != nil || serviceID <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid service id", "error": usecases.KindValidation})
	}

	view, err := h.selectionUsecase.ToggleService(c.Request().Context(), middleware.SessionFrom(c), id, serviceID)
	return draftResponse(c, view, err)
}

// SetPayment godoc
// @Summary Set the payment status
// @Description payment_method is required when payment_status is paid
// @Tags Booking
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Draft ID"
// @Param request body entities.SetPaymentRequest true "Payment"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Router /booking/drafts/{id}/payment [put]
func (h *DraftHandler) SetPayment(c echo.Context) error {
	id, ok := draftID(c)
	if !ok {
		return invalidDraftID(c)
	}
	var req entities.SetPaymentRequest
	if ok, err := bind(c, &req); !ok {
		return err
	}

	view, err := h.selectionUsecase.SetPayment(c.Request().Context(), middleware.SessionFrom(c), id, req)
	return draftResponse(c, view, err)
}

// SubmitDraft godoc
// @Summary Submit the booking
// @Description Creates the reservation and, when paid, the payment. A failed payment after a created reservation answers 202 with error partial_failure.
// @Tags Booking
// @Produce json
// @Security BearerAuth
// @Param id path string true "Draft ID"
// @Success 201 {object} map[string]interface{}
// @Success 202 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Failure 502 {object} map[string]string
// @Router /booking/drafts/{id}/submit [post]
func (h *DraftHandler) SubmitDraft(c echo.Context) error {
	id, ok := draftID(c)
	if !ok {
		return invalidDraftID(c)
	}

	result, view, err := h.selectionUsecase.Submit(c.Request().Context(), middleware.SessionFrom(c), id)
	if err != nil {
		var partial *usecases.PartialFailureError
		if errors.As(err, &partial) {
			return c.JSON(http.StatusAccepted, echo.Map{
				"message":      "booking created but the payment could not be recorded",
				"error":        usecases.KindPartial,
				"follow_up_id": partial.FollowUpID,
				"data":         echo.Map{"booking": partial.Result, "draft": view},
			})
		}
		return draftResponse(c, view, err)
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"message": "booking created successfully",
		"data":    echo.Map{"booking": result, "draft": view},
	})
}

// CancelDraft godoc
// @Summary Cancel a booking draft
// @Tags Booking
// @Produce json
// @Security BearerAuth
// @Param id path string true "Draft ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Failure 409 {object} map[string]string
// @Router /booking/drafts/{id} [delete]
func (h *DraftHandler) CancelDraft(c echo.Context) error {
	id, ok := draftID(c)
	if !ok {
		return invalidDraftID(c)
	}
	if err := h.selectionUsecase.Cancel(c.Request().Context(), middleware.SessionFrom(c), id); err != nil {
		return errorResponse(c, err, nil)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "booking draft cancelled"})
}

// Quote godoc
// @Summary Price a stay
// @Description Price a room for a date range and services without opening a draft
// @Tags Booking
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body entities.QuoteRequest true "Quote"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /booking/quote [post]
func (h *DraftHandler) Quote(c echo.Context) error {
	var req entities.QuoteRequest
	if ok, err := bind(c, &req); !ok {
		return err
	}

	quote, err := h.bookingUsecase.Quote(c.Request().Context(), middleware.SessionFrom(c), req)
	if err != nil {
		return errorResponse(c, err, nil)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "success", "data": quote})
}
