package handlers

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mohammedgidrah/testing-hotel-sub000/app/middleware"
	"github.com/mohammedgidrah/testing-hotel-sub000/app/usecases"
)

type SessionHandler struct {
	selectionUsecase usecases.SelectionUsecase
}

func NewSessionHandler(selectionUsecase usecases.SelectionUsecase) *SessionHandler {
	return &SessionHandler{selectionUsecase: selectionUsecase}
}

// GetSession godoc
// @Summary Get the current session
// @Tags Session
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} map[string]string
// @Router /session [get]
func (h *SessionHandler) GetSession(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"message": "success", "data": middleware.SessionFrom(c).Info()})
}

// Logout godoc
// @Summary Log out
// @Description Clear the session and drop the caller's open booking drafts
// @Tags Session
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} map[string]string
// @Router /session/logout [post]
func (h *SessionHandler) Logout(c echo.Context) error {
	sess := middleware.SessionFrom(c)

	dropped, err := h.selectionUsecase.DropOwner(c.Request().Context(), sess.Username())
	sess.Clear()
	if err != nil {
		return errorResponse(c, err, nil)
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "logged out", "drafts_dropped": dropped})
}
