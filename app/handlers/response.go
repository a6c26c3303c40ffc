package handlers

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/mohammedgidrah/testing-hotel-sub000/app/entities"
	"github.com/mohammedgidrah/testing-hotel-sub000/app/usecases"
)

// errorResponse renders err as {"message", "error"} plus field errors and,
// when present, the draft the request left behind.
func errorResponse(c echo.Context, err error, data interface{}) error {
	e := usecases.AsUseCaseError(err)
	body := echo.Map{"message": e.Message, "error": e.Kind}
	if len(e.Fields) > 0 {
		body["fields"] = e.Fields
	}
	if data != nil {
		body["data"] = data
	}
	return c.JSON(e.Code, body)
}

func draftResponse(c echo.Context, view entities.DraftView, err error) error {
	if err != nil {
		if view.ID == "" {
			return errorResponse(c, err, nil)
		}
		return errorResponse(c, err, view)
	}
	return c.JSON(http.StatusOK, echo.Map{"message": "success", "data": view})
}

func invalidFormat(c echo.Context) error {
	return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid request format", "error": usecases.KindValidation})
}

func invalidRequest(c echo.Context, err error) error {
	body := echo.Map{"message": "invalid request", "error": usecases.KindValidation}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			fields[fe.Field()] = fe.Tag()
		}
		body["fields"] = fields
	}
	return c.JSON(http.StatusBadRequest, body)
}

// bind decodes and validates the body into req; it writes the 400 response
// itself and reports false when the request is unusable.
func bind(c echo.Context, req interface{}) (bool, error) {
	if err := c.Bind(req); err != nil {
		return false, invalidFormat(c)
	}
	if err := c.Validate(req); err != nil {
		return false, invalidRequest(c, err)
	}
	return true, nil
}

func draftID(c echo.Context) (string, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return "", false
	}
	return id.String(), true
}

func invalidDraftID(c echo.Context) error {
	return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid draft id", "error": usecases.KindValidation})
}
