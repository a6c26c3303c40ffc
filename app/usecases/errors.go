package usecases

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/mohammedgidrah/testing-hotel-sub000/app/entities"
)

type ErrorKind string

const (
	KindFetch        ErrorKind = "fetch_error"
	KindValidation   ErrorKind = "validation_error"
	KindConflict     ErrorKind = "conflict_error"
	KindNetwork      ErrorKind = "network_error"
	KindPartial      ErrorKind = "partial_failure"
	KindNotFound     ErrorKind = "not_found"
	KindForbidden    ErrorKind = "forbidden"
	KindUnauthorized ErrorKind = "unauthorized"
	KindInProgress   ErrorKind = "submission_in_progress"
	KindInternal     ErrorKind = "internal_error"
)

// UseCaseError is returned by every usecase; handlers answer with Code and
// Message. Fields carries per-field messages for validation errors.
type UseCaseError struct {
	Kind    ErrorKind
	Code    int
	Message string
	Fields  map[string]string
	Err     error
}

func (e *UseCaseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *UseCaseError) Unwrap() error { return e.Err }

// Is matches sentinels by kind, so errors.Is(err, ErrConflict) holds for any
// conflict error.
func (e *UseCaseError) Is(target error) bool {
	t, ok := target.(*UseCaseError)
	return ok && t.Message == "" && t.Kind == e.Kind
}

var (
	ErrFetch        = &UseCaseError{Kind: KindFetch}
	ErrValidation   = &UseCaseError{Kind: KindValidation}
	ErrConflict     = &UseCaseError{Kind: KindConflict}
	ErrNetwork      = &UseCaseError{Kind: KindNetwork}
	ErrPartial      = &UseCaseError{Kind: KindPartial}
	ErrNotFound     = &UseCaseError{Kind: KindNotFound}
	ErrForbidden    = &UseCaseError{Kind: KindForbidden}
	ErrUnauthorized = &UseCaseError{Kind: KindUnauthorized}
	ErrInProgress   = &UseCaseError{Kind: KindInProgress}
)

func fetchError(err error) *UseCaseError {
	return &UseCaseError{Kind: KindFetch, Code: http.StatusBadGateway, Message: "could not load room availability, retry", Err: err}
}

func validationError(message string) *UseCaseError {
	return &UseCaseError{Kind: KindValidation, Code: http.StatusBadRequest, Message: message}
}

func fieldErrors(fields map[string]string) *UseCaseError {
	return &UseCaseError{Kind: KindValidation, Code: http.StatusBadRequest, Message: "required fields are missing", Fields: fields}
}

func conflictError(err error) *UseCaseError {
	return &UseCaseError{Kind: KindConflict, Code: http.StatusConflict, Message: "the selected dates were booked meanwhile, pick other dates", Err: err}
}

func networkError(message string, err error) *UseCaseError {
	return &UseCaseError{Kind: KindNetwork, Code: http.StatusBadGateway, Message: message, Err: err}
}

func notFoundError(message string, err error) *UseCaseError {
	return &UseCaseError{Kind: KindNotFound, Code: http.StatusNotFound, Message: message, Err: err}
}

func forbiddenError(message string) *UseCaseError {
	return &UseCaseError{Kind: KindForbidden, Code: http.StatusForbidden, Message: message}
}

func unauthorizedError(err error) *UseCaseError {
	return &UseCaseError{Kind: KindUnauthorized, Code: http.StatusUnauthorized, Message: "session is no longer valid", Err: err}
}

func internalError(err error) *UseCaseError {
	return &UseCaseError{Kind: KindInternal, Code: http.StatusInternalServerError, Message: "internal server error", Err: err}
}

func inProgressError() *UseCaseError {
	return &UseCaseError{Kind: KindInProgress, Code: http.StatusConflict, Message: "a submission for this booking is already in progress"}
}

func retryInProgressError() *UseCaseError {
	return &UseCaseError{Kind: KindInProgress, Code: http.StatusConflict, Message: "a retry for this payment follow-up is already in progress"}
}

// PartialFailureError means the reservation exists but its payment could not
// be recorded. It must not be treated as a failed booking.
type PartialFailureError struct {
	Result     entities.SubmitResult
	FollowUpID int
	Err        error
}

func (e *PartialFailureError) Error() string {
	return fmt.Sprintf("%s: booking %d created but payment recording failed: %v", KindPartial, e.Result.Reservation.ID, e.Err)
}

func (e *PartialFailureError) Unwrap() error { return e.Err }

func (e *PartialFailureError) Is(target error) bool {
	return target == ErrPartial
}

// AsUseCaseError returns err's UseCaseError, or a generic internal one.
func AsUseCaseError(err error) *UseCaseError {
	var ucErr *UseCaseError
	if errors.As(err, &ucErr) {
		return ucErr
	}
	return internalError(err)
}
