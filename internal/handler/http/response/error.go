package response

import (
	"errors"
	"net/http"

	"github.com/cmlabs-hris/leave-dashboard-go/internal/domain/leave"
	"github.com/cmlabs-hris/leave-dashboard-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	case errors.Is(err, leave.ErrAmbiguousEmployee):
		Conflict(w, "Employee name matches more than one employee")
	case errors.Is(err, leave.ErrAppendFailed):
		BadGateway(w, "Leave registration could not be saved")
	case errors.Is(err, leave.ErrMissingColumn), errors.Is(err, leave.ErrWorksheetNotFound):
		InternalServerError(w, "Leave store is misconfigured")
	case errors.Is(err, leave.ErrStoreUnavailable):
		BadGateway(w, "Leave store unavailable")

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}

// Notice returns the user-facing text for an error, used by the dashboard.
func Notice(err error) string {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		return "Please check the form: " + validationErrs.Error()
	}
	switch {
	case errors.Is(err, leave.ErrAmbiguousEmployee):
		return "Employee name matches more than one employee; registration was not saved."
	case errors.Is(err, leave.ErrAppendFailed):
		return "Leave registration could not be saved. Please try again."
	case errors.Is(err, leave.ErrMissingColumn), errors.Is(err, leave.ErrWorksheetNotFound):
		return "Leave store is misconfigured."
	case errors.Is(err, leave.ErrStoreUnavailable):
		return "Leave store unavailable."
	default:
		return "An unexpected error occurred."
	}
}
