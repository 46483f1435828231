package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	approvaldomain "github.com/velobay/freightdesk/internal/approval/domain"
	carrierdomain "github.com/velobay/freightdesk/internal/carrier/domain"
	catalogdomain "github.com/velobay/freightdesk/internal/catalog/domain"
	freightdomain "github.com/velobay/freightdesk/internal/freight/domain"
	multiplierdomain "github.com/velobay/freightdesk/internal/multiplier/domain"
)

type apiError struct {
	status  int
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

func (e *apiError) Error() string { return e.Code }

// ErrNotFound is the generic 404 for routes that hide their existence.
var ErrNotFound = &apiError{status: http.StatusNotFound, Code: "not_found", Message: "resource not found"}

func invalidRequestError() *apiError {
	return &apiError{status: http.StatusBadRequest, Code: "invalid_request", Message: "invalid request body"}
}

func newValidationError(field, code, message string) *apiError {
	return &apiError{status: http.StatusBadRequest, Code: code, Message: message, Field: field}
}

// AbortWithError translates domain errors into HTTP responses with a
// stable error envelope.
func AbortWithError(c *gin.Context, err error) {
	var known *apiError
	if errors.As(err, &known) {
		c.AbortWithStatusJSON(known.status, gin.H{"error": known})
		return
	}

	status := statusForError(err)
	c.AbortWithStatusJSON(status, gin.H{"error": gin.H{
		"code":    err.Error(),
		"message": http.StatusText(status),
	}})
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, freightdomain.ErrInvalidZone),
		errors.Is(err, freightdomain.ErrInvalidRate),
		errors.Is(err, freightdomain.ErrInvalidName),
		errors.Is(err, freightdomain.ErrInvalidPrice),
		errors.Is(err, freightdomain.ErrInvalidCurrency),
		errors.Is(err, freightdomain.ErrInvalidOperation),
		errors.Is(err, freightdomain.ErrInvalidMaxUnits),
		errors.Is(err, freightdomain.ErrNoCandidates),
		errors.Is(err, multiplierdomain.ErrInvalidID),
		errors.Is(err, multiplierdomain.ErrInvalidName),
		errors.Is(err, multiplierdomain.ErrInvalidFactor),
		errors.Is(err, approvaldomain.ErrInvalidID),
		errors.Is(err, approvaldomain.ErrInvalidRate),
		errors.Is(err, approvaldomain.ErrInvalidPrice),
		errors.Is(err, approvaldomain.ErrInvalidActor),
		errors.Is(err, carrierdomain.ErrInvalidID),
		errors.Is(err, carrierdomain.ErrInvalidCountry),
		errors.Is(err, carrierdomain.ErrInvalidPrice),
		errors.Is(err, carrierdomain.ErrInvalidDays):
		return http.StatusBadRequest

	case errors.Is(err, multiplierdomain.ErrNotFound),
		errors.Is(err, approvaldomain.ErrNotFound),
		errors.Is(err, carrierdomain.ErrNotFound),
		errors.Is(err, catalogdomain.ErrZoneNotFound),
		errors.Is(err, catalogdomain.ErrRateNotFound):
		return http.StatusNotFound

	case errors.Is(err, approvaldomain.ErrNotPending),
		errors.Is(err, approvaldomain.ErrDuplicatePending):
		return http.StatusConflict

	case errors.Is(err, catalogdomain.ErrRemoteRejected):
		return http.StatusUnprocessableEntity

	case errors.Is(err, catalogdomain.ErrNotConfigured),
		errors.Is(err, catalogdomain.ErrUnavailable):
		return http.StatusBadGateway

	default:
		return http.StatusInternalServerError
	}
}
