package app_error

import (
	"errors"
	"net/http"

	"archersedge/scoring"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrForbidden    = errors.New("forbidden")
	ErrUnauthorized = errors.New("unauthorized")
	ErrBadRequest   = errors.New("bad request")
)

type statusError struct {
	error
	status int
}

func (e statusError) Unwrap() error {
	return e.error
}

func (e statusError) HTTPStatus() int {
	return e.status
}

// New attaches an HTTP status to err.
func New(status int, err error) error {
	if err == nil {
		return nil
	}
	return statusError{error: err, status: status}
}

// Status picks the HTTP status for err, falling back to the domain sentinels.
func Status(err error) int {
	var se interface{ HTTPStatus() int }
	if errors.As(err, &se) {
		return se.HTTPStatus()
	}
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound), errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, scoring.ErrScorecardVerified):
		return http.StatusConflict
	case errors.Is(err, scoring.ErrInvalidArrowToken),
		errors.Is(err, scoring.ErrInvalidEnd),
		errors.Is(err, scoring.ErrInvalidSlot),
		errors.Is(err, scoring.ErrScorecardIncomplete),
		errors.Is(err, scoring.ErrTooManyArchers),
		errors.Is(err, scoring.ErrInvalidBaleCapacity),
		errors.Is(err, ErrBadRequest):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func WithHTTPStatus(c *gin.Context, err error, status int) {
	c.JSON(status, gin.H{"error": err.Error()})
}

// Respond writes err with the status Status picks for it.
func Respond(c *gin.Context, err error) {
	WithHTTPStatus(c, err, Status(err))
}
