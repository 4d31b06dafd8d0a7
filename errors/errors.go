package errors

import (
	"errors"
	"net/http"
	"strings"
	"time"

	ratelimit "github.com/JGLTechnologies/gin-rate-limit"
	"github.com/gin-gonic/gin"
)

// Error is an API error carrying the HTTP status it should be answered with.
type Error struct {
	Message string `json:"message"`
	Status  int    `json:"status"`

	base  *Error
	cause error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return e.Message + ": " + e.cause.Error()
	}
	return e.Message
}

// Unwrap exposes the sentinel and the cause recorded by Wrap.
func (e *Error) Unwrap() []error {
	var errs []error
	if e.base != nil {
		errs = append(errs, e.base)
	}
	if e.cause != nil {
		errs = append(errs, e.cause)
	}
	return errs
}

// New returns an *Error with the given message and status
func New(message string, status int) *Error {
	return &Error{
		Message: message,
		Status:  status,
	}
}

var (
	ErrBadRequest          = New("bad request", http.StatusBadRequest)
	ErrUnauthorized        = New("unauthorized", http.StatusUnauthorized)
	ErrForbidden           = New("forbidden", http.StatusForbidden)
	ErrNotFound            = New("not found", http.StatusNotFound)
	ErrConflict            = New("resource already exists", http.StatusConflict)
	ErrInternalServerError = New("internal server error", http.StatusInternalServerError)
	ErrTooManyRequests     = New("too many requests", http.StatusTooManyRequests)

	// submission workflow failures
	ErrStoreUnreachable = New("could not reach the report store, please try again later", http.StatusServiceUnavailable)
	ErrUploadFailed     = New("image upload failed", http.StatusBadGateway)
	ErrInsertRejected   = New("report was rejected by the store", http.StatusUnprocessableEntity)

	ErrSessionNotFound = errors.New("session not found")
)

// Status returns the HTTP status code for err, 500 when err carries none.
func Status(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.Status
	}
	return http.StatusInternalServerError
}

// Wrap returns an error with base's message and status that still matches
// base and cause under errors.Is.
func Wrap(base *Error, cause error) *Error {
	return &Error{
		Message: base.Message,
		Status:  base.Status,
		base:    base,
		cause:   cause,
	}
}

// GetUniqueContraintError turns a unique-constraint violation into a conflict
func GetUniqueContraintError(err error) *Error {
	if err == nil {
		return nil
	}
	msg := err.Error()
	if strings.Contains(msg, "duplicate key") || strings.Contains(msg, "UNIQUE constraint") || strings.Contains(msg, "already exists") {
		return Wrap(ErrConflict, err)
	}
	return Wrap(ErrInternalServerError, err)
}

// ErrorHandler answers requests rejected by the rate limiter
func ErrorHandler(c *gin.Context, info ratelimit.Info) {
	c.JSON(http.StatusTooManyRequests, gin.H{
		"message":   "Too many requests. Try again in " + time.Until(info.ResetTime).Round(time.Second).String(),
		"errors":    ErrTooManyRequests.Message,
		"status":    http.StatusText(http.StatusTooManyRequests),
		"timestamp": time.Now().Format(time.RFC850),
	})
}
