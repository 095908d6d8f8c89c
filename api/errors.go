package api

import (
	"errors"
	"net/http"
	"strings"

	"verisight/content"
	"verisight/scan"
	"verisight/scoring"

	"github.com/gin-gonic/gin"
)

var (
	// ErrBadRequest marks malformed query or form input
	ErrBadRequest = errors.New("bad request")
	// ErrUploadTooLarge is returned when the body exceeds the configured limit
	ErrUploadTooLarge = errors.New("upload exceeds size limit")
)

// StatusFor maps domain errors to HTTP status codes
func StatusFor(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, scan.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, scan.ErrScanInProgress):
		return http.StatusConflict
	case errors.Is(err, scan.ErrUnsupportedMedia):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, ErrUploadTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, ErrBadRequest),
		errors.Is(err, scoring.ErrInvalidScore),
		errors.Is(err, content.ErrUnknownBilling):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// Message is the client-facing text for err; server faults are not echoed back
func Message(err error) string {
	if StatusFor(err) == http.StatusInternalServerError {
		return "internal server error"
	}
	msg := err.Error()
	// strip our own wrapping prefix for readability
	msg = strings.TrimPrefix(msg, ErrBadRequest.Error()+": ")
	return msg
}

// abortWithError records err for the request logger and writes {"error": ...}
func abortWithError(c *gin.Context, err error) {
	_ = c.Error(err)
	c.AbortWithStatusJSON(StatusFor(err), gin.H{"error": Message(err)})
}
