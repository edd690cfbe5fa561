package api

import (
	"errors"
	"net/http"

	"fitwise/fitness-client/internal/domain"
	"fitwise/fitness-client/internal/repository"
	"fitwise/fitness-client/internal/service"

	"github.com/gin-gonic/gin"
)

// respondWithError maps core errors to a status and a message fit for the user.
func respondWithError(c *gin.Context, err error) {
	var validationErr *domain.ValidationError
	var remoteErr *domain.RemoteError

	if errors.As(err, &validationErr) {
		abortWithError(c, http.StatusBadRequest, validationErr.Error())
	} else if errors.Is(err, domain.ErrInvalidCredentials) {
		abortWithError(c, http.StatusUnauthorized, "Invalid credentials")
	} else if errors.Is(err, service.ErrWrongRole) {
		abortWithError(c, http.StatusForbidden, err.Error())
	} else if errors.Is(err, repository.ErrNotFound) {
		abortWithError(c, http.StatusNotFound, "Record not found")
	} else if errors.Is(err, repository.ErrUnsupported) {
		abortWithError(c, http.StatusNotImplemented, err.Error())
	} else if errors.As(err, &remoteErr) {
		respondWithRemoteError(c, remoteErr)
	} else {
		_ = c.Error(err)
		abortWithError(c, http.StatusInternalServerError, "An unexpected error occurred")
	}
}

func respondWithRemoteError(c *gin.Context, err *domain.RemoteError) {
	switch {
	case errors.Is(err.Kind, domain.ErrRemoteUnreachable):
		abortWithError(c, http.StatusServiceUnavailable, "Server error. Please try again.")
	case errors.Is(err.Kind, domain.ErrMalformedResponse):
		abortWithError(c, http.StatusBadGateway, "Unexpected response from server")
	default:
		code := http.StatusBadGateway
		if err.Status >= 400 && err.Status < 500 {
			code = err.Status
		}
		abortWithError(c, code, err.Message)
	}
}
