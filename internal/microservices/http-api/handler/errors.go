package handler

import (
	"errors"
	"net/http"

	"reviewlens/internal/classifier"
	"reviewlens/internal/microservices/http-api/service"

	"github.com/gin-gonic/gin"
)

// respondError maps service and classifier errors to a status code. Unknown
// errors are 500 with a generic message; the detail goes to the request log.
func respondError(c *gin.Context, err error, fallback string) {
	status := http.StatusInternalServerError
	msg := fallback

	switch {
	case errors.Is(err, service.ErrNotFound):
		status, msg = http.StatusNotFound, err.Error()
	case errors.Is(err, service.ErrForbidden):
		status, msg = http.StatusForbidden, err.Error()
	case errors.Is(err, service.ErrInvalidInput):
		status, msg = http.StatusBadRequest, err.Error()
	case errors.Is(err, service.ErrNothingToScore):
		status, msg = http.StatusUnprocessableEntity, err.Error()
	case errors.Is(err, service.ErrQuotaExceeded):
		status, msg = http.StatusTooManyRequests, err.Error()
	case errors.Is(err, classifier.ErrTimeout):
		status, msg = http.StatusGatewayTimeout, err.Error()
	case errors.Is(err, classifier.ErrUnavailable), errors.Is(err, classifier.ErrMalformedResponse):
		status, msg = http.StatusBadGateway, err.Error()
	}

	_ = c.Error(err)
	c.JSON(status, gin.H{"error": msg})
}
