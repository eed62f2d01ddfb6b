package handler

import (
	"net/http"

	apperrors "medtour-itinerary-service/pkg/errors"

	"github.com/gin-gonic/gin"
)

// statusFor maps an application error type to an HTTP status
func statusFor(t apperrors.ErrorType) int {
	switch t {
	case apperrors.ErrorTypeNotFound:
		return http.StatusNotFound
	case apperrors.ErrorTypeValidation, apperrors.ErrorTypeParseFailure:
		return http.StatusBadRequest
	case apperrors.ErrorTypeMissingAnchor:
		return http.StatusUnprocessableEntity
	case apperrors.ErrorTypeNoAvailableSlot, apperrors.ErrorTypeUndecidableDirection:
		return http.StatusConflict
	case apperrors.ErrorTypeExternal:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) writeError(c *gin.Context, err error) {
	appErr, ok := apperrors.As(err)
	if !ok {
		h.logger.Error("Request failed", "path", c.FullPath(), "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "internal error",
			"type":  apperrors.ErrorTypeInternal,
		})
		return
	}

	status := statusFor(appErr.Type)
	if status >= http.StatusInternalServerError {
		h.logger.Error("Request failed", "path", c.FullPath(), "error", err)
	}
	body := gin.H{
		"error": appErr.Message,
		"type":  appErr.Type,
	}
	if len(appErr.Details) > 0 {
		body["details"] = appErr.Details
	}
	c.JSON(status, body)
}
