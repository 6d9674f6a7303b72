package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/garage-works/garage-orders-api/services"
	"github.com/garage-works/garage-orders-api/utils"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func respondError(c *gin.Context, status int, code, message string) {
	c.JSON(status, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}

func respondBindingError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"success": false,
		"error": gin.H{
			"code":    "VALIDATION_ERROR",
			"message": "Invalid request data",
			"details": err.Error(),
		},
	})
}

// handleServiceError maps service errors onto the JSON error envelope
func handleServiceError(c *gin.Context, log *zap.Logger, err error) {
	var (
		validationErr *services.ValidationError
		referenceErr  *services.ReferenceError
		uploadErr     *utils.FileUploadError
	)

	switch {
	case errors.As(err, &uploadErr):
		respondError(c, http.StatusBadRequest, uploadErr.Code, uploadErr.Message)
	case errors.As(err, &validationErr):
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", validationErr.Error())
	case errors.As(err, &referenceErr):
		respondError(c, http.StatusUnprocessableEntity, "REFERENCE_ERROR", referenceErr.Error())
	case errors.Is(err, services.ErrOrderNotFound):
		respondError(c, http.StatusNotFound, "ORDER_NOT_FOUND", "Order not found")
	case errors.Is(err, services.ErrServiceLineNotFound):
		respondError(c, http.StatusNotFound, "SERVICE_LINE_NOT_FOUND", "Service is not part of this order")
	case errors.Is(err, services.ErrDataIntegrity):
		log.Error("Order data integrity violation", zap.String("path", c.FullPath()), zap.Error(err))
		respondError(c, http.StatusInternalServerError, "DATA_INTEGRITY_ERROR", "Order data is inconsistent")
	case errors.Is(err, services.ErrPhotoStorage):
		log.Error("Photo storage failed", zap.String("path", c.FullPath()), zap.Error(err))
		respondError(c, http.StatusBadGateway, "PHOTO_STORAGE_ERROR", "The photo could not be stored, please retry")
	case errors.Is(err, services.ErrTokenCollision):
		respondError(c, http.StatusConflict, "TOKEN_COLLISION", "Could not allocate an order token, please retry")
	default:
		log.Error("Request failed", zap.String("path", c.FullPath()), zap.Error(err))
		respondError(c, http.StatusServiceUnavailable, "DATABASE_ERROR", "The order store is unavailable")
	}
}

// parseIDParam reads a positive numeric path parameter, writing a 400
// when it is malformed
func parseIDParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		respondError(c, http.StatusBadRequest, "INVALID_ID", "Invalid "+name)
		return 0, false
	}
	return uint(id), true
}

// queryInt returns the integer query value of key, or 0 when absent or
// malformed so the service applies its default
func queryInt(c *gin.Context, key string) int {
	n, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return 0
	}
	return n
}
