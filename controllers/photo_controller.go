package controllers

import (
	"errors"
	"net/http"

	"github.com/garage-works/garage-orders-api/middleware"
	"github.com/gin-gonic/gin"
)

// PhotoFormField is the multipart field carrying an order photo
const PhotoFormField = "photo"

// UploadOrderPhoto handles POST /api/v1/orders/:id/photos - attaches a PNG photo
func (ctl *OrderController) UploadOrderPhoto(c *gin.Context) {
	if !ctl.photosEnabled(c) {
		return
	}
	orderID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	fileHeader, err := c.FormFile(PhotoFormField)
	if err != nil && !errors.Is(err, http.ErrMissingFile) {
		respondError(c, http.StatusBadRequest, "INVALID_REQUEST", "Could not read multipart form")
		return
	}

	// a missing token subject is recorded as an anonymous upload
	uploadedBy, _ := middleware.GetUserID(c)

	photo, err := ctl.photos.Upload(c.Request.Context(), orderID, fileHeader, uploadedBy)
	if err != nil {
		handleServiceError(c, ctl.log, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    photo,
	})
}

// ListOrderPhotos handles GET /api/v1/orders/:id/photos
func (ctl *OrderController) ListOrderPhotos(c *gin.Context) {
	if !ctl.photosEnabled(c) {
		return
	}
	orderID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	photos, err := ctl.photos.List(c.Request.Context(), orderID)
	if err != nil {
		handleServiceError(c, ctl.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    photos,
	})
}

func (ctl *OrderController) photosEnabled(c *gin.Context) bool {
	if ctl.photos == nil {
		respondError(c, http.StatusServiceUnavailable, "PHOTOS_DISABLED", "Photo storage is not configured")
		return false
	}
	return true
}
