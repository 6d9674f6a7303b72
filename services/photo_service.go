package services

import (
	"context"
	"fmt"
	"mime/multipart"
	"time"

	"github.com/garage-works/garage-orders-api/models"
	"github.com/garage-works/garage-orders-api/repository"
	"github.com/garage-works/garage-orders-api/utils"
	"go.uber.org/zap"
)

// PhotoService stores vehicle photos of an order in S3 and tracks them
// in order_photos
type PhotoService struct {
	orders  *repository.OrderRepository
	photos  *repository.PhotoRepository
	storage S3Interface
	log     *zap.Logger
	now     func() time.Time
}

func NewPhotoService(orders *repository.OrderRepository, photos *repository.PhotoRepository, storage S3Interface, log *zap.Logger) *PhotoService {
	return &PhotoService{
		orders:  orders,
		photos:  photos,
		storage: storage,
		log:     log,
		now:     time.Now,
	}
}

// Upload validates and stores a photo for an existing order
func (s *PhotoService) Upload(ctx context.Context, orderID uint, fileHeader *multipart.FileHeader, uploadedBy string) (*models.OrderPhoto, error) {
	if err := utils.ValidateImageFile(fileHeader); err != nil {
		return nil, err
	}

	header, err := s.orders.Header(ctx, orderID)
	if err != nil {
		return nil, err
	}

	key := utils.PhotoObjectKey(header.Hash, s.now(), fileHeader.Filename)
	if err := s.storage.UploadFile(ctx, key, fileHeader); err != nil {
		return nil, fmt.Errorf("%w: upload %s: %v", ErrPhotoStorage, key, err)
	}

	photo := &models.OrderPhoto{
		OrderID:    orderID,
		S3Key:      key,
		FileName:   utils.SanitizeFileName(fileHeader.Filename),
		UploadedBy: uploadedBy,
	}
	if err := s.photos.Create(ctx, photo); err != nil {
		// the order may have been deleted while uploading
		s.DeleteObjects(ctx, []string{key})
		return nil, err
	}

	photo.URL = s.presign(ctx, key)
	s.log.Info("Order photo uploaded", zap.Uint("order_id", orderID), zap.String("key", key))
	return photo, nil
}

// List returns the photos of an order with presigned URLs
func (s *PhotoService) List(ctx context.Context, orderID uint) ([]models.OrderPhoto, error) {
	if _, err := s.orders.Header(ctx, orderID); err != nil {
		return nil, err
	}

	photos, err := s.photos.ListByOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	for i := range photos {
		photos[i].URL = s.presign(ctx, photos[i].S3Key)
	}
	return photos, nil
}

// DeleteObjects removes stored objects, logging failures
func (s *PhotoService) DeleteObjects(ctx context.Context, keys []string) {
	for _, key := range keys {
		if err := s.storage.DeleteFile(ctx, key); err != nil {
			s.log.Warn("Failed to delete photo object", zap.String("key", key), zap.Error(err))
		}
	}
}

func (s *PhotoService) presign(ctx context.Context, key string) string {
	url, err := s.storage.GetPresignedURL(ctx, key)
	if err != nil {
		s.log.Warn("Failed to presign photo URL", zap.String("key", key), zap.Error(err))
		return ""
	}
	return url
}
