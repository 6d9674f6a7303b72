package repository

import (
	"context"
	"fmt"

	"github.com/garage-works/garage-orders-api/models"
	"gorm.io/gorm"
)

type PhotoRepository struct {
	db *gorm.DB
}

func NewPhotoRepository(db *gorm.DB) *PhotoRepository {
	return &PhotoRepository{db: db}
}

// Create inserts a photo row, refusing when the order header is gone
func (r *PhotoRepository) Create(ctx context.Context, photo *models.OrderPhoto) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := findHeader(tx, photo.OrderID); err != nil {
			return err
		}
		if err := tx.Create(photo).Error; err != nil {
			return fmt.Errorf("insert order photo: %w", err)
		}
		return nil
	})
}

func (r *PhotoRepository) ListByOrder(ctx context.Context, orderID uint) ([]models.OrderPhoto, error) {
	photos := []models.OrderPhoto{}
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("created_at ASC, order_photo_id ASC").
		Find(&photos).Error
	if err != nil {
		return nil, fmt.Errorf("list order photos: %w", err)
	}
	return photos, nil
}
