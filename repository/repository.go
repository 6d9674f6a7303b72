package repository

import (
	"github.com/garage-works/garage-orders-api/models"
	"gorm.io/gorm"
)

// Repositories groups every repository built on one database handle
type Repositories struct {
	Orders  *OrderRepository
	Catalog *CatalogRepository
	Photos  *PhotoRepository
}

func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Orders:  NewOrderRepository(db),
		Catalog: NewCatalogRepository(db),
		Photos:  NewPhotoRepository(db),
	}
}

// AutoMigrate creates or updates every table the service reads or writes
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(models.All()...)
}
