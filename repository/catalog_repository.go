package repository

import (
	"context"
	"fmt"

	"github.com/garage-works/garage-orders-api/models"
	"gorm.io/gorm"
)

// CatalogRepository answers existence checks against the customer,
// vehicle, employee and service tables. It never writes.
type CatalogRepository struct {
	db *gorm.DB
}

func NewCatalogRepository(db *gorm.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

func (r *CatalogRepository) CustomerExists(ctx context.Context, id uint) (bool, error) {
	return r.exists(ctx, &models.Customer{}, "customer_id", id)
}

func (r *CatalogRepository) VehicleExists(ctx context.Context, id uint) (bool, error) {
	return r.exists(ctx, &models.Vehicle{}, "vehicle_id", id)
}

func (r *CatalogRepository) EmployeeExists(ctx context.Context, id uint) (bool, error) {
	return r.exists(ctx, &models.Employee{}, "employee_id", id)
}

func (r *CatalogRepository) ServiceExists(ctx context.Context, id uint) (bool, error) {
	return r.exists(ctx, &models.CommonService{}, "service_id", id)
}

// MissingServices returns the ids from ids that have no catalog entry, in input order
func (r *CatalogRepository) MissingServices(ctx context.Context, ids []uint) ([]uint, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var found []uint
	err := r.db.WithContext(ctx).Model(&models.CommonService{}).
		Where("service_id IN ?", ids).
		Pluck("service_id", &found).Error
	if err != nil {
		return nil, fmt.Errorf("lookup services: %w", err)
	}

	known := make(map[uint]struct{}, len(found))
	for _, id := range found {
		known[id] = struct{}{}
	}

	var missing []uint
	for _, id := range ids {
		if _, ok := known[id]; !ok {
			missing = append(missing, id)
		}
	}
	return missing, nil
}

func (r *CatalogRepository) exists(ctx context.Context, model interface{}, column string, id uint) (bool, error) {
	if id == 0 {
		return false, nil
	}
	var count int64
	if err := r.db.WithContext(ctx).Model(model).Where(column+" = ?", id).Count(&count).Error; err != nil {
		return false, fmt.Errorf("lookup %s: %w", column, err)
	}
	return count > 0, nil
}
