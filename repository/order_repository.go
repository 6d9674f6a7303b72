package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/garage-works/garage-orders-api/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// OrderRepository owns every write to the four order tables.
// Multi-table writes run in a single transaction so that a header
// never becomes visible without its info and status rows.
type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// NewOrder is the set of rows written by Create
type NewOrder struct {
	Header     models.Order
	Info       models.OrderInfo
	ServiceIDs []uint
}

// OrderUpdate carries the mutable fields of an order. Description,
// EstimatedCompletion, CompletionDate and ServiceIDs are always written
// (nil clears them); the remaining pointers are left untouched when nil.
type OrderUpdate struct {
	Description         *string
	EstimatedCompletion *time.Time
	CompletionDate      *time.Time
	TotalPrice          *decimal.Decimal
	InternalNotes       *string
	CustomerNotes       *string
	Status              *models.OrderStatus
	ServiceIDs          []uint
}

// DeleteResult describes what a delete removed
type DeleteResult struct {
	OrderIDs     []uint
	Tokens       []string
	PhotoKeys    []string
	RowsAffected int64
}

// InTx runs fn with a repository bound to one transaction
func (r *OrderRepository) InTx(ctx context.Context, fn func(tx *OrderRepository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&OrderRepository{db: tx})
	})
}

// Create writes the header, info row, a Received status row and one
// pending line per service id. Nothing is committed on failure.
func (r *OrderRepository) Create(ctx context.Context, order *NewOrder) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&order.Header).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return fmt.Errorf("%w: %v", ErrTokenCollision, err)
			}
			return fmt.Errorf("insert order header: %w", err)
		}

		order.Info.OrderID = order.Header.ID
		order.Info.TotalPrice = order.Info.TotalPrice.Round(2)
		if err := tx.Create(&order.Info).Error; err != nil {
			return fmt.Errorf("insert order info: %w", err)
		}

		status := models.OrderStatusRecord{OrderID: order.Header.ID, Status: models.OrderStatusReceived}
		if err := tx.Create(&status).Error; err != nil {
			return fmt.Errorf("insert order status: %w", err)
		}

		return insertServiceLines(tx, order.Header.ID, order.ServiceIDs)
	})
}

// Update rewrites the info row, optionally the status, and replaces the
// whole service-line set with upd.ServiceIDs. It returns the order token.
func (r *OrderRepository) Update(ctx context.Context, orderID uint, upd OrderUpdate) (string, error) {
	var token string
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		header, err := findHeader(tx, orderID)
		if err != nil {
			return err
		}
		token = header.Hash

		fields := map[string]interface{}{
			"additional_request":        nullString(upd.Description),
			"estimated_completion_date": nullTime(upd.EstimatedCompletion),
			"completion_date":           nullTime(upd.CompletionDate),
		}
		if upd.TotalPrice != nil {
			fields["order_total_price"] = upd.TotalPrice.Round(2)
		}
		if upd.InternalNotes != nil {
			fields["notes_for_internal_use"] = nullIfEmpty(*upd.InternalNotes)
		}
		if upd.CustomerNotes != nil {
			fields["notes_for_customer"] = nullIfEmpty(*upd.CustomerNotes)
		}

		res := tx.Model(&models.OrderInfo{}).Where("order_id = ?", orderID).Updates(fields)
		if res.Error != nil {
			return fmt.Errorf("update order info: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%w: order %d has no info row", ErrDataIntegrity, orderID)
		}

		if upd.Status != nil {
			res := tx.Model(&models.OrderStatusRecord{}).Where("order_id = ?", orderID).Update("order_status", *upd.Status)
			if res.Error != nil {
				return fmt.Errorf("update order status: %w", res.Error)
			}
			if res.RowsAffected == 0 {
				return fmt.Errorf("%w: order %d has no status row", ErrDataIntegrity, orderID)
			}
		}

		if err := tx.Where("order_id = ?", orderID).Delete(&models.OrderServiceLine{}).Error; err != nil {
			return fmt.Errorf("clear order services: %w", err)
		}
		return insertServiceLines(tx, orderID, upd.ServiceIDs)
	})
	if err != nil {
		return "", err
	}
	return token, nil
}

// Delete removes an order and everything hanging off it
func (r *OrderRepository) Delete(ctx context.Context, orderID uint) (*DeleteResult, error) {
	result := &DeleteResult{}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		header, err := findHeader(tx, orderID)
		if err != nil {
			return err
		}
		return deleteOrders(tx, []models.Order{*header}, result)
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// DeleteByVehicle removes every order placed for a vehicle
func (r *OrderRepository) DeleteByVehicle(ctx context.Context, vehicleID uint) (*DeleteResult, error) {
	return r.deleteWhere(ctx, "vehicle_id = ?", vehicleID)
}

// DeleteByCustomer removes every order placed by a customer
func (r *OrderRepository) DeleteByCustomer(ctx context.Context, customerID uint) (*DeleteResult, error) {
	return r.deleteWhere(ctx, "customer_id = ?", customerID)
}

func (r *OrderRepository) deleteWhere(ctx context.Context, query string, args ...interface{}) (*DeleteResult, error) {
	result := &DeleteResult{}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var orders []models.Order
		if err := tx.Where(query, args...).Find(&orders).Error; err != nil {
			return fmt.Errorf("find orders: %w", err)
		}
		if len(orders) == 0 {
			return nil
		}
		return deleteOrders(tx, orders, result)
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Header returns the header row of an order
func (r *OrderRepository) Header(ctx context.Context, orderID uint) (*models.Order, error) {
	return findHeader(r.db.WithContext(ctx), orderID)
}

// Info returns the info row of an existing order
func (r *OrderRepository) Info(ctx context.Context, orderID uint) (*models.OrderInfo, error) {
	if _, err := r.Header(ctx, orderID); err != nil {
		return nil, err
	}
	var info models.OrderInfo
	err := r.db.WithContext(ctx).Where("order_id = ?", orderID).First(&info).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: order %d has no info row", ErrDataIntegrity, orderID)
	}
	if err != nil {
		return nil, fmt.Errorf("load order info: %w", err)
	}
	return &info, nil
}

// SetServiceLineStatus sets the status of one line and keeps its
// completed flag equal to status == completed
func (r *OrderRepository) SetServiceLineStatus(ctx context.Context, orderID, serviceID uint, status models.ServiceStatus) error {
	res := r.db.WithContext(ctx).Model(&models.OrderServiceLine{}).
		Where("order_id = ? AND service_id = ?", orderID, serviceID).
		Updates(map[string]interface{}{
			"service_status":    string(status),
			"service_completed": status == models.ServiceStatusCompleted,
		})
	if res.Error != nil {
		return fmt.Errorf("update service line: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrServiceLineNotFound
	}
	return nil
}

// SetServiceLineNotes replaces the notes of one line; nil clears them
func (r *OrderRepository) SetServiceLineNotes(ctx context.Context, orderID, serviceID uint, notes *string) error {
	res := r.db.WithContext(ctx).Model(&models.OrderServiceLine{}).
		Where("order_id = ? AND service_id = ?", orderID, serviceID).
		Update("notes", nullString(notes))
	if res.Error != nil {
		return fmt.Errorf("update service line notes: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrServiceLineNotFound
	}
	return nil
}

// ServiceLineStatuses lists the status of every line of an order
func (r *OrderRepository) ServiceLineStatuses(ctx context.Context, orderID uint) ([]models.ServiceStatus, error) {
	var raw []string
	err := r.db.WithContext(ctx).Model(&models.OrderServiceLine{}).
		Where("order_id = ?", orderID).
		Pluck("service_status", &raw).Error
	if err != nil {
		return nil, fmt.Errorf("load service lines: %w", err)
	}
	statuses := make([]models.ServiceStatus, len(raw))
	for i, s := range raw {
		statuses[i] = models.ServiceStatus(s)
	}
	return statuses, nil
}

// CurrentStatus returns the stored order status, or OrderStatusUnknown
// when the order has no status row
func (r *OrderRepository) CurrentStatus(ctx context.Context, orderID uint) (models.OrderStatus, error) {
	var record models.OrderStatusRecord
	err := r.db.WithContext(ctx).Where("order_id = ?", orderID).First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.OrderStatusUnknown, nil
	}
	if err != nil {
		return models.OrderStatusUnknown, fmt.Errorf("load order status: %w", err)
	}
	return record.Status, nil
}

// UpsertOrderStatus inserts the status row or overwrites the existing one
func (r *OrderRepository) UpsertOrderStatus(ctx context.Context, orderID uint, status models.OrderStatus) error {
	record := models.OrderStatusRecord{OrderID: orderID, Status: status}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "order_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"order_status"}),
	}).Create(&record).Error
	if err != nil {
		return fmt.Errorf("upsert order status: %w", err)
	}
	return nil
}

func findHeader(db *gorm.DB, orderID uint) (*models.Order, error) {
	var header models.Order
	err := db.Where("order_id = ?", orderID).First(&header).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load order: %w", err)
	}
	return &header, nil
}

func insertServiceLines(tx *gorm.DB, orderID uint, serviceIDs []uint) error {
	if len(serviceIDs) == 0 {
		return nil
	}
	lines := make([]models.OrderServiceLine, 0, len(serviceIDs))
	for _, id := range serviceIDs {
		lines = append(lines, models.OrderServiceLine{
			OrderID:   orderID,
			ServiceID: id,
			Status:    models.ServiceStatusPending,
		})
	}
	if err := tx.Create(&lines).Error; err != nil {
		return fmt.Errorf("insert order services: %w", err)
	}
	return nil
}

// deleteOrders removes child rows first and headers last. Missing
// child rows are not an error.
func deleteOrders(tx *gorm.DB, orders []models.Order, result *DeleteResult) error {
	ids := make([]uint, 0, len(orders))
	for _, o := range orders {
		ids = append(ids, o.ID)
		result.OrderIDs = append(result.OrderIDs, o.ID)
		result.Tokens = append(result.Tokens, o.Hash)
	}

	var keys []string
	if err := tx.Model(&models.OrderPhoto{}).Where("order_id IN ?", ids).Pluck("s3_key", &keys).Error; err != nil {
		return fmt.Errorf("load order photos: %w", err)
	}
	result.PhotoKeys = append(result.PhotoKeys, keys...)

	steps := []struct {
		table string
		model interface{}
	}{
		{"order services", &models.OrderServiceLine{}},
		{"order photos", &models.OrderPhoto{}},
		{"order status", &models.OrderStatusRecord{}},
		{"order info", &models.OrderInfo{}},
		{"orders", &models.Order{}},
	}
	for _, step := range steps {
		res := tx.Where("order_id IN ?", ids).Delete(step.model)
		if res.Error != nil {
			return fmt.Errorf("delete %s: %w", step.table, res.Error)
		}
		result.RowsAffected += res.RowsAffected
	}
	return nil
}

func nullString(s *string) interface{} {
	if s == nil {
		return nil
	}
	return *s
}

func nullIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

func nullTime(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return *t
}
