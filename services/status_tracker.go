package services

import (
	"context"

	"github.com/garage-works/garage-orders-api/models"
	"github.com/garage-works/garage-orders-api/repository"
)

// StatusChange is the outcome of a service-line status update
type StatusChange struct {
	OrderID   uint                 `json:"order_id"`
	ServiceID uint                 `json:"service_id"`
	Token     string               `json:"-"`
	Status    models.ServiceStatus `json:"status"`
	// Promoted is true when this change moved the order to Completed
	Promoted bool `json:"order_completed"`
}

// StatusTracker updates service lines and promotes the order status
// to Completed once every line is completed. It never demotes.
type StatusTracker struct {
	orders *repository.OrderRepository
}

func NewStatusTracker(orders *repository.OrderRepository) *StatusTracker {
	return &StatusTracker{orders: orders}
}

// UpdateServiceStatus sets one line's status. Unknown values are
// rejected before anything is written.
func (t *StatusTracker) UpdateServiceStatus(ctx context.Context, orderID, serviceID uint, raw string) (*StatusChange, error) {
	status, err := models.ParseServiceStatus(raw)
	if err != nil {
		return nil, &ValidationError{Field: "status", Message: err.Error()}
	}

	change := &StatusChange{OrderID: orderID, ServiceID: serviceID, Status: status}
	err = t.orders.InTx(ctx, func(tx *repository.OrderRepository) error {
		header, err := tx.Header(ctx, orderID)
		if err != nil {
			return err
		}
		change.Token = header.Hash

		if err := tx.SetServiceLineStatus(ctx, orderID, serviceID, status); err != nil {
			return err
		}
		if status != models.ServiceStatusCompleted {
			return nil
		}

		statuses, err := tx.ServiceLineStatuses(ctx, orderID)
		if err != nil {
			return err
		}
		if !allCompleted(statuses) {
			return nil
		}

		current, err := tx.CurrentStatus(ctx, orderID)
		if err != nil {
			return err
		}
		if current == models.OrderStatusCompleted {
			return nil
		}
		if err := tx.UpsertOrderStatus(ctx, orderID, models.OrderStatusCompleted); err != nil {
			return err
		}
		change.Promoted = true
		return nil
	})
	if err != nil {
		return nil, err
	}
	return change, nil
}

func allCompleted(statuses []models.ServiceStatus) bool {
	if len(statuses) == 0 {
		return false
	}
	for _, s := range statuses {
		if s != models.ServiceStatusCompleted {
			return false
		}
	}
	return true
}
