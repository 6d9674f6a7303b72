package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/garage-works/garage-orders-api/models"
	"github.com/garage-works/garage-orders-api/repository"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// CatalogResolver checks that ids referenced by an order exist
type CatalogResolver interface {
	CustomerExists(ctx context.Context, id uint) (bool, error)
	VehicleExists(ctx context.Context, id uint) (bool, error)
	EmployeeExists(ctx context.Context, id uint) (bool, error)
	MissingServices(ctx context.Context, ids []uint) ([]uint, error)
}

// CreateOrderInput holds the fields of a new order
type CreateOrderInput struct {
	CustomerID          uint
	VehicleID           *uint
	EmployeeID          *uint
	Description         *string
	TotalPrice          decimal.Decimal
	EstimatedCompletion *time.Time
	ServiceIDs          []uint
}

// UpdateOrderInput replaces the mutable fields of an order. ServiceIDs
// is the complete new service-line set. TotalPrice, InternalNotes and
// CustomerNotes are left as stored when nil.
type UpdateOrderInput struct {
	Description         *string
	EstimatedCompletion *time.Time
	CompletionDate      *time.Time
	Status              *models.OrderStatus
	ServiceIDs          []uint
	TotalPrice          *decimal.Decimal
	InternalNotes       *string
	CustomerNotes       *string
}

// CreatedOrder identifies a newly created order
type CreatedOrder struct {
	OrderID uint   `json:"order_id"`
	Token   string `json:"token"`
}

// OrderService is the entry point for every order operation
type OrderService struct {
	orders   *repository.OrderRepository
	catalog  CatalogResolver
	tracker  *StatusTracker
	events   EventPublisher
	cache    ViewCache
	photos   *PhotoService
	log      *zap.Logger
	newToken func() (string, error)
	now      func() time.Time
}

// NewOrderService wires an OrderService. events and cache may be nil;
// photos is nil when photo storage is disabled.
func NewOrderService(
	orders *repository.OrderRepository,
	catalog CatalogResolver,
	events EventPublisher,
	cache ViewCache,
	photos *PhotoService,
	log *zap.Logger,
) *OrderService {
	if events == nil {
		events = NoopPublisher{}
	}
	if cache == nil {
		cache = NoopViewCache{}
	}
	return &OrderService{
		orders:   orders,
		catalog:  catalog,
		tracker:  NewStatusTracker(orders),
		events:   events,
		cache:    cache,
		photos:   photos,
		log:      log,
		newToken: GenerateOrderToken,
		now:      time.Now,
	}
}

// CreateOrder validates input, checks references and writes the order
func (s *OrderService) CreateOrder(ctx context.Context, in CreateOrderInput) (*CreatedOrder, error) {
	in.Description = normalizeText(in.Description)
	in.TotalPrice = in.TotalPrice.Round(2)
	if err := validateCreate(in); err != nil {
		return nil, err
	}
	if err := s.checkReferences(ctx, in); err != nil {
		return nil, err
	}

	token, err := s.newToken()
	if err != nil {
		return nil, fmt.Errorf("generate order token: %w", err)
	}

	order := &repository.NewOrder{
		Header: models.Order{
			CustomerID: in.CustomerID,
			VehicleID:  in.VehicleID,
			EmployeeID: in.EmployeeID,
			OrderDate:  s.now(),
			Active:     true,
			Hash:       token,
		},
		Info: models.OrderInfo{
			TotalPrice:              in.TotalPrice,
			EstimatedCompletionDate: in.EstimatedCompletion,
			AdditionalRequest:       in.Description,
		},
		ServiceIDs: in.ServiceIDs,
	}
	if err := s.orders.Create(ctx, order); err != nil {
		s.log.Error("Failed to create order", zap.Uint("customer_id", in.CustomerID), zap.Error(err))
		return nil, err
	}

	s.log.Info("Order created",
		zap.Uint("order_id", order.Header.ID),
		zap.Uint("customer_id", in.CustomerID),
		zap.Int("services", len(in.ServiceIDs)),
	)
	s.publish(ctx, OrderEvent{
		Type:    EventOrderCreated,
		OrderID: order.Header.ID,
		Token:   token,
		Status:  models.OrderStatusReceived.String(),
	})

	return &CreatedOrder{OrderID: order.Header.ID, Token: token}, nil
}

// UpdateOrder replaces the info fields and service lines of an order
func (s *OrderService) UpdateOrder(ctx context.Context, orderID uint, in UpdateOrderInput) error {
	in.Description = normalizeText(in.Description)
	if in.TotalPrice != nil {
		rounded := in.TotalPrice.Round(2)
		in.TotalPrice = &rounded
	}
	if err := validateUpdate(in); err != nil {
		return err
	}
	if _, err := s.orders.Header(ctx, orderID); err != nil {
		return err
	}

	if len(in.ServiceIDs) == 0 {
		price := in.TotalPrice
		if price == nil {
			info, err := s.orders.Info(ctx, orderID)
			if err != nil {
				return err
			}
			price = &info.TotalPrice
		}
		if err := requireDescriptionWithPrice(in.Description, *price); err != nil {
			return err
		}
	} else if err := s.checkServices(ctx, in.ServiceIDs); err != nil {
		return err
	}

	token, err := s.orders.Update(ctx, orderID, repository.OrderUpdate{
		Description:         in.Description,
		EstimatedCompletion: in.EstimatedCompletion,
		CompletionDate:      in.CompletionDate,
		TotalPrice:          in.TotalPrice,
		InternalNotes:       trimmed(in.InternalNotes),
		CustomerNotes:       trimmed(in.CustomerNotes),
		Status:              in.Status,
		ServiceIDs:          in.ServiceIDs,
	})
	if err != nil {
		if !errors.Is(err, ErrOrderNotFound) {
			s.log.Error("Failed to update order", zap.Uint("order_id", orderID), zap.Error(err))
		}
		return err
	}

	s.cache.Invalidate(ctx, token)
	s.log.Info("Order updated", zap.Uint("order_id", orderID), zap.Int("services", len(in.ServiceIDs)))

	event := OrderEvent{Type: EventOrderUpdated, OrderID: orderID, Token: token}
	if in.Status != nil {
		event.Status = in.Status.String()
	}
	s.publish(ctx, event)
	return nil
}

// DeleteOrder removes an order and reports the number of rows removed
func (s *OrderService) DeleteOrder(ctx context.Context, orderID uint) (int64, error) {
	result, err := s.orders.Delete(ctx, orderID)
	if err != nil {
		if !errors.Is(err, ErrOrderNotFound) {
			s.log.Error("Failed to delete order", zap.Uint("order_id", orderID), zap.Error(err))
		}
		return 0, err
	}

	s.afterDelete(ctx, result)
	s.log.Info("Order deleted", zap.Uint("order_id", orderID), zap.Int64("rows_affected", result.RowsAffected))
	return result.RowsAffected, nil
}

// DeleteOrdersForVehicle removes every order of a vehicle
func (s *OrderService) DeleteOrdersForVehicle(ctx context.Context, vehicleID uint) (int64, error) {
	result, err := s.orders.DeleteByVehicle(ctx, vehicleID)
	if err != nil {
		s.log.Error("Failed to delete vehicle orders", zap.Uint("vehicle_id", vehicleID), zap.Error(err))
		return 0, err
	}

	s.afterDelete(ctx, result)
	s.log.Info("Vehicle orders deleted", zap.Uint("vehicle_id", vehicleID), zap.Int("orders", len(result.OrderIDs)))
	return result.RowsAffected, nil
}

// DeleteOrdersForCustomer removes every order of a customer
func (s *OrderService) DeleteOrdersForCustomer(ctx context.Context, customerID uint) (int64, error) {
	result, err := s.orders.DeleteByCustomer(ctx, customerID)
	if err != nil {
		s.log.Error("Failed to delete customer orders", zap.Uint("customer_id", customerID), zap.Error(err))
		return 0, err
	}

	s.afterDelete(ctx, result)
	s.log.Info("Customer orders deleted", zap.Uint("customer_id", customerID), zap.Int("orders", len(result.OrderIDs)))
	return result.RowsAffected, nil
}

// GetOrder returns the assembled view of an order
func (s *OrderService) GetOrder(ctx context.Context, orderID uint) (*models.OrderView, error) {
	view, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		s.logReadError("order_id", fmt.Sprint(orderID), err)
		return nil, err
	}
	return view, nil
}

// GetOrderByToken returns the assembled view of the order carrying token
func (s *OrderService) GetOrderByToken(ctx context.Context, token string) (*models.OrderView, error) {
	token = strings.ToLower(strings.TrimSpace(token))
	if !IsValidOrderToken(token) {
		return nil, ErrOrderNotFound
	}

	if view, ok := s.cache.Get(ctx, token); ok {
		return view, nil
	}

	view, err := s.orders.FindByToken(ctx, token)
	if err != nil {
		s.logReadError("token", token, err)
		return nil, err
	}
	s.cache.Set(ctx, view)
	return view, nil
}

// ListOrders returns one page of orders, newest first
func (s *OrderService) ListOrders(ctx context.Context, page, pageSize int, term string) (*models.OrderPage, error) {
	page, pageSize = normalizePage(page, pageSize)

	views, total, err := s.orders.List(ctx, page, pageSize, term)
	if err != nil {
		s.log.Error("Failed to list orders", zap.Error(err))
		return nil, err
	}

	return &models.OrderPage{
		Items:      views,
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: totalPages(total, pageSize),
	}, nil
}

// ListOrdersForCustomer returns a customer's order history; an unknown
// customer simply has none
func (s *OrderService) ListOrdersForCustomer(ctx context.Context, customerID uint) ([]models.OrderSummary, error) {
	summaries, err := s.orders.ListForCustomer(ctx, customerID)
	if err != nil {
		s.log.Error("Failed to list customer orders", zap.Uint("customer_id", customerID), zap.Error(err))
		return nil, err
	}
	return summaries, nil
}

// UpdateServiceStatus changes one service line and may complete the order
func (s *OrderService) UpdateServiceStatus(ctx context.Context, orderID, serviceID uint, status string) (*StatusChange, error) {
	change, err := s.tracker.UpdateServiceStatus(ctx, orderID, serviceID, status)
	if err != nil {
		return nil, err
	}

	s.cache.Invalidate(ctx, change.Token)
	s.log.Info("Service status updated",
		zap.Uint("order_id", orderID),
		zap.Uint("service_id", serviceID),
		zap.String("status", string(change.Status)),
		zap.Bool("order_completed", change.Promoted),
	)

	s.publish(ctx, OrderEvent{
		Type:      EventServiceStatusChanged,
		OrderID:   orderID,
		Token:     change.Token,
		Status:    string(change.Status),
		ServiceID: serviceID,
	})
	if change.Promoted {
		s.publish(ctx, OrderEvent{
			Type:    EventOrderCompleted,
			OrderID: orderID,
			Token:   change.Token,
			Status:  models.OrderStatusCompleted.String(),
		})
	}
	return change, nil
}

// UpdateServiceNotes replaces the note on one service line; nil or
// blank clears it
func (s *OrderService) UpdateServiceNotes(ctx context.Context, orderID, serviceID uint, notes *string) error {
	notes = normalizeText(notes)

	var token string
	err := s.orders.InTx(ctx, func(tx *repository.OrderRepository) error {
		header, err := tx.Header(ctx, orderID)
		if err != nil {
			return err
		}
		token = header.Hash
		return tx.SetServiceLineNotes(ctx, orderID, serviceID, notes)
	})
	if err != nil {
		return err
	}

	s.cache.Invalidate(ctx, token)
	s.log.Info("Service notes updated", zap.Uint("order_id", orderID), zap.Uint("service_id", serviceID))
	return nil
}

func (s *OrderService) checkReferences(ctx context.Context, in CreateOrderInput) error {
	if err := s.checkExists(ctx, "customer", in.CustomerID, s.catalog.CustomerExists); err != nil {
		return err
	}
	if in.VehicleID != nil {
		if err := s.checkExists(ctx, "vehicle", *in.VehicleID, s.catalog.VehicleExists); err != nil {
			return err
		}
	}
	if in.EmployeeID != nil {
		if err := s.checkExists(ctx, "employee", *in.EmployeeID, s.catalog.EmployeeExists); err != nil {
			return err
		}
	}
	return s.checkServices(ctx, in.ServiceIDs)
}

func (s *OrderService) checkExists(ctx context.Context, kind string, id uint, exists func(context.Context, uint) (bool, error)) error {
	ok, err := exists(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return &ReferenceError{Kind: kind, ID: id}
	}
	return nil
}

func (s *OrderService) checkServices(ctx context.Context, ids []uint) error {
	missing, err := s.catalog.MissingServices(ctx, ids)
	if err != nil {
		return err
	}
	if len(missing) > 0 {
		return &ReferenceError{Kind: "service", ID: missing[0]}
	}
	return nil
}

func (s *OrderService) afterDelete(ctx context.Context, result *repository.DeleteResult) {
	s.cache.Invalidate(ctx, result.Tokens...)
	if s.photos != nil && len(result.PhotoKeys) > 0 {
		s.photos.DeleteObjects(ctx, result.PhotoKeys)
	}
	for i, id := range result.OrderIDs {
		s.publish(ctx, OrderEvent{Type: EventOrderDeleted, OrderID: id, Token: result.Tokens[i]})
	}
}

func (s *OrderService) publish(ctx context.Context, event OrderEvent) {
	event.OccurredAt = s.now().UTC()
	if err := s.events.Publish(ctx, event); err != nil {
		s.log.Warn("Failed to publish order event",
			zap.String("type", string(event.Type)),
			zap.Uint("order_id", event.OrderID),
			zap.Error(err),
		)
	}
}

func (s *OrderService) logReadError(key, value string, err error) {
	switch {
	case errors.Is(err, ErrOrderNotFound):
	case errors.Is(err, ErrDataIntegrity):
		s.log.Error("Order data integrity violation", zap.String(key, value), zap.Error(err))
	default:
		s.log.Error("Failed to load order", zap.String(key, value), zap.Error(err))
	}
}

func validateCreate(in CreateOrderInput) error {
	if in.CustomerID == 0 {
		return &ValidationError{Field: "customer_id", Message: "is required"}
	}
	if err := validatePrice(in.TotalPrice); err != nil {
		return err
	}
	if err := validateServiceIDs(in.ServiceIDs); err != nil {
		return err
	}
	if len(in.ServiceIDs) == 0 {
		return requireDescriptionWithPrice(in.Description, in.TotalPrice)
	}
	return nil
}

func validateUpdate(in UpdateOrderInput) error {
	if in.Status != nil && !in.Status.Valid() {
		return &ValidationError{Field: "status", Message: fmt.Sprintf("unknown order status %d", int(*in.Status))}
	}
	if in.TotalPrice != nil {
		if err := validatePrice(*in.TotalPrice); err != nil {
			return err
		}
	}
	return validateServiceIDs(in.ServiceIDs)
}

// maxTotalPrice is the largest value a decimal(10,2) column holds
var maxTotalPrice = decimal.RequireFromString("99999999.99")

// validatePrice expects a price already rounded to cents
func validatePrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return &ValidationError{Field: "total_price", Message: "must not be negative"}
	}
	if price.GreaterThan(maxTotalPrice) {
		return &ValidationError{Field: "total_price", Message: "must not exceed " + maxTotalPrice.StringFixed(2)}
	}
	return nil
}

// requireDescriptionWithPrice enforces the rule for orders without
// service lines
func requireDescriptionWithPrice(description *string, price decimal.Decimal) error {
	if description == nil {
		return &ValidationError{Field: "services", Message: "an order needs at least one service or a description"}
	}
	if !price.IsPositive() {
		return &ValidationError{Field: "total_price", Message: "must be positive for an order without services"}
	}
	return nil
}

func validateServiceIDs(ids []uint) error {
	seen := make(map[uint]struct{}, len(ids))
	for _, id := range ids {
		if id == 0 {
			return &ValidationError{Field: "services", Message: "service id must be positive"}
		}
		if _, dup := seen[id]; dup {
			return &ValidationError{Field: "services", Message: fmt.Sprintf("service %d is listed twice", id)}
		}
		seen[id] = struct{}{}
	}
	return nil
}

func normalizePage(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	return page, pageSize
}

func totalPages(total int64, pageSize int) int {
	if total == 0 {
		return 0
	}
	return int((total + int64(pageSize) - 1) / int64(pageSize))
}

// normalizeText trims s and maps blank to nil
func normalizeText(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	if t == "" {
		return nil
	}
	return &t
}

// trimmed trims s but keeps an explicit blank, which clears the field
func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	return &t
}
