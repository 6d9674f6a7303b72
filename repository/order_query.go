package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/garage-works/garage-orders-api/models"
	"github.com/shopspring/decimal"
)

const orderJoins = `
FROM orders o
LEFT JOIN customer_identifier c ON c.customer_id = o.customer_id
LEFT JOIN customer_info ci ON ci.customer_id = o.customer_id
LEFT JOIN customer_vehicle_info v ON v.vehicle_id = o.vehicle_id
LEFT JOIN employee e ON e.employee_id = o.employee_id
LEFT JOIN employee_info ei ON ei.employee_id = o.employee_id
LEFT JOIN order_info oi ON oi.order_id = o.order_id
LEFT JOIN order_status os ON os.order_id = o.order_id`

const orderViewSelect = `
SELECT
	o.order_id, o.order_hash, o.order_date, o.active_order, o.customer_id,
	c.customer_email, c.customer_phone_number,
	ci.customer_first_name, ci.customer_last_name,
	v.vehicle_id, v.vehicle_make, v.vehicle_model, v.vehicle_year, v.vehicle_serial,
	e.employee_id, ei.employee_first_name, ei.employee_last_name,
	oi.order_id AS info_order_id, oi.order_total_price, oi.estimated_completion_date,
	oi.completion_date, oi.additional_request, oi.notes_for_internal_use, oi.notes_for_customer,
	os.order_id AS status_order_id, os.order_status` + orderJoins

const orderSummarySelect = `
SELECT
	o.order_id, o.order_hash, o.order_date,
	oi.order_id AS info_order_id, oi.order_total_price, oi.estimated_completion_date,
	os.order_id AS status_order_id, os.order_status
FROM orders o
LEFT JOIN order_info oi ON oi.order_id = o.order_id
LEFT JOIN order_status os ON os.order_id = o.order_id
WHERE o.customer_id = ?
ORDER BY o.order_date DESC, o.order_id DESC`

const serviceLineSelect = `
SELECT s.order_id, s.service_id, cs.service_name, cs.service_description,
	s.service_completed, s.service_status, s.notes
FROM order_services s
LEFT JOIN common_services cs ON cs.service_id = s.service_id
WHERE s.order_id IN ?`

const newestFirst = ` ORDER BY o.order_date DESC, o.order_id DESC`

// orderRow is one header joined to its references, info and status.
// Pointer fields come from LEFT JOINs and are nil when the row is absent.
type orderRow struct {
	OrderID             uint                `gorm:"column:order_id"`
	Hash                string              `gorm:"column:order_hash"`
	OrderDate           time.Time           `gorm:"column:order_date"`
	Active              bool                `gorm:"column:active_order"`
	CustomerID          uint                `gorm:"column:customer_id"`
	CustomerEmail       *string             `gorm:"column:customer_email"`
	CustomerPhone       *string             `gorm:"column:customer_phone_number"`
	CustomerFirstName   *string             `gorm:"column:customer_first_name"`
	CustomerLastName    *string             `gorm:"column:customer_last_name"`
	VehicleID           *uint               `gorm:"column:vehicle_id"`
	VehicleMake         *string             `gorm:"column:vehicle_make"`
	VehicleModel        *string             `gorm:"column:vehicle_model"`
	VehicleYear         *int                `gorm:"column:vehicle_year"`
	VehicleSerial       *string             `gorm:"column:vehicle_serial"`
	EmployeeID          *uint               `gorm:"column:employee_id"`
	EmployeeFirstName   *string             `gorm:"column:employee_first_name"`
	EmployeeLastName    *string             `gorm:"column:employee_last_name"`
	InfoOrderID         *uint               `gorm:"column:info_order_id"`
	TotalPrice          decimal.NullDecimal `gorm:"column:order_total_price"`
	EstimatedCompletion *time.Time          `gorm:"column:estimated_completion_date"`
	CompletionDate      *time.Time          `gorm:"column:completion_date"`
	AdditionalRequest   *string             `gorm:"column:additional_request"`
	InternalNotes       *string             `gorm:"column:notes_for_internal_use"`
	CustomerNotes       *string             `gorm:"column:notes_for_customer"`
	StatusOrderID       *uint               `gorm:"column:status_order_id"`
	Status              *int                `gorm:"column:order_status"`
}

type serviceLineRow struct {
	OrderID     uint    `gorm:"column:order_id"`
	ServiceID   uint    `gorm:"column:service_id"`
	Name        *string `gorm:"column:service_name"`
	Description *string `gorm:"column:service_description"`
	Completed   bool    `gorm:"column:service_completed"`
	Status      string  `gorm:"column:service_status"`
	Notes       *string `gorm:"column:notes"`
}

// FindByID assembles the full view of one order
func (r *OrderRepository) FindByID(ctx context.Context, orderID uint) (*models.OrderView, error) {
	return r.findOne(ctx, " WHERE o.order_id = ?", orderID)
}

// FindByToken assembles the full view of the order carrying token
func (r *OrderRepository) FindByToken(ctx context.Context, token string) (*models.OrderView, error) {
	return r.findOne(ctx, " WHERE o.order_hash = ?", token)
}

// List returns one page of order views, newest first, filtered by a
// case-insensitive substring match on customer name, email or vehicle model
func (r *OrderRepository) List(ctx context.Context, page, pageSize int, term string) ([]models.OrderView, int64, error) {
	where, args := searchClause(term)

	var total int64
	countQuery := "SELECT COUNT(*)" + orderJoins + where
	if err := r.db.WithContext(ctx).Raw(countQuery, args...).Scan(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count orders: %w", err)
	}
	if total == 0 {
		return []models.OrderView{}, 0, nil
	}

	offset := (page - 1) * pageSize
	pageArgs := append(append([]interface{}{}, args...), pageSize, offset)
	views, err := r.queryViews(ctx, orderViewSelect+where+newestFirst+" LIMIT ? OFFSET ?", pageArgs...)
	if err != nil {
		return nil, 0, err
	}
	return views, total, nil
}

// ListAll returns every matching order view, newest first
func (r *OrderRepository) ListAll(ctx context.Context, term string) ([]models.OrderView, error) {
	where, args := searchClause(term)
	return r.queryViews(ctx, orderViewSelect+where+newestFirst, args...)
}

// ListForCustomer returns summaries of every order placed by a customer
func (r *OrderRepository) ListForCustomer(ctx context.Context, customerID uint) ([]models.OrderSummary, error) {
	var rows []orderRow
	if err := r.db.WithContext(ctx).Raw(orderSummarySelect, customerID).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("query customer orders: %w", err)
	}

	summaries := make([]models.OrderSummary, 0, len(rows))
	for i := range rows {
		summary, err := summarize(&rows[i])
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

func (r *OrderRepository) findOne(ctx context.Context, where string, arg interface{}) (*models.OrderView, error) {
	views, err := r.queryViews(ctx, orderViewSelect+where, arg)
	if err != nil {
		return nil, err
	}
	if len(views) == 0 {
		return nil, ErrOrderNotFound
	}
	return &views[0], nil
}

func (r *OrderRepository) queryViews(ctx context.Context, query string, args ...interface{}) ([]models.OrderView, error) {
	var rows []orderRow
	if err := r.db.WithContext(ctx).Raw(query, args...).Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}
	if len(rows) == 0 {
		return []models.OrderView{}, nil
	}

	ids := make([]uint, len(rows))
	for i, row := range rows {
		ids[i] = row.OrderID
	}

	var lines []serviceLineRow
	if err := r.db.WithContext(ctx).Raw(serviceLineSelect, ids).Scan(&lines).Error; err != nil {
		return nil, fmt.Errorf("query order services: %w", err)
	}

	return assembleOrders(rows, lines)
}

func searchClause(term string) (string, []interface{}) {
	term = strings.TrimSpace(term)
	if term == "" {
		return "", nil
	}
	like := "%" + escapeLike(strings.ToLower(term)) + "%"
	clause := ` WHERE (LOWER(ci.customer_first_name) LIKE ? ESCAPE '\'` +
		` OR LOWER(ci.customer_last_name) LIKE ? ESCAPE '\'` +
		` OR LOWER(c.customer_email) LIKE ? ESCAPE '\'` +
		` OR LOWER(v.vehicle_model) LIKE ? ESCAPE '\')`
	return clause, []interface{}{like, like, like, like}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
