package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order is the header row of a repair order.
// Its extended info, status and service lines live in separate tables
// keyed by order_id; no database cascade ties them together.
type Order struct {
	ID         uint      `gorm:"column:order_id;primaryKey" json:"order_id"`
	CustomerID uint      `gorm:"column:customer_id;not null;index" json:"customer_id"`
	VehicleID  *uint     `gorm:"column:vehicle_id;index" json:"vehicle_id"`
	EmployeeID *uint     `gorm:"column:employee_id;index" json:"employee_id"`
	OrderDate  time.Time `gorm:"column:order_date;not null;index" json:"order_date"`
	Active     bool      `gorm:"column:active_order;not null" json:"active_order"`
	Hash       string    `gorm:"column:order_hash;size:32;uniqueIndex;not null" json:"order_hash"` // public lookup token
}

// TableName specifies the table name for the Order model
func (Order) TableName() string {
	return "orders"
}

// OrderInfo is the extended info row of an order
type OrderInfo struct {
	ID                          uint            `gorm:"column:order_info_id;primaryKey" json:"order_info_id"`
	OrderID                     uint            `gorm:"column:order_id;uniqueIndex;not null" json:"order_id"`
	TotalPrice                  decimal.Decimal `gorm:"column:order_total_price;type:decimal(10,2);not null" json:"order_total_price"`
	EstimatedCompletionDate     *time.Time      `gorm:"column:estimated_completion_date" json:"estimated_completion_date"`
	CompletionDate              *time.Time      `gorm:"column:completion_date" json:"completion_date"`
	AdditionalRequest           *string         `gorm:"column:additional_request;type:text" json:"additional_request"`
	InternalNotes               *string         `gorm:"column:notes_for_internal_use;type:text" json:"notes_for_internal_use"`
	CustomerNotes               *string         `gorm:"column:notes_for_customer;type:text" json:"notes_for_customer"`
	AdditionalRequestsCompleted bool            `gorm:"column:additional_requests_completed;not null" json:"additional_requests_completed"`
}

// TableName specifies the table name for the OrderInfo model
func (OrderInfo) TableName() string {
	return "order_info"
}

// OrderStatusRecord is the single status row of an order
type OrderStatusRecord struct {
	ID      uint        `gorm:"column:order_status_id;primaryKey" json:"order_status_id"`
	OrderID uint        `gorm:"column:order_id;uniqueIndex;not null" json:"order_id"`
	Status  OrderStatus `gorm:"column:order_status;not null" json:"order_status"`
}

// TableName specifies the table name for the OrderStatusRecord model
func (OrderStatusRecord) TableName() string {
	return "order_status"
}

// OrderServiceLine associates an order with one catalog service
type OrderServiceLine struct {
	ID        uint          `gorm:"column:order_service_id;primaryKey" json:"order_service_id"`
	OrderID   uint          `gorm:"column:order_id;not null;uniqueIndex:idx_order_services_order_service" json:"order_id"`
	ServiceID uint          `gorm:"column:service_id;not null;uniqueIndex:idx_order_services_order_service" json:"service_id"`
	Completed bool          `gorm:"column:service_completed;not null" json:"service_completed"`
	Status    ServiceStatus `gorm:"column:service_status;size:20;not null" json:"service_status"`
	Notes     *string       `gorm:"column:notes;type:text" json:"notes"`
}

// TableName specifies the table name for the OrderServiceLine model
func (OrderServiceLine) TableName() string {
	return "order_services"
}

// OrderPhoto is a vehicle photo attached to an order and stored in S3
type OrderPhoto struct {
	ID         uint      `gorm:"column:order_photo_id;primaryKey" json:"id"`
	OrderID    uint      `gorm:"column:order_id;not null;index" json:"order_id"`
	S3Key      string    `gorm:"column:s3_key;not null;uniqueIndex" json:"-"`
	FileName   string    `gorm:"column:file_name;not null" json:"file_name"`
	UploadedBy string    `gorm:"column:uploaded_by" json:"uploaded_by"`
	CreatedAt  time.Time `gorm:"column:created_at" json:"created_at"`
	URL        string    `gorm:"-" json:"url,omitempty"` // presigned, filled on read
}

// TableName specifies the table name for the OrderPhoto model
func (OrderPhoto) TableName() string {
	return "order_photos"
}

// All returns every model in migration order
func All() []interface{} {
	return []interface{}{
		&Customer{},
		&CustomerInfo{},
		&Vehicle{},
		&Employee{},
		&EmployeeInfo{},
		&CommonService{},
		&Order{},
		&OrderInfo{},
		&OrderStatusRecord{},
		&OrderServiceLine{},
		&OrderPhoto{},
	}
}
