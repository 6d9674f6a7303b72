package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderView is one order flattened back out of its header, info,
// status and service-line rows, joined with its catalog references.
type OrderView struct {
	OrderID             uint              `json:"order_id"`
	Token               string            `json:"token"`
	CreatedAt           time.Time         `json:"created_at"`
	Active              bool              `json:"active"`
	Status              OrderStatus       `json:"status"`
	Customer            CustomerRef       `json:"customer"`
	Vehicle             *VehicleRef       `json:"vehicle"`
	Employee            *EmployeeRef      `json:"employee"`
	Description         *string           `json:"description"`
	TotalPrice          decimal.Decimal   `json:"total_price"`
	EstimatedCompletion *time.Time        `json:"estimated_completion"`
	CompletionDate      *time.Time        `json:"completion_date"`
	InternalNotes       *string           `json:"internal_notes"`
	CustomerNotes       *string           `json:"customer_notes"`
	Services            []ServiceLineView `json:"services"`
}

// CustomerRef is the customer part of an OrderView
type CustomerRef struct {
	ID        uint   `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
}

// VehicleRef is the vehicle part of an OrderView
type VehicleRef struct {
	ID    uint   `json:"id"`
	Make  string `json:"make"`
	Model string `json:"model"`
	Year  int    `json:"year"`
	VIN   string `json:"vin"`
}

// EmployeeRef is the assigned employee of an OrderView
type EmployeeRef struct {
	ID        uint   `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// ServiceLineView is one service line of an OrderView
type ServiceLineView struct {
	ServiceID   uint          `json:"service_id"`
	Name        string        `json:"name"`
	Description string        `json:"description"`
	Completed   bool          `json:"completed"`
	Status      ServiceStatus `json:"status"`
	Notes       *string       `json:"notes"`
}

// OrderSummary is the short form used for a customer's order history
type OrderSummary struct {
	OrderID             uint            `json:"order_id"`
	Token               string          `json:"token"`
	CreatedAt           time.Time       `json:"created_at"`
	Status              OrderStatus     `json:"status"`
	TotalPrice          decimal.Decimal `json:"total_price"`
	EstimatedCompletion *time.Time      `json:"estimated_completion"`
}

// OrderPage is one page of listOrders
type OrderPage struct {
	Items      []OrderView `json:"items"`
	Page       int         `json:"page"`
	PageSize   int         `json:"page_size"`
	Total      int64       `json:"total"`
	TotalPages int         `json:"total_pages"`
}
