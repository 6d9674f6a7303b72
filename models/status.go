package models

import (
	"fmt"
	"strings"
)

// OrderStatus is the order-level status code stored in order_status
type OrderStatus int

const (
	OrderStatusUnknown    OrderStatus = 0
	OrderStatusInProgress OrderStatus = 1
	OrderStatusCompleted  OrderStatus = 2
	OrderStatusReceived   OrderStatus = 3
)

// Valid reports whether s is one of the settable order statuses
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusInProgress, OrderStatusCompleted, OrderStatusReceived:
		return true
	}
	return false
}

func (s OrderStatus) String() string {
	switch s {
	case OrderStatusInProgress:
		return "in_progress"
	case OrderStatusCompleted:
		return "completed"
	case OrderStatusReceived:
		return "received"
	default:
		return "unknown"
	}
}

// ServiceStatus is the status of a single service line
type ServiceStatus string

const (
	ServiceStatusPending    ServiceStatus = "pending"
	ServiceStatusInProgress ServiceStatus = "in_progress"
	ServiceStatusCompleted  ServiceStatus = "completed"
	ServiceStatusDelayed    ServiceStatus = "delayed"
)

// ParseServiceStatus accepts the canonical values plus "in-progress" and any casing
func ParseServiceStatus(raw string) (ServiceStatus, error) {
	normalized := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(raw)), "-", "_")
	switch s := ServiceStatus(normalized); s {
	case ServiceStatusPending, ServiceStatusInProgress, ServiceStatusCompleted, ServiceStatusDelayed:
		return s, nil
	}
	return "", fmt.Errorf("unknown service status %q", raw)
}
