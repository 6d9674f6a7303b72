package repository

import "errors"

var (
	// ErrOrderNotFound is returned when no header row exists for an id or token
	ErrOrderNotFound = errors.New("order not found")
	// ErrServiceLineNotFound is returned when an order has no line for a service
	ErrServiceLineNotFound = errors.New("service line not found")
	// ErrDataIntegrity marks a header whose info or status row is missing
	ErrDataIntegrity = errors.New("order data integrity violation")
	// ErrTokenCollision is returned when a generated token is already stored
	ErrTokenCollision = errors.New("order token already in use")
)
