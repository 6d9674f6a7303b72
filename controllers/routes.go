package controllers

import (
	"github.com/garage-works/garage-orders-api/middleware"
	"github.com/gin-gonic/gin"
)

// API scopes granted to staff tokens
const (
	ScopeReadOrders  = "read:orders"
	ScopeWriteOrders = "write:orders"
)

// RegisterOrderRoutes mounts the order endpoints on v1. auth validates
// the caller's token. Changes to the order itself need the admin role.
func RegisterOrderRoutes(v1 *gin.RouterGroup, auth gin.HandlerFunc, ctl *OrderController) {
	adminOnly := middleware.RequireRole("admin")
	canRead := middleware.RequireScope(ScopeReadOrders)
	canWrite := middleware.RequireScope(ScopeWriteOrders)

	// public lookup by order link
	v1.GET("/orders/hash/:hash", ctl.GetOrderByToken)

	orders := v1.Group("/orders", auth)
	{
		orders.POST("", adminOnly, ctl.CreateOrder)
		orders.GET("", canRead, ctl.ListOrders)
		orders.GET("/export", adminOnly, ctl.ExportOrders)
		orders.GET("/:id", canRead, ctl.GetOrder)
		orders.PUT("/:id", adminOnly, ctl.UpdateOrder)
		orders.DELETE("/:id", adminOnly, ctl.DeleteOrder)
		orders.PATCH("/:id/services/:serviceId/status", canWrite, ctl.UpdateServiceStatus)
		orders.PATCH("/:id/services/:serviceId/notes", adminOnly, ctl.UpdateServiceNotes)
		orders.POST("/:id/photos", canWrite, ctl.UploadOrderPhoto)
		orders.GET("/:id/photos", canRead, ctl.ListOrderPhotos)
	}

	customers := v1.Group("/customers", auth)
	{
		customers.GET("/:id/orders", canRead, ctl.ListCustomerOrders)
		customers.DELETE("/:id/orders", adminOnly, ctl.DeleteCustomerOrders)
	}

	vehicles := v1.Group("/vehicles", auth)
	{
		vehicles.DELETE("/:id/orders", adminOnly, ctl.DeleteVehicleOrders)
	}
}
