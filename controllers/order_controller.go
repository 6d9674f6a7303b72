package controllers

import (
	"net/http"
	"time"

	"github.com/garage-works/garage-orders-api/models"
	"github.com/garage-works/garage-orders-api/services"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CreateOrderRequest represents the request body for creating an order
type CreateOrderRequest struct {
	CustomerID          uint            `json:"customer_id" binding:"required"`
	VehicleID           *uint           `json:"vehicle_id"`
	EmployeeID          *uint           `json:"employee_id"`
	Description         *string         `json:"description"`
	TotalPrice          decimal.Decimal `json:"total_price"`
	EstimatedCompletion *time.Time      `json:"estimated_completion"`
	Services            []uint          `json:"services"`
}

// UpdateOrderRequest represents the request body for updating an order.
// services is always the complete new set.
type UpdateOrderRequest struct {
	Description         *string             `json:"description"`
	EstimatedCompletion *time.Time          `json:"estimated_completion"`
	CompletionDate      *time.Time          `json:"completion_date"`
	Status              *models.OrderStatus `json:"status"`
	Services            []uint              `json:"services"`
	TotalPrice          *decimal.Decimal    `json:"total_price"`
	InternalNotes       *string             `json:"internal_notes"`
	CustomerNotes       *string             `json:"customer_notes"`
}

// ServiceStatusRequest represents the request body for a service status change
type ServiceStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// ServiceNotesRequest represents the request body for a service note change
type ServiceNotesRequest struct {
	Notes *string `json:"notes"`
}

// OrderController serves the order endpoints
type OrderController struct {
	orders *services.OrderService
	photos *services.PhotoService
	log    *zap.Logger
}

// NewOrderController creates an OrderController. photos may be nil when
// photo storage is not configured.
func NewOrderController(orders *services.OrderService, photos *services.PhotoService, log *zap.Logger) *OrderController {
	return &OrderController{orders: orders, photos: photos, log: log}
}

// CreateOrder handles POST /api/v1/orders
func (ctl *OrderController) CreateOrder(c *gin.Context) {
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	created, err := ctl.orders.CreateOrder(c.Request.Context(), services.CreateOrderInput{
		CustomerID:          req.CustomerID,
		VehicleID:           req.VehicleID,
		EmployeeID:          req.EmployeeID,
		Description:         req.Description,
		TotalPrice:          req.TotalPrice,
		EstimatedCompletion: req.EstimatedCompletion,
		ServiceIDs:          req.Services,
	})
	if err != nil {
		handleServiceError(c, ctl.log, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"data":    created,
	})
}

// ListOrders handles GET /api/v1/orders?page=&limit=&searchTerm=
func (ctl *OrderController) ListOrders(c *gin.Context) {
	page, err := ctl.orders.ListOrders(c.Request.Context(), queryInt(c, "page"), queryInt(c, "limit"), c.Query("searchTerm"))
	if err != nil {
		handleServiceError(c, ctl.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    page,
	})
}

// ExportOrders handles GET /api/v1/orders/export - streams an xlsx workbook
func (ctl *OrderController) ExportOrders(c *gin.Context) {
	f, filename, err := ctl.orders.ExportOrders(c.Request.Context(), c.Query("searchTerm"))
	if err != nil {
		handleServiceError(c, ctl.log, err)
		return
	}
	defer f.Close()

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", "attachment; filename=\""+filename+"\"")
	c.Header("Content-Transfer-Encoding", "binary")

	if err := f.Write(c.Writer); err != nil {
		ctl.log.Error("Failed to write export", zap.Error(err))
	}
}

// GetOrder handles GET /api/v1/orders/:id
func (ctl *OrderController) GetOrder(c *gin.Context) {
	orderID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	view, err := ctl.orders.GetOrder(c.Request.Context(), orderID)
	if err != nil {
		handleServiceError(c, ctl.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    view,
	})
}

// GetOrderByToken handles GET /api/v1/orders/hash/:hash - the public
// lookup customers reach through their order link
func (ctl *OrderController) GetOrderByToken(c *gin.Context) {
	view, err := ctl.orders.GetOrderByToken(c.Request.Context(), c.Param("hash"))
	if err != nil {
		handleServiceError(c, ctl.log, err)
		return
	}

	// internal notes never leave the shop
	public := *view
	public.InternalNotes = nil

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    public,
	})
}

// UpdateOrder handles PUT /api/v1/orders/:id
func (ctl *OrderController) UpdateOrder(c *gin.Context) {
	orderID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	err := ctl.orders.UpdateOrder(c.Request.Context(), orderID, services.UpdateOrderInput{
		Description:         req.Description,
		EstimatedCompletion: req.EstimatedCompletion,
		CompletionDate:      req.CompletionDate,
		Status:              req.Status,
		ServiceIDs:          req.Services,
		TotalPrice:          req.TotalPrice,
		InternalNotes:       req.InternalNotes,
		CustomerNotes:       req.CustomerNotes,
	})
	if err != nil {
		handleServiceError(c, ctl.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Order updated",
	})
}

// DeleteOrder handles DELETE /api/v1/orders/:id
func (ctl *OrderController) DeleteOrder(c *gin.Context) {
	orderID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	rows, err := ctl.orders.DeleteOrder(c.Request.Context(), orderID)
	if err != nil {
		handleServiceError(c, ctl.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"rows_affected": rows,
	})
}

// UpdateServiceStatus handles PATCH /api/v1/orders/:id/services/:serviceId/status
func (ctl *OrderController) UpdateServiceStatus(c *gin.Context) {
	orderID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	serviceID, ok := parseIDParam(c, "serviceId")
	if !ok {
		return
	}

	var req ServiceStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	change, err := ctl.orders.UpdateServiceStatus(c.Request.Context(), orderID, serviceID, req.Status)
	if err != nil {
		handleServiceError(c, ctl.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    change,
	})
}

// UpdateServiceNotes handles PATCH /api/v1/orders/:id/services/:serviceId/notes
func (ctl *OrderController) UpdateServiceNotes(c *gin.Context) {
	orderID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	serviceID, ok := parseIDParam(c, "serviceId")
	if !ok {
		return
	}

	var req ServiceNotesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindingError(c, err)
		return
	}

	if err := ctl.orders.UpdateServiceNotes(c.Request.Context(), orderID, serviceID, req.Notes); err != nil {
		handleServiceError(c, ctl.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Service notes updated",
	})
}

// ListCustomerOrders handles GET /api/v1/customers/:id/orders
func (ctl *OrderController) ListCustomerOrders(c *gin.Context) {
	customerID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	summaries, err := ctl.orders.ListOrdersForCustomer(c.Request.Context(), customerID)
	if err != nil {
		handleServiceError(c, ctl.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    summaries,
	})
}

// DeleteCustomerOrders handles DELETE /api/v1/customers/:id/orders
func (ctl *OrderController) DeleteCustomerOrders(c *gin.Context) {
	customerID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	rows, err := ctl.orders.DeleteOrdersForCustomer(c.Request.Context(), customerID)
	if err != nil {
		handleServiceError(c, ctl.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"rows_affected": rows,
	})
}

// DeleteVehicleOrders handles DELETE /api/v1/vehicles/:id/orders
func (ctl *OrderController) DeleteVehicleOrders(c *gin.Context) {
	vehicleID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	rows, err := ctl.orders.DeleteOrdersForVehicle(c.Request.Context(), vehicleID)
	if err != nil {
		handleServiceError(c, ctl.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"rows_affected": rows,
	})
}
