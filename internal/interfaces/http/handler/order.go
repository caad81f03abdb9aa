package handler

import (
	"github.com/gin-gonic/gin"

	workflowapp "github.com/sewflow/backend/internal/application/workflow"
)

// OrderHandler handles order and order item endpoints
type OrderHandler struct {
	BaseHandler
	orderService *workflowapp.OrderService
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orderService *workflowapp.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// RenameOrderRequest represents a request to rename an order
type RenameOrderRequest struct {
	Name string `json:"name" binding:"required,min=1,max=200"`
}

// Create creates a new order
func (h *OrderHandler) Create(c *gin.Context) {
	workspaceID, err := getWorkspaceID(c)
	if err != nil {
		h.BadRequest(c, "invalid workspace ID")
		return
	}

	var req workflowapp.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	order, err := h.orderService.CreateOrder(c.Request.Context(), workspaceID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, order)
}

// List returns the orders of the workspace
func (h *OrderHandler) List(c *gin.Context) {
	workspaceID, err := getWorkspaceID(c)
	if err != nil {
		h.BadRequest(c, "invalid workspace ID")
		return
	}

	req, err := bindListRequest(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	orders, err := h.orderService.ListOrders(c.Request.Context(), workspaceID, req.ToFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, orders)
}

// Get returns a single order with its items
func (h *OrderHandler) Get(c *gin.Context) {
	workspaceID, err := getWorkspaceID(c)
	if err != nil {
		h.BadRequest(c, "invalid workspace ID")
		return
	}

	orderID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "invalid order ID")
		return
	}

	order, err := h.orderService.GetOrder(c.Request.Context(), workspaceID, orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, order)
}

// Rename changes the order name
func (h *OrderHandler) Rename(c *gin.Context) {
	workspaceID, err := getWorkspaceID(c)
	if err != nil {
		h.BadRequest(c, "invalid workspace ID")
		return
	}

	orderID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "invalid order ID")
		return
	}

	var req RenameOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	order, err := h.orderService.RenameOrder(c.Request.Context(), workspaceID, orderID, req.Name)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, order)
}

// Delete removes an order and its remaining items
func (h *OrderHandler) Delete(c *gin.Context) {
	workspaceID, err := getWorkspaceID(c)
	if err != nil {
		h.BadRequest(c, "invalid workspace ID")
		return
	}

	orderID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "invalid order ID")
		return
	}

	if err := h.orderService.DeleteOrder(c.Request.Context(), workspaceID, orderID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// AddItem adds a catalog product line to the order
func (h *OrderHandler) AddItem(c *gin.Context) {
	workspaceID, err := getWorkspaceID(c)
	if err != nil {
		h.BadRequest(c, "invalid workspace ID")
		return
	}

	orderID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "invalid order ID")
		return
	}

	var req workflowapp.AddOrderItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	item, err := h.orderService.AddItem(c.Request.Context(), workspaceID, orderID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, item)
}

// UpdateItem patches an order item
func (h *OrderHandler) UpdateItem(c *gin.Context) {
	workspaceID, err := getWorkspaceID(c)
	if err != nil {
		h.BadRequest(c, "invalid workspace ID")
		return
	}

	itemID, err := parseIDParam(c, "item_id")
	if err != nil {
		h.BadRequest(c, "invalid item ID")
		return
	}

	var req workflowapp.UpdateOrderItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	item, err := h.orderService.UpdateItem(c.Request.Context(), workspaceID, itemID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, item)
}

// DeleteItem removes an order item
func (h *OrderHandler) DeleteItem(c *gin.Context) {
	workspaceID, err := getWorkspaceID(c)
	if err != nil {
		h.BadRequest(c, "invalid workspace ID")
		return
	}

	itemID, err := parseIDParam(c, "item_id")
	if err != nil {
		h.BadRequest(c, "invalid item ID")
		return
	}

	if err := h.orderService.DeleteItem(c.Request.Context(), workspaceID, itemID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
