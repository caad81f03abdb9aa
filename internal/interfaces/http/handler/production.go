package handler

import (
	"github.com/gin-gonic/gin"

	workflowapp "github.com/sewflow/backend/internal/application/workflow"
)

// ProductionHandler handles the in-production stage endpoints
type ProductionHandler struct {
	BaseHandler
	productionService *workflowapp.ProductionService
}

// NewProductionHandler creates a new ProductionHandler
func NewProductionHandler(productionService *workflowapp.ProductionService) *ProductionHandler {
	return &ProductionHandler{productionService: productionService}
}

// AssignBoxRequest represents a request to assign a box number to a
// production item
type AssignBoxRequest struct {
	BoxNumber string `json:"box_number" binding:"required,min=1,max=50"`
}

// SetSelectedRequest represents a request to toggle the selection flag of a
// production item
type SetSelectedRequest struct {
	Selected *bool `json:"selected" binding:"required"`
}

// List returns the production items of the workspace
func (h *ProductionHandler) List(c *gin.Context) {
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

	items, err := h.productionService.ListProduction(c.Request.Context(), workspaceID, req.ToFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, items)
}

// Move moves printed order items into production. Label PDFs are composed
// per product and size before anything changes; if any group cannot be
// validated the whole move is rejected with the full list of problems.
func (h *ProductionHandler) Move(c *gin.Context) {
	workspaceID, err := getWorkspaceID(c)
	if err != nil {
		h.BadRequest(c, "invalid workspace ID")
		return
	}

	var req workflowapp.MoveToProductionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.productionService.MoveToProduction(c.Request.Context(), workspaceID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// AssignBox sets the box number a production item will be packed into
func (h *ProductionHandler) AssignBox(c *gin.Context) {
	workspaceID, err := getWorkspaceID(c)
	if err != nil {
		h.BadRequest(c, "invalid workspace ID")
		return
	}

	itemID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "invalid item ID")
		return
	}

	var req AssignBoxRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	item, err := h.productionService.AssignBox(c.Request.Context(), workspaceID, itemID, req.BoxNumber)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, item)
}

// SetSelected toggles the selection flag of a production item
func (h *ProductionHandler) SetSelected(c *gin.Context) {
	workspaceID, err := getWorkspaceID(c)
	if err != nil {
		h.BadRequest(c, "invalid workspace ID")
		return
	}

	itemID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "invalid item ID")
		return
	}

	var req SetSelectedRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	item, err := h.productionService.SetSelected(c.Request.Context(), workspaceID, itemID, *req.Selected)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, item)
}

// Delete removes a production item
func (h *ProductionHandler) Delete(c *gin.Context) {
	workspaceID, err := getWorkspaceID(c)
	if err != nil {
		h.BadRequest(c, "invalid workspace ID")
		return
	}

	itemID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "invalid item ID")
		return
	}

	if err := h.productionService.DeleteItem(c.Request.Context(), workspaceID, itemID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
