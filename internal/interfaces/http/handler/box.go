package handler

import (
	"github.com/gin-gonic/gin"

	workflowapp "github.com/sewflow/backend/internal/application/workflow"
)

// BoxHandler handles boxing stage endpoints
type BoxHandler struct {
	BaseHandler
	boxService *workflowapp.BoxService
}

// NewBoxHandler creates a new BoxHandler
func NewBoxHandler(boxService *workflowapp.BoxService) *BoxHandler {
	return &BoxHandler{boxService: boxService}
}

// List returns the packed boxes of the workspace
func (h *BoxHandler) List(c *gin.Context) {
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

	boxes, err := h.boxService.ListBoxes(c.Request.Context(), workspaceID, req.ToFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, boxes)
}

// Get returns a single box with its items
func (h *BoxHandler) Get(c *gin.Context) {
	workspaceID, err := getWorkspaceID(c)
	if err != nil {
		h.BadRequest(c, "invalid workspace ID")
		return
	}

	boxID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "invalid box ID")
		return
	}

	box, err := h.boxService.GetBox(c.Request.Context(), workspaceID, boxID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, box)
}

// Move packs production items into boxes grouped by their assigned box
// numbers. Every item must carry a box number or the whole move is rejected.
func (h *BoxHandler) Move(c *gin.Context) {
	workspaceID, err := getWorkspaceID(c)
	if err != nil {
		h.BadRequest(c, "invalid workspace ID")
		return
	}

	var req workflowapp.MoveToBoxesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.boxService.MoveToBoxes(c.Request.Context(), workspaceID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Update patches a box
func (h *BoxHandler) Update(c *gin.Context) {
	workspaceID, err := getWorkspaceID(c)
	if err != nil {
		h.BadRequest(c, "invalid workspace ID")
		return
	}

	boxID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "invalid box ID")
		return
	}

	var req workflowapp.UpdateBoxRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	box, err := h.boxService.UpdateBox(c.Request.Context(), workspaceID, boxID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, box)
}

// SetDeliveryInfo stamps delivery date, number and warehouse onto a batch
// of boxes
func (h *BoxHandler) SetDeliveryInfo(c *gin.Context) {
	workspaceID, err := getWorkspaceID(c)
	if err != nil {
		h.BadRequest(c, "invalid workspace ID")
		return
	}

	var req workflowapp.SetDeliveryInfoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	if err := h.boxService.SetDeliveryInfo(c.Request.Context(), workspaceID, req); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// Delete removes a box and restores its packing materials
func (h *BoxHandler) Delete(c *gin.Context) {
	workspaceID, err := getWorkspaceID(c)
	if err != nil {
		h.BadRequest(c, "invalid workspace ID")
		return
	}

	boxID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "invalid box ID")
		return
	}

	if err := h.boxService.DeleteBox(c.Request.Context(), workspaceID, boxID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
