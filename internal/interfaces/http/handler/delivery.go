package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	workflowapp "github.com/sewflow/backend/internal/application/workflow"
)

// DeliveryHandler handles delivery stage endpoints
type DeliveryHandler struct {
	BaseHandler
	deliveryService *workflowapp.DeliveryService
}

// NewDeliveryHandler creates a new DeliveryHandler
func NewDeliveryHandler(deliveryService *workflowapp.DeliveryService) *DeliveryHandler {
	return &DeliveryHandler{deliveryService: deliveryService}
}

// List returns the deliveries of the workspace
func (h *DeliveryHandler) List(c *gin.Context) {
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

	deliveries, err := h.deliveryService.ListDeliveries(c.Request.Context(), workspaceID, req.ToFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, deliveries)
}

// Get returns a single delivery with its box snapshots
func (h *DeliveryHandler) Get(c *gin.Context) {
	workspaceID, err := getWorkspaceID(c)
	if err != nil {
		h.BadRequest(c, "invalid workspace ID")
		return
	}

	deliveryID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "invalid delivery ID")
		return
	}

	delivery, err := h.deliveryService.GetDelivery(c.Request.Context(), workspaceID, deliveryID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, delivery)
}

// Move hands completed boxes over to deliveries, one delivery per distinct
// (date, number, warehouse). Boxes missing any delivery field are listed in
// the rejection.
func (h *DeliveryHandler) Move(c *gin.Context) {
	workspaceID, err := getWorkspaceID(c)
	if err != nil {
		h.BadRequest(c, "invalid workspace ID")
		return
	}

	var req workflowapp.MoveToDeliveriesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	deliveries, err := h.deliveryService.MoveToDeliveries(c.Request.Context(), workspaceID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, deliveries)
}

// DownloadDocument serves a generated barcode document of the delivery.
// The kind path segment selects "boxes" or "shipment".
func (h *DeliveryHandler) DownloadDocument(c *gin.Context) {
	workspaceID, err := getWorkspaceID(c)
	if err != nil {
		h.BadRequest(c, "invalid workspace ID")
		return
	}

	deliveryID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "invalid delivery ID")
		return
	}

	data, fileName, err := h.deliveryService.DownloadDocument(c.Request.Context(), workspaceID, deliveryID, c.Param("kind"))
	if err != nil {
		h.HandleError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileName))
	c.Data(http.StatusOK, "application/pdf", data)
}

// Archive moves a delivery into the archive
func (h *DeliveryHandler) Archive(c *gin.Context) {
	workspaceID, err := getWorkspaceID(c)
	if err != nil {
		h.BadRequest(c, "invalid workspace ID")
		return
	}

	deliveryID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "invalid delivery ID")
		return
	}

	delivery, err := h.deliveryService.ArchiveDelivery(c.Request.Context(), workspaceID, deliveryID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, delivery)
}

// Delete removes a delivery and its stored documents
func (h *DeliveryHandler) Delete(c *gin.Context) {
	workspaceID, err := getWorkspaceID(c)
	if err != nil {
		h.BadRequest(c, "invalid workspace ID")
		return
	}

	deliveryID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "invalid delivery ID")
		return
	}

	if err := h.deliveryService.DeleteDelivery(c.Request.Context(), workspaceID, deliveryID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
