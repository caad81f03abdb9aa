package handler

import (
	"github.com/gin-gonic/gin"

	stockapp "github.com/sewflow/backend/internal/application/stock"
)

// MaterialHandler handles the material stock ledger endpoints
type MaterialHandler struct {
	BaseHandler
	materialService *stockapp.MaterialService
}

// NewMaterialHandler creates a new MaterialHandler
func NewMaterialHandler(materialService *stockapp.MaterialService) *MaterialHandler {
	return &MaterialHandler{materialService: materialService}
}

// Get returns the material ledger of the workspace, creating an empty one
// on first access
func (h *MaterialHandler) Get(c *gin.Context) {
	workspaceID, err := getWorkspaceID(c)
	if err != nil {
		h.BadRequest(c, "invalid workspace ID")
		return
	}

	ledger, err := h.materialService.GetLedger(c.Request.Context(), workspaceID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, ledger)
}

// Update overwrites material counters with physically counted values
func (h *MaterialHandler) Update(c *gin.Context) {
	workspaceID, err := getWorkspaceID(c)
	if err != nil {
		h.BadRequest(c, "invalid workspace ID")
		return
	}

	var req stockapp.UpdateMaterialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	ledger, err := h.materialService.UpdateLedger(c.Request.Context(), workspaceID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, ledger)
}

// FinishedGoodsHandler handles finished goods stock endpoints
type FinishedGoodsHandler struct {
	BaseHandler
	goodsService *stockapp.FinishedGoodsService
}

// NewFinishedGoodsHandler creates a new FinishedGoodsHandler
func NewFinishedGoodsHandler(goodsService *stockapp.FinishedGoodsService) *FinishedGoodsHandler {
	return &FinishedGoodsHandler{goodsService: goodsService}
}

// Create registers a finished goods position
func (h *FinishedGoodsHandler) Create(c *gin.Context) {
	workspaceID, err := getWorkspaceID(c)
	if err != nil {
		h.BadRequest(c, "invalid workspace ID")
		return
	}

	var req stockapp.CreateFinishedGoodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	good, err := h.goodsService.Create(c.Request.Context(), workspaceID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, good)
}

// List returns the finished goods positions of the workspace
func (h *FinishedGoodsHandler) List(c *gin.Context) {
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

	goods, err := h.goodsService.List(c.Request.Context(), workspaceID, req.ToFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, goods)
}

// Get returns a single finished goods position
func (h *FinishedGoodsHandler) Get(c *gin.Context) {
	workspaceID, err := getWorkspaceID(c)
	if err != nil {
		h.BadRequest(c, "invalid workspace ID")
		return
	}

	goodID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "invalid position ID")
		return
	}

	good, err := h.goodsService.Get(c.Request.Context(), workspaceID, goodID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, good)
}

// SetStock overwrites the stock count of one size
func (h *FinishedGoodsHandler) SetStock(c *gin.Context) {
	workspaceID, err := getWorkspaceID(c)
	if err != nil {
		h.BadRequest(c, "invalid workspace ID")
		return
	}

	goodID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "invalid position ID")
		return
	}

	var req stockapp.SetStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	good, err := h.goodsService.SetStock(c.Request.Context(), workspaceID, goodID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, good)
}

// StageDefect records defective units of one size without touching stock
func (h *FinishedGoodsHandler) StageDefect(c *gin.Context) {
	workspaceID, err := getWorkspaceID(c)
	if err != nil {
		h.BadRequest(c, "invalid workspace ID")
		return
	}

	goodID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "invalid position ID")
		return
	}

	var req stockapp.StageDefectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	good, err := h.goodsService.StageDefect(c.Request.Context(), workspaceID, goodID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, good)
}

// ApplyDefects subtracts staged defects from stock and clears them
func (h *FinishedGoodsHandler) ApplyDefects(c *gin.Context) {
	workspaceID, err := getWorkspaceID(c)
	if err != nil {
		h.BadRequest(c, "invalid workspace ID")
		return
	}

	goodID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "invalid position ID")
		return
	}

	good, err := h.goodsService.ApplyDefects(c.Request.Context(), workspaceID, goodID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, good)
}

// Delete removes a finished goods position
func (h *FinishedGoodsHandler) Delete(c *gin.Context) {
	workspaceID, err := getWorkspaceID(c)
	if err != nil {
		h.BadRequest(c, "invalid workspace ID")
		return
	}

	goodID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "invalid position ID")
		return
	}

	if err := h.goodsService.Delete(c.Request.Context(), workspaceID, goodID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// UsageHandler handles material usage ledger endpoints
type UsageHandler struct {
	BaseHandler
	usageService *stockapp.UsageService
}

// NewUsageHandler creates a new UsageHandler
func NewUsageHandler(usageService *stockapp.UsageService) *UsageHandler {
	return &UsageHandler{usageService: usageService}
}

// ListByDay returns usage entries grouped per calendar day, newest first
func (h *UsageHandler) ListByDay(c *gin.Context) {
	workspaceID, err := getWorkspaceID(c)
	if err != nil {
		h.BadRequest(c, "invalid workspace ID")
		return
	}

	days, err := h.usageService.ListByDay(c.Request.Context(), workspaceID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, days)
}

// Summary returns usage totals across the whole ledger
func (h *UsageHandler) Summary(c *gin.Context) {
	workspaceID, err := getWorkspaceID(c)
	if err != nil {
		h.BadRequest(c, "invalid workspace ID")
		return
	}

	summary, err := h.usageService.Summary(c.Request.Context(), workspaceID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, summary)
}

// DeleteEntry removes one usage ledger entry
func (h *UsageHandler) DeleteEntry(c *gin.Context) {
	workspaceID, err := getWorkspaceID(c)
	if err != nil {
		h.BadRequest(c, "invalid workspace ID")
		return
	}

	entryID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "invalid entry ID")
		return
	}

	if err := h.usageService.DeleteEntry(c.Request.Context(), workspaceID, entryID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
