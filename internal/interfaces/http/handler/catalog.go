package handler

import (
	"github.com/gin-gonic/gin"

	catalogapp "github.com/sewflow/backend/internal/application/catalog"
)

// CatalogHandler handles product catalog endpoints
type CatalogHandler struct {
	BaseHandler
	catalogService *catalogapp.Service
}

// NewCatalogHandler creates a new CatalogHandler
func NewCatalogHandler(catalogService *catalogapp.Service) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

// Sync pulls the workspace's full marketplace catalog into the local one
func (h *CatalogHandler) Sync(c *gin.Context) {
	workspaceID, err := getWorkspaceID(c)
	if err != nil {
		h.BadRequest(c, "invalid workspace ID")
		return
	}

	result, err := h.catalogService.Sync(c.Request.Context(), workspaceID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// ListProducts returns a page of catalog products
func (h *CatalogHandler) ListProducts(c *gin.Context) {
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

	result, err := h.catalogService.ListProducts(c.Request.Context(), workspaceID, req.ToFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Products, result.Total, req.Page, req.PageSize)
}

// GetProduct returns a single catalog product
func (h *CatalogHandler) GetProduct(c *gin.Context) {
	workspaceID, err := getWorkspaceID(c)
	if err != nil {
		h.BadRequest(c, "invalid workspace ID")
		return
	}

	productID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "invalid product ID")
		return
	}

	product, err := h.catalogService.GetProduct(c.Request.Context(), workspaceID, productID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, product)
}

// ListGroups returns the product groups of the workspace
func (h *CatalogHandler) ListGroups(c *gin.Context) {
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

	groups, err := h.catalogService.ListGroups(c.Request.Context(), workspaceID, req.ToFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, groups)
}
