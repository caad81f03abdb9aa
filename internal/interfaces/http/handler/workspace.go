package handler

import (
	"github.com/gin-gonic/gin"

	identityapp "github.com/sewflow/backend/internal/application/identity"
)

// WorkspaceHandler handles workspace management endpoints
type WorkspaceHandler struct {
	BaseHandler
	workspaceService *identityapp.Service
}

// NewWorkspaceHandler creates a new WorkspaceHandler
func NewWorkspaceHandler(workspaceService *identityapp.Service) *WorkspaceHandler {
	return &WorkspaceHandler{workspaceService: workspaceService}
}

// Create creates a new workspace
func (h *WorkspaceHandler) Create(c *gin.Context) {
	var req identityapp.CreateWorkspaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	workspace, err := h.workspaceService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, workspace)
}

// List returns all workspaces
func (h *WorkspaceHandler) List(c *gin.Context) {
	workspaces, err := h.workspaceService.List(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, workspaces)
}

// Get returns a single workspace
func (h *WorkspaceHandler) Get(c *gin.Context) {
	workspaceID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "invalid workspace ID")
		return
	}

	workspace, err := h.workspaceService.Get(c.Request.Context(), workspaceID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, workspace)
}

// UpdateSettings updates the seller name and label display toggles
func (h *WorkspaceHandler) UpdateSettings(c *gin.Context) {
	workspaceID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "invalid workspace ID")
		return
	}

	var req identityapp.UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	workspace, err := h.workspaceService.UpdateSettings(c.Request.Context(), workspaceID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, workspace)
}

// SetToken stores a new marketplace API token for the workspace. The token
// is sealed at rest and never returned by any endpoint.
func (h *WorkspaceHandler) SetToken(c *gin.Context) {
	workspaceID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "invalid workspace ID")
		return
	}

	var req identityapp.SetTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	if err := h.workspaceService.SetToken(c.Request.Context(), workspaceID, req); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// Delete removes a workspace
func (h *WorkspaceHandler) Delete(c *gin.Context) {
	workspaceID, err := parseIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "invalid workspace ID")
		return
	}

	if err := h.workspaceService.Delete(c.Request.Context(), workspaceID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
