package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/sewflow/backend/internal/interfaces/http/dto"
)

// WorkspaceIDHeader is the header selecting the workspace a request acts on
const WorkspaceIDHeader = "X-Workspace-ID"

const workspaceContextKey = "workspace_id"

// RequireWorkspace resolves the workspace ID from the request header and
// stores it in the gin context. Requests without a valid workspace ID are
// rejected before reaching the handler.
func RequireWorkspace() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader(WorkspaceIDHeader)
		if raw == "" {
			c.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponse(
				dto.ErrCodeBadRequest,
				"missing "+WorkspaceIDHeader+" header",
			))
			return
		}
		workspaceID, err := uuid.Parse(raw)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, dto.NewErrorResponse(
				dto.ErrCodeBadRequest,
				"invalid workspace ID",
			))
			return
		}
		c.Set(workspaceContextKey, workspaceID)
		c.Next()
	}
}

// GetWorkspaceID returns the workspace ID resolved by RequireWorkspace.
// The second return is false on routes that skip workspace resolution.
func GetWorkspaceID(c *gin.Context) (uuid.UUID, bool) {
	v, ok := c.Get(workspaceContextKey)
	if !ok {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}
