package identity

import (
	"time"

	"github.com/google/uuid"

	"github.com/sewflow/backend/internal/domain/identity"
)

// CreateWorkspaceRequest creates a seller workspace
type CreateWorkspaceRequest struct {
	Name       string `json:"name" binding:"required"`
	SellerName string `json:"seller_name"`
}

// UpdateSettingsRequest patches workspace label settings; nil fields stay as-is
type UpdateSettingsRequest struct {
	SellerName   *string `json:"seller_name"`
	ShowEAN      *bool   `json:"show_ean"`
	ShowGS1      *bool   `json:"show_gs1"`
	ShowTitle    *bool   `json:"show_title"`
	ShowColor    *bool   `json:"show_color"`
	ShowSize     *bool   `json:"show_size"`
	ShowMaterial *bool   `json:"show_material"`
	ShowCountry  *bool   `json:"show_country"`
	ShowSeller   *bool   `json:"show_seller"`
	ShowArticle  *bool   `json:"show_article"`
}

// SetTokenRequest stores the marketplace API token for a workspace
type SetTokenRequest struct {
	Token string `json:"token" binding:"required"`
}

// WorkspaceResponse is the API shape of a workspace. The token itself never
// leaves the server; only its presence is reported.
type WorkspaceResponse struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	SellerName   string    `json:"seller_name"`
	ShowEAN      bool      `json:"show_ean"`
	ShowGS1      bool      `json:"show_gs1"`
	ShowTitle    bool      `json:"show_title"`
	ShowColor    bool      `json:"show_color"`
	ShowSize     bool      `json:"show_size"`
	ShowMaterial bool      `json:"show_material"`
	ShowCountry  bool      `json:"show_country"`
	ShowSeller   bool      `json:"show_seller"`
	ShowArticle  bool      `json:"show_article"`
	HasToken     bool      `json:"has_token"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func toWorkspaceResponse(w *identity.Workspace) *WorkspaceResponse {
	return &WorkspaceResponse{
		ID:           w.ID,
		Name:         w.Name,
		SellerName:   w.SellerName,
		ShowEAN:      w.ShowEAN,
		ShowGS1:      w.ShowGS1,
		ShowTitle:    w.ShowTitle,
		ShowColor:    w.ShowColor,
		ShowSize:     w.ShowSize,
		ShowMaterial: w.ShowMaterial,
		ShowCountry:  w.ShowCountry,
		ShowSeller:   w.ShowSeller,
		ShowArticle:  w.ShowArticle,
		HasToken:     w.HasToken(),
		CreatedAt:    w.CreatedAt,
		UpdatedAt:    w.UpdatedAt,
	}
}
