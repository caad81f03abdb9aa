package catalog

import (
	"time"

	"github.com/google/uuid"

	"github.com/sewflow/backend/internal/domain/catalog"
)

// SyncResponse reports a finished catalog sync
type SyncResponse struct {
	Products int `json:"products"`
	Groups   int `json:"groups"`
	Pages    int `json:"pages"`
}

// ProductResponse is the API shape of a synced product card
type ProductResponse struct {
	ID              uuid.UUID                `json:"id"`
	ExternalID      int64                    `json:"external_id"`
	GroupID         *uuid.UUID               `json:"group_id"`
	Title           string                   `json:"title"`
	Brand           string                   `json:"brand"`
	VendorCode      string                   `json:"vendor_code"`
	Category        string                   `json:"category"`
	PhotoURL        string                   `json:"photo_url"`
	Sizes           []catalog.SizeVariant    `json:"sizes"`
	Characteristics []catalog.Characteristic `json:"characteristics"`
	UpdatedAt       time.Time                `json:"updated_at"`
}

// ProductListResponse is a paginated product listing
type ProductListResponse struct {
	Products []ProductResponse `json:"products"`
	Total    int64             `json:"total"`
}

// ProductGroupResponse is the API shape of a product group
type ProductGroupResponse struct {
	ID         uuid.UUID `json:"id"`
	ExternalID int64     `json:"external_id"`
	Title      string    `json:"title"`
}

func toProductResponse(product *catalog.Product) ProductResponse {
	return ProductResponse{
		ID:              product.ID,
		ExternalID:      product.ExternalID,
		GroupID:         product.GroupID,
		Title:           product.Title,
		Brand:           product.Brand,
		VendorCode:      product.VendorCode,
		Category:        product.Category,
		PhotoURL:        product.PhotoURL,
		Sizes:           product.Sizes,
		Characteristics: product.Characteristics,
		UpdatedAt:       product.UpdatedAt,
	}
}

func toProductGroupResponse(group *catalog.ProductGroup) ProductGroupResponse {
	return ProductGroupResponse{
		ID:         group.ID,
		ExternalID: group.ExternalID,
		Title:      group.Title,
	}
}
