package catalog

import (
	"strings"

	"github.com/sewflow/backend/internal/domain/labeling"
	"github.com/sewflow/backend/internal/domain/shared"

	"github.com/google/uuid"
)

// SizeVariant is one sellable size of a product with its marketplace SKU
// barcodes. The first barcode is the canonical one for labels.
type SizeVariant struct {
	TechSize string   `json:"tech_size"`
	Barcodes []string `json:"barcodes"`
}

// Characteristic is a raw marketplace card attribute
type Characteristic struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Product mirrors a marketplace product card inside a workspace. Cards are
// synced from the marketplace, never authored locally, so most fields are
// overwritten wholesale on sync.
type Product struct {
	shared.WorkspaceAggregateRoot
	ExternalID      int64            `gorm:"not null;index:idx_product_ws_ext"`
	GroupID         *uuid.UUID       `gorm:"type:uuid;index"`
	Title           string           `gorm:"size:500;not null"`
	Brand           string           `gorm:"size:255"`
	VendorCode      string           `gorm:"size:255;index"`
	Category        string           `gorm:"size:255"`
	PhotoURL        string           `gorm:"size:1000"`
	Sizes           []SizeVariant    `gorm:"serializer:json"`
	Characteristics []Characteristic `gorm:"serializer:json"`
}

// TableName specifies the table name for GORM
func (Product) TableName() string {
	return "products"
}

// NewProduct creates a product synced from a marketplace card
func NewProduct(workspaceID uuid.UUID, externalID int64, title string) (*Product, error) {
	if externalID == 0 {
		return nil, shared.NewDomainError("INVALID_INPUT", "external product ID is required")
	}
	if title == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "product title is required")
	}
	return &Product{
		WorkspaceAggregateRoot: shared.NewWorkspaceAggregateRoot(workspaceID),
		ExternalID:             externalID,
		Title:                  title,
	}, nil
}

// BarcodeForSize returns the first SKU barcode registered for the given
// tech size, or an empty string when the size carries none.
func (p *Product) BarcodeForSize(size string) string {
	for _, v := range p.Sizes {
		if strings.EqualFold(v.TechSize, size) && len(v.Barcodes) > 0 {
			return v.Barcodes[0]
		}
	}
	return ""
}

// HasSize reports whether the product lists the given tech size
func (p *Product) HasSize(size string) bool {
	for _, v := range p.Sizes {
		if strings.EqualFold(v.TechSize, size) {
			return true
		}
	}
	return false
}

// MetadataForLabels extracts the label-facing attributes from the raw
// marketplace characteristics. Attribute names vary between categories, so
// matching is by substring on the lowercased name.
func (p *Product) MetadataForLabels(size string) labeling.Metadata {
	meta := labeling.Metadata{
		Title:   p.Title,
		Size:    size,
		Article: p.VendorCode,
		Barcode: p.BarcodeForSize(size),
	}
	for _, c := range p.Characteristics {
		name := strings.ToLower(c.Name)
		switch {
		case strings.Contains(name, "состав") || strings.Contains(name, "материал"):
			if meta.Material == "" {
				meta.Material = c.Value
			}
		case strings.HasPrefix(name, "страна"):
			if meta.Country == "" {
				meta.Country = c.Value
			}
		case strings.Contains(name, "цвет") || strings.Contains(name, "color"):
			if meta.Color == "" {
				meta.Color = c.Value
			}
		}
	}
	return meta
}

// CategoryKeyword returns the first word of the category name, used to match
// products against finished-goods stock rows named by humans.
func (p *Product) CategoryKeyword() string {
	fields := strings.Fields(p.Category)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
