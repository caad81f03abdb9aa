package identity

import (
	"github.com/sewflow/backend/internal/domain/labeling"
	"github.com/sewflow/backend/internal/domain/shared"
)

// Workspace is one seller tenant. All workflow, catalog and stock rows hang
// off a workspace ID; the marketplace API token is stored encrypted and only
// decrypted in memory right before a call.
type Workspace struct {
	shared.BaseAggregateRoot
	Name       string `gorm:"size:255;not null;uniqueIndex"`
	SellerName string `gorm:"size:255"`

	ShowEAN      bool `gorm:"not null;default:true"`
	ShowGS1      bool `gorm:"not null;default:true"`
	ShowTitle    bool `gorm:"not null;default:true"`
	ShowColor    bool `gorm:"not null;default:true"`
	ShowSize     bool `gorm:"not null;default:true"`
	ShowMaterial bool `gorm:"not null;default:true"`
	ShowCountry  bool `gorm:"not null;default:true"`
	ShowSeller   bool `gorm:"not null;default:true"`
	ShowArticle  bool `gorm:"not null;default:true"`

	// EncryptedToken holds nonce||ciphertext from the secrets sealer
	EncryptedToken []byte `gorm:"type:bytea"`
}

// TableName specifies the table name for GORM
func (Workspace) TableName() string {
	return "workspaces"
}

// NewWorkspace creates a workspace with every label line enabled
func NewWorkspace(name string) (*Workspace, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "workspace name is required")
	}
	return &Workspace{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		ShowEAN:           true,
		ShowGS1:           true,
		ShowTitle:         true,
		ShowColor:         true,
		ShowSize:          true,
		ShowMaterial:      true,
		ShowCountry:       true,
		ShowSeller:        true,
		ShowArticle:       true,
	}, nil
}

// LabelSettings resolves the workspace display toggles into the explicit
// settings struct the label composer takes.
func (w *Workspace) LabelSettings() labeling.Settings {
	return labeling.Settings{
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
	}
}

// SetEncryptedToken replaces the stored marketplace token ciphertext
func (w *Workspace) SetEncryptedToken(sealed []byte) {
	w.EncryptedToken = sealed
	w.IncrementVersion()
}

// HasToken reports whether a marketplace token is configured
func (w *Workspace) HasToken() bool {
	return len(w.EncryptedToken) > 0
}
