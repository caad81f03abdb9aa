package stock

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sewflow/backend/internal/domain/stock"
)

// UpdateMaterialsRequest patches the supply counters; nil fields stay as-is
type UpdateMaterialsRequest struct {
	Boxes       *int             `json:"boxes"`
	Bags        *int             `json:"bags"`
	FilmMeters  *decimal.Decimal `json:"film_meters"`
	PaintWhite  *int             `json:"paint_white"`
	PaintBlack  *int             `json:"paint_black"`
	PaintRed    *int             `json:"paint_red"`
	PaintYellow *int             `json:"paint_yellow"`
	PaintBlue   *int             `json:"paint_blue"`
	Glue        *int             `json:"glue"`
	LabelRolls  *int             `json:"label_rolls"`
}

// MaterialLedgerResponse is the API shape of the supply counters
type MaterialLedgerResponse struct {
	Boxes       int             `json:"boxes"`
	Bags        int             `json:"bags"`
	FilmMeters  decimal.Decimal `json:"film_meters"`
	PaintWhite  int             `json:"paint_white"`
	PaintBlack  int             `json:"paint_black"`
	PaintRed    int             `json:"paint_red"`
	PaintYellow int             `json:"paint_yellow"`
	PaintBlue   int             `json:"paint_blue"`
	Glue        int             `json:"glue"`
	LabelRolls  int             `json:"label_rolls"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// CreateFinishedGoodRequest creates a stock row for a (product name, color)
type CreateFinishedGoodRequest struct {
	ProductName string         `json:"product_name" binding:"required"`
	Color       string         `json:"color"`
	Stock       map[string]int `json:"stock"`
}

// SetStockRequest overwrites the quantity of one size
type SetStockRequest struct {
	Size     string `json:"size" binding:"required"`
	Quantity int    `json:"quantity" binding:"min=0"`
}

// StageDefectRequest stages defective units for one size
type StageDefectRequest struct {
	Size     string `json:"size" binding:"required"`
	Quantity int    `json:"quantity" binding:"min=0"`
}

// FinishedGoodResponse is the API shape of a finished-goods stock row
type FinishedGoodResponse struct {
	ID          uuid.UUID      `json:"id"`
	ProductName string         `json:"product_name"`
	Color       string         `json:"color"`
	Stock       map[string]int `json:"stock"`
	Defects     map[string]int `json:"defects"`
	TotalStock  int            `json:"total_stock"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// UsageEntryResponse is one usage ledger row
type UsageEntryResponse struct {
	ID            uuid.UUID       `json:"id"`
	Date          time.Time       `json:"date"`
	Brand         string          `json:"brand"`
	ProductName   string          `json:"product_name"`
	Color         string          `json:"color"`
	Sizes         map[string]int  `json:"sizes"`
	TotalQuantity int             `json:"total_quantity"`
	BagsUsed      int             `json:"bags_used"`
	BoxesUsed     int             `json:"boxes_used"`
	FilmUsed      decimal.Decimal `json:"film_used"`
}

// UsageDayResponse groups the ledger rows of one production day
type UsageDayResponse struct {
	Date          time.Time            `json:"date"`
	Entries       []UsageEntryResponse `json:"entries"`
	TotalQuantity int                  `json:"total_quantity"`
	TotalBags     int                  `json:"total_bags"`
	TotalBoxes    int                  `json:"total_boxes"`
	TotalFilm     decimal.Decimal      `json:"total_film"`
}

// UsageSummaryResponse aggregates the whole ledger of a workspace
type UsageSummaryResponse struct {
	Days          int             `json:"days"`
	TotalQuantity int             `json:"total_quantity"`
	TotalBags     int             `json:"total_bags"`
	TotalBoxes    int             `json:"total_boxes"`
	TotalFilm     decimal.Decimal `json:"total_film"`
}

func toMaterialLedgerResponse(ledger *stock.MaterialLedger) *MaterialLedgerResponse {
	return &MaterialLedgerResponse{
		Boxes:       ledger.Boxes,
		Bags:        ledger.Bags,
		FilmMeters:  ledger.FilmMeters,
		PaintWhite:  ledger.PaintWhite,
		PaintBlack:  ledger.PaintBlack,
		PaintRed:    ledger.PaintRed,
		PaintYellow: ledger.PaintYellow,
		PaintBlue:   ledger.PaintBlue,
		Glue:        ledger.Glue,
		LabelRolls:  ledger.LabelRolls,
		UpdatedAt:   ledger.UpdatedAt,
	}
}

func toFinishedGoodResponse(good *stock.FinishedGood) *FinishedGoodResponse {
	return &FinishedGoodResponse{
		ID:          good.ID,
		ProductName: good.ProductName,
		Color:       good.Color,
		Stock:       good.Stock,
		Defects:     good.Defects,
		TotalStock:  good.Stock.Total(),
		CreatedAt:   good.CreatedAt,
		UpdatedAt:   good.UpdatedAt,
	}
}

func toUsageEntryResponse(entry *stock.UsageEntry) UsageEntryResponse {
	return UsageEntryResponse{
		ID:            entry.ID,
		Date:          entry.Date,
		Brand:         entry.Brand,
		ProductName:   entry.ProductName,
		Color:         entry.Color,
		Sizes:         entry.Sizes,
		TotalQuantity: entry.TotalQuantity(),
		BagsUsed:      entry.BagsUsed,
		BoxesUsed:     entry.BoxesUsed,
		FilmUsed:      entry.FilmUsed,
	}
}
