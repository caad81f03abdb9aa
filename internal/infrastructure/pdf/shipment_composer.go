package pdf

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"
	"go.uber.org/zap"

	"github.com/sewflow/backend/internal/domain/shared"
	"github.com/sewflow/backend/internal/domain/workflow"
	"github.com/sewflow/backend/internal/infrastructure/barcode"
)

// Shipment sheets share the label page size; the Code 128 symbol is
// centered inside a 56x34mm zone.
const (
	shipmentZoneW = 56.0
	shipmentZoneH = 34.0

	shipmentBarsRenderW = 1120
	shipmentBarsRenderH = 520

	shipmentDigitsFontSize = 8.0
)

// ShipmentComposer renders Code 128 barcode sheets for boxes and for the
// shipment itself.
type ShipmentComposer struct {
	logger *zap.Logger
}

func NewShipmentComposer(logger *zap.Logger) *ShipmentComposer {
	return &ShipmentComposer{logger: logger}
}

// ComposeBoxDoc renders one page per external box identifier. Boxes whose
// identifier is empty are skipped silently; the returned page count tells
// the caller how many made it in.
func (c *ShipmentComposer) ComposeBoxDoc(externalBoxIDs []string) ([]byte, int, error) {
	doc := newLabelDocument()
	rendered := 0
	for i, id := range externalBoxIDs {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		doc.AddPage()
		if err := c.drawCenteredCode128(doc, fmt.Sprintf("box-%d", i), id); err != nil {
			return nil, 0, err
		}
		rendered++
	}
	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, 0, shared.NewDomainError("RENDER_FAILED", "box barcode PDF output failed: "+err.Error())
	}
	return buf.Bytes(), rendered, nil
}

// ComposeShipmentDoc renders the sanitized shipment number on boxCount+1
// identical pages, one per box plus a spare for the shipment paperwork.
func (c *ShipmentComposer) ComposeShipmentDoc(number string, boxCount int) ([]byte, error) {
	safe, err := workflow.SanitizeShipmentNumber(number)
	if err != nil {
		return nil, err
	}
	doc := newLabelDocument()
	for i := 0; i <= boxCount; i++ {
		doc.AddPage()
		if err := c.drawCenteredCode128(doc, fmt.Sprintf("shipment-%d", i), safe); err != nil {
			return nil, err
		}
	}
	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, shared.NewDomainError("RENDER_FAILED", "shipment barcode PDF output failed: "+err.Error())
	}
	return buf.Bytes(), nil
}

func (c *ShipmentComposer) drawCenteredCode128(doc *gofpdf.Fpdf, name, text string) error {
	img, err := barcode.EncodeCode128(text, shipmentBarsRenderW, shipmentBarsRenderH)
	if err != nil {
		return err
	}
	w := shipmentZoneW
	h := w * float64(shipmentBarsRenderH) / float64(shipmentBarsRenderW)
	if h > shipmentZoneH-4.0 {
		h = shipmentZoneH - 4.0
	}
	zoneY := (labelPageH - shipmentZoneH) / 2
	x := (labelPageW - w) / 2
	y := zoneY + (shipmentZoneH-4.0-h)/2
	placeImage(doc, name, img, x, y, w, h)

	doc.SetFont("Helvetica", "", shipmentDigitsFontSize)
	textW := doc.GetStringWidth(text)
	doc.Text((labelPageW-textW)/2, y+h+3.0, text)
	return nil
}
