package barcode

import (
	"image"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/code128"
	"github.com/boombuler/barcode/ean"

	"github.com/sewflow/backend/internal/domain/labeling"
	"github.com/sewflow/backend/internal/domain/shared"
)

// EncodeEAN13 renders a 12- or 13-digit code as EAN-13 bars. A 12-digit
// input gets its check digit computed first.
func EncodeEAN13(code string, widthPx, heightPx int) (image.Image, error) {
	full, err := labeling.NormalizeEAN13(code)
	if err != nil {
		return nil, err
	}
	bars, err := ean.Encode(full)
	if err != nil {
		return nil, shared.NewDomainError("ENCODE_FAILED", "EAN-13 encode failed: "+err.Error())
	}
	scaled, err := barcode.Scale(bars, widthPx, heightPx)
	if err != nil {
		return nil, shared.NewDomainError("ENCODE_FAILED", "EAN-13 scale failed: "+err.Error())
	}
	return scaled, nil
}

// EncodeCode128 renders arbitrary text as Code 128 bars, used for box and
// shipment numbers.
func EncodeCode128(text string, widthPx, heightPx int) (image.Image, error) {
	if text == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "barcode text is empty")
	}
	bars, err := code128.Encode(text)
	if err != nil {
		return nil, shared.NewDomainError("ENCODE_FAILED", "Code 128 encode failed: "+err.Error())
	}
	scaled, err := barcode.Scale(bars, widthPx, heightPx)
	if err != nil {
		return nil, shared.NewDomainError("ENCODE_FAILED", "Code 128 scale failed: "+err.Error())
	}
	return scaled, nil
}
