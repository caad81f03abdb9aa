// Package barcode wraps symbol decoding and encoding behind small helpers:
// Data Matrix symbols are read from page rasters and re-encoded fresh, and
// linear EAN-13 / Code 128 bars are rendered for labels and shipment papers.
package barcode

import (
	"image"
	"image/draw"

	"github.com/boombuler/barcode"
	bdatamatrix "github.com/boombuler/barcode/datamatrix"
	"github.com/makiuchi-d/gozxing"
	zxdatamatrix "github.com/makiuchi-d/gozxing/datamatrix"

	"github.com/sewflow/backend/internal/domain/shared"
)

// DecodeDataMatrix reads the first Data Matrix symbol found in the image and
// returns its raw payload. Rasters should be upscaled (~1.5x) by the caller;
// small print sizes decode unreliably at 1:1.
func DecodeDataMatrix(img image.Image) (string, error) {
	bmp, err := gozxing.NewBinaryBitmapFromImage(img)
	if err != nil {
		return "", shared.NewDomainError("DECODE_FAILED", "could not binarize page raster: "+err.Error())
	}
	reader := zxdatamatrix.NewDataMatrixReader()
	result, err := reader.Decode(bmp, map[gozxing.DecodeHintType]interface{}{
		gozxing.DecodeHintType_TRY_HARDER: true,
	})
	if err != nil {
		return "", shared.NewDomainError("DECODE_FAILED", "no Data Matrix symbol detected")
	}
	return result.GetText(), nil
}

// EncodeDataMatrix renders the payload as a square Data Matrix image at the
// given pixel edge length. The symbol is surrounded by a white quiet zone
// inside that edge; scanners refuse symbols that touch the image border.
func EncodeDataMatrix(payload string, sizePx int) (image.Image, error) {
	if payload == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "payload is empty")
	}
	code, err := bdatamatrix.Encode(payload)
	if err != nil {
		return nil, shared.NewDomainError("ENCODE_FAILED", "Data Matrix encode failed: "+err.Error())
	}
	margin := sizePx / 12
	if margin < 4 {
		margin = 4
	}
	inner := sizePx - 2*margin
	if inner < code.Bounds().Dx() {
		return nil, shared.NewDomainError("ENCODE_FAILED", "Data Matrix target size too small")
	}
	scaled, err := barcode.Scale(code, inner, inner)
	if err != nil {
		return nil, shared.NewDomainError("ENCODE_FAILED", "Data Matrix scale failed: "+err.Error())
	}
	out := image.NewRGBA(image.Rect(0, 0, sizePx, sizePx))
	draw.Draw(out, out.Bounds(), image.White, image.Point{}, draw.Src)
	draw.Draw(out, image.Rect(margin, margin, margin+inner, margin+inner), scaled, scaled.Bounds().Min, draw.Src)
	return out, nil
}
