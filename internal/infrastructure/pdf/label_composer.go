// Package pdf renders the printable artifacts of the workflow: 58x40mm
// product labels, box barcode sheets and shipment barcode sheets. It also
// ingests uploaded label source PDFs into per-page records.
package pdf

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"os"
	"strings"

	"github.com/jung-kurt/gofpdf"
	"go.uber.org/zap"

	"github.com/sewflow/backend/internal/domain/labeling"
	"github.com/sewflow/backend/internal/domain/shared"
	"github.com/sewflow/backend/internal/infrastructure/barcode"
)

// Label sheet geometry, all in millimetres.
const (
	labelPageW = 58.0
	labelPageH = 40.0

	matrixX    = 0.5
	matrixEdge = 23.0
	// distance from the page bottom to the bottom edge of the matrix
	matrixBottom = 15.0

	eanGap       = 0.25
	eanMinWidth  = 37.0
	eanDigitZone = 3.0

	gs1TextX    = 1.0
	gs1FontSize = 5.0
	gs1SplitAt  = 21

	metaX         = 25.0
	metaFontSize  = 6.0
	metaLineStep  = 2.5
	metaWrapWidth = 30.0

	logoX      = 2.0
	logoBottom = 3.0
	logoW      = 20.0
	logoH      = 6.0

	matrixRenderPx  = 300
	eanRenderWidth  = 740
	eanRenderHeight = 280
)

const utf8FontName = "labelfont"

// LabelComposer renders one label page per source page. A missing font or
// logo file degrades the output (core font, no logo) rather than failing.
type LabelComposer struct {
	fontPath string
	logoPath string
	logger   *zap.Logger
}

func NewLabelComposer(fontPath, logoPath string, logger *zap.Logger) *LabelComposer {
	return &LabelComposer{fontPath: fontPath, logoPath: logoPath, logger: logger}
}

// Compose renders one label per source page and returns the PDF bytes.
// Pages arrive in ascending sequence order; the freshest page (last row)
// becomes the first label, mirroring tail consumption of the source
// document. An empty slice yields an empty document.
func (c *LabelComposer) Compose(pages []labeling.SourcePage, meta labeling.Metadata, settings labeling.Settings) ([]byte, error) {
	doc := newLabelDocument()
	fontName, translate := c.setupFont(doc)

	for i := len(pages) - 1; i >= 0; i-- {
		page := pages[i]
		doc.AddPage()

		payload := c.decodeMatrixPayload(page)
		gs1Line := page.GS1Text

		if payload != "" {
			c.drawDataMatrix(doc, fmt.Sprintf("dm-%d", page.Seq), payload)
		}
		if settings.ShowEAN {
			if code := resolveEANCode(meta.Barcode, gs1Line); code != "" {
				c.drawEAN(doc, fmt.Sprintf("ean-%d", page.Seq), code, fontName, translate)
			}
		}
		if settings.ShowGS1 && gs1Line != "" {
			drawGS1Text(doc, fontName, translate, gs1Line)
		}
		drawMetadataColumn(doc, fontName, translate, meta, settings)
		c.drawLogo(doc)
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, shared.NewDomainError("RENDER_FAILED", "label PDF output failed: "+err.Error())
	}
	return buf.Bytes(), nil
}

func newLabelDocument() *gofpdf.Fpdf {
	doc := gofpdf.NewCustom(&gofpdf.InitType{
		UnitStr: "mm",
		Size:    gofpdf.SizeType{Wd: labelPageW, Ht: labelPageH},
	})
	doc.SetMargins(0, 0, 0)
	doc.SetAutoPageBreak(false, 0)
	return doc
}

// setupFont registers the configured TTF for Cyrillic output. Without it
// the core Helvetica font is used and non-Latin text is transliterated by
// the CP1252 mapper, which keeps rendering alive on bare hosts.
func (c *LabelComposer) setupFont(doc *gofpdf.Fpdf) (string, func(string) string) {
	if c.fontPath != "" {
		if _, err := os.Stat(c.fontPath); err == nil {
			doc.AddUTF8Font(utf8FontName, "", c.fontPath)
			return utf8FontName, func(s string) string { return s }
		}
		c.logger.Warn("label font not found, falling back to core font",
			zap.String("font_path", c.fontPath))
	}
	tr := doc.UnicodeTranslatorFromDescriptor("")
	return "Helvetica", func(s string) string { return coreFontSafe(tr(s)) }
}

// coreFontSafe replaces characters outside the single-byte range of the
// core fonts. Their width tables only cover 256 code points, so anything
// above that must not reach the layout routines.
func coreFontSafe(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r > 0xFF {
			r = '?'
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (c *LabelComposer) decodeMatrixPayload(page labeling.SourcePage) string {
	img, err := png.Decode(bytes.NewReader(page.ImagePNG))
	if err != nil {
		c.logger.Warn("source page raster unreadable", zap.Int("seq", page.Seq), zap.Error(err))
		return ""
	}
	raw, err := barcode.DecodeDataMatrix(img)
	if err != nil {
		c.logger.Warn("no Data Matrix on source page", zap.Int("seq", page.Seq))
		return ""
	}
	return labeling.RestoreGroupSeparators(raw)
}

// resolveEANCode prefers the explicitly provided code and falls back to the
// GTIN-14 embedded in the GS1 text line.
func resolveEANCode(explicit, gs1Line string) string {
	if explicit != "" {
		return explicit
	}
	return labeling.ExtractEAN13FromGS1(gs1Line)
}

func (c *LabelComposer) drawDataMatrix(doc *gofpdf.Fpdf, name, payload string) {
	img, err := barcode.EncodeDataMatrix(payload, matrixRenderPx)
	if err != nil {
		c.logger.Warn("Data Matrix re-encode failed", zap.Error(err))
		return
	}
	y := labelPageH - matrixBottom - matrixEdge
	placeImage(doc, name, img, matrixX, y, matrixEdge, matrixEdge)
}

func (c *LabelComposer) drawEAN(doc *gofpdf.Fpdf, name, code, fontName string, translate func(string) string) {
	img, err := barcode.EncodeEAN13(code, eanRenderWidth, eanRenderHeight)
	if err != nil {
		c.logger.Warn("EAN-13 render failed", zap.String("code", code), zap.Error(err))
		return
	}
	x := matrixX + matrixEdge + 0.5
	w := labelPageW - x - eanGap
	if w < eanMinWidth {
		w = eanMinWidth
	}
	bounds := img.Bounds()
	h := w * float64(bounds.Dy()) / float64(bounds.Dx())
	// bars sit on the digit zone at the bottom edge of the page
	placeImage(doc, name, img, x, labelPageH-eanDigitZone-h, w, h)

	doc.SetFont(fontName, "", gs1FontSize)
	full, err := labeling.NormalizeEAN13(code)
	if err != nil {
		return
	}
	textW := doc.GetStringWidth(full)
	doc.Text(x+(w-textW)/2, labelPageH-1.0, translate(full))
}

func drawGS1Text(doc *gofpdf.Fpdf, fontName string, translate func(string) string, line string) {
	doc.SetFont(fontName, "", gs1FontSize)
	runes := []rune(line)
	if len(runes) > gs1SplitAt {
		doc.Text(gs1TextX, labelPageH-12.0, translate(string(runes[:gs1SplitAt])))
		doc.Text(gs1TextX, labelPageH-10.0, translate(string(runes[gs1SplitAt:])))
		return
	}
	doc.Text(gs1TextX, labelPageH-12.0, translate(line))
}

// drawMetadataColumn writes the right-hand column top-down: wrapped title,
// then the attribute lines, each only when present and enabled, and the
// article number last, clamped so it never leaves the page.
func drawMetadataColumn(doc *gofpdf.Fpdf, fontName string, translate func(string) string, meta labeling.Metadata, settings labeling.Settings) {
	doc.SetFont(fontName, "", metaFontSize)
	y := labelPageH - 37.0

	if settings.ShowTitle && meta.Title != "" {
		for _, line := range doc.SplitText(translate(meta.Title), metaWrapWidth) {
			doc.Text(metaX, y, line)
			y += metaLineStep
		}
	}
	attrs := []struct {
		enabled bool
		prefix  string
		value   string
	}{
		{settings.ShowColor, "Цвет: ", meta.Color},
		{settings.ShowSize, "Размер: ", meta.Size},
		{settings.ShowMaterial, "Состав: ", meta.Material},
		{settings.ShowCountry, "Страна: ", meta.Country},
		{settings.ShowSeller, "ИП: ", settings.SellerName},
	}
	for _, a := range attrs {
		if !a.enabled || a.value == "" {
			continue
		}
		doc.Text(metaX, y, translate(a.prefix+a.value))
		y += metaLineStep
	}
	if settings.ShowArticle && meta.Article != "" {
		y += metaLineStep
		if max := labelPageH - 2.5; y > max {
			y = max
		}
		doc.Text(metaX, y, translate("Арт. "+meta.Article))
	}
}

func (c *LabelComposer) drawLogo(doc *gofpdf.Fpdf) {
	if c.logoPath == "" {
		return
	}
	if _, err := os.Stat(c.logoPath); err != nil {
		return
	}
	opts := gofpdf.ImageOptions{ReadDpi: true}
	doc.ImageOptions(c.logoPath, logoX, labelPageH-logoBottom-logoH, logoW, logoH, false, opts, 0, "")
}

func placeImage(doc *gofpdf.Fpdf, name string, img image.Image, x, y, w, h float64) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return
	}
	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	doc.RegisterImageOptionsReader(name, opts, &buf)
	doc.ImageOptions(name, x, y, w, h, false, opts, 0, "")
}
