package pdf

import (
	"bytes"
	"fmt"
	"image/png"
	"strings"

	"github.com/gen2brain/go-fitz"
	pdftext "github.com/ledongthuc/pdf"
	"go.uber.org/zap"

	"github.com/sewflow/backend/internal/domain/labeling"
	"github.com/sewflow/backend/internal/domain/shared"
)

// Rasters are rendered above print resolution so the Data Matrix reader
// has enough pixels to lock onto; 108 dpi is 1.5x the nominal page scale.
const ingestRasterDPI = 108.0

// Ingestor converts an uploaded label source PDF into ordered page records:
// a PNG raster for symbol decoding plus the GS1 line from the text layer.
type Ingestor struct {
	logger *zap.Logger
}

func NewIngestor(logger *zap.Logger) *Ingestor {
	return &Ingestor{logger: logger}
}

func (in *Ingestor) Ingest(data []byte) ([]labeling.SourcePage, error) {
	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "could not open PDF: "+err.Error())
	}
	defer doc.Close()

	total := doc.NumPage()
	if total == 0 {
		return nil, shared.NewDomainError("INVALID_INPUT", "PDF has no pages")
	}

	texts := in.extractTextLayer(data, total)

	pages := make([]labeling.SourcePage, 0, total)
	for i := 0; i < total; i++ {
		img, err := doc.ImageDPI(i, ingestRasterDPI)
		if err != nil {
			return nil, shared.NewDomainError("INVALID_INPUT",
				fmt.Sprintf("could not rasterize page %d: %v", i+1, err))
		}
		var buf bytes.Buffer
		if err := png.Encode(&buf, img); err != nil {
			return nil, shared.NewDomainError("INVALID_INPUT",
				fmt.Sprintf("could not encode page %d raster: %v", i+1, err))
		}
		pages = append(pages, labeling.SourcePage{
			Seq:      i,
			ImagePNG: buf.Bytes(),
			GS1Text:  firstGS1Line(texts[i]),
		})
	}
	return pages, nil
}

// extractTextLayer pulls per-page plain text. Text extraction is best
// effort: a page without a text layer simply gets no GS1 line, the Data
// Matrix raster still carries the payload.
func (in *Ingestor) extractTextLayer(data []byte, total int) []string {
	texts := make([]string, total)
	defer func() {
		if r := recover(); r != nil {
			in.logger.Warn("text layer extraction panicked", zap.Any("cause", r))
		}
	}()

	reader, err := pdftext.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		in.logger.Warn("text layer unavailable", zap.Error(err))
		return texts
	}
	for i := 0; i < total; i++ {
		page := reader.Page(i + 1)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			in.logger.Warn("text layer unreadable", zap.Int("page", i+1), zap.Error(err))
			continue
		}
		texts[i] = text
	}
	return texts
}

// firstGS1Line returns the first stripped line that opens with the GTIN
// application identifier, in either bare or parenthesised form.
func firstGS1Line(text string) string {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "01") || strings.HasPrefix(line, "(01)") {
			return line
		}
	}
	return ""
}
