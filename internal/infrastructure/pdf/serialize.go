package pdf

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"

	"github.com/sewflow/backend/internal/domain/labeling"
	"github.com/sewflow/backend/internal/domain/shared"
)

// ComposePagesPDF re-serializes stored page rasters into a downloadable
// PDF, one full-bleed page per record in sequence order.
func ComposePagesPDF(pages []labeling.SourcePage) ([]byte, error) {
	doc := newLabelDocument()
	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	for _, page := range pages {
		doc.AddPage()
		name := fmt.Sprintf("page-%d", page.Seq)
		doc.RegisterImageOptionsReader(name, opts, bytes.NewReader(page.ImagePNG))
		doc.ImageOptions(name, 0, 0, labelPageW, labelPageH, false, opts, 0, "")
	}
	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, shared.NewDomainError("RENDER_FAILED", "page PDF output failed: "+err.Error())
	}
	return buf.Bytes(), nil
}
