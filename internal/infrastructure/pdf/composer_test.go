package pdf

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sewflow/backend/internal/domain/labeling"
	"github.com/sewflow/backend/internal/infrastructure/barcode"
)

func testSourcePage(t *testing.T, seq int, payload, gs1Line string) labeling.SourcePage {
	t.Helper()
	img, err := barcode.EncodeDataMatrix(payload, 300)
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return labeling.SourcePage{Seq: seq, ImagePNG: buf.Bytes(), GS1Text: gs1Line}
}

func TestLabelComposerCompose(t *testing.T) {
	composer := NewLabelComposer("", "", zap.NewNop())
	meta := labeling.Metadata{
		Title:    "Футболка оверсайз хлопковая",
		Color:    "черный",
		Size:     "M",
		Material: "хлопок 95%",
		Country:  "Россия",
		Article:  "12345678",
	}
	pages := []labeling.SourcePage{
		testSourcePage(t, 0, "0104006381333931|21abcDEF123", "0104006381333931(21)abcDEF123"),
		testSourcePage(t, 1, "0104006381333931|21xyzQWE456", "0104006381333931(21)xyzQWE456"),
	}

	out, err := composer.Compose(pages, meta, labeling.DefaultSettings())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
	assert.Greater(t, len(out), 1000)
}

func TestCoreFontSafe(t *testing.T) {
	assert.Equal(t, "Plain text 123", coreFontSafe("Plain text 123"))
	assert.Equal(t, "????: ??????", coreFontSafe("Цвет: черный"))
	assert.Equal(t, "size M ??", coreFontSafe("size M Иц"))
}

func TestLabelComposerComposeEmpty(t *testing.T) {
	composer := NewLabelComposer("", "", zap.NewNop())

	out, err := composer.Compose(nil, labeling.Metadata{}, labeling.DefaultSettings())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestLabelComposerSkipsUnreadableRaster(t *testing.T) {
	composer := NewLabelComposer("", "", zap.NewNop())
	pages := []labeling.SourcePage{{Seq: 0, ImagePNG: []byte("not a png"), GS1Text: ""}}

	out, err := composer.Compose(pages, labeling.Metadata{Title: "Товар"}, labeling.DefaultSettings())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestResolveEANCode(t *testing.T) {
	assert.Equal(t, "4606224236582", resolveEANCode("4606224236582", "0104006381333931"))
	assert.Equal(t, "4006381333931", resolveEANCode("", "(01)04006381333931(21)abc"))
	assert.Equal(t, "", resolveEANCode("", "0194006381333931(21)abc"))
}

func TestShipmentComposerBoxDoc(t *testing.T) {
	composer := NewShipmentComposer(zap.NewNop())

	out, rendered, err := composer.ComposeBoxDoc([]string{"WB-123456", "", "  ", "WB-123457"})
	require.NoError(t, err)
	assert.Equal(t, 2, rendered)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestShipmentComposerShipmentDoc(t *testing.T) {
	composer := NewShipmentComposer(zap.NewNop())

	out, err := composer.ComposeShipmentDoc("WB-GI-123/456", 3)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestShipmentComposerRejectsEmptyNumber(t *testing.T) {
	composer := NewShipmentComposer(zap.NewNop())

	_, err := composer.ComposeShipmentDoc("///", 1)
	assert.Error(t, err)
}

func TestComposePagesPDF(t *testing.T) {
	pages := []labeling.SourcePage{
		testSourcePage(t, 0, "0104006381333931|21aaa", ""),
		testSourcePage(t, 1, "0104006381333931|21bbb", ""),
	}

	out, err := ComposePagesPDF(pages)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestFirstGS1Line(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{"bare prefix", "Некий заголовок\n0104006381333931 21abc\nхвост", "0104006381333931 21abc"},
		{"parenthesised", "  (01)04006381333931(21)abc  \n", "(01)04006381333931(21)abc"},
		{"no match", "просто текст\nи ещё", ""},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, firstGS1Line(tt.text))
		})
	}
}
