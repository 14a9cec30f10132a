package label

import (
	"bytes"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/guttosm/label-service/internal/domain/model"
)

func identifiers(serials ...string) []model.SerialIdentifier {
	ids := make([]model.SerialIdentifier, len(serials))
	for i, s := range serials {
		ids[i] = model.SerialIdentifier{SystemID: "System A", Year: "2024", Month: "03", Serial: s}
	}
	return ids
}

func TestRenderer_Render(t *testing.T) {
	tests := []struct {
		name   string
		ids    []model.SerialIdentifier
		layout model.LayoutSettings
		pages  int
	}{
		{name: "single label with defaults", ids: identifiers("0001"), layout: model.LayoutSettings{}, pages: 1},
		{
			name:   "batch with custom layout",
			ids:    identifiers("0100", "0101", "0102"),
			layout: model.LayoutSettings{LabelWidthMM: 80, LabelHeightMM: 40, FontSizePt: 12, QRSizeMM: 25},
			pages:  3,
		},
	}

	r := NewRenderer()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pdf, err := r.build(tt.ids, tt.layout)
			require.NoError(t, err)
			assert.Equal(t, tt.pages, pdf.PageCount())

			w, h := pdf.GetPageSize()
			want := tt.layout.WithDefaults()
			assert.InDelta(t, want.LabelWidthMM, w, 0.01)
			assert.InDelta(t, want.LabelHeightMM, h, 0.01)

			var buf bytes.Buffer
			require.NoError(t, r.Render(&buf, tt.ids, tt.layout))
			assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
		})
	}
}

func TestRenderer_EmptyBatch(t *testing.T) {
	var buf bytes.Buffer
	err := NewRenderer().Render(&buf, nil, model.DefaultLayoutSettings())
	assert.ErrorIs(t, err, ErrEmptyBatch)
	assert.Zero(t, buf.Len())
}

func TestRenderer_SymbolHasNoQuietZone(t *testing.T) {
	raw, err := NewRenderer().symbol(identifiers("0100")[0].LabelContent())
	require.NoError(t, err)

	img, err := png.Decode(bytes.NewReader(raw))
	require.NoError(t, err)
	assert.Equal(t, qrPixels, img.Bounds().Dx())

	// The finder pattern starts at the very corner when no border is drawn.
	dark := color.GrayModel.Convert(img.At(0, 0)).(color.Gray)
	assert.Zero(t, dark.Y)
}
