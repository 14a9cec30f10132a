// Package label renders label batches to PDF and keeps the rendered files.
package label

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/go-pdf/fpdf"
	"github.com/skip2/go-qrcode"

	"github.com/guttosm/label-service/internal/domain/model"
)

const (
	// textBaselineMM is the distance of the serial text baseline from the bottom edge.
	textBaselineMM = 2.0
	// qrPixels is the raster size of each QR symbol before scaling to qrSizeMM.
	qrPixels   = 256
	fontFamily = "Helvetica"
)

// ErrEmptyBatch is returned when asked to render no labels.
var ErrEmptyBatch = errors.New("no labels to render")

// Renderer draws one page per label: the QR code centred horizontally with
// the label content printed underneath.
type Renderer struct {
	level qrcode.RecoveryLevel
}

// NewRenderer creates a Renderer with medium QR error correction.
func NewRenderer() *Renderer {
	return &Renderer{level: qrcode.Medium}
}

// Render writes the PDF for ids to w.
func (r *Renderer) Render(w io.Writer, ids []model.SerialIdentifier, layout model.LayoutSettings) error {
	pdf, err := r.build(ids, layout)
	if err != nil {
		return err
	}
	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

func (r *Renderer) build(ids []model.SerialIdentifier, layout model.LayoutSettings) (*fpdf.Fpdf, error) {
	if len(ids) == 0 {
		return nil, ErrEmptyBatch
	}
	layout = layout.WithDefaults()
	width, height, qr := layout.LabelWidthMM, layout.LabelHeightMM, layout.QRSizeMM

	pdf := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           fpdf.SizeType{Wd: width, Ht: height},
	})
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetFont(fontFamily, "B", layout.FontSizePt)

	qrX := (width - qr) / 2
	qrY := (height - qr - textBaselineMM) / 2
	opts := fpdf.ImageOptions{ImageType: "PNG"}

	for i, id := range ids {
		content := id.LabelContent()
		png, err := r.symbol(content)
		if err != nil {
			return nil, fmt.Errorf("encode qr for %s: %w", content, err)
		}
		name := "qr" + strconv.Itoa(i)
		pdf.RegisterImageOptionsReader(name, opts, bytes.NewReader(png))

		pdf.AddPage()
		pdf.ImageOptions(name, qrX, qrY, qr, qr, false, opts, 0, "")
		textX := (width - pdf.GetStringWidth(content)) / 2
		pdf.Text(textX, height-textBaselineMM, content)
	}

	if err := pdf.Error(); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return pdf, nil
}

// symbol rasterises content without a quiet zone so the drawn code fills
// the whole qrSizeMM square.
func (r *Renderer) symbol(content string) ([]byte, error) {
	q, err := qrcode.New(content, r.level)
	if err != nil {
		return nil, err
	}
	q.DisableBorder = true
	return q.PNG(qrPixels)
}
