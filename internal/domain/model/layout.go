package model

import "math"

// Layout bounds, in millimetres and points.
const (
	MinLabelWidthMM  = 30.0
	MaxLabelWidthMM  = 100.0
	MinLabelHeightMM = 15.0
	MaxLabelHeightMM = 60.0
	MinFontSizePt    = 6.0
	MaxFontSizePt    = 14.0
	MinQRSizeMM      = 10.0
	MaxQRSizeMM      = 30.0
)

// LayoutSettings controls label geometry. It never affects which serials are issued.
//
// @Description Label geometry used when rendering a batch
type LayoutSettings struct {
	LabelWidthMM  float64 `json:"labelWidth" toml:"label_width_mm" example:"50"`
	LabelHeightMM float64 `json:"labelHeight" toml:"label_height_mm" example:"25"`
	FontSizePt    float64 `json:"fontSize" toml:"font_size_pt" example:"8"`
	QRSizeMM      float64 `json:"qrSize" toml:"qr_size_mm" example:"15"`
}

// DefaultLayoutSettings returns the fallback layout (50x25 mm, 8pt, 15 mm QR).
func DefaultLayoutSettings() LayoutSettings {
	return LayoutSettings{
		LabelWidthMM:  50,
		LabelHeightMM: 25,
		FontSizePt:    8,
		QRSizeMM:      15,
	}
}

// WithDefaults replaces unset fields with the defaults. Zero, negative and
// non-finite values count as unset.
func (l LayoutSettings) WithDefaults() LayoutSettings {
	d := DefaultLayoutSettings()
	if unset(l.LabelWidthMM) {
		l.LabelWidthMM = d.LabelWidthMM
	}
	if unset(l.LabelHeightMM) {
		l.LabelHeightMM = d.LabelHeightMM
	}
	if unset(l.FontSizePt) {
		l.FontSizePt = d.FontSizePt
	}
	if unset(l.QRSizeMM) {
		l.QRSizeMM = d.QRSizeMM
	}
	return l
}

// Clamp fills unset fields with defaults and limits the rest to their bounds.
func (l LayoutSettings) Clamp() LayoutSettings {
	l = l.WithDefaults()
	l.LabelWidthMM = clamp(l.LabelWidthMM, MinLabelWidthMM, MaxLabelWidthMM)
	l.LabelHeightMM = clamp(l.LabelHeightMM, MinLabelHeightMM, MaxLabelHeightMM)
	l.FontSizePt = clamp(l.FontSizePt, MinFontSizePt, MaxFontSizePt)
	l.QRSizeMM = clamp(l.QRSizeMM, MinQRSizeMM, MaxQRSizeMM)
	return l
}

func unset(v float64) bool {
	return v <= 0 || math.IsNaN(v) || math.IsInf(v, 0)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
