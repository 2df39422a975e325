// Package label defines the placement model for scannable marks on a label
// template.
//
// A label template is vector artwork with a known physical size. Elements
// (QR codes and barcodes) are placed on it in physical inches, independent
// of the template's internal drawing units. Geometry and barcode semantics
// are deliberately orthogonal: moving or resizing an element never touches
// its barcode options, except for the derived text proportions that follow
// width.
package label

import (
	"encoding/json"

	"github.com/labelpress/labelpress/pkg/errors"
)

// Kind identifies the mark type an element renders.
type Kind string

const (
	KindQR      Kind = "QR"
	KindBarcode Kind = "BARCODE"
)

// Background styles for the area behind a mark.
const (
	BackgroundWhite       = "white"
	BackgroundTransparent = "transparent"
)

// FormatEAN13 is the only supported barcode symbology.
const FormatEAN13 = "EAN13"

// Derived barcode text proportions. Whenever an element's width changes,
// the human-readable text size and the gap between bars and text are
// recomputed from these ratios so resizing never produces illegible or
// disproportionate output.
const (
	TextSizeRatio = 0.12 // text size as a fraction of barcode width
	TextGapRatio  = 0.02 // bars-to-text gap as a fraction of barcode width
)

// Default geometry for synthesized elements, in inches.
const (
	DefaultQRSize        = 0.6
	DefaultBarcodeWidth  = 1.2
	DefaultBarcodeHeight = 0.35
	defaultEdgeInset     = 0.1
)

// Placement positions an element on the label. All fields except Rotation
// are physical inches; Rotation is degrees, one of the allowed set.
type Placement struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
	Rotation float64 `json:"rotation"`
}

// BarcodeOptions carries the non-geometric barcode parameters.
type BarcodeOptions struct {
	Format     string  `json:"format"`
	BarHeight  float64 `json:"barHeight"`
	TextSize   float64 `json:"textSize"`
	TextGap    float64 `json:"textGap"`
	Background string  `json:"backgroundColor,omitempty"`
}

// Element is a placeable mark on a label template.
type Element struct {
	ID         string          `json:"id"`
	Kind       Kind            `json:"kind"`
	Placement  Placement       `json:"placement"`
	Background string          `json:"backgroundStyle,omitempty"` // default white
	Barcode    *BarcodeOptions `json:"barcodeOptions,omitempty"`
	UseFrame   bool            `json:"useFrame,omitempty"`
}

// EffectiveBackground returns the background style with the white default
// applied.
func (e Element) EffectiveBackground() string {
	if e.Background == BackgroundTransparent {
		return BackgroundTransparent
	}
	return BackgroundWhite
}

// NewDefaultQR creates a QR element of the given square size at (x, y).
func NewDefaultQR(x, y, size float64) Element {
	return Element{
		ID:   "qr-1",
		Kind: KindQR,
		Placement: Placement{
			X:     x,
			Y:     y,
			Width: size, Height: size,
		},
		Background: BackgroundWhite,
	}
}

// NewDefaultBarcode creates an EAN-13 element with text proportions derived
// from the width.
func NewDefaultBarcode(x, y, width, barHeight float64) Element {
	return Element{
		ID:   "barcode-1",
		Kind: KindBarcode,
		Placement: Placement{
			X:     x,
			Y:     y,
			Width: width, Height: barHeight + width*(TextSizeRatio+TextGapRatio),
		},
		Background: BackgroundWhite,
		Barcode: &BarcodeOptions{
			Format:     FormatEAN13,
			BarHeight:  barHeight,
			TextSize:   width * TextSizeRatio,
			TextGap:    width * TextGapRatio,
			Background: "#FFFFFF",
		},
	}
}

// DefaultFor synthesizes the element array for a template version that has
// none stored: a single QR element. When the template declares a
// placeholder region it is used as-is; otherwise the QR sits at the
// bottom-right of the label with a small inset.
func DefaultFor(labelW, labelH float64, placeholder *Placement) []Element {
	if placeholder != nil && placeholder.Width > 0 && placeholder.Height > 0 {
		size := placeholder.Width
		if placeholder.Height < size {
			size = placeholder.Height
		}
		return []Element{NewDefaultQR(placeholder.X, placeholder.Y, size)}
	}

	size := DefaultQRSize
	x := labelW - size - defaultEdgeInset
	y := labelH - size - defaultEdgeInset
	if x < 0 {
		x = 0
	}
	if y < 0 {
		y = 0
	}
	return []Element{NewDefaultQR(x, y, size)}
}

// Resize sets a new width and height on the element, keeping position and
// rotation and recomputing the derived barcode text proportions. Barcode
// semantics are otherwise untouched.
func (e *Element) Resize(width, height float64) {
	e.Placement.Width = width
	e.Placement.Height = height
	if e.Kind == KindBarcode && e.Barcode != nil {
		e.Barcode.TextSize = width * TextSizeRatio
		e.Barcode.TextGap = width * TextGapRatio
	}
}

// DecodeElements decodes a stored element array. A missing or malformed
// payload is treated as absent, not fatal: callers synthesize a default
// element instead.
func DecodeElements(raw []byte) ([]Element, bool) {
	if len(raw) == 0 {
		return nil, false
	}
	var elements []Element
	if err := json.Unmarshal(raw, &elements); err != nil {
		return nil, false
	}
	if len(elements) == 0 {
		return nil, false
	}
	return elements, true
}

// EncodeElements serializes an element array for storage.
func EncodeElements(elements []Element) ([]byte, error) {
	data, err := json.Marshal(elements)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encoding elements")
	}
	return data, nil
}
