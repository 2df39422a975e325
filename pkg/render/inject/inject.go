// Package inject renders placed elements into a label template's drawing.
//
// The injector converts each element's physical placement into the
// template's drawing units via the coordinate resolver, builds the mark as
// scene nodes, wraps them in a transform group, and splices the serialized
// result immediately before the template's closing root tag. Nothing else
// in the template is altered.
package inject

import (
	"github.com/labelpress/labelpress/pkg/barcode"
	"github.com/labelpress/labelpress/pkg/errors"
	"github.com/labelpress/labelpress/pkg/label"
	"github.com/labelpress/labelpress/pkg/qr"
	"github.com/labelpress/labelpress/pkg/scene"
	"github.com/labelpress/labelpress/pkg/svgdoc"
)

// Watermark text overlaid in preview renders. Never present in production
// output.
const watermarkText = "SAMPLE"

// Options configures a single label injection.
type Options struct {
	Elements     []label.Element
	QR           *qr.Code // required when Elements contains a QR element
	BarcodeValue string   // required when Elements contains a BARCODE element
	Preview      bool     // overlay the watermark
}

// Inject renders the elements into templateMarkup and returns the combined
// drawing. The template's own content passes through byte-identical; the
// injected nodes are appended just before the closing root tag.
func Inject(templateMarkup string, opts Options) (string, error) {
	size, _ := svgdoc.PhysicalSizeOrFallback(templateMarkup)
	if err := label.ValidateStrict(opts.Elements, size.WidthIn, size.HeightIn); err != nil {
		return "", err
	}

	pxX, pxY, err := svgdoc.PxPerUnit(templateMarkup, size.WidthIn, size.HeightIn)
	if err != nil {
		return "", err
	}

	var nodes []scene.Node
	for _, e := range opts.Elements {
		n, err := elementNodes(e, opts, pxX, pxY)
		if err != nil {
			return "", err
		}
		nodes = append(nodes, n)
	}

	if opts.Preview {
		nodes = append(nodes, watermark(size, pxX, pxY))
	}

	out, ok := svgdoc.AppendBeforeClose(templateMarkup, scene.Markup(nodes...))
	if !ok {
		return "", errors.New(errors.ErrCodeInvalidInput, "template has no closing root tag")
	}
	return out, nil
}

// elementNodes builds one element as a positioned, optionally rotated
// group. Rotation is a render-time transform around the element's own
// center: the placement box itself is never mutated, and translation stays
// label-relative whatever the angle.
func elementNodes(e label.Element, opts Options, pxX, pxY float64) (scene.Node, error) {
	x := e.Placement.X * pxX
	y := e.Placement.Y * pxY
	w := e.Placement.Width * pxX
	h := e.Placement.Height * pxY

	var children []scene.Node
	switch e.Kind {
	case label.KindQR:
		if opts.QR == nil {
			return nil, errors.New(errors.ErrCodeInvalidInput, "element %s needs a QR code but none was generated", e.ID)
		}
		transparent := e.EffectiveBackground() == label.BackgroundTransparent
		if e.UseFrame {
			children = opts.QR.Framed(w, h, transparent)
		} else {
			children = opts.QR.Nodes(w, h, transparent)
		}

	case label.KindBarcode:
		if opts.BarcodeValue == "" {
			return nil, errors.New(errors.ErrCodeInvalidInput, "element %s requires a barcode value", e.ID)
		}
		background := ""
		if e.EffectiveBackground() == label.BackgroundWhite {
			background = e.Barcode.Background
			if background == "" {
				background = "#FFFFFF"
			}
		}
		bars, err := barcode.Render(opts.BarcodeValue, barcode.Options{
			Width:      w,
			BarHeight:  e.Barcode.BarHeight * pxY,
			TextSize:   e.Barcode.TextSize * pxY,
			TextGap:    e.Barcode.TextGap * pxY,
			Background: background,
		})
		if err != nil {
			return nil, err
		}
		children = bars

	default:
		return nil, errors.New(errors.ErrCodeInvalidInput, "element %s has unknown kind %q", e.ID, e.Kind)
	}

	return scene.Group{
		Transform: scene.Transform{
			TranslateX: x,
			TranslateY: y,
			Rotate:     e.Placement.Rotation,
			CX:         w / 2,
			CY:         h / 2,
		},
		Children: children,
	}, nil
}

// watermark renders the preview overlay diagonally across the label.
func watermark(size svgdoc.Size, pxX, pxY float64) scene.Node {
	w := size.WidthIn * pxX
	h := size.HeightIn * pxY
	return scene.Group{
		Opacity: 0.3,
		Transform: scene.Transform{
			Rotate: -30,
			CX:     w / 2,
			CY:     h / 2,
		},
		Children: []scene.Node{
			scene.Text{
				X:       w / 2,
				Y:       h / 2,
				Content: watermarkText,
				Size:    h * 0.35,
				Family:  "sans-serif",
				Fill:    "#888888",
				Anchor:  scene.AnchorMiddle,
				Weight:  "bold",
			},
		},
	}
}
