// Package qr renders QR codes as scene nodes.
//
// Matrix generation (masking, error correction) comes from skip2/go-qrcode;
// this package owns how the matrix becomes artwork: module rectangles
// scaled into a target box, optional light-module background, and the
// decorative scan frame.
package qr

import (
	qrcode "github.com/skip2/go-qrcode"

	"github.com/labelpress/labelpress/pkg/errors"
	"github.com/labelpress/labelpress/pkg/scene"
)

// Code is a generated QR matrix, including its quiet zone.
type Code struct {
	modules [][]bool
	size    int
}

// Generate encodes payload at medium error correction. Medium keeps the
// module count low enough for small printed labels while surviving
// moderate print damage.
func Generate(payload string) (*Code, error) {
	if payload == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "QR payload cannot be empty")
	}
	q, err := qrcode.New(payload, qrcode.Medium)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "encoding QR payload")
	}
	bitmap := q.Bitmap()
	return &Code{modules: bitmap, size: len(bitmap)}, nil
}

// Size returns the module count per side, quiet zone included.
func (c *Code) Size() int { return c.size }

// Nodes renders the code scaled into a w x h box at origin. When
// transparent is true the light-module background is omitted so the label
// artwork shows through; dark modules are always opaque black.
func (c *Code) Nodes(w, h float64, transparent bool) []scene.Node {
	var nodes []scene.Node
	if !transparent {
		nodes = append(nodes, scene.Rect{W: w, H: h, Fill: "#FFFFFF"})
	}

	moduleW := w / float64(c.size)
	moduleH := h / float64(c.size)
	for y, row := range c.modules {
		// Merge horizontal runs of dark modules into single rects to keep
		// sheet output compact when dozens of copies are embedded.
		x := 0
		for x < len(row) {
			if !row[x] {
				x++
				continue
			}
			start := x
			for x < len(row) && row[x] {
				x++
			}
			nodes = append(nodes, scene.Rect{
				X: float64(start) * moduleW,
				Y: float64(y) * moduleH,
				W: float64(x-start) * moduleW,
				H: moduleH,
				Fill: "#000000",
			})
		}
	}
	return nodes
}
