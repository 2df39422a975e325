package qr

import "github.com/labelpress/labelpress/pkg/scene"

// The decorative scan frame reserves a normalized sub-region for the QR
// matrix; the remainder holds the border and caption. The ratios are fixed
// properties of the frame artwork, not tunables.
const (
	FrameQRX = 0.15 // QR sub-region left edge, fraction of frame width
	FrameQRY = 0.10 // QR sub-region top edge, fraction of frame height
	FrameQRW = 0.70 // QR sub-region width fraction
	FrameQRH = 0.70 // QR sub-region height fraction

	frameCaption     = "SCAN ME"
	frameCornerRatio = 0.06 // corner radius as a fraction of frame width
	frameStrokeRatio = 0.03
	captionSizeRatio = 0.11
	captionYRatio    = 0.93 // caption baseline, fraction of frame height
)

// Framed wraps the code in the decorative frame, filling a w x h box at
// origin. The QR matrix lands in the frame's fixed sub-region; the
// transparent flag applies to the matrix background only, the frame border
// and caption are always drawn.
func (c *Code) Framed(w, h float64, transparent bool) []scene.Node {
	nodes := []scene.Node{
		scene.Rect{
			W: w, H: h,
			Fill:         "#FFFFFF",
			Stroke:       "#000000",
			StrokeWidth:  w * frameStrokeRatio,
			CornerRadius: w * frameCornerRatio,
		},
	}

	qrNodes := c.Nodes(w*FrameQRW, h*FrameQRH, transparent)
	nodes = append(nodes, scene.Group{
		Transform: scene.Transform{TranslateX: w * FrameQRX, TranslateY: h * FrameQRY},
		Children:  qrNodes,
	})

	nodes = append(nodes, scene.Text{
		X:       w / 2,
		Y:       h * captionYRatio,
		Content: frameCaption,
		Size:    w * captionSizeRatio,
		Family:  "sans-serif",
		Fill:    "#000000",
		Anchor:  scene.AnchorMiddle,
		Weight:  "bold",
	})
	return nodes
}
