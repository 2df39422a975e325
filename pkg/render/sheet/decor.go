package sheet

import (
	"fmt"
	"strings"

	"github.com/labelpress/labelpress/pkg/scene"
)

// Decoration geometry, in inches unless noted.
const (
	regMarkLen     = 0.2  // registration mark arm length
	crosshairLen   = 0.3  // center crosshair arm length
	alignMarkSize  = 0.18 // raster alignment mark edge
	footerSizeIn   = 0.11 // footer text size
	hairlineStroke = 0.75 // drawing units
)

// decorate appends the enabled decorations to the sheet canvas. Alignment
// marks and the footer live inside the margin bands; they never collide
// with label content.
func (c *Composer) decorate(canvas *scene.Canvas, opts Options) {
	if opts.Decor.RegistrationMarks {
		canvas.Nodes = append(canvas.Nodes, registrationMarks(opts)...)
	}
	if opts.Decor.Crosshair {
		canvas.Nodes = append(canvas.Nodes, crosshair(opts)...)
	}
	if opts.Decor.AlignmentMarks {
		canvas.Nodes = append(canvas.Nodes, c.alignmentMarks(opts)...)
	}
	if opts.Decor.Footer {
		canvas.Nodes = append(canvas.Nodes, footer(opts))
	}
}

// registrationMarks draws L-shaped corner marks at the four margin
// corners.
func registrationMarks(opts Options) []scene.Node {
	u := unitsPerInch
	arm := regMarkLen * u
	corners := []struct{ x, y, dx, dy float64 }{
		{opts.Margins.Left * u, opts.Margins.Top * u, 1, 1},
		{(opts.SheetW - opts.Margins.Right) * u, opts.Margins.Top * u, -1, 1},
		{opts.Margins.Left * u, (opts.SheetH - opts.Margins.Bottom) * u, 1, -1},
		{(opts.SheetW - opts.Margins.Right) * u, (opts.SheetH - opts.Margins.Bottom) * u, -1, -1},
	}

	var nodes []scene.Node
	for _, corner := range corners {
		nodes = append(nodes,
			scene.Line{
				X1: corner.x, Y1: corner.y,
				X2: corner.x + corner.dx*arm, Y2: corner.y,
				Stroke: "#000000", StrokeWidth: hairlineStroke,
			},
			scene.Line{
				X1: corner.x, Y1: corner.y,
				X2: corner.x, Y2: corner.y + corner.dy*arm,
				Stroke: "#000000", StrokeWidth: hairlineStroke,
			},
		)
	}
	return nodes
}

// crosshair draws a center cross for manual feed alignment.
func crosshair(opts Options) []scene.Node {
	u := unitsPerInch
	cx := opts.SheetW / 2 * u
	cy := opts.SheetH / 2 * u
	arm := crosshairLen / 2 * u
	return []scene.Node{
		scene.Line{X1: cx - arm, Y1: cy, X2: cx + arm, Y2: cy, Stroke: "#000000", StrokeWidth: hairlineStroke},
		scene.Line{X1: cx, Y1: cy - arm, X2: cx, Y2: cy + arm, Stroke: "#000000", StrokeWidth: hairlineStroke},
	}
}

// alignmentMarks places the embedded raster target at top-center,
// bottom-left, and bottom-right, centered inside the margin bands.
func (c *Composer) alignmentMarks(opts Options) []scene.Node {
	u := unitsPerInch
	size := alignMarkSize * u
	href := c.assets.AlignMarkDataURI()

	topBandCenter := opts.Margins.Top / 2 * u
	bottomBandCenter := (opts.SheetH - opts.Margins.Bottom/2) * u

	positions := []struct{ cx, cy float64 }{
		{opts.SheetW / 2 * u, topBandCenter},
		{(opts.Margins.Left + alignMarkSize) * u, bottomBandCenter},
		{(opts.SheetW - opts.Margins.Right - alignMarkSize) * u, bottomBandCenter},
	}

	var nodes []scene.Node
	for _, p := range positions {
		nodes = append(nodes, scene.Image{
			X: p.cx - size/2, Y: p.cy - size/2,
			W: size, H: size,
			Href: href,
		})
	}
	return nodes
}

// footer renders the sheet footer line centered in the bottom margin band.
func footer(opts Options) scene.Node {
	parts := []string{}
	if opts.Footer.Product != "" {
		parts = append(parts, opts.Footer.Product)
	}
	if opts.Footer.VersionLabel != "" {
		parts = append(parts, opts.Footer.VersionLabel)
	}
	if !opts.Footer.PrintDate.IsZero() {
		parts = append(parts, opts.Footer.PrintDate.Format("2006-01-02"))
	}
	if opts.SheetCount > 0 {
		parts = append(parts, fmt.Sprintf("Sheet %d/%d", opts.SheetIndex, opts.SheetCount))
	}
	if opts.Footer.Note != "" {
		parts = append(parts, opts.Footer.Note)
	}

	return scene.Text{
		X:       opts.SheetW / 2 * unitsPerInch,
		Y:       (opts.SheetH - opts.Margins.Bottom/4) * unitsPerInch,
		Content: strings.Join(parts, "  ·  "),
		Size:    footerSizeIn * unitsPerInch,
		Family:  "sans-serif",
		Fill:    "#444444",
		Anchor:  scene.AnchorMiddle,
	}
}
