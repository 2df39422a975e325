package sheet

import (
	"fmt"
	"time"

	"github.com/labelpress/labelpress/pkg/assets"
	"github.com/labelpress/labelpress/pkg/errors"
	"github.com/labelpress/labelpress/pkg/scene"
	"github.com/labelpress/labelpress/pkg/svgdoc"
)

// unitsPerInch is the drawing-unit density of composed sheets.
const unitsPerInch = 96.0

// Decorations toggles the optional print aids, each independent of the
// others.
type Decorations struct {
	Footer            bool
	RegistrationMarks bool
	Crosshair         bool
	AlignmentMarks    bool
}

// FooterInfo is the content of the footer text line.
type FooterInfo struct {
	Product      string
	VersionLabel string
	Note         string
	PrintDate    time.Time
}

// Options configures sheet composition.
type Options struct {
	SheetW, SheetH float64 // inches
	Margins        Margins
	LabelW, LabelH float64 // inches
	Decor          Decorations
	Footer         FooterInfo
	SheetIndex     int // 1-based, for the footer
	SheetCount     int
}

// Composer builds sheet artwork. It owns no per-sheet state; the asset
// cache it carries lives for the composer's lifetime.
type Composer struct {
	assets *assets.Cache
}

// NewComposer creates a composer owning the given asset cache. A nil cache
// is replaced with a fresh one.
func NewComposer(cache *assets.Cache) *Composer {
	if cache == nil {
		cache = assets.NewCache()
	}
	return &Composer{assets: cache}
}

// ComposeInstanced tiles count pixel-identical copies of labelMarkup onto
// one sheet. The label body is defined once and referenced at each grid
// cell, so output size is O(1) in the copy count. Valid only when every
// copy is truly identical; unique-content runs must use ComposeUnique.
func (c *Composer) ComposeInstanced(labelMarkup string, count int, opts Options) ([]byte, error) {
	grid, cells, err := c.plan(count, opts)
	if err != nil {
		return nil, err
	}

	cell, err := labelCell(labelMarkup, "label-cell", opts)
	if err != nil {
		return nil, err
	}

	canvas := c.newCanvas(opts)
	canvas.Defs = append(canvas.Defs, cell)
	for _, p := range cells[:min(count, grid.PerSheet)] {
		canvas.Nodes = append(canvas.Nodes, scene.Use{Href: "label-cell", X: p.x, Y: p.y})
	}
	c.decorate(&canvas, opts)
	return canvas.SVG(), nil
}

// ComposeUnique tiles individually distinct label drawings onto one sheet.
// Every copy is embedded whole with namespaced identifiers, since
// reference-sharing is invalid when bodies differ.
func (c *Composer) ComposeUnique(labels []string, opts Options) ([]byte, error) {
	grid, cells, err := c.plan(len(labels), opts)
	if err != nil {
		return nil, err
	}
	if len(labels) > grid.PerSheet {
		return nil, errors.New(errors.ErrCodeValidation,
			"%d labels exceed sheet capacity %d", len(labels), grid.PerSheet)
	}

	canvas := c.newCanvas(opts)
	for i, markup := range labels {
		ns := fmt.Sprintf("copy%d", i+1)
		if err := errors.ValidateNamespace(ns); err != nil {
			return nil, err
		}
		cell, err := labelCell(svgdoc.PrefixIdentifiers(markup, ns), "", opts)
		if err != nil {
			return nil, err
		}
		group := cell.(scene.Group)
		group.Transform = scene.Transform{TranslateX: cells[i].x, TranslateY: cells[i].y}
		canvas.Nodes = append(canvas.Nodes, group)
	}
	c.decorate(&canvas, opts)
	return canvas.SVG(), nil
}

// ComposePreview renders one real label plus dashed placeholder rectangles
// at the remaining grid positions: O(1) cost in the copy count, for
// interactive layout review only. Production paths always render every
// real copy.
func (c *Composer) ComposePreview(labelMarkup string, count int, opts Options) ([]byte, error) {
	grid, cells, err := c.plan(count, opts)
	if err != nil {
		return nil, err
	}

	cell, err := labelCell(labelMarkup, "", opts)
	if err != nil {
		return nil, err
	}

	// Placeholders outline the cell, which is the swapped label box when
	// the grid is rotated.
	cellW, cellH := opts.LabelW, opts.LabelH
	if grid.Rotated {
		cellW, cellH = opts.LabelH, opts.LabelW
	}

	canvas := c.newCanvas(opts)
	shown := min(count, grid.PerSheet)
	for i, p := range cells[:shown] {
		if i == 0 {
			group := cell.(scene.Group)
			group.Transform = scene.Transform{TranslateX: p.x, TranslateY: p.y}
			canvas.Nodes = append(canvas.Nodes, group)
			continue
		}
		canvas.Nodes = append(canvas.Nodes, scene.Rect{
			X: p.x, Y: p.y,
			W: cellW * unitsPerInch, H: cellH * unitsPerInch,
			Stroke:      "#999999",
			StrokeWidth: 1,
			DashArray:   "6 4",
		})
	}
	c.decorate(&canvas, opts)
	return canvas.SVG(), nil
}

type cellPos struct{ x, y float64 }

// plan validates the geometry and returns the grid along with the
// drawing-unit origin of every cell, row-major.
func (c *Composer) plan(count int, opts Options) (Grid, []cellPos, error) {
	if count <= 0 {
		return Grid{}, nil, errors.New(errors.ErrCodeInvalidInput, "label count must be positive, got %d", count)
	}
	grid := ComputeGrid(opts.SheetW, opts.SheetH, opts.Margins, opts.LabelW, opts.LabelH)
	if grid.PerSheet == 0 {
		return Grid{}, nil, errors.New(errors.ErrCodeValidation,
			"label %gx%gin does not fit sheet %gx%gin within margins",
			opts.LabelW, opts.LabelH, opts.SheetW, opts.SheetH)
	}

	cellW, cellH := opts.LabelW, opts.LabelH
	if grid.Rotated {
		cellW, cellH = opts.LabelH, opts.LabelW
	}

	cells := make([]cellPos, 0, grid.PerSheet)
	for row := 0; row < grid.Rows; row++ {
		for col := 0; col < grid.Columns; col++ {
			cells = append(cells, cellPos{
				x: (opts.Margins.Left + float64(col)*cellW) * unitsPerInch,
				y: (opts.Margins.Top + float64(row)*cellH) * unitsPerInch,
			})
		}
	}
	return grid, cells, nil
}

// labelCell wraps a label drawing into a group sized to the label's cell.
// The body keeps its own coordinate system through a nested canvas.
func labelCell(markup, id string, opts Options) (scene.Node, error) {
	body, ok := svgdoc.InnerContent(markup)
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidInput, "label markup has no root element")
	}

	viewBox := ""
	if vb, ok := svgdoc.ParseViewBox(markup); ok {
		viewBox = fmt.Sprintf("%g %g %g %g", vb.MinX, vb.MinY, vb.W, vb.H)
	}

	grid := ComputeGrid(opts.SheetW, opts.SheetH, opts.Margins, opts.LabelW, opts.LabelH)
	w := opts.LabelW * unitsPerInch
	h := opts.LabelH * unitsPerInch

	inner := scene.NestedCanvas{W: w, H: h, ViewBox: viewBox, Body: body}
	if grid.Rotated {
		// Rotate the label into the swapped cell: quarter turn plus a
		// shift so the drawing lands back in the cell's box.
		return scene.Node(scene.Group{
			ID: id,
			Children: []scene.Node{
				scene.Group{
					Transform: scene.Transform{TranslateX: h, Rotate: 90},
					Children:  []scene.Node{inner},
				},
			},
		}), nil
	}
	return scene.Node(scene.Group{ID: id, Children: []scene.Node{inner}}), nil
}

func (c *Composer) newCanvas(opts Options) scene.Canvas {
	return scene.Canvas{
		WidthIn:  opts.SheetW,
		HeightIn: opts.SheetH,
		ViewW:    opts.SheetW * unitsPerInch,
		ViewH:    opts.SheetH * unitsPerInch,
	}
}
