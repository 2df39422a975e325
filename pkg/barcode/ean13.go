// Package barcode renders EAN-13 symbols as scene nodes.
//
// Symbology encoding (digit patterns, parity, checksum) comes from
// boombuler/barcode; this package owns the print geometry: the fixed
// 95-module layout stretched to the requested width, extended guard bars,
// and the human-readable digits in three groups centered under their module
// spans. Horizontal scale follows the requested width while bar height is
// independent, so wide and tall are free to vary separately.
package barcode

import (
	"image/color"
	"regexp"

	"github.com/boombuler/barcode/ean"

	"github.com/labelpress/labelpress/pkg/errors"
	"github.com/labelpress/labelpress/pkg/scene"
)

// Modules is the fixed module count of an EAN-13 symbol: two 3-module side
// guards, a 5-module center guard, and twelve 7-module digit patterns.
const Modules = 95

// guardExtension is how far guard bars extend below the regular bars,
// as a fraction of the text size. Guards reach into the text band per the
// symbology's printed convention.
const guardExtension = 0.5

// Module spans of the three guard groups.
var guardSpans = [][2]int{{0, 3}, {45, 50}, {92, 95}}

// Options controls barcode geometry. All lengths are in the drawing units
// of the canvas the nodes will be placed on.
type Options struct {
	Width      float64 // total width of the 95-module span
	BarHeight  float64 // height of regular bars
	TextSize   float64 // human-readable digit size
	TextGap    float64 // gap between bars and digits
	Background string  // fill behind the symbol; empty for none
}

var valueRegex = regexp.MustCompile(`^\d{13}$`)

// ValidateValue checks that value is a well-formed EAN-13 payload,
// including the check digit.
func ValidateValue(value string) error {
	if !valueRegex.MatchString(value) {
		return errors.New(errors.ErrCodeInvalidInput, "barcode value must be 13 digits, got %q", value)
	}
	if _, err := ean.Encode(value); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid EAN-13 value %q", value)
	}
	return nil
}

// Render produces the scene nodes for an EAN-13 symbol at origin (0,0).
// Callers position and rotate the result by wrapping it in a Group.
func Render(value string, opts Options) ([]scene.Node, error) {
	modules, err := encode(value)
	if err != nil {
		return nil, err
	}

	moduleW := opts.Width / Modules
	var nodes []scene.Node

	totalHeight := opts.BarHeight + opts.TextGap + opts.TextSize
	if opts.Background != "" {
		nodes = append(nodes, scene.Rect{
			W: opts.Width, H: totalHeight,
			Fill: opts.Background,
		})
	}

	// Bars: adjacent dark modules merge into single rectangles. Guard
	// modules extend below the regular bar height.
	i := 0
	for i < Modules {
		if !modules[i] {
			i++
			continue
		}
		start := i
		for i < Modules && modules[i] && isGuard(i) == isGuard(start) {
			i++
		}
		h := opts.BarHeight
		if isGuard(start) {
			h += opts.TextGap + opts.TextSize*guardExtension
		}
		nodes = append(nodes, scene.Rect{
			X: float64(start) * moduleW,
			W: float64(i-start) * moduleW,
			H: h,
			Fill: "#000000",
		})
	}

	// Human-readable digits: leading digit under the start guard, the left
	// six under modules [3,45), the right six under [50,92).
	baseline := opts.BarHeight + opts.TextGap + opts.TextSize
	groups := []struct {
		content  string
		from, to int // module span the group is centered under
	}{
		{value[:1], 0, 3},
		{value[1:7], 3, 45},
		{value[7:13], 50, 92},
	}
	for _, g := range groups {
		center := float64(g.from+g.to) / 2 * moduleW
		nodes = append(nodes, scene.Text{
			X:       center,
			Y:       baseline,
			Content: g.content,
			Size:    opts.TextSize,
			Family:  "monospace",
			Fill:    "#000000",
			Anchor:  scene.AnchorMiddle,
		})
	}

	return nodes, nil
}

// encode returns the 95 dark/light modules for value.
func encode(value string) ([Modules]bool, error) {
	var modules [Modules]bool
	if err := ValidateValue(value); err != nil {
		return modules, err
	}
	bc, err := ean.Encode(value)
	if err != nil {
		return modules, errors.Wrap(errors.ErrCodeInvalidInput, err, "encoding EAN-13 value %q", value)
	}

	bounds := bc.Bounds()
	if bounds.Dx() != Modules {
		return modules, errors.New(errors.ErrCodeInternal,
			"unexpected EAN-13 module count %d", bounds.Dx())
	}
	for x := 0; x < Modules; x++ {
		modules[x] = isDark(bc.At(bounds.Min.X+x, bounds.Min.Y))
	}
	return modules, nil
}

func isDark(c color.Color) bool {
	r, g, b, _ := c.RGBA()
	return r < 0x8000 && g < 0x8000 && b < 0x8000
}

func isGuard(module int) bool {
	for _, span := range guardSpans {
		if module >= span[0] && module < span[1] {
			return true
		}
	}
	return false
}
