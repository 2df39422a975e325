// Package svgdoc resolves physical geometry from SVG label templates.
//
// A template declares its size twice: physically (width/height attributes
// with real units) and internally (the viewBox drawing-unit window). This
// package is the single source of truth for converting between the two; all
// scaling elsewhere goes through PxPerUnit.
//
// Parsing is attribute-level text extraction, not a DOM: templates are
// treated as opaque markup that must pass through byte-for-byte except for
// the specific attributes being resolved or rewritten.
package svgdoc

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/labelpress/labelpress/pkg/errors"
)

// PxPerInch is the CSS reference pixel density used when a template
// declares unitless or pixel dimensions.
const PxPerInch = 96.0

// FallbackSize is the conservative physical size assumed when detection
// fails and the caller opts into recovery. It keeps downstream layout math
// away from zero divisions.
const FallbackSize = 2.0 // inches, square

var (
	rootTagRegex = regexp.MustCompile(`(?s)<svg\b[^>]*>`)
	widthRegex   = regexp.MustCompile(`\bwidth\s*=\s*"([^"]*)"`)
	heightRegex  = regexp.MustCompile(`\bheight\s*=\s*"([^"]*)"`)
	viewBoxRegex = regexp.MustCompile(`\bviewBox\s*=\s*"([^"]*)"`)
)

// Size is a physical label size in inches.
type Size struct {
	WidthIn  float64
	HeightIn float64
}

// ViewBox is the template's internal coordinate window.
type ViewBox struct {
	MinX, MinY float64
	W, H       float64
}

// PhysicalSize extracts the declared physical size of the template's root
// element. Width/height attributes are preferred, accepting in, mm, cm, px,
// or unitless values (treated as px at 96 px/in). When both attributes are
// absent or unparseable, the viewBox is used at 96 px/in. Fails with
// INVALID_INPUT when neither source yields a positive size.
func PhysicalSize(markup string) (Size, error) {
	root := rootTagRegex.FindString(markup)
	if root == "" {
		return Size{}, errors.New(errors.ErrCodeInvalidInput, "markup has no root svg element")
	}

	w, okW := parseLength(attrValue(root, widthRegex))
	h, okH := parseLength(attrValue(root, heightRegex))
	if okW && okH && w > 0 && h > 0 {
		return Size{WidthIn: w, HeightIn: h}, nil
	}

	if vb, ok := parseViewBox(root); ok && vb.W > 0 && vb.H > 0 {
		return Size{WidthIn: vb.W / PxPerInch, HeightIn: vb.H / PxPerInch}, nil
	}

	return Size{}, errors.New(errors.ErrCodeInvalidInput,
		"template declares no usable physical size (width/height or viewBox required)")
}

// PhysicalSizeOrFallback resolves the physical size, falling back to the
// conservative default when detection fails. The boolean reports whether
// the fallback was taken.
func PhysicalSizeOrFallback(markup string) (Size, bool) {
	size, err := PhysicalSize(markup)
	if err != nil {
		return Size{WidthIn: FallbackSize, HeightIn: FallbackSize}, true
	}
	return size, false
}

// ParseViewBox returns the root element's declared viewBox.
func ParseViewBox(markup string) (ViewBox, bool) {
	root := rootTagRegex.FindString(markup)
	if root == "" {
		return ViewBox{}, false
	}
	return parseViewBox(root)
}

// PxPerUnit computes the independent x and y scale factors converting
// physical inches to the template's drawing units. Non-uniform viewboxes
// are supported: the two factors can differ. Templates without a viewBox
// scale at 96 drawing units per inch on both axes.
func PxPerUnit(markup string, widthIn, heightIn float64) (x, y float64, err error) {
	if widthIn <= 0 || heightIn <= 0 {
		return 0, 0, errors.New(errors.ErrCodeInvalidInput,
			"physical size must be positive, got %gx%g", widthIn, heightIn)
	}
	vb, ok := ParseViewBox(markup)
	if !ok || vb.W <= 0 || vb.H <= 0 {
		return PxPerInch, PxPerInch, nil
	}
	return vb.W / widthIn, vb.H / heightIn, nil
}

// attrValue extracts a quoted attribute value from a tag using the given
// pattern, returning "" when absent.
func attrValue(tag string, re *regexp.Regexp) string {
	m := re.FindStringSubmatch(tag)
	if len(m) < 2 {
		return ""
	}
	return strings.TrimSpace(m[1])
}

// parseLength parses a CSS-style length into inches.
func parseLength(v string) (float64, bool) {
	if v == "" {
		return 0, false
	}

	unit := ""
	num := v
	for _, u := range []string{"in", "mm", "cm", "px"} {
		if strings.HasSuffix(v, u) {
			unit = u
			num = strings.TrimSpace(strings.TrimSuffix(v, u))
			break
		}
	}

	f, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0, false
	}

	switch unit {
	case "in":
		return f, true
	case "mm":
		return f / 25.4, true
	case "cm":
		return f / 2.54, true
	default: // px or unitless, both at the reference density
		return f / PxPerInch, true
	}
}

func parseViewBox(tag string) (ViewBox, bool) {
	raw := attrValue(tag, viewBoxRegex)
	if raw == "" {
		return ViewBox{}, false
	}
	fields := strings.Fields(strings.ReplaceAll(raw, ",", " "))
	if len(fields) != 4 {
		return ViewBox{}, false
	}
	vals := make([]float64, 4)
	for i, f := range fields {
		v, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return ViewBox{}, false
		}
		vals[i] = v
	}
	return ViewBox{MinX: vals[0], MinY: vals[1], W: vals[2], H: vals[3]}, true
}
