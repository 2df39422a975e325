// Package scene provides a small typed scene graph for composed label
// artwork.
//
// Rendering code builds trees of typed nodes (rectangles, text runs, lines,
// images, groups, reuse references, nested canvases) and serializes the tree
// to SVG exactly once at the end. Coordinate and rotation math therefore
// stays unit-testable without any string formatting or escaping concerns.
//
// All positions and sizes are in the drawing units of the canvas the node is
// placed on; the scene graph itself is unit-agnostic.
package scene

// Node is a renderable scene element.
//
// The concrete types are Rect, Text, Line, Image, Group, Use, NestedCanvas,
// and Raw. Node is a closed set: the serializer switches over these types.
type Node interface {
	isNode()
}

// Rect is an axis-aligned rectangle.
type Rect struct {
	X, Y          float64
	W, H          float64
	Fill          string  // empty means no fill attribute
	Stroke        string  // empty means no stroke
	StrokeWidth   float64 // only emitted when Stroke is set
	DashArray     string  // e.g. "4 3" for dashed placeholder outlines
	CornerRadius  float64
}

func (Rect) isNode() {}

// TextAnchor values for Text nodes.
const (
	AnchorStart  = "start"
	AnchorMiddle = "middle"
	AnchorEnd    = "end"
)

// Text is a single text run. Content is escaped during serialization.
type Text struct {
	X, Y    float64
	Content string
	Size    float64
	Family  string
	Fill    string
	Anchor  string // one of the Anchor constants; empty means start
	Weight  string // e.g. "bold"
}

func (Text) isNode() {}

// Line is a straight stroke between two points.
type Line struct {
	X1, Y1, X2, Y2 float64
	Stroke         string
	StrokeWidth    float64
}

func (Line) isNode() {}

// Image places a raster asset by reference (typically a data URI).
type Image struct {
	X, Y, W, H float64
	Href       string
}

func (Image) isNode() {}

// Group collects child nodes under an optional transform and id.
type Group struct {
	ID        string
	Transform Transform
	Opacity   float64 // 0 means unset (fully opaque)
	Children  []Node
}

func (Group) isNode() {}

// Use references a previously defined node (by id) at an offset. This is
// the instanced-composition mechanism: one definition, many placements.
type Use struct {
	Href string // target id, without the leading '#'
	X, Y float64
}

func (Use) isNode() {}

// NestedCanvas embeds a complete inner drawing into a sub-viewport. The
// inner markup keeps its own coordinate system via its viewBox and is
// scaled to fit the given box.
type NestedCanvas struct {
	X, Y, W, H float64
	ViewBox    string // inner coordinate window, e.g. "0 0 29 29"
	Body       string // inner markup, already serialized
}

func (NestedCanvas) isNode() {}

// Raw splices pre-serialized markup verbatim. It exists for template bodies
// that are passed through untouched; new drawing code should use typed
// nodes.
type Raw struct {
	Markup string
}

func (Raw) isNode() {}

// Transform describes the render-time visual transform of a group.
//
// Rotation is applied around (CX, CY) so that rotating an element never
// moves its box: translation stays label-relative regardless of the angle.
type Transform struct {
	TranslateX float64
	TranslateY float64
	Rotate     float64 // degrees
	CX, CY     float64 // rotation center, in the group's own coordinates
}

// IsZero reports whether the transform would be a no-op.
func (t Transform) IsZero() bool {
	return t.TranslateX == 0 && t.TranslateY == 0 && t.Rotate == 0
}
