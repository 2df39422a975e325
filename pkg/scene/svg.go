package scene

import (
	"bytes"
	"fmt"
	"strings"
)

// Canvas is a root drawing surface with a physical size and an internal
// coordinate window.
type Canvas struct {
	WidthIn  float64 // physical width in inches
	HeightIn float64 // physical height in inches
	ViewW    float64 // viewbox width in drawing units
	ViewH    float64 // viewbox height in drawing units
	Defs     []Node  // definitions referenced via Use
	Nodes    []Node
}

// SVG serializes the canvas to a complete SVG document.
func (c Canvas) SVG() []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" xmlns:xlink="http://www.w3.org/1999/xlink" width="%sin" height="%sin" viewBox="0 0 %s %s">`+"\n",
		ftoa(c.WidthIn), ftoa(c.HeightIn), ftoa(c.ViewW), ftoa(c.ViewH))
	if len(c.Defs) > 0 {
		buf.WriteString("<defs>\n")
		for _, n := range c.Defs {
			writeNode(&buf, n)
		}
		buf.WriteString("</defs>\n")
	}
	for _, n := range c.Nodes {
		writeNode(&buf, n)
	}
	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

// Markup serializes a list of nodes without a surrounding document. Used
// when injecting into an existing template.
func Markup(nodes ...Node) string {
	var buf bytes.Buffer
	for _, n := range nodes {
		writeNode(&buf, n)
	}
	return buf.String()
}

func writeNode(buf *bytes.Buffer, n Node) {
	switch v := n.(type) {
	case Rect:
		fmt.Fprintf(buf, `<rect x="%s" y="%s" width="%s" height="%s"`, ftoa(v.X), ftoa(v.Y), ftoa(v.W), ftoa(v.H))
		if v.CornerRadius > 0 {
			fmt.Fprintf(buf, ` rx="%s"`, ftoa(v.CornerRadius))
		}
		if v.Fill != "" {
			fmt.Fprintf(buf, ` fill="%s"`, v.Fill)
		}
		if v.Stroke != "" {
			fmt.Fprintf(buf, ` stroke="%s" stroke-width="%s"`, v.Stroke, ftoa(v.StrokeWidth))
		}
		if v.DashArray != "" {
			fmt.Fprintf(buf, ` stroke-dasharray="%s"`, v.DashArray)
		}
		buf.WriteString("/>\n")
	case Text:
		fmt.Fprintf(buf, `<text x="%s" y="%s" font-size="%s"`, ftoa(v.X), ftoa(v.Y), ftoa(v.Size))
		if v.Family != "" {
			fmt.Fprintf(buf, ` font-family="%s"`, escape(v.Family))
		}
		if v.Fill != "" {
			fmt.Fprintf(buf, ` fill="%s"`, v.Fill)
		}
		if v.Anchor != "" {
			fmt.Fprintf(buf, ` text-anchor="%s"`, v.Anchor)
		}
		if v.Weight != "" {
			fmt.Fprintf(buf, ` font-weight="%s"`, v.Weight)
		}
		fmt.Fprintf(buf, ">%s</text>\n", escape(v.Content))
	case Line:
		fmt.Fprintf(buf, `<line x1="%s" y1="%s" x2="%s" y2="%s" stroke="%s" stroke-width="%s"/>`+"\n",
			ftoa(v.X1), ftoa(v.Y1), ftoa(v.X2), ftoa(v.Y2), v.Stroke, ftoa(v.StrokeWidth))
	case Image:
		fmt.Fprintf(buf, `<image x="%s" y="%s" width="%s" height="%s" href="%s"/>`+"\n",
			ftoa(v.X), ftoa(v.Y), ftoa(v.W), ftoa(v.H), v.Href)
	case Group:
		buf.WriteString("<g")
		if v.ID != "" {
			fmt.Fprintf(buf, ` id="%s"`, escape(v.ID))
		}
		if !v.Transform.IsZero() {
			fmt.Fprintf(buf, ` transform="%s"`, v.Transform.String())
		}
		if v.Opacity > 0 && v.Opacity < 1 {
			fmt.Fprintf(buf, ` opacity="%s"`, ftoa(v.Opacity))
		}
		buf.WriteString(">\n")
		for _, child := range v.Children {
			writeNode(buf, child)
		}
		buf.WriteString("</g>\n")
	case Use:
		fmt.Fprintf(buf, `<use href="#%s" x="%s" y="%s"/>`+"\n", escape(v.Href), ftoa(v.X), ftoa(v.Y))
	case NestedCanvas:
		fmt.Fprintf(buf, `<svg x="%s" y="%s" width="%s" height="%s"`, ftoa(v.X), ftoa(v.Y), ftoa(v.W), ftoa(v.H))
		if v.ViewBox != "" {
			fmt.Fprintf(buf, ` viewBox="%s"`, v.ViewBox)
		}
		buf.WriteString(">\n")
		buf.WriteString(v.Body)
		buf.WriteString("</svg>\n")
	case Raw:
		buf.WriteString(v.Markup)
	}
}

// String renders the transform in SVG attribute syntax. Rotation is
// expressed as translate(center) rotate(θ) translate(-center) so the
// element rotates around its own center.
func (t Transform) String() string {
	var parts []string
	if t.TranslateX != 0 || t.TranslateY != 0 {
		parts = append(parts, fmt.Sprintf("translate(%s %s)", ftoa(t.TranslateX), ftoa(t.TranslateY)))
	}
	if t.Rotate != 0 {
		parts = append(parts, fmt.Sprintf("translate(%s %s)", ftoa(t.CX), ftoa(t.CY)))
		parts = append(parts, fmt.Sprintf("rotate(%s)", ftoa(t.Rotate)))
		parts = append(parts, fmt.Sprintf("translate(%s %s)", ftoa(-t.CX), ftoa(-t.CY)))
	}
	return strings.Join(parts, " ")
}

// ftoa formats a coordinate with enough precision for print artwork while
// keeping output stable across runs.
func ftoa(f float64) string {
	s := fmt.Sprintf("%.4f", f)
	s = strings.TrimRight(s, "0")
	s = strings.TrimRight(s, ".")
	if s == "" || s == "-" || s == "-0" {
		return "0"
	}
	return s
}

// escape escapes text content and attribute values for SVG output.
func escape(s string) string {
	r := strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&quot;",
		"'", "&apos;",
	)
	return r.Replace(s)
}
