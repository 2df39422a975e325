package label

import (
	"fmt"

	"github.com/labelpress/labelpress/pkg/errors"
)

// Violation describes a single rule an element breaks.
type Violation struct {
	ElementID string
	Rule      string
	Detail    string
}

func (v Violation) String() string {
	return fmt.Sprintf("%s: %s: %s", v.ElementID, v.Rule, v.Detail)
}

// Validate checks an element array against the placement rules. The label's
// physical size is accepted for interface stability, but elements extending
// beyond the label bounds are allowed by policy: partial off-label
// placement is a supported layout technique, not an error.
func Validate(elements []Element, labelW, labelH float64) []Violation {
	var violations []Violation
	add := func(id, rule, format string, args ...any) {
		violations = append(violations, Violation{
			ElementID: id,
			Rule:      rule,
			Detail:    fmt.Sprintf(format, args...),
		})
	}

	for _, e := range elements {
		p := e.Placement

		if p.Width <= 0 || p.Height <= 0 {
			add(e.ID, "positive-dimensions", "width=%g height=%g", p.Width, p.Height)
		}
		if !RotationAllowed(p.Rotation) {
			add(e.ID, "rotation", "rotation %g not in {0, 90, -90, 180}", p.Rotation)
		}

		switch e.Kind {
		case KindQR:
			if p.Width != p.Height {
				add(e.ID, "qr-square", "width=%g height=%g", p.Width, p.Height)
			}
		case KindBarcode:
			if e.Barcode == nil {
				add(e.ID, "barcode-options", "BARCODE element requires barcodeOptions")
				continue
			}
			if e.Barcode.Format != FormatEAN13 {
				add(e.ID, "barcode-format", "unsupported format %q", e.Barcode.Format)
			}
			if e.Barcode.BarHeight <= 0 {
				add(e.ID, "bar-height", "barHeight=%g", e.Barcode.BarHeight)
			}
			if e.Barcode.TextSize <= 0 {
				add(e.ID, "text-size", "textSize=%g", e.Barcode.TextSize)
			}
			if e.Barcode.TextGap < 0 {
				add(e.ID, "text-gap", "textGap=%g", e.Barcode.TextGap)
			}
		default:
			add(e.ID, "kind", "unknown element kind %q", e.Kind)
		}
	}

	return violations
}

// ValidateStrict converts violations into a single INVALID_INPUT error.
// Used on the atomic whole-array replace path: either every element is
// accepted or none are.
func ValidateStrict(elements []Element, labelW, labelH float64) error {
	violations := Validate(elements, labelW, labelH)
	if len(violations) == 0 {
		return nil
	}
	return errors.New(errors.ErrCodeInvalidInput, "invalid elements: %d violation(s), first: %s",
		len(violations), violations[0])
}
