package store

import (
	"encoding/json"

	"github.com/labelpress/labelpress/pkg/errors"
	"github.com/labelpress/labelpress/pkg/label"
	"github.com/labelpress/labelpress/pkg/svgdoc"
)

// prepareElements validates a replacement element array against the version
// it targets and returns the normalized JSON to persist. Unlike the lenient
// render-time decode, a malformed array is rejected here: the replace
// operation is the boundary where bad input must not enter the store.
// Rotations are snapped to the allowed set before validation.
func prepareElements(v Version, elements json.RawMessage) (json.RawMessage, error) {
	var decoded []label.Element
	if err := json.Unmarshal(elements, &decoded); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "malformed element array")
	}
	if len(decoded) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "element array is empty")
	}

	labelW, labelH := v.WidthIn, v.HeightIn
	if labelW <= 0 || labelH <= 0 {
		size, _ := svgdoc.PhysicalSizeOrFallback(v.Markup)
		labelW, labelH = size.WidthIn, size.HeightIn
	}

	for i := range decoded {
		decoded[i].Placement.Rotation = label.SnapRotation(decoded[i].Placement.Rotation)
	}
	if err := label.ValidateStrict(decoded, labelW, labelH); err != nil {
		return nil, err
	}
	return label.EncodeElements(decoded)
}
