package pipeline

import (
	"github.com/labelpress/labelpress/pkg/label"
	"github.com/labelpress/labelpress/pkg/store"
)

// FilterCarriers strips QR and BARCODE elements from templates that are not
// the designated carrier for that mark. Among a product's associations
// exactly one template carries the QR and exactly one the barcode; when no
// explicit flag is set, the first association is the carrier. This runs
// before any barcode-value validation, so a non-carrier template missing a
// barcode value never blocks rendering.
func FilterCarriers(associations []store.Association, templateID string, elements []label.Element) []label.Element {
	if len(associations) == 0 {
		return elements
	}

	qrCarrier := carrierFor(associations, func(a store.Association) bool { return a.QRCarrier })
	barcodeCarrier := carrierFor(associations, func(a store.Association) bool { return a.BarcodeCarrier })

	out := make([]label.Element, 0, len(elements))
	for _, e := range elements {
		switch e.Kind {
		case label.KindQR:
			if templateID != qrCarrier {
				continue
			}
		case label.KindBarcode:
			if templateID != barcodeCarrier {
				continue
			}
		}
		out = append(out, e)
	}
	return out
}

// carrierFor returns the template id of the association matching the flag,
// defaulting to the first association when none is flagged.
func carrierFor(associations []store.Association, flagged func(store.Association) bool) string {
	for _, a := range associations {
		if flagged(a) {
			return a.TemplateID
		}
	}
	return associations[0].TemplateID
}
