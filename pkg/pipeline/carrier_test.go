package pipeline

import (
	"testing"

	"github.com/labelpress/labelpress/pkg/label"
	"github.com/labelpress/labelpress/pkg/store"
)

func marksOf(elements []label.Element) (qr, barcode int) {
	for _, e := range elements {
		switch e.Kind {
		case label.KindQR:
			qr++
		case label.KindBarcode:
			barcode++
		}
	}
	return qr, barcode
}

func TestFilterCarriers(t *testing.T) {
	elements := []label.Element{
		label.NewDefaultQR(1.3, 0.3, 0.6),
		label.NewDefaultBarcode(0.1, 0.1, 1.0, 0.3),
	}

	tests := []struct {
		name         string
		associations []store.Association
		templateID   string
		wantQR       int
		wantBarcode  int
	}{
		{
			name: "explicit carrier keeps both",
			associations: []store.Association{
				{TemplateID: "tpl-1", QRCarrier: true, BarcodeCarrier: true},
				{TemplateID: "tpl-2"},
			},
			templateID: "tpl-1",
			wantQR:     1, wantBarcode: 1,
		},
		{
			name: "non-carrier loses both",
			associations: []store.Association{
				{TemplateID: "tpl-1", QRCarrier: true, BarcodeCarrier: true},
				{TemplateID: "tpl-2"},
			},
			templateID: "tpl-2",
			wantQR:     0, wantBarcode: 0,
		},
		{
			name: "split carriers",
			associations: []store.Association{
				{TemplateID: "tpl-1", QRCarrier: true},
				{TemplateID: "tpl-2", BarcodeCarrier: true},
			},
			templateID: "tpl-2",
			wantQR:     0, wantBarcode: 1,
		},
		{
			name: "no flags default to first association",
			associations: []store.Association{
				{TemplateID: "tpl-1"},
				{TemplateID: "tpl-2"},
			},
			templateID: "tpl-1",
			wantQR:     1, wantBarcode: 1,
		},
		{
			name: "no flags strip later associations",
			associations: []store.Association{
				{TemplateID: "tpl-1"},
				{TemplateID: "tpl-2"},
			},
			templateID: "tpl-2",
			wantQR:     0, wantBarcode: 0,
		},
		{
			name:         "no associations pass through",
			associations: nil,
			templateID:   "tpl-1",
			wantQR:       1, wantBarcode: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterCarriers(tt.associations, tt.templateID, elements)
			qr, barcode := marksOf(got)
			if qr != tt.wantQR || barcode != tt.wantBarcode {
				t.Errorf("kept qr=%d barcode=%d, want qr=%d barcode=%d", qr, barcode, tt.wantQR, tt.wantBarcode)
			}
		})
	}
}
