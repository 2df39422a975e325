package inject

import (
	"strings"
	"testing"

	"github.com/labelpress/labelpress/pkg/errors"
	"github.com/labelpress/labelpress/pkg/label"
	"github.com/labelpress/labelpress/pkg/qr"
)

const template = `<svg width="2in" height="1in" viewBox="0 0 192 96"><rect id="art" width="192" height="96" fill="#eee"/></svg>`

func mustQR(t *testing.T) *qr.Code {
	t.Helper()
	code, err := qr.Generate("https://scan.example.com/qr/placeholder")
	if err != nil {
		t.Fatal(err)
	}
	return code
}

func TestInjectQR(t *testing.T) {
	e := label.NewDefaultQR(0.5, 0.25, 0.5)
	out, err := Inject(template, Options{Elements: []label.Element{e}, QR: mustQR(t)})
	if err != nil {
		t.Fatalf("Inject() error = %v", err)
	}

	// Template content is untouched and the injection lands before </svg>.
	if !strings.Contains(out, `<rect id="art" width="192" height="96" fill="#eee"/>`) {
		t.Error("template content altered")
	}
	if !strings.HasSuffix(strings.TrimSpace(out), "</svg>") {
		t.Error("closing tag lost")
	}
	closing := strings.LastIndex(out, "</svg>")
	if !strings.Contains(out[:closing], "translate(48 24)") {
		t.Errorf("element not placed at 0.5in,0.25in (96 px/in): %s", out)
	}
}

func TestInjectRotationTransform(t *testing.T) {
	e := label.NewDefaultQR(0.5, 0.25, 0.5)
	e.Placement.Rotation = 90

	out, err := Inject(template, Options{Elements: []label.Element{e}, QR: mustQR(t)})
	if err != nil {
		t.Fatal(err)
	}

	// Rotation realized around the element's own center: translate then
	// rotate around (w/2, h/2) = (24, 24) drawing units.
	want := `transform="translate(48 24) translate(24 24) rotate(90) translate(-24 -24)"`
	if !strings.Contains(out, want) {
		t.Errorf("rotation transform missing %q in:\n%s", want, out)
	}
}

// The same placement renders at the same translation whatever the
// rotation: rotation is visual-only and never shifts the box.
func TestInjectRotationDoesNotMoveBox(t *testing.T) {
	for _, rotation := range []float64{0, 90, -90, 180} {
		e := label.NewDefaultQR(0.25, 0.25, 0.5)
		e.Placement.Rotation = rotation
		out, err := Inject(template, Options{Elements: []label.Element{e}, QR: mustQR(t)})
		if err != nil {
			t.Fatalf("rotation %g: %v", rotation, err)
		}
		if !strings.Contains(out, "translate(24 24)") {
			t.Errorf("rotation %g moved the element translation:\n%s", rotation, out)
		}
	}
}

func TestInjectTransparentBackground(t *testing.T) {
	e := label.NewDefaultQR(0.5, 0.25, 0.5)
	e.Background = label.BackgroundTransparent

	out, err := Inject(template, Options{Elements: []label.Element{e}, QR: mustQR(t)})
	if err != nil {
		t.Fatal(err)
	}
	closing := strings.LastIndex(out, "</svg>")
	injected := out[len(template)-len("</svg>") : closing]
	if strings.Contains(injected, `fill="#FFFFFF"`) {
		t.Error("transparent QR still rendered a light background")
	}
}

func TestInjectBarcode(t *testing.T) {
	e := label.NewDefaultBarcode(0.2, 0.5, 1.2, 0.3)
	out, err := Inject(template, Options{Elements: []label.Element{e}, BarcodeValue: "4006381333931"})
	if err != nil {
		t.Fatalf("Inject() error = %v", err)
	}
	for _, want := range []string{"4", "006381", "333931"} {
		if !strings.Contains(out, ">"+want+"</text>") {
			t.Errorf("digit group %q missing", want)
		}
	}
}

func TestInjectBarcodeRequiresValue(t *testing.T) {
	e := label.NewDefaultBarcode(0.2, 0.5, 1.2, 0.3)
	_, err := Inject(template, Options{Elements: []label.Element{e}})
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("Inject() error = %v, want INVALID_INPUT", err)
	}
}

func TestInjectPreviewWatermark(t *testing.T) {
	e := label.NewDefaultQR(0.5, 0.25, 0.5)

	production, err := Inject(template, Options{Elements: []label.Element{e}, QR: mustQR(t)})
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(production, "SAMPLE") {
		t.Error("watermark leaked into production output")
	}

	preview, err := Inject(template, Options{Elements: []label.Element{e}, QR: mustQR(t), Preview: true})
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(preview, "SAMPLE") {
		t.Error("preview output missing watermark")
	}
}

func TestInjectIdempotent(t *testing.T) {
	e := label.NewDefaultQR(0.5, 0.25, 0.5)
	opts := Options{Elements: []label.Element{e}, QR: mustQR(t), Preview: true}

	a, err := Inject(template, opts)
	if err != nil {
		t.Fatal(err)
	}
	b, err := Inject(template, opts)
	if err != nil {
		t.Fatal(err)
	}
	if a != b {
		t.Error("identical inputs produced different output")
	}
}

func TestInjectRejectsInvalidElements(t *testing.T) {
	bad := label.Element{ID: "q", Kind: label.KindQR, Placement: label.Placement{Width: 1, Height: 2}}
	_, err := Inject(template, Options{Elements: []label.Element{bad}, QR: mustQR(t)})
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("Inject() error = %v, want INVALID_INPUT", err)
	}
}

// Non-uniform viewboxes scale the two axes independently.
func TestInjectNonUniformScale(t *testing.T) {
	stretched := `<svg width="2in" height="1in" viewBox="0 0 400 100"><g id="art"/></svg>`
	e := label.NewDefaultQR(1, 0.5, 0.25)
	out, err := Inject(stretched, Options{Elements: []label.Element{e}, QR: mustQR(t)})
	if err != nil {
		t.Fatal(err)
	}
	// 1in * 200 px/in horizontally, 0.5in * 100 px/in vertically.
	if !strings.Contains(out, "translate(200 50)") {
		t.Errorf("independent axis scaling wrong:\n%s", out)
	}
}
