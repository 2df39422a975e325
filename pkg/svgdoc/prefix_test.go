package svgdoc

import (
	"strings"
	"testing"
)

func TestPrefixIdentifiers(t *testing.T) {
	markup := `<svg><defs>` +
		`<linearGradient id="grad"><stop/></linearGradient>` +
		`<clipPath id="clip"><rect/></clipPath>` +
		`</defs>` +
		`<rect fill="url(#grad)" clip-path="url(#clip)"/>` +
		`<use href="#grad"/>` +
		`<use xlink:href="#clip"/>` +
		`<circle style="fill:url(#grad);stroke:none"/>` +
		`</svg>`

	out := PrefixIdentifiers(markup, "c1")

	wants := []string{
		`id="c1-grad"`,
		`id="c1-clip"`,
		`fill="url(#c1-grad)"`,
		`clip-path="url(#c1-clip)"`,
		`href="#c1-grad"`,
		`xlink:href="#c1-clip"`,
		`style="fill:url(#c1-grad);stroke:none"`,
	}
	for _, want := range wants {
		if !strings.Contains(out, want) {
			t.Errorf("PrefixIdentifiers() missing %q in:\n%s", want, out)
		}
	}

	// No unprefixed ids or references may survive.
	for _, stale := range []string{`id="grad"`, `id="clip"`, `url(#grad)`, `="#grad"`} {
		if strings.Contains(out, stale) {
			t.Errorf("PrefixIdentifiers() left unprefixed %q in:\n%s", stale, out)
		}
	}
}

func TestPrefixIdentifiersDistinctNamespaces(t *testing.T) {
	markup := `<svg><g id="body" fill="url(#p)"/></svg>`
	a := PrefixIdentifiers(markup, "copy1")
	b := PrefixIdentifiers(markup, "copy2")
	if a == b {
		t.Error("distinct namespaces produced identical markup")
	}
	if strings.Contains(a, `id="copy2-body"`) {
		t.Error("namespace leaked between calls")
	}
}

func TestPrefixIdentifiersEmptyNamespace(t *testing.T) {
	markup := `<svg><g id="body"/></svg>`
	if out := PrefixIdentifiers(markup, ""); out != markup {
		t.Error("empty namespace should leave markup untouched")
	}
}

func TestPlaceholderRegion(t *testing.T) {
	t.Run("present", func(t *testing.T) {
		markup := `<svg viewBox="0 0 192 96"><rect id="qr-placeholder" x="120" y="30" width="48" height="48"/></svg>`
		x, y, w, h, ok := PlaceholderRegion(markup)
		if !ok {
			t.Fatal("PlaceholderRegion() not found")
		}
		if x != 120 || y != 30 || w != 48 || h != 48 {
			t.Errorf("PlaceholderRegion() = (%g, %g, %g, %g)", x, y, w, h)
		}
	})

	t.Run("absent", func(t *testing.T) {
		if _, _, _, _, ok := PlaceholderRegion(`<svg><rect id="logo"/></svg>`); ok {
			t.Error("PlaceholderRegion() found a region where none exists")
		}
	})

	t.Run("degenerate region ignored", func(t *testing.T) {
		markup := `<svg><rect id="qr-placeholder" x="1" y="1" width="0" height="10"/></svg>`
		if _, _, _, _, ok := PlaceholderRegion(markup); ok {
			t.Error("zero-width placeholder should be ignored")
		}
	})
}
