package svgdoc

import (
	"regexp"
	"strings"
)

// Identifier rewriting patterns. References come in three shapes: direct id
// declarations, fragment references (href / xlink:href), and functional
// url(#...) lookups used by fill/stroke/filter/clip-path attributes and
// inline style text.
var (
	idAttrRegex  = regexp.MustCompile(`\bid\s*=\s*"([^"]+)"`)
	hrefRegex    = regexp.MustCompile(`\b(href|xlink:href)\s*=\s*"#([^"]+)"`)
	urlRefRegex  = regexp.MustCompile(`url\(#([^)]+)\)`)
)

// PrefixIdentifiers rewrites every internal id and every reference to an id
// with the given namespace prefix. Required whenever more than one copy of
// the same template is embedded in one output: without distinct namespaces,
// identical ids silently merge unrelated gradient/clip/filter definitions
// across copies.
func PrefixIdentifiers(markup, namespace string) string {
	if namespace == "" {
		return markup
	}
	prefix := namespace + "-"

	markup = idAttrRegex.ReplaceAllStringFunc(markup, func(m string) string {
		sub := idAttrRegex.FindStringSubmatch(m)
		return `id="` + prefix + sub[1] + `"`
	})
	markup = hrefRegex.ReplaceAllStringFunc(markup, func(m string) string {
		sub := hrefRegex.FindStringSubmatch(m)
		return sub[1] + `="#` + prefix + sub[2] + `"`
	})
	markup = urlRefRegex.ReplaceAllStringFunc(markup, func(m string) string {
		sub := urlRefRegex.FindStringSubmatch(m)
		return "url(#" + prefix + sub[1] + ")"
	})
	return markup
}

// placeholderTagRegex matches any tag carrying the reserved placeholder id.
var placeholderTagRegex = regexp.MustCompile(`(?s)<[a-zA-Z][^>]*\bid\s*=\s*"qr-placeholder"[^>]*>`)

var (
	xAttrRegex = regexp.MustCompile(`\bx\s*=\s*"([^"]*)"`)
	yAttrRegex = regexp.MustCompile(`\by\s*=\s*"([^"]*)"`)
)

// PlaceholderRegion locates the reserved qr-placeholder region in the
// template, returned in drawing units. Templates mark the intended QR spot
// with a rect carrying id="qr-placeholder"; absence is normal.
func PlaceholderRegion(markup string) (x, y, w, h float64, ok bool) {
	tag := placeholderTagRegex.FindString(markup)
	if tag == "" {
		return 0, 0, 0, 0, false
	}
	parse := func(re *regexp.Regexp) float64 {
		v, _ := parseNumber(attrValue(tag, re))
		return v
	}
	x = parse(xAttrRegex)
	y = parse(yAttrRegex)
	w = parse(widthRegex)
	h = parse(heightRegex)
	if w <= 0 || h <= 0 {
		return 0, 0, 0, 0, false
	}
	return x, y, w, h, true
}

// parseNumber parses a bare drawing-unit number, tolerating a px suffix.
func parseNumber(v string) (float64, bool) {
	v = strings.TrimSuffix(strings.TrimSpace(v), "px")
	if v == "" {
		return 0, false
	}
	f, ok := parseLength(v)
	if !ok {
		return 0, false
	}
	return f * PxPerInch, true // parseLength normalizes to inches; undo for drawing units
}
