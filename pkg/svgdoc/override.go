package svgdoc

import (
	"fmt"
	"math"
	"regexp"
	"strings"
)

// sizeTolerance is the relative difference below which a stored size
// override is considered equal to the native size and left alone.
const sizeTolerance = 1e-3

// ApplySizeOverride rewrites the root element's width/height attributes to
// the target physical size. The rewrite is non-destructive: only the two
// attributes change, and a viewBox pinned to the native drawing size is
// synthesized when the template had none (so the existing content keeps its
// coordinate system instead of being reinterpreted at the new size).
//
// When target and native sizes agree within tolerance the markup is
// returned unchanged.
func ApplySizeOverride(markup string, nativeW, nativeH, targetW, targetH float64) string {
	if targetW <= 0 || targetH <= 0 {
		return markup
	}
	if withinTolerance(nativeW, targetW) && withinTolerance(nativeH, targetH) {
		return markup
	}

	root := rootTagRegex.FindString(markup)
	if root == "" {
		return markup
	}

	newRoot := root
	newRoot = setOrAddAttr(newRoot, widthRegex, "width", fmt.Sprintf("%gin", targetW))
	newRoot = setOrAddAttr(newRoot, heightRegex, "height", fmt.Sprintf("%gin", targetH))

	if _, ok := parseViewBox(newRoot); !ok {
		vb := fmt.Sprintf(`viewBox="0 0 %g %g"`, nativeW*PxPerInch, nativeH*PxPerInch)
		newRoot = insertAttr(newRoot, vb)
	}

	return strings.Replace(markup, root, newRoot, 1)
}

func withinTolerance(a, b float64) bool {
	if a == b {
		return true
	}
	ref := math.Max(math.Abs(a), math.Abs(b))
	if ref == 0 {
		return true
	}
	return math.Abs(a-b)/ref < sizeTolerance
}

// setOrAddAttr replaces an existing attribute value or inserts the
// attribute after the tag name when absent.
func setOrAddAttr(tag string, re *regexp.Regexp, name, value string) string {
	attr := fmt.Sprintf(`%s="%s"`, name, value)
	if re.MatchString(tag) {
		return re.ReplaceAllString(tag, attr)
	}
	return insertAttr(tag, attr)
}

// insertAttr splices an attribute immediately after "<svg".
func insertAttr(tag, attr string) string {
	i := strings.Index(tag, "<svg")
	if i < 0 {
		return tag
	}
	at := i + len("<svg")
	return tag[:at] + " " + attr + tag[at:]
}
