package svgdoc

import "strings"

// InnerContent returns the markup between the root element's opening and
// closing tags, for embedding a template body into another drawing.
func InnerContent(markup string) (string, bool) {
	loc := rootTagRegex.FindStringIndex(markup)
	if loc == nil {
		return "", false
	}
	end := strings.LastIndex(markup, "</svg>")
	if end < 0 || end < loc[1] {
		return "", false
	}
	return markup[loc[1]:end], true
}

// AppendBeforeClose splices extra markup immediately before the root
// element's closing tag, leaving everything else byte-identical.
func AppendBeforeClose(markup, extra string) (string, bool) {
	end := strings.LastIndex(markup, "</svg>")
	if end < 0 {
		return markup, false
	}
	return markup[:end] + extra + markup[end:], true
}
