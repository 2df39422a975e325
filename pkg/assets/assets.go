// Package assets provides the embedded raster artwork used by sheet
// decorations.
//
// The alignment mark is embedded directly into the binary using go:embed,
// making it available without external dependencies. Derived encodings are
// held by an explicit Cache instance owned by whoever composes sheets, so
// tests stay deterministic and nothing leaks through hidden package state.
package assets

import (
	_ "embed"
	"encoding/base64"
)

// AlignMark is a small circular registration target placed in the sheet
// margin bands for print alignment checks.

//go:embed alignmark.png
var alignMarkPNG []byte

// AlignMarkPNG returns the raw PNG bytes.
func AlignMarkPNG() []byte {
	return alignMarkPNG
}

// Cache holds lazily computed asset encodings for the lifetime of its
// owner. The zero value is not usable; construct with NewCache.
type Cache struct {
	alignMarkURI string
}

// NewCache creates an asset cache. Construct one per process (or per
// composer) and reuse it; encoding happens once on first use.
func NewCache() *Cache {
	return &Cache{}
}

// AlignMarkDataURI returns the alignment mark as a data URI suitable for an
// SVG image href. The encoding is computed on first call and cached.
func (c *Cache) AlignMarkDataURI() string {
	if c.alignMarkURI == "" {
		c.alignMarkURI = "data:image/png;base64," + base64.StdEncoding.EncodeToString(alignMarkPNG)
	}
	return c.alignMarkURI
}
