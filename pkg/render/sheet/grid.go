// Package sheet tiles rendered labels across paginated print sheets.
//
// The planner is pure capacity math over physical inches; the composer
// turns a plan plus label markup into sheet artwork, in either instanced or
// unique mode, with optional print decorations.
package sheet

import "math"

// Grid is the capacity plan for one sheet.
type Grid struct {
	Columns  int
	Rows     int
	PerSheet int
	Rotated  bool // labels are placed rotated 90° to improve yield
}

// Margins are the four sheet margins in inches. Top and bottom commonly
// exceed left and right: the extra band holds alignment marks without
// costing horizontal packing density.
type Margins struct {
	Left, Right, Top, Bottom float64
}

// AlignBand is the extra top/bottom margin reserved when raster alignment
// marks are enabled, in inches.
const AlignBand = 0.15

// EffectiveMargins expands a uniform base margin into the asymmetric sheet
// margins, reserving the alignment band when marks are requested.
func EffectiveMargins(base float64, alignmentMarks bool) Margins {
	m := Margins{Left: base, Right: base, Top: base, Bottom: base}
	if alignmentMarks {
		m.Top += AlignBand
		m.Bottom += AlignBand
	}
	return m
}

// ComputeGrid plans how many labels fit on one sheet. It compares the
// unrotated capacity against placing every label rotated 90° and picks
// whichever is strictly greater; ties keep the unrotated orientation.
//
// Degenerate inputs (labels larger than the usable area, nonpositive
// sizes) produce a zero-capacity grid rather than an error: callers
// surface that as a user-facing warning.
func ComputeGrid(sheetW, sheetH float64, m Margins, labelW, labelH float64) Grid {
	usableW := sheetW - m.Left - m.Right
	usableH := sheetH - m.Top - m.Bottom

	cols, rows := fitCount(usableW, usableH, labelW, labelH)
	rotCols, rotRows := fitCount(usableW, usableH, labelH, labelW)

	plain := cols * rows
	rotated := rotCols * rotRows

	if rotated > plain {
		return Grid{Columns: rotCols, Rows: rotRows, PerSheet: rotated, Rotated: true}
	}
	return Grid{Columns: cols, Rows: rows, PerSheet: plain}
}

// Sheets returns how many sheets count labels occupy under this grid.
// Zero-capacity grids report zero sheets; callers must check PerSheet.
func (g Grid) Sheets(count int) int {
	if g.PerSheet <= 0 || count <= 0 {
		return 0
	}
	return (count + g.PerSheet - 1) / g.PerSheet
}

func fitCount(usableW, usableH, w, h float64) (cols, rows int) {
	if usableW <= 0 || usableH <= 0 || w <= 0 || h <= 0 {
		return 0, 0
	}
	cols = int(math.Floor(usableW / w))
	rows = int(math.Floor(usableH / h))
	if cols < 0 {
		cols = 0
	}
	if rows < 0 {
		rows = 0
	}
	return cols, rows
}
