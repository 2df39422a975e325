package sheet

import "testing"

func TestComputeGrid(t *testing.T) {
	tests := []struct {
		name           string
		sheetW, sheetH float64
		margins        Margins
		labelW, labelH float64
		wantCols       int
		wantRows       int
		wantPerSheet   int
		wantRotated    bool
	}{
		{
			// Usable 8.0x10.5in. Unrotated 4x10=40 equals rotated
			// 8x5=40, so the tie keeps the unrotated orientation.
			name:   "letter sheet two by one label tie",
			sheetW: 8.5, sheetH: 11,
			margins: Margins{Left: 0.25, Right: 0.25, Top: 0.25, Bottom: 0.25},
			labelW:  2, labelH: 1,
			wantCols: 4, wantRows: 10, wantPerSheet: 40, wantRotated: false,
		},
		{
			// Usable 8.0x10.5in. Unrotated 2x5=10, rotated 4x3=12.
			name:   "rotation wins",
			sheetW: 8.5, sheetH: 11,
			margins: Margins{Left: 0.25, Right: 0.25, Top: 0.25, Bottom: 0.25},
			labelW:  3.5, labelH: 2,
			wantCols: 4, wantRows: 3, wantPerSheet: 12, wantRotated: true,
		},
		{
			name:   "label larger than usable area",
			sheetW: 8.5, sheetH: 11,
			margins: Margins{Left: 0.25, Right: 0.25, Top: 0.25, Bottom: 0.25},
			labelW:  9, labelH: 12,
			wantCols: 0, wantRows: 0, wantPerSheet: 0, wantRotated: false,
		},
		{
			name:   "margins consume the sheet",
			sheetW: 1, sheetH: 1,
			margins: Margins{Left: 0.5, Right: 0.5, Top: 0.5, Bottom: 0.5},
			labelW:  0.5, labelH: 0.5,
			wantCols: 0, wantRows: 0, wantPerSheet: 0, wantRotated: false,
		},
		{
			name:   "square label never rotates",
			sheetW: 8.5, sheetH: 11,
			margins: Margins{Left: 0.25, Right: 0.25, Top: 0.25, Bottom: 0.25},
			labelW:  2, labelH: 2,
			wantCols: 4, wantRows: 5, wantPerSheet: 20, wantRotated: false,
		},
		{
			name:   "asymmetric margins with alignment band",
			sheetW: 8.5, sheetH: 11,
			margins: EffectiveMargins(0.25, true),
			labelW:  2, labelH: 1,
			// Usable 8.0x10.2in: rows drop from 10 to 10 unrotated
			// (floor(10.2/1)=10) and rotated floor(10.2/2)=5.
			wantCols: 4, wantRows: 10, wantPerSheet: 40, wantRotated: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeGrid(tt.sheetW, tt.sheetH, tt.margins, tt.labelW, tt.labelH)
			if got.Columns != tt.wantCols || got.Rows != tt.wantRows {
				t.Errorf("grid = %dx%d, want %dx%d", got.Columns, got.Rows, tt.wantCols, tt.wantRows)
			}
			if got.PerSheet != tt.wantPerSheet {
				t.Errorf("PerSheet = %d, want %d", got.PerSheet, tt.wantPerSheet)
			}
			if got.Rotated != tt.wantRotated {
				t.Errorf("Rotated = %v, want %v", got.Rotated, tt.wantRotated)
			}
		})
	}
}

func TestEffectiveMargins(t *testing.T) {
	plain := EffectiveMargins(0.25, false)
	if plain.Top != 0.25 || plain.Bottom != 0.25 || plain.Left != 0.25 || plain.Right != 0.25 {
		t.Errorf("plain margins = %+v, want uniform 0.25", plain)
	}

	banded := EffectiveMargins(0.25, true)
	if banded.Left != 0.25 || banded.Right != 0.25 {
		t.Errorf("horizontal margins = %g/%g, want 0.25", banded.Left, banded.Right)
	}
	if banded.Top != 0.25+AlignBand || banded.Bottom != 0.25+AlignBand {
		t.Errorf("vertical margins = %g/%g, want %g", banded.Top, banded.Bottom, 0.25+AlignBand)
	}
}

func TestGridSheets(t *testing.T) {
	g := Grid{PerSheet: 40}
	tests := []struct {
		count int
		want  int
	}{
		{1, 1},
		{40, 1},
		{41, 2},
		{80, 2},
		{1000, 25},
		{0, 0},
	}
	for _, tt := range tests {
		if got := g.Sheets(tt.count); got != tt.want {
			t.Errorf("Sheets(%d) = %d, want %d", tt.count, got, tt.want)
		}
	}

	empty := Grid{}
	if got := empty.Sheets(10); got != 0 {
		t.Errorf("zero-capacity Sheets(10) = %d, want 0", got)
	}
}
