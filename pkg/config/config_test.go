package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/labelpress/labelpress/pkg/errors"
	"github.com/labelpress/labelpress/pkg/render/sheet"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Limits.MaxQuantity != 1000 {
		t.Errorf("MaxQuantity = %d, want 1000", cfg.Limits.MaxQuantity)
	}
	if cfg.Limits.MaxTokens != 10000 || cfg.Limits.MaxPages != 500 {
		t.Errorf("batch limits = %d/%d, want 10000/500", cfg.Limits.MaxTokens, cfg.Limits.MaxPages)
	}

	letter, err := cfg.Profile("letter")
	if err != nil {
		t.Fatalf("Profile(letter): %v", err)
	}
	if letter.SheetWidth != 8.5 || letter.SheetHeight != 11 {
		t.Errorf("letter = %gx%g", letter.SheetWidth, letter.SheetHeight)
	}

	_, err = cfg.Profile("tabloid")
	if errors.GetCode(err) != errors.ErrCodeNotFound {
		t.Errorf("error code = %v, want %v", errors.GetCode(err), errors.ErrCodeNotFound)
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "labelpress.toml")
	content := `
base_url = "https://labels.example.com"

[limits]
max_quantity = 250

[profiles.thermal]
sheet_width = 4.0
sheet_height = 6.0
margin = "narrow"
alignment_marks = true
footer = true
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.BaseURL != "https://labels.example.com" {
		t.Errorf("BaseURL = %q", cfg.BaseURL)
	}
	if cfg.Limits.MaxQuantity != 250 {
		t.Errorf("MaxQuantity = %d, want 250", cfg.Limits.MaxQuantity)
	}
	// Unset limits keep defaults.
	if cfg.Limits.MaxTokens != 10000 {
		t.Errorf("MaxTokens = %d, want default 10000", cfg.Limits.MaxTokens)
	}
	// Built-in profiles survive the merge.
	if _, err := cfg.Profile("letter"); err != nil {
		t.Errorf("letter profile lost after load: %v", err)
	}

	thermal, err := cfg.Profile("thermal")
	if err != nil {
		t.Fatalf("Profile(thermal): %v", err)
	}
	if thermal.SheetWidth != 4 || thermal.SheetHeight != 6 {
		t.Errorf("thermal = %gx%g", thermal.SheetWidth, thermal.SheetHeight)
	}
	if !thermal.AlignmentMarks || !thermal.Footer {
		t.Error("decoration toggles not loaded")
	}
}

func TestLoadInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	if err := os.WriteFile(path, []byte("profiles = 42"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := Load(path)
	if err == nil {
		t.Fatal("expected error for malformed config")
	}
	if errors.GetCode(err) != errors.ErrCodeInvalidInput {
		t.Errorf("error code = %v, want %v", errors.GetCode(err), errors.ErrCodeInvalidInput)
	}
}

func TestProfileSheetSize(t *testing.T) {
	p := Profile{SheetWidth: 8.5, SheetHeight: 11}

	w, h := p.SheetSize()
	if w != 8.5 || h != 11 {
		t.Errorf("portrait = %gx%g", w, h)
	}

	p.Orientation = "landscape"
	w, h = p.SheetSize()
	if w != 11 || h != 8.5 {
		t.Errorf("landscape = %gx%g", w, h)
	}
}

func TestProfileMargins(t *testing.T) {
	tests := []struct {
		name    string
		profile Profile
		want    sheet.Margins
	}{
		{
			name:    "standard",
			profile: Profile{Margin: "standard"},
			want:    sheet.Margins{Left: 0.25, Right: 0.25, Top: 0.25, Bottom: 0.25},
		},
		{
			name:    "narrow",
			profile: Profile{Margin: "narrow"},
			want:    sheet.Margins{Left: 0.125, Right: 0.125, Top: 0.125, Bottom: 0.125},
		},
		{
			name:    "custom",
			profile: Profile{Margin: "custom", CustomMargin: 0.5},
			want:    sheet.Margins{Left: 0.5, Right: 0.5, Top: 0.5, Bottom: 0.5},
		},
		{
			name:    "unknown falls back to standard",
			profile: Profile{Margin: "wide"},
			want:    sheet.Margins{Left: 0.25, Right: 0.25, Top: 0.25, Bottom: 0.25},
		},
		{
			name:    "alignment band",
			profile: Profile{Margin: "standard", AlignmentMarks: true},
			want:    sheet.Margins{Left: 0.25, Right: 0.25, Top: 0.4, Bottom: 0.4},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.profile.Margins(); got != tt.want {
				t.Errorf("Margins() = %+v, want %+v", got, tt.want)
			}
		})
	}
}
