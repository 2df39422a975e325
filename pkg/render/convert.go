// Package render converts finished SVG artwork into delivery formats.
package render

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
)

// PrintDPI is the default raster density for print export.
const PrintDPI = 300

// ToPDF converts SVG bytes to a single-page PDF using rsvg-convert.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func ToPDF(svg []byte, dpi int) ([]byte, error) {
	return rsvgConvert(svg, "pdf", dpiArgs(dpi)...)
}

// ToPNG converts SVG bytes to PNG at the given density using rsvg-convert.
// The SVG's physical size in inches times the DPI gives the pixel size.
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func ToPNG(svg []byte, dpi int) ([]byte, error) {
	return rsvgConvert(svg, "png", dpiArgs(dpi)...)
}

// ToPDFPages converts a sequence of sheet SVGs into one multi-page PDF,
// one sheet per page in order. rsvg-convert only paginates from files, so
// the sheets pass through a temporary directory.
func ToPDFPages(sheets [][]byte, dpi int) ([]byte, error) {
	if len(sheets) == 0 {
		return nil, fmt.Errorf("no sheets to convert")
	}
	if len(sheets) == 1 {
		return ToPDF(sheets[0], dpi)
	}
	if _, err := exec.LookPath("rsvg-convert"); err != nil {
		return nil, missingLibrsvg("pdf")
	}

	dir, err := os.MkdirTemp("", "labelpress-sheets-*")
	if err != nil {
		return nil, fmt.Errorf("create temp dir: %w", err)
	}
	defer os.RemoveAll(dir)

	files := make([]string, len(sheets))
	for i, svg := range sheets {
		files[i] = filepath.Join(dir, fmt.Sprintf("sheet-%04d.svg", i+1))
		if err := os.WriteFile(files[i], svg, 0o644); err != nil {
			return nil, fmt.Errorf("write sheet %d: %w", i+1, err)
		}
	}

	args := append([]string{"-f", "pdf"}, dpiArgs(dpi)...)
	args = append(args, files...)
	cmd := exec.Command("rsvg-convert", args...)

	var out, errBuf bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errBuf
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("rsvg-convert: %v: %s", err, errBuf.String())
	}
	return out.Bytes(), nil
}

func dpiArgs(dpi int) []string {
	if dpi <= 0 {
		dpi = PrintDPI
	}
	d := fmt.Sprintf("%d", dpi)
	return []string{"--dpi-x", d, "--dpi-y", d}
}

// rsvgConvert shells out to rsvg-convert for format conversion.
func rsvgConvert(svg []byte, format string, extraArgs ...string) ([]byte, error) {
	if _, err := exec.LookPath("rsvg-convert"); err != nil {
		return nil, missingLibrsvg(format)
	}

	args := append([]string{"-f", format}, extraArgs...)
	cmd := exec.Command("rsvg-convert", args...)
	cmd.Stdin = bytes.NewReader(svg)

	var out, errBuf bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errBuf

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("rsvg-convert: %v: %s", err, errBuf.String())
	}
	return out.Bytes(), nil
}

func missingLibrsvg(format string) error {
	return fmt.Errorf("%s export requires librsvg. Install with:\n  macOS:  brew install librsvg\n  Linux:  apt install librsvg2-bin", format)
}
