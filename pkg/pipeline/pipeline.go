// Package pipeline orchestrates template resolution, carrier filtering,
// token minting, element injection and sheet composition into complete
// render operations.
//
// Three modes cover every caller:
//   - embedded: one fixed payload, all copies identical
//   - token: one freshly minted token per physical copy
//   - preview: fixed non-routable payload with a forced watermark; never
//     touches entity lookups or persistence
package pipeline

import (
	"context"
	"strings"
	"time"

	"github.com/labelpress/labelpress/pkg/config"
	"github.com/labelpress/labelpress/pkg/errors"
	"github.com/labelpress/labelpress/pkg/label"
	"github.com/labelpress/labelpress/pkg/mint"
	"github.com/labelpress/labelpress/pkg/qr"
	"github.com/labelpress/labelpress/pkg/render/inject"
	"github.com/labelpress/labelpress/pkg/render/sheet"
	"github.com/labelpress/labelpress/pkg/store"
	"github.com/labelpress/labelpress/pkg/svgdoc"
)

// Mode selects how QR payloads are produced.
type Mode string

const (
	ModeEmbedded Mode = "embedded"
	ModeToken    Mode = "token"
	ModePreview  Mode = "preview"
)

// Preview payloads are fixed and non-routable: scanning a watermarked
// sample must never resolve to a live target.
const (
	previewQRPayload    = "https://preview.invalid/qr/sample"
	previewBarcodeValue = "0000000000000"
)

// Request describes one render operation.
type Request struct {
	TemplateID string
	VersionID  string
	EntityType string
	EntityID   string

	Mode     Mode
	Quantity int
	Payload  string // embedded mode only: the fixed QR payload

	Profile   string    // print profile name, sheet operations only
	Batch     bool      // offline batch: higher ceilings, page limit
	PrintDate time.Time // footer date; callers pass it so output stays deterministic
	Note      string    // footer free-text
}

// Result is the outcome of a render operation.
type Result struct {
	Labels []string     // rendered label markups, one per distinct body
	Tokens []mint.Token // token mode only
	Grid   sheet.Grid   // sheet operations only
	Sheets [][]byte     // composed sheet markups, one per page
}

// Runner wires the pipeline's collaborators. All rendering is stateless
// and safe to call concurrently; the minter is the one stateful boundary.
type Runner struct {
	Templates store.TemplateStore
	Entities  store.EntityStore
	Minter    mint.Minter
	Composer  *sheet.Composer
	Config    config.Config
}

// RenderLabel renders a single label. Token mode mints exactly one token.
func (r *Runner) RenderLabel(ctx context.Context, req Request) (*Result, error) {
	req.Quantity = 1
	markup, elements, _, err := r.resolve(ctx, req)
	if err != nil {
		return nil, err
	}

	labels, tokens, err := r.renderCopies(ctx, req, markup, elements)
	if err != nil {
		return nil, err
	}
	return &Result{Labels: labels, Tokens: tokens}, nil
}

// RenderSheets renders req.Quantity labels tiled across sheets. Interactive
// requests are bounded by the quantity limits; batch requests by the token
// and page ceilings. All limit checks run before any token is minted or
// any label rendered.
func (r *Runner) RenderSheets(ctx context.Context, req Request) (*Result, error) {
	profile, err := r.Config.Profile(req.Profile)
	if err != nil {
		return nil, err
	}

	// Batch ceilings need the grid and therefore the label size; they are
	// checked right after resolution, still before any rendering starts.
	if !req.Batch {
		if err := errors.ValidateQuantity(req.Quantity, r.Config.Limits.MinQuantity, r.Config.Limits.MaxQuantity); err != nil {
			return nil, err
		}
	}

	markup, elements, version, err := r.resolve(ctx, req)
	if err != nil {
		return nil, err
	}

	size, _ := svgdoc.PhysicalSizeOrFallback(markup)
	sheetW, sheetH := profile.SheetSize()
	opts := sheet.Options{
		SheetW: sheetW, SheetH: sheetH,
		Margins: profile.Margins(),
		LabelW:  size.WidthIn, LabelH: size.HeightIn,
		Decor: profile.Decorations(),
		Footer: sheet.FooterInfo{
			Product:      r.footerProduct(ctx, req),
			VersionLabel: version.Label,
			Note:         req.Note,
			PrintDate:    req.PrintDate,
		},
	}

	grid := sheet.ComputeGrid(sheetW, sheetH, opts.Margins, size.WidthIn, size.HeightIn)
	if grid.PerSheet == 0 {
		return nil, errors.New(errors.ErrCodeValidation,
			"label %gx%gin does not fit sheet %gx%gin", size.WidthIn, size.HeightIn, sheetW, sheetH)
	}
	pages := grid.Sheets(req.Quantity)
	if req.Batch {
		if err := errors.ValidateBatchBounds(req.Quantity, pages, r.Config.Limits.MaxTokens, r.Config.Limits.MaxPages); err != nil {
			return nil, err
		}
	}

	labels, tokens, err := r.renderCopies(ctx, req, markup, elements)
	if err != nil {
		return nil, err
	}

	sheets, err := r.compose(req, labels, grid, opts)
	if err != nil {
		return nil, err
	}
	return &Result{Labels: labels, Tokens: tokens, Grid: grid, Sheets: sheets}, nil
}

// resolve loads the template version, applies the stored size override,
// decodes or synthesizes the element array, and strips non-carrier marks.
func (r *Runner) resolve(ctx context.Context, req Request) (string, []label.Element, store.Version, error) {
	if req.EntityType != "" {
		if err := errors.ValidateEntityKey(req.EntityType, req.EntityID); err != nil {
			return "", nil, store.Version{}, err
		}
	}

	version, err := r.Templates.Version(ctx, req.TemplateID, req.VersionID)
	if err != nil {
		return "", nil, store.Version{}, err
	}

	markup := version.Markup
	if version.WidthIn > 0 && version.HeightIn > 0 {
		native, _ := svgdoc.PhysicalSizeOrFallback(markup)
		markup = svgdoc.ApplySizeOverride(markup, native.WidthIn, native.HeightIn, version.WidthIn, version.HeightIn)
	}

	size, _ := svgdoc.PhysicalSizeOrFallback(markup)
	elements, ok := label.DecodeElements(version.Elements)
	if !ok {
		elements = label.DefaultFor(size.WidthIn, size.HeightIn, r.placeholderPlacement(markup, size))
	}

	if req.EntityType != "" {
		associations, err := r.Templates.Associations(ctx, req.EntityType)
		if err != nil {
			return "", nil, store.Version{}, err
		}
		elements = FilterCarriers(associations, req.TemplateID, elements)
	}
	return markup, elements, version, nil
}

// placeholderPlacement converts a detected qr-placeholder region from
// drawing units to a physical placement.
func (r *Runner) placeholderPlacement(markup string, size svgdoc.Size) *label.Placement {
	x, y, w, h, ok := svgdoc.PlaceholderRegion(markup)
	if !ok {
		return nil
	}
	pxX, pxY, err := svgdoc.PxPerUnit(markup, size.WidthIn, size.HeightIn)
	if err != nil {
		return nil
	}
	return &label.Placement{X: x / pxX, Y: y / pxY, Width: w / pxX, Height: h / pxY}
}

// renderCopies produces the label bodies for one run. Embedded and preview
// modes return a single body shared by every copy; token mode returns one
// distinct body per copy.
func (r *Runner) renderCopies(ctx context.Context, req Request, markup string, elements []label.Element) ([]string, []mint.Token, error) {
	hasQR, hasBarcode := marks(elements)

	barcodeValue := ""
	if req.Mode == ModePreview {
		barcodeValue = previewBarcodeValue
	} else if req.EntityType != "" {
		entity, err := r.Entities.Entity(ctx, req.EntityType, req.EntityID)
		if err != nil {
			return nil, nil, err
		}
		barcodeValue = entity.BarcodeValue
	}

	// A barcode mark with no value fails before any token is minted:
	// a failed run must not consume tokens.
	if hasBarcode && barcodeValue == "" && req.Mode != ModePreview {
		return nil, nil, errors.New(errors.ErrCodeInvalidInput,
			"template %q has a barcode element but the entity has no barcode value", req.TemplateID)
	}

	switch req.Mode {
	case ModeEmbedded, ModePreview:
		payload := req.Payload
		if req.Mode == ModePreview {
			payload = previewQRPayload
		}
		body, err := r.renderOne(markup, elements, hasQR, payload, barcodeValue, req.Mode == ModePreview)
		if err != nil {
			return nil, nil, err
		}
		return []string{body}, nil, nil

	case ModeToken:
		if err := errors.ValidateBaseURL(r.Config.BaseURL); err != nil {
			return nil, nil, err
		}
		entityKey := req.EntityType + ":" + req.EntityID
		tokens, err := r.Minter.MintBatch(ctx, entityKey, req.Quantity)
		if err != nil {
			return nil, nil, err
		}
		labels := make([]string, len(tokens))
		for i, t := range tokens {
			payload := tokenURL(r.Config.BaseURL, t.Value)
			labels[i], err = r.renderOne(markup, elements, hasQR, payload, barcodeValue, false)
			if err != nil {
				return nil, nil, err
			}
		}
		return labels, tokens, nil

	default:
		return nil, nil, errors.New(errors.ErrCodeInvalidInput, "unknown render mode %q", req.Mode)
	}
}

func (r *Runner) renderOne(markup string, elements []label.Element, hasQR bool, payload, barcodeValue string, preview bool) (string, error) {
	opts := inject.Options{
		Elements:     elements,
		BarcodeValue: barcodeValue,
		Preview:      preview,
	}
	if hasQR {
		code, err := qr.Generate(payload)
		if err != nil {
			return "", err
		}
		opts.QR = code
	}
	return inject.Inject(markup, opts)
}

// compose tiles the rendered bodies across sheets. A single shared body
// uses instanced composition; distinct bodies are embedded uniquely with
// namespaced identifiers.
func (r *Runner) compose(req Request, labels []string, grid sheet.Grid, opts sheet.Options) ([][]byte, error) {
	pages := grid.Sheets(req.Quantity)
	sheets := make([][]byte, 0, pages)
	opts.SheetCount = pages

	if len(labels) == 1 {
		remaining := req.Quantity
		for page := 1; page <= pages; page++ {
			opts.SheetIndex = page
			count := min(remaining, grid.PerSheet)
			var (
				svg []byte
				err error
			)
			if req.Mode == ModePreview {
				svg, err = r.Composer.ComposePreview(labels[0], count, opts)
			} else {
				svg, err = r.Composer.ComposeInstanced(labels[0], count, opts)
			}
			if err != nil {
				return nil, err
			}
			sheets = append(sheets, svg)
			remaining -= count
		}
		return sheets, nil
	}

	for page := 1; page <= pages; page++ {
		opts.SheetIndex = page
		lo := (page - 1) * grid.PerSheet
		hi := min(lo+grid.PerSheet, len(labels))
		svg, err := r.Composer.ComposeUnique(labels[lo:hi], opts)
		if err != nil {
			return nil, err
		}
		sheets = append(sheets, svg)
	}
	return sheets, nil
}

// footerProduct resolves the entity display code for the footer. Preview
// mode never touches entity lookups.
func (r *Runner) footerProduct(ctx context.Context, req Request) string {
	if req.Mode == ModePreview || req.EntityType == "" {
		return ""
	}
	entity, err := r.Entities.Entity(ctx, req.EntityType, req.EntityID)
	if err != nil {
		return ""
	}
	return entity.DisplayCode
}

// marks reports which mark kinds remain after carrier filtering.
func marks(elements []label.Element) (hasQR, hasBarcode bool) {
	for _, e := range elements {
		switch e.Kind {
		case label.KindQR:
			hasQR = true
		case label.KindBarcode:
			hasBarcode = true
		}
	}
	return hasQR, hasBarcode
}

// tokenURL builds the scan target for a minted token.
func tokenURL(baseURL, token string) string {
	return strings.TrimSuffix(baseURL, "/") + "/qr/" + token
}
