package pipeline

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/labelpress/labelpress/pkg/config"
	"github.com/labelpress/labelpress/pkg/errors"
	"github.com/labelpress/labelpress/pkg/mint"
	"github.com/labelpress/labelpress/pkg/render/sheet"
	"github.com/labelpress/labelpress/pkg/store"
)

const testMarkup = `<svg xmlns="http://www.w3.org/2000/svg" width="2in" height="1in" viewBox="0 0 192 96"><rect id="bg" x="0" y="0" width="192" height="96" fill="#fff"/></svg>`

const testElements = `[
  {"id":"qr-1","kind":"QR","placement":{"x":1.3,"y":0.3,"width":0.6,"height":0.6,"rotation":0}},
  {"id":"barcode-1","kind":"BARCODE","placement":{"x":0.1,"y":0.1,"width":1.0,"height":0.45,"rotation":0},
   "barcodeOptions":{"format":"EAN13","barHeight":0.3,"textSize":0.12,"textGap":0.02}}
]`

type fixture struct {
	runner *Runner
	store  *store.MemoryStore
	minter *mint.MemoryMinter
}

func newFixture(t *testing.T, elements string) *fixture {
	t.Helper()

	s := store.NewMemoryStore()
	s.PutTemplate(store.Template{ID: "tpl-1", Name: "Shelf Tag"})
	v := store.Version{ID: "v1", TemplateID: "tpl-1", Label: "rev 3", Markup: testMarkup}
	if elements != "" {
		v.Elements = json.RawMessage(elements)
	}
	if err := s.CreateVersion(context.Background(), v); err != nil {
		t.Fatal(err)
	}
	s.PutAssociation(store.Association{TemplateID: "tpl-1", EntityType: "product", QRCarrier: true, BarcodeCarrier: true})
	s.PutEntity("product", "42", store.Entity{DisplayCode: "P-42", BarcodeValue: "4006381333931"})

	m := mint.NewMemoryMinter()
	cfg := config.Default()
	cfg.BaseURL = "https://labels.example.com"

	return &fixture{
		runner: &Runner{
			Templates: s,
			Entities:  s,
			Minter:    m,
			Composer:  sheet.NewComposer(nil),
			Config:    cfg,
		},
		store:  s,
		minter: m,
	}
}

func baseRequest(mode Mode) Request {
	return Request{
		TemplateID: "tpl-1",
		VersionID:  "v1",
		EntityType: "product",
		EntityID:   "42",
		Mode:       mode,
		Quantity:   1,
		Payload:    "https://labels.example.com/fixed",
		Profile:    "letter",
	}
}

func TestRenderLabelEmbedded(t *testing.T) {
	f := newFixture(t, testElements)

	res, err := f.runner.RenderLabel(context.Background(), baseRequest(ModeEmbedded))
	if err != nil {
		t.Fatalf("RenderLabel: %v", err)
	}
	if len(res.Labels) != 1 {
		t.Fatalf("label count = %d, want 1", len(res.Labels))
	}
	body := res.Labels[0]
	if !strings.Contains(body, `id="bg"`) {
		t.Error("template content altered")
	}
	if strings.Contains(body, "SAMPLE") {
		t.Error("watermark leaked into embedded mode")
	}
	if len(res.Tokens) != 0 || f.minter.Count() != 0 {
		t.Error("embedded mode must not mint tokens")
	}
}

func TestRenderLabelPreview(t *testing.T) {
	f := newFixture(t, testElements)

	res, err := f.runner.RenderLabel(context.Background(), baseRequest(ModePreview))
	if err != nil {
		t.Fatalf("RenderLabel: %v", err)
	}
	if !strings.Contains(res.Labels[0], "SAMPLE") {
		t.Error("preview mode must carry the watermark")
	}
	if f.minter.Count() != 0 {
		t.Error("preview mode must not mint tokens")
	}
}

func TestRenderLabelPreviewSkipsEntityLookup(t *testing.T) {
	f := newFixture(t, testElements)

	// Remove the entity: preview must render anyway.
	req := baseRequest(ModePreview)
	req.EntityID = "no-such-entity"

	if _, err := f.runner.RenderLabel(context.Background(), req); err != nil {
		t.Fatalf("preview should never touch entity lookups: %v", err)
	}
}

func TestRenderLabelToken(t *testing.T) {
	f := newFixture(t, testElements)

	res, err := f.runner.RenderLabel(context.Background(), baseRequest(ModeToken))
	if err != nil {
		t.Fatalf("RenderLabel: %v", err)
	}
	if len(res.Tokens) != 1 {
		t.Fatalf("token count = %d, want 1", len(res.Tokens))
	}
	tok, err := f.minter.Resolve(context.Background(), res.Tokens[0].Value)
	if err != nil {
		t.Fatalf("minted token not persisted: %v", err)
	}
	if tok.EntityKey != "product:42" {
		t.Errorf("EntityKey = %q, want product:42", tok.EntityKey)
	}
}

func TestMissingBarcodeValueMintsNothing(t *testing.T) {
	f := newFixture(t, testElements)
	f.store.PutEntity("product", "77", store.Entity{DisplayCode: "P-77"}) // no barcode value

	req := baseRequest(ModeToken)
	req.EntityID = "77"
	req.Quantity = 25

	_, err := f.runner.RenderSheets(context.Background(), req)
	if err == nil {
		t.Fatal("expected error for missing barcode value")
	}
	if errors.GetCode(err) != errors.ErrCodeInvalidInput {
		t.Errorf("error code = %v, want %v", errors.GetCode(err), errors.ErrCodeInvalidInput)
	}
	if f.minter.Count() != 0 {
		t.Errorf("%d tokens minted for a failed run, want 0", f.minter.Count())
	}
}

func TestCarrierFilterRunsBeforeBarcodeValidation(t *testing.T) {
	f := newFixture(t, testElements)

	// tpl-2 holds the same element array but is not the barcode carrier,
	// and the entity has no barcode value. Filtering must strip the
	// barcode element before the value requirement is checked.
	if err := f.store.CreateVersion(context.Background(), store.Version{
		ID: "v1", TemplateID: "tpl-2", Markup: testMarkup,
		Elements: json.RawMessage(testElements),
	}); err != nil {
		t.Fatal(err)
	}
	f.store.PutAssociation(store.Association{TemplateID: "tpl-2", EntityType: "product"})
	f.store.PutEntity("product", "77", store.Entity{DisplayCode: "P-77"})

	req := baseRequest(ModeToken)
	req.TemplateID = "tpl-2"
	req.EntityID = "77"

	res, err := f.runner.RenderLabel(context.Background(), req)
	if err != nil {
		t.Fatalf("non-carrier template blocked by missing barcode value: %v", err)
	}
	if len(res.Tokens) != 1 {
		t.Errorf("token count = %d, want 1", len(res.Tokens))
	}
}

func TestIncompleteEntityKeyRejected(t *testing.T) {
	f := newFixture(t, testElements)

	req := baseRequest(ModeEmbedded)
	req.EntityID = ""
	_, err := f.runner.RenderLabel(context.Background(), req)
	if errors.GetCode(err) != errors.ErrCodeInvalidInput {
		t.Errorf("error code = %v, want %v", errors.GetCode(err), errors.ErrCodeInvalidInput)
	}
}

func TestQuantityOverLimitRejected(t *testing.T) {
	f := newFixture(t, testElements)

	req := baseRequest(ModePreview)
	req.Quantity = 1001

	_, err := f.runner.RenderSheets(context.Background(), req)
	if err == nil {
		t.Fatal("expected rejection for 1001 labels")
	}
	if errors.GetCode(err) != errors.ErrCodeValidation {
		t.Errorf("error code = %v, want %v", errors.GetCode(err), errors.ErrCodeValidation)
	}
}

func TestBatchCeilings(t *testing.T) {
	f := newFixture(t, testElements)

	t.Run("token ceiling", func(t *testing.T) {
		req := baseRequest(ModeToken)
		req.Batch = true
		req.Quantity = 10001

		_, err := f.runner.RenderSheets(context.Background(), req)
		if errors.GetCode(err) != errors.ErrCodeValidation {
			t.Errorf("error code = %v, want %v", errors.GetCode(err), errors.ErrCodeValidation)
		}
		if f.minter.Count() != 0 {
			t.Errorf("tokens minted despite ceiling: %d", f.minter.Count())
		}
	})

	t.Run("page ceiling", func(t *testing.T) {
		cfg := f.runner.Config
		cfg.Limits.MaxPages = 2
		runner := *f.runner
		runner.Config = cfg

		req := baseRequest(ModeToken)
		req.Batch = true
		req.Quantity = 200 // 40 per sheet, 5 pages

		_, err := runner.RenderSheets(context.Background(), req)
		if errors.GetCode(err) != errors.ErrCodeValidation {
			t.Errorf("error code = %v, want %v", errors.GetCode(err), errors.ErrCodeValidation)
		}
	})
}

func TestRenderSheetsInstanced(t *testing.T) {
	f := newFixture(t, testElements)

	req := baseRequest(ModeEmbedded)
	req.Quantity = 50 // 40 per sheet, 2 pages

	res, err := f.runner.RenderSheets(context.Background(), req)
	if err != nil {
		t.Fatalf("RenderSheets: %v", err)
	}
	if res.Grid.PerSheet != 40 {
		t.Errorf("PerSheet = %d, want 40", res.Grid.PerSheet)
	}
	if len(res.Sheets) != 2 {
		t.Fatalf("sheet count = %d, want 2", len(res.Sheets))
	}
	if got := strings.Count(string(res.Sheets[0]), "<use "); got != 40 {
		t.Errorf("first sheet use count = %d, want 40", got)
	}
	if got := strings.Count(string(res.Sheets[1]), "<use "); got != 10 {
		t.Errorf("second sheet use count = %d, want 10", got)
	}
}

func TestRenderSheetsTokenUnique(t *testing.T) {
	f := newFixture(t, testElements)

	req := baseRequest(ModeToken)
	req.Quantity = 45

	res, err := f.runner.RenderSheets(context.Background(), req)
	if err != nil {
		t.Fatalf("RenderSheets: %v", err)
	}
	if len(res.Tokens) != 45 || len(res.Labels) != 45 {
		t.Fatalf("tokens/labels = %d/%d, want 45/45", len(res.Tokens), len(res.Labels))
	}
	if len(res.Sheets) != 2 {
		t.Fatalf("sheet count = %d, want 2", len(res.Sheets))
	}
	// Unique composition embeds whole bodies, never shared references.
	for i, s := range res.Sheets {
		if strings.Contains(string(s), "<use ") {
			t.Errorf("sheet %d uses shared references in token mode", i)
		}
	}
}

func TestRenderIdempotence(t *testing.T) {
	f := newFixture(t, testElements)
	ctx := context.Background()

	for _, mode := range []Mode{ModeEmbedded, ModePreview} {
		req := baseRequest(mode)
		req.Quantity = 10

		a, err := f.runner.RenderSheets(ctx, req)
		if err != nil {
			t.Fatalf("%s first render: %v", mode, err)
		}
		b, err := f.runner.RenderSheets(ctx, req)
		if err != nil {
			t.Fatalf("%s second render: %v", mode, err)
		}
		if string(a.Sheets[0]) != string(b.Sheets[0]) {
			t.Errorf("%s mode output not byte-identical across runs", mode)
		}
	}
}

func TestTokenRendersDiffer(t *testing.T) {
	f := newFixture(t, testElements)
	ctx := context.Background()

	req := baseRequest(ModeToken)
	a, err := f.runner.RenderLabel(ctx, req)
	if err != nil {
		t.Fatal(err)
	}
	b, err := f.runner.RenderLabel(ctx, req)
	if err != nil {
		t.Fatal(err)
	}
	if a.Labels[0] == b.Labels[0] {
		t.Error("token mode produced identical bodies for distinct tokens")
	}
}

func TestDefaultElementSynthesis(t *testing.T) {
	f := newFixture(t, "") // no stored elements

	res, err := f.runner.RenderLabel(context.Background(), baseRequest(ModeEmbedded))
	if err != nil {
		t.Fatalf("RenderLabel: %v", err)
	}
	// The synthesized default QR injects a group after the template body.
	if !strings.Contains(res.Labels[0], "<g") {
		t.Error("no injected content for synthesized default element")
	}
}

func TestMalformedElementsTreatedAsAbsent(t *testing.T) {
	f := newFixture(t, `{"not":"an array"`)

	if _, err := f.runner.RenderLabel(context.Background(), baseRequest(ModeEmbedded)); err != nil {
		t.Fatalf("malformed stored elements should fall back to default: %v", err)
	}
}

func TestTokenURL(t *testing.T) {
	tests := []struct {
		base  string
		token string
		want  string
	}{
		{"https://x.example.com", "abc", "https://x.example.com/qr/abc"},
		{"https://x.example.com/", "abc", "https://x.example.com/qr/abc"},
	}
	for _, tt := range tests {
		if got := tokenURL(tt.base, tt.token); got != tt.want {
			t.Errorf("tokenURL(%q, %q) = %q, want %q", tt.base, tt.token, got, tt.want)
		}
	}
}
