package cli

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/labelpress/labelpress/pkg/config"
	"github.com/labelpress/labelpress/pkg/errors"
	"github.com/labelpress/labelpress/pkg/mint"
	"github.com/labelpress/labelpress/pkg/pipeline"
	"github.com/labelpress/labelpress/pkg/render/sheet"
	"github.com/labelpress/labelpress/pkg/store"
)

// Fixed identifiers for the single-template store a file-based command
// builds around its input.
const (
	cliTemplateID = "template"
	cliVersionID  = "current"
	cliEntityType = "item"
	cliEntityID   = "1"
)

// renderInputs collects the file-based inputs shared by the label, sheet
// and batch commands.
type renderInputs struct {
	templatePath string
	elementsPath string  // optional saved element array (JSON)
	widthIn      float64 // optional physical size override
	heightIn     float64
	displayCode  string
	barcodeValue string
	configPath   string
	baseURL      string
}

// buildRunner loads the template and elements from disk into an in-memory
// store and wires a pipeline runner around it.
func buildRunner(in renderInputs) (*pipeline.Runner, error) {
	markup, err := os.ReadFile(in.templatePath)
	if err != nil {
		return nil, err
	}

	v := store.Version{
		ID:         cliVersionID,
		TemplateID: cliTemplateID,
		Label:      strings.TrimSuffix(filepath.Base(in.templatePath), filepath.Ext(in.templatePath)),
		Markup:     string(markup),
		WidthIn:    in.widthIn,
		HeightIn:   in.heightIn,
	}
	if in.elementsPath != "" {
		raw, err := os.ReadFile(in.elementsPath)
		if err != nil {
			return nil, err
		}
		v.Elements = json.RawMessage(raw)
	}

	s := store.NewMemoryStore()
	s.PutTemplate(store.Template{ID: cliTemplateID, Name: v.Label})
	if err := s.CreateVersion(context.Background(), v); err != nil {
		return nil, err
	}
	s.PutAssociation(store.Association{
		TemplateID: cliTemplateID,
		EntityType: cliEntityType,
		QRCarrier:  true, BarcodeCarrier: true,
	})
	s.PutEntity(cliEntityType, cliEntityID, store.Entity{
		DisplayCode:  in.displayCode,
		BarcodeValue: in.barcodeValue,
	})

	cfg := config.Default()
	if in.configPath != "" {
		cfg, err = config.Load(in.configPath)
		if err != nil {
			return nil, err
		}
	}
	if in.baseURL != "" {
		cfg.BaseURL = in.baseURL
	}

	return &pipeline.Runner{
		Templates: s,
		Entities:  s,
		Minter:    mint.NewMemoryMinter(),
		Composer:  sheet.NewComposer(nil),
		Config:    cfg,
	}, nil
}

// parseMode validates a --mode flag value.
func parseMode(s string) (pipeline.Mode, error) {
	switch pipeline.Mode(s) {
	case pipeline.ModeEmbedded, pipeline.ModeToken, pipeline.ModePreview:
		return pipeline.Mode(s), nil
	default:
		return "", errors.New(errors.ErrCodeInvalidInput,
			"unknown mode %q (embedded, token, preview)", s)
	}
}

// outputPath derives the output file name from the input when -o is unset.
func outputPath(flag, templatePath, suffix, ext string) string {
	if flag != "" {
		return flag
	}
	base := strings.TrimSuffix(templatePath, filepath.Ext(templatePath))
	return base + suffix + "." + ext
}

// trimExt strips the file extension from a path, if any.
func trimExt(path string) string {
	return strings.TrimSuffix(path, filepath.Ext(path))
}
