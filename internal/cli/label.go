package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/labelpress/labelpress/pkg/pipeline"
	"github.com/labelpress/labelpress/pkg/render"
)

const (
	formatSVG = "svg"
	formatPNG = "png"
	formatPDF = "pdf"
)

// labelOpts holds the command-line flags for the label command.
type labelOpts struct {
	renderInputs
	mode    string
	payload string
	format  string
	output  string
	dpi     int
}

// newLabelCmd creates the label command: render one label from a template
// file plus an optional saved element array.
func newLabelCmd() *cobra.Command {
	var opts labelOpts

	cmd := &cobra.Command{
		Use:   "label [template.svg]",
		Short: "Render a single label",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.templatePath = args[0]
			return runLabel(cmd.Context(), &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default: derived from template name)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", formatSVG, "output format: svg, png, pdf")
	cmd.Flags().StringVarP(&opts.mode, "mode", "m", string(pipeline.ModePreview), "render mode: embedded, token, preview")
	cmd.Flags().StringVar(&opts.payload, "payload", "", "QR payload (embedded mode)")
	cmd.Flags().StringVar(&opts.elementsPath, "elements", "", "saved element array (JSON file)")
	cmd.Flags().Float64Var(&opts.widthIn, "width", 0, "physical width override in inches")
	cmd.Flags().Float64Var(&opts.heightIn, "height", 0, "physical height override in inches")
	cmd.Flags().StringVar(&opts.displayCode, "display-code", "", "entity display code for the footer")
	cmd.Flags().StringVar(&opts.barcodeValue, "barcode-value", "", "EAN-13 value for barcode elements")
	cmd.Flags().StringVar(&opts.baseURL, "base-url", "", "base URL for token scan targets (token mode)")
	cmd.Flags().StringVar(&opts.configPath, "config", "", "TOML configuration file")
	cmd.Flags().IntVar(&opts.dpi, "dpi", render.PrintDPI, "raster density for png/pdf output")

	return cmd
}

func runLabel(ctx context.Context, opts *labelOpts) error {
	logger := loggerFromContext(ctx)
	mode, err := parseMode(opts.mode)
	if err != nil {
		return err
	}

	runner, err := buildRunner(opts.renderInputs)
	if err != nil {
		return err
	}

	prog := newProgress(logger)
	res, err := runner.RenderLabel(ctx, pipeline.Request{
		TemplateID: cliTemplateID,
		VersionID:  cliVersionID,
		EntityType: cliEntityType,
		EntityID:   cliEntityID,
		Mode:       mode,
		Payload:    opts.payload,
	})
	if err != nil {
		return err
	}
	prog.done("Rendered label")

	data := []byte(res.Labels[0])
	switch opts.format {
	case formatSVG:
	case formatPNG:
		data, err = render.ToPNG(data, opts.dpi)
	case formatPDF:
		data, err = render.ToPDF(data, opts.dpi)
	default:
		return fmt.Errorf("unknown format %q (svg, png, pdf)", opts.format)
	}
	if err != nil {
		return err
	}

	out := outputPath(opts.output, opts.templatePath, "-label", opts.format)
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return err
	}

	printSuccess("Label rendered")
	printFile(out)
	if len(res.Tokens) > 0 {
		printDetail("token: %s", res.Tokens[0].Value)
	}
	if mode == pipeline.ModePreview {
		printNextStep("Print-ready output", fmt.Sprintf("labelpress label %s -m embedded --payload <url>", opts.templatePath))
	}
	return nil
}
