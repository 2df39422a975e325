package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/labelpress/labelpress/pkg/pipeline"
	"github.com/labelpress/labelpress/pkg/render"
)

// sheetOpts holds the command-line flags for the sheet command.
type sheetOpts struct {
	renderInputs
	mode     string
	payload  string
	quantity int
	profile  string
	note     string
	format   string
	output   string
	dpi      int
}

// newSheetCmd creates the sheet command: tile N copies of a label onto
// print sheets and write them as SVG pages or a single PDF.
func newSheetCmd() *cobra.Command {
	var opts sheetOpts

	cmd := &cobra.Command{
		Use:   "sheet [template.svg]",
		Short: "Compose labels onto print sheets",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.templatePath = args[0]
			return runSheet(cmd.Context(), &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file or prefix (default: derived from template name)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", formatPDF, "output format: svg, pdf")
	cmd.Flags().StringVarP(&opts.mode, "mode", "m", string(pipeline.ModePreview), "render mode: embedded, token, preview")
	cmd.Flags().IntVarP(&opts.quantity, "quantity", "n", 1, "number of labels to place")
	cmd.Flags().StringVarP(&opts.profile, "profile", "p", "letter", "print profile name")
	cmd.Flags().StringVar(&opts.payload, "payload", "", "QR payload (embedded mode)")
	cmd.Flags().StringVar(&opts.note, "note", "", "free-text note for the sheet footer")
	cmd.Flags().StringVar(&opts.elementsPath, "elements", "", "saved element array (JSON file)")
	cmd.Flags().Float64Var(&opts.widthIn, "width", 0, "physical width override in inches")
	cmd.Flags().Float64Var(&opts.heightIn, "height", 0, "physical height override in inches")
	cmd.Flags().StringVar(&opts.displayCode, "display-code", "", "entity display code for the footer")
	cmd.Flags().StringVar(&opts.barcodeValue, "barcode-value", "", "EAN-13 value for barcode elements")
	cmd.Flags().StringVar(&opts.baseURL, "base-url", "", "base URL for token scan targets (token mode)")
	cmd.Flags().StringVar(&opts.configPath, "config", "", "TOML configuration file")
	cmd.Flags().IntVar(&opts.dpi, "dpi", render.PrintDPI, "raster density for pdf output")

	return cmd
}

func runSheet(ctx context.Context, opts *sheetOpts) error {
	logger := loggerFromContext(ctx)
	mode, err := parseMode(opts.mode)
	if err != nil {
		return err
	}
	if opts.format != formatSVG && opts.format != formatPDF {
		return fmt.Errorf("unknown format %q (svg, pdf)", opts.format)
	}

	runner, err := buildRunner(opts.renderInputs)
	if err != nil {
		return err
	}

	spinner := newSpinnerWithContext(ctx, "Composing sheets")
	spinner.Start()
	res, err := runner.RenderSheets(ctx, pipeline.Request{
		TemplateID: cliTemplateID,
		VersionID:  cliVersionID,
		EntityType: cliEntityType,
		EntityID:   cliEntityID,
		Mode:       mode,
		Payload:    opts.payload,
		Quantity:   opts.quantity,
		Profile:    opts.profile,
		PrintDate:  time.Now(),
		Note:       opts.note,
	})
	if err != nil {
		spinner.StopWithError("Composition failed")
		return err
	}
	spinner.StopWithSuccess(fmt.Sprintf("Composed %d sheet(s)", len(res.Sheets)))

	logger.Debug("grid computed",
		"columns", res.Grid.Columns,
		"rows", res.Grid.Rows,
		"perSheet", res.Grid.PerSheet,
		"rotated", res.Grid.Rotated)

	switch opts.format {
	case formatSVG:
		for i, sheet := range res.Sheets {
			out := outputPath(opts.output, opts.templatePath, fmt.Sprintf("-sheet-%03d", i+1), formatSVG)
			if opts.output != "" && len(res.Sheets) > 1 {
				out = fmt.Sprintf("%s-%03d.svg", trimExt(opts.output), i+1)
			}
			if err := os.WriteFile(out, sheet, 0o644); err != nil {
				return err
			}
			printFile(out)
		}
	case formatPDF:
		data, err := render.ToPDFPages(res.Sheets, opts.dpi)
		if err != nil {
			return err
		}
		out := outputPath(opts.output, opts.templatePath, "-sheets", formatPDF)
		if err := os.WriteFile(out, data, 0o644); err != nil {
			return err
		}
		printFile(out)
	}

	printSuccess("Sheets composed")
	printKeyValue("grid", fmt.Sprintf("%d x %d (%d per sheet)", res.Grid.Columns, res.Grid.Rows, res.Grid.PerSheet))
	if res.Grid.Rotated {
		printDetail("labels rotated 90 degrees for better fit")
	}
	if len(res.Tokens) > 0 {
		printKeyValue("tokens", fmt.Sprintf("%d minted", len(res.Tokens)))
	}
	return nil
}
