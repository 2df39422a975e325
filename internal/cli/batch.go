package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/labelpress/labelpress/pkg/pipeline"
	"github.com/labelpress/labelpress/pkg/render"
)

// batchOpts holds the command-line flags for the batch command.
type batchOpts struct {
	renderInputs
	tokens  int
	profile string
	note    string
	output  string
	dpi     int
	plain   bool
}

// newBatchCmd creates the batch command: mint a large token batch and
// write the composed sheets as a single multi-page PDF.
func newBatchCmd() *cobra.Command {
	var opts batchOpts

	cmd := &cobra.Command{
		Use:   "batch [template.svg]",
		Short: "Mint a token batch and render a multi-page print run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.templatePath = args[0]
			return runBatch(cmd.Context(), &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output PDF file (default: derived from template name)")
	cmd.Flags().IntVarP(&opts.tokens, "tokens", "n", 100, "number of tokens to mint")
	cmd.Flags().StringVarP(&opts.profile, "profile", "p", "letter", "print profile name")
	cmd.Flags().StringVar(&opts.note, "note", "", "free-text note for the sheet footer")
	cmd.Flags().StringVar(&opts.elementsPath, "elements", "", "saved element array (JSON file)")
	cmd.Flags().Float64Var(&opts.widthIn, "width", 0, "physical width override in inches")
	cmd.Flags().Float64Var(&opts.heightIn, "height", 0, "physical height override in inches")
	cmd.Flags().StringVar(&opts.displayCode, "display-code", "", "entity display code for the footer")
	cmd.Flags().StringVar(&opts.barcodeValue, "barcode-value", "", "EAN-13 value for barcode elements")
	cmd.Flags().StringVar(&opts.baseURL, "base-url", "", "base URL for token scan targets")
	cmd.Flags().StringVar(&opts.configPath, "config", "", "TOML configuration file")
	cmd.Flags().IntVar(&opts.dpi, "dpi", render.PrintDPI, "raster density for the PDF")
	cmd.Flags().BoolVar(&opts.plain, "plain", false, "disable the progress display")

	return cmd
}

// =============================================================================
// BatchModel - Progress display for long-running print runs
// =============================================================================

// batchStageMsg advances the progress display to the named stage.
type batchStageMsg struct {
	stage  int
	detail string
}

// batchDoneMsg ends the run, carrying the outcome.
type batchDoneMsg struct {
	out string
	err error
}

type batchTickMsg time.Time

var batchStages = []string{
	"Minting tokens",
	"Rendering labels",
	"Composing sheets",
	"Converting to PDF",
}

// BatchModel is the bubbletea model for batch progress.
type BatchModel struct {
	Stage   int
	Detail  string
	Frame   int
	Done    bool
	Err     error
	Outfile string
}

func (m BatchModel) Init() tea.Cmd {
	return batchTick()
}

func batchTick() tea.Cmd {
	return tea.Tick(80*time.Millisecond, func(t time.Time) tea.Msg {
		return batchTickMsg(t)
	})
}

func (m BatchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.Err = context.Canceled
			m.Done = true
			return m, tea.Quit
		}
	case batchTickMsg:
		m.Frame++
		return m, batchTick()
	case batchStageMsg:
		m.Stage = msg.stage
		m.Detail = msg.detail
	case batchDoneMsg:
		m.Done = true
		m.Err = msg.err
		m.Outfile = msg.out
		return m, tea.Quit
	}
	return m, nil
}

func (m BatchModel) View() string {
	if m.Done {
		return ""
	}

	var b strings.Builder
	b.WriteString(StyleTitle.Render("Print run"))
	b.WriteString("\n\n")

	for i, stage := range batchStages {
		switch {
		case i < m.Stage:
			b.WriteString(styleIconSuccess.Render(iconSuccess))
			b.WriteString(" " + StyleDim.Render(stage))
		case i == m.Stage:
			b.WriteString(styleIconSpinner.Render(spinnerFrames[m.Frame%len(spinnerFrames)]))
			b.WriteString(" " + StyleValue.Render(stage))
			if m.Detail != "" {
				b.WriteString(StyleDim.Render(" " + m.Detail))
			}
		default:
			b.WriteString("  " + StyleDim.Render(stage))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func runBatch(ctx context.Context, opts *batchOpts) error {
	logger := loggerFromContext(ctx)

	runner, err := buildRunner(opts.renderInputs)
	if err != nil {
		return err
	}
	out := outputPath(opts.output, opts.templatePath, "-batch", formatPDF)

	work := func(report func(stage int, detail string)) (string, error) {
		report(0, fmt.Sprintf("%d tokens", opts.tokens))
		res, err := runner.RenderSheets(ctx, pipeline.Request{
			TemplateID: cliTemplateID,
			VersionID:  cliVersionID,
			EntityType: cliEntityType,
			EntityID:   cliEntityID,
			Mode:       pipeline.ModeToken,
			Quantity:   opts.tokens,
			Profile:    opts.profile,
			Batch:      true,
			PrintDate:  time.Now(),
			Note:       opts.note,
		})
		if err != nil {
			return "", err
		}

		report(3, fmt.Sprintf("%d pages", len(res.Sheets)))
		data, err := render.ToPDFPages(res.Sheets, opts.dpi)
		if err != nil {
			return "", err
		}
		if err := os.WriteFile(out, data, 0o644); err != nil {
			return "", err
		}
		return out, nil
	}

	if opts.plain {
		prog := newProgress(logger)
		out, err := work(func(stage int, detail string) {
			logger.Info(batchStages[stage], "detail", detail)
		})
		if err != nil {
			return err
		}
		prog.done("Batch rendered")
		printSuccess("Print run complete")
		printFile(out)
		return nil
	}

	p := tea.NewProgram(BatchModel{}, tea.WithContext(ctx))
	go func() {
		out, err := work(func(stage int, detail string) {
			p.Send(batchStageMsg{stage: stage, detail: detail})
		})
		p.Send(batchDoneMsg{out: out, err: err})
	}()

	final, err := p.Run()
	if err != nil {
		return err
	}
	m := final.(BatchModel)
	if m.Err != nil {
		printError("Print run failed")
		return m.Err
	}

	printSuccess("Print run complete")
	printFile(m.Outfile)
	printDetail("%d tokens minted", opts.tokens)
	return nil
}
