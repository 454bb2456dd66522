package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/yaklabco/rtn/internal/logging"
	"github.com/yaklabco/rtn/pkg/config"
	"github.com/yaklabco/rtn/pkg/output"
)

type renderFlags struct {
	format string
	width  string
	marked bool
	output string
}

func newRenderCommand() *cobra.Command {
	flags := &renderFlags{}

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Render an outline as a tree diagram",
		Long: `Render a tab-indented outline as a tree diagram.

The outline is read from the file argument, or from standard input when no
file or "-" is given.

Examples:
  rtn render notes.txt                 Draw the diagram
  rtn render --format color notes.txt  Highlight connectors and links
  rtn render --format json notes.txt   Emit classified cells as JSON
  rtn render --width wide --marked -   Wide, unambiguous glyphs from stdin`,
		Args: args(cobra.MaximumNArgs(1)),
		RunE: func(cmd *cobra.Command, argv []string) error {
			return runRender(cmd, argv, flags)
		},
	}

	addDiagramFlags(cmd, &flags.format, &flags.width, &flags.marked)
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "write to a file instead of standard output")

	return cmd
}

func addDiagramFlags(cmd *cobra.Command, format, width *string, marked *bool) {
	cmd.Flags().StringVar(format, "format", "text", "output format: text, color, json")
	cmd.Flags().StringVar(width, "width", "", "glyph width: narrow, wide (default from config)")
	cmd.Flags().BoolVar(marked, "marked", false, "follow connectors with a zero-width space")
}

// diagramOverride turns the diagram flags the user set into a config layer.
func diagramOverride(cmd *cobra.Command, width string, marked bool) *config.Config {
	override := &config.Config{}
	if cmd.Flags().Changed("width") {
		override.Glyphs.Width = width
	}
	if cmd.Flags().Changed("marked") {
		override.Glyphs.Marked = config.Bool(marked)
	}
	return override
}

func runRender(cmd *cobra.Command, argv []string, flags *renderFlags) error {
	format, err := parseDiagramFormat(flags.format)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(cmd, diagramOverride(cmd, flags.width, flags.marked))
	if err != nil {
		return err
	}

	path, text, err := readInput(cmd, argv)
	if err != nil {
		return err
	}

	diagram := output.NewDiagram(path, text, cfg.RenderOptions(), cfg.Resolver())
	logDiagram(diagram)

	return emit(cmd, flags.output, func(w io.Writer) error {
		return output.WriteDiagram(output.Options{
			Writer: w,
			Format: format,
			Color:  cfg.Color,
			Unit:   cfg.Unit(),
		}, diagram)
	})
}

func parseDiagramFormat(name string) (output.Format, error) {
	format, err := output.ParseFormat(name)
	if err != nil {
		return "", usageError(err)
	}
	if !format.IsDiagramFormat() {
		return "", usageError(fmt.Errorf("format %q cannot show a diagram; use text, color or json", name))
	}
	return format, nil
}

// logDiagram reports structural defects and broken links at debug level.
func logDiagram(d output.Diagram) {
	logger := logging.Default()

	for _, pos := range d.Result.Grid.Defects {
		logger.Debug("structural defect drawn as gap",
			logging.FieldPath, d.Path,
			logging.FieldRow, pos.Row+1,
			logging.FieldCol, pos.Col+1,
		)
	}
	for _, link := range d.Links {
		if !link.Valid {
			logger.Debug("broken link",
				logging.FieldPath, d.Path,
				logging.FieldAddress, link.Address,
				logging.FieldError, link.Reason,
			)
		}
	}
}
