package cli

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/yaklabco/rtn/internal/logging"
	"github.com/yaklabco/rtn/pkg/output"
	"github.com/yaklabco/rtn/pkg/share"
)

type exportFlags struct {
	share  shareFlags
	output string
	force  bool
}

func newExportCommand() *cobra.Command {
	flags := &exportFlags{}

	cmd := &cobra.Command{
		Use:   "export [file]",
		Short: "Save an outline as a .rtn document",
		Long: `Save an outline as a .rtn document: a small JSON file holding the share
link of the outline and instructions to open it without rtn.

The document is named after the first line of the outline unless --output is
given.

Examples:
  rtn export notes.txt
  rtn export -o plan.rtn --base https://rtn.example/ notes.txt`,
		Args: args(cobra.MaximumNArgs(1)),
		RunE: func(cmd *cobra.Command, argv []string) error {
			return runExport(cmd, argv, flags)
		},
	}

	addBaseFlags(cmd, &flags.share)
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "document path (default: <title>.rtn)")
	cmd.Flags().BoolVarP(&flags.force, "force", "f", false, "overwrite an existing document")

	return cmd
}

func runExport(cmd *cobra.Command, argv []string, flags *exportFlags) error {
	logger := logging.NewInteractive()
	ctx := commandContext(cmd)

	cfg, err := loadConfig(cmd, shareOverride(cmd, &flags.share))
	if err != nil {
		return err
	}

	_, text, err := readInput(cmd, argv)
	if err != nil {
		return err
	}

	link, err := pushLink(cfg, text)
	if err != nil {
		return err
	}

	doc := share.NewDocument(link, text, time.Now())

	path := flags.output
	if path == "" {
		path = share.FileName(doc.Title)
	}

	if _, err := os.Stat(path); err == nil {
		if !flags.force {
			return usageError(fmt.Errorf("file %q already exists; use --force to overwrite", path))
		}
		logger.Warn("overwriting existing file", logging.FieldPath, path)
	}

	if err := share.WriteDocument(ctx, path, doc); err != nil {
		return withCode(ExitIOError, fmt.Errorf("write document: %w", err))
	}

	logger.Info("exported outline", logging.FieldPath, path, logging.FieldLength, len(link))
	return nil
}

type openFlags struct {
	format  string
	outline bool
	output  string
}

func newOpenCommand() *cobra.Command {
	flags := &openFlags{}

	cmd := &cobra.Command{
		Use:   "open <file.rtn>",
		Short: "Render the outline saved in a .rtn document",
		Long: `Read a .rtn document, decode its link and render the outline.

Examples:
  rtn open plan.rtn
  rtn open --outline plan.rtn > notes.txt`,
		Args: args(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, argv []string) error {
			return runOpen(cmd, argv, flags)
		},
	}

	cmd.Flags().StringVar(&flags.format, "format", "text", "output format: text, color, json")
	cmd.Flags().BoolVar(&flags.outline, "outline", false, "print the tab-indented outline instead of the diagram")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "write to a file instead of standard output")

	return cmd
}

func runOpen(cmd *cobra.Command, argv []string, flags *openFlags) error {
	format, err := parseDiagramFormat(flags.format)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(cmd, nil)
	if err != nil {
		return err
	}

	doc, err := share.ReadDocument(commandContext(cmd), argv[0])
	if err != nil {
		return withCode(ExitIOError, err)
	}

	logging.Default().Debug("opened document",
		logging.FieldPath, argv[0],
		"title", doc.Title,
		"created", doc.Created,
	)

	pulled, err := cfg.Linker().Pull(doc.Link)
	if err != nil {
		return fmt.Errorf("decode %s: %w", argv[0], err)
	}
	text := share.Outline(pulled, cfg.Unit())

	if flags.outline {
		return emit(cmd, flags.output, func(w io.Writer) error {
			return writeText(w, text)
		})
	}

	diagram := output.NewDiagram(argv[0], text, cfg.RenderOptions(), cfg.Resolver())
	return emit(cmd, flags.output, func(w io.Writer) error {
		return output.WriteDiagram(output.Options{
			Writer: w,
			Format: format,
			Color:  cfg.Color,
			Unit:   cfg.Unit(),
		}, diagram)
	})
}
