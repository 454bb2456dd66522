package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/yaklabco/rtn/internal/logging"
	"github.com/yaklabco/rtn/pkg/config"
	"github.com/yaklabco/rtn/pkg/importer"
	"github.com/yaklabco/rtn/pkg/outline"
)

type importFlags struct {
	flavor     string
	bullets    bool
	codeLabels bool
	output     string
}

func newImportCommand() *cobra.Command {
	flags := &importFlags{}

	cmd := &cobra.Command{
		Use:   "import [file.md]",
		Short: "Convert Markdown headings and lists into an outline",
		Long: `Convert the headings and nested lists of a Markdown document into a
tab-indented outline. A level 1 heading becomes a top level line; list items
nest under the enclosing heading or item.

Examples:
  rtn import README.md > notes.txt
  rtn import --flavor commonmark --bullets plan.md
  rtn import --code-labels design.md`,
		Args: args(cobra.MaximumNArgs(1)),
		RunE: func(cmd *cobra.Command, argv []string) error {
			return runImport(cmd, argv, flags)
		},
	}

	cmd.Flags().StringVar(&flags.flavor, "flavor", "", "Markdown flavor: gfm, commonmark (default from config)")
	cmd.Flags().BoolVar(&flags.bullets, "bullets", false, `keep a "- " prefix on unordered list items`)
	cmd.Flags().BoolVar(&flags.codeLabels, "code-labels", false, "nest code blocks under a line naming their language")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "write to a file instead of standard output")

	return cmd
}

func runImport(cmd *cobra.Command, argv []string, flags *importFlags) error {
	override := &config.Config{}
	if cmd.Flags().Changed("flavor") {
		override.Import.Flavor = flags.flavor
	}
	if cmd.Flags().Changed("bullets") {
		override.Import.Bullets = config.Bool(flags.bullets)
	}
	if cmd.Flags().Changed("code-labels") {
		override.Import.CodeLabels = config.Bool(flags.codeLabels)
	}

	cfg, err := loadConfig(cmd, override)
	if err != nil {
		return err
	}

	path, source, err := readInput(cmd, argv)
	if err != nil {
		return err
	}

	text, err := importer.New(cfg.ImporterOptions()).Convert(commandContext(cmd), []byte(source))
	if err != nil {
		return fmt.Errorf("import %s: %w", path, err)
	}

	logging.Default().Debug("imported markdown",
		logging.FieldInput, path,
		logging.FieldLines, len(outline.Split(text)),
		"flavor", cfg.Import.Flavor,
	)

	return emit(cmd, flags.output, func(w io.Writer) error {
		return writeText(w, text)
	})
}
