package cli

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/yaklabco/rtn/pkg/tree"
)

type unformatFlags struct {
	shrink bool
	output string
}

func newUnformatCommand() *cobra.Command {
	flags := &unformatFlags{}

	cmd := &cobra.Command{
		Use:   "unformat [file]",
		Short: "Turn a rendered diagram back into a tab-indented outline",
		Long: `Replace the connector glyphs at the start of every line with
indentation units. Narrow, wide and marked glyph sets are detected
automatically.

With --shrink, wide glyphs are rewritten into the narrow form instead and the
diagram is kept.

Examples:
  rtn unformat diagram.txt > notes.txt
  pbpaste | rtn unformat
  rtn unformat --shrink wide.txt`,
		Args: args(cobra.MaximumNArgs(1)),
		RunE: func(cmd *cobra.Command, argv []string) error {
			return runUnformat(cmd, argv, flags)
		},
	}

	cmd.Flags().BoolVar(&flags.shrink, "shrink", false, "rewrite wide glyphs as narrow ones")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "write to a file instead of standard output")

	return cmd
}

func runUnformat(cmd *cobra.Command, argv []string, flags *unformatFlags) error {
	cfg, err := loadConfig(cmd, nil)
	if err != nil {
		return err
	}

	_, text, err := readInput(cmd, argv)
	if err != nil {
		return err
	}

	var result string
	if flags.shrink {
		result = tree.Shrink(text)
	} else {
		result = tree.UnformatAuto(text, cfg.Unit())
	}

	return emit(cmd, flags.output, func(w io.Writer) error {
		return writeText(w, result)
	})
}
