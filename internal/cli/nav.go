package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/yaklabco/rtn/internal/logging"
	"github.com/yaklabco/rtn/pkg/outline"
)

type navFlags struct {
	from     int
	validate bool
	format   string
}

// navJSON is the machine-readable result of a resolution. Line numbers are
// 1-based like every line number the CLI prints.
type navJSON struct {
	Address              string `json:"address"`
	From                 int    `json:"from"`
	Line                 int    `json:"line"`
	LeadingWhitespaceLen int    `json:"leadingWhitespaceLen,omitempty"`
	ContentLen           int    `json:"contentLen,omitempty"`
	Offset               int    `json:"offset,omitempty"`
	Content              string `json:"content,omitempty"`
	Validated            bool   `json:"validated,omitempty"`
}

func newNavCommand() *cobra.Command {
	flags := &navFlags{}

	cmd := &cobra.Command{
		Use:   "nav <file> <address>",
		Short: "Resolve a DirNav address",
		Long: `Resolve a DirNav address against an outline and print the target line.

Relative addresses (RTN./..., RTN~/...) start from the line given by
--from. The exit code is 1 when the address does not resolve.

Examples:
  rtn nav notes.txt 'RTN/[0]/[1]/'
  rtn nav notes.txt 'DNL./../[2]/' --from 12
  rtn nav notes.txt 'DL/[intro]/' --validate`,
		Args: args(cobra.ExactArgs(2)),
		RunE: func(cmd *cobra.Command, argv []string) error {
			return runNav(cmd, argv, flags)
		},
	}

	cmd.Flags().IntVar(&flags.from, "from", 1, "line number the address is resolved from")
	cmd.Flags().BoolVar(&flags.validate, "validate", false, "only check that the address resolves")
	cmd.Flags().StringVar(&flags.format, "format", "text", "output format: text, json")

	return cmd
}

func runNav(cmd *cobra.Command, argv []string, flags *navFlags) error {
	if flags.format != "text" && flags.format != "json" {
		return usageError(fmt.Errorf("invalid format %q: must be text or json", flags.format))
	}
	if flags.from < 1 {
		return usageError(fmt.Errorf("--from must be a line number, got %d", flags.from))
	}

	cfg, err := loadConfig(cmd, nil)
	if err != nil {
		return err
	}

	_, text, err := readInput(cmd, argv[:1])
	if err != nil {
		return err
	}

	address := argv[1]
	lines := outline.Split(text)

	result, err := cfg.Resolver().Resolve(lines, address, flags.from-1, flags.validate)
	if err != nil {
		logging.Default().Debug("resolution failed",
			logging.FieldAddress, address,
			logging.FieldFrom, flags.from,
			logging.FieldError, err,
		)
		return fmt.Errorf("resolve %s: %w", address, err)
	}

	out := navJSON{
		Address:   address,
		From:      flags.from,
		Line:      result.LineIndex + 1,
		Validated: result.Validated,
	}
	if !result.Validated {
		out.LeadingWhitespaceLen = result.LeadingWhitespaceLen
		out.ContentLen = result.ContentLen
		out.Offset = result.Offset
		out.Content = outline.Content(lines[result.LineIndex], cfg.Unit())
	}

	w := cmd.OutOrStdout()
	if flags.format == "json" {
		return writeJSON(w, out)
	}

	if out.Validated {
		_, err = fmt.Fprintf(w, "%s resolves to line %d\n", address, out.Line)
		return err
	}
	_, err = fmt.Fprintf(w, "%d:%d  %s\n", out.Line, out.LeadingWhitespaceLen+1, out.Content)
	return err
}

func writeJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(v); err != nil {
		return errors.Join(errors.New("encode JSON"), err)
	}
	return nil
}
