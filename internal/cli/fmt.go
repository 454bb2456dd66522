package cli

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/yaklabco/rtn/internal/logging"
	"github.com/yaklabco/rtn/pkg/check"
	"github.com/yaklabco/rtn/pkg/config"
	"github.com/yaklabco/rtn/pkg/output"
	"github.com/yaklabco/rtn/pkg/runner"
)

type fmtFlags struct {
	walk     walkFlags
	write    bool
	diff     bool
	noBackup bool
}

func newFmtCommand() *cobra.Command {
	flags := &fmtFlags{}

	cmd := &cobra.Command{
		Use:   "fmt [paths...]",
		Short: "Rewrite outlines in canonical form",
		Long: `Rewrite outlines in canonical form: LF line endings, tab indentation,
pasted diagram glyphs turned back into tabs, no trailing whitespace and one
final newline.

Without --write, the files that need formatting are listed and the exit code
is 1 when there are any. "-" formats standard input to standard output.

Examples:
  rtn fmt                  List files that need formatting
  rtn fmt --diff notes/    Show the changes
  rtn fmt --write          Rewrite files in place, keeping backups
  rtn fmt - < pasted.txt   Format standard input`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, argv []string) error {
			return runFmt(cmd, argv, flags)
		},
	}

	addWalkFlags(cmd, &flags.walk)
	cmd.Flags().BoolVarP(&flags.write, "write", "w", false, "rewrite files in place")
	cmd.Flags().BoolVarP(&flags.diff, "diff", "d", false, "show the changes as a unified diff")
	cmd.Flags().BoolVar(&flags.noBackup, "no-backup", false, "do not keep a backup of rewritten files")

	return cmd
}

func runFmt(cmd *cobra.Command, argv []string, flags *fmtFlags) error {
	if flags.write && flags.diff {
		return usageError(errors.New("--write and --diff cannot be combined"))
	}

	override := &config.Config{}
	if flags.noBackup {
		override.Backups = config.Bool(false)
	}
	flags.walk.override(cmd, override)

	cfg, err := loadConfig(cmd, override)
	if err != nil {
		return err
	}

	if len(argv) == 1 && argv[0] == "-" {
		_, text, err := readInput(cmd, argv)
		if err != nil {
			return err
		}
		formatted, _ := check.Canonical(text, cfg.Unit())
		_, err = io.WriteString(cmd.OutOrStdout(), formatted)
		return err
	}

	mode := check.ModeCheck
	switch {
	case flags.write:
		mode = check.ModeWrite
	case flags.diff:
		mode = check.ModeDiff
	}

	result, workDir, err := runFiles(cmd, cfg, &flags.walk, argv, mode)
	if err != nil {
		return err
	}

	failed := logFileErrors(result, workDir)

	w := cmd.OutOrStdout()
	switch mode {
	case check.ModeDiff:
		rep, err := output.NewReporter(output.Options{
			Writer:      w,
			Format:      output.FormatDiff,
			Color:       cfg.Color,
			ShowSummary: true,
			WorkingDir:  workDir,
		})
		if err != nil {
			return fmt.Errorf("create reporter: %w", err)
		}
		if _, err := rep.Report(commandContext(cmd), result); err != nil {
			return withCode(ExitIOError, fmt.Errorf("report results: %w", err))
		}
	default:
		if err := listFiles(w, result, workDir, mode == check.ModeWrite); err != nil {
			return err
		}
	}

	if failed || (mode != check.ModeWrite && result.Stats.FilesUnformatted > 0) {
		return ErrIssuesFound
	}
	return nil
}

// listFiles prints the files that were rewritten, or that need rewriting.
func listFiles(w io.Writer, result *runner.Result, workDir string, written bool) error {
	for _, file := range result.Files {
		report := file.Report
		if report == nil {
			continue
		}
		if (written && !report.Written) || (!written && !report.NeedsFormat()) {
			continue
		}
		if _, err := fmt.Fprintln(w, relPath(workDir, file.Path)); err != nil {
			return err
		}
	}
	return nil
}

func logFileErrors(result *runner.Result, workDir string) bool {
	logger := logging.Default()
	failed := false
	for _, file := range result.Files {
		if file.Error != nil {
			logger.Error("cannot format file", logging.FieldPath, relPath(workDir, file.Path), logging.FieldError, file.Error)
			failed = true
		}
	}
	return failed
}

func relPath(workDir, path string) string {
	if rel, err := filepath.Rel(workDir, path); err == nil {
		return rel
	}
	return path
}
