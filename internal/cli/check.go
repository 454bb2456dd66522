package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yaklabco/rtn/internal/logging"
	"github.com/yaklabco/rtn/pkg/check"
	"github.com/yaklabco/rtn/pkg/config"
	"github.com/yaklabco/rtn/pkg/output"
	"github.com/yaklabco/rtn/pkg/runner"
)

// walkFlags are shared by the commands that process many files.
type walkFlags struct {
	jobs           int
	ignore         []string
	include        []string
	extensions     []string
	followSymlinks bool
}

func addWalkFlags(cmd *cobra.Command, flags *walkFlags) {
	cmd.Flags().IntVar(&flags.jobs, "jobs", 0, "number of parallel workers (0 = auto)")
	cmd.Flags().StringSliceVar(&flags.ignore, "ignore", nil, "glob patterns to ignore")
	cmd.Flags().StringSliceVar(&flags.include, "include", nil, "only process paths matching these globs")
	cmd.Flags().StringSliceVar(&flags.extensions, "ext", nil, "outline file extensions (default .txt, .outline, .tree)")
	cmd.Flags().BoolVar(&flags.followSymlinks, "follow-symlinks", false, "descend into symlinked directories")
}

func (f *walkFlags) override(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("jobs") {
		cfg.Jobs = f.jobs
	}
	if cmd.Flags().Changed("ext") {
		cfg.Extensions = f.extensions
	}
}

func (f *walkFlags) runOptions(cfg *config.Config, paths []string, workDir string) runner.Options {
	exclude := append([]string{}, cfg.Ignore...)
	exclude = append(exclude, f.ignore...)

	return runner.Options{
		Paths:          paths,
		WorkingDir:     workDir,
		Extensions:     cfg.Extensions,
		IncludeGlobs:   f.include,
		ExcludeGlobs:   exclude,
		FollowSymlinks: f.followSymlinks,
		Jobs:           cfg.Jobs,
	}
}

// runFiles processes the discovered files with a pipeline in mode.
func runFiles(cmd *cobra.Command, cfg *config.Config, flags *walkFlags, paths []string, mode check.Mode) (*runner.Result, string, error) {
	logger := logging.Default()
	ctx := commandContext(cmd)

	workDir, err := os.Getwd()
	if err != nil {
		return nil, "", fmt.Errorf("get working directory: %w", err)
	}

	pipeline := check.NewPipeline(check.Options{
		Mode:     mode,
		Backup:   cfg.BackupsEnabled(),
		Render:   cfg.RenderOptions(),
		Resolver: cfg.Resolver(),
	})

	runOpts := flags.runOptions(cfg, paths, workDir)

	logger.Debug("starting run",
		logging.FieldMode, mode.String(),
		logging.FieldPaths, runOpts.Paths,
		logging.FieldWorkingDir, runOpts.WorkingDir,
		logging.FieldJobs, runOpts.Jobs,
	)

	result, err := runner.New(pipeline).Run(ctx, runOpts)
	if err != nil {
		return nil, "", withCode(ExitIOError, errors.Join(errors.New("run failed"), err))
	}

	logger.Debug("run finished",
		logging.FieldFilesDiscovered, result.Stats.FilesDiscovered,
		logging.FieldFilesProcessed, result.Stats.FilesProcessed,
		logging.FieldFilesWithIssues, result.Stats.FilesWithIssues,
		logging.FieldFilesModified, result.Stats.FilesModified,
		logging.FieldBrokenLinks, result.Stats.BrokenLinks,
	)

	return result, workDir, nil
}

type checkFlags struct {
	walk      walkFlags
	format    string
	noContext bool
	showValid bool
	compact   bool
}

func newCheckCommand() *cobra.Command {
	flags := &checkFlags{}

	cmd := &cobra.Command{
		Use:   "check [paths...]",
		Short: "Check outlines for broken links, defects and formatting",
		Long:  checkLongDescription,
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, argv []string) error {
			return runCheck(cmd, argv, flags)
		},
	}

	addWalkFlags(cmd, &flags.walk)
	cmd.Flags().StringVar(&flags.format, "format", "", "output format: text, table, json, diff, summary (default text)")
	cmd.Flags().BoolVar(&flags.noContext, "no-context", false, "hide source line context in output")
	cmd.Flags().BoolVar(&flags.showValid, "show-valid", false, "list resolving links too")
	cmd.Flags().BoolVar(&flags.compact, "compact", false, "use minified JSON")

	return cmd
}

const checkLongDescription = `Check outline files for DirNav links that do not resolve, connector cells
no rule can classify, and content that is not in canonical form.

By default, checks every .txt, .outline and .tree file under the current
directory. Hidden files and directories are skipped. The exit code is 1 when
any issue is found.

Examples:
  rtn check                      Check the current directory
  rtn check notes/ plan.txt      Check specific paths
  rtn check --format json        Output as JSON for CI
  rtn check --format diff        Show the formatting changes
  rtn check --ignore 'drafts/**' Skip a directory`

func runCheck(cmd *cobra.Command, argv []string, flags *checkFlags) error {
	override := &config.Config{}
	if cmd.Flags().Changed("format") {
		override.Format = flags.format
	}
	flags.walk.override(cmd, override)

	cfg, err := loadConfig(cmd, override)
	if err != nil {
		return err
	}

	formatName := cfg.Format
	if formatName == "" {
		formatName = string(output.FormatText)
	}
	format, err := output.ParseFormat(formatName)
	if err != nil {
		return usageError(err)
	}
	if format == output.FormatColor {
		return usageError(errors.New("format color only renders diagrams; use text with --color always"))
	}

	mode := check.ModeCheck
	if format == output.FormatDiff {
		mode = check.ModeDiff
	}

	result, workDir, err := runFiles(cmd, cfg, &flags.walk, argv, mode)
	if err != nil {
		return err
	}

	rep, err := output.NewReporter(output.Options{
		Writer:         cmd.OutOrStdout(),
		Format:         format,
		Color:          cfg.Color,
		Unit:           cfg.Unit(),
		ShowContext:    !flags.noContext,
		ShowSummary:    true,
		ShowValidLinks: flags.showValid,
		Compact:        flags.compact,
		WorkingDir:     workDir,
	})
	if err != nil {
		return usageError(fmt.Errorf("create reporter: %w", err))
	}

	if _, err := rep.Report(commandContext(cmd), result); err != nil {
		logging.Default().Error("report failed", logging.FieldError, err)
		return withCode(ExitIOError, fmt.Errorf("report results: %w", err))
	}

	if ExitCodeFromResult(result) != ExitSuccess {
		return ErrIssuesFound
	}
	return nil
}
