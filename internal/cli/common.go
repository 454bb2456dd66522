package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/yaklabco/rtn/internal/configloader"
	"github.com/yaklabco/rtn/internal/logging"
	"github.com/yaklabco/rtn/pkg/config"
	"github.com/yaklabco/rtn/pkg/fsutil"
)

// outputFilePermissions is the mode of files written by --output.
const outputFilePermissions = 0o644

// stdinName is the path shown for outlines read from standard input.
const stdinName = "<stdin>"

func commandContext(cmd *cobra.Command) context.Context {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return logging.WithLogger(ctx, logging.Default())
}

// args wraps a positional argument validator so that its failures exit with
// ExitInvalidUsage.
func args(validate cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, argv []string) error {
		return usageError(validate(cmd, argv))
	}
}

// loadConfig merges every configuration source with override, which holds
// the values of the flags the user set.
func loadConfig(cmd *cobra.Command, override *config.Config) (*config.Config, error) {
	logger := logging.Default()
	ctx := commandContext(cmd)

	if override == nil {
		override = &config.Config{}
	}
	if flag := cmd.Flags().Lookup("color"); flag != nil && flag.Changed {
		override.Color = flag.Value.String()
	}

	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, fmt.Errorf("get config flag: %w", err)
	}

	workDir, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("get working directory: %w", err)
	}

	loadResult, err := configloader.Load(ctx, configloader.LoadOptions{
		WorkingDir:   workDir,
		ExplicitPath: configPath,
		CLIConfig:    override,
	})
	if err != nil {
		return nil, withCode(ExitConfigError, errors.Join(errors.New("failed to load configuration"), err))
	}

	for _, warning := range loadResult.Warnings {
		logger.Warn(warning)
	}

	if len(loadResult.LoadedFrom) > 0 {
		logger.Debug("loaded configuration from", logging.FieldPaths, loadResult.LoadedFrom)
	}

	cfg := loadResult.Config
	logger.Debug("configuration loaded",
		logging.FieldUnit, cfg.IndentUnit,
		logging.FieldWidth, cfg.Glyphs.Width,
		"root_markers", cfg.Nav.RootMarkers,
		logging.FieldCompression, cfg.Share.Compression,
	)

	return cfg, nil
}

// readInput reads the outline named by the first argument. No argument or
// "-" reads standard input.
func readInput(cmd *cobra.Command, argv []string) (string, string, error) {
	if len(argv) == 0 || argv[0] == "-" {
		content, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", "", withCode(ExitIOError, fmt.Errorf("read standard input: %w", err))
		}
		return stdinName, string(content), nil
	}

	content, _, err := fsutil.ReadFile(commandContext(cmd), argv[0])
	if err != nil {
		return "", "", withCode(ExitIOError, err)
	}
	return argv[0], string(content), nil
}

// emit runs write against standard output, or against a buffer that is then
// written atomically to path.
func emit(cmd *cobra.Command, path string, write func(w io.Writer) error) error {
	if path == "" || path == "-" {
		return write(cmd.OutOrStdout())
	}

	var buf bytes.Buffer
	if err := write(&buf); err != nil {
		return err
	}
	if err := fsutil.WriteAtomic(commandContext(cmd), path, buf.Bytes(), outputFilePermissions); err != nil {
		return withCode(ExitIOError, err)
	}

	logging.Default().Debug("wrote output", logging.FieldOutput, path)
	return nil
}

// writeText writes text and terminates it with a newline.
func writeText(w io.Writer, text string) error {
	if text == "" {
		return nil
	}
	if text[len(text)-1] != '\n' {
		text += "\n"
	}
	_, err := io.WriteString(w, text)
	return err
}
