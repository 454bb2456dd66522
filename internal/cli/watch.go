package cli

import (
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/yaklabco/rtn/internal/watch"
	"github.com/yaklabco/rtn/pkg/config"
	"github.com/yaklabco/rtn/pkg/editbuffer"
	"github.com/yaklabco/rtn/pkg/output"
	"github.com/yaklabco/rtn/pkg/tree"
)

type watchFlags struct {
	format   string
	width    string
	marked   bool
	debounce time.Duration
}

func newWatchCommand() *cobra.Command {
	flags := &watchFlags{}

	cmd := &cobra.Command{
		Use:   "watch <file>",
		Short: "Redraw an outline every time it is saved",
		Long: `Render an outline and redraw it whenever the file changes. Changes are
debounced so that a burst of writes produces one redraw. On a terminal
the screen is cleared before each redraw. Stop with Ctrl-C.

Examples:
  rtn watch notes.txt
  rtn watch --format color --debounce 500ms notes.txt`,
		Args: args(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, argv []string) error {
			return runWatch(cmd, argv, flags)
		},
	}

	addDiagramFlags(cmd, &flags.format, &flags.width, &flags.marked)
	cmd.Flags().DurationVar(&flags.debounce, "debounce", 0, "quiet period before a redraw (default from config)")

	return cmd
}

func runWatch(cmd *cobra.Command, argv []string, flags *watchFlags) error {
	format, err := parseDiagramFormat(flags.format)
	if err != nil {
		return err
	}

	override := diagramOverride(cmd, flags.width, flags.marked)
	if cmd.Flags().Changed("debounce") {
		override.Watch.Debounce = flags.debounce
	}

	cfg, err := loadConfig(cmd, override)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	watcher, err := watch.New(watch.Options{
		Path:     argv[0],
		Debounce: cfg.Watch.Debounce,
		Buffer: editbuffer.Options{
			Render:   cfg.RenderOptions(),
			Resolver: cfg.Resolver(),
		},
		Writer: w,
		Draw:   snapshotDrawer(cfg, argv[0], format),
		Clear:  isTerminal(w),
	})
	if err != nil {
		return usageError(err)
	}

	ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := watcher.Run(ctx); err != nil {
		return withCode(ExitIOError, err)
	}
	return nil
}

// snapshotDrawer writes buffer snapshots in a diagram format.
func snapshotDrawer(cfg *config.Config, path string, format output.Format) watch.DrawFunc {
	glyphs := cfg.GlyphSet()
	return func(w io.Writer, snap editbuffer.Snapshot) error {
		return output.WriteDiagram(output.Options{
			Writer: w,
			Format: format,
			Color:  cfg.Color,
			Unit:   cfg.Unit(),
		}, output.Diagram{
			Path:   path,
			Result: tree.Result{Text: snap.Rendered, Grid: snap.Grid},
			Glyphs: glyphs,
			Links:  snap.Links,
		})
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd())) //nolint:gosec // File descriptors fit in an int.
}
