package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/yaklabco/rtn/internal/ui/pretty"
	"github.com/yaklabco/rtn/pkg/dirnav"
	"github.com/yaklabco/rtn/pkg/outline"
	"github.com/yaklabco/rtn/pkg/output"
)

type linksFlags struct {
	format    string
	all       bool
	noContext bool
}

func newLinksCommand() *cobra.Command {
	flags := &linksFlags{}

	cmd := &cobra.Command{
		Use:   "links [file]",
		Short: "List the DirNav links of an outline",
		Long: `List the DirNav addresses found in an outline and whether they resolve.

Broken links are always listed. --all lists resolving links too. The exit
code is 1 when any link is broken.

Examples:
  rtn links notes.txt
  rtn links --all --format table notes.txt
  rtn links --format json < notes.txt`,
		Args: args(cobra.MaximumNArgs(1)),
		RunE: func(cmd *cobra.Command, argv []string) error {
			return runLinks(cmd, argv, flags)
		},
	}

	cmd.Flags().StringVar(&flags.format, "format", "text", "output format: text, table, json")
	cmd.Flags().BoolVarP(&flags.all, "all", "a", false, "list resolving links too")
	cmd.Flags().BoolVar(&flags.noContext, "no-context", false, "hide the source line under broken links")

	return cmd
}

func runLinks(cmd *cobra.Command, argv []string, flags *linksFlags) error {
	switch flags.format {
	case "text", "table", "json":
	default:
		return usageError(fmt.Errorf("invalid format %q: must be text, table or json", flags.format))
	}

	cfg, err := loadConfig(cmd, nil)
	if err != nil {
		return err
	}

	path, text, err := readInput(cmd, argv)
	if err != nil {
		return err
	}

	diagram := output.NewDiagram(path, text, cfg.RenderOptions(), cfg.Resolver())
	logDiagram(diagram)

	var listed []dirnav.Link
	broken := 0
	for _, link := range diagram.Links {
		if !link.Valid {
			broken++
		}
		if flags.all || !link.Valid {
			listed = append(listed, link)
		}
	}

	w := cmd.OutOrStdout()
	styles := pretty.NewStyles(pretty.IsColorEnabled(cfg.Color, w))

	switch flags.format {
	case "json":
		if listed == nil {
			listed = []dirnav.Link{}
		}
		err = writeJSON(w, listed)
	case "table":
		rows := make([]pretty.LinkRow, len(listed))
		for i, link := range listed {
			rows[i] = pretty.LinkRow{Path: path, Link: link}
		}
		_, err = io.WriteString(w, styles.FormatLinkTable(rows))
	default:
		err = writeLinkList(w, styles, path, text, listed, cfg.Unit(), !flags.noContext)
	}
	if err != nil {
		return err
	}

	if broken > 0 {
		return ErrIssuesFound
	}
	return nil
}

func writeLinkList(w io.Writer, styles *pretty.Styles, path, text string, links []dirnav.Link, unit rune, showContext bool) error {
	lines := outline.Split(text)
	for _, link := range links {
		line := ""
		if showContext && link.Line < len(lines) {
			line = outline.Content(lines[link.Line], unit)
		}
		if _, err := io.WriteString(w, styles.FormatLink(path, link, line)); err != nil {
			return err
		}
	}
	return nil
}
