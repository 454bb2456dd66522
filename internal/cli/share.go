package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/yaklabco/rtn/internal/logging"
	"github.com/yaklabco/rtn/pkg/config"
	"github.com/yaklabco/rtn/pkg/share"
)

// errNoBaseURL is returned when a link is requested without a base URL.
var errNoBaseURL = errors.New("no base URL; pass --base or set share.base_url")

type shareFlags struct {
	base        string
	compression string
	outline     bool
	format      string
}

func newShareCommand() *cobra.Command {
	flags := &shareFlags{}

	cmd := &cobra.Command{
		Use:   "share",
		Short: "Encode outlines into links and decode them again",
		Long: `Share outlines as links. The rendered diagram is compressed, encoded and
stored in the data parameter of the link; the enc and cmpr parameters name
the codec.`,
	}

	cmd.AddCommand(newShareEncodeCommand(flags))
	cmd.AddCommand(newShareDecodeCommand(flags))
	cmd.AddCommand(newSharePreviewCommand(flags))

	return cmd
}

func newShareEncodeCommand(flags *shareFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "encode [file]",
		Short: "Encode an outline into a link",
		Long: `Encode an outline into a link. The outline is read from the file argument,
or from standard input when no file or "-" is given.

Links longer than share.max_uri_length carry the marker
MAXIMUM-LINK-LENGTH-EXCEEDED instead of data; the link is still printed and
the exit code is 1.

Examples:
  rtn share encode --base https://rtn.example/ notes.txt
  rtn share encode --compression ZLIB notes.txt`,
		Args: args(cobra.MaximumNArgs(1)),
		RunE: func(cmd *cobra.Command, argv []string) error {
			return runShareEncode(cmd, argv, flags)
		},
	}

	addBaseFlags(cmd, flags)

	return cmd
}

func addBaseFlags(cmd *cobra.Command, flags *shareFlags) {
	cmd.Flags().StringVar(&flags.base, "base", "", "base URL of the link (default from share.base_url)")
	cmd.Flags().StringVar(&flags.compression, "compression", "", "compression: ZLIB, LZMA2 (default from config)")
}

func shareOverride(cmd *cobra.Command, flags *shareFlags) *config.Config {
	override := &config.Config{}
	if cmd.Flags().Changed("base") {
		override.Share.BaseURL = flags.base
	}
	if cmd.Flags().Changed("compression") {
		override.Share.Compression = flags.compression
	}
	return override
}

// pushLink encodes text with the configured linker. A link whose data was
// replaced by the length marker is returned along with the error.
func pushLink(cfg *config.Config, text string) (string, error) {
	if cfg.Share.BaseURL == "" {
		return "", usageError(errNoBaseURL)
	}

	link, err := cfg.Linker().Push(cfg.Share.BaseURL, text)
	logging.Default().Debug("encoded link",
		logging.FieldCompression, cfg.Share.Compression,
		logging.FieldEncoding, cfg.Share.Encoding,
		logging.FieldLength, len(link),
	)
	return link, err
}

func runShareEncode(cmd *cobra.Command, argv []string, flags *shareFlags) error {
	cfg, err := loadConfig(cmd, shareOverride(cmd, flags))
	if err != nil {
		return err
	}

	_, text, err := readInput(cmd, argv)
	if err != nil {
		return err
	}

	link, err := pushLink(cfg, text)
	if link != "" {
		if _, writeErr := fmt.Fprintln(cmd.OutOrStdout(), link); writeErr != nil {
			return writeErr
		}
	}
	return err
}

func newShareDecodeCommand(flags *shareFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "decode <link>",
		Short: "Decode the outline stored in a link",
		Long: `Decode the outline stored in a link and print it.

A link that cannot be decoded prints an "Error" outline describing the
failure and exits with code 1. Links without enc or cmpr parameters are read
as URI-B64 and ZLIB.

Examples:
  rtn share decode 'https://rtn.example/?enc=URI-B64&cmpr=LZMA2&data=...'
  rtn share decode --outline "$LINK" > notes.txt`,
		Args: args(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, argv []string) error {
			return runShareDecode(cmd, argv, flags)
		},
	}

	cmd.Flags().BoolVar(&flags.outline, "outline", false, "print the tab-indented outline instead of the diagram")

	return cmd
}

func runShareDecode(cmd *cobra.Command, argv []string, flags *shareFlags) error {
	cfg, err := loadConfig(cmd, nil)
	if err != nil {
		return err
	}

	pulled, pullErr := cfg.Linker().Pull(argv[0])
	text := pulled
	if flags.outline {
		text = share.Outline(pulled, cfg.Unit())
	}

	if err := writeText(cmd.OutOrStdout(), text); err != nil {
		return err
	}
	if pullErr != nil {
		return fmt.Errorf("decode link: %w", pullErr)
	}
	return nil
}

func newSharePreviewCommand(flags *shareFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "preview <link>",
		Short: "Print the title and description of a link",
		Long: `Print the link preview: the first line of the outline as the title and the
remaining lines as the description.`,
		Args: args(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, argv []string) error {
			return runSharePreview(cmd, argv, flags)
		},
	}

	cmd.Flags().StringVar(&flags.format, "format", "text", "output format: text, json")

	return cmd
}

func runSharePreview(cmd *cobra.Command, argv []string, flags *shareFlags) error {
	if flags.format != "text" && flags.format != "json" {
		return usageError(fmt.Errorf("invalid format %q: must be text or json", flags.format))
	}

	cfg, err := loadConfig(cmd, nil)
	if err != nil {
		return err
	}

	pulled, pullErr := cfg.Linker().Pull(argv[0])
	preview := share.NewPreview(pulled)

	w := cmd.OutOrStdout()
	if flags.format == "json" {
		err = writeJSON(w, preview)
	} else {
		err = writePreview(w, preview)
	}
	if err != nil {
		return err
	}
	if pullErr != nil {
		return fmt.Errorf("decode link: %w", pullErr)
	}
	return nil
}

func writePreview(w io.Writer, preview share.Preview) error {
	if _, err := fmt.Fprintln(w, preview.Title); err != nil {
		return err
	}
	if preview.Description == "" {
		return nil
	}
	return writeText(w, preview.Description)
}
