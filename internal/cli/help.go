package cli

import (
	"fmt"
	"io"
	"strings"
	"text/template"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/yaklabco/rtn/internal/ui/pretty"
)

// HelpStyles contains Lipgloss styles for command help formatting.
type HelpStyles struct {
	// Command name/usage styling
	Command lipgloss.Style

	// Section headers (Usage, Available Commands, Flags, etc.)
	Heading lipgloss.Style

	// Subcommand names
	Subcommand lipgloss.Style

	// Flag names (--flag, -f)
	Flag lipgloss.Style

	// Example command lines inside long descriptions
	Example lipgloss.Style

	// Dim text (flag types, aliases, versions)
	Dim lipgloss.Style
}

// NewHelpStyles derives help styles from the output palette so that help and
// diagrams share colors.
func NewHelpStyles(colorEnabled bool) *HelpStyles {
	styles := pretty.NewStyles(colorEnabled)
	return &HelpStyles{
		Command:    styles.Link.UnsetUnderline().Bold(colorEnabled),
		Heading:    styles.Warning,
		Subcommand: styles.DiffAdd,
		Flag:       styles.Info.UnsetBold(),
		Example:    styles.SourceLine,
		Dim:        styles.Dim,
	}
}

// HelpFormatter provides styled help output for Cobra commands.
type HelpFormatter struct {
	styles *HelpStyles
}

// NewHelpFormatter creates a new help formatter with the given color mode.
func NewHelpFormatter(colorMode string, writer io.Writer) *HelpFormatter {
	return &HelpFormatter{styles: NewHelpStyles(pretty.IsColorEnabled(colorMode, writer))}
}

const usageTemplate = `{{ heading "Usage:" }}
  {{if .Runnable}}{{ command .UseLine }}{{end}}
  {{if .HasAvailableSubCommands}}{{ command .CommandPath }} [command]{{end}}

{{- if gt (len .Aliases) 0}}

{{ heading "Aliases:" }}
  {{ dim (join .Aliases ", ") }}
{{- end}}

{{- if .HasExample}}

{{ heading "Examples:" }}
{{ examples .Example }}
{{- end}}

{{- if .HasAvailableSubCommands}}

{{ heading "Available Commands:" }}{{range .Commands}}{{if (or .IsAvailableCommand (eq .Name "help"))}}
  {{ subcommand (rpad .Name .NamePadding) }} {{ .Short }}{{end}}{{end}}
{{- end}}

{{- if .HasAvailableLocalFlags}}

{{ heading "Flags:" }}
{{ flags .LocalFlags }}
{{- end}}

{{- if .HasAvailableInheritedFlags}}

{{ heading "Global Flags:" }}
{{ flags .InheritedFlags }}
{{- end}}

{{- if .HasHelpSubCommands}}

{{ heading "Additional help topics:" }}{{range .Commands}}{{if .IsAdditionalHelpTopicCommand}}
  {{ subcommand (rpad .CommandPath .CommandPathPadding) }} {{ .Short }}{{end}}{{end}}
{{- end}}

{{- if .HasAvailableSubCommands}}

Use "{{ command (print .CommandPath " [command] --help") }}" for more information about a command.
{{- end}}
`

const helpTemplate = `{{if or .Runnable .HasSubCommands}}{{ command .CommandPath }}{{if .Version}} {{ dim .Version }}{{end}}

{{end}}{{with (or .Long .Short)}}{{ description . }}

{{end}}`

func (h *HelpFormatter) funcs() template.FuncMap {
	return template.FuncMap{
		"command":     h.styles.Command.Render,
		"heading":     h.styles.Heading.Render,
		"subcommand":  h.styles.Subcommand.Render,
		"dim":         h.styles.Dim.Render,
		"flags":       h.styleFlagsUsage,
		"examples":    h.styleExamples,
		"description": h.styleDescription,
		"rpad":        rpad,
		"join":        strings.Join,
	}
}

// ApplyToCommand applies styled help templates to a Cobra command and all subcommands.
func (h *HelpFormatter) ApplyToCommand(cmd *cobra.Command) {
	usage := template.Must(template.New("usage").Funcs(h.funcs()).Parse(usageTemplate))
	help := template.Must(template.Must(usage.Clone()).New("help").Parse(helpTemplate + `{{template "usage" .}}`))

	cmd.SetUsageFunc(func(command *cobra.Command) error {
		if err := usage.Execute(command.OutOrStdout(), command); err != nil {
			return fmt.Errorf("render usage: %w", err)
		}
		return nil
	})

	cmd.SetHelpFunc(func(command *cobra.Command, _ []string) {
		if err := help.ExecuteTemplate(command.OutOrStdout(), "help", command); err != nil {
			command.PrintErrln(err)
		}
	})
}

// styleDescription trims trailing whitespace and styles the "Examples:"
// block that long descriptions end with.
func (h *HelpFormatter) styleDescription(text string) string {
	text = trimTrailingWhitespaces(text)
	before, after, found := strings.Cut(text, "\nExamples:\n")
	if !found {
		return text
	}
	return before + "\n" + h.styles.Heading.Render("Examples:") + "\n" + h.styleExamples(after)
}

// styleExamples styles the command part of each example line. A run of two
// or more spaces separates the command from its explanation.
func (h *HelpFormatter) styleExamples(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		trimmed := strings.TrimLeft(line, " ")
		if trimmed == "" {
			continue
		}
		indent := line[:len(line)-len(trimmed)]
		command, rest, _ := splitColumns(trimmed)
		gap := trimmed[len(command) : len(trimmed)-len(rest)]
		lines[i] = indent + h.styles.Example.Render(command) + gap + rest
	}
	return strings.Join(lines, "\n")
}

// styleFlagsUsage formats flag usage with styling.
func (h *HelpFormatter) styleFlagsUsage(flags interface{ FlagUsages() string }) string {
	usages := strings.TrimSuffix(flags.FlagUsages(), "\n")
	if usages == "" {
		return ""
	}

	lines := strings.Split(usages, "\n")
	for i, line := range lines {
		lines[i] = h.styleFlagLine(line)
	}
	return strings.Join(lines, "\n")
}

// styleFlagLine styles one line of the form "  -f, --flag type   description".
func (h *HelpFormatter) styleFlagLine(line string) string {
	trimmed := strings.TrimLeft(line, " ")
	flagPart, description, found := splitColumns(trimmed)
	if !found {
		return line
	}

	prefix := line[:len(line)-len(trimmed)]
	return prefix + h.styleFlagPart(flagPart) + "   " + description
}

// splitColumns splits line at the first run of two or more spaces.
func splitColumns(line string) (string, string, bool) {
	const minGap = 2

	start := -1
	for idx, char := range line {
		switch {
		case char == ' ' && start < 0:
			start = idx
		case char != ' ' && start >= 0:
			if idx-start >= minGap {
				return line[:start], line[idx:], true
			}
			start = -1
		}
	}
	return line, "", false
}

// styleFlagPart colors flag names and dims type indicators.
func (h *HelpFormatter) styleFlagPart(flagPart string) string {
	tokens := strings.Fields(flagPart)
	for i, token := range tokens {
		if !strings.HasPrefix(token, "-") {
			tokens[i] = h.styles.Dim.Render(token)
			continue
		}
		clean, comma := strings.CutSuffix(token, ",")
		tokens[i] = h.styles.Flag.Render(clean)
		if comma {
			tokens[i] += ","
		}
	}
	return strings.Join(tokens, " ")
}

// rpad adds padding to the right of a string.
func rpad(str string, padding int) string {
	if len(str) >= padding {
		return str
	}
	return str + strings.Repeat(" ", padding-len(str))
}

// trimTrailingWhitespaces removes trailing whitespace from lines.
func trimTrailingWhitespaces(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	return strings.Join(lines, "\n")
}
