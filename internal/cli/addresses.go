package cli

import "github.com/spf13/cobra"

func newAddressesTopic() *cobra.Command {
	return &cobra.Command{
		Use:   "addresses",
		Short: "DirNav address syntax",
		Long: `A DirNav address locates a line of the same outline by path:

  RTN/[0]/[2]/          third child of the first child of the current root
  RTN/[intro]/          child of the current root whose text starts with "intro"
  RTN./../[1]/          second child of the parent of the current line
  DNL~/[0]/             first child of the current level 1 ancestor

The head selects where the walk starts. RTN, DNL and DL are
interchangeable root markers:

  RTN     the nearest level 0 line at or above the current line
  RTN~    the nearest level 1 line at or above the current line
  RTN.    the current line

Each segment then moves the pointer:

  ..      to the parent line
  .       nowhere
  [N]     to the child with index N, counting from 0
  [text]  to the first child whose text starts with text, ignoring leading
          punctuation; the match is case-sensitive

A trailing slash is optional. The root markers can be replaced with
nav.root_marker, either one word or a list. Addresses found while rendering
are checked against the current text; those that do not resolve are reported
as broken links.`,
	}
}
