package cli

import (
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"whoowns/internal/backend"
)

var backendsListQuiet bool

var backendsCmd = &cobra.Command{
	Use:   "backends",
	Short: "Manage and list declaration backends",
	Long: `Manage declaration backends.

A backend defines one declaration grammar: the file name it looks for in
each folder and how that file's content is parsed. Select one with
--backend on the resolving commands.

Examples:
  # List all available backends
  whoowns backends list
`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

var backendsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List available backends",
	Long: `List all declaration backends currently registered in this build.

Backends are sorted by name.

Examples:
  whoowns backends list
`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, b := range backend.List() {
			if backendsListQuiet {
				fmt.Fprintln(cmd.OutOrStdout(), b.Name())
			} else {
				printBackend(cmd.OutOrStdout(), b)
			}
		}
		return nil
	},
}

func printBackend(w io.Writer, b backend.Backend) {
	bold := color.New(color.Bold)
	fmt.Fprintln(w, "----------------------------------------")
	bold.Fprintf(w, "BACKEND: %s\n", b.Name())
	fmt.Fprintln(w, "----------------------------------------")
	fmt.Fprintf(w, "Declaration file: %s\n", b.FileName())
	fmt.Fprintln(w)
}

func init() {
	rootCmd.AddCommand(backendsCmd)
	backendsCmd.AddCommand(backendsListCmd)
	backendsListCmd.Flags().BoolVarP(&backendsListQuiet, "quiet", "q", false, "Only print backend names")
}
