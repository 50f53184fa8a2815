package main

import (
	"os"

	"github.com/spf13/cobra"

	"caret/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "caret",
	Short: "Render compiler-style diagnostics for source snippets",
	Long:  `Caret reads diagnostic documents and renders them as annotated source listings with underlines, connectors and notes`,
}

func main() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(convertCmd)
	rootCmd.AddCommand(versionCmd)

	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|always|never)")
	rootCmd.PersistentFlags().Bool("ascii", false, "draw with plain ASCII instead of box-drawing characters")
	rootCmd.PersistentFlags().Int("tab-width", 4, "display width of a tab stop")
	rootCmd.PersistentFlags().Int("max-diagnostics", 100, "maximum number of diagnostics to show")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
