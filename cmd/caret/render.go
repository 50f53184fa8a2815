package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"caret/internal/codec"
	"caret/internal/diag"
	"caret/internal/diagfmt"
	"caret/internal/source"
	"caret/internal/termstyle"
)

var renderCmd = &cobra.Command{
	Use:   "render [flags] <doc.toml|doc.mp> ...",
	Short: "Render diagnostic documents to the terminal",
	Long:  `Render one or more diagnostic documents (TOML or msgpack exchange files) as annotated source listings, in argument order`,
	Args:  cobra.MinimumNArgs(1),
	RunE:  runRender,
}

func init() {
	renderCmd.Flags().String("format", "pretty", "output format (pretty|short)")
	renderCmd.Flags().Bool("with-notes", false, "include diagnostic notes in short output")
	renderCmd.Flags().Int("fold-threshold", 1, "largest line gap shown in full instead of folded")
	renderCmd.Flags().Int("context", 1, "unlabeled lines shown around each labeled line")
	renderCmd.Flags().Bool("sorted", false, "sort diagnostics by file and position before rendering")
	renderCmd.Flags().Bool("dedup", false, "drop repeated diagnostics")
}

type loadedDocument struct {
	path string
	fs   *source.FileSet
	bag  *diag.Bag
}

func runRender(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	withNotes, err := cmd.Flags().GetBool("with-notes")
	if err != nil {
		return fmt.Errorf("failed to get with-notes flag: %w", err)
	}
	sorted, err := cmd.Flags().GetBool("sorted")
	if err != nil {
		return fmt.Errorf("failed to get sorted flag: %w", err)
	}
	dedup, err := cmd.Flags().GetBool("dedup")
	if err != nil {
		return fmt.Errorf("failed to get dedup flag: %w", err)
	}
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	colorFlag, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return fmt.Errorf("failed to get color flag: %w", err)
	}

	cfg, err := renderConfig(cmd)
	if err != nil {
		return err
	}

	switch format {
	case "pretty", "short":
		// supported
	default:
		return fmt.Errorf("unknown format: %s", format)
	}

	// Parse every document up front and in parallel; emission stays
	// sequential because stdout is shared.
	docs := make([]loadedDocument, len(args))
	var g errgroup.Group
	for i, path := range args {
		g.Go(func() error {
			fs, bag, err := loadDocument(path)
			if err != nil {
				return err
			}
			docs[i] = loadedDocument{path: path, fs: fs, bag: bag}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	hadErrors := false
	out := termstyle.ForMode(colorFlag, os.Stdout)
	for i, doc := range docs {
		if sorted {
			doc.bag.Sort()
		}
		if dedup {
			doc.bag.Dedup()
		}
		bag := capBag(doc.bag, maxDiagnostics)
		if bag.HasErrors() {
			hadErrors = true
		}

		if i > 0 {
			fmt.Fprintln(os.Stdout)
		}

		switch format {
		case "pretty":
			r, err := diagfmt.NewRenderer(cfg, doc.fs)
			if err != nil {
				return err
			}
			if err := r.RenderBag(bag, out); err != nil {
				return fmt.Errorf("%s: %w", doc.path, err)
			}
		case "short":
			if text := diag.FormatShortDiagnostics(bag.Items(), doc.fs, withNotes); text != "" {
				fmt.Fprintln(os.Stdout, text)
			}
		}
	}

	if hadErrors {
		// Suppress cobra usage output on diagnostic errors
		cmd.SilenceUsage = true
		cmd.SilenceErrors = true
		return fmt.Errorf("") // Silent error - diagnostics already printed
	}
	return nil
}

// renderConfig builds the layout configuration from the persistent and
// render-local flags.
func renderConfig(cmd *cobra.Command) (diagfmt.Config, error) {
	cfg := diagfmt.NewConfig()

	ascii, err := cmd.Root().PersistentFlags().GetBool("ascii")
	if err != nil {
		return cfg, fmt.Errorf("failed to get ascii flag: %w", err)
	}
	tabWidth, err := cmd.Root().PersistentFlags().GetInt("tab-width")
	if err != nil {
		return cfg, fmt.Errorf("failed to get tab-width flag: %w", err)
	}
	foldThreshold, err := cmd.Flags().GetInt("fold-threshold")
	if err != nil {
		return cfg, fmt.Errorf("failed to get fold-threshold flag: %w", err)
	}
	contextLines, err := cmd.Flags().GetInt("context")
	if err != nil {
		return cfg, fmt.Errorf("failed to get context flag: %w", err)
	}

	cfg.ASCIIOnly = ascii
	cfg.TabWidth = tabWidth
	cfg.FoldThreshold = foldThreshold
	cfg.ContextLines = contextLines
	return cfg, cfg.Validate()
}

// loadDocument picks the codec by extension: msgpack exchange files end
// in .mp, everything else parses as TOML.
func loadDocument(path string) (*source.FileSet, *diag.Bag, error) {
	if strings.EqualFold(filepath.Ext(path), ".mp") {
		return codec.ReadFile(path)
	}
	return codec.LoadDocument(path)
}

// capBag enforces --max-diagnostics by rebuilding the bag with the
// requested capacity.
func capBag(bag *diag.Bag, max int) *diag.Bag {
	if max <= 0 || bag.Len() <= max {
		return bag
	}
	capped := diag.NewBag(max)
	for _, d := range bag.Items() {
		if !capped.Add(d) {
			break
		}
	}
	return capped
}
