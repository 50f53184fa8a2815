package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"caret/internal/codec"
)

var convertCmd = &cobra.Command{
	Use:   "convert <in.toml|in.mp> <out.toml|out.mp>",
	Short: "Convert a diagnostic document between TOML and msgpack",
	Long:  `Convert a diagnostic document between the human-authored TOML form and the msgpack exchange form; the direction follows the file extensions`,
	Args:  cobra.ExactArgs(2),
	RunE:  runConvert,
}

func runConvert(cmd *cobra.Command, args []string) error {
	inPath, outPath := args[0], args[1]

	fs, bag, err := loadDocument(inPath)
	if err != nil {
		return err
	}

	switch strings.ToLower(filepath.Ext(outPath)) {
	case ".mp":
		return codec.WriteFile(outPath, fs, bag)
	case ".toml":
		f, err := os.Create(outPath)
		if err != nil {
			return err
		}
		if err := codec.EncodeDocument(f, fs, bag); err != nil {
			_ = f.Close()
			return err
		}
		return f.Close()
	}
	return fmt.Errorf("unknown output format %q (want .toml or .mp)", filepath.Ext(outPath))
}
