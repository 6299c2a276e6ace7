package main

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/derickschaefer/blockdoc"
	"github.com/spf13/cobra"
)

var (
	anchorFlag string
	focusFlag  string
)

var toolbarCmd = &cobra.Command{
	Use:   "toolbar [file]",
	Short: "Print the toolbar state for a selection",
	Long: `Print the toolbar state for a selection as JSON. Points are written as
a dotted path to a text leaf and a byte offset, e.g. 0.0:3.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := readDocument(cmd, argOrStdin(args, 0))
		if err != nil {
			return err
		}
		features, err := loadFeatures()
		if err != nil {
			return err
		}
		opts, err := editorOptions()
		if err != nil {
			return err
		}
		ed, err := blockdoc.NewEditor(doc, features, opts...)
		if err != nil {
			return err
		}
		if anchorFlag != "" {
			anchor, err := parsePoint(anchorFlag)
			if err != nil {
				return err
			}
			focus := anchor
			if focusFlag != "" {
				if focus, err = parsePoint(focusFlag); err != nil {
					return err
				}
			}
			if err := ed.Select(blockdoc.Selection{Anchor: anchor, Focus: focus}); err != nil {
				return err
			}
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(ed.ToolbarState())
	},
}

// parsePoint parses "i.j.k:offset".
func parsePoint(s string) (blockdoc.Point, error) {
	pathPart, offPart, ok := strings.Cut(s, ":")
	if !ok {
		offPart = "0"
	}
	var p blockdoc.Point
	for _, seg := range strings.Split(pathPart, ".") {
		i, err := strconv.Atoi(seg)
		if err != nil {
			return blockdoc.Point{}, fmt.Errorf("invalid point %q: %w", s, err)
		}
		p.Path = append(p.Path, i)
	}
	off, err := strconv.Atoi(offPart)
	if err != nil {
		return blockdoc.Point{}, fmt.Errorf("invalid point %q: %w", s, err)
	}
	p.Offset = off
	return p, nil
}

func init() {
	toolbarCmd.Flags().StringVar(&anchorFlag, "anchor", "", "Selection anchor (default: start of the document)")
	toolbarCmd.Flags().StringVar(&focusFlag, "focus", "", "Selection focus (default: the anchor)")
	rootCmd.AddCommand(toolbarCmd)
}
