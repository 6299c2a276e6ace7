package main

import (
	"encoding/json"
	"fmt"

	"github.com/derickschaefer/blockdoc"
	"github.com/ohler55/ojg/jp"
	"github.com/spf13/cobra"
)

var queryCmd = &cobra.Command{
	Use:   "query <jsonpath> [file]",
	Short: "Evaluate a JSONPath expression against a document",
	Long: `Evaluate a JSONPath expression against the persisted form of a document.
Each match is printed as one line of JSON.

  blockdoc query '$..[?(@.type == "link")].href' doc.json`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		x, err := jp.ParseString(args[0])
		if err != nil {
			return fmt.Errorf("invalid jsonpath '%s': %w", args[0], err)
		}
		doc, err := readDocument(cmd, argOrStdin(args, 1))
		if err != nil {
			return err
		}
		root, err := persisted(doc)
		if err != nil {
			return err
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetEscapeHTML(false)
		for _, v := range x.Get(root) {
			if err := enc.Encode(v); err != nil {
				return err
			}
		}
		return nil
	},
}

// persisted returns the generic JSON value of doc.
func persisted(doc blockdoc.Document) (any, error) {
	s, err := blockdoc.EncodeString(doc)
	if err != nil {
		return nil, err
	}
	var v any
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		return nil, err
	}
	return v, nil
}

func init() {
	rootCmd.AddCommand(queryCmd)
}
