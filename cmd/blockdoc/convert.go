package main

import (
	"fmt"
	"io"
	"os"

	"github.com/derickschaefer/blockdoc"
	"github.com/spf13/cobra"
)

var (
	convertTo  string
	outputPath string
)

var convertCmd = &cobra.Command{
	Use:   "convert [file]",
	Short: "Convert a document between JSON and CBOR, or extract its text",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := readDocument(cmd, argOrStdin(args, 0))
		if err != nil {
			return err
		}
		var w io.Writer = cmd.OutOrStdout()
		if outputPath != "" {
			f, err := os.Create(outputPath)
			if err != nil {
				return err
			}
			defer f.Close()
			w = f
		}
		switch convertTo {
		case "json":
			return blockdoc.Encode(w, doc)
		case "cbor":
			return blockdoc.EncodeCBOR(w, doc)
		case "text":
			_, err := fmt.Fprintln(w, doc.PlainText())
			return err
		default:
			return fmt.Errorf("unknown output format %q", convertTo)
		}
	},
}

func init() {
	convertCmd.Flags().StringVarP(&convertTo, "to", "t", "cbor", "Output format: json, cbor or text")
	convertCmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file (default: stdout)")
	rootCmd.AddCommand(convertCmd)
}
