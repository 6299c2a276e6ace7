package main

import (
	"github.com/derickschaefer/blockdoc"
	"github.com/spf13/cobra"
)

var normalizeCmd = &cobra.Command{
	Use:   "normalize [file]",
	Short: "Repair a document and print it as JSON",
	Args:  cobra.MaximumNArgs(1),
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
		repairs := 0
		opts = append(opts, blockdoc.WithNormalizeOptions(blockdoc.WithRepairObserver(func(blockdoc.Repair) { repairs++ })))
		out, err := blockdoc.Normalize(doc, features, opts...)
		if err != nil {
			return err
		}
		logger.Info().Int("repairs", repairs).Int("blocks", len(out)).Msg("normalized")
		return blockdoc.Encode(cmd.OutOrStdout(), out)
	},
}

func init() {
	rootCmd.AddCommand(normalizeCmd)
}
