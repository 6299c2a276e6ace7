package main

import (
	"fmt"

	"github.com/derickschaefer/blockdoc"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate [file]",
	Short: "Report structural and component value problems",
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
		errs := blockdoc.Validate(doc, features, opts...)
		for _, e := range errs {
			fmt.Fprintln(cmd.OutOrStdout(), e)
		}
		if len(errs) > 0 {
			return fmt.Errorf("%d problem(s) found", len(errs))
		}
		fmt.Fprintln(cmd.OutOrStdout(), "ok")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
