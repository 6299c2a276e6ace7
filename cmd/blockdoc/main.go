// Command blockdoc normalizes, validates, queries and converts persisted
// documents.
package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/derickschaefer/blockdoc"
	"github.com/derickschaefer/blockdoc/component"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	featuresPath   string
	componentsPath string
	inputFormat    string
	verbose        bool

	logger zerolog.Logger
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&featuresPath, "features", "f", "", "Path to a YAML feature configuration (default: everything enabled)")
	rootCmd.PersistentFlags().StringVarP(&componentsPath, "components", "c", "", "Path to a YAML component block registry")
	rootCmd.PersistentFlags().StringVar(&inputFormat, "format", "", "Input format: json or cbor (default: from file extension)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log every repair")
}

var rootCmd = &cobra.Command{
	Use:           "blockdoc",
	Short:         "Inspect and repair structured documents",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := zerolog.InfoLevel
		if verbose {
			level = zerolog.DebugLevel
		}
		logger = zerolog.New(zerolog.ConsoleWriter{Out: cmd.ErrOrStderr(), NoColor: true}).
			Level(level).With().Timestamp().Logger()
	},
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func main() {
	Execute()
}

func loadFeatures() (*blockdoc.Features, error) {
	if featuresPath == "" {
		return blockdoc.AllFeatures(), nil
	}
	return blockdoc.LoadFeatures(featuresPath)
}

func loadComponents() (component.Registry, error) {
	if componentsPath == "" {
		return nil, nil
	}
	return component.LoadRegistry(componentsPath)
}

// editorOptions returns the options shared by every subcommand.
func editorOptions() ([]blockdoc.Option, error) {
	comps, err := loadComponents()
	if err != nil {
		return nil, err
	}
	return []blockdoc.Option{
		blockdoc.WithLogger(logger),
		blockdoc.WithComponents(comps),
		blockdoc.WithHistoryLimit(0),
	}, nil
}

// readDocument reads a document from path, or stdin when path is "-" or empty.
func readDocument(cmd *cobra.Command, path string) (blockdoc.Document, error) {
	var r io.Reader = cmd.InOrStdin()
	if path != "" && path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}
	format := inputFormat
	if format == "" && strings.EqualFold(filepath.Ext(path), ".cbor") {
		format = "cbor"
	}
	switch format {
	case "", "json":
		return blockdoc.Decode(r)
	case "cbor":
		return blockdoc.DecodeCBOR(r)
	default:
		return nil, fmt.Errorf("unknown format %q", format)
	}
}

func argOrStdin(args []string, i int) string {
	if len(args) > i {
		return args[i]
	}
	return "-"
}
