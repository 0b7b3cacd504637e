package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/freeeve/polite-betrayal/adjudicator/internal/scenario"
	"github.com/freeeve/polite-betrayal/adjudicator/internal/service"
	"github.com/freeeve/polite-betrayal/adjudicator/pkg/diplomacy"
)

func newResolveCmd() *cobra.Command {
	var (
		asJSON  bool
		workers int
	)
	cmd := &cobra.Command{
		Use:   "resolve <scenario>...",
		Short: "Resolve one or more scenario files",
		Long: `Resolve scenario files and print the outcome.

A single file prints one result. Several files are resolved in parallel as a
batch and printed in argument order. Files ending in .json are read as JSON,
everything else as YAML; "-" reads YAML from stdin.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			docs := make([]*scenario.Document, len(args))
			for i, path := range args {
				doc, err := readScenarioFile(cmd.InOrStdin(), path)
				if err != nil {
					return err
				}
				docs[i] = doc
			}

			svc := service.NewAdjudicationService(diplomacy.Vanilla(), nil, workers)
			var out any
			if len(docs) == 1 {
				r, err := svc.Resolve(cmd.Context(), docs[0])
				if err != nil {
					return fmt.Errorf("%s: %w", args[0], err)
				}
				out = r
			} else {
				b, err := svc.ResolveBatch(cmd.Context(), "", docs)
				if err != nil {
					var be *service.BatchError
					if errors.As(err, &be) {
						return fmt.Errorf("%s: %w", args[be.Index], be.Err)
					}
					return err
				}
				out = b
			}
			return writeOutput(cmd.OutOrStdout(), out, asJSON)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of YAML")
	cmd.Flags().IntVarP(&workers, "workers", "w", 4, "scenarios resolved in parallel")
	return cmd
}

func readScenarioFile(stdin io.Reader, path string) (*scenario.Document, error) {
	var (
		data []byte
		err  error
	)
	format := scenario.FormatFromPath(path)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	doc, err := scenario.Decode(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

func writeOutput(w io.Writer, v any, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}
