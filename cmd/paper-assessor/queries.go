// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pdiddy/paper-assessor/internal/pipeline"
	"github.com/pdiddy/paper-assessor/internal/search"
)

var queriesCmd = &cobra.Command{
	Use:   "queries <paper.pdf>",
	Short: "Extract the abstract and print the generated search queries",
	Long: `Queries runs the first two stages only: abstract extraction and query
generation. Use --save to keep the queries in a YAML file that the search
command can replay with --from.`,
	Args: cobra.ExactArgs(1),
	RunE: runQueries,
}

func init() {
	queriesCmd.Flags().Bool("abstract", false, "also print the extracted abstract")
	queriesCmd.Flags().String("save", "", "write the queries to a YAML query file")

	rootCmd.AddCommand(queriesCmd)
}

func runQueries(cmd *cobra.Command, args []string) error {
	showAbstract, _ := cmd.Flags().GetBool("abstract")
	save, _ := cmd.Flags().GetString("save")

	if err := cfg.Validate(); err != nil {
		return err
	}

	p, err := pipeline.Build(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}

	path := args[0]
	abstract, queries, err := p.Queries(cmd.Context(), path)
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Processing error: %v\n", err)
		return errReported
	}

	out := cmd.OutOrStdout()
	if showAbstract {
		fmt.Fprintf(out, "Abstract:\n%s\n\n", abstract)
	}
	for i, q := range queries {
		fmt.Fprintf(out, "%d. %s\n", i+1, q)
	}

	if save != "" {
		if err := search.WriteQueryFile(save, filepath.Base(path), queries, nil); err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Queries saved to %s\n", save)
	}
	return nil
}
