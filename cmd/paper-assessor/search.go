// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/paper-assessor/internal/search"
)

var searchCmd = &cobra.Command{
	Use:   "search [query...]",
	Short: "Search the scholarly source and arXiv for each query",
	Long: `Search runs each query against the configured scholarly source and then
arXiv, in order, and prints the references. Each argument is one query.
Queries can also be replayed from a file written by "queries --save".
A source that fails for a query is logged and skipped.`,
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().String("from", "", "read queries from a YAML query file")
	searchCmd.Flags().String("save", "", "write queries and results to a YAML query file")
	searchCmd.Flags().Bool("json", false, "output results as JSON")
	searchCmd.Flags().Int("max-results", 0, "results per source per query (default from config)")

	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	from, _ := cmd.Flags().GetString("from")
	save, _ := cmd.Flags().GetString("save")
	asJSON, _ := cmd.Flags().GetBool("json")
	maxResults, _ := cmd.Flags().GetInt("max-results")

	var queries []string
	for _, a := range args {
		if q := strings.TrimSpace(a); q != "" {
			queries = append(queries, q)
		}
	}
	source := ""
	if from != "" {
		qf, err := search.ReadQueryFile(from)
		if err != nil {
			return err
		}
		queries = append(queries, qf.Queries...)
		source = qf.Source
	}
	if len(queries) == 0 {
		return fmt.Errorf("provide one or more queries, or --from a query file")
	}

	searchCfg := cfg.Search
	if maxResults > 0 {
		searchCfg.MaxResults = maxResults
	}
	c := cfg
	c.Search = searchCfg
	if err := c.ValidateSearch(); err != nil {
		return err
	}

	s, err := search.New(searchCfg, &http.Client{}, search.WithLogger(logger.Named("search")))
	if err != nil {
		return err
	}

	refs, err := s.SearchAll(cmd.Context(), queries)
	if err != nil {
		return err
	}

	if save != "" {
		if err := search.WriteQueryFile(save, source, queries, refs); err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Results saved to %s\n", save)
	}

	if asJSON {
		return search.FormatJSON(refs, cmd.OutOrStdout())
	}
	search.FormatTable(refs, cmd.OutOrStdout())
	return nil
}
