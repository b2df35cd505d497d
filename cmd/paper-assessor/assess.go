// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pdiddy/paper-assessor/internal/pipeline"
	"github.com/pdiddy/paper-assessor/internal/report"
)

var assessCmd = &cobra.Command{
	Use:   "assess <paper.pdf>",
	Short: "Run the full publishability assessment on a PDF",
	Long: `Assess copies the PDF into a temporary upload, extracts the abstract,
generates search queries, retrieves references from the scholarly source and
arXiv, verifies the paper against up to five references, and prints the final
assessment. The temporary copy is removed whether or not the run succeeds.`,
	Args: cobra.ExactArgs(1),
	RunE: runAssess,
}

func init() {
	assessCmd.Flags().String("format", "text", "output format: text, json, or yaml")
	assessCmd.Flags().Bool("debug", false, "include abstract, queries, and references in text output")
	assessCmd.Flags().String("output", "", "write the report to this file (format from extension)")
	assessCmd.Flags().Bool("quiet", false, "suppress progress output")

	rootCmd.AddCommand(assessCmd)
}

func runAssess(cmd *cobra.Command, args []string) error {
	formatName, _ := cmd.Flags().GetString("format")
	format, err := report.ParseFormat(formatName)
	if err != nil {
		return err
	}
	debug, _ := cmd.Flags().GetBool("debug")
	output, _ := cmd.Flags().GetString("output")
	quiet, _ := cmd.Flags().GetBool("quiet")

	if err := cfg.Validate(); err != nil {
		return err
	}

	path := args[0]
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	p, err := pipeline.Build(cmd.Context(), cfg, logger,
		pipeline.WithProgress(progressPrinter(cmd.ErrOrStderr(), quiet)))
	if err != nil {
		return err
	}

	r, err := p.RunUpload(cmd.Context(), f, filepath.Base(path))
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "Processing error: %v\n", err)
		return errReported
	}

	if output != "" {
		if err := report.WriteFile(output, r, debug); err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Report written to %s\n", output)
		return nil
	}
	return report.Write(cmd.OutOrStdout(), format, r, debug)
}

// progressPrinter reports each completed stage as one line on w.
func progressPrinter(w io.Writer, quiet bool) pipeline.ProgressFunc {
	if quiet {
		return func(pipeline.Stage, int) {}
	}
	return func(s pipeline.Stage, percent int) {
		fmt.Fprintf(w, "[%3d%%] %s... done\n", percent, s.Label())
		if percent == 100 {
			fmt.Fprintln(w, "Analysis complete!")
		}
	}
}
