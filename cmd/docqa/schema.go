package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/medianest/docqa/service"
)

func schemaCmd() *cobra.Command {
	var validatePath string

	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON Schema for quality report output",
		Long: `Print the JSON Schema (Draft 2020-12) that documents the structure
of docqa dashboard --json output. Useful for validating saved reports
or generating client types.

Examples:
  # Print the schema
  docqa schema

  # Validate a saved report
  docqa schema --validate qa-results/comprehensive_qa_report.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if validatePath == "" {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), service.ReportSchema)
				return err
			}

			data, err := os.ReadFile(validatePath)
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", validatePath, err)
			}
			if err := service.ValidateReportJSON(data); err != nil {
				return fmt.Errorf("%s: %w", validatePath, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s conforms to the quality report schema\n", validatePath)
			return nil
		},
	}

	cmd.Flags().StringVar(&validatePath, "validate", "", "Validate a saved report file against the schema")
	return cmd
}
