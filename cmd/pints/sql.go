package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pints-nts/pints/internal/core"
)

func newMigrateCmd() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply a local .sql file to the database (plugins or migrations)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := os.Stat(file); err != nil {
				return fmt.Errorf("file not found: %s", file)
			}
			if err := core.ApplyFile(store(), file); err != nil {
				return err
			}
			fmt.Printf("Applied SQL: %s\n", file)
			return nil
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "Path to a .sql file")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func newRunSQLCmd() *cobra.Command {
	var query string
	cmd := &cobra.Command{
		Use:   "run-sql",
		Short: "Run a statement (or a .sql file) and print the result",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			stmt, err := resolveQuery(query)
			if err != nil {
				return err
			}
			res, err := store().RunSQL(stmt)
			if err != nil {
				return err
			}
			if res == nil {
				fmt.Println("Statement executed (no result set).")
				return nil
			}
			printResult(res)
			return nil
		},
	}
	cmd.Flags().StringVar(&query, "query", "", `A statement like "SELECT 1" or a path to a .sql file`)
	_ = cmd.MarkFlagRequired("query")
	return cmd
}

func newExportSQLCmd() *cobra.Command {
	var query, out string
	var noHeader bool
	cmd := &cobra.Command{
		Use:   "export-sql",
		Short: "Export the result of a SELECT (or a .sql file) to CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			stmt, err := resolveQuery(query)
			if err != nil {
				return err
			}
			if err := store().ExportCSV(stmt, out, !noHeader); err != nil {
				return err
			}
			fmt.Printf("Exported query to %s\n", out)
			return nil
		},
	}
	cmd.Flags().StringVar(&query, "query", "", `A SELECT like "SELECT * FROM features" or a path to a .sql file`)
	cmd.Flags().StringVar(&out, "out", "", "Output CSV file")
	cmd.Flags().BoolVar(&noHeader, "no-header", false, "Disable the header row")
	_ = cmd.MarkFlagRequired("query")
	_ = cmd.MarkFlagRequired("out")
	return cmd
}

// resolveQuery accepts either literal SQL or a path to a .sql file.
func resolveQuery(q string) (string, error) {
	if strings.HasSuffix(strings.ToLower(q), ".sql") {
		if _, err := os.Stat(q); err == nil {
			data, err := os.ReadFile(q)
			if err != nil {
				return "", fmt.Errorf("read %s: %w", q, err)
			}
			return string(data), nil
		}
	}
	return q, nil
}
