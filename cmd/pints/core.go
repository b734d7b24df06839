package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pints-nts/pints/internal/core"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the core schema (idempotent)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := core.InitSchema(store()); err != nil {
			return err
		}
		fmt.Printf("Schema initialized in %s\n", dbPath)
		return nil
	},
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the minimal PSI-MS dictionary",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := core.SeedVocabulary(store()); err != nil {
			return err
		}
		fmt.Printf("Seeded minimal PSI-MS dictionary in %s\n", dbPath)
		return nil
	},
}

func newAddSampleCmd() *cobra.Command {
	var id, sampleType, desc string
	cmd := &cobra.Command{
		Use:   "add-sample",
		Short: "Upsert a sample",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			sample := &core.Sample{
				SampleID:    id,
				SampleType:  optional(sampleType),
				Description: optional(desc),
			}
			if err := core.NewService(store()).AddSample(sample); err != nil {
				return err
			}
			fmt.Printf("Sample %q upserted\n", sample.SampleID)
			return nil
		},
	}
	cmd.Flags().StringVar(&id, "id", "", "Sample ID (generated when omitted)")
	cmd.Flags().StringVar(&sampleType, "type", "", "Sample type")
	cmd.Flags().StringVar(&desc, "desc", "", "Description")
	return cmd
}

func newAddRunCmd() *cobra.Command {
	var id, sample, acqTime, instrument, method, batch string
	cmd := &cobra.Command{
		Use:   "add-run",
		Short: "Upsert an acquisition run (requires an existing sample)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			run := &core.Run{
				RunID:      id,
				SampleID:   sample,
				AcqTimeUTC: optional(acqTime),
				Instrument: optional(instrument),
				MethodID:   optional(method),
				BatchID:    optional(batch),
			}
			if err := core.NewService(store()).AddRun(run); err != nil {
				return err
			}
			fmt.Printf("Run %q upserted\n", run.RunID)
			return nil
		},
	}
	cmd.Flags().StringVar(&id, "id", "", "Run ID (generated when omitted)")
	cmd.Flags().StringVar(&sample, "sample", "", "Sample ID")
	cmd.Flags().StringVar(&acqTime, "time", "", `Acquisition time UTC, e.g. "2025-09-12 09:00:00"`)
	cmd.Flags().StringVar(&instrument, "instrument", "", "Instrument identifier")
	cmd.Flags().StringVar(&method, "method", "", "Method ID")
	cmd.Flags().StringVar(&batch, "batch", "", "Batch ID")
	_ = cmd.MarkFlagRequired("sample")
	return cmd
}

func newAddFeatureCmd() *cobra.Command {
	var id, run string
	var mz, rt, area float64
	cmd := &cobra.Command{
		Use:   "add-feature",
		Short: "Upsert a detected feature (requires an existing run)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			feature := &core.Feature{
				FeatureID: id,
				RunID:     run,
				MZ:        mz,
			}
			if cmd.Flags().Changed("rt") {
				feature.RT = &rt
			}
			if cmd.Flags().Changed("area") {
				feature.Area = &area
			}
			if err := core.NewService(store()).AddFeature(feature); err != nil {
				return err
			}
			fmt.Printf("Feature %q upserted\n", feature.FeatureID)
			return nil
		},
	}
	cmd.Flags().StringVar(&id, "id", "", "Feature ID (generated when omitted)")
	cmd.Flags().StringVar(&run, "run", "", "Run ID")
	cmd.Flags().Float64Var(&mz, "mz", 0, "Mass-to-charge ratio")
	cmd.Flags().Float64Var(&rt, "rt", 0, "Retention time (s)")
	cmd.Flags().Float64Var(&area, "area", 0, "Integrated peak area")
	_ = cmd.MarkFlagRequired("run")
	_ = cmd.MarkFlagRequired("mz")
	return cmd
}

var showVersionCmd = &cobra.Command{
	Use:   "show-version",
	Short: "Print schema and vocabulary versions",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		schema, vocab, err := core.Versions(store())
		if err != nil {
			return err
		}
		fmt.Println("Schema version:", schema)
		fmt.Println("Vocab  version:", vocab)
		return nil
	},
}

var listTablesCmd = &cobra.Command{
	Use:   "list-tables",
	Short: "Show tables and views in the database",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		res, err := core.ListTables(store())
		if err != nil {
			return err
		}
		printResult(res)
		return nil
	},
}

func newExportCmd() *cobra.Command {
	var out string
	var noHeader bool
	cmd := &cobra.Command{
		Use:   "export <table>",
		Short: "Export a table or view to CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := core.NewService(store()).ExportTable(args[0], out, !noHeader); err != nil {
				return err
			}
			fmt.Printf("Exported %q to %s\n", args[0], out)
			return nil
		},
	}
	cmd.Flags().StringVar(&out, "out", "", "Output CSV file")
	cmd.Flags().BoolVar(&noHeader, "no-header", false, "Disable the header row")
	_ = cmd.MarkFlagRequired("out")
	return cmd
}

// optional maps an empty flag value to a NULL column.
func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
