package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pints-nts/pints/internal/plugin"
)

func newPluginCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plugin",
		Short: "Manifest-driven plugin lifecycle commands",
	}
	cmd.AddCommand(
		newPluginInstallCmd(),
		newPluginStagingCreateCmd(),
		newPluginStagingClearCmd(),
		newPluginLoadCSVCmd(),
		newPluginInsertCmd(),
		newPluginActionCmd(),
		newPluginExportCmd(),
		newPluginApplyCmd(),
	)
	return cmd
}

// pluginFlags adds the flags shared by every plugin subcommand.
func pluginFlags(cmd *cobra.Command, name, root *string) {
	cmd.Flags().StringVar(name, "name", "", "Plugin name")
	cmd.Flags().StringVar(root, "root", defaultPluginRoot(),
		"Plugin root directory (default: $PINTS_PLUGIN_ROOT or ./plugins)")
	_ = cmd.MarkFlagRequired("name")
}

func newPluginInstallCmd() *cobra.Command {
	var name, root string
	cmd := &cobra.Command{
		Use:   "install",
		Short: "Apply the plugin schema (idempotent)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := plugin.NewEngine(store(), root).Install(name); err != nil {
				return err
			}
			fmt.Printf("Installed plugin %q\n", name)
			return nil
		},
	}
	pluginFlags(cmd, &name, &root)
	return cmd
}

func newPluginStagingCreateCmd() *cobra.Command {
	var name, root string
	cmd := &cobra.Command{
		Use:   "staging-create",
		Short: "Create the staging table from the manifest",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := plugin.NewEngine(store(), root).CreateStaging(name); err != nil {
				return err
			}
			fmt.Printf("Staging created for %q\n", name)
			return nil
		},
	}
	pluginFlags(cmd, &name, &root)
	return cmd
}

func newPluginStagingClearCmd() *cobra.Command {
	var name, root string
	cmd := &cobra.Command{
		Use:   "staging-clear",
		Short: "Delete all staged rows, keeping the table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := plugin.NewEngine(store(), root).ClearStaging(name); err != nil {
				return err
			}
			fmt.Printf("Staging cleared for %q\n", name)
			return nil
		},
	}
	pluginFlags(cmd, &name, &root)
	return cmd
}

func newPluginLoadCSVCmd() *cobra.Command {
	var name, root, csvPath string
	cmd := &cobra.Command{
		Use:   "load-csv",
		Short: "Bulk-load a CSV into staging (columns from the manifest)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := plugin.NewEngine(store(), root).LoadCSV(name, csvPath); err != nil {
				return err
			}
			fmt.Printf("CSV loaded into staging for %q: %s\n", name, csvPath)
			return nil
		},
	}
	pluginFlags(cmd, &name, &root)
	cmd.Flags().StringVar(&csvPath, "csv", "", "CSV file to load")
	_ = cmd.MarkFlagRequired("csv")
	return cmd
}

func newPluginInsertCmd() *cobra.Command {
	var name, root, delimiter string
	var rows []string
	var materialize bool
	cmd := &cobra.Command{
		Use:   "insert",
		Short: "Insert rows directly into staging (fields in manifest column order)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			engine := plugin.NewEngine(store(), root)
			n, err := engine.InsertRows(name, rows, delimiter)
			if err != nil {
				return err
			}
			fmt.Printf("Inserted %d row(s) into staging for %q\n", n, name)
			if materialize {
				if _, err := engine.RunAction(name, plugin.ActionMaterialize, nil); err != nil {
					return err
				}
				fmt.Println("Materialized after insert")
			}
			return nil
		},
	}
	pluginFlags(cmd, &name, &root)
	cmd.Flags().StringArrayVar(&rows, "rows", nil,
		`One or more rows like "R001,R001_F0001,C001" (order must match staging columns)`)
	cmd.Flags().StringVar(&delimiter, "delimiter", ",", "Field delimiter in --rows")
	cmd.Flags().BoolVar(&materialize, "materialize", false, `Run "materialize" after inserting`)
	_ = cmd.MarkFlagRequired("rows")
	return cmd
}

func newPluginActionCmd() *cobra.Command {
	var name, root, action string
	var params []string
	cmd := &cobra.Command{
		Use:   "action",
		Short: "Run a declared action (e.g. materialize, export)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			values, err := parseParams(params)
			if err != nil {
				return err
			}
			res, err := plugin.NewEngine(store(), root).RunAction(name, action, values)
			if err != nil {
				return err
			}
			printResult(res)
			return nil
		},
	}
	pluginFlags(cmd, &name, &root)
	cmd.Flags().StringVar(&action, "action", "", "Action name")
	cmd.Flags().StringArrayVar(&params, "param", nil, "key=value (repeatable)")
	_ = cmd.MarkFlagRequired("action")
	return cmd
}

func newPluginExportCmd() *cobra.Command {
	var name, root, action, out string
	var noHeader bool
	cmd := &cobra.Command{
		Use:   "export",
		Short: `Export an action's result to CSV (action defaults to "export")`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := plugin.NewEngine(store(), root).Export(name, action, out, !noHeader); err != nil {
				return err
			}
			fmt.Printf("Exported %s:%s -> %s\n", name, action, out)
			return nil
		},
	}
	pluginFlags(cmd, &name, &root)
	cmd.Flags().StringVar(&action, "action", plugin.ActionExport, "Action to export")
	cmd.Flags().StringVar(&out, "out", "", "Output CSV file")
	cmd.Flags().BoolVar(&noHeader, "no-header", false, "Disable the header row")
	_ = cmd.MarkFlagRequired("out")
	return cmd
}

func newPluginApplyCmd() *cobra.Command {
	var name, root, csvPath string
	var clearStaging bool
	cmd := &cobra.Command{
		Use:   "apply",
		Short: "One-shot: install + create staging + load CSV + materialize",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := plugin.NewEngine(store(), root).Apply(name, csvPath, clearStaging); err != nil {
				return err
			}
			fmt.Printf("Applied plugin %q from CSV: %s\n", name, csvPath)
			return nil
		},
	}
	pluginFlags(cmd, &name, &root)
	cmd.Flags().StringVar(&csvPath, "csv", "", "CSV file to load into staging")
	cmd.Flags().BoolVar(&clearStaging, "clear-staging", false, "Clear staging after materializing")
	_ = cmd.MarkFlagRequired("csv")
	return cmd
}

// parseParams converts repeated key=value flags into an action parameter
// map, coercing values that look numeric to float64.
func parseParams(kvs []string) (map[string]any, error) {
	if len(kvs) == 0 {
		return nil, nil
	}
	out := make(map[string]any, len(kvs))
	for _, kv := range kvs {
		k, v, ok := strings.Cut(kv, "=")
		if !ok {
			return nil, fmt.Errorf("--param expects key=value, got: %s", kv)
		}
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			out[k] = f
		} else {
			out[k] = v
		}
	}
	return out, nil
}
