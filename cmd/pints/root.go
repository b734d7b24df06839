package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pints-nts/pints/internal/db"
	"github.com/pints-nts/pints/internal/plugin"
)

var dbPath string

var rootCmd = &cobra.Command{
	Use:   "pints",
	Short: "Manage a PINTS non-target screening database",
	Long: `pints manages an embedded analytical database holding non-target
chemical screening data (samples, acquisition runs, detected features)
under the versioned PINTS core schema.

Analysis modules extend the database through manifest-driven plugins:
each plugin declares its schema, staging table, and named SQL actions in
a manifest.yaml under the plugin root, and pints drives their lifecycle
(install, stage, load, act, export, apply).`,
	SilenceUsage: true,
}

func init() {
	viper.SetEnvPrefix("pints")
	viper.AutomaticEnv()
	viper.SetDefault("db", "pints.db")
	viper.SetDefault("plugin_root", plugin.DefaultRoot)

	rootCmd.PersistentFlags().StringVar(&dbPath, "db", viper.GetString("db"),
		"Path to the database file (default: $PINTS_DB or pints.db)")

	rootCmd.AddCommand(
		initCmd,
		seedCmd,
		newAddSampleCmd(),
		newAddRunCmd(),
		newAddFeatureCmd(),
		showVersionCmd,
		listTablesCmd,
		newExportCmd(),
		newMigrateCmd(),
		newRunSQLCmd(),
		newExportSQLCmd(),
		newSetPropCmd(),
		newGetPropsCmd(),
		newPluginCmd(),
	)
}

// store returns the Store for the selected database file.
func store() *db.Store {
	return db.New(dbPath)
}

// defaultPluginRoot resolves the plugin root from $PINTS_PLUGIN_ROOT,
// falling back to ./plugins.
func defaultPluginRoot() string {
	return viper.GetString("plugin_root")
}
