package core

import (
	"embed"
	"fmt"
	"os"

	"github.com/golang/glog"

	"github.com/pints-nts/pints/internal/db"
)

//go:embed sql/pints_core_v1.sql sql/pints_core_seed_v1.sql
var sqlFS embed.FS

const (
	coreSchemaFile = "sql/pints_core_v1.sql"
	coreSeedFile   = "sql/pints_core_seed_v1.sql"
)

// NotInitialized and NotSeeded are the version placeholders reported
// before init/seed have run.
const (
	NotInitialized = "(not initialized)"
	NotSeeded      = "(not seeded)"
)

// InitSchema applies the bundled core DDL. Idempotent.
func InitSchema(store *db.Store) error {
	if err := applyBundled(store, coreSchemaFile); err != nil {
		return fmt.Errorf("init core schema: %w", err)
	}
	glog.Infof("core schema initialized in %s", store.Path())
	return nil
}

// SeedVocabulary inserts the minimal PSI-MS/UO dictionary. Idempotent.
// The core schema must already be installed.
func SeedVocabulary(store *db.Store) error {
	if err := applyBundled(store, coreSeedFile); err != nil {
		return fmt.Errorf("seed vocabulary: %w", err)
	}
	glog.Infof("vocabulary seeded in %s", store.Path())
	return nil
}

func applyBundled(store *db.Store, name string) error {
	script, err := sqlFS.ReadFile(name)
	if err != nil {
		return fmt.Errorf("read bundled sql %s: %w", name, err)
	}
	return store.ExecScript(string(script))
}

// Versions reports the installed schema and vocabulary versions, with
// placeholders when the store has not been initialized or seeded.
func Versions(store *db.Store) (schema, vocab string, err error) {
	schema, vocab = NotInitialized, NotSeeded

	res, qerr := store.Query("SELECT schema_version FROM schema_info WHERE schema_name = 'pints_schema'")
	if qerr == nil && !res.Empty() {
		schema = res.StringRows()[0][0]
	}
	res, qerr = store.Query("SELECT vocab_version FROM vocabulary_info WHERE vocab_name = 'pints_dictionary'")
	if qerr == nil && !res.Empty() {
		vocab = res.StringRows()[0][0]
	}
	return schema, vocab, nil
}

// ListTables returns the names of all tables and views in the store.
func ListTables(store *db.Store) (*db.Result, error) {
	return store.Query("SELECT name, type FROM sqlite_master WHERE type IN ('table', 'view') ORDER BY name")
}

// ApplyFile applies a local SQL file (a migration or a plugin schema) to
// the store. Idempotence is the file author's responsibility.
func ApplyFile(store *db.Store, path string) error {
	script, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read sql file %s: %w", path, err)
	}
	if err := store.ExecScript(string(script)); err != nil {
		return fmt.Errorf("apply %s: %w", path, err)
	}
	glog.Infof("applied %s to %s", path, store.Path())
	return nil
}
