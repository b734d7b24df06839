package plugin

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/golang/glog"

	"github.com/pints-nts/pints/internal/db"
)

// Conventional action names used by the orchestrated operations.
const (
	ActionMaterialize = "materialize"
	ActionExport      = "export"
)

// Engine drives the plugin lifecycle against one store and one plugin
// root. The manifest is re-read on every operation; the engine itself
// holds no per-plugin state.
type Engine struct {
	store *db.Store
	root  string
}

// NewEngine returns an Engine over store, resolving plugins under root.
// An empty root falls back to DefaultRoot.
func NewEngine(store *db.Store, root string) *Engine {
	if root == "" {
		root = DefaultRoot
	}
	return &Engine{store: store, root: root}
}

// Manifest loads the named plugin's manifest, fresh.
func (e *Engine) Manifest(name string) (*Manifest, error) {
	return LoadManifest(e.root, name)
}

// Install applies the plugin's schema file to the store. Safe to call
// repeatedly; idempotence is delegated to the author's IF NOT EXISTS
// idioms in the DDL.
func (e *Engine) Install(name string) error {
	m, err := e.Manifest(name)
	if err != nil {
		return err
	}
	path := filepath.Join(Dir(e.root, name), m.Schema)
	ddl, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: plugin %q (looked for %s)", ErrSchemaFileMissing, name, path)
		}
		return fmt.Errorf("read schema file %s: %w", path, err)
	}
	if err := e.store.ExecScript(string(ddl)); err != nil {
		return fmt.Errorf("install plugin %q schema: %w", name, err)
	}
	glog.Infof("installed schema for plugin %s", name)
	return nil
}

// Export runs the named action (conventionally "export") and writes its
// full result set to a CSV file with a comma delimiter.
func (e *Engine) Export(name, action, outPath string, header bool) error {
	if action == "" {
		action = ActionExport
	}
	res, err := e.RunAction(name, action, nil)
	if err != nil {
		return err
	}
	if res == nil {
		return fmt.Errorf("%w: action %q of plugin %q cannot be exported", ErrNoResultSet, action, name)
	}
	if err := db.WriteCSV(res, outPath, header); err != nil {
		return fmt.Errorf("export action %q of plugin %q: %w", action, name, err)
	}
	glog.Infof("exported %s:%s to %s (%d rows)", name, action, outPath, len(res.Rows))
	return nil
}

// Apply is the one-shot lifecycle: install, create staging, load the CSV,
// run the materialize action, and optionally clear staging. Steps are not
// wrapped in one transaction; a failure leaves the store in the state of
// the last successful step.
func (e *Engine) Apply(name, csvPath string, clearStagingAfter bool) error {
	if err := e.Install(name); err != nil {
		return err
	}
	if err := e.CreateStaging(name); err != nil {
		return err
	}
	if err := e.LoadCSV(name, csvPath); err != nil {
		return err
	}
	if _, err := e.RunAction(name, ActionMaterialize, nil); err != nil {
		return err
	}
	if clearStagingAfter {
		if err := e.ClearStaging(name); err != nil {
			return err
		}
	}
	glog.Infof("applied plugin %s from %s", name, csvPath)
	return nil
}
