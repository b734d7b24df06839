// Package plugin implements the manifest-driven plugin lifecycle: schema
// install, staging, action execution, and export against a pints store.
//
// A plugin lives in a directory named after it under a plugin root and
// describes itself in manifest.yaml:
//
//	schema: plugin.sql
//	staging:
//	  table: stg_intra_run_components
//	  columns:
//	    - name: run_id
//	      type: TEXT
//	  load:
//	    csv:
//	      header: true
//	      delimiter: ","
//	actions:
//	  - name: materialize
//	    file: materialize.sql
//	  - name: component_sizes
//	    file: component_sizes.sql
//	    params:
//	      - name: min_size
//	        default: 2
package plugin

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ManifestFileName is the fixed manifest file name inside a plugin directory.
const ManifestFileName = "manifest.yaml"

// DefaultRoot is the plugin root used when the caller does not supply one.
const DefaultRoot = "plugins"

// Manifest is a plugin's declarative description. It is parsed fresh for
// every operation and never mutated afterwards.
type Manifest struct {
	// Name is the plugin name; it is derived from the plugin directory,
	// not read from the file.
	Name string `yaml:"-"`

	// Schema is the plugin schema file, relative to the plugin directory.
	Schema string `yaml:"schema"`

	// Staging declares the plugin's staging table, if any.
	Staging *StagingSpec `yaml:"staging"`

	// Actions are the plugin's named SQL actions.
	Actions []ActionSpec `yaml:"actions"`
}

// StagingSpec declares a staging table: the only contract between
// external bulk data and the store.
type StagingSpec struct {
	Table   string       `yaml:"table"`
	Columns []ColumnSpec `yaml:"columns"`
	Load    LoadSpec     `yaml:"load"`
}

// ColumnSpec is one staging column in declared order.
type ColumnSpec struct {
	Name string `yaml:"name"`
	Type string `yaml:"type"`
}

// LoadSpec holds bulk-load options.
type LoadSpec struct {
	CSV CSVOptions `yaml:"csv"`
}

// CSVOptions configure how a CSV file is read into staging.
type CSVOptions struct {
	// Header reports whether the file carries a header row. Defaults to
	// true when omitted.
	Header *bool `yaml:"header"`

	// AutoDetect sniffs the delimiter from the file's first line.
	AutoDetect bool `yaml:"autodetect"`

	// Delimiter is the field delimiter. Defaults to "," when omitted and
	// when autodetection finds nothing better.
	Delimiter string `yaml:"delimiter"`
}

// HasHeader resolves the header option with its default.
func (o CSVOptions) HasHeader() bool {
	return o.Header == nil || *o.Header
}

// ActionSpec is a named SQL action with optional declared parameters.
// Parameter order is the binding order.
type ActionSpec struct {
	Name   string      `yaml:"name"`
	File   string      `yaml:"file"`
	Params []ParamSpec `yaml:"params"`
}

// ParamSpec declares one action parameter and its optional default.
type ParamSpec struct {
	Name    string `yaml:"name"`
	Default any    `yaml:"default"`
}

// HasStaging reports whether the manifest declares a usable staging table.
func (m *Manifest) HasStaging() bool {
	return m.Staging != nil && m.Staging.Table != "" && len(m.Staging.Columns) > 0
}

// Action resolves an action by name.
func (m *Manifest) Action(name string) (*ActionSpec, error) {
	for i := range m.Actions {
		if m.Actions[i].Name == name {
			return &m.Actions[i], nil
		}
	}
	return nil, fmt.Errorf("%w: %q in plugin %q", ErrUnknownAction, name, m.Name)
}

// Dir returns the plugin's directory under root.
func Dir(root, name string) string {
	if root == "" {
		root = DefaultRoot
	}
	return filepath.Join(root, name)
}

// LoadManifest reads and parses <root>/<name>/manifest.yaml. Unknown keys
// are ignored. Two loads of the same file produce structurally equal
// manifests.
func LoadManifest(root, name string) (*Manifest, error) {
	path := filepath.Join(Dir(root, name), ManifestFileName)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: plugin %q (looked for %s)", ErrManifestNotFound, name, path)
		}
		return nil, fmt.Errorf("read manifest %s: %w", path, err)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrManifestParse, path, err)
	}
	m.Name = name
	return &m, nil
}
