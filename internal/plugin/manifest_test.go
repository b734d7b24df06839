package plugin

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pints-nts/pints/internal/db"
)

const fixtureManifest = `schema: plugin.sql
staging:
  table: stg_intra_run_components
  columns:
    - name: run_id
      type: TEXT
    - name: feature_id
      type: TEXT
    - name: component_id
      type: TEXT
  load:
    csv:
      header: true
      delimiter: ","
actions:
  - name: materialize
    file: materialize.sql
  - name: export
    file: export.sql
  - name: pair
    file: pair.sql
    params:
      - name: a
        default: 1
      - name: b
        default: 2
  - name: literal
    file: literal.sql
    params:
      - name: unused
        default: 99
  - name: ghost
    file: missing.sql
`

var fixtureFiles = map[string]string{
	"manifest.yaml": fixtureManifest,
	"plugin.sql": `CREATE TABLE IF NOT EXISTS intra_run_components (
  run_id       TEXT NOT NULL,
  component_id TEXT NOT NULL,
  feature_id   TEXT NOT NULL,
  PRIMARY KEY (run_id, component_id, feature_id)
);`,
	"materialize.sql": `INSERT OR REPLACE INTO intra_run_components (run_id, component_id, feature_id)
SELECT run_id, component_id, feature_id FROM stg_intra_run_components;`,
	"export.sql":  `SELECT run_id, component_id, feature_id FROM intra_run_components ORDER BY run_id, component_id, feature_id;`,
	"pair.sql":    `SELECT ? AS a, ? AS b`,
	"literal.sql": `SELECT 42 AS answer`,
}

// writePluginFiles lays out a plugin directory under root.
func writePluginFiles(t *testing.T, root, name string, files map[string]string) {
	t.Helper()
	dir := filepath.Join(root, name)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	for fname, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, fname), []byte(content), 0o644))
	}
}

// newTestEngine returns an engine over a fresh store, with the fixture
// plugin laid out under a fresh root.
func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	root := t.TempDir()
	writePluginFiles(t, root, "intra_run_components", fixtureFiles)
	store := db.New(filepath.Join(t.TempDir(), "test.db"))
	return NewEngine(store, root)
}

func TestLoadManifest(t *testing.T) {
	root := t.TempDir()
	writePluginFiles(t, root, "intra_run_components", fixtureFiles)

	m, err := LoadManifest(root, "intra_run_components")
	require.NoError(t, err)

	assert.Equal(t, "intra_run_components", m.Name)
	assert.Equal(t, "plugin.sql", m.Schema)
	require.True(t, m.HasStaging())
	assert.Equal(t, "stg_intra_run_components", m.Staging.Table)
	require.Len(t, m.Staging.Columns, 3)
	assert.Equal(t, ColumnSpec{Name: "run_id", Type: "TEXT"}, m.Staging.Columns[0])
	assert.True(t, m.Staging.Load.CSV.HasHeader())
	assert.Len(t, m.Actions, 5)
}

func TestLoadManifestNotFound(t *testing.T) {
	_, err := LoadManifest(t.TempDir(), "nope")
	require.ErrorIs(t, err, ErrManifestNotFound)
}

func TestLoadManifestParseError(t *testing.T) {
	root := t.TempDir()
	writePluginFiles(t, root, "bad", map[string]string{
		"manifest.yaml": "schema: [unterminated",
	})

	_, err := LoadManifest(root, "bad")
	require.ErrorIs(t, err, ErrManifestParse)
}

func TestLoadManifestDeterministic(t *testing.T) {
	root := t.TempDir()
	writePluginFiles(t, root, "intra_run_components", fixtureFiles)

	m1, err := LoadManifest(root, "intra_run_components")
	require.NoError(t, err)
	m2, err := LoadManifest(root, "intra_run_components")
	require.NoError(t, err)
	assert.Equal(t, m1, m2)
}

func TestLoadManifestIgnoresUnknownKeys(t *testing.T) {
	root := t.TempDir()
	writePluginFiles(t, root, "extra", map[string]string{
		"manifest.yaml": "schema: plugin.sql\nfuture_key: whatever\nstaging:\n  table: t\n  columns:\n    - name: a\n      type: TEXT\n      nullable: false\n",
	})

	m, err := LoadManifest(root, "extra")
	require.NoError(t, err)
	assert.Equal(t, "plugin.sql", m.Schema)
	assert.True(t, m.HasStaging())
}

func TestCSVOptionsHeaderDefaultsTrue(t *testing.T) {
	var opts CSVOptions
	assert.True(t, opts.HasHeader())

	off := false
	opts.Header = &off
	assert.False(t, opts.HasHeader())
}

func TestManifestActionLookup(t *testing.T) {
	root := t.TempDir()
	writePluginFiles(t, root, "intra_run_components", fixtureFiles)
	m, err := LoadManifest(root, "intra_run_components")
	require.NoError(t, err)

	spec, err := m.Action("pair")
	require.NoError(t, err)
	assert.Equal(t, "pair.sql", spec.File)
	require.Len(t, spec.Params, 2)
	assert.Equal(t, "a", spec.Params[0].Name)

	_, err = m.Action("does-not-exist")
	require.ErrorIs(t, err, ErrUnknownAction)
}
