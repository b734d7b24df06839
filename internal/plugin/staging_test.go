package plugin

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stagingCount(t *testing.T, e *Engine) int {
	t.Helper()
	res, err := e.store.Query("SELECT COUNT(*) FROM stg_intra_run_components")
	require.NoError(t, err)
	n, ok := res.Rows[0][0].(int64)
	require.True(t, ok)
	return int(n)
}

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "input.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestCreateStagingIdempotent(t *testing.T) {
	e := newTestEngine(t)

	require.NoError(t, e.CreateStaging("intra_run_components"))
	require.NoError(t, e.CreateStaging("intra_run_components"))
	assert.Equal(t, 0, stagingCount(t, e))
}

func TestCreateStagingWithoutDeclarationIsNoop(t *testing.T) {
	e := newTestEngine(t)
	writePluginFiles(t, e.root, "schema_only", map[string]string{
		"manifest.yaml": "schema: plugin.sql\n",
		"plugin.sql":    "CREATE TABLE IF NOT EXISTS t (id TEXT);",
	})

	require.NoError(t, e.CreateStaging("schema_only"))
	require.NoError(t, e.ClearStaging("schema_only"))
}

func TestLoadCSV(t *testing.T) {
	e := newTestEngine(t)
	csv := writeCSV(t, "run_id,feature_id,component_id\nR001,R001_F0001,C001\nR001,R001_F0002,C001\n")

	require.NoError(t, e.LoadCSV("intra_run_components", csv))
	assert.Equal(t, 2, stagingCount(t, e))
}

func TestLoadCSVAppendsOnRepeat(t *testing.T) {
	e := newTestEngine(t)
	csv := writeCSV(t, "run_id,feature_id,component_id\nR001,R001_F0001,C001\n")

	require.NoError(t, e.LoadCSV("intra_run_components", csv))
	require.NoError(t, e.LoadCSV("intra_run_components", csv))
	assert.Equal(t, 2, stagingCount(t, e))

	require.NoError(t, e.ClearStaging("intra_run_components"))
	assert.Equal(t, 0, stagingCount(t, e))
}

func TestLoadCSVWithoutHeader(t *testing.T) {
	e := newTestEngine(t)
	writePluginFiles(t, e.root, "intra_run_components", map[string]string{
		"manifest.yaml": `schema: plugin.sql
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
      header: false
`,
	})
	csv := writeCSV(t, "R001,R001_F0001,C001\nR001,R001_F0002,C001\n")

	require.NoError(t, e.LoadCSV("intra_run_components", csv))
	assert.Equal(t, 2, stagingCount(t, e))
}

func TestLoadCSVCustomDelimiter(t *testing.T) {
	e := newTestEngine(t)
	writePluginFiles(t, e.root, "intra_run_components", map[string]string{
		"manifest.yaml": `schema: plugin.sql
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
      delimiter: ";"
`,
	})
	csv := writeCSV(t, "run_id;feature_id;component_id\nR001;R001_F0001;C001\n")

	require.NoError(t, e.LoadCSV("intra_run_components", csv))
	assert.Equal(t, 1, stagingCount(t, e))
}

func TestLoadCSVAutodetectDelimiter(t *testing.T) {
	e := newTestEngine(t)
	writePluginFiles(t, e.root, "intra_run_components", map[string]string{
		"manifest.yaml": `schema: plugin.sql
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
      autodetect: true
`,
	})
	csv := writeCSV(t, "run_id|feature_id|component_id\nR001|R001_F0001|C001\nR001|R001_F0002|C002\n")

	require.NoError(t, e.LoadCSV("intra_run_components", csv))
	assert.Equal(t, 2, stagingCount(t, e))
}

func TestLoadCSVColumnMismatchLeavesStagingEmpty(t *testing.T) {
	e := newTestEngine(t)
	// One fewer column than declared.
	csv := writeCSV(t, "run_id,feature_id\nR001,R001_F0001\nR001,R001_F0002\n")

	err := e.LoadCSV("intra_run_components", csv)
	require.Error(t, err)
	assert.Equal(t, 0, stagingCount(t, e))
}

func TestLoadCSVStagingUndeclared(t *testing.T) {
	e := newTestEngine(t)
	writePluginFiles(t, e.root, "schema_only", map[string]string{
		"manifest.yaml": "schema: plugin.sql\n",
	})
	csv := writeCSV(t, "a,b\n1,2\n")

	err := e.LoadCSV("schema_only", csv)
	require.ErrorIs(t, err, ErrStagingUndeclared)
}

func TestInsertRows(t *testing.T) {
	e := newTestEngine(t)

	n, err := e.InsertRows("intra_run_components", []string{
		"R001,R001_F0001,C001",
		"R001, R001_F0002, C001", // fields are trimmed
	}, ",")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, 2, stagingCount(t, e))

	res, err := e.store.Query("SELECT feature_id FROM stg_intra_run_components ORDER BY feature_id")
	require.NoError(t, err)
	assert.Equal(t, "R001_F0001", res.StringRows()[0][0])
	assert.Equal(t, "R001_F0002", res.StringRows()[1][0])
}

func TestInsertRowsCustomDelimiter(t *testing.T) {
	e := newTestEngine(t)

	n, err := e.InsertRows("intra_run_components", []string{"R001|R001_F0001|C001"}, "|")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestInsertRowsFieldCountMismatch(t *testing.T) {
	e := newTestEngine(t)

	// The first row commits, the second fails, the third is never
	// attempted.
	n, err := e.InsertRows("intra_run_components", []string{
		"R001,R001_F0001,C001",
		"R001,R001_F0002",
		"R001,R001_F0003,C002",
	}, ",")
	require.ErrorIs(t, err, ErrRowFieldCount)
	assert.Contains(t, err.Error(), "R001,R001_F0002")
	assert.Equal(t, 1, n)
	assert.Equal(t, 1, stagingCount(t, e))
}

func TestInsertRowsStagingUndeclared(t *testing.T) {
	e := newTestEngine(t)
	writePluginFiles(t, e.root, "schema_only", map[string]string{
		"manifest.yaml": "schema: plugin.sql\n",
	})

	_, err := e.InsertRows("schema_only", []string{"a,b"}, ",")
	require.ErrorIs(t, err, ErrStagingUndeclared)
}
