package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseParams(t *testing.T) {
	params, err := parseParams([]string{"min_size=3", "label=high", "cutoff=0.75"})
	require.NoError(t, err)
	assert.Equal(t, 3.0, params["min_size"])
	assert.Equal(t, "high", params["label"])
	assert.Equal(t, 0.75, params["cutoff"])
}

func TestParseParamsEmpty(t *testing.T) {
	params, err := parseParams(nil)
	require.NoError(t, err)
	assert.Nil(t, params)
}

func TestParseParamsRejectsBareKey(t *testing.T) {
	_, err := parseParams([]string{"min_size"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "key=value")
}

func TestResolveQueryLiteral(t *testing.T) {
	stmt, err := resolveQuery("SELECT 1")
	require.NoError(t, err)
	assert.Equal(t, "SELECT 1", stmt)
}

func TestResolveQueryFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "query.sql")
	require.NoError(t, os.WriteFile(path, []byte("SELECT 2"), 0o644))

	stmt, err := resolveQuery(path)
	require.NoError(t, err)
	assert.Equal(t, "SELECT 2", stmt)
}

func TestResolveQueryMissingFileTreatedAsLiteral(t *testing.T) {
	stmt, err := resolveQuery("/no/such/file.sql")
	require.NoError(t, err)
	assert.Equal(t, "/no/such/file.sql", stmt)
}

func TestOptional(t *testing.T) {
	assert.Nil(t, optional(""))
	require.NotNil(t, optional("x"))
	assert.Equal(t, "x", *optional("x"))
}
