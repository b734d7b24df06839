package plugin

import "errors"

// Named failure conditions of the plugin lifecycle. Each is raised at the
// point of detection and propagates unchanged; nothing is retried.
var (
	// ErrManifestNotFound is returned when a plugin has no manifest file
	// under the resolved root.
	ErrManifestNotFound = errors.New("plugin manifest not found")

	// ErrManifestParse is returned when a manifest file cannot be decoded.
	ErrManifestParse = errors.New("plugin manifest cannot be parsed")

	// ErrSchemaFileMissing is returned when the schema file referenced by
	// a manifest does not exist.
	ErrSchemaFileMissing = errors.New("plugin schema file missing")

	// ErrStagingUndeclared is returned by staging operations that require
	// a staging table the manifest does not declare.
	ErrStagingUndeclared = errors.New("plugin declares no staging table")

	// ErrUnknownAction is returned when an action name is not declared in
	// the manifest.
	ErrUnknownAction = errors.New("unknown plugin action")

	// ErrActionFileMissing is returned when a declared action's SQL file
	// does not exist.
	ErrActionFileMissing = errors.New("plugin action file missing")

	// ErrRowFieldCount is returned when a directly inserted row does not
	// split into exactly the declared staging columns.
	ErrRowFieldCount = errors.New("row field count mismatch")

	// ErrNoResultSet is returned when an export action's SQL does not
	// produce rows.
	ErrNoResultSet = errors.New("action produced no result set")
)
