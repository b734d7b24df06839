package plugin

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pints-nts/pints/internal/db"
)

// RunAction resolves a declared action, binds parameters, and executes its
// SQL. Row-returning SQL yields a Result; other statements yield nil.
//
// Parameter binding is positional over the action's declared parameter
// order: for each declared name the caller's value is used if present,
// else the declared default (which may be nil). When params is nil or
// empty the SQL runs with no bound values at all, even if the action
// declares parameters — callers invoking with zero params rely on the
// SQL's own literals.
func (e *Engine) RunAction(name, action string, params map[string]any) (*db.Result, error) {
	m, err := e.Manifest(name)
	if err != nil {
		return nil, err
	}
	spec, err := m.Action(action)
	if err != nil {
		return nil, err
	}

	stmt, err := e.readActionSQL(m, spec)
	if err != nil {
		return nil, err
	}

	var args []any
	if len(params) > 0 {
		args = make([]any, 0, len(spec.Params))
		for _, p := range spec.Params {
			if v, ok := params[p.Name]; ok {
				args = append(args, v)
			} else {
				args = append(args, p.Default)
			}
		}
	}

	res, err := e.store.RunSQL(stmt, args...)
	if err != nil {
		return nil, fmt.Errorf("action %q of plugin %q: %w", action, name, err)
	}
	return res, nil
}

// readActionSQL loads the action's SQL file relative to the plugin
// directory.
func (e *Engine) readActionSQL(m *Manifest, spec *ActionSpec) (string, error) {
	path := filepath.Join(Dir(e.root, m.Name), spec.File)
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", fmt.Errorf("%w: action %q of plugin %q (looked for %s)",
				ErrActionFileMissing, spec.Name, m.Name, path)
		}
		return "", fmt.Errorf("read action file %s: %w", path, err)
	}
	return string(data), nil
}
