package plugin

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"github.com/golang/glog"
	"gorm.io/gorm"
)

// delimiterCandidates are tried during autodetection, most common first.
var delimiterCandidates = []rune{',', ';', '\t', '|'}

// CreateStaging creates the plugin's staging table from the manifest's
// declared column list. Idempotent. A manifest without staging is a no-op.
func (e *Engine) CreateStaging(name string) error {
	m, err := e.Manifest(name)
	if err != nil {
		return err
	}
	return e.createStaging(m)
}

func (e *Engine) createStaging(m *Manifest) error {
	if !m.HasStaging() {
		glog.V(1).Infof("plugin %s declares no staging table, skipping create", m.Name)
		return nil
	}
	cols := make([]string, len(m.Staging.Columns))
	for i, c := range m.Staging.Columns {
		cols[i] = c.Name + " " + c.Type
	}
	stmt := fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (%s)", m.Staging.Table, strings.Join(cols, ", "))
	if err := e.store.Exec(stmt); err != nil {
		return fmt.Errorf("create staging table %s: %w", m.Staging.Table, err)
	}
	return nil
}

// ClearStaging deletes all rows from the staging table, keeping the table
// and its constraints. A manifest without staging is a no-op.
func (e *Engine) ClearStaging(name string) error {
	m, err := e.Manifest(name)
	if err != nil {
		return err
	}
	if !m.HasStaging() {
		glog.V(1).Infof("plugin %s declares no staging table, skipping clear", m.Name)
		return nil
	}
	if err := e.store.Exec("DELETE FROM " + m.Staging.Table); err != nil {
		return fmt.Errorf("clear staging table %s: %w", m.Staging.Table, err)
	}
	return nil
}

// LoadCSV bulk-loads a CSV file into the staging table, honoring the
// manifest's load options. Staging is created first if needed. The whole
// file is parsed before any row is written, and all rows are inserted in
// one transaction, so a malformed file leaves staging unchanged.
//
// Loading appends: repeated loads without ClearStaging duplicate rows.
// Deduplication, where needed, is the materialize action's job.
func (e *Engine) LoadCSV(name, csvPath string) error {
	m, err := e.Manifest(name)
	if err != nil {
		return err
	}
	if !m.HasStaging() {
		return fmt.Errorf("%w: plugin %q cannot load %s", ErrStagingUndeclared, name, csvPath)
	}
	if err := e.createStaging(m); err != nil {
		return err
	}

	records, err := readCSV(csvPath, m.Staging)
	if err != nil {
		return err
	}

	insert := insertStatement(m.Staging)
	err = e.store.With(func(gdb *gorm.DB) error {
		return gdb.Transaction(func(tx *gorm.DB) error {
			for _, rec := range records {
				if err := tx.Exec(insert, toArgs(rec)...).Error; err != nil {
					return fmt.Errorf("load row into %s: %w", m.Staging.Table, err)
				}
			}
			return nil
		})
	})
	if err != nil {
		return err
	}
	glog.Infof("loaded %d row(s) from %s into staging %s", len(records), csvPath, m.Staging.Table)
	return nil
}

// InsertRows splits delimiter-separated text rows and inserts them into
// staging one at a time, in input order. Each row's field count is checked
// against the declared columns before it is written; the first mismatch
// stops the call and reports the offending row. Rows inserted before the
// failure remain committed. Returns the number of rows inserted.
func (e *Engine) InsertRows(name string, rows []string, delimiter string) (int, error) {
	m, err := e.Manifest(name)
	if err != nil {
		return 0, err
	}
	if !m.HasStaging() {
		return 0, fmt.Errorf("%w: plugin %q cannot insert rows", ErrStagingUndeclared, name)
	}
	if delimiter == "" {
		delimiter = ","
	}
	if err := e.createStaging(m); err != nil {
		return 0, err
	}

	names := columnNames(m.Staging)
	insert := insertStatement(m.Staging)

	total := 0
	err = e.store.With(func(gdb *gorm.DB) error {
		for _, raw := range rows {
			parts := strings.Split(raw, delimiter)
			for i := range parts {
				parts[i] = strings.TrimSpace(parts[i])
			}
			if len(parts) != len(names) {
				return fmt.Errorf("%w: row has %d fields but staging %s expects %d (%s); row: %q",
					ErrRowFieldCount, len(parts), m.Staging.Table, len(names), strings.Join(names, ", "), raw)
			}
			if err := gdb.Exec(insert, toArgs(parts)...).Error; err != nil {
				return fmt.Errorf("insert row %q into %s: %w", raw, m.Staging.Table, err)
			}
			total++
		}
		return nil
	})
	return total, err
}

// readCSV parses the whole file against the declared column count, using
// the manifest's delimiter, header, and autodetection options.
func readCSV(path string, st *StagingSpec) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv %s: %w", path, err)
	}
	defer f.Close()

	delim := []rune(st.Load.CSV.Delimiter + ",")[0]
	if st.Load.CSV.AutoDetect {
		d, err := sniffDelimiter(f)
		if err != nil {
			return nil, fmt.Errorf("autodetect delimiter in %s: %w", path, err)
		}
		delim = d
	}

	r := csv.NewReader(f)
	r.Comma = delim
	r.FieldsPerRecord = len(st.Columns)

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv %s against %d declared column(s): %w", path, len(st.Columns), err)
	}
	if st.Load.CSV.HasHeader() && len(records) > 0 {
		records = records[1:]
	}
	return records, nil
}

// sniffDelimiter picks the candidate delimiter occurring most often in the
// file's first line, then rewinds the file.
func sniffDelimiter(f *os.File) (rune, error) {
	line, err := bufio.NewReader(f).ReadString('\n')
	if err != nil && line == "" {
		return 0, err
	}
	if _, err := f.Seek(0, 0); err != nil {
		return 0, err
	}

	best, bestCount := ',', 0
	for _, cand := range delimiterCandidates {
		if n := strings.Count(line, string(cand)); n > bestCount {
			best, bestCount = cand, n
		}
	}
	return best, nil
}

func columnNames(st *StagingSpec) []string {
	names := make([]string, len(st.Columns))
	for i, c := range st.Columns {
		names[i] = c.Name
	}
	return names
}

// insertStatement builds the positional INSERT for the declared columns,
// in declared order.
func insertStatement(st *StagingSpec) string {
	names := columnNames(st)
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(names)), ", ")
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)", st.Table, strings.Join(names, ", "), placeholders)
}

func toArgs(fields []string) []any {
	args := make([]any, len(fields))
	for i, v := range fields {
		args[i] = v
	}
	return args
}
