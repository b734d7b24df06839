package db

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
)

// ExportCSV runs a row-returning statement and writes the result to a CSV
// file with a comma delimiter. The file appears atomically: content is
// written to a temp file in the target directory and renamed into place.
func (s *Store) ExportCSV(query string, outPath string, header bool, args ...any) error {
	res, err := s.Query(query, args...)
	if err != nil {
		return err
	}
	return WriteCSV(res, outPath, header)
}

// WriteCSV writes a result set to a CSV file, optionally with a header row.
func WriteCSV(res *Result, outPath string, header bool) error {
	dir := filepath.Dir(outPath)
	tmp, err := os.CreateTemp(dir, filepath.Base(outPath)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp export file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	w := csv.NewWriter(tmp)
	if header {
		if err := w.Write(res.Columns); err != nil {
			tmp.Close()
			return fmt.Errorf("write csv header: %w", err)
		}
	}
	for _, row := range res.StringRows() {
		if err := w.Write(row); err != nil {
			tmp.Close()
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		tmp.Close()
		return fmt.Errorf("flush csv: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp export file: %w", err)
	}

	if err := os.Rename(tmpName, outPath); err != nil {
		return fmt.Errorf("rename export file into place: %w", err)
	}
	return nil
}
