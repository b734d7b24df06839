package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/pints-nts/pints/internal/db"
)

// printResult renders a result set as an aligned table, or a placeholder
// for statements without one.
func printResult(res *db.Result) {
	if res == nil {
		fmt.Println("(no result set)")
		return
	}
	printTable(res.Columns, res.StringRows())
}

func printTable(headers []string, rows [][]string) {
	w := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)

	upperHeaders := make([]string, len(headers))
	for i, h := range headers {
		upperHeaders[i] = strings.ToUpper(h)
	}
	fmt.Fprintln(w, strings.Join(upperHeaders, "\t"))

	for _, row := range rows {
		fmt.Fprintln(w, strings.Join(row, "\t"))
	}

	w.Flush()
}
