// Command seedstates converts the GST state-code Excel master into a SQL
// seed file. The first two digits of every GSTIN encode one of these codes.
// Usage: go run ./cmd/seedstates
// Output: db/seeds/state_codes.sql
package main

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/xuri/excelize/v2"
)

type stateEntry struct {
	code string
	name string
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	xlsxPath := "GST_State_Code_Master.xlsx"
	outPath := "db/seeds/state_codes.sql"

	f, err := excelize.OpenFile(xlsxPath)
	if err != nil {
		return fmt.Errorf("open Excel file: %w", err)
	}
	defer func() { _ = f.Close() }()

	entries, err := parseStateSheet(f)
	if err != nil {
		return fmt.Errorf("parse state sheet: %w", err)
	}
	log.Printf("state sheet: %d entries", len(entries))

	out, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	defer func() { _ = out.Close() }()

	fmt.Fprintln(out, "-- GST state code seed data generated from Excel.")
	fmt.Fprintf(out, "-- %d entries.\n", len(entries))
	fmt.Fprintln(out, "BEGIN;")
	fmt.Fprintln(out, "INSERT INTO state_codes (code, name) VALUES")
	for i, e := range entries {
		sep := ","
		if i == len(entries)-1 {
			sep = ""
		}
		fmt.Fprintf(out, "('%s', '%s')%s\n", e.code, strings.ReplaceAll(e.name, "'", "''"), sep)
	}
	fmt.Fprintln(out, "ON CONFLICT (code) DO UPDATE SET name = EXCLUDED.name;")
	fmt.Fprintln(out, "COMMIT;")

	log.Printf("wrote %s", outPath)
	return nil
}

// parseStateSheet reads the first sheet: column A is the two-digit state
// code, column B the state name. The header row is skipped.
func parseStateSheet(f *excelize.File) ([]stateEntry, error) {
	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}

	seen := make(map[string]bool)
	var entries []stateEntry
	for i, row := range rows {
		if i == 0 || len(row) < 2 {
			continue
		}
		code := strings.TrimSpace(row[0])
		name := strings.TrimSpace(row[1])
		if len(code) == 1 {
			code = "0" + code
		}
		if len(code) != 2 || name == "" || seen[code] {
			continue
		}
		seen[code] = true
		entries = append(entries, stateEntry{code: code, name: name})
	}
	return entries, nil
}
