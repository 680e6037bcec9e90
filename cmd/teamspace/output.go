package main

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
)

// printJSON writes v as indented JSON.
func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// printTable renders rows under header, or the JSON form of raw when --json
// was given.
func (a *cliApp) printTable(w io.Writer, raw any, header table.Row, rows []table.Row) error {
	if a.jsonOut {
		return printJSON(w, raw)
	}
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.AppendHeader(header)
	for _, r := range rows {
		tw.AppendRow(r)
	}
	tw.Render()
	return nil
}

// printFields renders a single record as a two-column table, or as JSON.
func (a *cliApp) printFields(w io.Writer, raw any, fields [][2]any) error {
	if a.jsonOut {
		return printJSON(w, raw)
	}
	rows := make([]table.Row, len(fields))
	for i, f := range fields {
		rows[i] = table.Row{f[0], f[1]}
	}
	return a.printTable(w, raw, table.Row{"Field", "Value"}, rows)
}

func printLine(w io.Writer, format string, args ...any) error {
	_, err := fmt.Fprintf(w, format+"\n", args...)
	return err
}

func stamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Local().Format(time.DateTime)
}

func ints(items []int) string {
	parts := make([]string, len(items))
	for i, n := range items {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, ",")
}

func sortedStrings(items []string) []string {
	sort.Strings(items)
	return items
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
