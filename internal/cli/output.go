package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

const formatJSON = "json"

var headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)

var cellStyle = lipgloss.NewStyle().Padding(0, 1)

// printer renders command results as a table or as JSON.
type printer struct {
	out    io.Writer
	format string
}

func newPrinter(out io.Writer, format string) *printer {
	return &printer{out: out, format: format}
}

// print writes v as JSON, or headers and rows as a table.
func (p *printer) print(v any, headers []string, rows [][]string) error {
	if p.format == formatJSON {
		enc := json.NewEncoder(p.out)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	}

	if len(rows) == 0 {
		_, err := fmt.Fprintln(p.out, "No results")
		return err
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers(headers...).
		Rows(rows...)
	_, err := fmt.Fprintln(p.out, t.Render())
	return err
}

// printFields writes one record as a two-column field/value table.
func (p *printer) printFields(v any, fields [][2]string) error {
	rows := make([][]string, len(fields))
	for i, f := range fields {
		rows[i] = []string{f[0], f[1]}
	}
	return p.print(v, []string{"Field", "Value"}, rows)
}

// message writes a plain line in table mode. JSON mode prints v instead.
func (p *printer) message(v any, format string, args ...any) error {
	if p.format == formatJSON {
		return p.print(v, nil, nil)
	}
	_, err := fmt.Fprintf(p.out, format+"\n", args...)
	return err
}

func hours(h float64) string {
	return strconv.FormatFloat(h, 'f', 2, 64)
}

func money(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
