package main

import (
	"github.com/charmbracelet/lipgloss"
	lgtable "github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"
)

var (
	headerRowStyle = lipgloss.NewStyle().Reverse(true).
			Padding(0, 2, 0, 2).Align(lipgloss.Center)
	rowStyle    = lipgloss.NewStyle().PaddingLeft(1).PaddingRight(1)
	redRowStyle = rowStyle.
			Foreground(lipgloss.AdaptiveColor{Light: "9", Dark: "9"}).
			Bold(true)
)

type namedLog struct {
	name, content string
}

// checkReport is a table with one row per step.
type checkReport struct {
	table *lgtable.Table
	count int
	reds  map[int]bool
	logs  []namedLog
}

func newCheckReport() *checkReport {
	r := &checkReport{reds: make(map[int]bool)}
	r.table = lgtable.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("99"))).
		Headers("Step", "Status", "Details").
		StyleFunc(func(row, col int) lipgloss.Style {
			if row < 0 {
				return headerRowStyle
			}
			if r.reds[row] {
				return redRowStyle
			}
			return rowStyle
		})
	return r
}

// Step adds a row for the step, and returns whether it failed.
func (r *checkReport) Step(name, details string, err error) (failed bool) {
	status := "ok"
	if err != nil {
		status = "failed"
		details = err.Error()
		r.reds[r.count] = true
	}
	r.table.Row(name, status, details)
	r.count++
	return err != nil
}

// Log adds a log to be printed after the table.
func (r *checkReport) Log(name, content string) {
	r.logs = append(r.logs, namedLog{name, content})
}

// Render the table.
func (r *checkReport) Render() string {
	return r.table.Render()
}

func humanBytes(n int) string {
	return humanize.Bytes(uint64(n))
}
