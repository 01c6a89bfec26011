package search

import (
	"strconv"
	"strings"
)

// csvRow is one data row keyed by the report's header columns.
type csvRow map[string]string

// parseReport splits the provider's semicolon-separated CSV. The first
// line is the header; a body containing "ERROR" is an empty report.
func parseReport(body string) []csvRow {
	body = strings.TrimSpace(body)
	if body == "" || strings.Contains(body, "ERROR") {
		return nil
	}

	lines := strings.Split(body, "\n")
	if len(lines) < 2 {
		return nil
	}
	header := splitLine(lines[0])

	var rows []csvRow
	for _, line := range lines[1:] {
		values := splitLine(line)
		if len(values) == 0 {
			continue
		}
		row := make(csvRow, len(header))
		for i, col := range header {
			if i < len(values) {
				row[col] = values[i]
			}
		}
		rows = append(rows, row)
	}
	return rows
}

func splitLine(line string) []string {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil
	}
	parts := strings.Split(line, ";")
	for i := range parts {
		parts[i] = strings.Trim(strings.TrimSpace(parts[i]), `"`)
	}
	return parts
}

func (r csvRow) field(col string) string {
	return r[col]
}

func (r csvRow) intField(col string) int {
	n, err := strconv.Atoi(strings.TrimSpace(r[col]))
	if err != nil {
		return 0
	}
	return n
}

func (r csvRow) floatField(col string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(r[col]), 64)
	if err != nil {
		return 0
	}
	return f
}
