package importer

import (
	"regexp"
	"strings"
)

// SplitLine splits one CSV line on commas outside double quotes. A doubled quote
// inside a quoted section is a literal quote. Cells are trimmed.
func SplitLine(line string) []string {
	var (
		cells    []string
		cur      strings.Builder
		inQuotes bool
	)

	for i := 0; i < len(line); i++ {
		c := line[i]

		switch {
		case c == '"' && inQuotes && i+1 < len(line) && line[i+1] == '"':
			cur.WriteByte('"')
			i++
		case c == '"':
			inQuotes = !inQuotes
		case c == ',' && !inQuotes:
			cells = append(cells, strings.TrimSpace(cur.String()))
			cur.Reset()
		default:
			cur.WriteByte(c)
		}
	}

	return append(cells, strings.TrimSpace(cur.String()))
}

var (
	dollarsCell = regexp.MustCompile(`^\$\d+$`)
	centsCell   = regexp.MustCompile(`^\d+\.\d{2}$`)
)

// reconstructCurrency rejoins amounts like "$1,234.56" that an unquoted export split
// into "$1" and "234.56".
func reconstructCurrency(cells []string) []string {
	out := make([]string, 0, len(cells))

	for i := 0; i < len(cells); i++ {
		if i+1 < len(cells) && dollarsCell.MatchString(cells[i]) && centsCell.MatchString(cells[i+1]) {
			out = append(out, cells[i]+","+cells[i+1])
			i++

			continue
		}

		out = append(out, cells[i])
	}

	return out
}

func splitRow(line string) []string {
	return reconstructCurrency(SplitLine(line))
}

// pad extends row with empty cells up to n.
func pad(row []string, n int) []string {
	for len(row) < n {
		row = append(row, "")
	}

	return row
}
