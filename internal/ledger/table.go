package ledger

import (
	"fmt"
	"strings"
)

// Column widths for the tabular view, in file order. Cells are left-justified
// and never truncated; the last column is unpadded.
var widths = [numFields]int{
	colID:     8,
	colDate:   12,
	colAmount: 10,
	colType:   8,
	colDesc:   0,
}

func collimate(cells []string) string {
	var b strings.Builder
	for i, cell := range cells {
		fmt.Fprintf(&b, "%-*s", widths[i], cell)
	}
	return b.String()
}
