// Package report turns ledger contents into printable lines. It never writes
// output itself.
package report

import (
	"fmt"
	"iter"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/acc/internal/date"
)

// Mode selects what a report shows.
type Mode int

const (
	// Table lists every transaction in range under a header row.
	Table Mode = iota
	// Balance shows the net balance of the range.
	Balance
)

func (m Mode) String() string {
	switch m {
	case Table:
		return "table"
	case Balance:
		return "balance"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// Source is the ledger view a report reads from.
type Source interface {
	Tabulate(r date.Range) iter.Seq2[string, error]
	Balance(r date.Range) (decimal.Decimal, error)
}

// Lines yields the report for r in the given mode.
func Lines(src Source, r date.Range, mode Mode) iter.Seq2[string, error] {
	switch mode {
	case Table:
		return src.Tabulate(r)
	case Balance:
		return func(yield func(string, error) bool) {
			total, err := src.Balance(r)
			if err != nil {
				yield("", err)
				return
			}
			yield(FormatBalance(total), nil)
		}
	}
	return func(yield func(string, error) bool) {
		yield("", fmt.Errorf("unknown report mode %s", mode))
	}
}

// FormatBalance renders a balance with two decimals and a sign only when
// negative.
func FormatBalance(d decimal.Decimal) string {
	return d.StringFixed(2)
}
