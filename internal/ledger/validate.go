package ledger

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/cleared-dev/acc/internal/model"
)

// Problem describes one rule a stored transaction breaks.
type Problem struct {
	Row         int // 0-based data row
	ID          int
	Description string
}

func (p Problem) Error() string {
	return fmt.Sprintf("row %d [id %d]: %s", p.Row, p.ID, p.Description)
}

var hundred = decimal.NewFromInt(100)

// ValidateTransactions checks transactions as they appear in a ledger file,
// starting at data row first. Ids must equal their row, types must be known
// and amounts must be non-negative whole cents.
func ValidateTransactions(txs []model.Transaction, first int) []Problem {
	var problems []Problem
	for i, tx := range txs {
		row := first + i
		add := func(format string, args ...any) {
			problems = append(problems, Problem{Row: row, ID: tx.ID, Description: fmt.Sprintf(format, args...)})
		}

		if tx.ID != row {
			add("id out of sequence, want %d", row)
		}
		if !tx.Type.Valid() {
			add("unknown type %q", tx.Type)
		}
		if tx.Amount.IsNegative() {
			add("amount %s is negative", tx.Amount.StringFixed(2))
		}
		if scaled := tx.Amount.Mul(hundred); !scaled.Equal(scaled.Floor()) {
			add("amount %s has more than 2 decimal places", tx.Amount)
		}
	}
	return problems
}
