package importer

import (
	"fmt"
	"io"

	"github.com/cleared-dev/acc/internal/ledger"
)

// LedgerParser reads another acc ledger so its rows can be merged into the
// active one under fresh ids.
type LedgerParser struct{}

// Format returns the parser name.
func (p *LedgerParser) Format() string { return "acc" }

// Parse reads every row of an acc ledger file.
func (p *LedgerParser) Parse(r io.Reader) ([]Entry, error) {
	var entries []Entry
	for tx, err := range ledger.ReadTransactions(r) {
		if err != nil {
			return nil, err
		}
		if err := checkCents(tx.Amount); err != nil {
			return nil, fmt.Errorf("id %d: %w", tx.ID, err)
		}
		entries = append(entries, Entry{
			Date:        tx.Date,
			Amount:      tx.Signed(),
			Description: tx.Description,
		})
	}
	return entries, nil
}
