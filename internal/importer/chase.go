package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
)

// ChaseParser parses Chase bank checking CSV exports.
type ChaseParser struct{}

const (
	chaseDateFormat = "01/02/2006"
	chaseNumFields  = 7
	chaseColDate    = 1
	chaseColDesc    = 2
	chaseColAmount  = 3
)

// Format returns the parser name.
func (p *ChaseParser) Format() string { return "chase" }

// Parse reads a Chase CSV. The first row is the bank's header.
func (p *ChaseParser) Parse(r io.Reader) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = chaseNumFields

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading chase CSV: %w", err)
	}

	if len(records) <= 1 {
		return nil, nil
	}

	var entries []Entry
	for i, rec := range records[1:] {
		e, err := parseChaseRow(rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func parseChaseRow(rec []string) (Entry, error) {
	t, err := time.Parse(chaseDateFormat, rec[chaseColDate])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing date %q: %w", rec[chaseColDate], err)
	}

	amount, err := decimal.NewFromString(rec[chaseColAmount])
	if err != nil {
		return Entry{}, fmt.Errorf("parsing amount %q: %w", rec[chaseColAmount], err)
	}
	if err := checkCents(amount); err != nil {
		return Entry{}, err
	}

	return Entry{
		Date:        civil.DateOf(t),
		Amount:      amount,
		Description: rec[chaseColDesc],
	}, nil
}
