package ledger

import (
	"encoding/csv"
	"fmt"
	"io"
	"iter"
	"slices"
	"strconv"
	"strings"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"

	"github.com/cleared-dev/acc/internal/model"
)

// Header is the CSV header for a ledger file.
const Header = "id,date,amount,type,description"

const (
	numFields = 5
	colID     = 0
	colDate   = 1
	colAmount = 2
	colType   = 3
	colDesc   = 4
)

// Fields returns the ledger column names in file order.
func Fields() []string {
	return strings.Split(Header, ",")
}

// ReadTransactions streams transactions from a ledger CSV reader. The first
// record must be the header. An empty reader yields nothing.
func ReadTransactions(r io.Reader) iter.Seq2[model.Transaction, error] {
	return func(yield func(model.Transaction, error) bool) {
		cr := csv.NewReader(r)
		cr.FieldsPerRecord = numFields

		header, err := cr.Read()
		if err == io.EOF {
			return
		}
		if err != nil {
			yield(model.Transaction{}, fmt.Errorf("reading ledger CSV: %w", err))
			return
		}
		if !slices.Equal(header, Fields()) {
			yield(model.Transaction{}, fmt.Errorf("unexpected ledger header %q", strings.Join(header, ",")))
			return
		}

		for row := 2; ; row++ {
			rec, err := cr.Read()
			if err == io.EOF {
				return
			}
			if err != nil {
				yield(model.Transaction{}, fmt.Errorf("reading ledger CSV: %w", err))
				return
			}
			tx, err := UnmarshalTransaction(rec)
			if err != nil {
				yield(model.Transaction{}, fmt.Errorf("row %d: %w", row, err))
				return
			}
			if !yield(tx, nil) {
				return
			}
		}
	}
}

// WriteTransactions writes a complete ledger (including header).
func WriteTransactions(w io.Writer, txs []model.Transaction) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(Fields()); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for i, tx := range txs {
		if err := cw.Write(MarshalTransaction(tx)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// AppendTransactions appends rows to an existing ledger writer (no header).
func AppendTransactions(w io.Writer, txs []model.Transaction) error {
	cw := csv.NewWriter(w)

	for i, tx := range txs {
		if err := cw.Write(MarshalTransaction(tx)); err != nil {
			return fmt.Errorf("writing row %d: %w", i, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// MarshalTransaction converts a Transaction to a CSV row.
func MarshalTransaction(tx model.Transaction) []string {
	row := make([]string, numFields)
	row[colID] = strconv.Itoa(tx.ID)
	row[colDate] = tx.Date.String()
	row[colAmount] = tx.Amount.StringFixed(2)
	row[colType] = string(tx.Type)
	row[colDesc] = tx.Description
	return row
}

// UnmarshalTransaction converts a CSV row to a Transaction.
func UnmarshalTransaction(record []string) (model.Transaction, error) {
	if len(record) != numFields {
		return model.Transaction{}, fmt.Errorf("expected %d fields, got %d", numFields, len(record))
	}

	id, err := strconv.Atoi(record[colID])
	if err != nil {
		return model.Transaction{}, fmt.Errorf("parsing id %q: %w", record[colID], err)
	}

	date, err := civil.ParseDate(record[colDate])
	if err != nil {
		return model.Transaction{}, fmt.Errorf("parsing date %q: %w", record[colDate], err)
	}

	amount, err := decimal.NewFromString(record[colAmount])
	if err != nil {
		return model.Transaction{}, fmt.Errorf("parsing amount %q: %w", record[colAmount], err)
	}

	txType, err := model.ParseTxType(record[colType])
	if err != nil {
		return model.Transaction{}, err
	}

	return model.Transaction{
		ID:          id,
		Date:        date,
		Amount:      amount,
		Type:        txType,
		Description: record[colDesc],
	}, nil
}
