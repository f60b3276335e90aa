// Package ledger stores transactions in an append-only CSV file and answers
// length, balance and tabular queries by re-reading that file on every call.
package ledger

import (
	"errors"
	"fmt"
	"io/fs"
	"iter"
	"os"
	"path/filepath"
	"strings"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"

	"github.com/cleared-dev/acc/internal/date"
	"github.com/cleared-dev/acc/internal/model"
)

// DefaultPath is the ledger used when the config names none.
const DefaultPath = "acc_ledger.csv"

// ErrNotFound is returned when the ledger file does not exist.
var ErrNotFound = errors.New("ledger not found")

// Ledger is a transaction file identified by its path.
type Ledger struct {
	path string
}

// Open binds a Ledger to path. The filesystem is not touched.
func Open(path string) *Ledger {
	return &Ledger{path: path}
}

// Path returns the ledger file path.
func (l *Ledger) Path() string { return l.path }

func (l *Ledger) String() string { return l.path }

// Equal reports whether both ledgers refer to the same path.
func (l *Ledger) Equal(other *Ledger) bool {
	return other != nil && l.path == other.path
}

// Exists reports whether the ledger file is present.
func (l *Ledger) Exists() (bool, error) {
	_, err := os.Stat(l.path)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("checking ledger %s: %w", l.path, err)
	}
	return true, nil
}

// Create writes a header-only ledger file unless one already exists.
// It reports whether a file was created.
func (l *Ledger) Create() (bool, error) {
	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return false, fmt.Errorf("creating ledger dir: %w", err)
	}
	f, err := os.OpenFile(l.path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if errors.Is(err, fs.ErrExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("creating ledger %s: %w", l.path, err)
	}
	if err := WriteTransactions(f, nil); err != nil {
		f.Close()
		return false, fmt.Errorf("writing ledger header: %w", err)
	}
	if err := f.Close(); err != nil {
		return false, fmt.Errorf("closing ledger: %w", err)
	}
	return true, nil
}

// All yields every transaction in file order. Each call re-reads the file.
// A missing file yields a single ErrNotFound error.
func (l *Ledger) All() iter.Seq2[model.Transaction, error] {
	return func(yield func(model.Transaction, error) bool) {
		f, err := os.Open(l.path)
		if errors.Is(err, fs.ErrNotExist) {
			yield(model.Transaction{}, fmt.Errorf("%w: %s: %w", ErrNotFound, l.path, err))
			return
		}
		if err != nil {
			yield(model.Transaction{}, fmt.Errorf("opening ledger %s: %w", l.path, err))
			return
		}
		defer f.Close()

		for tx, err := range ReadTransactions(f) {
			if err != nil {
				yield(model.Transaction{}, fmt.Errorf("reading ledger %s: %w", l.path, err))
				return
			}
			if !yield(tx, nil) {
				return
			}
		}
	}
}

// scan is All restricted to r, with a missing file treated as empty.
func (l *Ledger) scan(r date.Range) iter.Seq2[model.Transaction, error] {
	return func(yield func(model.Transaction, error) bool) {
		for tx, err := range l.All() {
			if errors.Is(err, ErrNotFound) {
				return
			}
			if err != nil {
				yield(model.Transaction{}, err)
				return
			}
			if r.Contains(tx.Date) && !yield(tx, nil) {
				return
			}
		}
	}
}

// Len returns the number of transactions. A missing file has none.
func (l *Ledger) Len() (int, error) {
	n := 0
	for _, err := range l.scan(date.All()) {
		if err != nil {
			return 0, err
		}
		n++
	}
	return n, nil
}

// Append validates tx and writes it as one new row. The header is written
// first when the file is missing or empty. tx.ID must equal Len().
func (l *Ledger) Append(tx model.Transaction) (err error) {
	n, err := l.Len()
	if err != nil {
		return err
	}
	if problems := ValidateTransactions([]model.Transaction{tx}, n); len(problems) > 0 {
		msgs := make([]string, len(problems))
		for i, p := range problems {
			msgs[i] = p.Description
		}
		return &model.ValidationError{Field: "transaction", Reason: strings.Join(msgs, "; ")}
	}

	needsHeader := false
	info, err := os.Stat(l.path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		needsHeader = true
		if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
			return fmt.Errorf("creating ledger dir: %w", err)
		}
	case err != nil:
		return fmt.Errorf("checking ledger %s: %w", l.path, err)
	default:
		needsHeader = info.Size() == 0
	}

	f, err := os.OpenFile(l.path, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("opening ledger: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing ledger: %w", cerr)
		}
	}()

	rows := []model.Transaction{tx}
	if needsHeader {
		err = WriteTransactions(f, rows)
	} else {
		err = AppendTransactions(f, rows)
	}
	if err != nil {
		return fmt.Errorf("appending to ledger %s: %w", l.path, err)
	}
	return nil
}

// Record appends a new transaction whose id is the current length.
func (l *Ledger) Record(on civil.Date, amount decimal.Decimal, txType model.TxType, description string) (model.Transaction, error) {
	n, err := l.Len()
	if err != nil {
		return model.Transaction{}, err
	}
	tx := model.Transaction{
		ID:          n,
		Date:        on,
		Amount:      amount,
		Type:        txType,
		Description: description,
	}
	if err := l.Append(tx); err != nil {
		return model.Transaction{}, err
	}
	return tx, nil
}

// Balance sums the signed amounts of transactions dated within r.
// Debits add and credits subtract. A missing ledger balances to zero.
func (l *Ledger) Balance(r date.Range) (decimal.Decimal, error) {
	total := decimal.Zero
	for tx, err := range l.scan(r) {
		if err != nil {
			return decimal.Zero, err
		}
		total = total.Add(tx.Signed())
	}
	return total, nil
}

// Tabulate yields the uppercased column header followed by one aligned line
// per transaction dated within r, in file order.
func (l *Ledger) Tabulate(r date.Range) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		if !yield(strings.ToUpper(collimate(Fields())), nil) {
			return
		}
		for tx, err := range l.scan(r) {
			if err != nil {
				yield("", err)
				return
			}
			if !yield(collimate(MarshalTransaction(tx)), nil) {
				return
			}
		}
	}
}

// Check reads the whole file and reports every rule it breaks.
func (l *Ledger) Check() (int, []Problem, error) {
	var txs []model.Transaction
	for tx, err := range l.All() {
		if err != nil {
			return 0, nil, err
		}
		txs = append(txs, tx)
	}
	return len(txs), ValidateTransactions(txs, 0), nil
}
