// Package importer turns bank and ledger exports into entries that can be
// recorded in the active ledger.
package importer

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"

	"github.com/cleared-dev/acc/internal/model"
)

// Entry is one imported movement. A negative Amount is money leaving the
// account.
type Entry struct {
	Date        civil.Date
	Amount      decimal.Decimal
	Description string
}

// Type maps the sign of the amount onto the ledger's transaction types:
// outflows become credits and inflows become debits.
func (e Entry) Type() model.TxType {
	if e.Amount.IsNegative() {
		return model.TxCredit
	}
	return model.TxDebit
}

var hundred = decimal.NewFromInt(100)

// checkCents rejects amounts the ledger cannot store exactly, so that a file
// is refused before any of its rows are recorded.
func checkCents(amount decimal.Decimal) error {
	if scaled := amount.Mul(hundred); !scaled.Equal(scaled.Floor()) {
		return &model.ValidationError{Field: "amount", Value: amount.String(), Reason: "more than 2 decimal places"}
	}
	return nil
}

// Parser converts an export file into Entries.
type Parser interface {
	Parse(r io.Reader) ([]Entry, error)
	Format() string
}

// Registry holds named parsers.
type Registry struct {
	parsers map[string]Parser
}

// FileInfo describes a CSV file waiting in the import directory.
type FileInfo struct {
	Name string
	Path string
}

// NewRegistry creates an empty parser registry.
func NewRegistry() *Registry {
	return &Registry{parsers: make(map[string]Parser)}
}

// Register adds a parser. Panics on duplicate format.
func (r *Registry) Register(p Parser) {
	key := strings.ToLower(p.Format())
	if _, ok := r.parsers[key]; ok {
		panic("duplicate parser format: " + key)
	}
	r.parsers[key] = p
}

// Get returns the parser for format, or nil.
func (r *Registry) Get(format string) Parser {
	return r.parsers[strings.ToLower(format)]
}

// Formats lists the registered format names in no particular order.
func (r *Registry) Formats() []string {
	names := make([]string, 0, len(r.parsers))
	for name := range r.parsers {
		names = append(names, name)
	}
	return names
}

// DefaultRegistry returns a registry with all built-in parsers.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(&ChaseParser{})
	r.Register(&LedgerParser{})
	return r
}

// ParseFile opens path and runs p over it.
func ParseFile(p Parser, path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	entries, err := p.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parsing %s as %s: %w", path, p.Format(), err)
	}
	return entries, nil
}

// Dir is the default inbox scanned when no files are named.
const Dir = "import"

// processedDir receives files once they have been recorded.
const processedDir = "processed"

// Scan returns CSV files directly inside dir. A missing dir has none.
func Scan(dir string) ([]FileInfo, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading import dir: %w", err)
	}

	var files []FileInfo
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if !strings.HasSuffix(strings.ToLower(e.Name()), ".csv") {
			continue
		}
		files = append(files, FileInfo{
			Name: e.Name(),
			Path: filepath.Join(dir, e.Name()),
		})
	}
	return files, nil
}

// MarkProcessed moves dir/fileName to dir/processed/fileName.
func MarkProcessed(dir, fileName string) error {
	dstDir := filepath.Join(dir, processedDir)
	if err := os.MkdirAll(dstDir, 0o755); err != nil {
		return fmt.Errorf("creating processed dir: %w", err)
	}

	src := filepath.Join(dir, fileName)
	dst := filepath.Join(dstDir, fileName)
	if err := os.Rename(src, dst); err != nil {
		return fmt.Errorf("moving %s to processed: %w", fileName, err)
	}
	return nil
}
