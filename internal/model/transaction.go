package model

import (
	"fmt"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
)

// TxType says which side of the ledger a transaction sits on.
type TxType string

const (
	TxCredit TxType = "credit"
	TxDebit  TxType = "debit"
)

// ParseTxType returns the TxType named by s.
func ParseTxType(s string) (TxType, error) {
	switch t := TxType(s); t {
	case TxCredit, TxDebit:
		return t, nil
	}
	return "", &ValidationError{Field: "type", Value: s, Reason: "must be credit or debit"}
}

// Valid reports whether t is a known transaction type.
func (t TxType) Valid() bool {
	return t == TxCredit || t == TxDebit
}

// Transaction is one row of the ledger file.
type Transaction struct {
	ID          int
	Date        civil.Date
	Amount      decimal.Decimal // unsigned magnitude, the sign comes from Type
	Type        TxType
	Description string
}

// Signed returns the transaction's contribution to a balance.
// Debits add and credits subtract.
func (t Transaction) Signed() decimal.Decimal {
	if t.Type == TxCredit {
		return t.Amount.Neg()
	}
	return t.Amount
}

// ValidationError reports user input or stored data that breaks a rule.
type ValidationError struct {
	Field  string
	Value  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Reason)
}

// ParseAmount parses a user-supplied amount. The result is rounded to cents
// using banker's rounding; negative values are rejected.
func ParseAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, &ValidationError{Field: "amount", Value: s, Reason: "not a decimal number"}
	}
	if d.IsNegative() {
		return decimal.Zero, &ValidationError{Field: "amount", Value: s, Reason: "must not be negative"}
	}
	return d.RoundBank(2), nil
}
