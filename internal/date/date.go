// Package date holds the calendar arithmetic behind the simulated current
// date: strict ISO parsing, whole-day advances and inclusive date ranges.
package date

import (
	"errors"
	"fmt"
	"strconv"

	"cloud.google.com/go/civil"

	"github.com/cleared-dev/acc/internal/model"
)

// Format is the ISO 8601 layout used on the command line and in files.
const Format = "2006-01-02"

// ErrInvalidArgument marks values that cannot be turned into a date or a day count.
var ErrInvalidArgument = errors.New("invalid argument")

var (
	// Min is the earliest representable date.
	Min = civil.Date{Year: 1, Month: 1, Day: 1}
	// Max is the latest representable date.
	Max = civil.Date{Year: 9999, Month: 12, Day: 31}
	// Epoch is the current date of a fresh configuration.
	Epoch = civil.Date{Year: 1970, Month: 1, Day: 1}
)

// Parse parses a strict YYYY-MM-DD date.
func Parse(s string) (civil.Date, error) {
	d, err := civil.ParseDate(s)
	if err != nil {
		return civil.Date{}, invalid("date", s, "want format YYYY-MM-DD")
	}
	return d, nil
}

// Days is a whole number of days by which the current date moves forward.
type Days int

// ParseDays parses a non-negative integer day count. Fractions are rejected
// rather than truncated.
func ParseDays(s string) (Days, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, invalid("days", s, "must be a whole number of days")
	}
	if n < 0 {
		return 0, invalid("days", s, "must not be negative")
	}
	return Days(n), nil
}

// Advance returns the date n days after d.
func Advance(d civil.Date, n Days) (civil.Date, error) {
	if int(n) > Max.DaysSince(d) {
		return civil.Date{}, invalid("days", strconv.Itoa(int(n)), fmt.Sprintf("advancing %s would pass %s", d, Max))
	}
	return d.AddDays(int(n)), nil
}

func invalid(field, value, reason string) error {
	return fmt.Errorf("%w: %w", ErrInvalidArgument, &model.ValidationError{Field: field, Value: value, Reason: reason})
}
