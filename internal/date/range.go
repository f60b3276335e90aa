package date

import (
	"strings"

	"cloud.google.com/go/civil"
)

// SpecSeparator splits the two sides of a datespec.
const SpecSeparator = "~"

// Range is an inclusive span of dates.
type Range struct{ From, To civil.Date }

// All is the unrestricted range.
func All() Range { return Range{From: Min, To: Max} }

// Contains reports whether d is inside the range, boundaries included.
func (r Range) Contains(d civil.Date) bool { return !d.Before(r.From) && !d.After(r.To) }

// String renders the range as a datespec.
func (r Range) String() string {
	if r.From == r.To {
		return r.From.String()
	}
	return r.From.String() + SpecSeparator + r.To.String()
}

// ParseSpec parses a datespec: either a single date, or "start~end" where
// either side may be empty. An empty start means Min and an empty end means
// Max. The empty string selects All.
func ParseSpec(spec string) (Range, error) {
	if spec == "" {
		return All(), nil
	}

	start, end, found := strings.Cut(spec, SpecSeparator)
	if !found {
		d, err := Parse(spec)
		if err != nil {
			return Range{}, err
		}
		return Range{From: d, To: d}, nil
	}
	if strings.Contains(end, SpecSeparator) {
		return Range{}, invalid("datespec", spec, "want [START]~[END]")
	}

	r := All()
	var err error
	if start != "" {
		if r.From, err = Parse(start); err != nil {
			return Range{}, err
		}
	}
	if end != "" {
		if r.To, err = Parse(end); err != nil {
			return Range{}, err
		}
	}
	if r.To.Before(r.From) {
		return Range{}, invalid("datespec", spec, "start is after end")
	}
	return r, nil
}
