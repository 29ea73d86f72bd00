package repository

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// ParseTime parses a date string in "2006-01-02" or RFC3339 format.
func ParseTime(str string) (time.Time, error) {
	returnTime, err := time.Parse("2006-01-02", str)
	if err != nil {
		returnTime, err = time.Parse(time.RFC3339, str)
		if err != nil {
			return time.Time{}, fmt.Errorf("failed to parse date: %w", err)
		}
	}
	return returnTime.UTC(), nil
}

// ParseDecimal parses a stored decimal string. Quantities and money are
// stored as TEXT so they round-trip losslessly through SQLite.
func ParseDecimal(str string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(str)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("failed to parse decimal %q: %w", str, err)
	}
	return d, nil
}
