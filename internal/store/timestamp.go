package store

import (
	"fmt"
	"time"
)

// timeLayout is the fixed-width UTC encoding used for every persisted
// timestamp. Because each field is zero-padded and the zone is always Z,
// lexicographic order on the encoded strings equals chronological order.
// The ledger's time filtering relies on this property; it is part of the
// format contract, not an accident.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// FormatTime encodes t in the store's canonical timestamp format.
func FormatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

// ParseTime decodes a canonical timestamp.
func ParseTime(s string) (time.Time, error) {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse timestamp %q: %w", s, err)
	}
	return t, nil
}
