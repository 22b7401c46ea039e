package importer

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// parsePrice parses a price string into cents. Both decimal conventions are
// accepted: "1.234,56" -> 123456 and "1,234.56" -> 123456. When only one
// separator appears it is taken as the decimal mark, so "12,50" and "12.50"
// both mean 1250.
func parsePrice(s string) (int64, error) {
	if s == "" {
		return 0, fmt.Errorf("missing value")
	}

	clean := s

	dot := strings.LastIndex(s, ".")
	comma := strings.LastIndex(s, ",")

	switch {
	case dot >= 0 && comma >= 0:
		// The rightmost separator is the decimal mark; the other one
		// groups thousands.
		if comma > dot {
			clean = strings.ReplaceAll(s, ".", "")
			clean = strings.ReplaceAll(clean, ",", ".")
		} else {
			clean = strings.ReplaceAll(s, ",", "")
		}
	case comma >= 0:
		clean = strings.ReplaceAll(s, ",", ".")
	}

	d, err := decimal.NewFromString(clean)
	if err != nil {
		return 0, fmt.Errorf("invalid price %q", s)
	}

	if d.IsNegative() {
		return 0, fmt.Errorf("negative price %q", s)
	}

	return d.Mul(decimal.NewFromInt(100)).Round(0).IntPart(), nil
}
