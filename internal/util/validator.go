package util

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var maxAmount = decimal.NewFromInt(10_000_000)

// ValidateAmount rejects non-positive and absurdly large amounts. Amounts
// are stored as magnitudes, so a negative value is a client error rather
// than something to silently normalize.
func ValidateAmount(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("amount must be positive, got %s", amount)
	}
	if amount.GreaterThanOrEqual(maxAmount) {
		return fmt.Errorf("amount too large, got %s", amount)
	}
	return nil
}

// dateLayouts accepted for transaction dates and query filters.
var dateLayouts = []string{
	time.RFC3339,          // 2024-01-01T00:00:00Z
	"2006-01-02T15:04:05", // 2024-01-01T00:00:00
	"2006-01-02",          // 2024-01-01
}

// ParseDate parses a client-supplied date in any accepted layout.
func ParseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q, want YYYY-MM-DD", s)
}

// ValidateCategoryName checks a category name is present and of sane length.
func ValidateCategoryName(name string) error {
	if strings.TrimSpace(name) == "" {
		return fmt.Errorf("category name is empty")
	}
	if len(name) > 64 {
		return fmt.Errorf("category name too long, max 64 characters")
	}
	return nil
}

var emailRe = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// ValidateEmail performs a shape check only; deliverability is not our problem.
func ValidateEmail(email string) error {
	if !emailRe.MatchString(email) {
		return fmt.Errorf("invalid email address %q", email)
	}
	return nil
}
