package domain

import (
	"strings"
	"time"
)

// Customer is the person an appointment is booked for.
// Customers are deduplicated by case-insensitive email only; phone is not a dedup key.
type Customer struct {
	ID        int64
	FirstName string
	LastName  string
	Email     *string
	Phone     string
	CreatedAt time.Time
}

// NormalizeEmail trims and lowercases an email; empty input yields nil
func NormalizeEmail(email *string) *string {
	if email == nil {
		return nil
	}
	e := strings.ToLower(strings.TrimSpace(*email))
	if e == "" {
		return nil
	}
	return &e
}
