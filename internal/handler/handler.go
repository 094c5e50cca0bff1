// Package handler formats payment, claim and SOP answers for a resolved
// identity. Domain failures become user-facing text; only a failed claim
// append is returned as an error.
package handler

import (
	"strings"
	"time"
)

// DefaultCurrency prefixes amounts when none is configured.
const DefaultCurrency = "₹"

// Clock returns the current time. Handlers take one so tests can pin dates.
type Clock func() time.Time

const notAvailable = "N/A"

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return notAvailable
	}
	return s
}

// sentence joins non-empty parts with a space and trims the result.
func sentence(parts ...string) string {
	kept := parts[:0:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, " ")
}
