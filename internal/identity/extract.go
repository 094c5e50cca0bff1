package identity

import (
	"regexp"
	"strings"
)

var (
	loanPattern  = regexp.MustCompile(`(?i)\bLN\d+\b`)
	phonePattern = regexp.MustCompile(`\+?\d[\d\s\-().]{8,16}\d`)
	namePattern  = regexp.MustCompile(`\b[A-Z][a-z]+\s[A-Z][a-z]+\b`)
	introPattern = regexp.MustCompile(`(?:(?i:\bi am|\bi'm|\bmy name is|\bthis is))\s+([A-Z][a-zA-Z]+(?:\s[A-Z][a-zA-Z]+)?)`)
)

// ExtractQuery pulls identifying fragments out of free text: a loan number,
// a phone number of at least ten digits and a capitalised name.
func ExtractQuery(text string) Query {
	var q Query
	if m := loanPattern.FindString(text); m != "" {
		q.Loan = strings.ToUpper(m)
	}
	for _, m := range phonePattern.FindAllString(text, -1) {
		if len(NormalizePhone(m)) >= 10 {
			q.Phone = strings.TrimSpace(m)
			break
		}
	}
	if m := introPattern.FindStringSubmatch(text); m != nil {
		q.Name = m[1]
	} else if m := namePattern.FindString(text); m != "" {
		q.Name = m
	}
	return q
}

// Introduced reports whether text names the speaker with a phrase such as
// "I am" or "my name is". A bare capitalised word pair does not count.
func Introduced(text string) bool {
	return introPattern.MatchString(text)
}
