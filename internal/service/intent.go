package service

import (
	"regexp"
	"strings"
)

// QueryIntent is what the search layer extracted from a free-text query:
// either an MCC code or a category name term, optionally scoped to a bank
type QueryIntent struct {
	MCC      string
	Term     string
	BankCode string
}

// IsMCC reports whether the query resolved to an MCC-code lookup
func (q QueryIntent) IsMCC() bool {
	return q.MCC != ""
}

// IntentParser turns a free-text query into a structured intent. The
// production deployment may plug in a smarter parser; RegexIntentParser is
// the always-available fallback.
type IntentParser interface {
	Parse(query string) QueryIntent
}

var mccPattern = regexp.MustCompile(`\b(\d{4})\b`)

// RegexIntentParser extracts a 4-digit MCC code if present, otherwise treats
// the query as a category-name substring. A token matching a known bank code
// becomes a bank hint and is removed from the term.
type RegexIntentParser struct {
	bankCodes map[string]bool
}

// NewRegexIntentParser creates a parser aware of the given bank codes
func NewRegexIntentParser(bankCodes []string) *RegexIntentParser {
	known := make(map[string]bool, len(bankCodes))
	for _, code := range bankCodes {
		known[strings.ToLower(code)] = true
	}
	return &RegexIntentParser{bankCodes: known}
}

// Parse extracts the intent from query
func (p *RegexIntentParser) Parse(query string) QueryIntent {
	var intent QueryIntent

	var rest []string
	for _, token := range strings.Fields(query) {
		if p.bankCodes[strings.ToLower(token)] && intent.BankCode == "" {
			intent.BankCode = strings.ToLower(token)
			continue
		}
		rest = append(rest, token)
	}
	remainder := strings.Join(rest, " ")

	if m := mccPattern.FindStringSubmatch(remainder); m != nil {
		intent.MCC = m[1]
		return intent
	}

	intent.Term = strings.TrimSpace(remainder)
	return intent
}
