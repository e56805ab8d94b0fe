package statement

import (
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Extractor pulls individual transaction fields out of one candidate text
// block. Each field has an ordered list of pattern rules; the first rule
// that matches wins, so rule order is part of the contract. The rule table
// is immutable after construction and safe to share across goroutines.
type Extractor struct {
	rules Rules
}

// Rules is the ordered pattern rule table for field extraction.
type Rules struct {
	// Date rules in priority order. Each pairs a locator pattern with the
	// time layouts tried against the captured token.
	Date []DateRule

	// Amount rules in priority order. Group 1 captures the numeric token.
	Amount []*regexp.Regexp

	// Merchant label rules in priority order. Group 1 captures the
	// candidate merchant text.
	Merchant []*regexp.Regexp

	// Direction marker keywords, matched case-insensitively as evidence
	// for each side.
	CreditMarkers []string
	DebitMarkers  []string

	Time          *regexp.Regexp
	TransactionID *regexp.Regexp
	ReferenceID   *regexp.Regexp
	Status        *regexp.Regexp
}

// DateRule pairs a date locator pattern with candidate parse layouts.
type DateRule struct {
	Pattern *regexp.Regexp
	Layouts []string
}

// DefaultRules returns the rule table covering the known statement layout
// variants. Order matters: reordering changes behavior on ambiguous input.
func DefaultRules() Rules {
	return Rules{
		Date: []DateRule{
			{
				Pattern: regexp.MustCompile(`\b(\d{1,2}-\d{1,2}-\d{2,4})\b`),
				Layouts: []string{"02-01-2006", "2-1-2006", "02-01-06", "2-1-06"},
			},
			{
				Pattern: regexp.MustCompile(`\b(\d{1,2}/\d{1,2}/\d{2,4})\b`),
				Layouts: []string{"02/01/2006", "2/1/2006", "02/01/06", "2/1/06"},
			},
			{
				Pattern: regexp.MustCompile(`\b(\d{1,2}-[A-Za-z]{3}-\d{4})\b`),
				Layouts: []string{"02-Jan-2006", "2-Jan-2006"},
			},
			{
				Pattern: regexp.MustCompile(`\b(\d{4}-\d{1,2}-\d{1,2})\b`),
				Layouts: []string{"2006-01-02", "2006-1-2"},
			},
			{
				Pattern: regexp.MustCompile(`(?i)\b((?:jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*\s+\d{1,2},?\s+\d{4})\b`),
				Layouts: []string{"Jan 2, 2006", "Jan 2 2006", "January 2, 2006", "January 2 2006"},
			},
		},
		Amount: []*regexp.Regexp{
			// Currency marker before the number: ₹1,299.00, Rs. 500, INR 2500.
			regexp.MustCompile(`(?i)(?:rs\.?|inr|₹)\s*([0-9][0-9,]*(?:\.[0-9]{1,2})?)`),
			// Currency marker after the number: 1,299.00 INR.
			regexp.MustCompile(`(?i)([0-9][0-9,]*(?:\.[0-9]{1,2})?)\s*(?:rs\.?|inr|₹)`),
			// Labeled amount with no currency marker: Amount: 1299.00.
			regexp.MustCompile(`(?i)\bamount\s*[:=]?\s*([0-9][0-9,]*(?:\.[0-9]{1,2})?)\b`),
		},
		Merchant: []*regexp.Regexp{
			regexp.MustCompile(`(?im)\b(?:paid to|payment to|money sent to|sent to|transfer to)\s*:?\s*(.+)$`),
			regexp.MustCompile(`(?im)\breceived from\s*:?\s*(.+)$`),
			regexp.MustCompile(`(?im)\bmerchant\s*:\s*(.+)$`),
			regexp.MustCompile(`(?im)\b(?:recipient|payee)\s*:\s*(.+)$`),
			regexp.MustCompile(`(?im)^\s*to\s*:\s*(.+)$`),
			regexp.MustCompile(`(?im)^\s*from\s*:\s*(.+)$`),
		},
		CreditMarkers: []string{"credited", "credit", "received", "refund", "cashback"},
		DebitMarkers:  []string{"debited", "debit", "paid", "payment", "sent", "transfer to", "withdrawn"},

		Time:          regexp.MustCompile(`\b(\d{1,2}:\d{2}(?::\d{2})?)\s*([AaPp][Mm])?\b`),
		TransactionID: regexp.MustCompile(`(?i)\b(?:transaction|txn|trans)\s*(?:id|no|number)?\s*[:#=]?\s*([A-Za-z0-9]{10,})\b`),
		ReferenceID:   regexp.MustCompile(`(?i)\b(?:utr|ref(?:erence)?)\s*(?:no|number)?\s*[:#=]?\s*([0-9]{12,})\b`),
		Status:        regexp.MustCompile(`(?i)\bstatus\s*[:=]?\s*(success|successful|completed|failed|failure|declined|pending)\b`),
	}
}

// NewExtractor creates an extractor using the given rule table. Pass
// DefaultRules() for the standard layout coverage.
func NewExtractor(rules Rules) *Extractor {
	return &Extractor{rules: rules}
}

// Extract attempts every field independently against one candidate block.
// Failure of a non-essential field (time, IDs, status) leaves its OK flag
// unset without invalidating the block; required-field gating happens in
// Assemble.
func (e *Extractor) Extract(block string) FieldResult {
	var fr FieldResult

	fr.Date, fr.DateOK = e.extractDate(block)
	fr.Time, fr.TimeOK = e.extractTime(block)
	fr.Amount, fr.AmountOK, fr.AmountMalformed = e.extractAmount(block)
	fr.Direction = e.extractDirection(block)
	fr.Merchant, fr.MerchantOK = e.extractMerchant(block)

	if m := e.rules.TransactionID.FindStringSubmatch(block); m != nil {
		fr.TransactionID = m[1]
	}
	if m := e.rules.ReferenceID.FindStringSubmatch(block); m != nil {
		fr.ReferenceID = m[1]
	}
	fr.Status = e.extractStatus(block)

	return fr
}

// extractDate returns the first date token matched by the ordered date
// rules, normalized to ISO YYYY-MM-DD.
func (e *Extractor) extractDate(block string) (string, bool) {
	for _, rule := range e.rules.Date {
		m := rule.Pattern.FindStringSubmatch(block)
		if m == nil {
			continue
		}
		token := normalizeMonthCase(strings.TrimSpace(m[1]))
		for _, layout := range rule.Layouts {
			if t, err := time.Parse(layout, token); err == nil {
				return t.Format("2006-01-02"), true
			}
		}
		// The token looked like a date for this rule but did not parse
		// (e.g. 31-02-2024); later rules will not match it either.
		return "", false
	}
	return "", false
}

// extractTime normalizes a clock time to 24-hour HH:MM. Absence is not an
// error; a time is never fabricated.
func (e *Extractor) extractTime(block string) (string, bool) {
	m := e.rules.Time.FindStringSubmatch(block)
	if m == nil {
		return "", false
	}
	token := m[1]
	layouts := []string{"15:04", "15:04:05"}
	if m[2] != "" {
		token = token + " " + strings.ToUpper(m[2])
		layouts = []string{"3:04 PM", "3:04:05 PM"}
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, token); err == nil {
			return t.Format("15:04"), true
		}
	}
	return "", false
}

// extractAmount locates an amount token, strips currency markers and
// thousands separators, and parses it to a positive decimal. The third
// return value flags a token that looked like an amount but failed the
// numeric parse or was non-positive.
func (e *Extractor) extractAmount(block string) (decimal.Decimal, bool, bool) {
	for _, re := range e.rules.Amount {
		m := re.FindStringSubmatch(block)
		if m == nil {
			continue
		}
		clean := strings.ReplaceAll(m[1], ",", "")
		amount, err := decimal.NewFromString(clean)
		if err != nil || !amount.IsPositive() {
			return decimal.Zero, false, true
		}
		return amount, true, false
	}
	return decimal.Zero, false, false
}

// extractDirection infers debit/credit from explicit markers only. Marker
// evidence is counted per side; a strict majority wins and a tie —
// including no evidence at all — yields DirectionUnresolved. Defaulting to
// debit here would silently corrupt net-flow totals.
func (e *Extractor) extractDirection(block string) Direction {
	lower := strings.ToLower(block)

	credit := 0
	for _, marker := range e.rules.CreditMarkers {
		if strings.Contains(lower, marker) {
			credit++
		}
	}
	debit := 0
	for _, marker := range e.rules.DebitMarkers {
		if strings.Contains(lower, marker) {
			debit++
		}
	}

	// A sign immediately before the amount token counts as evidence too.
	switch amountSign(block, e.rules.Amount) {
	case "-":
		debit++
	case "+":
		credit++
	}

	switch {
	case credit > debit:
		return DirectionCredit
	case debit > credit:
		return DirectionDebit
	default:
		return DirectionUnresolved
	}
}

// amountSign reports the sign character directly preceding the first
// amount match, or "" when none is present.
func amountSign(block string, amountRules []*regexp.Regexp) string {
	for _, re := range amountRules {
		loc := re.FindStringIndex(block)
		if loc == nil {
			continue
		}
		prefix := strings.TrimRight(block[:loc[0]], " \t")
		if prefix == "" {
			return ""
		}
		switch prefix[len(prefix)-1] {
		case '-':
			return "-"
		case '+':
			return "+"
		}
		return ""
	}
	return ""
}

var (
	// invalidMerchantPatterns reject lines that superficially pass the
	// label rules but are obviously not counterparty names.
	invalidMerchantPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)^\d{1,2}:\d{2}\s*(?:am|pm)?`),
		regexp.MustCompile(`(?i)^(?:transaction|txn|trans)\s*(?:id|no|number)`),
		regexp.MustCompile(`(?i)^(?:utr|ref)\s*(?:no|number)`),
		regexp.MustCompile(`(?i)^(?:debited|credited)\s*(?:from|to)`),
		regexp.MustCompile(`(?i)^x{2,}\d+`),
		regexp.MustCompile(`^\d+$`),
		regexp.MustCompile(`(?i)^[a-z]{1,3}$`),
	}

	statusSuffixRe  = regexp.MustCompile(`(?i)\s*(?:success|successful|completed|failed|pending|declined).*$`)
	letterRunRe     = regexp.MustCompile(`[A-Za-z]{3,}`)
	numericOnlyRe   = regexp.MustCompile(`^[\d\s:/\-.]+$`)
	whitespaceRunRe = regexp.MustCompile(`\s+`)
)

// fallbackSkipPrefixes mark label lines that never hold a merchant name,
// used by the free-text fallback scan.
var fallbackSkipPrefixes = []string{
	"date", "time", "amount", "status", "transaction", "upi", "ref",
	"utr", "debited", "credited", "account", "balance",
}

// extractMerchant tries the labeled patterns in priority order, then falls
// back to the best candidate free-text line in the block.
func (e *Extractor) extractMerchant(block string) (string, bool) {
	for _, re := range e.rules.Merchant {
		m := re.FindStringSubmatch(block)
		if m == nil {
			continue
		}
		if name, ok := cleanMerchant(m[1]); ok {
			return name, true
		}
	}
	return fallbackMerchant(block)
}

// cleanMerchant strips trailing status words, collapses whitespace and
// validates that the remainder plausibly names a counterparty.
func cleanMerchant(raw string) (string, bool) {
	name := statusSuffixRe.ReplaceAllString(strings.TrimSpace(raw), "")
	name = whitespaceRunRe.ReplaceAllString(name, " ")
	name = strings.TrimSpace(name)
	if len(name) <= 2 {
		return "", false
	}
	for _, re := range invalidMerchantPatterns {
		if re.MatchString(name) {
			return "", false
		}
	}
	if !letterRunRe.MatchString(name) {
		return "", false
	}
	if len(name) > 100 {
		name = name[:100]
	}
	return name, true
}

// fallbackMerchant scans the block for the first line that looks like a
// counterparty name rather than a label, timestamp or number run.
func fallbackMerchant(block string) (string, bool) {
	for _, line := range strings.Split(block, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		lower := strings.ToLower(line)

		skip := false
		for _, prefix := range fallbackSkipPrefixes {
			if strings.HasPrefix(lower, prefix) {
				skip = true
				break
			}
		}
		if skip || numericOnlyRe.MatchString(line) {
			continue
		}
		invalid := false
		for _, re := range invalidMerchantPatterns {
			if re.MatchString(lower) {
				invalid = true
				break
			}
		}
		if invalid {
			continue
		}
		if !strings.Contains(line, " ") && len(line) <= 10 {
			continue
		}
		if !letterRunRe.MatchString(line) {
			continue
		}
		if name, ok := cleanMerchant(line); ok {
			return name, true
		}
	}
	return "", false
}

// extractStatus normalizes the labeled status token to one of
// success/failed/pending.
func (e *Extractor) extractStatus(block string) string {
	m := e.rules.Status.FindStringSubmatch(block)
	if m == nil {
		return ""
	}
	switch strings.ToLower(m[1]) {
	case "success", "successful", "completed":
		return "success"
	case "failed", "failure", "declined":
		return "failed"
	case "pending":
		return "pending"
	default:
		return ""
	}
}

// normalizeMonthCase uppercases the first letter of a month-name token so
// layouts like "02-Jan-2006" accept "09-nov-2024" and "09-NOV-2024".
func normalizeMonthCase(token string) string {
	idx := strings.IndexFunc(token, func(r rune) bool {
		return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
	})
	if idx == -1 {
		return token
	}
	end := idx
	for end < len(token) && isLetter(token[end]) {
		end++
	}
	month := token[idx:end]
	month = strings.ToUpper(month[:1]) + strings.ToLower(month[1:])
	return token[:idx] + month + token[end:]
}

func isLetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}
