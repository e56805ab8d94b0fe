package statement

import (
	"github.com/shopspring/decimal"
)

// Direction says whether a transaction decreases (debit) or increases
// (credit) the account balance.
type Direction string

const (
	DirectionDebit  Direction = "debit"
	DirectionCredit Direction = "credit"

	// DirectionUnresolved means the block carried no usable direction
	// evidence. It never survives assembly: blocks with an unresolved
	// direction are rejected, not defaulted to debit.
	DirectionUnresolved Direction = "unresolved"
)

// Category is a spending category from the fixed category set.
type Category string

const (
	CategoryFuel             Category = "fuel"
	CategoryGroceries        Category = "groceries"
	CategoryDining           Category = "dining"
	CategoryShopping         Category = "shopping"
	CategoryTransport        Category = "transport"
	CategoryUtilities        Category = "utilities"
	CategoryEntertainment    Category = "entertainment"
	CategoryRecharge         Category = "recharge"
	CategoryEducation        Category = "education"
	CategoryGovernment       Category = "government"
	CategoryPersonalTransfer Category = "personal_transfer"
	CategoryUncategorized    Category = "uncategorized"
)

// Categories returns the full fixed category set in display order.
func Categories() []Category {
	return []Category{
		CategoryFuel,
		CategoryGroceries,
		CategoryDining,
		CategoryShopping,
		CategoryTransport,
		CategoryUtilities,
		CategoryEntertainment,
		CategoryRecharge,
		CategoryEducation,
		CategoryGovernment,
		CategoryPersonalTransfer,
		CategoryUncategorized,
	}
}

// ValidCategory reports whether c belongs to the fixed category set.
func ValidCategory(c Category) bool {
	for _, known := range Categories() {
		if c == known {
			return true
		}
	}
	return false
}

// Transaction is one normalized transaction extracted from a statement.
// Date is always ISO (YYYY-MM-DD), Time is 24-hour HH:MM when present,
// and Amount is a positive magnitude with Direction carried separately.
type Transaction struct {
	Date          string          `json:"date"`
	Time          string          `json:"time,omitempty"`
	Amount        decimal.Decimal `json:"amount"`
	Direction     Direction       `json:"direction"`
	Merchant      string          `json:"merchant"`
	Category      Category        `json:"category"`
	TransactionID string          `json:"transaction_id,omitempty"`
	ReferenceID   string          `json:"reference_id,omitempty"`
	Status        string          `json:"status,omitempty"`

	// RawText preserves the source block for audit and debugging.
	RawText string `json:"raw_text"`
}

// FieldResult carries the per-field outcome of extracting one candidate
// block. Optional fields pair a value with an OK flag; required fields are
// checked by Assemble.
type FieldResult struct {
	Date   string
	DateOK bool

	Time   string
	TimeOK bool

	Amount   decimal.Decimal
	AmountOK bool
	// AmountMalformed is set when an amount-looking token was found but
	// failed numeric parsing. Distinguished from a missing amount so the
	// rejection can be reported accurately.
	AmountMalformed bool

	Direction Direction

	Merchant   string
	MerchantOK bool

	TransactionID string
	ReferenceID   string
	Status        string
}

// RejectionReason classifies why a candidate block did not yield a
// transaction. Per-block rejections are counted, never fatal.
type RejectionReason string

const (
	RejectionNone               RejectionReason = ""
	RejectionIncompleteRecord   RejectionReason = "incomplete_record"
	RejectionAmbiguousDirection RejectionReason = "ambiguous_direction"
	RejectionMalformedAmount    RejectionReason = "malformed_amount"
)

// CategoryTotal is a category ranked by summed debit amount.
type CategoryTotal struct {
	Category    Category        `json:"category"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

// MerchantStat is a merchant ranked by debit frequency.
type MerchantStat struct {
	Merchant    string          `json:"merchant"`
	Count       int             `json:"count"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

// TrendPoint is a summed debit amount for one calendar bucket
// (YYYY-MM for monthly, YYYY-MM-DD for daily).
type TrendPoint struct {
	Period      string          `json:"period"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

// Anomaly flags a debit transaction whose amount exceeds twice the mean
// debit amount. Anomalous transactions stay in every other aggregate.
type Anomaly struct {
	Date     string          `json:"date"`
	Merchant string          `json:"merchant"`
	Amount   decimal.Decimal `json:"amount"`
	Reason   string          `json:"reason"`
}

// Summary holds the aggregate analytics for one processed statement.
// AverageTransactionAmount is the mean of debit amounts only; credit
// events like salary would otherwise skew spending averages.
type Summary struct {
	TotalDebit  decimal.Decimal `json:"total_debit"`
	TotalCredit decimal.Decimal `json:"total_credit"`
	NetFlow     decimal.Decimal `json:"net_flow"`

	TransactionCount int `json:"transaction_count"`
	DebitCount       int `json:"debit_count"`
	CreditCount      int `json:"credit_count"`

	AverageTransactionAmount decimal.Decimal `json:"average_transaction_amount"`

	TopCategories []CategoryTotal `json:"top_categories"`
	TopMerchants  []MerchantStat  `json:"top_merchants"`
	MonthlyTrend  []TrendPoint    `json:"monthly_trend"`
	DailyTrend    []TrendPoint    `json:"daily_trend"`
	Anomalies     []Anomaly       `json:"anomalies"`
}

// Result is the full outcome of processing one statement text.
type Result struct {
	Transactions []Transaction `json:"transactions"`
	Summary      Summary       `json:"summary"`

	// CandidateCount is how many candidate blocks the segmenter produced;
	// RejectedCount is how many of them failed assembly. Rejections breaks
	// the rejected count down by reason.
	CandidateCount int                     `json:"candidate_count"`
	RejectedCount  int                     `json:"rejected_count"`
	Rejections     map[RejectionReason]int `json:"rejections,omitempty"`
}
