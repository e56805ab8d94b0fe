package statement

import (
	"fmt"
	"strings"
)

// CategoryRule maps a set of keywords to one category. Rules are evaluated
// in order; within a rule the first keyword hit decides.
type CategoryRule struct {
	Category Category
	Keywords []string
}

// Categorizer assigns categories by ordered keyword matching against the
// merchant/description text. The rule table is fixed at construction and
// never mutated, so one categorizer is safely shared across concurrent
// pipeline runs.
type Categorizer struct {
	rules []CategoryRule
}

// NewCategorizer builds a categorizer from an ordered rule table.
func NewCategorizer(rules []CategoryRule) *Categorizer {
	copied := make([]CategoryRule, len(rules))
	copy(copied, rules)
	return &Categorizer{rules: copied}
}

// DefaultCategoryRules returns the standard ordered keyword table. Rule
// order is part of the contract: "Shell Petrol Pump" must hit fuel before
// shopping's "shop" keyword can claim it.
func DefaultCategoryRules() []CategoryRule {
	return []CategoryRule{
		{CategoryFuel, []string{"petrol", "diesel", "fuel", "pump", "bharat petroleum", "indian oil", "hpcl", "shell", "essar", "filling station"}},
		{CategoryGroceries, []string{"grocery", "kirana", "supermarket", "mart", "market", "vegetable", "fruit", "provisions", "bigbasket", "blinkit", "zepto"}},
		{CategoryDining, []string{"restaurant", "cafe", "swiggy", "zomato", "domino", "pizza", "mcdonald", "kfc", "dining", "eatery", "bakery"}},
		{CategoryShopping, []string{"amazon", "flipkart", "myntra", "ajio", "meesho", "shopping", "mall", "store", "shop", "retail"}},
		{CategoryTransport, []string{"uber", "ola", "rapido", "irctc", "redbus", "metro", "taxi", "cab", "parking", "toll", "railway"}},
		{CategoryUtilities, []string{"electricity", "water bill", "gas bill", "broadband", "postpaid", "lic premium", "insurance", "bill payment"}},
		{CategoryEntertainment, []string{"netflix", "spotify", "hotstar", "prime video", "bookmyshow", "movie", "cinema", "gaming"}},
		{CategoryRecharge, []string{"recharge", "prepaid", "airtel", "jio", "vodafone", "bsnl", "dth", "mobile"}},
		{CategoryEducation, []string{"school", "college", "university", "education", "course", "exam", "tuition", "coaching"}},
		{CategoryGovernment, []string{"government", "tax", "challan", "municipal", "passport", "rto"}},
		{CategoryPersonalTransfer, []string{"transfer", "upi", "sent to", "received from", "wallet"}},
	}
}

// CategoryFor maps merchant/description text to exactly one category. It
// is deterministic and total: no rule match means uncategorized.
func (c *Categorizer) CategoryFor(text string) Category {
	lower := strings.ToLower(text)
	for _, rule := range c.rules {
		for _, keyword := range rule.Keywords {
			if strings.Contains(lower, keyword) {
				return rule.Category
			}
		}
	}
	return CategoryUncategorized
}

// Apply annotates every transaction with a category, returning a new slice
// so the input remains untouched. Failed-status transactions are
// categorized like any other; they stay in the record set.
func (c *Categorizer) Apply(txns []Transaction) []Transaction {
	out := make([]Transaction, len(txns))
	copy(out, txns)
	for i := range out {
		out[i].Category = c.CategoryFor(out[i].Merchant)
	}
	return out
}

// SetCategory returns a copy of txns with the record at index carrying the
// new category. The caller's slice is never mutated; a manual override is
// just a replacement record.
func SetCategory(txns []Transaction, index int, category Category) ([]Transaction, error) {
	if index < 0 || index >= len(txns) {
		return nil, fmt.Errorf("SetCategory: index %d out of range [0,%d)", index, len(txns))
	}
	if !ValidCategory(category) {
		return nil, fmt.Errorf("SetCategory: unknown category %q", category)
	}
	out := make([]Transaction, len(txns))
	copy(out, txns)
	out[index].Category = category
	return out, nil
}
