package statement

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestCategorizer_CategoryFor(t *testing.T) {
	c := NewCategorizer(DefaultCategoryRules())

	tests := []struct {
		text string
		want Category
	}{
		{"Shell Petrol Pump", CategoryFuel},
		{"Indian Oil Filling Station", CategoryFuel},
		{"Amazon Pay", CategoryShopping},
		{"FLIPKART INTERNET", CategoryShopping},
		{"Swiggy Bangalore", CategoryDining},
		{"BigBasket Groceries", CategoryGroceries},
		{"Uber India", CategoryTransport},
		{"Netflix Subscription", CategoryEntertainment},
		{"Airtel Prepaid Recharge", CategoryRecharge},
		{"Delhi Public School", CategoryEducation},
		{"Income Tax Challan", CategoryGovernment},
		{"UPI transfer", CategoryPersonalTransfer},
		{"John Doe", CategoryUncategorized},
		{"", CategoryUncategorized},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			if got := c.CategoryFor(tt.text); got != tt.want {
				t.Errorf("CategoryFor(%q) = %q, want %q", tt.text, got, tt.want)
			}
		})
	}
}

// Rule order is part of the contract: "Shell Petrol Pump" must resolve via
// the fuel rule even though a later rule table entry also matches.
func TestCategorizer_RuleOrderWins(t *testing.T) {
	c := NewCategorizer(DefaultCategoryRules())

	if got := c.CategoryFor("Petrol Pump Shop"); got != CategoryFuel {
		t.Errorf("CategoryFor(Petrol Pump Shop) = %q, want %q", got, CategoryFuel)
	}
}

func TestCategorizer_ApplyDoesNotMutateInput(t *testing.T) {
	c := NewCategorizer(DefaultCategoryRules())

	in := []Transaction{
		{Merchant: "Amazon Pay", Category: CategoryUncategorized},
		{Merchant: "John Doe", Category: CategoryUncategorized},
	}

	out := c.Apply(in)
	if out[0].Category != CategoryShopping {
		t.Errorf("out[0].Category = %q, want %q", out[0].Category, CategoryShopping)
	}
	if out[1].Category != CategoryUncategorized {
		t.Errorf("out[1].Category = %q, want %q", out[1].Category, CategoryUncategorized)
	}
	if in[0].Category != CategoryUncategorized {
		t.Errorf("Apply() mutated its input: %+v", in[0])
	}
}

func TestSetCategory(t *testing.T) {
	txns := []Transaction{
		{Merchant: "Amazon Pay", Amount: decimal.RequireFromString("1299"), Category: CategoryShopping},
		{Merchant: "John Doe", Amount: decimal.RequireFromString("500"), Category: CategoryUncategorized},
	}

	updated, err := SetCategory(txns, 1, CategoryPersonalTransfer)
	if err != nil {
		t.Fatalf("SetCategory() error = %v", err)
	}
	if updated[1].Category != CategoryPersonalTransfer {
		t.Errorf("updated[1].Category = %q, want %q", updated[1].Category, CategoryPersonalTransfer)
	}
	if txns[1].Category != CategoryUncategorized {
		t.Errorf("SetCategory() mutated its input: %+v", txns[1])
	}

	if _, err := SetCategory(txns, 5, CategoryShopping); err == nil {
		t.Error("SetCategory() with out-of-range index did not fail")
	}
	if _, err := SetCategory(txns, -1, CategoryShopping); err == nil {
		t.Error("SetCategory() with negative index did not fail")
	}
	if _, err := SetCategory(txns, 0, Category("gambling")); err == nil {
		t.Error("SetCategory() with unknown category did not fail")
	}
}

func TestValidCategory(t *testing.T) {
	for _, c := range Categories() {
		if !ValidCategory(c) {
			t.Errorf("ValidCategory(%q) = false, want true", c)
		}
	}
	if ValidCategory(Category("gambling")) {
		t.Error("ValidCategory(gambling) = true, want false")
	}
}
