package statement

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestExtractor_Date(t *testing.T) {
	e := NewExtractor(DefaultRules())

	tests := []struct {
		name   string
		block  string
		want   string
		wantOK bool
	}{
		{"dashed DD-MM-YYYY", "09-11-2024\nPaid to Amazon", "2024-11-09", true},
		{"slashed DD/MM/YYYY", "09/11/2024\nPaid to Amazon", "2024-11-09", true},
		{"two digit year", "09-11-24\nPaid to Amazon", "2024-11-09", true},
		{"month abbreviation", "09-Nov-2024\nPaid to Amazon", "2024-11-09", true},
		{"lowercase month abbreviation", "09-nov-2024\nPaid to Amazon", "2024-11-09", true},
		{"iso date passes through", "2024-11-09\nPaid to Amazon", "2024-11-09", true},
		{"month name with comma", "Nov 9, 2024\nPaid to Amazon", "2024-11-09", true},
		{"full month name", "November 9 2024\nPaid to Amazon", "2024-11-09", true},
		{"labeled date", "Date: 09-11-2024\nPaid to Amazon", "2024-11-09", true},
		{"impossible calendar date", "31-02-2024\nPaid to Amazon", "", false},
		{"no date at all", "Paid to Amazon\nRs. 500", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := e.extractDate(tt.block)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("extractDate(%q) = (%q, %v), want (%q, %v)", tt.block, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestExtractor_Time(t *testing.T) {
	e := NewExtractor(DefaultRules())

	tests := []struct {
		name   string
		block  string
		want   string
		wantOK bool
	}{
		{"24 hour clock", "Time: 14:30", "14:30", true},
		{"12 hour with PM", "Time: 2:45 PM", "14:45", true},
		{"12 hour with am", "at 9:05 am", "09:05", true},
		{"with seconds", "Time: 09:15:30", "09:15", true},
		{"absent", "Paid to Amazon Rs. 500", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := e.extractTime(tt.block)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("extractTime(%q) = (%q, %v), want (%q, %v)", tt.block, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestExtractor_Amount(t *testing.T) {
	e := NewExtractor(DefaultRules())

	tests := []struct {
		name          string
		block         string
		want          string
		wantOK        bool
		wantMalformed bool
	}{
		{"rupee symbol with separators", "Amount: ₹1,299.00", "1299", true, false},
		{"rs prefix", "Rs. 2500", "2500", true, false},
		{"inr suffix", "Paid 349.50 INR", "349.5", true, false},
		{"labeled plain number", "Amount: 500", "500", true, false},
		{"zero amount is malformed", "Amount: ₹0.00", "0", false, true},
		{"no amount token", "Paid to Amazon Pay", "0", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok, malformed := e.extractAmount(tt.block)
			want := decimal.RequireFromString(tt.want)
			if !got.Equal(want) || ok != tt.wantOK || malformed != tt.wantMalformed {
				t.Errorf("extractAmount(%q) = (%s, %v, %v), want (%s, %v, %v)",
					tt.block, got, ok, malformed, want, tt.wantOK, tt.wantMalformed)
			}
		})
	}
}

func TestExtractor_Direction(t *testing.T) {
	e := NewExtractor(DefaultRules())

	tests := []struct {
		name  string
		block string
		want  Direction
	}{
		{"explicit debit marker", "Paid to Amazon Pay", DirectionDebit},
		{"debited from account", "Debited from account XX1234", DirectionDebit},
		{"explicit credit marker", "Received from John Doe, credited to account", DirectionCredit},
		{"refund is credit", "Refund credited for order", DirectionCredit},
		{"negative sign before amount", "Dinner -₹500.00", DirectionDebit},
		{"positive sign before amount", "Bonus +₹500.00", DirectionCredit},
		{"conflicting evidence is a tie", "Refund for payment", DirectionUnresolved},
		{"no evidence at all", "To: Amazon Pay\nAmount: ₹1,299.00", DirectionUnresolved},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := e.extractDirection(tt.block); got != tt.want {
				t.Errorf("extractDirection(%q) = %q, want %q", tt.block, got, tt.want)
			}
		})
	}
}

func TestExtractor_Merchant(t *testing.T) {
	e := NewExtractor(DefaultRules())

	tests := []struct {
		name   string
		block  string
		want   string
		wantOK bool
	}{
		{"paid to label", "Paid to Amazon Pay\nRs. 500", "Amazon Pay", true},
		{"received from label", "Received from John Doe\nRs. 500", "John Doe", true},
		{"merchant label", "Merchant: Swiggy Instamart", "Swiggy Instamart", true},
		{"to label on own line", "To: Amazon Pay\nRs. 500", "Amazon Pay", true},
		{"status suffix stripped", "Paid to Amazon Pay Success\nRs. 500", "Amazon Pay", true},
		{"fallback to free text line", "Date: 09-11-2024\nAmount: ₹500\nBig Bazaar Hyderabad", "Big Bazaar Hyderabad", true},
		{"nothing usable", "Date: 09-11-2024\nAmount: ₹500\n12345", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := e.extractMerchant(tt.block)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("extractMerchant(%q) = (%q, %v), want (%q, %v)", tt.block, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestExtractor_Status(t *testing.T) {
	e := NewExtractor(DefaultRules())

	tests := []struct {
		block string
		want  string
	}{
		{"Status: Success", "success"},
		{"Status: Successful", "success"},
		{"Status: Completed", "success"},
		{"Status: Failed", "failed"},
		{"Status: Declined", "failed"},
		{"Status: Pending", "pending"},
		{"no status here", ""},
	}

	for _, tt := range tests {
		t.Run(tt.block, func(t *testing.T) {
			if got := e.extractStatus(tt.block); got != tt.want {
				t.Errorf("extractStatus(%q) = %q, want %q", tt.block, got, tt.want)
			}
		})
	}
}

func TestExtractor_IdentifiersAndFullBlock(t *testing.T) {
	e := NewExtractor(DefaultRules())

	block := "09-11-2024 14:30\nPaid to Amazon Pay\nAmount: ₹1,299.00\nTransaction ID: T2411091430001\nUTR: 432109876543\nStatus: Success"

	fr := e.Extract(block)
	if !fr.DateOK || fr.Date != "2024-11-09" {
		t.Errorf("Date = (%q, %v), want (2024-11-09, true)", fr.Date, fr.DateOK)
	}
	if !fr.TimeOK || fr.Time != "14:30" {
		t.Errorf("Time = (%q, %v), want (14:30, true)", fr.Time, fr.TimeOK)
	}
	if !fr.AmountOK || !fr.Amount.Equal(decimal.RequireFromString("1299")) {
		t.Errorf("Amount = (%s, %v), want (1299, true)", fr.Amount, fr.AmountOK)
	}
	if fr.Direction != DirectionDebit {
		t.Errorf("Direction = %q, want debit", fr.Direction)
	}
	if fr.Merchant != "Amazon Pay" {
		t.Errorf("Merchant = %q, want Amazon Pay", fr.Merchant)
	}
	if fr.TransactionID != "T2411091430001" {
		t.Errorf("TransactionID = %q, want T2411091430001", fr.TransactionID)
	}
	if fr.ReferenceID != "432109876543" {
		t.Errorf("ReferenceID = %q, want 432109876543", fr.ReferenceID)
	}
	if fr.Status != "success" {
		t.Errorf("Status = %q, want success", fr.Status)
	}
}
