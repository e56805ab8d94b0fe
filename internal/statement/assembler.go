package statement

import (
	"strings"
)

// Assemble combines per-field extraction outcomes into a Transaction.
// The validation gate is strict: a candidate becomes a transaction only
// when it has a date, a positive amount and a resolved direction. Anything
// else is rejected with a reason — never a partial record, never an error
// that would abort the rest of the batch.
func Assemble(fr FieldResult, raw string) (*Transaction, RejectionReason) {
	if fr.AmountMalformed {
		return nil, RejectionMalformedAmount
	}
	if !fr.DateOK || !fr.AmountOK {
		return nil, RejectionIncompleteRecord
	}
	if fr.Direction != DirectionDebit && fr.Direction != DirectionCredit {
		return nil, RejectionAmbiguousDirection
	}

	merchant := fr.Merchant
	if !fr.MerchantOK {
		// No clean counterparty name was isolable; fall back to the
		// condensed raw snippet so the field is never empty.
		merchant = condenseRaw(raw)
	}

	return &Transaction{
		Date:          fr.Date,
		Time:          fr.Time,
		Amount:        fr.Amount,
		Direction:     fr.Direction,
		Merchant:      merchant,
		Category:      CategoryUncategorized,
		TransactionID: fr.TransactionID,
		ReferenceID:   fr.ReferenceID,
		Status:        fr.Status,
		RawText:       raw,
	}, RejectionNone
}

// condenseRaw collapses a raw block into a single display line capped at
// 100 characters.
func condenseRaw(raw string) string {
	condensed := whitespaceRunRe.ReplaceAllString(strings.TrimSpace(raw), " ")
	if condensed == "" {
		return "Unknown Merchant"
	}
	if len(condensed) > 100 {
		condensed = condensed[:100]
	}
	return condensed
}
