package statement

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

// anomalyFactor is the multiple of the mean debit amount above which a
// debit is flagged as an anomaly.
var anomalyFactor = decimal.NewFromInt(2)

// topMerchantLimit caps the merchant ranking length.
const topMerchantLimit = 10

// Aggregate computes the analytics summary over a categorized record set.
// All rankings use deterministic tie-breaks so identical input always
// yields an identical summary. An empty slice produces a zeroed summary;
// the mean computation is guarded so there is never a division by zero.
//
// Failed-status transactions are included in every aggregate; excluding
// them is a presentation decision left to the caller.
func Aggregate(txns []Transaction) Summary {
	summary := Summary{
		TransactionCount: len(txns),
		TopCategories:    []CategoryTotal{},
		TopMerchants:     []MerchantStat{},
		MonthlyTrend:     []TrendPoint{},
		DailyTrend:       []TrendPoint{},
		Anomalies:        []Anomaly{},
	}

	categoryTotals := make(map[Category]decimal.Decimal)
	merchantCounts := make(map[string]int)
	merchantTotals := make(map[string]decimal.Decimal)
	monthlyTotals := make(map[string]decimal.Decimal)
	dailyTotals := make(map[string]decimal.Decimal)

	for _, t := range txns {
		switch t.Direction {
		case DirectionCredit:
			summary.CreditCount++
			summary.TotalCredit = summary.TotalCredit.Add(t.Amount)
		case DirectionDebit:
			summary.DebitCount++
			summary.TotalDebit = summary.TotalDebit.Add(t.Amount)

			categoryTotals[t.Category] = categoryTotals[t.Category].Add(t.Amount)
			merchantCounts[t.Merchant]++
			merchantTotals[t.Merchant] = merchantTotals[t.Merchant].Add(t.Amount)
			if len(t.Date) >= 7 {
				monthlyTotals[t.Date[:7]] = monthlyTotals[t.Date[:7]].Add(t.Amount)
			}
			dailyTotals[t.Date] = dailyTotals[t.Date].Add(t.Amount)
		}
	}

	summary.NetFlow = summary.TotalCredit.Sub(summary.TotalDebit)

	var meanDebit decimal.Decimal
	if summary.DebitCount > 0 {
		meanDebit = summary.TotalDebit.Div(decimal.NewFromInt(int64(summary.DebitCount)))
		summary.AverageTransactionAmount = meanDebit.Round(2)
	}

	summary.TopCategories = rankCategories(categoryTotals)
	summary.TopMerchants = rankMerchants(merchantCounts, merchantTotals)
	summary.MonthlyTrend = trendPoints(monthlyTotals)
	summary.DailyTrend = trendPoints(dailyTotals)
	summary.Anomalies = findAnomalies(txns, meanDebit, summary.DebitCount)

	return summary
}

// rankCategories orders categories by summed debit amount descending, ties
// broken by category name ascending.
func rankCategories(totals map[Category]decimal.Decimal) []CategoryTotal {
	ranked := make([]CategoryTotal, 0, len(totals))
	for category, total := range totals {
		ranked = append(ranked, CategoryTotal{Category: category, TotalAmount: total})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if cmp := ranked[i].TotalAmount.Cmp(ranked[j].TotalAmount); cmp != 0 {
			return cmp > 0
		}
		return ranked[i].Category < ranked[j].Category
	})
	return ranked
}

// rankMerchants orders merchants by debit frequency descending, ties
// broken by summed amount descending, then merchant name ascending.
func rankMerchants(counts map[string]int, totals map[string]decimal.Decimal) []MerchantStat {
	ranked := make([]MerchantStat, 0, len(counts))
	for merchant, count := range counts {
		ranked = append(ranked, MerchantStat{
			Merchant:    merchant,
			Count:       count,
			TotalAmount: totals[merchant],
		})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}
		if cmp := ranked[i].TotalAmount.Cmp(ranked[j].TotalAmount); cmp != 0 {
			return cmp > 0
		}
		return ranked[i].Merchant < ranked[j].Merchant
	})
	if len(ranked) > topMerchantLimit {
		ranked = ranked[:topMerchantLimit]
	}
	return ranked
}

// trendPoints converts a bucket map into points ordered chronologically
// ascending. Bucket keys are ISO date prefixes, so lexicographic order is
// chronological order.
func trendPoints(totals map[string]decimal.Decimal) []TrendPoint {
	points := make([]TrendPoint, 0, len(totals))
	for period, total := range totals {
		points = append(points, TrendPoint{Period: period, TotalAmount: total})
	}
	sort.Slice(points, func(i, j int) bool {
		return points[i].Period < points[j].Period
	})
	return points
}

// findAnomalies flags debit transactions whose amount exceeds twice the
// mean debit amount. Flagged transactions remain in every other aggregate.
func findAnomalies(txns []Transaction, meanDebit decimal.Decimal, debitCount int) []Anomaly {
	anomalies := []Anomaly{}
	if debitCount == 0 || !meanDebit.IsPositive() {
		return anomalies
	}
	threshold := meanDebit.Mul(anomalyFactor)
	for _, t := range txns {
		if t.Direction != DirectionDebit || !t.Amount.GreaterThan(threshold) {
			continue
		}
		ratio := t.Amount.Div(meanDebit).Round(1)
		anomalies = append(anomalies, Anomaly{
			Date:     t.Date,
			Merchant: t.Merchant,
			Amount:   t.Amount,
			Reason:   fmt.Sprintf("Amount %sx higher than average debit", ratio.String()),
		})
	}
	return anomalies
}
