package analytics

import (
	"time"

	"github.com/shopspring/decimal"

	"warehouse-backend/internal/models"
)

// TrendPoint is one month of inbound/outbound movement totals.
type TrendPoint struct {
	Month       string          `json:"month"` // "2026-08"
	QuantityIn  int64           `json:"quantity_in"`
	QuantityOut int64           `json:"quantity_out"`
	ValueIn     decimal.Decimal `json:"value_in"`
}

type TrendComparison struct {
	CurrentMonth     TrendPoint `json:"current_month"`
	PreviousMonth    TrendPoint `json:"previous_month"`
	QuantityInDelta  int64      `json:"quantity_in_delta"`
	QuantityOutDelta int64      `json:"quantity_out_delta"`
}

type TrendReport struct {
	Points     []TrendPoint    `json:"points"`
	Comparison TrendComparison `json:"comparison"`
}

// BuildTrend folds ledger entries into a monthly in/out series covering the
// last `months` months up to `now`, plus a current-vs-previous comparison.
// Months without movement appear as zero points so charts stay contiguous.
func BuildTrend(entries []models.LedgerEntry, months int, now time.Time) TrendReport {
	if months < 2 {
		months = 2
	}

	byMonth := make(map[string]*TrendPoint)
	order := make([]string, 0, months)
	for i := months - 1; i >= 0; i-- {
		m := now.AddDate(0, -i, 0)
		key := time.Date(m.Year(), m.Month(), 1, 0, 0, 0, 0, time.UTC).Format("2006-01")
		if _, ok := byMonth[key]; !ok {
			byMonth[key] = &TrendPoint{Month: key, ValueIn: decimal.Zero}
			order = append(order, key)
		}
	}

	for _, e := range entries {
		key := e.EntryDate.Format("2006-01")
		point, ok := byMonth[key]
		if !ok {
			continue
		}
		point.QuantityIn += e.QuantityIn
		point.QuantityOut += e.QuantityOut
		if e.QuantityIn > 0 {
			point.ValueIn = point.ValueIn.Add(e.UnitCost.Mul(decimal.NewFromInt(e.QuantityIn)))
		}
	}

	report := TrendReport{Points: make([]TrendPoint, 0, len(order))}
	for _, key := range order {
		report.Points = append(report.Points, *byMonth[key])
	}

	n := len(report.Points)
	report.Comparison = TrendComparison{
		CurrentMonth:  report.Points[n-1],
		PreviousMonth: report.Points[n-2],
	}
	report.Comparison.QuantityInDelta = report.Comparison.CurrentMonth.QuantityIn - report.Comparison.PreviousMonth.QuantityIn
	report.Comparison.QuantityOutDelta = report.Comparison.CurrentMonth.QuantityOut - report.Comparison.PreviousMonth.QuantityOut
	return report
}
