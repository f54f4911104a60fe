package analytics

import (
	"sort"
	"time"

	"warehouse-backend/internal/models"
)

type ExpiryStatus string

const (
	ExpiryCritical   ExpiryStatus = "CRITICAL"    // 7 days or less
	ExpiryNearExpiry ExpiryStatus = "NEAR_EXPIRY" // 30 days or less
	ExpiryNormal     ExpiryStatus = "NORMAL"
)

var expiryActions = map[ExpiryStatus]string{
	ExpiryCritical:   "prioritize for discount/clearance",
	ExpiryNearExpiry: "move to front of picking queue (FEFO)",
	ExpiryNormal:     "no action needed",
}

type ExpiryRisk struct {
	BatchID         uint         `json:"batch_id"`
	BatchNo         string       `json:"batch_no"`
	ProductID       uint         `json:"product_id"`
	WarehouseID     uint         `json:"warehouse_id"`
	Quantity        int64        `json:"quantity"`
	ExpiryDate      string       `json:"expiry_date"`
	DaysUntilExpiry int          `json:"days_until_expiry"`
	Status          ExpiryStatus `json:"status"`
	Action          string       `json:"action"`
}

func daysBetween(from, to time.Time) int {
	f := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	t := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)
	return int(t.Sub(f).Hours() / 24)
}

// AssessExpiry buckets live batches by time to expiry. Batches without an
// expiry date or without remaining quantity are skipped; already expired
// batches belong to the dead-stock report, not here. Output is sorted
// soonest-expiring first.
func AssessExpiry(batches []models.StockBatch, today time.Time) []ExpiryRisk {
	risks := make([]ExpiryRisk, 0)
	for _, b := range batches {
		if b.ExpiryDate == nil || b.Quantity <= 0 {
			continue
		}
		days := daysBetween(today, *b.ExpiryDate)
		if days < 0 {
			continue
		}

		status := ExpiryNormal
		switch {
		case days <= 7:
			status = ExpiryCritical
		case days <= 30:
			status = ExpiryNearExpiry
		}

		risks = append(risks, ExpiryRisk{
			BatchID:         b.ID,
			BatchNo:         b.BatchNo,
			ProductID:       b.ProductID,
			WarehouseID:     b.WarehouseID,
			Quantity:        b.Quantity,
			ExpiryDate:      b.ExpiryDate.Format("2006-01-02"),
			DaysUntilExpiry: days,
			Status:          status,
			Action:          expiryActions[status],
		})
	}

	sort.Slice(risks, func(i, j int) bool {
		if risks[i].DaysUntilExpiry != risks[j].DaysUntilExpiry {
			return risks[i].DaysUntilExpiry < risks[j].DaysUntilExpiry
		}
		return risks[i].BatchID < risks[j].BatchID
	})
	return risks
}
