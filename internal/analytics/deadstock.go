package analytics

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"warehouse-backend/internal/models"
)

type DeadStockItem struct {
	BatchID          uint            `json:"batch_id"`
	BatchNo          string          `json:"batch_no"`
	ProductID        uint            `json:"product_id"`
	WarehouseID      uint            `json:"warehouse_id"`
	Quantity         int64           `json:"quantity"`
	ExpiryDate       string          `json:"expiry_date"`
	DaysExpired      int             `json:"days_expired"`
	OriginalValue    decimal.Decimal `json:"original_value"`
	LiquidationValue decimal.Decimal `json:"liquidation_value"`
	Loss             decimal.Decimal `json:"loss"`
}

type DeadStockReport struct {
	SalvageRate float64         `json:"salvage_rate"`
	TotalLoss   decimal.Decimal `json:"total_loss"`
	Items       []DeadStockItem `json:"items"`
}

// ComputeDeadStock reports batches kept past their expiry date with stock
// remaining. The loss is the original value minus what a liquidation at the
// configured salvage fraction would recover.
func ComputeDeadStock(batches []models.StockBatch, today time.Time, salvageRate float64) DeadStockReport {
	report := DeadStockReport{
		SalvageRate: salvageRate,
		TotalLoss:   decimal.Zero,
		Items:       make([]DeadStockItem, 0),
	}
	salvage := decimal.NewFromFloat(salvageRate)

	for _, b := range batches {
		if b.ExpiryDate == nil || b.Quantity <= 0 {
			continue
		}
		days := daysBetween(today, *b.ExpiryDate)
		if days >= 0 {
			continue
		}

		original := b.UnitCost.Mul(decimal.NewFromInt(b.Quantity))
		liquidation := original.Mul(salvage)
		loss := original.Sub(liquidation)

		report.Items = append(report.Items, DeadStockItem{
			BatchID:          b.ID,
			BatchNo:          b.BatchNo,
			ProductID:        b.ProductID,
			WarehouseID:      b.WarehouseID,
			Quantity:         b.Quantity,
			ExpiryDate:       b.ExpiryDate.Format("2006-01-02"),
			DaysExpired:      -days,
			OriginalValue:    original,
			LiquidationValue: liquidation,
			Loss:             loss,
		})
		report.TotalLoss = report.TotalLoss.Add(loss)
	}

	sort.Slice(report.Items, func(i, j int) bool {
		cmp := report.Items[i].Loss.Cmp(report.Items[j].Loss)
		if cmp != 0 {
			return cmp > 0
		}
		return report.Items[i].BatchID < report.Items[j].BatchID
	})
	return report
}
