package analytics

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"warehouse-backend/internal/models"
)

func TestComputeDeadStockSalvageMath(t *testing.T) {
	today := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)

	expired := batchExpiring(1, 10, daysFrom(today, -5))
	expired.UnitCost = decimal.NewFromInt(1000)
	live := batchExpiring(2, 10, daysFrom(today, 5))
	live.UnitCost = decimal.NewFromInt(1000)

	report := ComputeDeadStock([]models.StockBatch{expired, live}, today, 0.2)
	if len(report.Items) != 1 {
		t.Fatalf("items = %d, want 1 (live batch excluded)", len(report.Items))
	}

	item := report.Items[0]
	if item.DaysExpired != 5 {
		t.Fatalf("days expired = %d, want 5", item.DaysExpired)
	}
	if !item.OriginalValue.Equal(decimal.NewFromInt(10000)) {
		t.Fatalf("original = %s, want 10000", item.OriginalValue)
	}
	if !item.LiquidationValue.Equal(decimal.NewFromInt(2000)) {
		t.Fatalf("liquidation = %s, want 2000 at 20%% salvage", item.LiquidationValue)
	}
	if !item.Loss.Equal(decimal.NewFromInt(8000)) {
		t.Fatalf("loss = %s, want 8000", item.Loss)
	}
	if !report.TotalLoss.Equal(item.Loss) {
		t.Fatalf("total loss = %s, want %s", report.TotalLoss, item.Loss)
	}
}

func TestComputeDeadStockSortsByLossDesc(t *testing.T) {
	today := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)

	small := batchExpiring(1, 2, daysFrom(today, -1))
	small.UnitCost = decimal.NewFromInt(100)
	big := batchExpiring(2, 50, daysFrom(today, -1))
	big.UnitCost = decimal.NewFromInt(100)

	report := ComputeDeadStock([]models.StockBatch{small, big}, today, 0.2)
	if len(report.Items) != 2 || report.Items[0].BatchID != 2 {
		t.Fatalf("order = %+v, want biggest loss first", report.Items)
	}
}

func TestComputeDeadStockExpiresTodayIsNotDead(t *testing.T) {
	today := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)

	edge := batchExpiring(1, 10, daysFrom(today, 0))
	edge.UnitCost = decimal.NewFromInt(100)

	report := ComputeDeadStock([]models.StockBatch{edge}, today, 0.2)
	if len(report.Items) != 0 {
		t.Fatalf("batch expiring today counted as dead: %+v", report.Items)
	}
}
