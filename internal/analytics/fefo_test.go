package analytics

import (
	"testing"
	"time"

	"warehouse-backend/internal/models"
)

func batchExpiring(id uint, qty int64, expiry *time.Time) models.StockBatch {
	b := models.StockBatch{ProductID: 1, WarehouseID: 1, Quantity: qty, ExpiryDate: expiry}
	b.ID = id
	return b
}

func daysFrom(today time.Time, days int) *time.Time {
	d := today.AddDate(0, 0, days)
	return &d
}

func TestAssessExpiryStatusBoundaries(t *testing.T) {
	today := time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC)

	risks := AssessExpiry([]models.StockBatch{
		batchExpiring(1, 10, daysFrom(today, 7)),  // boundary: still critical
		batchExpiring(2, 10, daysFrom(today, 8)),  // one past the line
		batchExpiring(3, 10, daysFrom(today, 30)), // boundary: still near expiry
		batchExpiring(4, 10, daysFrom(today, 31)),
		batchExpiring(5, 10, daysFrom(today, 0)), // expires today
	}, today)

	byBatch := map[uint]ExpiryRisk{}
	for _, r := range risks {
		byBatch[r.BatchID] = r
	}

	want := map[uint]ExpiryStatus{
		1: ExpiryCritical,
		2: ExpiryNearExpiry,
		3: ExpiryNearExpiry,
		4: ExpiryNormal,
		5: ExpiryCritical,
	}
	for id, status := range want {
		if byBatch[id].Status != status {
			t.Fatalf("batch %d: status %s, want %s", id, byBatch[id].Status, status)
		}
	}
	if byBatch[1].Action != expiryActions[ExpiryCritical] {
		t.Fatalf("critical action = %q", byBatch[1].Action)
	}
}

func TestAssessExpirySkipsIrrelevantBatches(t *testing.T) {
	today := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)

	risks := AssessExpiry([]models.StockBatch{
		batchExpiring(1, 10, nil),                  // no expiry date
		batchExpiring(2, 0, daysFrom(today, 5)),    // drained
		batchExpiring(3, 10, daysFrom(today, -1)),  // already expired: dead stock report's job
		batchExpiring(4, 10, daysFrom(today, 5)),
	}, today)

	if len(risks) != 1 || risks[0].BatchID != 4 {
		t.Fatalf("risks = %+v, want only batch 4", risks)
	}
}

func TestAssessExpirySortsSoonestFirst(t *testing.T) {
	today := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)

	risks := AssessExpiry([]models.StockBatch{
		batchExpiring(1, 10, daysFrom(today, 20)),
		batchExpiring(2, 10, daysFrom(today, 3)),
		batchExpiring(3, 10, daysFrom(today, 40)),
	}, today)

	if risks[0].BatchID != 2 || risks[1].BatchID != 1 || risks[2].BatchID != 3 {
		t.Fatalf("order = %d,%d,%d, want 2,1,3", risks[0].BatchID, risks[1].BatchID, risks[2].BatchID)
	}
}
