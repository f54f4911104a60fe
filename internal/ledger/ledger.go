package ledger

import (
	"gorm.io/gorm"

	"warehouse-backend/internal/apperr"
	"warehouse-backend/internal/models"
)

// Append writes one immutable journal row inside the caller's transaction.
func Append(tx *gorm.DB, entry *models.LedgerEntry) error {
	if entry.QuantityIn < 0 || entry.QuantityOut < 0 {
		return apperr.Validation("ledger quantities cannot be negative")
	}
	if entry.QuantityIn == 0 && entry.QuantityOut == 0 {
		return apperr.Validation("ledger entry must move a quantity")
	}
	if entry.QuantityIn > 0 && entry.QuantityOut > 0 {
		return apperr.Validation("ledger entry cannot be both inbound and outbound")
	}
	if entry.UnitCost.IsNegative() {
		return apperr.Validation("ledger unit cost cannot be negative")
	}
	if err := tx.Create(entry).Error; err != nil {
		return apperr.Internal("ledger append failed", err)
	}
	return nil
}

// ListEntries returns a goods' journal slice in fold order.
func ListEntries(db *gorm.DB, productID uint, warehouseID *uint) ([]models.LedgerEntry, error) {
	q := db.Where("product_id = ?", productID).Order("entry_date, id")
	if warehouseID != nil {
		q = q.Where("warehouse_id = ?", *warehouseID)
	}
	var entries []models.LedgerEntry
	if err := q.Find(&entries).Error; err != nil {
		return nil, apperr.Internal("ledger query failed", err)
	}
	return entries, nil
}

// ComputeRunningBalance loads the journal slice and folds it.
func ComputeRunningBalance(db *gorm.DB, productID uint, warehouseID *uint, newStrategy StrategyFactory) (RunningBalance, error) {
	entries, err := ListEntries(db, productID, warehouseID)
	if err != nil {
		return RunningBalance{}, err
	}
	return Fold(entries, newStrategy), nil
}
