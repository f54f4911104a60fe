package inventory

import (
	"errors"

	"gorm.io/gorm"

	"warehouse-backend/internal/apperr"
	"warehouse-backend/internal/models"
)

// Store is the only writer of InventoryRecord buckets. All adjustments run
// inside the caller's transaction; the caller holds the row locks.
type Store struct {
	Locks *KeyedLock
}

func NewStore() *Store {
	return &Store{Locks: NewKeyedLock()}
}

// Get returns the inventory record for a (product, warehouse) pair.
func (s *Store) Get(tx *gorm.DB, productID, warehouseID uint) (*models.InventoryRecord, error) {
	var rec models.InventoryRecord
	err := tx.Where("product_id = ? AND warehouse_id = ?", productID, warehouseID).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("no inventory record for product %d at warehouse %d", productID, warehouseID)
	}
	if err != nil {
		return nil, apperr.Internal("inventory lookup failed", err)
	}
	return &rec, nil
}

// GetOrCreate returns the record, creating a zeroed one on first receipt of
// a product at a warehouse.
func (s *Store) GetOrCreate(tx *gorm.DB, productID, warehouseID uint) (*models.InventoryRecord, error) {
	rec, err := s.Get(tx, productID, warehouseID)
	if err == nil {
		return rec, nil
	}
	if !apperr.IsKind(err, apperr.KindNotFound) {
		return nil, err
	}
	rec = &models.InventoryRecord{ProductID: productID, WarehouseID: warehouseID}
	if err := tx.Create(rec).Error; err != nil {
		return nil, apperr.Internal("inventory record create failed", err)
	}
	return rec, nil
}

// Delta is a signed adjustment across the quantity buckets.
type Delta struct {
	Available int64
	Allocated int64
	Damaged   int64
	InTransit int64
}

// Adjust applies a delta to one record. Any bucket going negative means the
// engine's own preconditions were violated, so the whole transaction must
// roll back.
func (s *Store) Adjust(tx *gorm.DB, productID, warehouseID uint, d Delta) (*models.InventoryRecord, error) {
	rec, err := s.GetOrCreate(tx, productID, warehouseID)
	if err != nil {
		return nil, err
	}

	rec.Available += d.Available
	rec.Allocated += d.Allocated
	rec.Damaged += d.Damaged
	rec.InTransit += d.InTransit

	if rec.Available < 0 || rec.Allocated < 0 || rec.Damaged < 0 || rec.InTransit < 0 {
		return nil, apperr.Conflict("inventory bucket for product %d at warehouse %d would go negative", productID, warehouseID)
	}

	if err := tx.Save(rec).Error; err != nil {
		return nil, apperr.Internal("inventory record update failed", err)
	}
	return rec, nil
}
