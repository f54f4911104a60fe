package order

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"warehouse-backend/internal/apperr"
	"warehouse-backend/internal/audit"
	"warehouse-backend/internal/inventory"
	"warehouse-backend/internal/ledger"
	"warehouse-backend/internal/models"
	"warehouse-backend/internal/voucher"
)

// Engine is the only component that advances order state and, with it,
// mutates inventory buckets and appends ledger entries. Each transition is
// one transaction; multi-line effects apply all-or-nothing.
type Engine struct {
	db      *gorm.DB
	inv     *inventory.Store
	costing ledger.StrategyFactory
}

func NewEngine(db *gorm.DB, inv *inventory.Store, costing ledger.StrategyFactory) *Engine {
	return &Engine{db: db, inv: inv, costing: costing}
}

type CreateItemInput struct {
	ProductID       uint
	Quantity        int64
	UnitPrice       decimal.Decimal
	VATRate         int
	Promotion       decimal.Decimal
	Disposition     models.Disposition
	ExpiryDate      *time.Time
	OffsetVoucherNo string
}

type CreateOrderInput struct {
	Type          models.OrderType
	WarehouseID   uint
	PartnerID     uint
	PartnerName   string
	PaymentMethod models.PaymentMethod
	Note          string
	Items         []CreateItemInput
}

func newOrderCode(t models.OrderType) string {
	prefix := "RET"
	switch t {
	case models.OrderTypeImport:
		prefix = "IMP"
	case models.OrderTypeExport:
		prefix = "EXP"
	}
	short := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:10])
	return fmt.Sprintf("%s-%s", prefix, short)
}

func (e *Engine) validateCreate(in CreateOrderInput) error {
	switch in.Type {
	case models.OrderTypeImport, models.OrderTypeExport, models.OrderTypeReturn:
	default:
		return apperr.Validation("unknown order type %q", in.Type)
	}
	if len(in.Items) == 0 {
		return apperr.Validation("order must have at least one line item")
	}
	switch in.PaymentMethod {
	case models.PaymentCash, models.PaymentBank, models.PaymentUnpaid:
	default:
		return apperr.Validation("unknown payment method %q", in.PaymentMethod)
	}
	for i, item := range in.Items {
		if item.ProductID == 0 {
			return apperr.Validation("line %d: product_id is required", i+1)
		}
		if item.Quantity <= 0 {
			return apperr.Validation("line %d: quantity must be positive", i+1)
		}
		if item.UnitPrice.IsNegative() {
			return apperr.Validation("line %d: unit price cannot be negative", i+1)
		}
		if item.Promotion.IsNegative() {
			return apperr.Validation("line %d: promotion cannot be negative", i+1)
		}
		if in.Type == models.OrderTypeReturn {
			if item.Disposition != models.DispositionRestock && item.Disposition != models.DispositionScrap {
				return apperr.Validation("line %d: return lines need a restock or scrap disposition", i+1)
			}
		}
		// voucher line rules apply at commit time too; failing early keeps
		// bad orders out of the pending queue
		if _, err := voucher.BuildLine(item.ProductID, item.Quantity, item.UnitPrice, item.VATRate, item.Promotion); err != nil {
			return fmt.Errorf("line %d: %w", i+1, err)
		}
	}
	return nil
}

// Create validates the input and stores the order in Pending state. No
// inventory is touched: imports reserve nothing before receipt, exports
// reserve on approval.
func (e *Engine) Create(in CreateOrderInput, actorID uint) (*models.Order, error) {
	if err := e.validateCreate(in); err != nil {
		return nil, err
	}

	var warehouse models.Warehouse
	if err := e.db.First(&warehouse, "id = ?", in.WarehouseID).Error; err != nil {
		return nil, apperr.NotFound("warehouse %d not found", in.WarehouseID)
	}
	for _, item := range in.Items {
		var product models.Product
		if err := e.db.First(&product, "id = ?", item.ProductID).Error; err != nil {
			return nil, apperr.NotFound("product %d not found", item.ProductID)
		}
	}

	ord := &models.Order{
		Code:          newOrderCode(in.Type),
		Type:          in.Type,
		Status:        models.OrderStatusPending,
		PartnerID:     in.PartnerID,
		PartnerName:   in.PartnerName,
		WarehouseID:   in.WarehouseID,
		PaymentMethod: in.PaymentMethod,
		Note:          in.Note,
		CreatedBy:     actorID,
	}
	for _, item := range in.Items {
		ord.Items = append(ord.Items, models.OrderItem{
			ProductID:       item.ProductID,
			Quantity:        item.Quantity,
			UnitPrice:       item.UnitPrice,
			VATRate:         item.VATRate,
			Promotion:       item.Promotion,
			Disposition:     item.Disposition,
			ExpiryDate:      item.ExpiryDate,
			OffsetVoucherNo: item.OffsetVoucherNo,
		})
	}

	err := e.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(ord).Error; err != nil {
			return apperr.Internal("order create failed", err)
		}
		return audit.WriteLog(tx, audit.LogOptions{
			UserID:      actorID,
			UserName:    e.actorName(actorID),
			EntityType:  "order",
			EntityID:    ord.ID,
			Action:      models.AuditActionCreate,
			Description: fmt.Sprintf("%s order %s created", ord.Type, ord.Code),
			After:       ord,
		})
	})
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{"order": ord.Code, "type": ord.Type}).Info("order created")
	return ord, nil
}

func (e *Engine) load(tx *gorm.DB, orderID uint) (*models.Order, error) {
	var ord models.Order
	err := tx.Preload("Items").First(&ord, "id = ?", orderID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperr.NotFound("order %d not found", orderID)
	}
	if err != nil {
		return nil, apperr.Internal("order lookup failed", err)
	}
	return &ord, nil
}

func (e *Engine) actorName(actorID uint) string {
	var user models.User
	if err := e.db.First(&user, "id = ?", actorID).Error; err != nil {
		return ""
	}
	return user.Name
}

func (e *Engine) lockKeys(ord *models.Order) []inventory.LockKey {
	keys := make([]inventory.LockKey, 0, len(ord.Items))
	for _, item := range ord.Items {
		keys = append(keys, inventory.LockKey{ProductID: item.ProductID, WarehouseID: ord.WarehouseID})
	}
	return keys
}

// Approve moves a Pending order to Approved. Export orders reserve stock:
// available -> allocated per line, all-or-nothing; if any line lacks stock
// the order stays Pending and nothing is reserved. Imports and returns only
// record the authorization.
func (e *Engine) Approve(orderID, actorID uint, note string) (*models.Order, error) {
	// peek for lock keys; state is re-checked inside the lock + transaction
	peek, err := e.load(e.db, orderID)
	if err != nil {
		return nil, err
	}
	release := e.inv.Locks.Acquire(e.lockKeys(peek)...)
	defer release()

	var ord *models.Order
	err = e.db.Transaction(func(tx *gorm.DB) error {
		ord, err = e.load(tx, orderID)
		if err != nil {
			return err
		}
		if ord.Status != models.OrderStatusPending {
			return apperr.InvalidStateTransition("order %s is %s, only pending orders can be approved", ord.Code, ord.Status)
		}
		if len(ord.Items) == 0 {
			return apperr.Validation("order %s has no line items", ord.Code)
		}

		if ord.Type == models.OrderTypeExport {
			// check every line before reserving anything
			for _, item := range ord.Items {
				rec, err := e.inv.GetOrCreate(tx, item.ProductID, ord.WarehouseID)
				if err != nil {
					return err
				}
				if rec.Available < item.Quantity {
					return apperr.InsufficientStock("product %d at warehouse %d: available %d < requested %d",
						item.ProductID, ord.WarehouseID, rec.Available, item.Quantity)
				}
			}
			for _, item := range ord.Items {
				if _, err := e.inv.Adjust(tx, item.ProductID, ord.WarehouseID, inventory.Delta{
					Available: -item.Quantity,
					Allocated: item.Quantity,
				}); err != nil {
					return err
				}
			}
		}

		before := ord.Status
		now := time.Now()
		ord.Status = models.OrderStatusApproved
		ord.ApprovedBy = &actorID
		ord.ApprovedAt = &now
		if note != "" {
			ord.Note = note
		}
		if err := tx.Save(ord).Error; err != nil {
			return apperr.Internal("order update failed", err)
		}

		return audit.WriteLog(tx, audit.LogOptions{
			UserID:      actorID,
			UserName:    e.actorName(actorID),
			EntityType:  "order",
			EntityID:    ord.ID,
			Action:      models.AuditActionApprove,
			Description: fmt.Sprintf("%s order %s approved", ord.Type, ord.Code),
			Before:      before,
			After:       ord.Status,
		})
	})
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{"order": ord.Code, "type": ord.Type}).Info("order approved")
	return ord, nil
}

// Reject moves a Pending order to Rejected. Nothing was reserved yet, so
// no inventory is released.
func (e *Engine) Reject(orderID, actorID uint, reason string) (*models.Order, error) {
	if reason == "" {
		return nil, apperr.Validation("a rejection reason is required")
	}

	var ord *models.Order
	err := e.db.Transaction(func(tx *gorm.DB) error {
		var err error
		ord, err = e.load(tx, orderID)
		if err != nil {
			return err
		}
		if ord.Status != models.OrderStatusPending {
			return apperr.InvalidStateTransition("order %s is %s, only pending orders can be rejected", ord.Code, ord.Status)
		}

		ord.Status = models.OrderStatusRejected
		ord.RejectReason = reason
		if err := tx.Save(ord).Error; err != nil {
			return apperr.Internal("order update failed", err)
		}

		return audit.WriteLog(tx, audit.LogOptions{
			UserID:      actorID,
			UserName:    e.actorName(actorID),
			EntityType:  "order",
			EntityID:    ord.ID,
			Action:      models.AuditActionReject,
			Description: fmt.Sprintf("%s order %s rejected: %s", ord.Type, ord.Code, reason),
		})
	})
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{"order": ord.Code, "reason": reason}).Info("order rejected")
	return ord, nil
}

// Complete commits an Approved order: the voucher is built first, then per
// line a ledger entry is appended and the inventory buckets move, all in
// one transaction.
func (e *Engine) Complete(orderID, actorID uint) (*models.Order, error) {
	peek, err := e.load(e.db, orderID)
	if err != nil {
		return nil, err
	}
	release := e.inv.Locks.Acquire(e.lockKeys(peek)...)
	defer release()

	var ord *models.Order
	err = e.db.Transaction(func(tx *gorm.DB) error {
		ord, err = e.load(tx, orderID)
		if err != nil {
			return err
		}
		if ord.Status != models.OrderStatusApproved {
			return apperr.InvalidStateTransition("order %s is %s, only approved orders can be completed", ord.Code, ord.Status)
		}

		switch ord.Type {
		case models.OrderTypeImport:
			err = e.completeImport(tx, ord)
		case models.OrderTypeExport:
			err = e.completeExport(tx, ord)
		case models.OrderTypeReturn:
			err = e.completeReturn(tx, ord)
		default:
			err = apperr.Validation("unknown order type %q", ord.Type)
		}
		if err != nil {
			return err
		}

		now := time.Now()
		ord.Status = models.OrderStatusCompleted
		ord.CompletedAt = &now
		if err := tx.Save(ord).Error; err != nil {
			return apperr.Internal("order update failed", err)
		}

		return audit.WriteLog(tx, audit.LogOptions{
			UserID:      actorID,
			UserName:    e.actorName(actorID),
			EntityType:  "order",
			EntityID:    ord.ID,
			Action:      models.AuditActionComplete,
			Description: fmt.Sprintf("%s order %s completed", ord.Type, ord.Code),
		})
	})
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{"order": ord.Code, "type": ord.Type}).Info("order completed")
	return ord, nil
}

func (e *Engine) productUnit(tx *gorm.DB, productID uint) string {
	var product models.Product
	if err := tx.First(&product, "id = ?", productID).Error; err != nil {
		return ""
	}
	return product.Unit
}

// completeImport: goods arrive. Each line fixes its cost, increments
// available stock and opens a batch for expiry tracking.
func (e *Engine) completeImport(tx *gorm.DB, ord *models.Order) error {
	vch, err := voucher.Build(ord, models.VoucherTypeReceipt)
	if err != nil {
		return err
	}
	if err := tx.Create(vch).Error; err != nil {
		return apperr.Internal("voucher create failed", err)
	}

	now := time.Now()
	for i, item := range ord.Items {
		if err := ledger.Append(tx, &models.LedgerEntry{
			ProductID:   item.ProductID,
			WarehouseID: ord.WarehouseID,
			VoucherNo:   vch.VoucherNo,
			Unit:        e.productUnit(tx, item.ProductID),
			QuantityIn:  item.Quantity,
			UnitCost:    item.UnitPrice,
			EntryDate:   now,
		}); err != nil {
			return err
		}
		if _, err := e.inv.Adjust(tx, item.ProductID, ord.WarehouseID, inventory.Delta{Available: item.Quantity}); err != nil {
			return err
		}
		batch := models.StockBatch{
			ProductID:   item.ProductID,
			WarehouseID: ord.WarehouseID,
			BatchNo:     fmt.Sprintf("%s-%d", vch.VoucherNo, i+1),
			Quantity:    item.Quantity,
			UnitCost:    item.UnitPrice,
			ExpiryDate:  item.ExpiryDate,
			ReceivedAt:  now,
		}
		if err := tx.Create(&batch).Error; err != nil {
			return apperr.Internal("stock batch create failed", err)
		}
	}
	return nil
}

// completeExport: the reservation made at approval becomes a permanent
// decrement; it never returns to available. Batches are drained in
// earliest-expiry-first order.
func (e *Engine) completeExport(tx *gorm.DB, ord *models.Order) error {
	vch, err := voucher.Build(ord, models.VoucherTypeSale)
	if err != nil {
		return err
	}
	if err := tx.Create(vch).Error; err != nil {
		return apperr.Internal("voucher create failed", err)
	}

	now := time.Now()
	for _, item := range ord.Items {
		if err := ledger.Append(tx, &models.LedgerEntry{
			ProductID:   item.ProductID,
			WarehouseID: ord.WarehouseID,
			VoucherNo:   vch.VoucherNo,
			Unit:        e.productUnit(tx, item.ProductID),
			QuantityOut: item.Quantity,
			UnitCost:    decimal.Zero, // issue cost comes from the costing strategy at fold time
			EntryDate:   now,
		}); err != nil {
			return err
		}
		if _, err := e.inv.Adjust(tx, item.ProductID, ord.WarehouseID, inventory.Delta{Allocated: -item.Quantity}); err != nil {
			return err
		}
		if err := e.drainBatches(tx, item.ProductID, ord.WarehouseID, item.Quantity); err != nil {
			return err
		}
	}
	return nil
}

// drainBatches consumes batch quantities FEFO. A shortfall is tolerated:
// batches are an expiry-tracking projection, the inventory record is the
// quantity authority.
func (e *Engine) drainBatches(tx *gorm.DB, productID, warehouseID uint, qty int64) error {
	var batches []models.StockBatch
	err := tx.Where("product_id = ? AND warehouse_id = ? AND quantity > 0", productID, warehouseID).
		Order("expiry_date IS NULL, expiry_date, received_at").
		Find(&batches).Error
	if err != nil {
		return apperr.Internal("batch query failed", err)
	}

	for i := range batches {
		if qty == 0 {
			break
		}
		take := qty
		if take > batches[i].Quantity {
			take = batches[i].Quantity
		}
		batches[i].Quantity -= take
		qty -= take
		if err := tx.Save(&batches[i]).Error; err != nil {
			return apperr.Internal("batch update failed", err)
		}
	}
	return nil
}

// completeReturn: goods come back. Restock lines raise available (and open
// a batch again), scrap lines go to damaged. Every entry carries the
// offset voucher of the original export.
func (e *Engine) completeReturn(tx *gorm.DB, ord *models.Order) error {
	vch, err := voucher.Build(ord, models.VoucherTypeReturn)
	if err != nil {
		return err
	}
	if err := tx.Create(vch).Error; err != nil {
		return apperr.Internal("voucher create failed", err)
	}

	now := time.Now()
	for i, item := range ord.Items {
		if err := ledger.Append(tx, &models.LedgerEntry{
			ProductID:       item.ProductID,
			WarehouseID:     ord.WarehouseID,
			VoucherNo:       vch.VoucherNo,
			OffsetVoucherNo: item.OffsetVoucherNo,
			Unit:            e.productUnit(tx, item.ProductID),
			QuantityIn:      item.Quantity,
			UnitCost:        item.UnitPrice,
			EntryDate:       now,
		}); err != nil {
			return err
		}

		delta := inventory.Delta{Available: item.Quantity}
		if item.Disposition == models.DispositionScrap {
			delta = inventory.Delta{Damaged: item.Quantity}
		}
		if _, err := e.inv.Adjust(tx, item.ProductID, ord.WarehouseID, delta); err != nil {
			return err
		}

		if item.Disposition == models.DispositionRestock {
			batch := models.StockBatch{
				ProductID:   item.ProductID,
				WarehouseID: ord.WarehouseID,
				BatchNo:     fmt.Sprintf("%s-%d", vch.VoucherNo, i+1),
				Quantity:    item.Quantity,
				UnitCost:    item.UnitPrice,
				ReceivedAt:  now,
			}
			if err := tx.Create(&batch).Error; err != nil {
				return apperr.Internal("stock batch create failed", err)
			}
		}
	}
	return nil
}

// Cancel is permitted from Pending or Approved. Cancelling an approved
// export releases its reservation exactly; the ledger gets no entry since
// no movement occurred.
func (e *Engine) Cancel(orderID, actorID uint) (*models.Order, error) {
	peek, err := e.load(e.db, orderID)
	if err != nil {
		return nil, err
	}
	release := e.inv.Locks.Acquire(e.lockKeys(peek)...)
	defer release()

	var ord *models.Order
	err = e.db.Transaction(func(tx *gorm.DB) error {
		ord, err = e.load(tx, orderID)
		if err != nil {
			return err
		}
		if ord.Status != models.OrderStatusPending && ord.Status != models.OrderStatusApproved {
			return apperr.InvalidStateTransition("order %s is %s, only pending or approved orders can be cancelled", ord.Code, ord.Status)
		}

		if ord.Status == models.OrderStatusApproved && ord.Type == models.OrderTypeExport {
			for _, item := range ord.Items {
				if _, err := e.inv.Adjust(tx, item.ProductID, ord.WarehouseID, inventory.Delta{
					Available: item.Quantity,
					Allocated: -item.Quantity,
				}); err != nil {
					return err
				}
			}
		}

		now := time.Now()
		ord.Status = models.OrderStatusCancelled
		ord.CancelledAt = &now
		if err := tx.Save(ord).Error; err != nil {
			return apperr.Internal("order update failed", err)
		}

		return audit.WriteLog(tx, audit.LogOptions{
			UserID:      actorID,
			UserName:    e.actorName(actorID),
			EntityType:  "order",
			EntityID:    ord.ID,
			Action:      models.AuditActionCancel,
			Description: fmt.Sprintf("%s order %s cancelled", ord.Type, ord.Code),
		})
	})
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{"order": ord.Code}).Info("order cancelled")
	return ord, nil
}

// Delete removes an order permanently. Only Pending orders may be deleted;
// anything further along is history and stays.
func (e *Engine) Delete(orderID, actorID uint) error {
	return e.db.Transaction(func(tx *gorm.DB) error {
		ord, err := e.load(tx, orderID)
		if err != nil {
			return err
		}
		if ord.Status != models.OrderStatusPending {
			return apperr.InvalidStateTransition("order %s is %s, only pending orders can be deleted", ord.Code, ord.Status)
		}

		if err := tx.Where("order_id = ?", ord.ID).Delete(&models.OrderItem{}).Error; err != nil {
			return apperr.Internal("order item delete failed", err)
		}
		if err := tx.Delete(&models.Order{}, ord.ID).Error; err != nil {
			return apperr.Internal("order delete failed", err)
		}

		return audit.WriteLog(tx, audit.LogOptions{
			UserID:      actorID,
			UserName:    e.actorName(actorID),
			EntityType:  "order",
			EntityID:    ord.ID,
			Action:      models.AuditActionDelete,
			Description: fmt.Sprintf("%s order %s deleted", ord.Type, ord.Code),
			Before:      ord,
		})
	})
}
