package order

import (
	"testing"

	"github.com/shopspring/decimal"

	"warehouse-backend/internal/apperr"
	"warehouse-backend/internal/models"
)

func TestImportLifecycleIncreasesStockAndLedger(t *testing.T) {
	e, db := newTestEngine(t)
	user := seedUser(t, db)
	wh := seedWarehouse(t, db, "WH1")
	p := seedProduct(t, db, "G1")

	ord, err := e.Create(CreateOrderInput{
		Type:          models.OrderTypeImport,
		WarehouseID:   wh.ID,
		PaymentMethod: models.PaymentCash,
		Items: []CreateItemInput{{
			ProductID: p.ID,
			Quantity:  100,
			UnitPrice: decimal.NewFromInt(1000),
		}},
	}, user.ID)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if ord.Status != models.OrderStatusPending {
		t.Fatalf("status after create = %s, want pending", ord.Status)
	}

	if _, err := e.Approve(ord.ID, user.ID, ""); err != nil {
		t.Fatalf("approve: %v", err)
	}
	// approval of an import authorizes receipt only; no stock yet
	if err := db.Where("product_id = ?", p.ID).First(&models.InventoryRecord{}).Error; err == nil {
		t.Fatal("import approval must not create inventory")
	}

	if _, err := e.Complete(ord.ID, user.ID); err != nil {
		t.Fatalf("complete: %v", err)
	}

	rec := getRecord(t, db, p.ID, wh.ID)
	if rec.Available != 100 {
		t.Fatalf("available = %d, want 100", rec.Available)
	}

	var entries []models.LedgerEntry
	if err := db.Where("product_id = ?", p.ID).Find(&entries).Error; err != nil {
		t.Fatalf("ledger: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("ledger entries = %d, want 1", len(entries))
	}
	if entries[0].QuantityIn != 100 || entries[0].QuantityOut != 0 {
		t.Fatalf("entry in/out = %d/%d, want 100/0", entries[0].QuantityIn, entries[0].QuantityOut)
	}
	if !entries[0].UnitCost.Equal(decimal.NewFromInt(1000)) {
		t.Fatalf("entry unit cost = %s, want 1000", entries[0].UnitCost)
	}

	checkInvariant(t, db, p.ID, wh.ID)
}

func TestExportLifecycleReservesThenCommits(t *testing.T) {
	e, db := newTestEngine(t)
	user := seedUser(t, db)
	wh := seedWarehouse(t, db, "WH1")
	p := seedProduct(t, db, "G1")
	seedStock(t, e, user.ID, p.ID, wh.ID, 100, 1000)

	ord := exportOrder(t, e, user.ID, p.ID, wh.ID, 30, 1500)

	if _, err := e.Approve(ord.ID, user.ID, ""); err != nil {
		t.Fatalf("approve: %v", err)
	}
	rec := getRecord(t, db, p.ID, wh.ID)
	if rec.Available != 70 || rec.Allocated != 30 {
		t.Fatalf("after approve available/allocated = %d/%d, want 70/30", rec.Available, rec.Allocated)
	}

	if _, err := e.Complete(ord.ID, user.ID); err != nil {
		t.Fatalf("complete: %v", err)
	}
	rec = getRecord(t, db, p.ID, wh.ID)
	if rec.Available != 70 || rec.Allocated != 0 {
		t.Fatalf("after complete available/allocated = %d/%d, want 70/0", rec.Available, rec.Allocated)
	}

	var outs []models.LedgerEntry
	if err := db.Where("product_id = ? AND quantity_out > 0", p.ID).Find(&outs).Error; err != nil {
		t.Fatalf("ledger: %v", err)
	}
	if len(outs) != 1 || outs[0].QuantityOut != 30 {
		t.Fatalf("outbound entries = %v, want one with quantity_out=30", outs)
	}

	checkInvariant(t, db, p.ID, wh.ID)
}

func TestExportApprovalBoundary(t *testing.T) {
	e, db := newTestEngine(t)
	user := seedUser(t, db)
	wh := seedWarehouse(t, db, "WH1")

	// available == quantity: succeeds
	p1 := seedProduct(t, db, "G1")
	seedStock(t, e, user.ID, p1.ID, wh.ID, 30, 1000)
	exact := exportOrder(t, e, user.ID, p1.ID, wh.ID, 30, 1200)
	if _, err := e.Approve(exact.ID, user.ID, ""); err != nil {
		t.Fatalf("approve with available == quantity: %v", err)
	}

	// available == quantity-1: fails, nothing reserved
	p2 := seedProduct(t, db, "G2")
	seedStock(t, e, user.ID, p2.ID, wh.ID, 29, 1000)
	short := exportOrder(t, e, user.ID, p2.ID, wh.ID, 30, 1200)
	_, err := e.Approve(short.ID, user.ID, "")
	if !apperr.IsKind(err, apperr.KindInsufficientStock) {
		t.Fatalf("approve with available == quantity-1: got %v, want InsufficientStock", err)
	}

	var reloaded models.Order
	if err := db.First(&reloaded, short.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.Status != models.OrderStatusPending {
		t.Fatalf("failed approval left status %s, want pending", reloaded.Status)
	}
	rec := getRecord(t, db, p2.ID, wh.ID)
	if rec.Available != 29 || rec.Allocated != 0 {
		t.Fatalf("failed approval moved stock: available/allocated = %d/%d", rec.Available, rec.Allocated)
	}
}

func TestExportApprovalAllOrNothing(t *testing.T) {
	e, db := newTestEngine(t)
	user := seedUser(t, db)
	wh := seedWarehouse(t, db, "WH1")
	p1 := seedProduct(t, db, "G1")
	p2 := seedProduct(t, db, "G2")
	seedStock(t, e, user.ID, p1.ID, wh.ID, 100, 1000)
	seedStock(t, e, user.ID, p2.ID, wh.ID, 5, 1000)

	ord, err := e.Create(CreateOrderInput{
		Type:          models.OrderTypeExport,
		WarehouseID:   wh.ID,
		PaymentMethod: models.PaymentCash,
		Items: []CreateItemInput{
			{ProductID: p1.ID, Quantity: 10, UnitPrice: decimal.NewFromInt(1200)},
			{ProductID: p2.ID, Quantity: 10, UnitPrice: decimal.NewFromInt(1200)},
		},
	}, user.ID)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := e.Approve(ord.ID, user.ID, ""); !apperr.IsKind(err, apperr.KindInsufficientStock) {
		t.Fatalf("approve: got %v, want InsufficientStock", err)
	}

	// the line that had stock must not have been reserved
	rec := getRecord(t, db, p1.ID, wh.ID)
	if rec.Available != 100 || rec.Allocated != 0 {
		t.Fatalf("partial reservation: available/allocated = %d/%d, want 100/0", rec.Available, rec.Allocated)
	}
}

func TestApproveCancelRoundTrip(t *testing.T) {
	e, db := newTestEngine(t)
	user := seedUser(t, db)
	wh := seedWarehouse(t, db, "WH1")
	p := seedProduct(t, db, "G1")
	seedStock(t, e, user.ID, p.ID, wh.ID, 50, 10)

	before := getRecord(t, db, p.ID, wh.ID)
	ledgerBefore := ledgerNet(t, db, p.ID, wh.ID)

	ord := exportOrder(t, e, user.ID, p.ID, wh.ID, 5, 10)
	if _, err := e.Approve(ord.ID, user.ID, ""); err != nil {
		t.Fatalf("approve: %v", err)
	}
	if _, err := e.Cancel(ord.ID, user.ID); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	after := getRecord(t, db, p.ID, wh.ID)
	if after.Available != before.Available || after.Allocated != before.Allocated {
		t.Fatalf("cancel did not restore buckets: got %d/%d, want %d/%d",
			after.Available, after.Allocated, before.Available, before.Allocated)
	}
	if got := ledgerNet(t, db, p.ID, wh.ID); got != ledgerBefore {
		t.Fatalf("cancel wrote to the ledger: net %d, want %d", got, ledgerBefore)
	}
}

func TestCancelFromTerminalStateFailsWithoutChange(t *testing.T) {
	e, db := newTestEngine(t)
	user := seedUser(t, db)
	wh := seedWarehouse(t, db, "WH1")
	p := seedProduct(t, db, "G1")
	seedStock(t, e, user.ID, p.ID, wh.ID, 10, 10)

	ord := exportOrder(t, e, user.ID, p.ID, wh.ID, 5, 10)
	if _, err := e.Cancel(ord.ID, user.ID); err != nil {
		t.Fatalf("first cancel: %v", err)
	}

	// same call again: same error, same state
	for i := 0; i < 2; i++ {
		_, err := e.Cancel(ord.ID, user.ID)
		if !apperr.IsKind(err, apperr.KindInvalidStateTransition) {
			t.Fatalf("cancel #%d on cancelled order: got %v, want InvalidStateTransition", i+2, err)
		}
	}
	var reloaded models.Order
	if err := db.First(&reloaded, ord.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if reloaded.Status != models.OrderStatusCancelled {
		t.Fatalf("status = %s, want cancelled", reloaded.Status)
	}
}

func TestCompletedOrderIsTerminal(t *testing.T) {
	e, db := newTestEngine(t)
	user := seedUser(t, db)
	wh := seedWarehouse(t, db, "WH1")
	p := seedProduct(t, db, "G1")
	seedStock(t, e, user.ID, p.ID, wh.ID, 10, 10)

	ord := exportOrder(t, e, user.ID, p.ID, wh.ID, 5, 10)
	if _, err := e.Approve(ord.ID, user.ID, ""); err != nil {
		t.Fatalf("approve: %v", err)
	}
	if _, err := e.Complete(ord.ID, user.ID); err != nil {
		t.Fatalf("complete: %v", err)
	}

	if _, err := e.Cancel(ord.ID, user.ID); !apperr.IsKind(err, apperr.KindInvalidStateTransition) {
		t.Fatalf("cancel completed: got %v, want InvalidStateTransition", err)
	}
	if _, err := e.Approve(ord.ID, user.ID, ""); !apperr.IsKind(err, apperr.KindInvalidStateTransition) {
		t.Fatalf("approve completed: got %v, want InvalidStateTransition", err)
	}
	if _, err := e.Reject(ord.ID, user.ID, "nope"); !apperr.IsKind(err, apperr.KindInvalidStateTransition) {
		t.Fatalf("reject completed: got %v, want InvalidStateTransition", err)
	}
	if err := e.Delete(ord.ID, user.ID); !apperr.IsKind(err, apperr.KindInvalidStateTransition) {
		t.Fatalf("delete completed: got %v, want InvalidStateTransition", err)
	}
}

func TestCreateValidation(t *testing.T) {
	e, db := newTestEngine(t)
	user := seedUser(t, db)
	wh := seedWarehouse(t, db, "WH1")
	p := seedProduct(t, db, "G1")

	cases := []struct {
		name string
		in   CreateOrderInput
	}{
		{"no items", CreateOrderInput{Type: models.OrderTypeImport, WarehouseID: wh.ID, PaymentMethod: models.PaymentCash}},
		{"zero quantity", CreateOrderInput{Type: models.OrderTypeImport, WarehouseID: wh.ID, PaymentMethod: models.PaymentCash,
			Items: []CreateItemInput{{ProductID: p.ID, Quantity: 0, UnitPrice: decimal.NewFromInt(1)}}}},
		{"negative price", CreateOrderInput{Type: models.OrderTypeImport, WarehouseID: wh.ID, PaymentMethod: models.PaymentCash,
			Items: []CreateItemInput{{ProductID: p.ID, Quantity: 1, UnitPrice: decimal.NewFromInt(-1)}}}},
		{"bad type", CreateOrderInput{Type: "transfer", WarehouseID: wh.ID, PaymentMethod: models.PaymentCash,
			Items: []CreateItemInput{{ProductID: p.ID, Quantity: 1, UnitPrice: decimal.NewFromInt(1)}}}},
		{"return without disposition", CreateOrderInput{Type: models.OrderTypeReturn, WarehouseID: wh.ID, PaymentMethod: models.PaymentCash,
			Items: []CreateItemInput{{ProductID: p.ID, Quantity: 1, UnitPrice: decimal.NewFromInt(1)}}}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := e.Create(tc.in, user.ID); !apperr.IsKind(err, apperr.KindValidation) {
				t.Fatalf("got %v, want ValidationError", err)
			}
		})
	}

	var count int64
	db.Model(&models.Order{}).Count(&count)
	if count != 0 {
		t.Fatalf("invalid creates persisted %d orders", count)
	}
}

func TestRejectRequiresReason(t *testing.T) {
	e, db := newTestEngine(t)
	user := seedUser(t, db)
	wh := seedWarehouse(t, db, "WH1")
	p := seedProduct(t, db, "G1")

	ord, err := e.Create(CreateOrderInput{
		Type:          models.OrderTypeImport,
		WarehouseID:   wh.ID,
		PaymentMethod: models.PaymentCash,
		Items:         []CreateItemInput{{ProductID: p.ID, Quantity: 1, UnitPrice: decimal.NewFromInt(1)}},
	}, user.ID)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if _, err := e.Reject(ord.ID, user.ID, ""); !apperr.IsKind(err, apperr.KindValidation) {
		t.Fatalf("reject without reason: got %v, want ValidationError", err)
	}

	rejected, err := e.Reject(ord.ID, user.ID, "wrong supplier")
	if err != nil {
		t.Fatalf("reject: %v", err)
	}
	if rejected.Status != models.OrderStatusRejected || rejected.RejectReason != "wrong supplier" {
		t.Fatalf("rejected = %s/%q", rejected.Status, rejected.RejectReason)
	}
}

func TestReturnRestockAndScrapDispositions(t *testing.T) {
	e, db := newTestEngine(t)
	user := seedUser(t, db)
	wh := seedWarehouse(t, db, "WH1")
	p := seedProduct(t, db, "G1")
	seedStock(t, e, user.ID, p.ID, wh.ID, 100, 1000)

	// sell 40 so there is something to return
	exp := exportOrder(t, e, user.ID, p.ID, wh.ID, 40, 1500)
	if _, err := e.Approve(exp.ID, user.ID, ""); err != nil {
		t.Fatalf("approve export: %v", err)
	}
	if _, err := e.Complete(exp.ID, user.ID); err != nil {
		t.Fatalf("complete export: %v", err)
	}

	var saleVoucher models.Voucher
	if err := db.Where("order_id = ?", exp.ID).First(&saleVoucher).Error; err != nil {
		t.Fatalf("sale voucher: %v", err)
	}

	ret, err := e.Create(CreateOrderInput{
		Type:          models.OrderTypeReturn,
		WarehouseID:   wh.ID,
		PaymentMethod: models.PaymentCash,
		Items: []CreateItemInput{
			{ProductID: p.ID, Quantity: 6, UnitPrice: decimal.NewFromInt(1500), Disposition: models.DispositionRestock, OffsetVoucherNo: saleVoucher.VoucherNo},
			{ProductID: p.ID, Quantity: 4, UnitPrice: decimal.NewFromInt(1500), Disposition: models.DispositionScrap, OffsetVoucherNo: saleVoucher.VoucherNo},
		},
	}, user.ID)
	if err != nil {
		t.Fatalf("create return: %v", err)
	}
	if _, err := e.Approve(ret.ID, user.ID, "quality checked"); err != nil {
		t.Fatalf("approve return: %v", err)
	}
	if _, err := e.Complete(ret.ID, user.ID); err != nil {
		t.Fatalf("complete return: %v", err)
	}

	rec := getRecord(t, db, p.ID, wh.ID)
	if rec.Available != 66 {
		t.Fatalf("available = %d, want 66 (60 after sale + 6 restocked)", rec.Available)
	}
	if rec.Damaged != 4 {
		t.Fatalf("damaged = %d, want 4", rec.Damaged)
	}

	var returns []models.LedgerEntry
	if err := db.Where("product_id = ? AND offset_voucher_no = ?", p.ID, saleVoucher.VoucherNo).Find(&returns).Error; err != nil {
		t.Fatalf("return entries: %v", err)
	}
	if len(returns) != 2 {
		t.Fatalf("return entries = %d, want 2 with the sale voucher as offset", len(returns))
	}

	checkInvariant(t, db, p.ID, wh.ID)
}

func TestDeleteOnlyFromPending(t *testing.T) {
	e, db := newTestEngine(t)
	user := seedUser(t, db)
	wh := seedWarehouse(t, db, "WH1")
	p := seedProduct(t, db, "G1")
	seedStock(t, e, user.ID, p.ID, wh.ID, 10, 10)

	pending := exportOrder(t, e, user.ID, p.ID, wh.ID, 1, 10)
	if err := e.Delete(pending.ID, user.ID); err != nil {
		t.Fatalf("delete pending: %v", err)
	}
	var count int64
	db.Model(&models.OrderItem{}).Where("order_id = ?", pending.ID).Count(&count)
	if count != 0 {
		t.Fatalf("items of deleted order remain: %d", count)
	}

	approved := exportOrder(t, e, user.ID, p.ID, wh.ID, 1, 10)
	if _, err := e.Approve(approved.ID, user.ID, ""); err != nil {
		t.Fatalf("approve: %v", err)
	}
	if err := e.Delete(approved.ID, user.ID); !apperr.IsKind(err, apperr.KindInvalidStateTransition) {
		t.Fatalf("delete approved: got %v, want InvalidStateTransition", err)
	}
}

func TestInvariantHoldsAcrossInterleavedLifecycles(t *testing.T) {
	e, db := newTestEngine(t)
	user := seedUser(t, db)
	wh := seedWarehouse(t, db, "WH1")
	p := seedProduct(t, db, "G1")

	seedStock(t, e, user.ID, p.ID, wh.ID, 200, 500)
	checkInvariant(t, db, p.ID, wh.ID)

	a := exportOrder(t, e, user.ID, p.ID, wh.ID, 50, 800)
	b := exportOrder(t, e, user.ID, p.ID, wh.ID, 70, 800)

	if _, err := e.Approve(a.ID, user.ID, ""); err != nil {
		t.Fatalf("approve a: %v", err)
	}
	checkInvariant(t, db, p.ID, wh.ID)

	if _, err := e.Approve(b.ID, user.ID, ""); err != nil {
		t.Fatalf("approve b: %v", err)
	}
	checkInvariant(t, db, p.ID, wh.ID)

	if _, err := e.Cancel(b.ID, user.ID); err != nil {
		t.Fatalf("cancel b: %v", err)
	}
	checkInvariant(t, db, p.ID, wh.ID)

	if _, err := e.Complete(a.ID, user.ID); err != nil {
		t.Fatalf("complete a: %v", err)
	}
	checkInvariant(t, db, p.ID, wh.ID)

	seedStock(t, e, user.ID, p.ID, wh.ID, 25, 600)
	checkInvariant(t, db, p.ID, wh.ID)

	rec := getRecord(t, db, p.ID, wh.ID)
	if rec.Available != 175 || rec.Allocated != 0 {
		t.Fatalf("final available/allocated = %d/%d, want 175/0", rec.Available, rec.Allocated)
	}
}
