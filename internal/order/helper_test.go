package order

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"warehouse-backend/internal/database"
	"warehouse-backend/internal/inventory"
	"warehouse-backend/internal/ledger"
	"warehouse-backend/internal/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("db handle: %v", err)
	}
	// a single connection keeps the whole test on one in-memory database
	sqlDB.SetMaxOpenConns(1)

	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func newTestEngine(t *testing.T) (*Engine, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	return NewEngine(db, inventory.NewStore(), ledger.NewWeightedAverage), db
}

func seedUser(t *testing.T, db *gorm.DB) models.User {
	t.Helper()
	user := models.User{Name: "Tester", Email: "tester@local", PasswordHash: "x", Role: models.RoleAdmin}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return user
}

func seedWarehouse(t *testing.T, db *gorm.DB, code string) models.Warehouse {
	t.Helper()
	w := models.Warehouse{Code: code, Name: "Warehouse " + code, CapacityLimit: 10000}
	if err := db.Create(&w).Error; err != nil {
		t.Fatalf("seed warehouse: %v", err)
	}
	return w
}

func seedProduct(t *testing.T, db *gorm.DB, code string) models.Product {
	t.Helper()
	p := models.Product{Code: code, Name: "Product " + code, Unit: "pcs"}
	if err := db.Create(&p).Error; err != nil {
		t.Fatalf("seed product: %v", err)
	}
	return p
}

// seedStock runs a full import lifecycle so the seeded quantities carry
// matching ledger entries.
func seedStock(t *testing.T, e *Engine, actorID, productID, warehouseID uint, qty int64, unitCost int64) {
	t.Helper()
	ord, err := e.Create(CreateOrderInput{
		Type:          models.OrderTypeImport,
		WarehouseID:   warehouseID,
		PaymentMethod: models.PaymentCash,
		Items: []CreateItemInput{{
			ProductID: productID,
			Quantity:  qty,
			UnitPrice: decimal.NewFromInt(unitCost),
		}},
	}, actorID)
	if err != nil {
		t.Fatalf("seed stock create: %v", err)
	}
	if _, err := e.Approve(ord.ID, actorID, ""); err != nil {
		t.Fatalf("seed stock approve: %v", err)
	}
	if _, err := e.Complete(ord.ID, actorID); err != nil {
		t.Fatalf("seed stock complete: %v", err)
	}
}

func getRecord(t *testing.T, db *gorm.DB, productID, warehouseID uint) models.InventoryRecord {
	t.Helper()
	var rec models.InventoryRecord
	err := db.Where("product_id = ? AND warehouse_id = ?", productID, warehouseID).First(&rec).Error
	if err != nil {
		t.Fatalf("inventory record: %v", err)
	}
	return rec
}

func ledgerNet(t *testing.T, db *gorm.DB, productID, warehouseID uint) int64 {
	t.Helper()
	var entries []models.LedgerEntry
	err := db.Where("product_id = ? AND warehouse_id = ?", productID, warehouseID).
		Order("entry_date, id").Find(&entries).Error
	if err != nil {
		t.Fatalf("ledger entries: %v", err)
	}
	var net int64
	for _, e := range entries {
		net += e.QuantityIn - e.QuantityOut
	}
	return net
}

// checkInvariant verifies the bucket sum equals the ledger-derived net
// total for the (product, warehouse) pair.
func checkInvariant(t *testing.T, db *gorm.DB, productID, warehouseID uint) {
	t.Helper()
	rec := getRecord(t, db, productID, warehouseID)
	net := ledgerNet(t, db, productID, warehouseID)
	if rec.TotalStock() != net {
		t.Fatalf("invariant broken: buckets total %d, ledger net %d", rec.TotalStock(), net)
	}
}

func exportOrder(t *testing.T, e *Engine, actorID, productID, warehouseID uint, qty int64, price int64) *models.Order {
	t.Helper()
	ord, err := e.Create(CreateOrderInput{
		Type:          models.OrderTypeExport,
		WarehouseID:   warehouseID,
		PaymentMethod: models.PaymentBank,
		Items: []CreateItemInput{{
			ProductID: productID,
			Quantity:  qty,
			UnitPrice: decimal.NewFromInt(price),
		}},
	}, actorID)
	if err != nil {
		t.Fatalf("create export: %v", err)
	}
	return ord
}

func futureDate(days int) *time.Time {
	d := time.Now().AddDate(0, 0, days)
	return &d
}
