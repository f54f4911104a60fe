package database

import (
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"warehouse-backend/internal/config"
	"warehouse-backend/internal/models"
)

var DB *gorm.DB

func Init(cfg *config.Config) {
	var err error

	DB, err = gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{})
	if err != nil {
		logrus.Fatalf("database connection failed: %v", err)
	}

	if err := Migrate(DB); err != nil {
		logrus.Fatalf("migration failed: %v", err)
	}

	logrus.Info("database connected, migration done")
}

// Migrate runs AutoMigrate for every model. Shared with the test setup,
// which runs it against an in-memory sqlite database.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.Warehouse{},
		&models.InventoryRecord{},
		&models.LedgerEntry{},
		&models.StockBatch{},
		&models.Order{},
		&models.OrderItem{},
		&models.Voucher{},
		&models.VoucherLine{},
		&models.AuditLog{},
	)
}
