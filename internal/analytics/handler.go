package analytics

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"warehouse-backend/internal/config"
	"warehouse-backend/internal/database"
	"warehouse-backend/internal/httpx"
	"warehouse-backend/internal/models"
)

// The dashboard endpoints recompute everything from a fresh snapshot on
// each request. They take no locks and never block writers; the numbers are
// eventually-consistent reporting, not a source of truth for stock
// decisions.

type Overview struct {
	TotalProducts   int64            `json:"total_products"`
	TotalWarehouses int64            `json:"total_warehouses"`
	StockValue      decimal.Decimal  `json:"stock_value"`
	OrdersByStatus  map[string]int64 `json:"orders_by_status"`
	LowStockAlerts  int              `json:"low_stock_alerts"`
	ExpiryCritical  int              `json:"expiry_critical"`
	DeadStockLoss   decimal.Decimal  `json:"dead_stock_loss"`
}

func loadBatches() ([]models.StockBatch, error) {
	var batches []models.StockBatch
	err := database.DB.Where("quantity > 0").Find(&batches).Error
	return batches, err
}

// abcInputs builds the valuation snapshot: on-hand from inventory records,
// unit cost as the average cost of the product's remaining batches.
func abcInputs() ([]ABCInput, error) {
	var records []models.InventoryRecord
	if err := database.DB.Preload("Product").Find(&records).Error; err != nil {
		return nil, err
	}
	batches, err := loadBatches()
	if err != nil {
		return nil, err
	}

	type costAcc struct {
		qty   int64
		value decimal.Decimal
	}
	costs := make(map[uint]*costAcc)
	for _, b := range batches {
		acc, ok := costs[b.ProductID]
		if !ok {
			acc = &costAcc{value: decimal.Zero}
			costs[b.ProductID] = acc
		}
		acc.qty += b.Quantity
		acc.value = acc.value.Add(b.UnitCost.Mul(decimal.NewFromInt(b.Quantity)))
	}

	onHand := make(map[uint]*ABCInput)
	order := make([]uint, 0)
	for _, r := range records {
		in, ok := onHand[r.ProductID]
		if !ok {
			in = &ABCInput{
				ProductID:   r.ProductID,
				ProductCode: r.Product.Code,
				ProductName: r.Product.Name,
				UnitCost:    decimal.Zero,
			}
			onHand[r.ProductID] = in
			order = append(order, r.ProductID)
		}
		in.OnHand += r.TotalStock()
	}

	inputs := make([]ABCInput, 0, len(order))
	for _, pid := range order {
		in := onHand[pid]
		if acc, ok := costs[pid]; ok && acc.qty > 0 {
			in.UnitCost = acc.value.Div(decimal.NewFromInt(acc.qty))
		}
		inputs = append(inputs, *in)
	}
	return inputs, nil
}

func warehouseLoads() ([]WarehouseLoad, error) {
	var warehouses []models.Warehouse
	if err := database.DB.Order("id").Find(&warehouses).Error; err != nil {
		return nil, err
	}

	loads := make([]WarehouseLoad, 0, len(warehouses))
	for _, w := range warehouses {
		var total int64
		err := database.DB.Model(&models.InventoryRecord{}).
			Where("warehouse_id = ?", w.ID).
			Select("COALESCE(SUM(available + allocated + damaged + in_transit), 0)").
			Scan(&total).Error
		if err != nil {
			return nil, err
		}
		loads = append(loads, WarehouseLoad{
			WarehouseID:   w.ID,
			WarehouseName: w.Name,
			CapacityLimit: w.CapacityLimit,
			TotalQuantity: total,
		})
	}
	return loads, nil
}

// GET /api/dashboard/overview
func OverviewHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var overview Overview
		overview.OrdersByStatus = make(map[string]int64)

		database.DB.Model(&models.Product{}).Count(&overview.TotalProducts)
		database.DB.Model(&models.Warehouse{}).Count(&overview.TotalWarehouses)

		type statusCount struct {
			Status string
			N      int64
		}
		var counts []statusCount
		database.DB.Model(&models.Order{}).Select("status, COUNT(*) AS n").Group("status").Scan(&counts)
		for _, sc := range counts {
			overview.OrdersByStatus[sc.Status] = sc.N
		}

		batches, err := loadBatches()
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not load stock batches")
		}
		overview.StockValue = decimal.Zero
		for _, b := range batches {
			overview.StockValue = overview.StockValue.Add(b.UnitCost.Mul(decimal.NewFromInt(b.Quantity)))
		}

		now := time.Now()
		for _, risk := range AssessExpiry(batches, now) {
			if risk.Status == ExpiryCritical {
				overview.ExpiryCritical++
			}
		}
		overview.DeadStockLoss = ComputeDeadStock(batches, now, cfg.DeadStockSalvageRate).TotalLoss

		var lowStock []models.Product
		database.DB.Where("min_stock > 0").Find(&lowStock)
		for _, p := range lowStock {
			var available int64
			database.DB.Model(&models.InventoryRecord{}).
				Where("product_id = ?", p.ID).
				Select("COALESCE(SUM(available), 0)").
				Scan(&available)
			if available < p.MinStock {
				overview.LowStockAlerts++
			}
		}

		return httpx.OK(c, "", overview)
	}
}

// GET /api/dashboard/trend?months=6
func TrendHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		months := c.QueryInt("months", 6)
		if months < 2 || months > 36 {
			return fiber.NewError(fiber.StatusBadRequest, "months must be between 2 and 36")
		}

		now := time.Now()
		since := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -(months - 1), 0)

		var entries []models.LedgerEntry
		if err := database.DB.Where("entry_date >= ?", since).Order("entry_date, id").Find(&entries).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not load ledger entries")
		}

		return httpx.OK(c, "", BuildTrend(entries, months, now))
	}
}

// GET /api/dashboard/abc?top=10
func ABCHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		inputs, err := abcInputs()
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not load inventory snapshot")
		}

		items := ClassifyABC(inputs)
		if top := c.QueryInt("top", 0); top > 0 {
			items = TopN(items, top)
		}
		return httpx.OK(c, "", items)
	}
}

// GET /api/dashboard/warehouse-balance
func WarehouseBalanceHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		loads, err := warehouseLoads()
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not load warehouse snapshot")
		}
		return httpx.OK(c, "", BalanceCapacity(loads))
	}
}

// GET /api/dashboard/expiry
func ExpiryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		batches, err := loadBatches()
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not load stock batches")
		}
		return httpx.OK(c, "", AssessExpiry(batches, time.Now()))
	}
}

// GET /api/dashboard/dead-stock
func DeadStockHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		batches, err := loadBatches()
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not load stock batches")
		}
		return httpx.OK(c, "", ComputeDeadStock(batches, time.Now(), cfg.DeadStockSalvageRate))
	}
}
