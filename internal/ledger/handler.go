package ledger

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"warehouse-backend/internal/config"
	"warehouse-backend/internal/database"
	"warehouse-backend/internal/httpx"
	"warehouse-backend/internal/models"
)

type CardRow struct {
	VoucherNo       string          `json:"voucher_no"`
	OffsetVoucherNo string          `json:"offset_voucher_no,omitempty"`
	WarehouseID     uint            `json:"warehouse_id"`
	Date            string          `json:"date"`
	Unit            string          `json:"unit"`
	QuantityIn      int64           `json:"quantity_in"`
	QuantityOut     int64           `json:"quantity_out"`
	UnitCost        decimal.Decimal `json:"unit_cost"`
	IssueCost       decimal.Decimal `json:"issue_cost"`
	RunningStock    int64           `json:"running_stock"`
	RunningValue    decimal.Decimal `json:"running_value"`
}

type CardResponse struct {
	ProductID   uint                   `json:"product_id"`
	ProductCode string                 `json:"product_code"`
	ProductName string                 `json:"product_name"`
	Costing     string                 `json:"costing"`
	Rows        []CardRow              `json:"rows"`
	Warnings    []NegativeStockWarning `json:"warnings,omitempty"`
}

func parseProductParam(c *fiber.Ctx) (*models.Product, error) {
	id, err := strconv.ParseUint(c.Params("productId"), 10, 64)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "productId must be a number")
	}
	var product models.Product
	if err := database.DB.First(&product, "id = ?", id).Error; err != nil {
		return nil, fiber.NewError(fiber.StatusNotFound, "product not found")
	}
	return &product, nil
}

func parseWarehouseQuery(c *fiber.Ctx) (*uint, error) {
	wid := c.Query("warehouse_id")
	if wid == "" {
		return nil, nil
	}
	id, err := strconv.ParseUint(wid, 10, 64)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "warehouse_id must be a number")
	}
	u := uint(id)
	return &u, nil
}

// BuildCard assembles the warehouse card for a product, optionally limited
// to one warehouse. Shared by the JSON handler and the xlsx export.
func BuildCard(product *models.Product, warehouseID *uint, newStrategy StrategyFactory) (*CardResponse, error) {
	balance, err := ComputeRunningBalance(database.DB, product.ID, warehouseID, newStrategy)
	if err != nil {
		return nil, err
	}

	rows := make([]CardRow, 0, len(balance.Points))
	for _, p := range balance.Points {
		rows = append(rows, CardRow{
			VoucherNo:       p.Entry.VoucherNo,
			OffsetVoucherNo: p.Entry.OffsetVoucherNo,
			WarehouseID:     p.Entry.WarehouseID,
			Date:            p.Entry.EntryDate.Format("2006-01-02"),
			Unit:            p.Entry.Unit,
			QuantityIn:      p.Entry.QuantityIn,
			QuantityOut:     p.Entry.QuantityOut,
			UnitCost:        p.Entry.UnitCost,
			IssueCost:       p.IssueCost,
			RunningStock:    p.RunningStock,
			RunningValue:    p.RunningValue,
		})
	}

	return &CardResponse{
		ProductID:   product.ID,
		ProductCode: product.Code,
		ProductName: product.Name,
		Costing:     newStrategy().Name(),
		Rows:        rows,
		Warnings:    balance.Warnings,
	}, nil
}

// GET /api/ledger/:productId?warehouse_id=
func LedgerCardHandler(cfg *config.Config) fiber.Handler {
	factory := FactoryFor(cfg.CostingMethod)
	return func(c *fiber.Ctx) error {
		product, err := parseProductParam(c)
		if err != nil {
			return err
		}
		warehouseID, err := parseWarehouseQuery(c)
		if err != nil {
			return err
		}

		card, err := BuildCard(product, warehouseID, factory)
		if err != nil {
			return httpx.Fail(c, err)
		}
		return httpx.OK(c, "", card)
	}
}
