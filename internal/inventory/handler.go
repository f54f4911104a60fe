package inventory

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"warehouse-backend/internal/database"
	"warehouse-backend/internal/httpx"
	"warehouse-backend/internal/models"
)

type RecordResponse struct {
	ProductID     uint   `json:"product_id"`
	ProductCode   string `json:"product_code"`
	ProductName   string `json:"product_name"`
	WarehouseID   uint   `json:"warehouse_id"`
	WarehouseName string `json:"warehouse_name"`
	Available     int64  `json:"available"`
	Allocated     int64  `json:"allocated"`
	Damaged       int64  `json:"damaged"`
	InTransit     int64  `json:"in_transit"`
	TotalStock    int64  `json:"total_stock"`
}

type AlertResponse struct {
	ProductID   uint   `json:"product_id"`
	ProductCode string `json:"product_code"`
	ProductName string `json:"product_name"`
	MinStock    int64  `json:"min_stock"`
	OnHand      int64  `json:"on_hand"`
	Shortfall   int64  `json:"shortfall"`
}

// GET /api/inventory?warehouse_id=&product_id=
func ListInventoryHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		q := database.DB.Model(&models.InventoryRecord{}).
			Preload("Product").Preload("Warehouse").
			Order("product_id, warehouse_id")

		if wid := c.Query("warehouse_id"); wid != "" {
			id, err := strconv.ParseUint(wid, 10, 64)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "warehouse_id must be a number")
			}
			q = q.Where("warehouse_id = ?", id)
		}
		if pid := c.Query("product_id"); pid != "" {
			id, err := strconv.ParseUint(pid, 10, 64)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "product_id must be a number")
			}
			q = q.Where("product_id = ?", id)
		}

		var records []models.InventoryRecord
		if err := q.Find(&records).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not load inventory")
		}

		out := make([]RecordResponse, 0, len(records))
		for _, r := range records {
			out = append(out, RecordResponse{
				ProductID:     r.ProductID,
				ProductCode:   r.Product.Code,
				ProductName:   r.Product.Name,
				WarehouseID:   r.WarehouseID,
				WarehouseName: r.Warehouse.Name,
				Available:     r.Available,
				Allocated:     r.Allocated,
				Damaged:       r.Damaged,
				InTransit:     r.InTransit,
				TotalStock:    r.TotalStock(),
			})
		}

		return httpx.OK(c, "", out)
	}
}

// GET /api/inventory/alerts
// Products whose sellable stock across all warehouses fell below MinStock.
func StockAlertsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var products []models.Product
		if err := database.DB.Where("min_stock > 0").Find(&products).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not load products")
		}

		alerts := make([]AlertResponse, 0)
		for _, p := range products {
			var onHand int64
			row := database.DB.Model(&models.InventoryRecord{}).
				Where("product_id = ?", p.ID).
				Select("COALESCE(SUM(available), 0)")
			if err := row.Scan(&onHand).Error; err != nil {
				return fiber.NewError(fiber.StatusInternalServerError, "could not compute stock levels")
			}
			if onHand < p.MinStock {
				alerts = append(alerts, AlertResponse{
					ProductID:   p.ID,
					ProductCode: p.Code,
					ProductName: p.Name,
					MinStock:    p.MinStock,
					OnHand:      onHand,
					Shortfall:   p.MinStock - onHand,
				})
			}
		}

		return httpx.OK(c, "", alerts)
	}
}
