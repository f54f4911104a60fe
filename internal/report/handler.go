package report

import (
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"warehouse-backend/internal/config"
	"warehouse-backend/internal/database"
	"warehouse-backend/internal/ledger"
	"warehouse-backend/internal/models"
)

// GET /api/ledger/:productId/export?warehouse_id=
func ExportLedgerCardHandler(cfg *config.Config) fiber.Handler {
	factory := ledger.FactoryFor(cfg.CostingMethod)
	return func(c *fiber.Ctx) error {
		id, err := strconv.ParseUint(c.Params("productId"), 10, 64)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "productId must be a number")
		}
		var product models.Product
		if err := database.DB.First(&product, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "product not found")
		}

		var warehouseID *uint
		if wid := c.Query("warehouse_id"); wid != "" {
			w, err := strconv.ParseUint(wid, 10, 64)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "warehouse_id must be a number")
			}
			u := uint(w)
			warehouseID = &u
		}

		card, err := ledger.BuildCard(&product, warehouseID, factory)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not build warehouse card")
		}

		f, err := LedgerCardXLSX(&product, card)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not render workbook")
		}
		buf, err := f.WriteToBuffer()
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not serialize workbook")
		}

		c.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Set("Content-Disposition", fmt.Sprintf("attachment; filename=warehouse-card-%s.xlsx", product.Code))
		return c.Send(buf.Bytes())
	}
}
