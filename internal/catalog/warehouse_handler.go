package catalog

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"warehouse-backend/internal/database"
	"warehouse-backend/internal/httpx"
	"warehouse-backend/internal/models"
)

type WarehouseRequest struct {
	Code          string `json:"code" validate:"required,max=50"`
	Name          string `json:"name" validate:"required,max=150"`
	Address       string `json:"address" validate:"max=255"`
	CapacityLimit int64  `json:"capacity_limit" validate:"gte=0"`
}

// POST /api/warehouses
func CreateWarehouseHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body WarehouseRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		if err := validate.Struct(body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		warehouse := models.Warehouse{
			Code:          body.Code,
			Name:          body.Name,
			Address:       body.Address,
			CapacityLimit: body.CapacityLimit,
		}
		if err := database.DB.Create(&warehouse).Error; err != nil {
			return fiber.NewError(fiber.StatusConflict, "warehouse code already exists")
		}
		return httpx.Created(c, "warehouse created", warehouse)
	}
}

// GET /api/warehouses
func ListWarehousesHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var warehouses []models.Warehouse
		if err := database.DB.Order("code").Find(&warehouses).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not load warehouses")
		}
		return httpx.OK(c, "", warehouses)
	}
}

// PUT /api/warehouses/:id
func UpdateWarehouseHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := strconv.ParseUint(c.Params("id"), 10, 64)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "warehouse id must be a number")
		}

		var body WarehouseRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		if err := validate.Struct(body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		var warehouse models.Warehouse
		if err := database.DB.First(&warehouse, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "warehouse not found")
		}

		warehouse.Code = body.Code
		warehouse.Name = body.Name
		warehouse.Address = body.Address
		warehouse.CapacityLimit = body.CapacityLimit
		if err := database.DB.Save(&warehouse).Error; err != nil {
			return fiber.NewError(fiber.StatusConflict, "warehouse code already exists")
		}
		return httpx.OK(c, "warehouse updated", warehouse)
	}
}

// DELETE /api/warehouses/:id
func DeleteWarehouseHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := strconv.ParseUint(c.Params("id"), 10, 64)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "warehouse id must be a number")
		}

		var stock int64
		database.DB.Model(&models.InventoryRecord{}).
			Where("warehouse_id = ? AND (available + allocated + damaged + in_transit) > 0", id).
			Count(&stock)
		if stock > 0 {
			return fiber.NewError(fiber.StatusConflict, "warehouse still holds stock and cannot be deleted")
		}

		if err := database.DB.Delete(&models.Warehouse{}, id).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not delete warehouse")
		}
		return httpx.OK(c, "warehouse deleted", nil)
	}
}
