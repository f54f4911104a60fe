package catalog

import (
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"warehouse-backend/internal/database"
	"warehouse-backend/internal/httpx"
	"warehouse-backend/internal/models"
)

var validate = validator.New()

type ProductRequest struct {
	Code           string `json:"code" validate:"required,max=50"`
	Name           string `json:"name" validate:"required,max=150"`
	Unit           string `json:"unit" validate:"required,max=20"`
	Category       string `json:"category" validate:"max=100"`
	MinStock       int64  `json:"min_stock" validate:"gte=0"`
	DefaultVATRate int    `json:"default_vat_rate" validate:"oneof=0 5 7 10"`
}

// POST /api/products
func CreateProductHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body ProductRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		if err := validate.Struct(body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		product := models.Product{
			Code:           body.Code,
			Name:           body.Name,
			Unit:           body.Unit,
			Category:       body.Category,
			MinStock:       body.MinStock,
			DefaultVATRate: body.DefaultVATRate,
		}
		if err := database.DB.Create(&product).Error; err != nil {
			return fiber.NewError(fiber.StatusConflict, "product code already exists")
		}
		return httpx.Created(c, "product created", product)
	}
}

// GET /api/products?category=
func ListProductsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		q := database.DB.Model(&models.Product{}).Order("code")
		if cat := c.Query("category"); cat != "" {
			q = q.Where("category = ?", cat)
		}

		var products []models.Product
		if err := q.Find(&products).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not load products")
		}
		return httpx.OK(c, "", products)
	}
}

// PUT /api/products/:id
func UpdateProductHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := strconv.ParseUint(c.Params("id"), 10, 64)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "product id must be a number")
		}

		var body ProductRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		if err := validate.Struct(body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		var product models.Product
		if err := database.DB.First(&product, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "product not found")
		}

		product.Code = body.Code
		product.Name = body.Name
		product.Unit = body.Unit
		product.Category = body.Category
		product.MinStock = body.MinStock
		product.DefaultVATRate = body.DefaultVATRate
		if err := database.DB.Save(&product).Error; err != nil {
			return fiber.NewError(fiber.StatusConflict, "product code already exists")
		}
		return httpx.OK(c, "product updated", product)
	}
}

// DELETE /api/products/:id
// A product with ledger history cannot be removed; the journal must stay
// traceable.
func DeleteProductHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := strconv.ParseUint(c.Params("id"), 10, 64)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "product id must be a number")
		}

		var entries int64
		database.DB.Model(&models.LedgerEntry{}).Where("product_id = ?", id).Count(&entries)
		if entries > 0 {
			return fiber.NewError(fiber.StatusConflict, "product has ledger history and cannot be deleted")
		}

		if err := database.DB.Delete(&models.Product{}, id).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not delete product")
		}
		return httpx.OK(c, "product deleted", nil)
	}
}
