package order

import (
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"

	"warehouse-backend/internal/auth"
	"warehouse-backend/internal/database"
	"warehouse-backend/internal/httpx"
	"warehouse-backend/internal/models"
)

var validate = validator.New()

type CreateItemRequest struct {
	ProductID       uint            `json:"product_id" validate:"required"`
	Quantity        int64           `json:"quantity" validate:"required,gt=0"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	VATRate         int             `json:"vat_rate" validate:"oneof=0 5 7 10"`
	Promotion       decimal.Decimal `json:"promotion"`
	Disposition     string          `json:"disposition" validate:"omitempty,oneof=restock scrap"`
	ExpiryDate      string          `json:"expiry_date"` // "2006-01-02", import lines only
	OffsetVoucherNo string          `json:"offset_voucher_no"`
}

type CreateOrderRequest struct {
	Type          string              `json:"type" validate:"required,oneof=import export return"`
	WarehouseID   uint                `json:"warehouse_id" validate:"required"`
	PartnerID     uint                `json:"partner_id"`
	PartnerName   string              `json:"partner_name" validate:"max=150"`
	PaymentMethod string              `json:"payment_method" validate:"omitempty,oneof=CASH BANK UNPAID"`
	Note          string              `json:"note" validate:"max=255"`
	Items         []CreateItemRequest `json:"items" validate:"required,min=1,dive"`
}

type ItemResponse struct {
	ProductID   uint            `json:"product_id"`
	Quantity    int64           `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	VATRate     int             `json:"vat_rate"`
	Promotion   decimal.Decimal `json:"promotion"`
	Disposition string          `json:"disposition,omitempty"`
	ExpiryDate  string          `json:"expiry_date,omitempty"`
}

type OrderResponse struct {
	ID            uint           `json:"id"`
	Code          string         `json:"code"`
	Type          string         `json:"type"`
	Status        string         `json:"status"`
	PartnerID     uint           `json:"partner_id"`
	PartnerName   string         `json:"partner_name"`
	WarehouseID   uint           `json:"warehouse_id"`
	PaymentMethod string         `json:"payment_method"`
	Note          string         `json:"note"`
	RejectReason  string         `json:"reject_reason,omitempty"`
	CreatedBy     uint           `json:"created_by"`
	ApprovedAt    *time.Time     `json:"approved_at,omitempty"`
	CompletedAt   *time.Time     `json:"completed_at,omitempty"`
	CancelledAt   *time.Time     `json:"cancelled_at,omitempty"`
	CreatedAt     time.Time      `json:"created_at"`
	Items         []ItemResponse `json:"items"`
}

func toOrderResponse(ord *models.Order) OrderResponse {
	out := OrderResponse{
		ID:            ord.ID,
		Code:          ord.Code,
		Type:          string(ord.Type),
		Status:        string(ord.Status),
		PartnerID:     ord.PartnerID,
		PartnerName:   ord.PartnerName,
		WarehouseID:   ord.WarehouseID,
		PaymentMethod: string(ord.PaymentMethod),
		Note:          ord.Note,
		RejectReason:  ord.RejectReason,
		CreatedBy:     ord.CreatedBy,
		ApprovedAt:    ord.ApprovedAt,
		CompletedAt:   ord.CompletedAt,
		CancelledAt:   ord.CancelledAt,
		CreatedAt:     ord.CreatedAt,
	}
	for _, item := range ord.Items {
		res := ItemResponse{
			ProductID:   item.ProductID,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			VATRate:     item.VATRate,
			Promotion:   item.Promotion,
			Disposition: string(item.Disposition),
		}
		if item.ExpiryDate != nil {
			res.ExpiryDate = item.ExpiryDate.Format("2006-01-02")
		}
		out.Items = append(out.Items, res)
	}
	return out
}

func parseOrderID(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return 0, fiber.NewError(fiber.StatusBadRequest, "order id must be a number")
	}
	return uint(id), nil
}

// POST /api/orders
func CreateOrderHandler(e *Engine) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.UserID(c)
		if err != nil {
			return err
		}

		var body CreateOrderRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		if err := validate.Struct(body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		in := CreateOrderInput{
			Type:          models.OrderType(body.Type),
			WarehouseID:   body.WarehouseID,
			PartnerID:     body.PartnerID,
			PartnerName:   body.PartnerName,
			PaymentMethod: models.PaymentMethod(body.PaymentMethod),
			Note:          body.Note,
		}
		if body.PaymentMethod == "" {
			in.PaymentMethod = models.PaymentCash
		}
		for _, item := range body.Items {
			ci := CreateItemInput{
				ProductID:       item.ProductID,
				Quantity:        item.Quantity,
				UnitPrice:       item.UnitPrice,
				VATRate:         item.VATRate,
				Promotion:       item.Promotion,
				Disposition:     models.Disposition(item.Disposition),
				OffsetVoucherNo: item.OffsetVoucherNo,
			}
			if item.ExpiryDate != "" {
				d, err := time.Parse("2006-01-02", item.ExpiryDate)
				if err != nil {
					return fiber.NewError(fiber.StatusBadRequest, "expiry_date must be 'YYYY-MM-DD'")
				}
				ci.ExpiryDate = &d
			}
			in.Items = append(in.Items, ci)
		}

		ord, err := e.Create(in, userID)
		if err != nil {
			return httpx.Fail(c, err)
		}
		resp := toOrderResponse(ord)
		return httpx.Created(c, "order created", resp)
	}
}

// GET /api/orders?type=&status=&warehouse_id=
func ListOrdersHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		q := database.DB.Model(&models.Order{}).Preload("Items").Order("created_at DESC")

		if t := c.Query("type"); t != "" {
			q = q.Where("type = ?", t)
		}
		if s := c.Query("status"); s != "" {
			q = q.Where("status = ?", s)
		}
		if wid := c.Query("warehouse_id"); wid != "" {
			id, err := strconv.ParseUint(wid, 10, 64)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "warehouse_id must be a number")
			}
			q = q.Where("warehouse_id = ?", id)
		}

		var orders []models.Order
		if err := q.Find(&orders).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not load orders")
		}

		out := make([]OrderResponse, 0, len(orders))
		for i := range orders {
			out = append(out, toOrderResponse(&orders[i]))
		}
		return httpx.OK(c, "", out)
	}
}

// GET /api/orders/:id
func GetOrderHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := parseOrderID(c)
		if err != nil {
			return err
		}

		var ord models.Order
		if err := database.DB.Preload("Items").First(&ord, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "order not found")
		}
		return httpx.OK(c, "", toOrderResponse(&ord))
	}
}

type ApproveRequest struct {
	Note string `json:"note" validate:"max=255"`
}

// POST /api/orders/:id/approve
func ApproveOrderHandler(e *Engine) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.UserID(c)
		if err != nil {
			return err
		}
		id, err := parseOrderID(c)
		if err != nil {
			return err
		}

		var body ApproveRequest
		if len(c.Body()) > 0 {
			if err := c.BodyParser(&body); err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
			}
		}

		ord, err := e.Approve(id, userID, body.Note)
		if err != nil {
			return httpx.Fail(c, err)
		}
		return httpx.OK(c, "order approved", toOrderResponse(ord))
	}
}

type RejectRequest struct {
	Reason string `json:"reason" validate:"required,max=255"`
}

// POST /api/orders/:id/reject
func RejectOrderHandler(e *Engine) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.UserID(c)
		if err != nil {
			return err
		}
		id, err := parseOrderID(c)
		if err != nil {
			return err
		}

		var body RejectRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		if err := validate.Struct(body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "a rejection reason is required")
		}

		ord, err := e.Reject(id, userID, body.Reason)
		if err != nil {
			return httpx.Fail(c, err)
		}
		return httpx.OK(c, "order rejected", toOrderResponse(ord))
	}
}

// POST /api/orders/:id/complete
func CompleteOrderHandler(e *Engine) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.UserID(c)
		if err != nil {
			return err
		}
		id, err := parseOrderID(c)
		if err != nil {
			return err
		}

		ord, err := e.Complete(id, userID)
		if err != nil {
			return httpx.Fail(c, err)
		}
		return httpx.OK(c, "order completed", toOrderResponse(ord))
	}
}

// POST /api/orders/:id/cancel
func CancelOrderHandler(e *Engine) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.UserID(c)
		if err != nil {
			return err
		}
		id, err := parseOrderID(c)
		if err != nil {
			return err
		}

		ord, err := e.Cancel(id, userID)
		if err != nil {
			return httpx.Fail(c, err)
		}
		return httpx.OK(c, "order cancelled", toOrderResponse(ord))
	}
}

// DELETE /api/orders/:id
func DeleteOrderHandler(e *Engine) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.UserID(c)
		if err != nil {
			return err
		}
		id, err := parseOrderID(c)
		if err != nil {
			return err
		}

		if err := e.Delete(id, userID); err != nil {
			return httpx.Fail(c, err)
		}
		return httpx.OK(c, "order deleted", nil)
	}
}

type BulkRequest struct {
	OrderIDs []uint `json:"order_ids" validate:"required,min=1"`
	Note     string `json:"note" validate:"max=255"`
}

// POST /api/orders/bulk-approve
func BulkApproveHandler(e *Engine) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.UserID(c)
		if err != nil {
			return err
		}

		var body BulkRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}

		result, err := e.BulkApprove(body.OrderIDs, userID, body.Note)
		if err != nil {
			return httpx.Fail(c, err)
		}
		return httpx.OK(c, "bulk approve finished", result)
	}
}

// POST /api/orders/bulk-delete
func BulkDeleteHandler(e *Engine) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := auth.UserID(c)
		if err != nil {
			return err
		}

		var body BulkRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}

		result, err := e.BulkDelete(body.OrderIDs, userID)
		if err != nil {
			return httpx.Fail(c, err)
		}
		return httpx.OK(c, "bulk delete finished", result)
	}
}
