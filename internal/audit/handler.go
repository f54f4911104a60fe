package audit

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"warehouse-backend/internal/database"
	"warehouse-backend/internal/httpx"
	"warehouse-backend/internal/models"
)

type LogResponse struct {
	ID          uint   `json:"id"`
	CreatedAt   string `json:"created_at"`
	UserID      uint   `json:"user_id"`
	UserName    string `json:"user_name"`
	EntityType  string `json:"entity_type"`
	EntityID    uint   `json:"entity_id"`
	Action      string `json:"action"`
	Description string `json:"description"`
	BeforeData  string `json:"before_data"`
	AfterData   string `json:"after_data"`
}

// GET /api/audit-logs?entity_type=order&entity_id=12&limit=50
func ListAuditLogsHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		q := database.DB.Model(&models.AuditLog{}).Order("created_at DESC, id DESC")

		if et := c.Query("entity_type"); et != "" {
			q = q.Where("entity_type = ?", et)
		}
		if eid := c.Query("entity_id"); eid != "" {
			id, err := strconv.ParseUint(eid, 10, 64)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "entity_id must be a number")
			}
			q = q.Where("entity_id = ?", id)
		}

		limit := 100
		if l := c.Query("limit"); l != "" {
			n, err := strconv.Atoi(l)
			if err != nil || n < 1 || n > 500 {
				return fiber.NewError(fiber.StatusBadRequest, "limit must be between 1 and 500")
			}
			limit = n
		}

		var logs []models.AuditLog
		if err := q.Limit(limit).Find(&logs).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not load audit logs")
		}

		out := make([]LogResponse, 0, len(logs))
		for _, l := range logs {
			out = append(out, LogResponse{
				ID:          l.ID,
				CreatedAt:   l.CreatedAt.Format("2006-01-02 15:04:05"),
				UserID:      l.UserID,
				UserName:    l.UserName,
				EntityType:  l.EntityType,
				EntityID:    l.EntityID,
				Action:      string(l.Action),
				Description: l.Description,
				BeforeData:  l.BeforeData,
				AfterData:   l.AfterData,
			})
		}

		return httpx.OK(c, "", out)
	}
}
