package order

import (
	"github.com/sirupsen/logrus"

	"warehouse-backend/internal/apperr"
)

// BulkItemResult is the outcome for one order in a batch call. The
// coordinator returns one slot per input id even when every item fails.
type BulkItemResult struct {
	OrderID uint   `json:"orderId"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

type BulkResult struct {
	SuccessCount int              `json:"successCount"`
	FailedCount  int              `json:"failedCount"`
	Results      []BulkItemResult `json:"perOrderResults"`
}

// BulkApprove applies Approve to each order independently. One order's
// failure (insufficient stock, wrong state) never blocks or rolls back the
// others; batch items are independent business entities, unlike the lines
// inside a single order.
func (e *Engine) BulkApprove(orderIDs []uint, actorID uint, note string) (*BulkResult, error) {
	if len(orderIDs) == 0 {
		return nil, apperr.Validation("order id list is empty")
	}

	result := &BulkResult{Results: make([]BulkItemResult, 0, len(orderIDs))}
	for _, id := range orderIDs {
		if _, err := e.Approve(id, actorID, note); err != nil {
			result.FailedCount++
			result.Results = append(result.Results, BulkItemResult{OrderID: id, Error: err.Error()})
			continue
		}
		result.SuccessCount++
		result.Results = append(result.Results, BulkItemResult{OrderID: id, Success: true})
	}

	logrus.WithFields(logrus.Fields{
		"total":  len(orderIDs),
		"ok":     result.SuccessCount,
		"failed": result.FailedCount,
	}).Info("bulk approve finished")
	return result, nil
}

// BulkDelete applies Delete to each order independently, same isolation
// contract as BulkApprove.
func (e *Engine) BulkDelete(orderIDs []uint, actorID uint) (*BulkResult, error) {
	if len(orderIDs) == 0 {
		return nil, apperr.Validation("order id list is empty")
	}

	result := &BulkResult{Results: make([]BulkItemResult, 0, len(orderIDs))}
	for _, id := range orderIDs {
		if err := e.Delete(id, actorID); err != nil {
			result.FailedCount++
			result.Results = append(result.Results, BulkItemResult{OrderID: id, Error: err.Error()})
			continue
		}
		result.SuccessCount++
		result.Results = append(result.Results, BulkItemResult{OrderID: id, Success: true})
	}

	logrus.WithFields(logrus.Fields{
		"total":  len(orderIDs),
		"ok":     result.SuccessCount,
		"failed": result.FailedCount,
	}).Info("bulk delete finished")
	return result, nil
}
