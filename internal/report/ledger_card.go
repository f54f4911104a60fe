package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"warehouse-backend/internal/ledger"
	"warehouse-backend/internal/models"
)

const sheetName = "Warehouse card"

// LedgerCardXLSX renders the running-balance card of one product as an
// Excel workbook, mirroring the JSON card the dashboard shows.
func LedgerCardXLSX(product *models.Product, card *ledger.CardResponse) (*excelize.File, error) {
	f := excelize.NewFile()
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, err
	}

	title := fmt.Sprintf("Warehouse card — %s (%s), costing: %s", product.Name, product.Code, card.Costing)
	if err := f.SetCellValue(sheetName, "A1", title); err != nil {
		return nil, err
	}

	headers := []string{"Voucher", "Offset voucher", "Date", "Warehouse", "Unit", "Qty in", "Qty out", "Unit cost", "Issue cost", "Running stock", "Running value"}
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 2)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(sheetName, cell, h); err != nil {
			return nil, err
		}
	}

	for rowIdx, row := range card.Rows {
		values := []any{
			row.VoucherNo,
			row.OffsetVoucherNo,
			row.Date,
			row.WarehouseID,
			row.Unit,
			row.QuantityIn,
			row.QuantityOut,
			row.UnitCost.InexactFloat64(),
			row.IssueCost.InexactFloat64(),
			row.RunningStock,
			row.RunningValue.InexactFloat64(),
		}
		for colIdx, v := range values {
			cell, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+3)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(sheetName, cell, v); err != nil {
				return nil, err
			}
		}
	}

	if len(card.Warnings) > 0 {
		row := len(card.Rows) + 4
		cell, _ := excelize.CoordinatesToCellName(1, row)
		if err := f.SetCellValue(sheetName, cell, fmt.Sprintf("Warnings: %d negative stock points", len(card.Warnings))); err != nil {
			return nil, err
		}
	}

	return f, nil
}
