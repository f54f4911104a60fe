package voucher

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"warehouse-backend/internal/apperr"
	"warehouse-backend/internal/models"
)

// Account codes used on voucher lines. The revenue debit side depends on
// the payment method; everything else is fixed.
const (
	AccountCash       = "111"
	AccountBank       = "112"
	AccountReceivable = "131"
	AccountRevenue    = "511"
	AccountCOGS       = "632"
	AccountInventory  = "156"
	AccountPayable    = "331"
)

var validVATRates = map[int]bool{0: true, 5: true, 7: true, 10: true}

// AccountsFor returns the debit/credit pair for a revenue line under the
// given payment method.
func AccountsFor(method models.PaymentMethod) (debit, credit string, err error) {
	switch method {
	case models.PaymentCash:
		return AccountCash, AccountRevenue, nil
	case models.PaymentBank:
		return AccountBank, AccountRevenue, nil
	case models.PaymentUnpaid:
		return AccountReceivable, AccountRevenue, nil
	default:
		return "", "", apperr.Validation("unknown payment method %q", method)
	}
}

// CostAccounts returns the fixed cost-of-goods debit/credit pair. It does
// not depend on the payment method.
func CostAccounts() (debit, credit string) {
	return AccountCOGS, AccountInventory
}

// BuildLine computes the VAT-exclusive amount and VAT for one voucher line.
// Promotion may not exceed the gross value of the line.
func BuildLine(productID uint, quantity int64, unitPrice decimal.Decimal, vatRate int, promotion decimal.Decimal) (models.VoucherLine, error) {
	if quantity <= 0 {
		return models.VoucherLine{}, apperr.Validation("line quantity must be positive")
	}
	if unitPrice.IsNegative() {
		return models.VoucherLine{}, apperr.Validation("line unit price cannot be negative")
	}
	if promotion.IsNegative() {
		return models.VoucherLine{}, apperr.Validation("line promotion cannot be negative")
	}
	if !validVATRates[vatRate] {
		return models.VoucherLine{}, apperr.Validation("VAT rate must be one of 0, 5, 7 or 10, got %d", vatRate)
	}

	gross := unitPrice.Mul(decimal.NewFromInt(quantity))
	amount := gross.Sub(promotion)
	if amount.IsNegative() {
		return models.VoucherLine{}, apperr.Validation("promotion %s exceeds line value %s", promotion, gross)
	}

	vat := amount.Mul(decimal.NewFromInt(int64(vatRate))).Div(decimal.NewFromInt(100))

	return models.VoucherLine{
		ProductID:     productID,
		Quantity:      quantity,
		UnitPrice:     unitPrice,
		VATRate:       vatRate,
		Promotion:     promotion,
		AmountExclVAT: amount,
		VATAmount:     vat,
	}, nil
}

// Totals aggregates line amounts into the order-level voucher totals.
type VoucherTotals struct {
	GoodsTotal decimal.Decimal `json:"goodsTotal"`
	VATTotal   decimal.Decimal `json:"vatTotal"`
	GrandTotal decimal.Decimal `json:"grandTotal"`
}

func Totals(lines []models.VoucherLine) VoucherTotals {
	goods := decimal.Zero
	vat := decimal.Zero
	for _, l := range lines {
		goods = goods.Add(l.AmountExclVAT)
		vat = vat.Add(l.VATAmount)
	}
	return VoucherTotals{GoodsTotal: goods, VATTotal: vat, GrandTotal: goods.Add(vat)}
}

// NewVoucherNo mints a voucher number with a type prefix.
func NewVoucherNo(t models.VoucherType) string {
	var prefix string
	switch t {
	case models.VoucherTypeReceipt:
		prefix = "PN" // phiếu nhập: goods receipt
	case models.VoucherTypeSale:
		prefix = "PX" // phiếu xuất: goods issue
	case models.VoucherTypeReturn:
		prefix = "TH"
	default:
		prefix = "VC"
	}
	short := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:10])
	return fmt.Sprintf("%s-%s", prefix, short)
}

// Build composes a postable voucher from order items. Every item must pass
// line validation; debit/credit accounts are derived, never user-entered.
// Return vouchers invert the revenue pair (goods come back, revenue is
// reversed against the original sale voucher).
func Build(order *models.Order, vtype models.VoucherType) (*models.Voucher, error) {
	if len(order.Items) == 0 {
		return nil, apperr.Validation("order %s has no line items", order.Code)
	}

	debit, credit, err := AccountsFor(order.PaymentMethod)
	if err != nil {
		return nil, err
	}

	lines := make([]models.VoucherLine, 0, len(order.Items))
	for _, item := range order.Items {
		line, err := BuildLine(item.ProductID, item.Quantity, item.UnitPrice, item.VATRate, item.Promotion)
		if err != nil {
			return nil, err
		}
		switch vtype {
		case models.VoucherTypeReceipt:
			line.DebitAccount = AccountInventory
			line.CreditAccount = AccountPayable
		case models.VoucherTypeReturn:
			line.DebitAccount = credit
			line.CreditAccount = debit
		default:
			line.DebitAccount = debit
			line.CreditAccount = credit
		}
		lines = append(lines, line)
	}

	totals := Totals(lines)

	return &models.Voucher{
		VoucherNo:     NewVoucherNo(vtype),
		Type:          vtype,
		OrderID:       order.ID,
		PaymentMethod: order.PaymentMethod,
		GoodsTotal:    totals.GoodsTotal,
		VATTotal:      totals.VATTotal,
		GrandTotal:    totals.GrandTotal,
		Lines:         lines,
	}, nil
}
