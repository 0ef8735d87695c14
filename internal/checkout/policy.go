package checkout

import (
	"github.com/shopspring/decimal"

	"github.com/jcmexdev/seat-storefront/internal/pkg/money"
)

// Adjustment is what a Policy adds on top of the merchandise lines.
type Adjustment struct {
	Fees     []LineItem
	Tax      decimal.Decimal
	Discount decimal.Decimal
}

// Policy decides tax, order discount and fees for a merchandise subtotal.
type Policy interface {
	Adjust(merchandise decimal.Decimal) Adjustment
}

// ShippingVariationID marks the flat-rate shipping fee line.
const ShippingVariationID = "shipping"

// StorefrontPolicy is the customer checkout policy: a flat percentage tax
// on merchandise and a flat shipping fee below a free-shipping threshold.
type StorefrontPolicy struct {
	TaxRate               decimal.Decimal
	ShippingFee           decimal.Decimal
	FreeShippingThreshold decimal.Decimal
}

func (p StorefrontPolicy) Adjust(merchandise decimal.Decimal) Adjustment {
	adj := Adjustment{
		Tax:      money.Round(merchandise.Mul(p.TaxRate)),
		Discount: decimal.Zero,
	}
	if p.ShippingFee.IsPositive() && merchandise.LessThan(p.FreeShippingThreshold) {
		fee := money.NewAmount(money.Round(p.ShippingFee))
		adj.Fees = append(adj.Fees, LineItem{
			VariationID:    ShippingVariationID,
			ProductName:    "Shipping",
			VariationName:  "Flat rate",
			Quantity:       1,
			UnitPrice:      fee,
			DiscountAmount: money.NewAmount(decimal.Zero),
			Total:          fee,
		})
	}
	return adj
}

// AdminPolicy applies the tax and discount typed into the back-office
// order form.
type AdminPolicy struct {
	Tax      decimal.Decimal
	Discount decimal.Decimal
}

func (p AdminPolicy) Adjust(decimal.Decimal) Adjustment {
	return Adjustment{Tax: p.Tax, Discount: p.Discount}
}
