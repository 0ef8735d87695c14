package checkout

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jcmexdev/seat-storefront/internal/cart"
	"github.com/jcmexdev/seat-storefront/internal/catalog"
	"github.com/jcmexdev/seat-storefront/internal/pkg/money"
	"github.com/jcmexdev/seat-storefront/internal/pricing"
)

const (
	UnknownProduct   = "Unknown Product"
	UnknownVariation = "Unknown Variation"
	StandardVariant  = "Standard"
)

// Catalog resolves product and option names. *catalog.Registry satisfies it.
type Catalog interface {
	pricing.Lookup
	Product(id int) (catalog.Product, bool)
}

// Form is the checkout form as submitted.
type Form struct {
	Customer               *Customer
	Shipping               Address
	Billing                Address
	BillingSameAsShipping  bool
	PaymentMethod          PaymentMethod
	Notes                  string
	VehicleConfigurationID *int
}

// Line is an order line before names are resolved.
type Line struct {
	ProductID   int
	VariationID string
	Selections  pricing.SelectionSet
	Quantity    int
	UnitPrice   decimal.Decimal
	Discount    decimal.Decimal
}

// LinesFromCart maps each cart item to an order line. The cart line key is
// the variation id.
func LinesFromCart(s cart.State) []Line {
	out := make([]Line, 0, len(s.Items))
	for _, it := range s.Items {
		out = append(out, Line{
			ProductID:   it.ID,
			VariationID: it.Key,
			Selections:  it.Selections,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice(),
		})
	}
	return out
}

// Builder turns lines and a form into a Payload.
type Builder struct {
	catalog  Catalog
	currency string
}

func NewBuilder(c Catalog, currency string) *Builder {
	return &Builder{catalog: c, currency: currency}
}

// BuildFromCart builds the customer checkout payload for a cart.
func (b *Builder) BuildFromCart(state cart.State, form Form, policy Policy) (*Payload, error) {
	return b.Build(LinesFromCart(state), form, policy)
}

// Build validates the form and lines and assembles the payload. On any
// validation problem it returns a *ValidationError and no payload.
func (b *Builder) Build(lines []Line, form Form, policy Policy) (*Payload, error) {
	verr := &ValidationError{}
	validateForm(verr, lines, &form)
	validateLines(verr, lines)
	if err := verr.orNil(); err != nil {
		return nil, err
	}

	items := make([]LineItem, 0, len(lines)+1)
	merchandise := decimal.Zero
	for _, l := range lines {
		item := b.lineItem(l)
		merchandise = merchandise.Add(item.Total.Decimal)
		items = append(items, item)
	}

	adj := policy.Adjust(merchandise)
	if adj.Tax.IsNegative() {
		verr.add("tax", ErrInvalidAmount, "tax cannot be negative")
	}
	if adj.Discount.IsNegative() {
		verr.add("discount", ErrInvalidAmount, "discount cannot be negative")
	}
	items = append(items, adj.Fees...)

	subTotal := decimal.Zero
	for _, it := range items {
		subTotal = subTotal.Add(it.Total.Decimal)
	}
	if adj.Discount.GreaterThan(subTotal) {
		verr.add("discount", ErrInvalidAmount, "discount cannot exceed the subtotal")
	}
	if err := verr.orNil(); err != nil {
		return nil, err
	}

	tax := money.Round(adj.Tax)
	discount := money.Round(adj.Discount)
	grand := subTotal.Sub(discount).Add(tax)

	c := form.Customer
	return &Payload{
		CartItems: items,
		CustomerInfo: CustomerInfo{
			CustomerID:      c.ID,
			FirstName:       strings.TrimSpace(c.FirstName),
			LastName:        strings.TrimSpace(c.LastName),
			Email:           strings.TrimSpace(c.Email),
			Phone:           strings.TrimSpace(c.Phone),
			ShippingAddress: form.Shipping,
			BillingAddress:  form.Billing,
		},
		PaymentInfo: PaymentInfo{
			Method:   form.PaymentMethod,
			Amount:   money.NewAmount(grand),
			Currency: b.currency,
		},
		CartSummary: CartSummary{
			SubTotal:   money.NewAmount(subTotal),
			Tax:        money.NewAmount(tax),
			Discount:   money.NewAmount(discount),
			GrandTotal: money.NewAmount(grand),
		},
		Notes:                  strings.TrimSpace(form.Notes),
		VehicleConfigurationID: form.VehicleConfigurationID,
	}, nil
}

func (b *Builder) lineItem(l Line) LineItem {
	productName := UnknownProduct
	if p, ok := b.catalog.Product(l.ProductID); ok && p.Name != "" {
		productName = p.Name
	}

	variationName := StandardVariant
	if l.Selections.Signature() != "" {
		variationName = pricing.Describe(l.Selections, b.catalog, catalog.DescribeOrder)
		if variationName == "" {
			variationName = UnknownVariation
		}
	}

	unit := money.Round(l.UnitPrice)
	discount := money.Round(l.Discount)
	total := unit.Mul(decimal.NewFromInt(int64(l.Quantity))).Sub(discount)

	return LineItem{
		ProductID:      l.ProductID,
		VariationID:    l.VariationID,
		ProductName:    productName,
		VariationName:  variationName,
		Quantity:       l.Quantity,
		UnitPrice:      money.NewAmount(unit),
		DiscountAmount: money.NewAmount(discount),
		Total:          money.NewAmount(total),
	}
}

func validateForm(verr *ValidationError, lines []Line, form *Form) {
	if len(lines) == 0 {
		verr.add("cart", ErrEmptyCart, "")
	}
	if c := form.Customer; c == nil || (c.ID <= 0 && strings.TrimSpace(c.Email) == "") {
		verr.add("customer", ErrNoCustomer, "")
	}
	if strings.TrimSpace(form.Shipping.Street) == "" {
		verr.add("shipping.street", ErrShippingStreet, "")
	}
	if form.BillingSameAsShipping {
		form.Billing = form.Shipping
	} else if strings.TrimSpace(form.Billing.Street) == "" {
		verr.add("billing.street", ErrBillingStreet, "")
	}
	if !form.PaymentMethod.Valid() {
		verr.add("payment.method", ErrPaymentMethod, fmt.Sprintf("payment method %q is not supported", form.PaymentMethod))
	}
}

func validateLines(verr *ValidationError, lines []Line) {
	for i, l := range lines {
		field := fmt.Sprintf("items[%d]", i)
		switch {
		case l.Quantity < 1:
			verr.add(field+".quantity", ErrInvalidLine, "quantity must be at least 1")
		case l.UnitPrice.IsNegative():
			verr.add(field+".unitPrice", ErrInvalidLine, "unit price cannot be negative")
		case l.Discount.IsNegative():
			verr.add(field+".discount", ErrInvalidLine, "discount cannot be negative")
		case l.Discount.GreaterThan(l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))):
			verr.add(field+".discount", ErrInvalidLine, "discount cannot exceed the line amount")
		}
	}
}

// Verify re-checks the arithmetic of a payload received from elsewhere:
// each line total is quantity × unit price − discount, the subtotal is the
// sum of line totals, and the grand total is subtotal − discount + tax.
func (p *Payload) Verify() error {
	verr := &ValidationError{}
	if len(p.CartItems) == 0 {
		verr.add("cartItems", ErrEmptyCart, "")
	}
	sum := decimal.Zero
	for i, it := range p.CartItems {
		want := it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Quantity))).Sub(it.DiscountAmount.Decimal)
		if !money.Round(want).Equal(money.Round(it.Total.Decimal)) {
			verr.add(fmt.Sprintf("cartItems[%d].total", i), ErrTotalsMismatch,
				fmt.Sprintf("line total %s, expected %s", it.Total, money.Format(want)))
		}
		if it.Quantity < 1 {
			verr.add(fmt.Sprintf("cartItems[%d].quantity", i), ErrInvalidLine, "quantity must be at least 1")
		}
		sum = sum.Add(it.Total.Decimal)
	}
	s := p.CartSummary
	if !money.Round(sum).Equal(money.Round(s.SubTotal.Decimal)) {
		verr.add("cartSummary.subTotal", ErrTotalsMismatch,
			fmt.Sprintf("subtotal %s, expected %s", s.SubTotal, money.Format(sum)))
	}
	grand := s.SubTotal.Sub(s.Discount.Decimal).Add(s.Tax.Decimal)
	if !money.Round(grand).Equal(money.Round(s.GrandTotal.Decimal)) {
		verr.add("cartSummary.grandTotal", ErrTotalsMismatch,
			fmt.Sprintf("grand total %s, expected %s", s.GrandTotal, money.Format(grand)))
	}
	return verr.orNil()
}
