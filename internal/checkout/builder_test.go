package checkout

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jcmexdev/seat-storefront/internal/cart"
	"github.com/jcmexdev/seat-storefront/internal/catalog"
	"github.com/jcmexdev/seat-storefront/internal/pkg/money"
	"github.com/jcmexdev/seat-storefront/internal/pricing"
)

func newRegistry(t *testing.T) *catalog.Registry {
	t.Helper()
	r := catalog.NewRegistry()
	catalog.RegisterStatic(r)
	r.Expect(catalog.CategoryColor, catalog.SingleSelect)
	require.NoError(t, r.Resolve(catalog.CategoryColor, catalog.DefaultColors))
	r.SetProducts(catalog.NewProducts(
		catalog.Product{ID: 1, Name: "Bucket Seat", Price: decimal.NewFromInt(500), Active: true},
		catalog.Product{ID: 2, Name: "Lumbar Pillow", Price: decimal.NewFromInt(100), Active: true},
	))
	return r
}

func validForm() Form {
	return Form{
		Customer:              &Customer{ID: 7, FirstName: " Ana ", LastName: "Ruiz", Email: "ana@example.com"},
		Shipping:              Address{Street: "1 Main St", City: "Austin", State: "TX", PostalCode: "78701", Country: "US"},
		BillingSameAsShipping: true,
		PaymentMethod:         PaymentCard,
	}
}

func sampleCart() cart.State {
	st := cart.NewStore()
	st.AddItem(cart.Item{
		ID:       1,
		Title:    "Bucket Seat",
		Price:    "625.00",
		Quantity: 1,
		Selections: pricing.SelectionSet{
			catalog.CategorySeatType:  {"bucket"},
			catalog.CategoryColor:     {"red"},
			catalog.CategoryStitching: {"diamond"},
		},
	})
	st.AddItem(cart.Item{ID: 2, Title: "Lumbar Pillow", Price: "100.00", Quantity: 2})
	return st.State()
}

func TestBuildFromCart_StorefrontPolicy(t *testing.T) {
	b := NewBuilder(newRegistry(t), "USD")
	policy := StorefrontPolicy{
		TaxRate:               decimal.RequireFromString("0.08"),
		ShippingFee:           decimal.NewFromInt(25),
		FreeShippingThreshold: decimal.NewFromInt(1000),
	}

	p, err := b.BuildFromCart(sampleCart(), validForm(), policy)
	require.NoError(t, err)

	require.Len(t, p.CartItems, 3)
	seat := p.CartItems[0]
	assert.Equal(t, "Bucket Seat", seat.ProductName)
	assert.Equal(t, "Bucket / Red / Diamond", seat.VariationName)
	assert.Equal(t, "625.00", seat.Total.String())

	pillow := p.CartItems[1]
	assert.Equal(t, StandardVariant, pillow.VariationName)
	assert.Equal(t, "200.00", pillow.Total.String())

	fee := p.CartItems[2]
	assert.Equal(t, ShippingVariationID, fee.VariationID)
	assert.Equal(t, "25.00", fee.Total.String())

	assert.Equal(t, "850.00", p.CartSummary.SubTotal.String())
	assert.Equal(t, "66.00", p.CartSummary.Tax.String())
	assert.Equal(t, "0.00", p.CartSummary.Discount.String())
	assert.Equal(t, "916.00", p.CartSummary.GrandTotal.String())
	assert.Equal(t, p.CartSummary.GrandTotal.String(), p.PaymentInfo.Amount.String())
	assert.Equal(t, "USD", p.PaymentInfo.Currency)

	assert.Equal(t, "Ana", p.CustomerInfo.FirstName)
	assert.Equal(t, "1 Main St", p.CustomerInfo.BillingAddress.Street)
	assert.NoError(t, p.Verify())
}

func TestBuild_FreeShippingAboveThreshold(t *testing.T) {
	b := NewBuilder(newRegistry(t), "USD")
	policy := StorefrontPolicy{ShippingFee: decimal.NewFromInt(25), FreeShippingThreshold: decimal.NewFromInt(500)}

	p, err := b.BuildFromCart(sampleCart(), validForm(), policy)
	require.NoError(t, err)
	assert.Len(t, p.CartItems, 2)
	assert.Equal(t, "825.00", p.CartSummary.GrandTotal.String())
}

func TestBuild_EmptyCartAbortsAndLeavesCartUntouched(t *testing.T) {
	b := NewBuilder(newRegistry(t), "USD")
	st := cart.NewStore()
	before := st.State()

	p, err := b.BuildFromCart(st.State(), validForm(), StorefrontPolicy{})
	assert.Nil(t, p)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrEmptyCart)
	assert.Equal(t, before, st.State())
}

func TestBuild_CollectsEveryProblem(t *testing.T) {
	b := NewBuilder(newRegistry(t), "USD")

	_, err := b.BuildFromCart(cart.State{}, Form{PaymentMethod: "bitcoin"}, StorefrontPolicy{})
	require.Error(t, err)

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Len(t, verr.Problems, 5)
	for _, target := range []error{ErrEmptyCart, ErrNoCustomer, ErrShippingStreet, ErrBillingStreet, ErrPaymentMethod} {
		assert.ErrorIs(t, err, target)
	}
	assert.Contains(t, err.Error(), "shipping.street")
}

func TestBuild_CustomerNeedsIDOrEmail(t *testing.T) {
	b := NewBuilder(newRegistry(t), "USD")
	form := validForm()
	form.Customer = &Customer{FirstName: "Anon"}

	_, err := b.BuildFromCart(sampleCart(), form, StorefrontPolicy{})
	assert.ErrorIs(t, err, ErrNoCustomer)

	form.Customer.Email = "anon@example.com"
	_, err = b.BuildFromCart(sampleCart(), form, StorefrontPolicy{})
	assert.NoError(t, err)
}

func TestBuild_UnknownNamesFallBackToPlaceholders(t *testing.T) {
	b := NewBuilder(newRegistry(t), "USD")
	lines := []Line{{
		ProductID:   99,
		VariationID: "99-x",
		Selections:  pricing.SelectionSet{catalog.CategoryColor: {"chartreuse"}},
		Quantity:    1,
		UnitPrice:   decimal.NewFromInt(10),
	}}

	p, err := b.Build(lines, validForm(), AdminPolicy{})
	require.NoError(t, err)
	assert.Equal(t, UnknownProduct, p.CartItems[0].ProductName)
	assert.Equal(t, UnknownVariation, p.CartItems[0].VariationName)
}

func TestBuild_AdminPolicyAppliesEnteredAmounts(t *testing.T) {
	b := NewBuilder(newRegistry(t), "USD")
	lines := []Line{
		{ProductID: 1, VariationID: "1", Quantity: 2, UnitPrice: decimal.RequireFromString("500"), Discount: decimal.RequireFromString("50")},
		{ProductID: 2, VariationID: "2", Quantity: 3, UnitPrice: decimal.RequireFromString("19.99")},
	}
	policy := AdminPolicy{Tax: decimal.RequireFromString("12.34"), Discount: decimal.RequireFromString("10")}

	p, err := b.Build(lines, validForm(), policy)
	require.NoError(t, err)

	assert.Equal(t, "950.00", p.CartItems[0].Total.String())
	assert.Equal(t, "59.97", p.CartItems[1].Total.String())
	assert.Equal(t, "1009.97", p.CartSummary.SubTotal.String())
	assert.Equal(t, "1012.31", p.CartSummary.GrandTotal.String())
	assert.NoError(t, p.Verify())
}

func TestBuild_RejectsBadAmounts(t *testing.T) {
	b := NewBuilder(newRegistry(t), "USD")
	line := Line{ProductID: 1, Quantity: 1, UnitPrice: decimal.NewFromInt(10)}

	_, err := b.Build([]Line{line}, validForm(), AdminPolicy{Discount: decimal.NewFromInt(11)})
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = b.Build([]Line{line}, validForm(), AdminPolicy{Tax: decimal.NewFromInt(-1)})
	assert.ErrorIs(t, err, ErrInvalidAmount)

	bad := line
	bad.Discount = decimal.NewFromInt(20)
	_, err = b.Build([]Line{bad}, validForm(), AdminPolicy{})
	assert.ErrorIs(t, err, ErrInvalidLine)

	bad = line
	bad.Quantity = 0
	_, err = b.Build([]Line{bad}, validForm(), AdminPolicy{})
	assert.ErrorIs(t, err, ErrInvalidLine)
}

func TestPayload_VerifyDetectsTampering(t *testing.T) {
	b := NewBuilder(newRegistry(t), "USD")
	p, err := b.BuildFromCart(sampleCart(), validForm(), StorefrontPolicy{})
	require.NoError(t, err)

	p.CartSummary.GrandTotal = money.MustAmount("1.00")
	err = p.Verify()
	assert.ErrorIs(t, err, ErrTotalsMismatch)

	p.CartItems = nil
	assert.ErrorIs(t, p.Verify(), ErrEmptyCart)
}

func TestPayload_JSONShape(t *testing.T) {
	b := NewBuilder(newRegistry(t), "USD")
	id := 3
	form := validForm()
	form.VehicleConfigurationID = &id

	p, err := b.BuildFromCart(sampleCart(), form, StorefrontPolicy{})
	require.NoError(t, err)

	raw, err := json.Marshal(p)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Contains(t, got, "cartItems")
	assert.Contains(t, got, "customerInfo")
	assert.Contains(t, got, "paymentInfo")
	assert.Equal(t, float64(3), got["vehicleConfigurationId"])

	summary := got["cartSummary"].(map[string]any)
	assert.Equal(t, 825.0, summary["grandTotal"])

	var back Payload
	require.NoError(t, json.Unmarshal(raw, &back))
	assert.NoError(t, back.Verify())
}
