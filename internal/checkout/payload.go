// Package checkout builds the order submission payload from a cart and the
// checkout form, validating the form before anything is built.
package checkout

import (
	"github.com/jcmexdev/seat-storefront/internal/pkg/money"
)

// PaymentMethod is how the customer pays.
type PaymentMethod string

const (
	PaymentCard         PaymentMethod = "card"
	PaymentCash         PaymentMethod = "cash"
	PaymentBankTransfer PaymentMethod = "bank_transfer"
	PaymentPayPal       PaymentMethod = "paypal"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCard, PaymentCash, PaymentBankTransfer, PaymentPayPal:
		return true
	}
	return false
}

type Address struct {
	Street     string `json:"street"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
}

type Customer struct {
	ID        int    `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
}

// LineItem is one order line as the order API expects it.
type LineItem struct {
	ProductID      int          `json:"productId"`
	VariationID    string       `json:"variationId"`
	ProductName    string       `json:"productName"`
	VariationName  string       `json:"variationName"`
	Quantity       int          `json:"quantity"`
	UnitPrice      money.Amount `json:"unitPrice"`
	DiscountAmount money.Amount `json:"discountAmount"`
	Total          money.Amount `json:"total"`
}

type CustomerInfo struct {
	CustomerID      int     `json:"customerId"`
	FirstName       string  `json:"firstName"`
	LastName        string  `json:"lastName"`
	Email           string  `json:"email"`
	Phone           string  `json:"phone"`
	ShippingAddress Address `json:"shippingAddress"`
	BillingAddress  Address `json:"billingAddress"`
}

type PaymentInfo struct {
	Method   PaymentMethod `json:"method"`
	Amount   money.Amount  `json:"amount"`
	Currency string        `json:"currency"`
}

type CartSummary struct {
	SubTotal   money.Amount `json:"subTotal"`
	Tax        money.Amount `json:"tax"`
	Discount   money.Amount `json:"discount"`
	GrandTotal money.Amount `json:"grandTotal"`
}

// Payload is the order creation request body.
type Payload struct {
	CartItems              []LineItem   `json:"cartItems"`
	CustomerInfo           CustomerInfo `json:"customerInfo"`
	PaymentInfo            PaymentInfo  `json:"paymentInfo"`
	CartSummary            CartSummary  `json:"cartSummary"`
	Notes                  string       `json:"notes"`
	VehicleConfigurationID *int         `json:"vehicleConfigurationId,omitempty"`
}
