package httpx

import (
	"encoding/json"

	"github.com/jcmexdev/seat-storefront/internal/cart"
	"github.com/jcmexdev/seat-storefront/internal/catalog"
	"github.com/jcmexdev/seat-storefront/internal/checkout"
	"github.com/jcmexdev/seat-storefront/internal/pkg/money"
	"github.com/jcmexdev/seat-storefront/internal/pricing"
)

type ErrorResponse struct {
	Error   string             `json:"error"`
	Message string             `json:"message,omitempty"`
	Fields  []checkout.Problem `json:"fields,omitempty"`
}

// --- catalog ---

type OptionResponse struct {
	ID      string       `json:"id"`
	Name    string       `json:"name"`
	Price   money.Amount `json:"price"`
	HexCode string       `json:"hex_code,omitempty"`
}

type OptionsResponse struct {
	Category catalog.Category `json:"category"`
	Mode     string           `json:"mode"`
	State    catalog.State    `json:"state"`
	Error    string           `json:"error,omitempty"`
	Options  []OptionResponse `json:"options"`
}

type CatalogResponse struct {
	Categories []catalog.Status `json:"categories"`
	Products   catalog.State    `json:"products"`
}

type ProductResponse struct {
	ID          int          `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Price       money.Amount `json:"price"`
	Stock       int          `json:"stock"`
	Category    string       `json:"category"`
	Images      []string     `json:"images"`
}

type ProductsResponse struct {
	State    catalog.State     `json:"state"`
	Products []ProductResponse `json:"products"`
}

// --- quotes ---

type QuoteRequest struct {
	ProductID  int                 `json:"product_id"`
	BasePrice  *money.Amount       `json:"base_price"`
	Selections map[string][]string `json:"selections"`
}

type QuoteLineResponse struct {
	Category catalog.Category `json:"category"`
	ID       string           `json:"id"`
	Name     string           `json:"name"`
	Price    money.Amount     `json:"price"`
}

type QuoteResponse struct {
	Base        money.Amount         `json:"base"`
	Total       money.Amount         `json:"total"`
	Description string               `json:"description"`
	Lines       []QuoteLineResponse  `json:"lines"`
	Unresolved  []pricing.Unresolved `json:"unresolved"`
}

// --- cart ---

type AddItemRequest struct {
	ProductID  int                 `json:"product_id"`
	Selections map[string][]string `json:"selections"`
	Quantity   int                 `json:"quantity"`
}

type UpdateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

type CartResponse struct {
	Session string `json:"session"`
	cart.State
}

// --- checkout ---

type CheckoutRequest struct {
	Customer               *checkout.Customer     `json:"customer"`
	ShippingAddress        checkout.Address       `json:"shippingAddress"`
	BillingAddress         checkout.Address       `json:"billingAddress"`
	BillingSameAsShipping  bool                   `json:"billingSameAsShipping"`
	PaymentMethod          checkout.PaymentMethod `json:"paymentMethod"`
	Notes                  string                 `json:"notes"`
	VehicleConfigurationID *int                   `json:"vehicleConfigurationId"`
}

func (r CheckoutRequest) form() checkout.Form {
	return checkout.Form{
		Customer:               r.Customer,
		Shipping:               r.ShippingAddress,
		Billing:                r.BillingAddress,
		BillingSameAsShipping:  r.BillingSameAsShipping,
		PaymentMethod:          r.PaymentMethod,
		Notes:                  r.Notes,
		VehicleConfigurationID: r.VehicleConfigurationID,
	}
}

type AdminLineRequest struct {
	ProductID  int                 `json:"productId"`
	Selections map[string][]string `json:"selections"`
	Quantity   int                 `json:"quantity"`
	UnitPrice  *money.Amount       `json:"unitPrice"`
	Discount   money.Amount        `json:"discount"`
}

type AdminOrderRequest struct {
	CheckoutRequest
	Items    []AdminLineRequest `json:"items"`
	Tax      money.Amount       `json:"tax"`
	Discount money.Amount       `json:"discount"`
}

type CancelOrderRequest struct {
	Reason string `json:"reason"`
}

type OrderResponse struct {
	ID        string           `json:"id"`
	Status    string           `json:"status"`
	Reason    string           `json:"reason,omitempty"`
	AttemptID string           `json:"attempt_id,omitempty"`
	Order     checkout.Payload `json:"order"`
	CreatedAt string           `json:"created_at"`
	UpdatedAt string           `json:"updated_at"`
}

type CheckoutLogEntry struct {
	Status    string          `json:"status"`
	Step      string          `json:"step,omitempty"`
	Errors    json.RawMessage `json:"errors"`
	TraceID   string          `json:"trace_id,omitempty"`
	UpdatedAt string          `json:"updated_at"`
}

type CheckoutAttemptResponse struct {
	AttemptID string             `json:"attempt_id"`
	Status    string             `json:"status"`
	History   []CheckoutLogEntry `json:"history"`
}
