package entity

import "github.com/jcmexdev/seat-storefront/internal/checkout"

// Order is an order as the storefront sees it after submission.
type Order struct {
	ID        string
	Status    string
	Reason    string
	Payload   checkout.Payload
	CreatedAt string
	UpdatedAt string
}
