package shopify

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/invoicebridge/backend/internal/domain/billing"
)

// ErrInvalidPayload indicates a webhook body that could not be parsed
// into a usable order.
var ErrInvalidPayload = errors.New("shopify: invalid order payload")

// validate checks structural requirements on parsed payloads
var validate = validator.New()

// OrderPayload is the raw orders/create webhook body.
// Only the fields this service consumes are modeled.
type OrderPayload struct {
	ID             int64             `json:"id"`
	Email          string            `json:"email" validate:"required,email"`
	Currency       string            `json:"currency"`
	CreatedAt      string            `json:"created_at"`
	LineItems      []LineItemPayload `json:"line_items" validate:"required,min=1,dive"`
	BillingAddress *AddressPayload   `json:"billing_address"`
	Customer       *CustomerPayload  `json:"customer"`
}

// LineItemPayload is one purchased position; Price is the gross unit
// price as a decimal string.
type LineItemPayload struct {
	Title    string `json:"title" validate:"required"`
	Quantity int    `json:"quantity" validate:"required,min=1"`
	Price    string `json:"price" validate:"required"`
}

// AddressPayload carries billing address fields. NIP and CompanyNIP are
// tax-code extensions set by checkout apps; either marks a business buyer.
type AddressPayload struct {
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Company    string `json:"company"`
	Address1   string `json:"address1"`
	Address2   string `json:"address2"`
	City       string `json:"city"`
	Zip        string `json:"zip"`
	NIP        string `json:"nip"`
	CompanyNIP string `json:"company_nip"`
}

// CustomerPayload holds the customer record embedded in the order
type CustomerPayload struct {
	FirstName      string          `json:"first_name"`
	LastName       string          `json:"last_name"`
	DefaultAddress *AddressPayload `json:"default_address"`
}

// ParseOrder decodes and validates a webhook body and maps it to the
// normalized domain order. The billing address falls back to the
// customer's default address when absent.
func ParseOrder(body []byte) (*billing.Order, error) {
	var payload OrderPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}
	if err := validate.Struct(&payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}

	order := &billing.Order{
		OrderID:  payload.ID,
		Email:    payload.Email,
		Currency: payload.Currency,
		Billing:  mapAddress(payload.billingSource()),
		Items:    make([]billing.LineItem, 0, len(payload.LineItems)),
	}

	if payload.CreatedAt != "" {
		created, err := time.Parse(time.RFC3339, payload.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("%w: bad created_at %q", ErrInvalidPayload, payload.CreatedAt)
		}
		order.CreatedAt = created
	} else {
		order.CreatedAt = time.Now()
	}

	for _, item := range payload.LineItems {
		price, err := decimal.NewFromString(item.Price)
		if err != nil {
			return nil, fmt.Errorf("%w: bad line item price %q", ErrInvalidPayload, item.Price)
		}
		order.Items = append(order.Items, billing.LineItem{
			Name:           item.Title,
			Quantity:       item.Quantity,
			UnitGrossPrice: price,
		})
	}

	return order, nil
}

// billingSource picks the address to bill against: the order's billing
// address when present, otherwise the customer's default address.
func (p *OrderPayload) billingSource() *AddressPayload {
	if p.BillingAddress != nil {
		return p.BillingAddress
	}
	if p.Customer != nil {
		return p.Customer.DefaultAddress
	}
	return nil
}

// mapAddress converts a raw address to the domain form; a nil source
// yields an empty address, which the invoicing API accepts.
func mapAddress(a *AddressPayload) billing.Address {
	if a == nil {
		return billing.Address{}
	}
	taxCode := a.NIP
	if taxCode == "" {
		taxCode = a.CompanyNIP
	}
	return billing.Address{
		FirstName:  a.FirstName,
		LastName:   a.LastName,
		Company:    a.Company,
		Street:     a.Address1,
		FlatNumber: a.Address2,
		City:       a.City,
		PostCode:   a.Zip,
		TaxCode:    taxCode,
	}
}
