package billing

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// Default values applied when the source order omits optional fields
const (
	DefaultCurrency = "PLN"
	DefaultSeries   = "A"
)

// VAT handling constants for the standard Polish rate
const (
	VATSymbol         = "23"
	FlatRateTaxSymbol = "3"
)

// Business activity kinds recognized by the invoicing system
const (
	ActivityKindPrivatePerson = "private_person"
	ActivityKindOtherBusiness = "other_business"
)

// paymentDueDays is how long after the sell date the invoice payment is due
const paymentDueDays = 7

// grossDivisor converts a gross amount to net at the standard 23% VAT rate
var grossDivisor = decimal.RequireFromString("1.23")

// Errors for order validation and invoice construction
var (
	ErrOrderMissingEmail = errors.New("billing: order has no buyer email")
	ErrOrderNoLineItems  = errors.New("billing: order has no line items")
	ErrOrderInvalidPrice = errors.New("billing: line item has invalid price")
)

// Address holds the billing address fields used for client records
type Address struct {
	FirstName  string
	LastName   string
	Company    string
	Street     string
	FlatNumber string
	City       string
	PostCode   string
	TaxCode    string
}

// LineItem is a single purchased position on an order.
// UnitGrossPrice is the gross price per unit in major currency units.
type LineItem struct {
	Name           string
	Quantity       int
	UnitGrossPrice decimal.Decimal
}

// Order is the normalized order extracted from a webhook payload.
// It lives for the duration of one request and is never persisted.
type Order struct {
	OrderID   int64
	Email     string
	Currency  string
	CreatedAt time.Time
	Billing   Address
	Items     []LineItem
}

// Validate checks that the order carries everything invoice construction needs
func (o *Order) Validate() error {
	if o.Email == "" {
		return ErrOrderMissingEmail
	}
	if len(o.Items) == 0 {
		return ErrOrderNoLineItems
	}
	return nil
}

// ClientRecord is the normalized billing client derived from an order.
// Keyed by email in the invoicing system.
type ClientRecord struct {
	FirstName            string
	LastName             string
	CompanyName          string
	Email                string
	Street               string
	FlatNumber           string
	City                 string
	PostCode             string
	TaxCode              string
	BusinessActivityKind string
}

// ClientRecord maps the order's billing data to a client record.
// A tax code on the billing address marks the client as a business.
func (o *Order) ClientRecord() ClientRecord {
	rec := ClientRecord{
		FirstName:            o.Billing.FirstName,
		LastName:             o.Billing.LastName,
		CompanyName:          o.Billing.Company,
		Email:                o.Email,
		Street:               o.Billing.Street,
		FlatNumber:           o.Billing.FlatNumber,
		City:                 o.Billing.City,
		PostCode:             o.Billing.PostCode,
		BusinessActivityKind: ActivityKindPrivatePerson,
	}
	if o.Billing.TaxCode != "" {
		rec.TaxCode = o.Billing.TaxCode
		rec.BusinessActivityKind = ActivityKindOtherBusiness
	}
	return rec
}

// ServiceLine is one invoice position with amounts in minor currency units
// (grosze). Net and tax are derived from the gross price at the standard
// VAT rate; the split happens per unit so rounding matches per-unit pricing.
type ServiceLine struct {
	Name              string
	TaxSymbol         string
	Quantity          int
	UnitNetPrice      int64
	UnitCost          int64
	GrossPrice        int64
	TaxPrice          int64
	FlatRateTaxSymbol string
}

// InvoiceDraft is the invoice to be submitted, with dates as ISO-8601 days
type InvoiceDraft struct {
	Kind           string
	Series         string
	Status         string
	SellDate       string
	IssueDate      string
	PaymentDueDate string
	PaymentMethod  string
	Currency       string
	Services       []ServiceLine
}

// BuildInvoice constructs an invoice draft from a normalized order.
// Sell and issue dates are the order date; payment is due seven days later.
func BuildInvoice(o *Order, series string) (*InvoiceDraft, error) {
	if err := o.Validate(); err != nil {
		return nil, err
	}
	if series == "" {
		series = DefaultSeries
	}
	currency := o.Currency
	if currency == "" {
		currency = DefaultCurrency
	}

	services := make([]ServiceLine, 0, len(o.Items))
	for _, item := range o.Items {
		line, err := buildServiceLine(item)
		if err != nil {
			return nil, err
		}
		services = append(services, line)
	}

	sellDate := o.CreatedAt.Format("2006-01-02")
	dueDate := o.CreatedAt.AddDate(0, 0, paymentDueDays).Format("2006-01-02")

	return &InvoiceDraft{
		Kind:           "vat",
		Series:         series,
		Status:         "issued",
		SellDate:       sellDate,
		IssueDate:      sellDate,
		PaymentDueDate: dueDate,
		PaymentMethod:  "transfer",
		Currency:       currency,
		Services:       services,
	}, nil
}

// buildServiceLine splits a gross unit price into net and tax in grosze
func buildServiceLine(item LineItem) (ServiceLine, error) {
	if item.Quantity <= 0 || item.UnitGrossPrice.IsNegative() {
		return ServiceLine{}, ErrOrderInvalidPrice
	}

	unitGross := item.UnitGrossPrice.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
	unitNet := decimal.NewFromInt(unitGross).Div(grossDivisor).Round(0).IntPart()
	unitTax := unitGross - unitNet
	qty := int64(item.Quantity)

	return ServiceLine{
		Name:              item.Name,
		TaxSymbol:         VATSymbol,
		Quantity:          item.Quantity,
		UnitNetPrice:      unitNet,
		UnitCost:          unitNet,
		GrossPrice:        unitGross * qty,
		TaxPrice:          unitTax * qty,
		FlatRateTaxSymbol: FlatRateTaxSymbol,
	}, nil
}
