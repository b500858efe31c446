package invoicing

// ClientEntity is a client record as returned by the inFakt API
type ClientEntity struct {
	ID                   int64  `json:"id"`
	Email                string `json:"email"`
	FirstName            string `json:"first_name"`
	LastName             string `json:"last_name"`
	CompanyName          string `json:"company_name"`
	Street               string `json:"street"`
	FlatNumber           string `json:"flat_number"`
	City                 string `json:"city"`
	PostalCode           string `json:"postal_code"`
	NIP                  string `json:"nip,omitempty"`
	BusinessActivityKind string `json:"business_activity_kind"`
}

// ClientListResponse is the paginated client search response
type ClientListResponse struct {
	Metainfo *Metainfo      `json:"metainfo"`
	Entities []ClientEntity `json:"entities"`
}

// Metainfo carries pagination counters on list responses
type Metainfo struct {
	Count int `json:"count"`
}

// ClientCreateRequest wraps the client payload for creation
type ClientCreateRequest struct {
	Client ClientPayload `json:"client"`
}

// ClientPayload is the client body sent on creation
type ClientPayload struct {
	Email                string `json:"email"`
	FirstName            string `json:"first_name"`
	LastName             string `json:"last_name"`
	CompanyName          string `json:"company_name,omitempty"`
	Street               string `json:"street,omitempty"`
	FlatNumber           string `json:"flat_number,omitempty"`
	City                 string `json:"city,omitempty"`
	PostalCode           string `json:"postal_code,omitempty"`
	NIP                  string `json:"nip,omitempty"`
	BusinessActivityKind string `json:"business_activity_kind"`
}

// ServicePayload is one invoice position; amounts are in grosze
type ServicePayload struct {
	Name              string `json:"name"`
	TaxSymbol         string `json:"tax_symbol"`
	Quantity          int    `json:"quantity"`
	UnitNetPrice      int64  `json:"unit_net_price"`
	UnitCost          int64  `json:"unit_cost"`
	GrossPrice        int64  `json:"gross_price"`
	TaxPrice          int64  `json:"tax_price"`
	FlatRateTaxSymbol string `json:"flat_rate_tax_symbol"`
}

// InvoicePayload is the invoice body sent to the async creation endpoint
type InvoicePayload struct {
	Kind           string           `json:"kind"`
	Series         string           `json:"series"`
	Status         string           `json:"status"`
	SellDate       string           `json:"sell_date"`
	IssueDate      string           `json:"issue_date"`
	PaymentDueDate string           `json:"payment_due_date"`
	PaymentMethod  string           `json:"payment_method"`
	Currency       string           `json:"currency"`
	ClientID       int64            `json:"client_id"`
	Services       []ServicePayload `json:"services"`
}

// InvoiceCreateRequest wraps the invoice payload for creation
type InvoiceCreateRequest struct {
	Invoice InvoicePayload `json:"invoice"`
}

// InvoiceCreateResponse is the acceptance acknowledgment from the async
// creation endpoint. UUID is present only when the API resolves the
// invoice immediately.
type InvoiceCreateResponse struct {
	InvoiceTaskReferenceNumber string `json:"invoice_task_reference_number"`
	UUID                       string `json:"uuid"`
}

// APIErrorResponse is the error body returned on rejected requests
type APIErrorResponse struct {
	Error  string              `json:"error"`
	Errors map[string][]string `json:"errors"`
}
