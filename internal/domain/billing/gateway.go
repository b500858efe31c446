package billing

import (
	"context"
	"errors"
)

// Errors surfaced by invoicing gateway implementations
var (
	// ErrGatewayUnavailable indicates the invoicing API could not be reached
	ErrGatewayUnavailable = errors.New("invoicing: gateway unavailable")
	// ErrGatewayRequestFailed indicates the invoicing API rejected the request
	ErrGatewayRequestFailed = errors.New("invoicing: request failed")
	// ErrGatewayInvalidResponse indicates the invoicing API returned an unparseable response
	ErrGatewayInvalidResponse = errors.New("invoicing: invalid response")
	// ErrClientNotFound indicates no client matched the lookup email
	ErrClientNotFound = errors.New("invoicing: client not found")
)

// Client is a billing client as known to the invoicing system
type Client struct {
	ID          int64
	Email       string
	FirstName   string
	LastName    string
	CompanyName string
}

// InvoiceAck is the acknowledgment returned when an invoice is accepted
// for asynchronous processing. InvoiceUUID may be empty; completion is
// not tracked by this service.
type InvoiceAck struct {
	TaskReference string
	InvoiceUUID   string
}

// InvoicingGateway abstracts the third-party invoicing API.
// Implementations must not retry internally; errors propagate to the
// webhook response so the sender can retry on its own schedule.
type InvoicingGateway interface {
	// FindClientByEmail returns the first client whose email matches
	// exactly, or ErrClientNotFound when the search comes back empty.
	FindClientByEmail(ctx context.Context, email string) (*Client, error)

	// CreateClient registers a new billing client and returns it with
	// the identifier assigned by the invoicing system.
	CreateClient(ctx context.Context, rec ClientRecord) (*Client, error)

	// CreateInvoice submits an invoice for the given client. Success
	// means HTTP-level acceptance, not invoice completion.
	CreateInvoice(ctx context.Context, clientID int64, draft *InvoiceDraft) (*InvoiceAck, error)

	// MarkInvoicePaid flags an already-accepted invoice as paid.
	MarkInvoicePaid(ctx context.Context, invoiceUUID string) error
}
