package invoicing

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/invoicebridge/backend/internal/domain/billing"
)

// maxResponseSize is the maximum allowed response size from the inFakt API (1MB)
const maxResponseSize = 1 << 20

// API paths used by this adapter
const (
	clientsPath       = "/api/v3/clients.json"
	asyncInvoicesPath = "/api/v3/async/invoices.json"
)

// InfaktAdapter implements the billing.InvoicingGateway port against
// the inFakt v3 API.
type InfaktAdapter struct {
	config     *InfaktConfig
	httpClient *http.Client
}

// NewInfaktAdapter creates an adapter with the given configuration
func NewInfaktAdapter(config *InfaktConfig) (*InfaktAdapter, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &InfaktAdapter{
		config: config,
		httpClient: &http.Client{
			Timeout: time.Duration(config.TimeoutSeconds) * time.Second,
		},
	}, nil
}

// FindClientByEmail searches clients filtered by email and returns the
// first exact match. Returns billing.ErrClientNotFound when no client
// matches.
func (a *InfaktAdapter) FindClientByEmail(ctx context.Context, email string) (*billing.Client, error) {
	query := url.Values{}
	query.Set("q[email_eq]", email)

	respBody, status, err := a.doRequest(ctx, http.MethodGet, clientsPath+"?"+query.Encode(), nil)
	if err != nil {
		return nil, err
	}
	if status >= 400 {
		return nil, apiError(status, respBody)
	}

	var resp ClientListResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", billing.ErrGatewayInvalidResponse, err)
	}

	for _, entity := range resp.Entities {
		if strings.EqualFold(entity.Email, email) {
			client := convertClientEntity(&entity)
			return &client, nil
		}
	}
	return nil, billing.ErrClientNotFound
}

// CreateClient registers a new billing client
func (a *InfaktAdapter) CreateClient(ctx context.Context, rec billing.ClientRecord) (*billing.Client, error) {
	req := ClientCreateRequest{
		Client: ClientPayload{
			Email:                rec.Email,
			FirstName:            rec.FirstName,
			LastName:             rec.LastName,
			CompanyName:          rec.CompanyName,
			Street:               rec.Street,
			FlatNumber:           rec.FlatNumber,
			City:                 rec.City,
			PostalCode:           rec.PostCode,
			NIP:                  rec.TaxCode,
			BusinessActivityKind: rec.BusinessActivityKind,
		},
	}

	respBody, status, err := a.doRequest(ctx, http.MethodPost, clientsPath, req)
	if err != nil {
		return nil, err
	}
	if status >= 400 {
		return nil, apiError(status, respBody)
	}

	var entity ClientEntity
	if err := json.Unmarshal(respBody, &entity); err != nil {
		return nil, fmt.Errorf("%w: %v", billing.ErrGatewayInvalidResponse, err)
	}
	if entity.ID == 0 {
		return nil, fmt.Errorf("%w: created client has no id", billing.ErrGatewayInvalidResponse)
	}

	client := convertClientEntity(&entity)
	return &client, nil
}

// CreateInvoice submits an invoice for asynchronous processing. A 2xx
// status means the request was accepted; completion is not observed.
func (a *InfaktAdapter) CreateInvoice(ctx context.Context, clientID int64, draft *billing.InvoiceDraft) (*billing.InvoiceAck, error) {
	services := make([]ServicePayload, 0, len(draft.Services))
	for _, line := range draft.Services {
		services = append(services, ServicePayload{
			Name:              line.Name,
			TaxSymbol:         line.TaxSymbol,
			Quantity:          line.Quantity,
			UnitNetPrice:      line.UnitNetPrice,
			UnitCost:          line.UnitCost,
			GrossPrice:        line.GrossPrice,
			TaxPrice:          line.TaxPrice,
			FlatRateTaxSymbol: line.FlatRateTaxSymbol,
		})
	}

	req := InvoiceCreateRequest{
		Invoice: InvoicePayload{
			Kind:           draft.Kind,
			Series:         draft.Series,
			Status:         draft.Status,
			SellDate:       draft.SellDate,
			IssueDate:      draft.IssueDate,
			PaymentDueDate: draft.PaymentDueDate,
			PaymentMethod:  draft.PaymentMethod,
			Currency:       draft.Currency,
			ClientID:       clientID,
			Services:       services,
		},
	}

	respBody, status, err := a.doRequest(ctx, http.MethodPost, asyncInvoicesPath, req)
	if err != nil {
		return nil, err
	}
	if status >= 400 {
		return nil, apiError(status, respBody)
	}

	var resp InvoiceCreateResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", billing.ErrGatewayInvalidResponse, err)
	}

	return &billing.InvoiceAck{
		TaskReference: resp.InvoiceTaskReferenceNumber,
		InvoiceUUID:   resp.UUID,
	}, nil
}

// MarkInvoicePaid flags an invoice as paid via the async paid endpoint
func (a *InfaktAdapter) MarkInvoicePaid(ctx context.Context, invoiceUUID string) error {
	path := fmt.Sprintf("/api/v3/async/invoices/%s/paid.json", url.PathEscape(invoiceUUID))

	respBody, status, err := a.doRequest(ctx, http.MethodPost, path, nil)
	if err != nil {
		return err
	}
	if status >= 400 {
		return apiError(status, respBody)
	}
	return nil
}

// doRequest performs an HTTP request against the inFakt API and returns
// the raw body and status code. Network failures map to
// billing.ErrGatewayUnavailable; HTTP-level rejection is left to callers.
func (a *InfaktAdapter) doRequest(ctx context.Context, method, path string, body any) ([]byte, int, error) {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, 0, fmt.Errorf("infakt: failed to encode request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, a.config.APIBaseURL+path, reader)
	if err != nil {
		return nil, 0, fmt.Errorf("infakt: failed to create request: %w", err)
	}
	req.Header.Set("X-inFakt-ApiKey", a.config.APIKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := a.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: %v", billing.ErrGatewayUnavailable, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, 0, fmt.Errorf("infakt: failed to read response: %w", err)
	}

	return respBody, resp.StatusCode, nil
}

// apiError converts a rejected response into a gateway error, keeping
// the API's error message when it can be decoded
func apiError(status int, body []byte) error {
	var apiErr APIErrorResponse
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Error != "" {
		return fmt.Errorf("%w: HTTP %d: %s", billing.ErrGatewayRequestFailed, status, apiErr.Error)
	}
	return fmt.Errorf("%w: HTTP %d", billing.ErrGatewayRequestFailed, status)
}

// convertClientEntity maps an API client record to the domain form
func convertClientEntity(entity *ClientEntity) billing.Client {
	return billing.Client{
		ID:          entity.ID,
		Email:       entity.Email,
		FirstName:   entity.FirstName,
		LastName:    entity.LastName,
		CompanyName: entity.CompanyName,
	}
}

// Ensure InfaktAdapter implements the InvoicingGateway port
var _ billing.InvoicingGateway = (*InfaktAdapter)(nil)
