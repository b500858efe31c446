package billing

import (
	"context"
	"errors"
	"fmt"

	"github.com/invoicebridge/backend/internal/domain/billing"
	"github.com/invoicebridge/backend/internal/infrastructure/shopify"
	"go.uber.org/zap"
)

// ErrSignatureVerification indicates the webhook signature did not match
var ErrSignatureVerification = errors.New("webhook signature verification failed")

// Client resolution outcomes reported in ProcessResult
const (
	ResolutionFound   = "found"
	ResolutionCreated = "created"
)

// OrderInvoiceService turns verified Shopify order webhooks into inFakt invoices
type OrderInvoiceService struct {
	verifier *shopify.WebhookVerifier
	gateway  billing.InvoicingGateway
	series   string
	markPaid bool
	logger   *zap.Logger
}

// OrderInvoiceServiceConfig contains configuration for OrderInvoiceService
type OrderInvoiceServiceConfig struct {
	Verifier *shopify.WebhookVerifier
	Gateway  billing.InvoicingGateway
	Series   string
	MarkPaid bool
	Logger   *zap.Logger
}

// NewOrderInvoiceService creates a new OrderInvoiceService
func NewOrderInvoiceService(cfg OrderInvoiceServiceConfig) *OrderInvoiceService {
	series := cfg.Series
	if series == "" {
		series = billing.DefaultSeries
	}
	return &OrderInvoiceService{
		verifier: cfg.Verifier,
		gateway:  cfg.Gateway,
		series:   series,
		markPaid: cfg.MarkPaid,
		logger:   cfg.Logger,
	}
}

// ProcessResult contains the result of processing an order webhook
type ProcessResult struct {
	OrderID       int64  `json:"order_id"`
	ClientID      int64  `json:"client_id"`
	Resolution    string `json:"resolution"`
	TaskReference string `json:"task_reference,omitempty"`
}

// ProcessOrderWebhook verifies the webhook signature, parses the order and
// submits an invoice for it. The client is looked up by email first and
// created only when no match exists.
func (s *OrderInvoiceService) ProcessOrderWebhook(ctx context.Context, payload []byte, signature string) (*ProcessResult, error) {
	if !s.verifier.Verify(payload, signature) {
		s.logger.Warn("Rejected webhook with invalid signature",
			zap.Int("payload_size", len(payload)))
		return nil, ErrSignatureVerification
	}

	order, err := shopify.ParseOrder(payload)
	if err != nil {
		s.logger.Error("Failed to parse order payload",
			zap.Error(err))
		return nil, err
	}

	s.logger.Info("Processing order webhook",
		zap.Int64("order_id", order.OrderID),
		zap.String("email", order.Email),
		zap.Int("line_items", len(order.Items)))

	client, resolution, err := s.resolveClient(ctx, order)
	if err != nil {
		s.logger.Error("Failed to resolve client",
			zap.Int64("order_id", order.OrderID),
			zap.String("email", order.Email),
			zap.Error(err))
		return nil, err
	}

	draft, err := billing.BuildInvoice(order, s.series)
	if err != nil {
		s.logger.Error("Failed to build invoice",
			zap.Int64("order_id", order.OrderID),
			zap.Error(err))
		return nil, err
	}

	ack, err := s.gateway.CreateInvoice(ctx, client.ID, draft)
	if err != nil {
		s.logger.Error("Failed to submit invoice",
			zap.Int64("order_id", order.OrderID),
			zap.Int64("client_id", client.ID),
			zap.Error(err))
		return nil, fmt.Errorf("invoice submission for order %d: %w", order.OrderID, err)
	}

	s.logger.Info("Invoice submitted",
		zap.Int64("order_id", order.OrderID),
		zap.Int64("client_id", client.ID),
		zap.String("resolution", resolution),
		zap.String("task_reference", ack.TaskReference))

	if s.markPaid && ack.InvoiceUUID != "" {
		if err := s.gateway.MarkInvoicePaid(ctx, ack.InvoiceUUID); err != nil {
			// The invoice exists at this point, so log and report success
			s.logger.Warn("Failed to mark invoice as paid",
				zap.Int64("order_id", order.OrderID),
				zap.String("invoice_uuid", ack.InvoiceUUID),
				zap.Error(err))
		}
	}

	return &ProcessResult{
		OrderID:       order.OrderID,
		ClientID:      client.ID,
		Resolution:    resolution,
		TaskReference: ack.TaskReference,
	}, nil
}

// resolveClient finds an existing inFakt client by email or creates one
// from the order's billing details
func (s *OrderInvoiceService) resolveClient(ctx context.Context, order *billing.Order) (*billing.Client, string, error) {
	client, err := s.gateway.FindClientByEmail(ctx, order.Email)
	if err == nil {
		return client, ResolutionFound, nil
	}
	if !errors.Is(err, billing.ErrClientNotFound) {
		return nil, "", fmt.Errorf("client lookup for %q: %w", order.Email, err)
	}

	created, err := s.gateway.CreateClient(ctx, order.ClientRecord())
	if err != nil {
		return nil, "", fmt.Errorf("client creation for %q: %w", order.Email, err)
	}

	s.logger.Info("Created new client",
		zap.Int64("client_id", created.ID),
		zap.String("email", order.Email))

	return created, ResolutionCreated, nil
}
