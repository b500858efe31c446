package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	billingapp "github.com/invoicebridge/backend/internal/application/billing"
	"github.com/invoicebridge/backend/internal/domain/billing"
	"github.com/invoicebridge/backend/internal/infrastructure/shopify"
	"github.com/invoicebridge/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// Maximum webhook payload size (64KB - Shopify order webhooks are typically small)
const maxWebhookPayloadSize = 65536

// OrderWebhookHandler handles Shopify order webhook endpoints
// These endpoints are called by Shopify and are authenticated by HMAC signature
type OrderWebhookHandler struct {
	BaseHandler
	orderService *billingapp.OrderInvoiceService
}

// NewOrderWebhookHandler creates a new OrderWebhookHandler
func NewOrderWebhookHandler(orderService *billingapp.OrderInvoiceService) *OrderWebhookHandler {
	return &OrderWebhookHandler{
		orderService: orderService,
	}
}

// OrderWebhookResponse represents the response for the order webhook
type OrderWebhookResponse struct {
	Received      bool   `json:"received"`
	OrderID       int64  `json:"order_id,omitempty"`
	ClientID      int64  `json:"client_id,omitempty"`
	Resolution    string `json:"resolution,omitempty"`
	TaskReference string `json:"task_reference,omitempty"`
	Message       string `json:"message,omitempty"`
}

// HandleOrderCreated receives orders/create webhooks from Shopify and
// submits a matching invoice to inFakt
func (h *OrderWebhookHandler) HandleOrderCreated(c *gin.Context) {
	// Shopify requires the raw body for signature verification, so read it
	// directly instead of binding. Limit the read to keep payloads bounded.
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookPayloadSize+1))
	if err != nil {
		h.BadRequest(c, "Failed to read request body")
		return
	}

	if len(payload) > maxWebhookPayloadSize {
		h.ErrorWithCode(c, dto.ErrCodePayloadTooLarge, "Payload too large")
		return
	}

	signature := c.GetHeader(shopify.SignatureHeader)
	if signature == "" {
		h.Unauthorized(c, "Missing "+shopify.SignatureHeader+" header")
		return
	}

	result, err := h.orderService.ProcessOrderWebhook(c.Request.Context(), payload, signature)
	if err != nil {
		h.handleProcessError(c, err)
		return
	}

	c.JSON(http.StatusOK, OrderWebhookResponse{
		Received:      true,
		OrderID:       result.OrderID,
		ClientID:      result.ClientID,
		Resolution:    result.Resolution,
		TaskReference: result.TaskReference,
		Message:       "Invoice submitted",
	})
}

// handleProcessError maps processing errors to HTTP responses.
// Internal error details stay out of the response body, the webhook
// caller is an external system.
func (h *OrderWebhookHandler) handleProcessError(c *gin.Context, err error) {
	logger := getLogger(c)

	switch {
	case errors.Is(err, billingapp.ErrSignatureVerification):
		h.Unauthorized(c, "Webhook signature verification failed")
	case errors.Is(err, shopify.ErrInvalidPayload),
		errors.Is(err, billing.ErrOrderMissingEmail),
		errors.Is(err, billing.ErrOrderNoLineItems),
		errors.Is(err, billing.ErrOrderInvalidPrice):
		h.BadRequest(c, "Invalid order payload")
	case errors.Is(err, billing.ErrGatewayUnavailable),
		errors.Is(err, billing.ErrGatewayRequestFailed),
		errors.Is(err, billing.ErrGatewayInvalidResponse):
		logger.Error("Invoicing API call failed", zap.Error(err))
		h.BadGateway(c, "Invoicing service request failed")
	default:
		logger.Error("Webhook processing failed", zap.Error(err))
		h.InternalError(c, "Failed to process webhook")
	}
}
