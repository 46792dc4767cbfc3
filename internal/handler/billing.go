package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/pulseboard/pulseboard/internal/billing"
	"github.com/pulseboard/pulseboard/internal/handler/dto"
)

// BillingHandler proxies subscription operations to Stripe.
type BillingHandler struct {
	svc    *billing.Service
	logger *slog.Logger
}

// NewBillingHandler creates a new BillingHandler. A nil service disables the
// endpoints with 503 responses.
func NewBillingHandler(svc *billing.Service, logger *slog.Logger) *BillingHandler {
	return &BillingHandler{
		svc:    svc,
		logger: logger.With("component", "handler.billing"),
	}
}

// Checkout handles POST /api/billing/checkout.
func (h *BillingHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	if h.svc == nil {
		writeError(w, http.StatusServiceUnavailable, "BILLING_DISABLED", "Billing is not configured")
		return
	}

	url, err := h.svc.CreateCheckout()
	if err != nil {
		h.logger.Error("checkout session failed", "error", err)
		writeError(w, http.StatusBadGateway, "CHECKOUT_FAILED", "Could not create checkout session")
		return
	}
	writeJSON(w, http.StatusOK, dto.URLResponse{URL: url})
}

// Portal handles POST /api/billing/portal.
func (h *BillingHandler) Portal(w http.ResponseWriter, r *http.Request) {
	if h.svc == nil {
		writeError(w, http.StatusServiceUnavailable, "BILLING_DISABLED", "Billing is not configured")
		return
	}

	var req dto.CheckoutRequest
	if r.Body != nil {
		// An empty or absent body is fine; the portal works without a customer.
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	url, err := h.svc.CreatePortal(req.CustomerID)
	if err != nil {
		h.logger.Error("portal session failed", "error", err)
		writeError(w, http.StatusBadGateway, "PORTAL_FAILED", "Could not create portal session")
		return
	}
	writeJSON(w, http.StatusOK, dto.URLResponse{URL: url})
}
