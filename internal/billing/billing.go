// Package billing proxies subscription management to Stripe. The API exposes
// two operations: start a checkout session for the single subscription price,
// and open the customer billing portal.
package billing

import (
	"fmt"
	"log/slog"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
)

// Config holds the Stripe credentials and redirect targets.
type Config struct {
	SecretKey string
	PriceID   string
	ClientURL string
}

// Service creates Stripe checkout and portal sessions.
type Service struct {
	cfg    Config
	api    *client.API
	logger *slog.Logger
}

// NewService creates a billing service. Returns nil when no secret key is
// configured; handlers treat a nil service as billing disabled.
func NewService(cfg Config, logger *slog.Logger) *Service {
	if cfg.SecretKey == "" {
		return nil
	}
	api := &client.API{}
	api.Init(cfg.SecretKey, nil)
	return &Service{
		cfg:    cfg,
		api:    api,
		logger: logger.With("component", "billing.service"),
	}
}

// CreateCheckout starts a subscription checkout session and returns the
// hosted payment page URL.
func (s *Service) CreateCheckout() (string, error) {
	params := &stripe.CheckoutSessionParams{
		Mode: stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(s.cfg.PriceID),
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL: stripe.String(s.cfg.ClientURL + "/dashboard"),
		CancelURL:  stripe.String(s.cfg.ClientURL + "/pricing"),
	}

	sess, err := s.api.CheckoutSessions.New(params)
	if err != nil {
		return "", fmt.Errorf("create checkout session: %w", err)
	}
	return sess.URL, nil
}

// CreatePortal opens the customer billing portal and returns its URL. An
// empty customerID lets Stripe resolve the customer from the portal login.
func (s *Service) CreatePortal(customerID string) (string, error) {
	params := &stripe.BillingPortalSessionParams{
		ReturnURL: stripe.String(s.cfg.ClientURL + "/dashboard"),
	}
	if customerID != "" {
		params.Customer = stripe.String(customerID)
	}

	sess, err := s.api.BillingPortalSessions.New(params)
	if err != nil {
		return "", fmt.Errorf("create portal session: %w", err)
	}
	return sess.URL, nil
}
