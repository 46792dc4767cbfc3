// Package dto defines the request and response shapes of the HTTP API.
package dto

import "github.com/pulseboard/pulseboard/internal/model"

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// StatusResponse reports which platforms a session has connected.
type StatusResponse struct {
	Connected []string `json:"connected"`
}

// RefreshResponse is the body of POST /api/insights/refresh.
type RefreshResponse struct {
	ID          string                    `json:"id"`
	Status      string                    `json:"status"`
	Platforms   []string                  `json:"platforms"`
	Analytics   *model.AnalyticsSummary   `json:"analytics,omitempty"`
	Plan        *model.RecommendationPlan `json:"plan,omitempty"`
	Augmented   bool                      `json:"augmented"`
	GeneratedAt string                    `json:"generatedAt,omitempty"`
}

// CheckoutRequest is the body of POST /api/billing/portal.
type CheckoutRequest struct {
	CustomerID string `json:"customerId,omitempty"`
}

// URLResponse carries a redirect target for the client to follow.
type URLResponse struct {
	URL string `json:"url"`
}

// ToRefreshResponse converts a report snapshot to the API shape.
func ToRefreshResponse(report *model.Report, augmented bool) RefreshResponse {
	resp := RefreshResponse{
		ID:        report.ID,
		Status:    string(report.Status),
		Platforms: report.Platforms,
		Analytics: report.Analytics,
		Plan:      report.Plan,
		Augmented: augmented,
	}
	if !report.GeneratedAt.IsZero() {
		resp.GeneratedAt = report.GeneratedAt.UTC().Format("2006-01-02T15:04:05Z07:00")
	}
	return resp
}
