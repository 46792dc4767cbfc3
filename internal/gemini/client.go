// Package gemini asks the Generative Language API to turn an analytics
// summary into a weekly content plan. Augmentation is best-effort enrichment:
// every failure path returns a nil prescription and the caller keeps its
// locally computed plan. Nothing in this package panics or retries.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/pulseboard/pulseboard/internal/model"
)

const (
	// DefaultBaseURL is the Generative Language API root.
	DefaultBaseURL = "https://generativelanguage.googleapis.com"
	// DefaultModel is the completion model used for recommendations.
	DefaultModel = "gemini-1.5-flash"

	// planDays is the required weeklyPlan length; anything else fails the
	// shape check so the seven-entry plan invariant holds downstream.
	planDays = 7
)

// Config configures the client. An absent APIKey is a normal state that
// gates Generate to return nil without attempting a call.
type Config struct {
	APIKey     string
	Model      string
	BaseURL    string
	HTTPClient *http.Client
}

// Prescription is the structured plan the model is asked to return.
type Prescription struct {
	Summary     string            `json:"summary"`
	NextActions []string          `json:"nextActions"`
	WeeklyPlan  []WeeklyPlanEntry `json:"weeklyPlan"`
}

// WeeklyPlanEntry is one day of the model-proposed plan.
type WeeklyPlanEntry struct {
	Day         string   `json:"day"`
	Time        string   `json:"time"`
	ContentType string   `json:"contentType"`
	Idea        string   `json:"idea"`
	Hashtags    []string `json:"hashtags"`
}

// Client calls the generateContent endpoint.
type Client struct {
	cfg    Config
	logger *slog.Logger
}

// NewClient creates a Gemini client. Zero-value Model/BaseURL/HTTPClient
// fields select the defaults.
func NewClient(cfg Config, logger *slog.Logger) *Client {
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = http.DefaultClient
	}
	return &Client{
		cfg:    cfg,
		logger: logger.With("component", "gemini.client"),
	}
}

// Enabled reports whether an API key is configured.
func (c *Client) Enabled() bool {
	return c.cfg.APIKey != ""
}

// Generate asks the model for a prescription based on the analytics summary.
// It returns (nil, nil) when no API key is configured and (nil, err) on any
// call or parse failure; callers treat both the same way and keep the local
// plan. A non-nil prescription always has exactly seven weekly-plan entries.
func (c *Client) Generate(ctx context.Context, summary model.AnalyticsSummary, platform string) (*Prescription, error) {
	if !c.Enabled() {
		return nil, nil
	}

	prompt, err := buildPrompt(summary, platform)
	if err != nil {
		return nil, fmt.Errorf("build prompt: %w", err)
	}

	text, err := c.generateText(ctx, prompt)
	if err != nil {
		return nil, err
	}

	raw, ok := ExtractJSON(text)
	if !ok {
		return nil, fmt.Errorf("no JSON object in model output")
	}

	var p Prescription
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return nil, fmt.Errorf("parse prescription: %w", err)
	}
	if len(p.WeeklyPlan) != planDays {
		return nil, fmt.Errorf("weekly plan has %d entries, want %d", len(p.WeeklyPlan), planDays)
	}
	return &p, nil
}

// generateText performs the single generateContent call and returns the
// first candidate's text.
func (c *Client) generateText(ctx context.Context, prompt string) (string, error) {
	reqBody := generateContentRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
	}
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s", c.cfg.BaseURL, c.cfg.Model, c.cfg.APIKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.cfg.HTTPClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("generate content: status %d", resp.StatusCode)
	}

	var gcr generateContentResponse
	if err := json.Unmarshal(body, &gcr); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	text := gcr.firstText()
	if text == "" {
		return "", fmt.Errorf("response has no text candidate")
	}
	return text, nil
}

// buildPrompt embeds the analytics summary as JSON in the instruction.
func buildPrompt(summary model.AnalyticsSummary, platform string) (string, error) {
	analyticsJSON, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(`You are a social media growth strategist. Given analytics for %s, propose a concise action plan.

Analytics JSON:
%s

Return JSON with keys: summary (string), nextActions (array of 6 imperative bullets), weeklyPlan (7 items; each with day, time, contentType, idea, hashtags as array of 3).`, platform, analyticsJSON), nil
}

// Wire shapes of the generateContent exchange.

type part struct {
	Text string `json:"text"`
}

type content struct {
	Parts []part `json:"parts"`
}

type generateContentRequest struct {
	Contents []content `json:"contents"`
}

type generateContentResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

func (r *generateContentResponse) firstText() string {
	if len(r.Candidates) == 0 || len(r.Candidates[0].Content.Parts) == 0 {
		return ""
	}
	return r.Candidates[0].Content.Parts[0].Text
}
