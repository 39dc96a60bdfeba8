// Package iterable creates email campaigns on the Iterable platform.
package iterable

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mo-amir99/campaign-naming-server-go/pkg/config"
	"github.com/mo-amir99/campaign-naming-server-go/pkg/metrics"
)

// DefaultPrefix marks campaigns created by the naming tool.
const DefaultPrefix = "CNT"

// Send modes accepted by Iterable for blast campaigns.
const (
	SendModeProjectTimeZone   = "ProjectTimeZone"
	SendModeRecipientTimeZone = "RecipientTimeZone"
)

// ErrNotConfigured is returned when no API key is set.
var ErrNotConfigured = errors.New("iterable integration not configured: set ITERABLE_API_KEY")

// APIError is a non-2xx answer from Iterable.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("iterable API error: %d - %s", e.StatusCode, e.Body)
}

// CampaignRequest is the body of POST /campaigns/create.
type CampaignRequest struct {
	Name               string         `json:"name"`
	TemplateID         int64          `json:"templateId"`
	ListIDs            []int64        `json:"listIds,omitempty"`
	DataFields         map[string]any `json:"dataFields,omitempty"`
	SendAt             string         `json:"sendAt,omitempty"`
	SendMode           string         `json:"sendMode,omitempty"`
	DefaultTimeZone    string         `json:"defaultTimeZone,omitempty"`
	StartTimeZone      string         `json:"startTimeZone,omitempty"`
	SuppressionListIDs []int64        `json:"suppressionListIds,omitempty"`
}

// BlastOptions are the optional settings of a blast campaign.
type BlastOptions struct {
	DataFields         map[string]any
	SendAt             string
	SendMode           string
	DefaultTimeZone    string
	StartTimeZone      string
	SuppressionListIDs []int64
}

// TriggeredOptions are the optional settings of a triggered campaign.
type TriggeredOptions struct {
	DataFields         map[string]any
	SuppressionListIDs []int64
}

// Client talks to the Iterable REST API.
type Client struct {
	apiKey     string
	baseURL    string
	templateID int64
	prefix     string
	httpClient *http.Client
}

// NewClient creates a new Iterable client.
func NewClient(cfg config.IterableConfig) *Client {
	prefix := cfg.CampaignName
	if prefix == "" {
		prefix = DefaultPrefix
	}

	return &Client{
		apiKey:     cfg.APIKey,
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		templateID: cfg.TemplateID,
		prefix:     prefix,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Configured reports whether an API key is present.
func (c *Client) Configured() bool {
	return c.apiKey != ""
}

// TemplateID returns the template used for campaigns created from the form.
func (c *Client) TemplateID() int64 {
	return c.templateID
}

// CreateCampaign creates a campaign and returns its id.
func (c *Client) CreateCampaign(ctx context.Context, campaign CampaignRequest) (int64, error) {
	if !c.Configured() {
		return 0, ErrNotConfigured
	}

	id, err := c.create(ctx, campaign)
	metrics.RecordIntegration("iterable", err)
	if err != nil {
		return 0, fmt.Errorf("failed to create Iterable campaign: %w", err)
	}
	return id, nil
}

// CreateBlastCampaign creates a campaign sent to the given lists.
func (c *Client) CreateBlastCampaign(ctx context.Context, name string, templateID int64, listIDs []int64, opts BlastOptions) (int64, error) {
	return c.CreateCampaign(ctx, CampaignRequest{
		Name:               name,
		TemplateID:         templateID,
		ListIDs:            listIDs,
		DataFields:         opts.DataFields,
		SendAt:             opts.SendAt,
		SendMode:           opts.SendMode,
		DefaultTimeZone:    opts.DefaultTimeZone,
		StartTimeZone:      opts.StartTimeZone,
		SuppressionListIDs: opts.SuppressionListIDs,
	})
}

// CreateTriggeredCampaign creates a campaign sent through API triggers.
func (c *Client) CreateTriggeredCampaign(ctx context.Context, name string, templateID int64, opts TriggeredOptions) (int64, error) {
	return c.CreateCampaign(ctx, CampaignRequest{
		Name:               name,
		TemplateID:         templateID,
		DataFields:         opts.DataFields,
		SuppressionListIDs: opts.SuppressionListIDs,
	})
}

// FormatCampaignName prefixes a generated name with the configured prefix.
func (c *Client) FormatCampaignName(generatedName string) string {
	return FormatCampaignName(generatedName, c.prefix)
}

// FormatCampaignName prefixes generatedName, defaulting to DefaultPrefix.
func FormatCampaignName(generatedName, prefix string) string {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return prefix + "_" + generatedName
}

func (c *Client) create(ctx context.Context, campaign CampaignRequest) (int64, error) {
	body, err := json.Marshal(campaign)
	if err != nil {
		return 0, fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/campaigns/create", bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Api-Key", c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return 0, &APIError{StatusCode: resp.StatusCode, Body: string(bodyBytes)}
	}

	var created struct {
		CampaignID int64 `json:"campaignId"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&created); err != nil {
		return 0, fmt.Errorf("failed to decode response: %w", err)
	}
	return created.CampaignID, nil
}
