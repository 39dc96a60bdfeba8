// Package asana creates project-tracking tasks for new campaigns.
package asana

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/mo-amir99/campaign-naming-server-go/pkg/config"
	"github.com/mo-amir99/campaign-naming-server-go/pkg/memory"
	"github.com/mo-amir99/campaign-naming-server-go/pkg/metrics"
)

// TaskName is the fixed title of every task the server creates.
const TaskName = "Iterable Naming Tool Project [AUTOMATION] submission"

// ErrNotConfigured is returned when the token or project is missing.
var ErrNotConfigured = errors.New("asana integration not configured: set ASANA_ACCESS_TOKEN and ASANA_PROJECT_ID")

// APIError is a non-2xx answer from Asana.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("asana API error: %d - %s", e.StatusCode, e.Body)
}

// Field subtypes reported by Asana.
const (
	FieldText   = "text"
	FieldEnum   = "enum"
	FieldNumber = "number"
)

// EnumOption is one choice of an enum custom field.
type EnumOption struct {
	GID  string `json:"gid"`
	Name string `json:"name"`
}

// CustomField describes a custom field attached to the project.
type CustomField struct {
	GID         string       `json:"gid"`
	Name        string       `json:"name"`
	Type        string       `json:"type"`
	Description string       `json:"description,omitempty"`
	EnumOptions []EnumOption `json:"enum_options"`
}

// TaskInput carries the campaign attributes copied onto the task.
type TaskInput struct {
	ListAcronym    string
	Scope          string
	Topic          string
	CampaignType   string
	PetitionID     string
	CampaignTitle  string
	GeneratedName  string
	GlobalCampaign string
}

// Client talks to the Asana REST API.
type Client struct {
	accessToken string
	projectID   string
	baseURL     string
	chatURL     string
	fields      config.AsanaFieldConfig
	fieldCache  *memory.Cache[[]CustomField]
	httpClient  *http.Client
	logger      *slog.Logger
}

// NewClient creates a new Asana client.
func NewClient(cfg config.AsanaConfig, logger *slog.Logger) *Client {
	ttl := cfg.FieldCacheTTL
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}

	return &Client{
		accessToken: cfg.AccessToken,
		projectID:   cfg.ProjectID,
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		chatURL:     cfg.ChatURL,
		fields:      cfg.Fields,
		fieldCache:  memory.New[[]CustomField](ttl),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}
}

// Configured reports whether both credentials are present.
func (c *Client) Configured() bool {
	return c.accessToken != "" && c.projectID != ""
}

// ProjectID returns the configured project gid.
func (c *Client) ProjectID() string {
	return c.projectID
}

// FieldCache exposes the project field cache so it can be purged.
func (c *Client) FieldCache() *memory.Cache[[]CustomField] {
	return c.fieldCache
}

// CreateCampaignTask creates the tracking task and returns its gid.
func (c *Client) CreateCampaignTask(ctx context.Context, input TaskInput) (string, error) {
	if !c.Configured() {
		return "", ErrNotConfigured
	}

	gid, err := c.createTask(ctx, input)
	metrics.RecordIntegration("asana", err)
	if err != nil {
		return "", fmt.Errorf("failed to create Asana task: %w", err)
	}
	return gid, nil
}

func (c *Client) createTask(ctx context.Context, input TaskInput) (string, error) {
	payload := map[string]any{
		"name":      TaskName,
		"notes":     c.taskNotes(input.GeneratedName),
		"projects":  []string{c.projectID},
		"completed": false,
	}
	if fields := c.buildCustomFields(ctx, input); len(fields) > 0 {
		payload["custom_fields"] = fields
	}

	var created struct {
		GID string `json:"gid"`
	}
	if err := c.do(ctx, http.MethodPost, "/tasks", payload, &created); err != nil {
		return "", err
	}
	return created.GID, nil
}

func (c *Client) taskNotes(generatedName string) string {
	return fmt.Sprintf("This is your Iterable Program Name: %s\n\nGoogle Chat Link: %s", generatedName, c.chatURL)
}

type fieldValue struct {
	name  string
	gid   string
	value string
}

func (c *Client) fieldValues(input TaskInput) []fieldValue {
	return []fieldValue{
		{name: "citizengo_list", gid: c.fields.CitizenGOList, value: input.ListAcronym},
		{name: "scope", gid: c.fields.Scope, value: input.Scope},
		{name: "campaign_name", gid: c.fields.CampaignName, value: input.CampaignTitle},
		{name: "topic", gid: c.fields.Topic, value: strings.ReplaceAll(input.Topic, "_", " ")},
		{name: "global_campaign", gid: c.fields.GlobalCampaign, value: input.GlobalCampaign},
		{name: "petition_id", gid: c.fields.PetitionID, value: input.PetitionID},
		{name: "campaign_type", gid: c.fields.CampaignType, value: strings.ReplaceAll(input.CampaignType, "_", " ")},
	}
}

// buildCustomFields maps configured field gids to values shaped for their
// subtype. When the project settings cannot be read every value is sent as text.
func (c *Client) buildCustomFields(ctx context.Context, input TaskInput) map[string]any {
	out := make(map[string]any)

	projectFields, err := c.ProjectCustomFields(ctx)
	if err != nil {
		c.logger.Warn("could not fetch Asana field types, using text values", slog.String("error", err.Error()))
		projectFields = nil
	}

	byGID := make(map[string]CustomField, len(projectFields))
	for _, f := range projectFields {
		byGID[f.GID] = f
	}

	for _, fv := range c.fieldValues(input) {
		if fv.gid == "" || fv.value == "" {
			continue
		}

		field, known := byGID[fv.gid]
		if !known {
			out[fv.gid] = fv.value
			continue
		}

		switch field.Type {
		case FieldEnum:
			option, matched := MatchEnumOption(field.EnumOptions, fv.value)
			switch {
			case matched:
				out[fv.gid] = option.GID
			case len(field.EnumOptions) > 0:
				c.logger.Warn("no matching Asana enum option, using first option",
					slog.String("field", fv.name),
					slog.String("value", fv.value),
				)
				out[fv.gid] = field.EnumOptions[0].GID
			default:
				out[fv.gid] = fv.value
			}
		case FieldNumber:
			n, err := leadingInt(fv.value)
			switch {
			case err == nil:
				out[fv.gid] = n
			case errors.Is(err, strconv.ErrRange):
				c.logger.Warn("Asana number out of range, sending as text",
					slog.String("field", fv.name),
					slog.String("value", fv.value),
				)
				out[fv.gid] = fv.value
			}
		default:
			out[fv.gid] = fv.value
		}
	}

	return out
}

// ProjectCustomFields lists the project's custom fields, served from a TTL cache.
func (c *Client) ProjectCustomFields(ctx context.Context) ([]CustomField, error) {
	if !c.Configured() {
		return nil, ErrNotConfigured
	}
	return c.fieldCache.GetOrLoad(ctx, memory.Key("fields", c.projectID), c.fetchCustomFields)
}

func (c *Client) fetchCustomFields(ctx context.Context) ([]CustomField, error) {
	var settings []struct {
		CustomField struct {
			GID             string       `json:"gid"`
			Name            string       `json:"name"`
			ResourceSubtype string       `json:"resource_subtype"`
			Description     string       `json:"description"`
			EnumOptions     []EnumOption `json:"enum_options"`
		} `json:"custom_field"`
	}

	path := fmt.Sprintf("/projects/%s/custom_field_settings", c.projectID)
	if err := c.do(ctx, http.MethodGet, path, nil, &settings); err != nil {
		return nil, err
	}

	fields := make([]CustomField, 0, len(settings))
	for _, s := range settings {
		options := s.CustomField.EnumOptions
		if options == nil {
			options = []EnumOption{}
		}
		fields = append(fields, CustomField{
			GID:         s.CustomField.GID,
			Name:        s.CustomField.Name,
			Type:        s.CustomField.ResourceSubtype,
			Description: s.CustomField.Description,
			EnumOptions: options,
		})
	}
	return fields, nil
}

// do sends a request wrapped in Asana's {"data": ...} envelope and decodes
// the envelope of the answer into out.
func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(map[string]any{"data": body})
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.accessToken)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return &APIError{StatusCode: resp.StatusCode, Body: string(bodyBytes)}
	}

	envelope := struct {
		Data any `json:"data"`
	}{Data: out}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// MatchEnumOption finds the option whose name equals value once both are
// case folded, stripped of accents and reduced to ASCII letters and digits.
func MatchEnumOption(options []EnumOption, value string) (EnumOption, bool) {
	target := normalize(value)
	for _, option := range options {
		if normalize(option.Name) == target {
			return option, true
		}
	}
	return EnumOption{}, false
}

func normalize(s string) string {
	stripped, _, err := transform.String(transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC), s)
	if err != nil {
		stripped = s
	}

	var b strings.Builder
	for _, r := range cases.Fold().String(stripped) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// errNotNumeric is returned by leadingInt when s has no digit prefix.
var errNotNumeric = errors.New("value has no leading digits")

// leadingInt parses the integer prefix of s, ignoring leading whitespace.
// Prefixes outside the int64 range return strconv.ErrRange.
func leadingInt(s string) (int64, error) {
	s = strings.TrimLeft(s, " \t\n\r")
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	digitsStart := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digitsStart {
		return 0, errNotNumeric
	}

	n, err := strconv.ParseInt(s[:end], 10, 64)
	if err != nil {
		return 0, err
	}
	return n, nil
}
