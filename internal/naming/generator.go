// Package naming builds and checks standardized campaign names.
package naming

import (
	"fmt"
	"strings"
	"time"
)

const (
	partSeparator = "-"
	mdSuffix      = "_MD"
	dateLayout    = "2006-01-02"
	petitionNone  = "NA"
)

// Placeholders rendered by Preview for fields that are not filled in yet.
const (
	PlaceholderList       = "[List]"
	PlaceholderScope      = "[Scope]"
	PlaceholderTopic      = "[Topic]"
	PlaceholderInitials   = "[Initials]"
	PlaceholderPetitionID = "[PetitionID]"
	PlaceholderTitle      = "[Title]"
	PlaceholderGlobal     = "[Global]"
)

// CampaignNameInput carries the fields a campaign name is assembled from.
// Empty strings mean the field is absent.
type CampaignNameInput struct {
	ListAcronym        string       `json:"listAcronym"`
	Scope              Scope        `json:"scope"`
	Topic              Topic        `json:"topic"`
	CampaignerInitials string       `json:"campaignerInitials"`
	PetitionID         string       `json:"petitionId,omitempty"`
	CampaignTitle      string       `json:"campaignTitle"`
	GlobalCampaign     string       `json:"globalCampaign,omitempty"`
	CampaignType       CampaignType `json:"campaignType,omitempty"`
}

// PreviewResult is the progressive rendering of a partially filled form.
type PreviewResult struct {
	GeneratedName string   `json:"generatedName"`
	IsValid       bool     `json:"isValid"`
	Errors        []string `json:"errors"`
}

// Clock returns the current time.
type Clock func() time.Time

// Generator assembles campaign names. The zero value is not usable; build one
// with NewGenerator.
type Generator struct {
	clock    Clock
	location *time.Location
}

// GeneratorOption configures a Generator.
type GeneratorOption func(*Generator)

// WithClock overrides the time source used for the date segment.
func WithClock(clock Clock) GeneratorOption {
	return func(g *Generator) {
		if clock != nil {
			g.clock = clock
		}
	}
}

// WithLocation sets the time zone the calendar date is taken in.
func WithLocation(loc *time.Location) GeneratorOption {
	return func(g *Generator) {
		if loc != nil {
			g.location = loc
		}
	}
}

// NewGenerator returns a Generator using the wall clock in the local time zone
// unless overridden.
func NewGenerator(opts ...GeneratorOption) *Generator {
	g := &Generator{
		clock:    time.Now,
		location: time.Local,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

var defaultGenerator = NewGenerator()

// Generate builds a campaign name with the default generator.
func Generate(input CampaignNameInput) string {
	return defaultGenerator.Generate(input)
}

// Preview renders a partial campaign name with the default generator.
func Preview(input CampaignNameInput) PreviewResult {
	return defaultGenerator.Preview(input)
}

func (g *Generator) today() string {
	return g.clock().In(g.location).Format(dateLayout)
}

// Generate builds the full campaign name. Required fields are expected to have
// been validated by the caller.
func (g *Generator) Generate(input CampaignNameInput) string {
	petitionID := input.PetitionID
	if petitionID == "" {
		petitionID = petitionNone
	}

	parts := []string{
		input.ListAcronym,
		g.today(),
		string(input.Scope),
		TopicCode(input.Topic),
		input.CampaignerInitials,
		petitionID,
		FormatTitle(input.CampaignTitle),
		globalCampaignPart(input.Scope, input.GlobalCampaign),
	}

	return withTypeSuffix(strings.Join(parts, partSeparator), input.CampaignType)
}

// Preview renders the name with placeholders for missing fields. The verdict
// of Validate is only returned once every required field is present.
func (g *Generator) Preview(input CampaignNameInput) (result PreviewResult) {
	defer func() {
		if r := recover(); r != nil {
			result = PreviewResult{
				GeneratedName: "",
				IsValid:       false,
				Errors:        []string{fmt.Sprintf("Error generating name: %v", r)},
			}
		}
	}()

	parts := []string{
		orPlaceholder(input.ListAcronym, PlaceholderList),
		g.today(),
		orPlaceholder(string(input.Scope), PlaceholderScope),
		PlaceholderTopic,
		orPlaceholder(input.CampaignerInitials, PlaceholderInitials),
		orPlaceholder(input.PetitionID, PlaceholderPetitionID),
		PlaceholderTitle,
		PlaceholderGlobal,
	}

	if input.Topic != "" {
		parts[3] = TopicCode(input.Topic)
	}
	if input.CampaignTitle != "" {
		parts[6] = orPlaceholder(FormatTitle(input.CampaignTitle), PlaceholderTitle)
	}
	if global := globalCampaignPart(input.Scope, input.GlobalCampaign); global != "" {
		parts[7] = global
	}

	name := withTypeSuffix(strings.Join(parts, partSeparator), input.CampaignType)

	if !hasRequiredFields(input) {
		return PreviewResult{GeneratedName: name, IsValid: false, Errors: []string{}}
	}

	verdict := Validate(name)
	return PreviewResult{GeneratedName: name, IsValid: verdict.IsValid, Errors: verdict.Errors}
}

// globalCampaignPart resolves the last name segment. Local and International
// scopes override any selected global campaign.
func globalCampaignPart(scope Scope, globalCampaign string) string {
	switch {
	case scope == ScopeLocal || scope == ScopeInternational:
		return string(scope)
	case globalCampaign != "" && globalCampaign != GlobalCampaignNone:
		return globalCampaign
	default:
		return string(scope)
	}
}

func withTypeSuffix(name string, campaignType CampaignType) string {
	if campaignType == CampaignTypeMDFundraiser {
		return name + mdSuffix
	}
	return name
}

func orPlaceholder(value, placeholder string) string {
	if value == "" {
		return placeholder
	}
	return value
}

func hasRequiredFields(input CampaignNameInput) bool {
	return input.ListAcronym != "" &&
		input.Scope != "" &&
		input.Topic != "" &&
		input.CampaignerInitials != "" &&
		input.CampaignTitle != "" &&
		input.GlobalCampaign != ""
}
