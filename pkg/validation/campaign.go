package validation

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf16"

	"github.com/mo-amir99/campaign-naming-server-go/internal/naming"
)

// MaxCampaignTitleLength bounds the raw title a user can submit.
const MaxCampaignTitleLength = 30

var numericRegex = regexp.MustCompile(`^\d+$`)

// CampaignForm is the payload submitted to create or check a campaign.
type CampaignForm struct {
	ListAcronym    string `json:"listAcronym"`
	Scope          string `json:"scope"`
	Topic          string `json:"topic"`
	PetitionID     string `json:"petitionId"`
	CampaignTitle  string `json:"campaignTitle"`
	GlobalCampaign string `json:"globalCampaign"`
	CampaignType   string `json:"campaignType"`
	// IterableListIDs turns the Iterable campaign into a blast send.
	IterableListIDs []int64 `json:"iterableListIds,omitempty"`
}

// NameInput converts the form into generator input for the given campaigner.
func (f CampaignForm) NameInput(initials string) naming.CampaignNameInput {
	return naming.CampaignNameInput{
		ListAcronym:        f.ListAcronym,
		Scope:              naming.Scope(f.Scope),
		Topic:              naming.Topic(f.Topic),
		CampaignerInitials: initials,
		PetitionID:         f.PetitionID,
		CampaignTitle:      f.CampaignTitle,
		GlobalCampaign:     f.GlobalCampaign,
		CampaignType:       naming.CampaignType(f.CampaignType),
	}
}

// ValidateCampaignForm returns field name to message for every invalid field.
// An empty map means the form is acceptable.
func ValidateCampaignForm(form CampaignForm) map[string]string {
	errs := make(map[string]string)

	switch {
	case form.ListAcronym == "":
		errs["listAcronym"] = "List selection is required"
	case !naming.IsKnownList(form.ListAcronym):
		errs["listAcronym"] = "Unknown list"
	}

	switch {
	case form.Scope == "":
		errs["scope"] = "Scope selection is required"
	case !naming.Scope(form.Scope).Valid():
		errs["scope"] = "Scope must be one of Global, Local, International"
	}

	switch {
	case form.Topic == "":
		errs["topic"] = "Topic selection is required"
	case !naming.Topic(form.Topic).Valid():
		errs["topic"] = "Unknown topic"
	}

	if form.PetitionID != "" && !numericRegex.MatchString(form.PetitionID) {
		errs["petitionId"] = "Petition ID must be numeric"
	}

	if msg := validateTitle(form.CampaignTitle); msg != "" {
		errs["campaignTitle"] = msg
	}

	switch {
	case form.GlobalCampaign == "":
		errs["globalCampaign"] = "Global Campaign selection is required"
	case !naming.IsKnownGlobalCampaign(form.GlobalCampaign):
		errs["globalCampaign"] = "Unknown global campaign"
	}

	switch {
	case form.CampaignType == "":
		errs["campaignType"] = "Campaign type selection is required"
	case !naming.CampaignType(form.CampaignType).Valid():
		errs["campaignType"] = "Campaign type must be one of MD_Fundraiser, OTD_Fundraiser, Other"
	}

	for _, id := range form.IterableListIDs {
		if id <= 0 {
			errs["iterableListIds"] = "Iterable list ids must be positive"
			break
		}
	}

	return errs
}

func validateTitle(title string) string {
	if title == "" {
		return "Campaign title is required"
	}
	if len(utf16.Encode([]rune(title))) > MaxCampaignTitleLength {
		return "Campaign title must be 30 characters or less"
	}
	if strings.TrimSpace(title) == "" {
		return "Campaign title cannot be only spaces"
	}
	if last := []rune(title)[len([]rune(title))-1]; unicode.IsSpace(last) {
		return "Campaign title cannot end with a space"
	}
	return ""
}
