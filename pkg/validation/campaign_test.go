package validation_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mo-amir99/campaign-naming-server-go/internal/naming"
	"github.com/mo-amir99/campaign-naming-server-go/pkg/validation"
)

func validForm() validation.CampaignForm {
	return validation.CampaignForm{
		ListAcronym:    "EN_US",
		Scope:          "Global",
		Topic:          "Life",
		PetitionID:     "4521",
		CampaignTitle:  "Stop the Bill",
		GlobalCampaign: "Defund_UN",
		CampaignType:   "Other",
	}
}

func TestValidateCampaignForm(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*validation.CampaignForm)
		field  string
		msg    string
	}{
		{name: "missing list", mutate: func(f *validation.CampaignForm) { f.ListAcronym = "" }, field: "listAcronym", msg: "List selection is required"},
		{name: "unknown list", mutate: func(f *validation.CampaignForm) { f.ListAcronym = "XX_YY" }, field: "listAcronym", msg: "Unknown list"},
		{name: "missing scope", mutate: func(f *validation.CampaignForm) { f.Scope = "" }, field: "scope", msg: "Scope selection is required"},
		{name: "bad scope", mutate: func(f *validation.CampaignForm) { f.Scope = "Regional" }, field: "scope", msg: "Scope must be one of Global, Local, International"},
		{name: "missing topic", mutate: func(f *validation.CampaignForm) { f.Topic = "" }, field: "topic", msg: "Topic selection is required"},
		{name: "non numeric petition", mutate: func(f *validation.CampaignForm) { f.PetitionID = "12a" }, field: "petitionId", msg: "Petition ID must be numeric"},
		{name: "missing title", mutate: func(f *validation.CampaignForm) { f.CampaignTitle = "" }, field: "campaignTitle", msg: "Campaign title is required"},
		{name: "long title", mutate: func(f *validation.CampaignForm) { f.CampaignTitle = strings.Repeat("a", 31) }, field: "campaignTitle", msg: "Campaign title must be 30 characters or less"},
		{name: "blank title", mutate: func(f *validation.CampaignForm) { f.CampaignTitle = "   " }, field: "campaignTitle", msg: "Campaign title cannot be only spaces"},
		{name: "trailing space", mutate: func(f *validation.CampaignForm) { f.CampaignTitle = "Stop the Bill " }, field: "campaignTitle", msg: "Campaign title cannot end with a space"},
		{name: "missing global campaign", mutate: func(f *validation.CampaignForm) { f.GlobalCampaign = "" }, field: "globalCampaign", msg: "Global Campaign selection is required"},
		{name: "missing type", mutate: func(f *validation.CampaignForm) { f.CampaignType = "" }, field: "campaignType", msg: "Campaign type selection is required"},
		{name: "bad list id", mutate: func(f *validation.CampaignForm) { f.IterableListIDs = []int64{12, 0} }, field: "iterableListIds", msg: "Iterable list ids must be positive"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			form := validForm()
			tt.mutate(&form)

			errs := validation.ValidateCampaignForm(form)
			assert.Len(t, errs, 1)
			assert.Equal(t, tt.msg, errs[tt.field])
		})
	}
}

func TestValidateCampaignForm_Valid(t *testing.T) {
	form := validForm()
	assert.Empty(t, validation.ValidateCampaignForm(form))

	form.PetitionID = ""
	form.CampaignTitle = strings.Repeat("é", 30)
	assert.Empty(t, validation.ValidateCampaignForm(form))
}

func TestCampaignForm_NameInput(t *testing.T) {
	in := validForm().NameInput("JD")

	assert.Equal(t, naming.CampaignNameInput{
		ListAcronym:        "EN_US",
		Scope:              naming.ScopeGlobal,
		Topic:              naming.TopicLife,
		CampaignerInitials: "JD",
		PetitionID:         "4521",
		CampaignTitle:      "Stop the Bill",
		GlobalCampaign:     "Defund_UN",
		CampaignType:       naming.CampaignTypeOther,
	}, in)
}
