package naming

// Scope is the geographic or organizational reach of a campaign.
type Scope string

const (
	ScopeGlobal        Scope = "Global"
	ScopeLocal         Scope = "Local"
	ScopeInternational Scope = "International"
)

// Valid reports whether the scope is one of the known values.
func (s Scope) Valid() bool {
	switch s {
	case ScopeGlobal, ScopeLocal, ScopeInternational:
		return true
	}
	return false
}

// Topic is the thematic category of a campaign.
type Topic string

const (
	TopicLife            Topic = "Life"
	TopicFamilyEducation Topic = "Family_Education"
	TopicFreedom         Topic = "Freedom"
	TopicPatriotism      Topic = "Patriotism"
	TopicElectionSeason  Topic = "Election_Season"
	TopicOthers          Topic = "Others"
)

// Valid reports whether the topic is one of the known values.
func (t Topic) Valid() bool {
	_, ok := topicCodes[t]
	return ok
}

// CampaignType classifies what the campaign is for.
type CampaignType string

const (
	CampaignTypeMDFundraiser  CampaignType = "MD_Fundraiser"
	CampaignTypeOTDFundraiser CampaignType = "OTD_Fundraiser"
	CampaignTypeOther         CampaignType = "Other"
)

// Valid reports whether the campaign type is one of the known values.
func (c CampaignType) Valid() bool {
	switch c {
	case CampaignTypeMDFundraiser, CampaignTypeOTDFundraiser, CampaignTypeOther:
		return true
	}
	return false
}

// GlobalCampaignNone marks a campaign that belongs to no umbrella series.
const GlobalCampaignNone = "Local_or_International"

var topicCodes = map[Topic]string{
	TopicLife:            "Life",
	TopicFamilyEducation: "FM",
	TopicFreedom:         "Freedom",
	TopicPatriotism:      "Patriotism",
	TopicElectionSeason:  "Election",
	TopicOthers:          "OT",
}

// TopicCode returns the short code used inside campaign names.
// Unknown topics are returned unchanged.
func TopicCode(topic Topic) string {
	if code, ok := topicCodes[topic]; ok {
		return code
	}
	return string(topic)
}

// ListOption describes an audience list a campaign can target.
type ListOption struct {
	Code        string  `json:"code"`
	DisplayName string  `json:"displayName"`
	CountryCode *string `json:"countryCode"`
}

// Option is a generic value/label pair rendered in form dropdowns.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

func country(code string) *string { return &code }

// Lists is the fixed catalog of audience lists.
var Lists = []ListOption{
	{Code: "DE_AT", DisplayName: "DE AT", CountryCode: country("AT")},
	{Code: "DE_CH", DisplayName: "DE CH", CountryCode: country("CH")},
	{Code: "DE", DisplayName: "DE", CountryCode: country("DE")},
	{Code: "EN_ROW", DisplayName: "EN ROW"},
	{Code: "EN_AU", DisplayName: "EN AU", CountryCode: country("AU")},
	{Code: "EN_AF", DisplayName: "EN AF", CountryCode: country("AF")},
	{Code: "EN_CA", DisplayName: "EN CA", CountryCode: country("CA")},
	{Code: "EN_GB", DisplayName: "EN GB", CountryCode: country("GB")},
	{Code: "EN_IE", DisplayName: "EN IE", CountryCode: country("IE")},
	{Code: "EN_US", DisplayName: "EN US", CountryCode: country("US")},
	{Code: "ES_ROW", DisplayName: "ES ROW"},
	{Code: "ES_AR", DisplayName: "ES AR", CountryCode: country("AR")},
	{Code: "ES_MX", DisplayName: "ES MX", CountryCode: country("MX")},
	{Code: "ES_US", DisplayName: "ES US", CountryCode: country("US")},
	{Code: "FR_FR", DisplayName: "FR FR", CountryCode: country("FR")},
	{Code: "FR_CA", DisplayName: "FR CA", CountryCode: country("CA")},
	{Code: "HO", DisplayName: "HO (Spanish-Spain)", CountryCode: country("ES")},
	{Code: "HR", DisplayName: "HR", CountryCode: country("HR")},
	{Code: "HU", DisplayName: "HU", CountryCode: country("HU")},
	{Code: "IT", DisplayName: "IT", CountryCode: country("IT")},
	{Code: "NL", DisplayName: "NL", CountryCode: country("NL")},
	{Code: "PL", DisplayName: "PL", CountryCode: country("PL")},
	{Code: "PT", DisplayName: "PT", CountryCode: country("PT")},
	{Code: "PT_BR", DisplayName: "PT BR", CountryCode: country("BR")},
	{Code: "PT_PT", DisplayName: "PT PT", CountryCode: country("PT")},
	{Code: "RU", DisplayName: "RU", CountryCode: country("RU")},
	{Code: "SK", DisplayName: "SK", CountryCode: country("SK")},
	{Code: "TL", DisplayName: "TL"},
	{Code: "VLS", DisplayName: "VLS"},
}

// Scopes lists the selectable scopes.
var Scopes = []Option{
	{Value: string(ScopeGlobal), Label: "Global"},
	{Value: string(ScopeLocal), Label: "Local"},
	{Value: string(ScopeInternational), Label: "International"},
}

// Topics lists the selectable topics.
var Topics = []Option{
	{Value: string(TopicLife), Label: "Life"},
	{Value: string(TopicFamilyEducation), Label: "Family & Education"},
	{Value: string(TopicFreedom), Label: "Freedom"},
	{Value: string(TopicPatriotism), Label: "Patriotism"},
	{Value: string(TopicElectionSeason), Label: "Election Season"},
	{Value: string(TopicOthers), Label: "Others"},
}

// GlobalCampaigns lists the umbrella campaign series.
var GlobalCampaigns = []Option{
	{Value: GlobalCampaignNone, Label: "Local or International"},
	{Value: "Reject_EVC", Label: "Reject EVC"},
	{Value: "Abolish_DSA_Bill", Label: "Abolish DSA Bill"},
	{Value: "Pandemic_Treaty13th", Label: "Pandemic Treaty13th"},
	{Value: "CitizenGO_vs_French_State", Label: "CitizenGO vs French State"},
	{Value: "Expand_MD", Label: "Expand MD"},
	{Value: "No_Digital_Euro_2", Label: "No Digital Euro 2"},
	{Value: "Work_with_us", Label: "Work with us"},
	{Value: "Olympics_Christian_Lawsuit", Label: "Olympics Christian Lawsuit"},
	{Value: "Pandemic_Treaty_Final_Stretch_2025", Label: "Pandemic Treaty Final Stretch 2025"},
	{Value: "Eduard_acquittal", Label: "Eduard acquittal"},
	{Value: "OAS_2025", Label: "OAS 2025"},
	{Value: "Survey_Pandemic_Treaty_Donors", Label: "Survey Pandemic Treaty Donors"},
	{Value: "Survey_Pandemic_Treaty_non_donors", Label: "Survey Pandemic Treaty non donors"},
	{Value: "Apple_TV_Eucharistic_desecration", Label: "Apple TV Eucharistic desecration"},
	{Value: "Second_Half", Label: "Second Half"},
	{Value: "Court_DSA", Label: "Court DSA"},
	{Value: "Defund_UN", Label: "Defund UN"},
	{Value: "Financial_Statements", Label: "Financial Statements"},
}

// CampaignTypes lists the selectable campaign types.
var CampaignTypes = []Option{
	{Value: string(CampaignTypeMDFundraiser), Label: "MD Fundraiser"},
	{Value: string(CampaignTypeOTDFundraiser), Label: "OTD Fundraiser"},
	{Value: string(CampaignTypeOther), Label: "Other"},
}

// IsKnownList reports whether code is in the list catalog.
func IsKnownList(code string) bool {
	for _, list := range Lists {
		if list.Code == code {
			return true
		}
	}
	return false
}

// IsKnownGlobalCampaign reports whether value is in the global campaign catalog.
func IsKnownGlobalCampaign(value string) bool {
	for _, option := range GlobalCampaigns {
		if option.Value == value {
			return true
		}
	}
	return false
}
