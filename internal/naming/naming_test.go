package naming_test

import (
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mo-amir99/campaign-naming-server-go/internal/naming"
)

func fixedClock(t time.Time) naming.Clock {
	return func() time.Time { return t }
}

func newTestGenerator() *naming.Generator {
	return naming.NewGenerator(
		naming.WithClock(fixedClock(time.Date(2025, time.March, 7, 10, 0, 0, 0, time.UTC))),
		naming.WithLocation(time.UTC),
	)
}

func completeInput() naming.CampaignNameInput {
	return naming.CampaignNameInput{
		ListAcronym:        "EN_US",
		Scope:              naming.ScopeGlobal,
		Topic:              naming.TopicFamilyEducation,
		CampaignerInitials: "JDS",
		PetitionID:         "12345",
		CampaignTitle:      "Save The Whales Today!!",
		GlobalCampaign:     "Defund_UN",
	}
}

func TestExtractInitials(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "empty", in: "", want: "NA"},
		{name: "three words", in: "Ana María Ruiz", want: "AMR"},
		{name: "whitespace runs", in: "  john  doe\tsmith ", want: "JDS"},
		{name: "single word", in: "madonna", want: "M"},
		{name: "non ascii first letter", in: "élodie durand", want: "ÉD"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, naming.ExtractInitials(tt.in))
		})
	}
}

func TestFormatTitle(t *testing.T) {
	t.Run("strips special characters", func(t *testing.T) {
		assert.Equal(t, "Save_The_Whales_Today", naming.FormatTitle("Save The Whales Today!!"))
	})

	t.Run("empty input", func(t *testing.T) {
		assert.Equal(t, "", naming.FormatTitle(""))
	})

	t.Run("collapses whitespace runs", func(t *testing.T) {
		assert.Equal(t, "Stop_the_Bill", naming.FormatTitle("Stop   the \t Bill"))
	})

	t.Run("keeps hyphens and underscores", func(t *testing.T) {
		assert.Equal(t, "Pro-Life_March", naming.FormatTitle("Pro-Life_March"))
	})

	t.Run("space at truncation boundary", func(t *testing.T) {
		title := strings.Repeat("a", 29) + " " + "bcdef"
		require.Equal(t, 35, len(title))

		got := naming.FormatTitle(title)
		assert.False(t, strings.HasSuffix(got, "_"))
		assert.LessOrEqual(t, len(got), naming.MaxTitleLength)
		assert.Equal(t, strings.Repeat("a", 29), got)
	})

	t.Run("truncates before sanitizing", func(t *testing.T) {
		title := strings.Repeat("é", 10) + strings.Repeat("b", 25)
		assert.Equal(t, strings.Repeat("b", 20), naming.FormatTitle(title))
	})

	t.Run("does not split multibyte runes", func(t *testing.T) {
		title := strings.Repeat("x", 29) + "😀tail"
		got := naming.FormatTitle(title)
		assert.True(t, utf8.ValidString(got))
		assert.Equal(t, strings.Repeat("x", 29), got)
	})
}

func TestTopicCode(t *testing.T) {
	tests := map[naming.Topic]string{
		naming.TopicLife:            "Life",
		naming.TopicFamilyEducation: "FM",
		naming.TopicFreedom:         "Freedom",
		naming.TopicPatriotism:      "Patriotism",
		naming.TopicElectionSeason:  "Election",
		naming.TopicOthers:          "OT",
		naming.Topic("Ecology"):     "Ecology",
	}

	for topic, want := range tests {
		assert.Equal(t, want, naming.TopicCode(topic), "topic %s", topic)
	}
}

func TestGenerator_Generate(t *testing.T) {
	gen := newTestGenerator()

	t.Run("assembles all parts", func(t *testing.T) {
		got := gen.Generate(completeInput())
		assert.Equal(t, "EN_US-2025-03-07-Global-FM-JDS-12345-Save_The_Whales_Today-Defund_UN", got)
	})

	t.Run("missing petition id", func(t *testing.T) {
		in := completeInput()
		in.PetitionID = ""
		assert.Equal(t, "EN_US-2025-03-07-Global-FM-JDS-NA-Save_The_Whales_Today-Defund_UN", gen.Generate(in))
	})

	t.Run("local scope overrides global campaign", func(t *testing.T) {
		in := completeInput()
		in.Scope = naming.ScopeLocal
		got := gen.Generate(in)

		parts := strings.Split(got, "-")
		assert.Equal(t, "Local", parts[len(parts)-1])
	})

	t.Run("international scope overrides global campaign", func(t *testing.T) {
		in := completeInput()
		in.Scope = naming.ScopeInternational
		assert.True(t, strings.HasSuffix(gen.Generate(in), "-International"))
	})

	t.Run("sentinel falls back to scope", func(t *testing.T) {
		in := completeInput()
		in.GlobalCampaign = naming.GlobalCampaignNone
		assert.True(t, strings.HasSuffix(gen.Generate(in), "-Save_The_Whales_Today-Global"))
	})

	t.Run("md fundraiser suffix", func(t *testing.T) {
		in := completeInput()
		in.CampaignType = naming.CampaignTypeMDFundraiser
		got := gen.Generate(in)
		assert.True(t, strings.HasSuffix(got, "-Defund_UN_MD"))
	})

	t.Run("other types have no suffix", func(t *testing.T) {
		in := completeInput()
		in.CampaignType = naming.CampaignTypeOTDFundraiser
		assert.False(t, strings.HasSuffix(gen.Generate(in), "_MD"))
	})

	t.Run("idempotent on the same day", func(t *testing.T) {
		assert.Equal(t, gen.Generate(completeInput()), gen.Generate(completeInput()))
	})

	t.Run("date follows the generator location", func(t *testing.T) {
		lateUTC := time.Date(2025, time.March, 7, 23, 30, 0, 0, time.UTC)
		shifted := naming.NewGenerator(
			naming.WithClock(fixedClock(lateUTC)),
			naming.WithLocation(time.FixedZone("UTC+2", 2*60*60)),
		)
		assert.Contains(t, shifted.Generate(completeInput()), "-2025-03-08-")
	})

	t.Run("clock is read on every call", func(t *testing.T) {
		day := time.Date(2025, time.March, 7, 12, 0, 0, 0, time.UTC)
		ticking := naming.NewGenerator(
			naming.WithClock(func() time.Time {
				current := day
				day = day.AddDate(0, 0, 1)
				return current
			}),
			naming.WithLocation(time.UTC),
		)
		assert.Contains(t, ticking.Generate(completeInput()), "-2025-03-07-")
		assert.Contains(t, ticking.Generate(completeInput()), "-2025-03-08-")
	})
}

func TestGenerator_Generate_ProducesValidNames(t *testing.T) {
	gen := newTestGenerator()
	campaignTypes := append([]naming.Option{{}}, naming.CampaignTypes...)

	for _, list := range naming.Lists {
		for _, scope := range naming.Scopes {
			for _, topic := range naming.Topics {
				for _, global := range naming.GlobalCampaigns {
					for _, campaignType := range campaignTypes {
						name := gen.Generate(naming.CampaignNameInput{
							ListAcronym:        list.Code,
							Scope:              naming.Scope(scope.Value),
							Topic:              naming.Topic(topic.Value),
							CampaignerInitials: "AB",
							PetitionID:         "987",
							CampaignTitle:      "Protect Families 2025",
							GlobalCampaign:     global.Value,
							CampaignType:       naming.CampaignType(campaignType.Value),
						})

						result := naming.Validate(name)
						if !assert.True(t, result.IsValid, "name %q: %v", name, result.Errors) {
							return
						}
					}
				}
			}
		}
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{name: "valid", input: "EN_US-2025-03-07-Global-FM-JDS-NA-Title-Global", want: []string{}},
		{name: "empty", input: "", want: []string{naming.ErrMsgEmpty}},
		{name: "double hyphen", input: "AB--CD", want: []string{naming.ErrMsgConsecutiveSeparators}},
		{name: "double underscore", input: "AB__CD", want: []string{naming.ErrMsgConsecutiveSeparators}},
		{name: "invalid characters", input: "AB CD!", want: []string{naming.ErrMsgInvalidCharacters}},
		{name: "too long", input: strings.Repeat("a", 201), want: []string{naming.ErrMsgTooLong}},
		{name: "exactly max length", input: strings.Repeat("a", 200), want: []string{}},
		{
			name:  "all violations collected",
			input: "a b--" + strings.Repeat("c", 200),
			want: []string{
				naming.ErrMsgInvalidCharacters,
				naming.ErrMsgTooLong,
				naming.ErrMsgConsecutiveSeparators,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := naming.Validate(tt.input)
			require.NotNil(t, result.Errors)
			assert.Equal(t, tt.want, result.Errors)
			assert.Equal(t, len(tt.want) == 0, result.IsValid)
		})
	}
}

func TestGenerator_Preview(t *testing.T) {
	gen := newTestGenerator()

	t.Run("empty input renders every placeholder", func(t *testing.T) {
		result := gen.Preview(naming.CampaignNameInput{})

		assert.Equal(t, "[List]-2025-03-07-[Scope]-[Topic]-[Initials]-[PetitionID]-[Title]-[Global]", result.GeneratedName)
		assert.False(t, result.IsValid)
		require.NotNil(t, result.Errors)
		assert.Empty(t, result.Errors)
	})

	t.Run("partial input fills known parts", func(t *testing.T) {
		result := gen.Preview(naming.CampaignNameInput{
			ListAcronym: "DE",
			Topic:       naming.TopicOthers,
		})

		assert.Equal(t, "DE-2025-03-07-[Scope]-OT-[Initials]-[PetitionID]-[Title]-[Global]", result.GeneratedName)
		assert.False(t, result.IsValid)
		assert.Empty(t, result.Errors)
	})

	t.Run("scope resolves global part", func(t *testing.T) {
		result := gen.Preview(naming.CampaignNameInput{Scope: naming.ScopeLocal, GlobalCampaign: "Defund_UN"})
		assert.True(t, strings.HasSuffix(result.GeneratedName, "-[Title]-Local"))
	})

	t.Run("global campaign without scope", func(t *testing.T) {
		result := gen.Preview(naming.CampaignNameInput{GlobalCampaign: "Court_DSA"})
		assert.True(t, strings.HasSuffix(result.GeneratedName, "-Court_DSA"))
	})

	t.Run("sentinel without scope keeps placeholder", func(t *testing.T) {
		result := gen.Preview(naming.CampaignNameInput{GlobalCampaign: naming.GlobalCampaignNone})
		assert.True(t, strings.HasSuffix(result.GeneratedName, "-"+naming.PlaceholderGlobal))
	})

	t.Run("title that sanitizes to nothing keeps placeholder", func(t *testing.T) {
		result := gen.Preview(naming.CampaignNameInput{CampaignTitle: "!!!"})
		assert.Contains(t, result.GeneratedName, "-"+naming.PlaceholderTitle+"-")
	})

	t.Run("md fundraiser suffix on partial input", func(t *testing.T) {
		result := gen.Preview(naming.CampaignNameInput{CampaignType: naming.CampaignTypeMDFundraiser})
		assert.True(t, strings.HasSuffix(result.GeneratedName, "[Global]_MD"))
	})

	t.Run("complete input is validated", func(t *testing.T) {
		result := gen.Preview(completeInput())

		assert.Equal(t, gen.Generate(completeInput()), result.GeneratedName)
		assert.True(t, result.IsValid)
		assert.Empty(t, result.Errors)
	})

	t.Run("complete input without petition keeps placeholder and fails validation", func(t *testing.T) {
		in := completeInput()
		in.PetitionID = ""
		result := gen.Preview(in)

		assert.Contains(t, result.GeneratedName, "-[PetitionID]-")
		assert.False(t, result.IsValid)
		assert.Equal(t, []string{naming.ErrMsgInvalidCharacters}, result.Errors)
	})

	t.Run("assembly failure is reported as an error", func(t *testing.T) {
		broken := naming.NewGenerator(naming.WithClock(func() time.Time {
			panic("clock unavailable")
		}))

		result := broken.Preview(completeInput())
		assert.Equal(t, "", result.GeneratedName)
		assert.False(t, result.IsValid)
		assert.Equal(t, []string{"Error generating name: clock unavailable"}, result.Errors)
	})
}

func TestCatalog(t *testing.T) {
	assert.True(t, naming.IsKnownList("EN_US"))
	assert.False(t, naming.IsKnownList("XX"))
	assert.True(t, naming.IsKnownGlobalCampaign(naming.GlobalCampaignNone))
	assert.False(t, naming.IsKnownGlobalCampaign("Unknown_Campaign"))

	assert.True(t, naming.ScopeInternational.Valid())
	assert.False(t, naming.Scope("Regional").Valid())
	assert.True(t, naming.TopicElectionSeason.Valid())
	assert.False(t, naming.Topic("Ecology").Valid())
	assert.True(t, naming.CampaignTypeOther.Valid())
	assert.False(t, naming.CampaignType("Newsletter").Valid())

	for _, option := range naming.Topics {
		assert.True(t, naming.Topic(option.Value).Valid(), "topic option %s", option.Value)
	}
}
