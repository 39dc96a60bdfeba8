package asana

import (
	"fmt"
	"strings"
)

// Env keys of the custom field gids, in the order they are documented.
var FieldEnvKeys = []string{
	"ASANA_FIELD_CITIZENGO_LIST",
	"ASANA_FIELD_SCOPE",
	"ASANA_FIELD_CAMPAIGN_NAME",
	"ASANA_FIELD_TOPIC",
	"ASANA_FIELD_GLOBAL_CAMPAIGN",
	"ASANA_FIELD_PETITION_ID",
	"ASANA_FIELD_CAMPAIGN_TYPE",
}

var fieldMatchers = map[string]func(name string) bool{
	"ASANA_FIELD_CITIZENGO_LIST": func(n string) bool {
		return strings.Contains(n, "citizengo") || strings.Contains(n, "list")
	},
	"ASANA_FIELD_SCOPE": func(n string) bool {
		return strings.Contains(n, "scope")
	},
	"ASANA_FIELD_CAMPAIGN_NAME": func(n string) bool {
		return strings.Contains(n, "campaign") && strings.Contains(n, "name")
	},
	"ASANA_FIELD_TOPIC": func(n string) bool {
		return strings.Contains(n, "topic")
	},
	"ASANA_FIELD_GLOBAL_CAMPAIGN": func(n string) bool {
		return strings.Contains(n, "global") && strings.Contains(n, "campaign")
	},
	"ASANA_FIELD_PETITION_ID": func(n string) bool {
		return strings.Contains(n, "petition") || (strings.Contains(n, "id") && strings.Contains(n, "number"))
	},
	"ASANA_FIELD_CAMPAIGN_TYPE": func(n string) bool {
		return strings.Contains(n, "campaign") && strings.Contains(n, "type")
	},
}

// SuggestFieldMappings guesses which project field backs each env key from
// the field names. Keys without a candidate map to nil.
func SuggestFieldMappings(fields []CustomField) map[string]*string {
	suggestions := make(map[string]*string, len(FieldEnvKeys))
	for _, key := range FieldEnvKeys {
		suggestions[key] = nil
		match := fieldMatchers[key]
		for _, field := range fields {
			if match(strings.ToLower(field.Name)) {
				gid := field.GID
				suggestions[key] = &gid
				break
			}
		}
	}
	return suggestions
}

// EnvConfig renders a .env snippet for the suggested mappings.
func EnvConfig(accessToken, projectID, chatURL string, mappings map[string]*string) string {
	if accessToken == "" {
		accessToken = "your-access-token"
	}
	if projectID == "" {
		projectID = "your-project-gid"
	}

	var b strings.Builder
	b.WriteString("# Add these to your .env file:\n")
	fmt.Fprintf(&b, "ASANA_ACCESS_TOKEN=%q\n", accessToken)
	fmt.Fprintf(&b, "ASANA_PROJECT_ID=%q\n", projectID)
	b.WriteString("\n# Custom Field GIDs (auto-detected):\n")
	for _, key := range FieldEnvKeys {
		value := "field-not-found"
		if gid := mappings[key]; gid != nil {
			value = *gid
		}
		fmt.Fprintf(&b, "%s=%q\n", key, value)
	}
	b.WriteString("\n# Google Chat (optional):\n")
	fmt.Fprintf(&b, "GOOGLE_CHAT_WEBHOOK_URL=%q", chatURL)
	return b.String()
}
