package naming

import "strings"

// MaxNameLength is the longest campaign name accepted by Validate.
const MaxNameLength = 200

// Violation messages reported by Validate.
const (
	ErrMsgEmpty                 = "Campaign name cannot be empty"
	ErrMsgInvalidCharacters     = "Campaign name contains invalid characters"
	ErrMsgTooLong               = "Campaign name is too long"
	ErrMsgConsecutiveSeparators = "Campaign name contains consecutive separators"
)

// ValidationResult is the verdict for a single campaign name.
type ValidationResult struct {
	IsValid bool     `json:"isValid"`
	Errors  []string `json:"errors"`
}

// Validate checks a campaign name against the naming policy. All violations
// are collected; an empty name only reports that it is empty.
func Validate(name string) ValidationResult {
	errs := make([]string, 0, 3)

	if name == "" {
		errs = append(errs, ErrMsgEmpty)
		return ValidationResult{IsValid: false, Errors: errs}
	}

	for _, r := range name {
		if !isNameRune(r) {
			errs = append(errs, ErrMsgInvalidCharacters)
			break
		}
	}

	if codeUnitLen(name) > MaxNameLength {
		errs = append(errs, ErrMsgTooLong)
	}

	if strings.Contains(name, "--") || strings.Contains(name, "__") {
		errs = append(errs, ErrMsgConsecutiveSeparators)
	}

	return ValidationResult{IsValid: len(errs) == 0, Errors: errs}
}
