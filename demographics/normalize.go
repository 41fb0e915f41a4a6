package demographics

import (
	"strings"
	"unicode"
)

// Sex is the canonical sex category after normalization
type Sex string

const (
	// SexUnspecified means the survey field was empty or absent
	SexUnspecified Sex = ""
	SexMale        Sex = "M"
	SexFemale      Sex = "F"
	SexUnknown     Sex = "Unknown"
)

// Canonical civil status categories. Anything else falls back to the
// operator-entered value with the first letter capitalized.
const (
	CivilSingle    = "Single"
	CivilMarried   = "Married"
	CivilWidowed   = "Widowed"
	CivilSeparated = "Separated"
	CivilLiveIn    = "Live-in"
	CivilDivorced  = "Divorced"
)

// Canonical family planning categories.
const (
	WithFamilyPlanning    = "With Family Planning"
	WithoutFamilyPlanning = "Without Family Planning"
)

// CategoryUnknown is the fallback bucket for absent or empty survey values.
const CategoryUnknown = "Unknown"

// NormalizeSex maps an operator-entered sex value to a canonical category.
// Empty input maps to SexUnspecified so the caller can exclude the record
// from gender counts entirely.
func NormalizeSex(v string) Sex {
	s := strings.ToUpper(strings.TrimSpace(v))
	if s == "" {
		return SexUnspecified
	}
	if strings.HasPrefix(s, "M") {
		return SexMale
	}
	if strings.HasPrefix(s, "F") {
		return SexFemale
	}
	return SexUnknown
}

// NormalizeCivilStatus maps an operator-entered civil status to one of the
// canonical categories. Unrecognized values are kept as-is with the first
// letter capitalized so downstream charts still render them.
func NormalizeCivilStatus(v string) string {
	s := strings.TrimSpace(v)
	if s == "" {
		return CategoryUnknown
	}
	lower := strings.ToLower(s)
	switch {
	case strings.HasPrefix(lower, "single"):
		return CivilSingle
	case strings.HasPrefix(lower, "married"):
		return CivilMarried
	case strings.HasPrefix(lower, "wid"):
		return CivilWidowed
	case strings.HasPrefix(lower, "separ"):
		return CivilSeparated
	case strings.Contains(lower, "live"):
		return CivilLiveIn
	case strings.HasPrefix(lower, "divor"):
		return CivilDivorced
	}
	return capitalizeFirst(s)
}

// withKeywords must be checked before withoutKeywords: "without" contains
// "with", so the order of the two keyword scans decides the result.
var (
	withKeywords    = []string{"yes", "with", "have", "using"}
	withoutKeywords = []string{"no", "none", "not", "without"}
)

// NormalizeFamilyPlanning maps a free-text family planning answer to a
// canonical category.
func NormalizeFamilyPlanning(v string) string {
	s := strings.ToLower(strings.TrimSpace(v))
	if s == "" {
		return CategoryUnknown
	}
	for _, kw := range withKeywords {
		if strings.Contains(s, kw) {
			return WithFamilyPlanning
		}
	}
	for _, kw := range withoutKeywords {
		if strings.Contains(s, kw) {
			return WithoutFamilyPlanning
		}
	}
	return capitalizeFirst(s)
}

// NormalizeFreeText cleans religion, community group and occupation values.
// No categorization, only trimming with an Unknown fallback.
func NormalizeFreeText(v string) string {
	s := strings.TrimSpace(v)
	if s == "" {
		return CategoryUnknown
	}
	return s
}

// NormalizeEducation standardizes educational attainment casing.
func NormalizeEducation(v string) string {
	s := strings.TrimSpace(v)
	if s == "" {
		return CategoryUnknown
	}
	return strings.ToUpper(s)
}

// normalizeKey cleans identifier-like fields (purok, family and household
// numbers). Returns ok=false for absent values so they can be skipped
// instead of polluting the distinct-value sets.
func normalizeKey(v string) (string, bool) {
	s := strings.TrimSpace(v)
	if s == "" {
		return "", false
	}
	return s, true
}

// capitalizeFirst upper-cases the first rune and keeps the rest untouched.
func capitalizeFirst(s string) string {
	if s == "" {
		return s
	}
	runes := []rune(s)
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
