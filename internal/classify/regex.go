package classify

import (
	"regexp"
	"strings"
)

var (
	emailPattern = regexp.MustCompile(`\b[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}\b`)
	// Optional country code, separator-tolerant 3-3-4 digit groups.
	phonePattern = regexp.MustCompile(`\b(?:\+?(\d{1,3}))?[-. (]*(\d{3})[-. )]*(\d{3})[-. ]*(\d{4})\b`)
)

// regexExtract recovers contact fields that the entity tagger cannot see.
// First email match wins; the first phone match is rendered by joining its
// non-empty digit groups with single spaces.
func regexExtract(text string) map[string]string {
	out := map[string]string{}
	if email := emailPattern.FindString(text); email != "" {
		out["Email"] = email
	}
	if groups := phonePattern.FindStringSubmatch(text); groups != nil {
		parts := make([]string, 0, len(groups)-1)
		for _, g := range groups[1:] {
			if g != "" {
				parts = append(parts, g)
			}
		}
		if len(parts) > 0 {
			out["Phone"] = strings.Join(parts, " ")
		}
	}
	return out
}

// fieldForEntityGroup maps tagger entity groups onto candidate record
// fields. Unmapped groups are dropped.
func fieldForEntityGroup(group string) (string, bool) {
	switch strings.ToUpper(group) {
	case "PER", "PERSON":
		return "Name", true
	case "LOC", "GPE":
		return "Location", true
	case "ORG":
		return "Organization", true
	default:
		return "", false
	}
}
