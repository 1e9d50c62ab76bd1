package nlp

import (
	"regexp"
	"strconv"
	"strings"
)

// Entities holds the structured fields pulled out of a single utterance.
// Unset fields stay at their zero value; extraction failure is not an error.
type Entities struct {
	Country         string `json:"country,omitempty"`
	VisaType        string `json:"visa_type,omitempty"`
	Education       string `json:"education,omitempty"`
	ExperienceYears int    `json:"experience_years,omitempty"`
}

// aliasEntry maps the aliases that may appear in text to a canonical value.
// Single-word aliases are matched against whole tokens so "work" cannot fire
// inside "paperwork"; multi-word aliases are matched as substrings.
type aliasEntry struct {
	aliases   []string
	canonical string
}

var countryAliases = []aliasEntry{
	{[]string{"usa", "u.s.a", "united states", "america", "american"}, "USA"},
	{[]string{"israel", "israeli"}, "Israel"},
	{[]string{"uk", "united kingdom", "britain", "england", "british"}, "UK"},
	{[]string{"canada", "canadian"}, "Canada"},
	{[]string{"germany", "german"}, "Germany"},
	{[]string{"australia", "australian"}, "Australia"},
}

var visaTypeAliases = []aliasEntry{
	{[]string{"student", "study", "studying"}, "Student"},
	{[]string{"work", "working", "employment"}, "Work"},
	{[]string{"tourist", "tourism", "visit", "travel"}, "Tourist"},
	{[]string{"business"}, "Business"},
	{[]string{"dependent", "spouse", "family visa"}, "Dependent"},
}

var educationAliases = []aliasEntry{
	{[]string{"phd", "doctorate", "doctoral"}, "PhD"},
	{[]string{"master", "masters", "msc", "mba"}, "Master's"},
	{[]string{"bachelor", "bachelors", "bsc", "undergraduate"}, "Bachelor's"},
	{[]string{"diploma"}, "Diploma"},
}

var (
	experienceRe = regexp.MustCompile(`(\d{1,2})\s*\+?\s*(?:years?|yrs?)`)
	tokenSplitRe = regexp.MustCompile(`[^a-z0-9.]+`)
)

// Extract pulls structured fields out of raw text by alias matching against
// fixed vocabularies. Fields are extracted independently; one utterance may
// yield several of them.
func Extract(text string) Entities {
	lowered := strings.ToLower(strings.TrimSpace(text))
	tokens := tokenSet(lowered)

	e := Entities{
		Country:   matchAlias(lowered, tokens, countryAliases),
		VisaType:  matchAlias(lowered, tokens, visaTypeAliases),
		Education: matchAlias(lowered, tokens, educationAliases),
	}

	if m := experienceRe.FindStringSubmatch(lowered); m != nil {
		if years, err := strconv.Atoi(m[1]); err == nil {
			e.ExperienceYears = years
		}
	}
	return e
}

func tokenSet(lowered string) map[string]bool {
	set := make(map[string]bool)
	for _, tok := range tokenSplitRe.Split(lowered, -1) {
		tok = strings.Trim(tok, ".")
		if tok != "" {
			set[tok] = true
		}
	}
	return set
}

func matchAlias(lowered string, tokens map[string]bool, table []aliasEntry) string {
	for _, entry := range table {
		for _, alias := range entry.aliases {
			if strings.ContainsRune(alias, ' ') {
				if strings.Contains(lowered, alias) {
					return entry.canonical
				}
				continue
			}
			if tokens[alias] {
				return entry.canonical
			}
		}
	}
	return ""
}
