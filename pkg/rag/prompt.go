package rag

import (
	"fmt"
	"strings"

	"recruit-assist-be/pkg/knowledge"
	"recruit-assist-be/pkg/store"
)

// buildGroundedPrompt assembles the completion prompt: applicant profile,
// retrieved reference material and the user's question, with strict
// grounding instructions so the model stays inside the corpus.
func buildGroundedPrompt(query string, docs []knowledge.Document, profile store.Profile) string {
	var prompt strings.Builder

	prompt.WriteString("<system>\n")
	prompt.WriteString("You are a recruitment platform assistant advising candidates on visas and relocation.\n")
	prompt.WriteString("Answer ONLY from the reference material below. Do not invent requirements, fees or timelines.\n")
	prompt.WriteString("If the material does not cover the question, say so and suggest requesting a human agent.\n")
	prompt.WriteString("</system>\n\n")

	if hasProfile(profile) {
		prompt.WriteString("<applicant_profile>\n")
		if profile.Name != "" {
			prompt.WriteString(fmt.Sprintf("Name: %s\n", profile.Name))
		}
		if profile.TargetCountry != "" {
			prompt.WriteString(fmt.Sprintf("Target country: %s\n", profile.TargetCountry))
		}
		if profile.VisaType != "" {
			prompt.WriteString(fmt.Sprintf("Visa type of interest: %s\n", profile.VisaType))
		}
		if profile.EducationLevel != "" {
			prompt.WriteString(fmt.Sprintf("Education: %s\n", profile.EducationLevel))
		}
		if profile.WorkExperienceYears > 0 {
			prompt.WriteString(fmt.Sprintf("Work experience: %d years\n", profile.WorkExperienceYears))
		}
		prompt.WriteString("</applicant_profile>\n\n")
	}

	if len(docs) > 0 {
		prompt.WriteString("<reference_material>\n")
		for _, doc := range docs {
			prompt.WriteString(fmt.Sprintf("\n--- %s (%s, verified %s) ---\n", doc.Title, doc.SourceAuthority, doc.LastVerified.Format("2006-01-02")))
			prompt.WriteString(doc.Content)
			prompt.WriteString("\n")
		}
		prompt.WriteString("</reference_material>\n\n")
	} else {
		prompt.WriteString("<reference_material>\n(no matching documents)\n</reference_material>\n\n")
	}

	prompt.WriteString("<task>\n")
	prompt.WriteString("Answer the question below in 2-4 sentences, citing the source authority when you state a requirement.\n")
	prompt.WriteString("</task>\n\n")
	prompt.WriteString(fmt.Sprintf("Question: %s", query))

	return prompt.String()
}

func hasProfile(p store.Profile) bool {
	return p.Name != "" || p.TargetCountry != "" || p.VisaType != "" ||
		p.EducationLevel != "" || p.WorkExperienceYears > 0
}
