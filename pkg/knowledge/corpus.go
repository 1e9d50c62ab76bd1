package knowledge

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// LoadFile reads a corpus from a JSON file (an array of Document). Callers
// should fall back to DefaultCorpus when this fails; a missing corpus must
// never take the assistant down.
func LoadFile(path string) ([]Document, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read corpus file: %w", err)
	}
	var docs []Document
	if err := json.Unmarshal(raw, &docs); err != nil {
		return nil, fmt.Errorf("parse corpus file: %w", err)
	}
	return docs, nil
}

func verified(year, month, day int) time.Time {
	return time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
}

// DefaultCorpus is the built-in advisory corpus used when no external corpus
// file is configured.
func DefaultCorpus() []Document {
	return []Document{
		{
			ID:       "usa-student-f1",
			Title:    "USA Student Visa (F-1) Overview",
			Country:  "USA",
			VisaType: "Student",
			Content: "The F-1 visa is for academic studies at an accredited US college or university. " +
				"Applicants need an I-20 form from a SEVP-certified school, proof of funds covering tuition and living costs, " +
				"and must pay the SEVIS I-901 fee before the consular interview. Required documents: valid passport, DS-160 confirmation, " +
				"I-20, SEVIS fee receipt, academic transcripts, and evidence of ties to the home country.",
			SourceAuthority: "U.S. Department of State / USCIS",
			LastVerified:    verified(2025, 11, 4),
		},
		{
			ID:       "usa-work-h1b",
			Title:    "USA Work Visa (H-1B) Requirements",
			Country:  "USA",
			VisaType: "Work",
			Content: "The H-1B visa covers specialty occupations requiring at least a bachelor's degree. " +
				"The employer files the petition and the Labor Condition Application; the annual cap lottery runs in March. " +
				"Documents: job offer letter, degree certificates with evaluation, passport, and the approved I-129 petition. " +
				"Registration fees and premium processing fees apply.",
			SourceAuthority: "USCIS",
			LastVerified:    verified(2025, 10, 21),
		},
		{
			ID:       "usa-tourist-b2",
			Title:    "USA Visitor Visa (B-2) Basics",
			Country:  "USA",
			VisaType: "Tourist",
			Content: "The B-2 visa permits tourism and family visits for up to six months. Applicants complete the DS-160, " +
				"pay the MRV application fee, and attend an interview demonstrating nonimmigrant intent. " +
				"Bank statements and an itinerary strengthen the application.",
			SourceAuthority: "U.S. Department of State",
			LastVerified:    verified(2025, 9, 2),
		},
		{
			ID:       "israel-work-b1",
			Title:    "Israel Work Visa (B/1) Process",
			Country:  "Israel",
			VisaType: "Work",
			Content: "A B/1 work visa requires the Israeli employer to obtain a permit from the Ministry of Interior before " +
				"the worker applies at a consulate. Documents: employment contract, medical certificate, police clearance, " +
				"passport photos, and fingerprints. Processing typically takes six to eight weeks after the permit is granted.",
			SourceAuthority: "Israel Ministry of Interior (Population and Immigration Authority)",
			LastVerified:    verified(2025, 11, 18),
		},
		{
			ID:       "israel-student-a2",
			Title:    "Israel Student Visa (A/2) Checklist",
			Country:  "Israel",
			VisaType: "Student",
			Content: "The A/2 visa covers study at recognized Israeli institutions. Required: acceptance letter, proof of financial " +
				"means, health insurance, return ticket, and a passport valid for at least one year beyond the stay. " +
				"The visa is usually issued for one year and is renewable in-country.",
			SourceAuthority: "Israel Ministry of Foreign Affairs",
			LastVerified:    verified(2025, 8, 30),
		},
		{
			ID:       "uk-student",
			Title:    "UK Student Visa Requirements",
			Country:  "UK",
			VisaType: "Student",
			Content: "The UK Student visa needs a Confirmation of Acceptance for Studies (CAS) from a licensed sponsor, " +
				"proof of funds held for 28 consecutive days, English language evidence (IELTS or equivalent), and the " +
				"Immigration Health Surcharge payment. Most decisions arrive within three weeks of the biometric appointment.",
			SourceAuthority: "UK Visas and Immigration (UKVI)",
			LastVerified:    verified(2025, 10, 7),
		},
		{
			ID:       "uk-skilled-worker",
			Title:    "UK Skilled Worker Visa",
			Country:  "UK",
			VisaType: "Work",
			Content: "The Skilled Worker route requires a Certificate of Sponsorship from a licensed employer, a role on the " +
				"eligible occupations list meeting the salary threshold, and English language evidence. Fees vary by visa length; " +
				"the Immigration Health Surcharge is charged per year of the visa.",
			SourceAuthority: "UK Visas and Immigration (UKVI)",
			LastVerified:    verified(2025, 11, 12),
		},
		{
			ID:       "canada-student",
			Title:    "Canada Study Permit Guide",
			Country:  "Canada",
			VisaType: "Student",
			Content: "A Canadian study permit requires a Letter of Acceptance from a Designated Learning Institution, a Provincial " +
				"Attestation Letter where applicable, proof of funds meeting the cost-of-living requirement, and biometrics. " +
				"Most applications are decided within eight weeks.",
			SourceAuthority: "Immigration, Refugees and Citizenship Canada (IRCC)",
			LastVerified:    verified(2025, 9, 25),
		},
		{
			ID:       "canada-express-entry",
			Title:    "Canada Express Entry for Skilled Workers",
			Country:  "Canada",
			VisaType: "Work",
			Content: "Express Entry ranks candidates by the Comprehensive Ranking System using age, education, language test " +
				"results and work experience. An Educational Credential Assessment is required for foreign degrees. " +
				"Invitation rounds run roughly every two weeks; most permanent residence applications complete within six months.",
			SourceAuthority: "Immigration, Refugees and Citizenship Canada (IRCC)",
			LastVerified:    verified(2025, 10, 30),
		},
		{
			ID:       "germany-work-bluecard",
			Title:    "Germany EU Blue Card",
			Country:  "Germany",
			VisaType: "Work",
			Content: "The EU Blue Card for Germany requires a recognized university degree and a job offer meeting the annual " +
				"salary threshold (lower for shortage occupations such as IT and engineering). Documents: degree recognition " +
				"(anabin or ZAB statement), employment contract, and health insurance proof.",
			SourceAuthority: "German Federal Foreign Office",
			LastVerified:    verified(2025, 11, 1),
		},
		{
			ID:       "australia-student-500",
			Title:    "Australia Student Visa (Subclass 500)",
			Country:  "Australia",
			VisaType: "Student",
			Content: "The Subclass 500 visa requires a Confirmation of Enrolment, a Genuine Student statement, Overseas Student " +
				"Health Cover for the full stay, and evidence of financial capacity. English test scores are required for most " +
				"applicants. Apply at least two months before the course starts.",
			SourceAuthority: "Australian Department of Home Affairs",
			LastVerified:    verified(2025, 9, 14),
		},
	}
}
