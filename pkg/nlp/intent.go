// Package nlp provides the rule-based language understanding used by the
// assistant: intent classification and entity extraction. Both are pure
// functions of the input text so they can be tested in isolation and never
// depend on session state.
package nlp

import "strings"

// Intent labels produced by the classifier.
const (
	IntentGreeting          = "greeting"
	IntentVisaInfo          = "visa_info"
	IntentDocumentChecklist = "document_checklist"
	IntentFees              = "fees"
	IntentProcessingTime    = "processing_time"
	IntentEligibility       = "eligibility"
	IntentHumanHandoff      = "human_handoff"
	IntentGeneralQuery      = "general_query"
)

// Classification is the classifier output: a label plus a fixed confidence
// attached to the rule that fired.
type Classification struct {
	Intent     string  `json:"intent"`
	Confidence float32 `json:"confidence"`
}

// intentRule pairs a predicate over the lowercased text with the label and
// confidence it yields. Rules are evaluated top to bottom; first match wins.
type intentRule struct {
	match      func(string) bool
	intent     string
	confidence float32
}

func containsAny(keywords ...string) func(string) bool {
	return func(text string) bool {
		for _, kw := range keywords {
			if strings.Contains(text, kw) {
				return true
			}
		}
		return false
	}
}

// intentRules is the ordered matching table. More specific intents sit above
// broader ones: "visa fees" must classify as fees, not visa_info, so the
// fees rule comes first.
var intentRules = []intentRule{
	{containsAny("talk to human", "human agent", "real person", "speak to someone", "live agent"), IntentHumanHandoff, 0.95},
	{containsAny("document", "checklist", "papers", "paperwork", "what do i need to submit"), IntentDocumentChecklist, 0.9},
	{containsAny("fee", "fees", "cost", "price", "how much", "charges"), IntentFees, 0.9},
	{containsAny("how long", "processing time", "duration", "when will", "timeline"), IntentProcessingTime, 0.85},
	{containsAny("eligible", "eligibility", "qualify", "can i apply", "am i allowed"), IntentEligibility, 0.85},
	{containsAny("visa", "permit", "immigration"), IntentVisaInfo, 0.8},
	{containsAny("hello", " hi ", " hey ", "good morning", "good afternoon", "good evening"), IntentGreeting, 0.9},
}

const defaultConfidence = 0.4

// Classify maps raw text to an intent with a confidence score.
func Classify(text string) Classification {
	// Pad so word-boundary-ish rules like "hi " match a bare "hi".
	lowered := " " + strings.ToLower(strings.TrimSpace(text)) + " "

	for _, rule := range intentRules {
		if rule.match(lowered) {
			return Classification{Intent: rule.intent, Confidence: rule.confidence}
		}
	}
	return Classification{Intent: IntentGeneralQuery, Confidence: defaultConfidence}
}
