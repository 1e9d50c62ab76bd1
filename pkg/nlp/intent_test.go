package nlp

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		text   string
		intent string
	}{
		{"Hello there", IntentGreeting},
		{"hi", IntentGreeting},
		{"What documents do I need for a Student visa in USA", IntentDocumentChecklist},
		{"How much does a work visa cost?", IntentFees},
		{"How long does processing take?", IntentProcessingTime},
		{"Am I eligible for a student visa?", IntentEligibility},
		{"Tell me about the visa for Germany", IntentVisaInfo},
		{"I want to talk to human support", IntentHumanHandoff},
		{"Tell me a joke", IntentGeneralQuery},
	}

	for _, tc := range cases {
		t.Run(tc.text, func(t *testing.T) {
			got := Classify(tc.text)
			assert.Equal(t, tc.intent, got.Intent)
			assert.Greater(t, got.Confidence, float32(0))
		})
	}
}

func TestClassifyIsDeterministic(t *testing.T) {
	first := Classify("what are the visa fees for canada")
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Classify("what are the visa fees for canada"))
	}
}

func TestClassifyDefaultConfidenceIsLow(t *testing.T) {
	got := Classify("completely unrelated text")
	assert.Equal(t, IntentGeneralQuery, got.Intent)
	assert.Less(t, got.Confidence, float32(0.5))
}
