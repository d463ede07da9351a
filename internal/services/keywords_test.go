package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractKeywordsFindsCuratedAndPatternTerms(t *testing.T) {
	keywords := extractKeywords("Built CI with Jenkins, deployed to Kubernetes on AWS. Machine learning pipelines in Python.")

	for _, want := range []string{"python", "aws", "kubernetes", "jenkins", "machine learning"} {
		assert.Contains(t, keywords, want)
	}
	assert.NotContains(t, keywords, "on", "single-pass words shorter than two chars or absent stay out")
}

func TestExtractKeywordsEmptyText(t *testing.T) {
	assert.Empty(t, extractKeywords(""))
}

func TestExtractKeyTermsCuratedFirst(t *testing.T) {
	terms := extractKeyTerms("We need Python and AWS. Kafka Kafka Kafka experience required required.", 20)

	// Curated vocabulary leads regardless of frequency.
	assert.Equal(t, "python", terms[0])
	assert.Equal(t, "aws", terms[1])
	assert.Contains(t, terms, "kafka")

	// Frequency ranks the rest: kafka (3) before required (2).
	kafkaIdx, requiredIdx := -1, -1
	for i, term := range terms {
		switch term {
		case "kafka":
			kafkaIdx = i
		case "required":
			requiredIdx = i
		}
	}
	assert.Less(t, kafkaIdx, requiredIdx)
}

func TestExtractKeyTermsSkipsStopWords(t *testing.T) {
	terms := extractKeyTerms("the the the and and for with kafka", 20)

	assert.NotContains(t, terms, "the")
	assert.NotContains(t, terms, "and")
	assert.Contains(t, terms, "kafka")
}

func TestExtractKeyTermsRespectsLimit(t *testing.T) {
	terms := extractKeyTerms("alpha beta gamma delta epsilon zeta eta theta", 3)
	assert.Len(t, terms, 3)
}

func TestExtractYears(t *testing.T) {
	tests := []struct {
		text string
		want int
	}{
		{"8+ years of Go, 3 years of Rust", 8},
		{"2 yrs experience", 2},
		{"no experience figures here", 0},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, extractYears(tt.text), tt.text)
	}
}
