package services

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// techKeywords is the curated vocabulary checked by substring, which
// also catches multi-word terms the token pass splits apart.
var techKeywords = []string{
	"python", "java", "javascript", "sql", "aws", "azure", "docker",
	"kubernetes", "react", "node", "machine learning", "ai", "data",
	"cloud", "devops", "agile", "api", "database", "frontend", "backend",
}

// techPatterns catches languages, frameworks, datastores, cloud and
// collaboration tooling the token pass alone would miss.
var techPatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b(python|java|javascript|typescript|c\+\+|c#|ruby|go|rust|swift|kotlin)\b`),
	regexp.MustCompile(`\b(react|angular|vue|django|flask|spring|express|fastapi)\b`),
	regexp.MustCompile(`\b(sql|mysql|postgresql|mongodb|redis|elasticsearch)\b`),
	regexp.MustCompile(`\b(aws|azure|gcp|docker|kubernetes|jenkins|terraform)\b`),
	regexp.MustCompile(`\b(git|github|gitlab|bitbucket|jira|confluence)\b`),
}

var (
	wordPattern        = regexp.MustCompile(`\b[a-z0-9+#]{2,}\b`)
	keyTermWordPattern = regexp.MustCompile(`\b[a-z]{3,}\b`)
	yearsPattern       = regexp.MustCompile(`(\d+)\+?\s*(?:years?|yrs?)`)
)

// keyTermStopWords are frequent words excluded from frequency ranking.
var keyTermStopWords = map[string]bool{
	"the": true, "and": true, "for": true, "with": true, "this": true,
	"that": true, "from": true, "have": true, "will": true, "are": true,
	"was": true,
}

// extractKeywords returns the set of technical terms found in text:
// every token matching wordPattern, plus curated keywords found by
// substring, plus pattern family hits.
func extractKeywords(text string) map[string]bool {
	lower := strings.ToLower(text)

	found := map[string]bool{}
	for _, w := range wordPattern.FindAllString(lower, -1) {
		found[w] = true
	}

	for _, kw := range techKeywords {
		if strings.Contains(lower, kw) {
			found[kw] = true
		}
	}

	for _, pattern := range techPatterns {
		for _, m := range pattern.FindAllString(lower, -1) {
			found[m] = true
		}
	}

	return found
}

// extractKeyTerms distills a job description into at most maxTerms
// terms for the LLM scoring prompt: curated tech keywords first, then
// remaining words ranked by frequency.
func extractKeyTerms(text string, maxTerms int) []string {
	lower := strings.ToLower(text)

	var found []string
	seen := map[string]bool{}
	for _, kw := range techKeywords {
		if strings.Contains(lower, kw) {
			found = append(found, kw)
			seen[kw] = true
		}
	}

	freq := map[string]int{}
	var order []string
	for _, w := range keyTermWordPattern.FindAllString(lower, -1) {
		if keyTermStopWords[w] {
			continue
		}
		if freq[w] == 0 {
			order = append(order, w)
		}
		freq[w]++
	}

	// Stable sort keeps first-occurrence order among equal frequencies.
	sort.SliceStable(order, func(i, j int) bool {
		return freq[order[i]] > freq[order[j]]
	})

	if len(order) > maxTerms {
		order = order[:maxTerms]
	}
	for _, w := range order {
		if !seen[w] {
			found = append(found, w)
			seen[w] = true
		}
	}

	if len(found) > maxTerms {
		found = found[:maxTerms]
	}
	return found
}

// extractYears returns the largest explicit experience figure in text,
// or 0 when none is stated.
func extractYears(text string) int {
	lower := strings.ToLower(text)

	maxYears := 0
	for _, m := range yearsPattern.FindAllStringSubmatch(lower, -1) {
		years, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		if years > maxYears {
			maxYears = years
		}
	}
	return maxYears
}

// sortedIntersection returns the elements of a present in b, sorted.
func sortedIntersection(a, b map[string]bool) []string {
	var out []string
	for k := range a {
		if b[k] {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}

// sortedDifference returns the elements of a absent from b, sorted.
func sortedDifference(a, b map[string]bool) []string {
	var out []string
	for k := range a {
		if !b[k] {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}
