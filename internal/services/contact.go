package services

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"unicode"

	"github.com/Mishraaa-Anant/Automated-HR/internal/cache"
	"github.com/Mishraaa-Anant/Automated-HR/internal/models"
)

// ContactExtractor pulls candidate contact details out of resume text.
type ContactExtractor interface {
	Extract(ctx context.Context, resumeText, filename string) (models.ContactInfo, error)
}

// emailPatterns are tried in order; later patterns catch labeled and
// spaced-out addresses the plain pattern misses.
var emailPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`),
	regexp.MustCompile(`(?i)\b[A-Za-z0-9]+[._]?[A-Za-z0-9]+@\w+\.\w{2,3}\b`),
	regexp.MustCompile(`(?i)[a-zA-Z0-9._%+-]+\s*@\s*[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`),
	regexp.MustCompile(`(?i)Email\s*:\s*([a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,})`),
	regexp.MustCompile(`(?i)E-mail\s*:\s*([a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,})`),
}

var phonePatterns = []*regexp.Regexp{
	regexp.MustCompile(`[+]?[(]?[0-9]{3}[)]?[-\s.]?[0-9]{3}[-\s.]?[0-9]{4,6}`),
	regexp.MustCompile(`\+\d{1,3}[-.\s]?\d{1,4}[-.\s]?\d{1,4}[-.\s]?\d{1,9}`),
	regexp.MustCompile(`\b\d{10}\b`),
	regexp.MustCompile(`(?:Phone|Mobile|Tel|Contact)[\s:]*([+\d\s\-()]+)`),
}

var (
	linkedinPattern  = regexp.MustCompile(`(?i)linkedin\.com/in/([a-zA-Z0-9\-]+)`)
	tenDigitsPattern = regexp.MustCompile(`\d{10}`)
	nonPhoneChars    = regexp.MustCompile(`[^\d+]`)
)

// fakeDomains are placeholder addresses resumes copy from templates.
var fakeDomains = []string{"example.com", "domain.com", "email.com", "test.com"}

// contactExtractor runs regex extraction first and falls back to the
// model only for what regex could not find. The model fallback is best
// effort: a failed call leaves the field empty instead of failing the
// candidate.
type contactExtractor struct {
	generator  TextGenerator
	store      *cache.ContactStore
	prompts    *PromptBuilder
	maxRetries int
}

func NewContactExtractor(generator TextGenerator, store *cache.ContactStore, maxRetries int) ContactExtractor {
	return &contactExtractor{
		generator:  generator,
		store:      store,
		prompts:    NewPromptBuilder(),
		maxRetries: maxRetries,
	}
}

func (e *contactExtractor) Extract(ctx context.Context, resumeText, filename string) (models.ContactInfo, error) {
	if filename != "" {
		if cached, ok := e.store.Get(filename); ok {
			return cached, nil
		}
	}

	emails := extractEmails(resumeText)
	phones := extractPhones(resumeText)
	name := extractName(resumeText)

	switch {
	case len(emails) == 0 && len(phones) == 0:
		if response, err := e.generate(ctx, e.prompts.BuildContactPrompt(resumeText)); err == nil {
			if llmEmails := extractEmails(response); len(llmEmails) > 0 {
				emails = llmEmails
			}
			if llmPhones := extractPhones(response); len(llmPhones) > 0 {
				phones = llmPhones
			}
		}
	case len(emails) == 0:
		if response, err := e.generate(ctx, e.prompts.BuildContactEmailPrompt(resumeText)); err == nil {
			if llmEmails := extractEmails(response); len(llmEmails) > 0 {
				emails = llmEmails
			}
		}
	case len(phones) == 0:
		if response, err := e.generate(ctx, e.prompts.BuildContactPhonePrompt(resumeText)); err == nil {
			if llmPhones := extractPhones(response); len(llmPhones) > 0 {
				phones = llmPhones
			}
		}
	}

	info := models.ContactInfo{Name: name}
	if len(emails) > 0 {
		info.Email = emails[0]
	}
	if len(phones) > 0 {
		info.Phone = phones[0]
	}
	if m := linkedinPattern.FindStringSubmatch(resumeText); m != nil {
		info.LinkedIn = fmt.Sprintf("linkedin.com/in/%s", m[1])
	}

	if filename != "" {
		e.store.Put(filename, info)
	}
	return info, nil
}

func (e *contactExtractor) generate(ctx context.Context, prompt string) (string, error) {
	if e.generator == nil {
		return "", fmt.Errorf("no generator configured")
	}
	return e.generator.GenerateTextWithRetry(ctx, prompt, "", 0.1, e.maxRetries)
}

// extractEmails returns validated, deduplicated addresses ordered by
// provider familiarity, then by length.
func extractEmails(text string) []string {
	seen := map[string]bool{}
	var emails []string

	for _, pattern := range emailPatterns {
		for _, m := range pattern.FindAllStringSubmatch(text, -1) {
			candidate := m[0]
			if len(m) > 1 && m[1] != "" {
				candidate = m[1]
			}
			email := strings.ToLower(strings.TrimSpace(candidate))
			email = strings.ReplaceAll(email, " ", "")

			at := strings.LastIndex(email, "@")
			if at < 1 || !strings.Contains(email[at:], ".") {
				continue
			}
			if containsAny(email, fakeDomains...) {
				continue
			}
			if !seen[email] {
				seen[email] = true
				emails = append(emails, email)
			}
		}
	}

	sort.SliceStable(emails, func(i, j int) bool {
		ri, rj := emailRank(emails[i]), emailRank(emails[j])
		if ri != rj {
			return ri < rj
		}
		if len(emails[i]) != len(emails[j]) {
			return len(emails[i]) < len(emails[j])
		}
		return emails[i] < emails[j]
	})
	return emails
}

func emailRank(email string) int {
	switch {
	case strings.Contains(email, "@gmail.com"):
		return 0
	case strings.Contains(email, "@outlook.com"):
		return 1
	case strings.Contains(email, "@yahoo.com"):
		return 2
	default:
		return 3
	}
}

// extractPhones returns candidate phone numbers in first-found order,
// keeping only those whose digit count is plausible.
func extractPhones(text string) []string {
	seen := map[string]bool{}
	var phones []string

	for _, pattern := range phonePatterns {
		for _, m := range pattern.FindAllStringSubmatch(text, -1) {
			candidate := m[0]
			if len(m) > 1 && m[1] != "" {
				candidate = m[1]
			}
			candidate = strings.TrimSpace(candidate)

			digits := nonPhoneChars.ReplaceAllString(candidate, "")
			if len(digits) < 10 || len(digits) > 15 {
				continue
			}
			if !seen[candidate] {
				seen[candidate] = true
				phones = append(phones, candidate)
			}
		}
	}
	return phones
}

// extractName scans the first ten non-empty lines for something shaped
// like a person's name: 2-4 capitalized words with no contact details
// or section headers mixed in.
func extractName(text string) string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	if len(lines) == 0 {
		return "Unknown"
	}

	headerWords := []string{"resume", "cv", "curriculum vitae", "profile", "contact", "email", "phone"}

	limit := min(10, len(lines))
	for _, line := range lines[:limit] {
		if strings.Contains(line, "@") || tenDigitsPattern.MatchString(line) {
			continue
		}
		if containsAny(strings.ToLower(line), headerWords...) {
			continue
		}

		words := strings.Fields(line)
		if len(words) < 2 || len(words) > 4 {
			continue
		}
		looksLikeName := true
		for _, w := range words {
			runes := []rune(w)
			if len(runes) <= 1 || !unicode.IsUpper(runes[0]) {
				looksLikeName = false
				break
			}
		}
		if looksLikeName {
			return truncateRunes(line, 50)
		}
	}

	return truncateRunes(lines[0], 50)
}

func truncateRunes(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
