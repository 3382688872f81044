package model

import (
	"context"
	"fmt"
	"strings"
	"unicode"
)

// FallbackProvider is the deterministic rule-based substitute for a live
// generative backend. Generate is a pure function of the prompt structure and
// never fails, guaranteeing a usable answer when the live provider is down.
type FallbackProvider struct{}

// NewFallbackProvider creates a FallbackProvider.
func NewFallbackProvider() *FallbackProvider {
	return &FallbackProvider{}
}

// Generate produces a templated completion derived from the prompt. It picks
// out a subject (quoted text, if any), a score fragment ("N/100") and known
// sustainability factor keywords, then assembles a canned explanation.
func (f *FallbackProvider) Generate(_ context.Context, prompt string) (string, error) {
	subject := extractQuoted(prompt)
	if subject == "" {
		subject = "this product"
	}

	var b strings.Builder
	if score, ok := extractScore(prompt); ok {
		fmt.Fprintf(&b, "%s has a sustainability score of %s/100", subject, score)
	} else {
		fmt.Fprintf(&b, "%s was evaluated against standard sustainability criteria", subject)
	}

	if factors := extractFactors(prompt); len(factors) > 0 {
		fmt.Fprintf(&b, ", driven mainly by %s", strings.Join(factors, ", "))
	} else {
		b.WriteString(" based on its materials, production and transport footprint")
	}
	b.WriteString(".")

	return b.String(), nil
}

// Info implements Provider.
func (f *FallbackProvider) Info() Info {
	return Info{Name: "rule-based", Provider: "fallback"}
}

// factorKeywords are the sustainability vocabulary the fallback recognizes in
// prompts. Order is fixed so output stays deterministic.
var factorKeywords = []string{
	"materials", "material", "production", "transport", "locality", "local",
	"recyclability", "recycled", "organic", "bamboo", "renewable", "packaging",
	"carbon", "end-of-life",
}

func extractQuoted(prompt string) string {
	start := strings.IndexByte(prompt, '"')
	if start < 0 {
		return ""
	}
	end := strings.IndexByte(prompt[start+1:], '"')
	if end < 0 {
		return ""
	}
	return prompt[start+1 : start+1+end]
}

func extractScore(prompt string) (string, bool) {
	idx := strings.Index(prompt, "/100")
	if idx <= 0 {
		return "", false
	}
	end := idx
	start := end
	for start > 0 && unicode.IsDigit(rune(prompt[start-1])) {
		start--
	}
	if start == end {
		return "", false
	}
	return prompt[start:end], true
}

func extractFactors(prompt string) []string {
	lower := strings.ToLower(prompt)
	var found []string
	seen := make(map[string]bool)
	for _, kw := range factorKeywords {
		if strings.Contains(lower, kw) && !seen[kw] {
			found = append(found, kw)
			seen[kw] = true
		}
		if len(found) == 3 {
			break
		}
	}
	return found
}
