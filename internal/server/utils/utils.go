package utils

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	nonSlugChars = regexp.MustCompile(`[^a-z0-9\- ]+`) // space is kept here and collapsed below
	spaces       = regexp.MustCompile(`[ ]+`)
	hyphens      = regexp.MustCompile(`-{2,}`)
)

// GenerateSlug generates a URL-friendly slug from a given string.
// Funnels created without an explicit key are keyed by the slug of their name.
func GenerateSlug(input string) (string, error) {
	if strings.TrimSpace(input) == "" {
		return "", fmt.Errorf("no input string supplied to GenerateSlug")
	}

	normalized := norm.NFD.String(input)

	withoutDiacritics, _, err := transform.String(runes.Remove(runes.In(unicode.Mn)), normalized)
	if err != nil {
		return "", fmt.Errorf("error creating slug: %v", err)
	}

	lowerCase := strings.ToLower(withoutDiacritics)

	hyphenated := nonSlugChars.ReplaceAllString(lowerCase, "-")
	hyphenated = spaces.ReplaceAllString(hyphenated, "-")
	hyphenated = hyphens.ReplaceAllString(hyphenated, "-")

	trimmed := strings.Trim(hyphenated, "-")
	if trimmed == "" {
		return "", fmt.Errorf("%q does not contain any characters usable in a key", input)
	}
	return trimmed, nil
}

// UniqueSlug returns slug, or slug-2, slug-3 ... when taken reports the slug is already in use
func UniqueSlug(slug string, taken func(string) bool) string {
	candidate := slug
	for n := 2; taken(candidate); n++ {
		candidate = fmt.Sprintf("%s-%d", slug, n)
	}
	return candidate
}
