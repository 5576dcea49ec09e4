package utils

import "github.com/gosimple/slug"

// NormalizeSlug lowercases and transliterates text into a URL-friendly slug
func NormalizeSlug(text string) string {
	if text == "" {
		return ""
	}

	return slug.Make(text)
}

// GenerateCompetitionSlug creates a slug for a competition from its country and name
func GenerateCompetitionSlug(country, competitionName string) string {
	if competitionName == "" {
		competitionName = "competition"
	}

	text := competitionName
	if country != "" {
		text = country + " " + competitionName
	}

	return NormalizeSlug(text)
}
