package api

import "regexp"

var emailPattern = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)

// extractEmail returns the first email address found in text, best effort.
func extractEmail(text string) string {
	if match := emailPattern.FindString(text); match != "" {
		return match
	}
	return "Not provided"
}
