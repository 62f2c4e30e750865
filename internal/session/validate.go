package session

import (
	"regexp"
	"strings"
)

var (
	// The canonical answer lists alternatives with ";" or " or "; user
	// input only with " or " — a literal semicolon in the user's answer is
	// part of the answer, not a separator.
	correctAltRe = regexp.MustCompile(`;|\s+or\s+`)
	userAltRe    = regexp.MustCompile(`\s+or\s+`)
)

// ValidateAnswer compares a user answer against the canonical answer,
// case-insensitively and ignoring surrounding whitespace. Answers listing
// alternatives ("dog; hound", "dog or hound") accept any single alternative;
// a user listing alternatives passes if any of theirs matches.
func ValidateAnswer(userAnswer, correctAnswer string) bool {
	if correctAnswer == "" {
		return false
	}
	ua := strings.ToLower(strings.TrimSpace(userAnswer))
	ca := strings.ToLower(strings.TrimSpace(correctAnswer))

	if strings.Contains(ca, ";") || strings.Contains(ca, " or ") {
		correctParts := splitAlternatives(ca, correctAltRe)
		userParts := splitAlternatives(ua, userAltRe)
		for _, up := range userParts {
			for _, cp := range correctParts {
				if up == cp {
					return true
				}
			}
		}
		return false
	}
	return ua == ca
}

func splitAlternatives(s string, re *regexp.Regexp) []string {
	var out []string
	for _, part := range re.Split(s, -1) {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}
