package catalog

import "strings"

var bannedTerms = []string{"hentai", "ecchi", "erotica", "nsfw"}

// BlockedMessage is shown instead of results when a prompt is rejected.
const BlockedMessage = "Please use appropriate search terms"

// ContainsBannedTerm reports whether prompt asks for adult content.
func ContainsBannedTerm(prompt string) bool {
	p := strings.ToLower(prompt)
	for _, term := range bannedTerms {
		if strings.Contains(p, term) {
			return true
		}
	}
	return false
}
