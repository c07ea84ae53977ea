package reviews

import "strings"

// Blocklist flags comments containing any of its words, case-insensitively.
type Blocklist []string

// NewBlocklist normalises words, dropping blanks.
func NewBlocklist(words []string) Blocklist {
	out := make(Blocklist, 0, len(words))
	for _, w := range words {
		if w = strings.ToLower(strings.TrimSpace(w)); w != "" {
			out = append(out, w)
		}
	}
	return out
}

// Flagged reports whether comment needs moderation.
func (b Blocklist) Flagged(comment string) bool {
	if comment == "" {
		return false
	}
	lower := strings.ToLower(comment)
	for _, w := range b {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return false
}
