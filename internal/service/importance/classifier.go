package importance

import "strings"

// Classifier decides whether a message text is worth remembering. It is
// the sole admission gate for context entries: a false negative just
// means the message is forgotten, a false positive creates a low-value
// entry that the reminder step still gates on.
type Classifier struct {
	phrases []string
}

// NewClassifier builds a classifier over the given trigger phrases.
// Matching is a case-insensitive substring check, so phrases should be
// short commitment or request fragments ("promise", "remind me", ...).
func NewClassifier(phrases []string) *Classifier {
	lowered := make([]string, 0, len(phrases))
	for _, p := range phrases {
		p = strings.ToLower(strings.TrimSpace(p))
		if p != "" {
			lowered = append(lowered, p)
		}
	}
	return &Classifier{phrases: lowered}
}

// Important reports whether text contains any trigger phrase.
func (c *Classifier) Important(text string) bool {
	lower := strings.ToLower(text)
	for _, p := range c.phrases {
		if strings.Contains(lower, p) {
			return true
		}
	}
	return false
}
