package identity

import "strings"

// nicknames maps common full first names to their short forms. It is
// applied only when the whole normalized string equals a key: expanding
// substrings would produce false positives on surnames like "Robertson".
var nicknames = map[string]string{
	"robert":      "rob",
	"michael":     "mike",
	"matthew":     "matt",
	"christopher": "chris",
	"richard":     "rick",
	"jonathan":    "jon",
	"nicholas":    "nick",
	"daniel":      "dan",
	"william":     "will",
	"benjamin":    "ben",
	"alexander":   "alex",
	"katherine":   "kate",
	"jennifer":    "jen",
	"elizabeth":   "liz",
	"stephanie":   "steph",
	"deborah":     "deb",
}

// Normalize canonicalizes a free-form name or email into a comparable
// form. Emails are reduced to their local part, dots and underscores
// become spaces and whitespace is collapsed. Returns "" for empty input.
func Normalize(raw string) string {
	normalized := strings.ToLower(strings.TrimSpace(raw))
	if normalized == "" {
		return ""
	}

	if idx := strings.Index(normalized, "@"); idx >= 0 {
		normalized = normalized[:idx]
	}

	normalized = strings.ReplaceAll(normalized, ".", " ")
	normalized = strings.ReplaceAll(normalized, "_", " ")
	normalized = strings.Join(strings.Fields(normalized), " ")

	if short, ok := nicknames[normalized]; ok {
		return short
	}

	return normalized
}
