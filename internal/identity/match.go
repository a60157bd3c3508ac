package identity

import "strings"

// Matching thresholds. These are empirically chosen guards against
// over-matching short substrings, not derived values.
const (
	// minSegmentLen is the minimum length for an email local-part segment
	// or a name token to participate in fuzzy comparison.
	minSegmentLen = 3

	// minSubstringLen is the minimum length for a bare substring match,
	// so that a query like "an" cannot match "Daniel Anderson".
	minSubstringLen = 4

	// segmentMatchRatio is the share of email local-part segments that
	// must match name words for an email-to-name match.
	segmentMatchRatio = 0.6
)

// Match reports whether two identity strings refer to the same person.
// Either side may be a display name in any order ("Manjunath Kallatti",
// "Kallatti, Manjunath"), an email, or an email-derived slug. Match is
// symmetric: the ordered heuristics run in both directions.
func Match(a, b string) bool {
	ac := strings.ToLower(strings.TrimSpace(a))
	bc := strings.ToLower(strings.TrimSpace(b))
	if ac == "" || bc == "" {
		return false
	}
	if ac == bc {
		return true
	}

	aEmail := strings.Contains(ac, "@")
	bEmail := strings.Contains(bc, "@")
	if aEmail && bEmail {
		// Both are emails: only the exact match above counts, fuzzy
		// email-to-email matching is too loose.
		return false
	}
	if aEmail != bEmail {
		if aEmail {
			return emailMatchesName(ac, bc)
		}
		return emailMatchesName(bc, ac)
	}

	if n1, n2 := Normalize(a), Normalize(b); n1 != "" && n1 == n2 {
		return true
	}

	// Order-independent token-set comparison handles reversed and
	// comma-separated name formats.
	aParts := nameParts(ac)
	bParts := nameParts(bc)
	if len(aParts) >= 2 && len(bParts) >= 2 {
		if isSubset(aParts, bParts) || isSubset(bParts, aParts) {
			return true
		}
	}

	return matchOneWay(ac, bc) || matchOneWay(bc, ac)
}

// matchOneWay applies the substring and token fallbacks with candidate
// and query in a fixed role.
func matchOneWay(candidate, query string) bool {
	if strings.Contains(candidate, query) {
		if len(query) >= minSubstringLen || query == candidate {
			return true
		}
	}

	for _, token := range strings.FieldsFunc(query, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\t'
	}) {
		if len(token) >= minSegmentLen && strings.Contains(candidate, token) {
			return true
		}
	}

	return false
}

// emailMatchesName decides whether an email address and a display name
// belong to the same person. Both arguments are lowercased.
func emailMatchesName(email, name string) bool {
	local := email
	if idx := strings.Index(email, "@"); idx >= 0 {
		local = email[:idx]
	}

	segments := strings.Split(local, ".")
	words := nameWords(name)

	// Segments shorter than minSegmentLen (initials, mostly) carry no
	// signal and are excluded from both sides of the ratio.
	matched, qualifying := 0, 0
	for _, segment := range segments {
		if len(segment) < minSegmentLen {
			continue
		}
		qualifying++
		for _, word := range words {
			if strings.Contains(word, segment) || strings.Contains(segment, word) {
				matched++
				break
			}
		}
	}
	if matched > 0 && float64(matched) >= float64(qualifying)*segmentMatchRatio {
		return true
	}

	// Compact containment: "mkallatti" vs "Kallatti, Manjunath" style.
	compactLocal := strings.ReplaceAll(local, ".", "")
	compactName := strings.NewReplacer(",", "", "(", "", ")", "", " ", "", ".", "").Replace(name)
	if compactLocal != "" && compactName != "" {
		if strings.Contains(compactName, compactLocal) || strings.Contains(compactLocal, compactName) {
			return true
		}
	}

	return false
}

// nameWords tokenizes a display name on commas, parentheses and spaces.
func nameWords(name string) []string {
	return strings.FieldsFunc(name, func(r rune) bool {
		return r == ',' || r == '(' || r == ')' || r == ' ' || r == '\t'
	})
}

// nameParts splits a name into a set of word tokens, stripping commas,
// periods and underscores.
func nameParts(name string) map[string]struct{} {
	cleaned := strings.NewReplacer(",", " ", ".", " ", "_", " ").Replace(name)
	parts := make(map[string]struct{})
	for _, part := range strings.Fields(cleaned) {
		parts[part] = struct{}{}
	}
	return parts
}

func isSubset(sub, super map[string]struct{}) bool {
	for part := range sub {
		if _, ok := super[part]; !ok {
			return false
		}
	}
	return true
}
