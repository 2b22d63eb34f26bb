package ai

import "strings"

// ExtractJSON recovers the best-effort JSON-parseable substring from a text
// blob that may wrap its payload in prose or markdown code fences.
//
// This is deliberately a heuristic, not a parser: it strips literal fence
// markers, then cuts from the first opening bracket to the matching-kind last
// closing bracket. Malformed interior content is left for the caller's
// json.Unmarshal to reject.
func ExtractJSON(text string) string {
	if text == "" {
		return "{}"
	}

	cleaned := strings.ReplaceAll(text, "```json", "")
	cleaned = strings.ReplaceAll(cleaned, "```", "")

	firstBrace := strings.Index(cleaned, "{")
	firstBracket := strings.Index(cleaned, "[")

	start, end := -1, -1
	// Whichever bracket kind appears first decides object vs array
	if firstBrace != -1 && (firstBracket == -1 || firstBrace < firstBracket) {
		start = firstBrace
		end = strings.LastIndex(cleaned, "}")
	} else if firstBracket != -1 && (firstBrace == -1 || firstBracket < firstBrace) {
		start = firstBracket
		end = strings.LastIndex(cleaned, "]")
	}

	if start != -1 && end != -1 && end >= start {
		return strings.TrimSpace(cleaned[start : end+1])
	}

	return strings.TrimSpace(cleaned)
}
