package generator

import "strings"

// CleanJSONResponse strips the markdown code fences models wrap JSON in
// despite being told not to.
func CleanJSONResponse(text string) string {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "```json") {
		text = text[len("```json"):]
	} else if strings.HasPrefix(text, "```") {
		text = text[len("```"):]
	}
	if strings.HasSuffix(text, "```") {
		text = text[:len(text)-len("```")]
	}
	return strings.TrimSpace(text)
}

// RecoverArray extracts the JSON array between the first '[' and the last
// ']' of a response whose surroundings failed to parse. It returns false
// when no array is present.
func RecoverArray(text string) (string, bool) {
	start := strings.Index(text, "[")
	end := strings.LastIndex(text, "]")
	if start == -1 || end == -1 || end <= start {
		return "", false
	}
	return text[start : end+1], true
}
