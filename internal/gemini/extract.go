package gemini

import "strings"

// ExtractJSON locates the JSON object embedded in free-form model output.
// The model may prepend prose, so the candidate spans from the first '{' to
// the last '}' in the text. Returns false when no such span exists; parse
// validity is the caller's concern.
func ExtractJSON(text string) (string, bool) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end == -1 || end < start {
		return "", false
	}
	return text[start : end+1], true
}
