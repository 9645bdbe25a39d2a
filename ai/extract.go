package ai

import "strings"

// ExtractJSON trims text to the span between the first '{' and the last
// '}' so commentary the model adds around its answer is dropped. When
// no such span exists the text is returned unchanged.
//
// This is a heuristic, not a parser: a closing brace inside commentary
// after the object would be kept.
func ExtractJSON(text string) string {
	first := strings.Index(text, "{")
	last := strings.LastIndex(text, "}")
	if first != -1 && last != -1 && last > first {
		return text[first : last+1]
	}
	return text
}
