package llm

import (
	"strings"
	"unicode"

	"skillforge/internal/domain"
)

// The generation service replies with free-form text that is expected to
// contain exactly one JSON value of the requested shape. Extraction is
// greedy: from the first opening brace/bracket to the last matching close,
// across newlines. Markdown fences and <think> blocks are stripped first,
// since some models wrap their output in either.

func cleanResponse(s string) string {
	s = strings.TrimSpace(s)
	if thinkStart := strings.Index(s, "<think>"); thinkStart != -1 {
		if thinkEnd := strings.Index(s, "</think>"); thinkEnd != -1 && thinkEnd > thinkStart {
			s = s[:thinkStart] + s[thinkEnd+len("</think>"):]
			s = strings.TrimSpace(s)
		}
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// extractObjectWithField returns the first JSON object in text whose opening
// brace is immediately followed (modulo whitespace) by the given field name,
// spanning to the last closing brace.
func extractObjectWithField(text, field string) (string, error) {
	cleaned := cleanResponse(text)
	marker := `"` + field + `"`

	start := -1
	for idx := strings.Index(cleaned, marker); idx > 0; {
		candidate := openingBraceBefore(cleaned, idx)
		if candidate != -1 {
			start = candidate
			break
		}
		next := strings.Index(cleaned[idx+len(marker):], marker)
		if next == -1 {
			break
		}
		idx += len(marker) + next
	}
	if start == -1 {
		return "", domain.NewParseError("no JSON object with field "+field+" found in response", nil)
	}

	end := strings.LastIndex(cleaned, "}")
	if end <= start {
		return "", domain.NewParseError("unterminated JSON object in response", nil)
	}
	return cleaned[start : end+1], nil
}

// openingBraceBefore walks back from idx over whitespace and returns the
// position of a directly preceding '{', or -1.
func openingBraceBefore(s string, idx int) int {
	for i := idx - 1; i >= 0; i-- {
		c := rune(s[i])
		if c == '{' {
			return i
		}
		if !unicode.IsSpace(c) {
			return -1
		}
	}
	return -1
}

// extractArray returns the first JSON array of objects in text, spanning to
// the last closing bracket.
func extractArray(text string) (string, error) {
	cleaned := cleanResponse(text)

	start := strings.Index(cleaned, "[")
	if start == -1 {
		return "", domain.NewParseError("no JSON array found in response", nil)
	}
	end := strings.LastIndex(cleaned, "]")
	if end <= start {
		return "", domain.NewParseError("unterminated JSON array in response", nil)
	}
	return cleaned[start : end+1], nil
}
