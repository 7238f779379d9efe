package sanitizer

import (
	"regexp"
	"strings"
)

const fence = "```"

// openingFence matches a leading code fence and its optional language tag.
var openingFence = regexp.MustCompile("^```[A-Za-z0-9_+.-]*")

// Unwrap removes surrounding whitespace and markdown code fences from raw
// model output. Text without fences is only trimmed. Unwrap(Unwrap(s)) ==
// Unwrap(s) for every s.
func Unwrap(raw string) string {
	text := strings.TrimSpace(raw)
	for {
		next := unwrapOnce(text)
		if next == text {
			return text
		}
		text = next
	}
}

func unwrapOnce(text string) string {
	if loc := openingFence.FindStringIndex(text); loc != nil {
		text = text[loc[1]:]
	}
	text = strings.TrimSuffix(text, fence)
	return strings.TrimSpace(text)
}
