package parser

import "strings"

// splitSections breaks text into sections on markdown headings and blank
// lines. Used by the cue-based fallback when no phase heading pattern
// matched anywhere in the text.
func splitSections(text string) []string {
	lines := strings.Split(text, "\n")
	var sections []string
	var current []string

	flush := func() {
		s := strings.TrimSpace(strings.Join(current, "\n"))
		if s != "" {
			sections = append(sections, s)
		}
		current = nil
	}

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)

		if strings.HasPrefix(trimmed, "#") && len(current) > 0 {
			flush()
		}
		if trimmed == "" {
			flush()
			continue
		}
		current = append(current, line)
	}
	flush()

	return sections
}

// firstParagraph returns the text up to the first blank-line break.
func firstParagraph(text string) string {
	text = strings.TrimSpace(text)
	if idx := strings.Index(text, "\n\n"); idx >= 0 {
		return strings.TrimSpace(text[:idx])
	}
	return text
}
