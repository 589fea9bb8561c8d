// Package llm provides a pluggable interface for text-generation providers.
// The provider is treated as opaque and unreliable: it accepts a prompt and
// eventually returns one block of text with no formatting guarantees, or
// fails.
package llm

import (
	"context"
	"fmt"
	"strings"
)

// Generator produces strategy text from a prompt.
type Generator interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// PromptContext carries the onboarding-style fields the prompt is built from.
type PromptContext struct {
	Niche            string `json:"niche,omitempty"`
	CreatorStyle     string `json:"creator_style,omitempty"`
	ExperienceLevel  string `json:"experience_level,omitempty"`
	PostingFrequency string `json:"posting_frequency,omitempty"`
}

const systemPrompt = `You are a content strategy coach. Produce a multi-phase
content strategy for a creator. Start with a short summary paragraph, then
describe each phase under a "PHASE N: Title" heading with a "Goal:" line, a
"TACTICS:" bullet list, and a "CONTENT PLAN" section containing a
"Weekly Schedule:" bullet list of "Format: N" lines and an
"Example Post Ideas:" bullet list.`

// BuildPrompt renders the user prompt for a generation request.
func BuildPrompt(pc PromptContext) string {
	var parts []string
	if pc.Niche != "" {
		parts = append(parts, fmt.Sprintf("niche: %s", pc.Niche))
	}
	if pc.CreatorStyle != "" {
		parts = append(parts, fmt.Sprintf("creator style: %s", pc.CreatorStyle))
	}
	if pc.ExperienceLevel != "" {
		parts = append(parts, fmt.Sprintf("experience level: %s", pc.ExperienceLevel))
	}
	if pc.PostingFrequency != "" {
		parts = append(parts, fmt.Sprintf("posting frequency goal: %s", pc.PostingFrequency))
	}
	if len(parts) == 0 {
		return "I need a content strategy plan."
	}
	return "I need a content strategy plan based on my profile: " + strings.Join(parts, ", ") + "."
}
