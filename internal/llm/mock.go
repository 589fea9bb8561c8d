package llm

import (
	"context"
	"strings"
)

// MockGenerator is a placeholder implementation for local runs. It returns a
// well-formed three-phase strategy without calling an external model.
type MockGenerator struct{}

func (MockGenerator) Complete(_ context.Context, _ string) (string, error) {
	var sb strings.Builder
	sb.WriteString("Here is a three-phase content strategy tailored to your profile.\n\n")

	sb.WriteString("PHASE 1: Establish Your Presence\n")
	sb.WriteString("Goal: Build a recognizable foundation in your niche\n")
	sb.WriteString("TACTICS:\n")
	sb.WriteString("- Post one short video every weekday\n")
	sb.WriteString("- Introduce yourself in a pinned post\n")
	sb.WriteString("CONTENT PLAN:\n")
	sb.WriteString("Weekly Schedule:\n")
	sb.WriteString("- Video: 3\n")
	sb.WriteString("- Post: 2\n")
	sb.WriteString("Example Post Ideas:\n")
	sb.WriteString("- Why I started creating content\n")
	sb.WriteString("- Three mistakes beginners make\n")
	sb.WriteString("- A day in my creative routine\n")
	sb.WriteString("- The tool I cannot work without\n")
	sb.WriteString("- Answering your most asked question\n")
	sb.WriteString("- My honest take on a trend\n")
	sb.WriteString("- What I wish I knew earlier\n\n")

	sb.WriteString("PHASE 2: Grow Your Audience\n")
	sb.WriteString("Goal: Expand reach through collaboration and consistency\n")
	sb.WriteString("TACTICS:\n")
	sb.WriteString("- Collaborate with one creator per month\n")
	sb.WriteString("- Repurpose top posts as carousels\n\n")

	sb.WriteString("PHASE 3: Expand Your Formats\n")
	sb.WriteString("Goal: Diversify into live sessions and longer stories\n")
	sb.WriteString("TACTICS:\n")
	sb.WriteString("- Host a monthly live Q&A\n")
	sb.WriteString("- Share behind-the-scenes stories weekly\n")

	return sb.String(), nil
}
