package parser

import (
	"strings"
	"testing"
)

const threePhaseText = `Welcome! Here is a strategy built around your niche.

PHASE 1: Establish Your Presence
Goal: Build a recognizable foundation
TACTICS:
- Post one short video every weekday
- Introduce yourself in a pinned post
CONTENT PLAN:
Weekly Schedule:
- Video: 3
- Post: 2
Example Post Ideas:
- Why I started creating content
- Three mistakes beginners make
- A day in my creative routine
- The tool I cannot work without
- Answering your most asked question
- My honest take on a trend
- What I wish I knew earlier

PHASE 2: Grow Your Audience
Goal: Expand reach through collaboration
TACTICS:
- Collaborate with one creator per month
- Repurpose top carousels

PHASE 3: Expand Your Formats
Goal: Diversify into longer formats
TACTICS:
- Host a monthly Q&A
`

func TestParse_ThreeWellFormedPhases(t *testing.T) {
	doc := Parse(threePhaseText)

	if doc.Summary != "Welcome! Here is a strategy built around your niche." {
		t.Errorf("unexpected summary: %q", doc.Summary)
	}
	if len(doc.Phases) != 3 {
		t.Fatalf("expected 3 phases, got %d", len(doc.Phases))
	}

	p1 := doc.Phases[0]
	if p1.Title != "Establish Your Presence" {
		t.Errorf("phase 1 title: %q", p1.Title)
	}
	if p1.Goal != "Build a recognizable foundation" {
		t.Errorf("phase 1 goal: %q", p1.Goal)
	}
	if len(p1.Tactics) != 2 {
		t.Fatalf("phase 1 tactics: %v", p1.Tactics)
	}
	if p1.Tactics[0] != "Post one short video every weekday" {
		t.Errorf("phase 1 tactic: %q", p1.Tactics[0])
	}

	if p1.ContentPlan == nil {
		t.Fatal("phase 1 should have a content plan")
	}
	if got := p1.ContentPlan.WeeklySchedule["Video"]; got != 3 {
		t.Errorf("expected Video: 3, got %d", got)
	}
	if got := p1.ContentPlan.WeeklySchedule["Post"]; got != 2 {
		t.Errorf("expected Post: 2, got %d", got)
	}
	if len(p1.ContentPlan.ExamplePostIdeas) != 7 {
		t.Errorf("expected 7 ideas, got %d", len(p1.ContentPlan.ExamplePostIdeas))
	}

	if doc.Phases[1].ContentPlan != nil {
		t.Error("phase 2 has no content-plan blocks, plan should be absent")
	}
	if doc.Phases[2].Title != "Expand Your Formats" {
		t.Errorf("phase 3 title: %q", doc.Phases[2].Title)
	}
}

func TestParse_NoHeadings(t *testing.T) {
	text := "This is an introduction with no structure at all.\n\nA second paragraph of plain prose follows it."
	doc := Parse(text)

	if doc.Summary != "This is an introduction with no structure at all." {
		t.Errorf("summary should be the first paragraph, got %q", doc.Summary)
	}
	if len(doc.Phases) != 1 {
		t.Fatalf("expected 1 synthetic phase, got %d", len(doc.Phases))
	}
	p := doc.Phases[0]
	if p.Title != Defaults.PhaseTitle {
		t.Errorf("expected default title %q, got %q", Defaults.PhaseTitle, p.Title)
	}
	if p.Goal != Defaults.Goal {
		t.Errorf("expected default goal, got %q", p.Goal)
	}
	if len(p.Tactics) != len(Defaults.Tactics) {
		t.Errorf("expected default tactics, got %v", p.Tactics)
	}
}

func TestParse_Totality(t *testing.T) {
	inputs := []string{
		"",
		"   \n\t\n   ",
		"これは日本語のテキストです。構造はありません。",
		"###",
		strings.Repeat("-\n", 50),
	}
	for _, in := range inputs {
		doc := Parse(in)
		if doc.Summary == "" {
			t.Errorf("Parse(%q): empty summary", in)
		}
		if len(doc.Phases) == 0 {
			t.Fatalf("Parse(%q): no phases", in)
		}
		for i, p := range doc.Phases {
			if len(p.Tactics) == 0 {
				t.Errorf("Parse(%q): phase %d has no tactics", in, i)
			}
		}
	}
}

func TestParse_MarkdownHeadings(t *testing.T) {
	text := `An opening summary.

# Phase 1: Foundation
Goal: Start strong
- Film a welcome video
- Set up your profile

## Phase 2: Momentum
- Batch record weekly
`
	doc := Parse(text)
	if len(doc.Phases) != 2 {
		t.Fatalf("expected 2 phases, got %d", len(doc.Phases))
	}
	if doc.Phases[0].Title != "Foundation" {
		t.Errorf("title: %q", doc.Phases[0].Title)
	}
	if doc.Phases[0].Goal != "Start strong" {
		t.Errorf("goal: %q", doc.Phases[0].Goal)
	}
	// No TACTICS label and no content-plan labels: all bullets are tactics.
	if len(doc.Phases[1].Tactics) != 1 || doc.Phases[1].Tactics[0] != "Batch record weekly" {
		t.Errorf("phase 2 tactics: %v", doc.Phases[1].Tactics)
	}
}

func TestParse_BareHeadings(t *testing.T) {
	text := `Summary first.

Phase 1
Objective: Find your footing
- Post three times a week

Phase 2
- Try a new format monthly
`
	doc := Parse(text)
	if len(doc.Phases) != 2 {
		t.Fatalf("expected 2 phases, got %d", len(doc.Phases))
	}
	if doc.Phases[0].Title != "Phase 1" {
		t.Errorf("bare headings default the title, got %q", doc.Phases[0].Title)
	}
	if doc.Phases[0].Goal != "Find your footing" {
		t.Errorf("goal: %q", doc.Phases[0].Goal)
	}
	if doc.Phases[1].Goal != Defaults.Goal {
		t.Errorf("phase 2 should use the default goal, got %q", doc.Phases[1].Goal)
	}
}

func TestParse_InlineGoalInHeading(t *testing.T) {
	text := "PHASE 1: Foundation - Goal: Build a base\n- Do the work\n"
	doc := Parse(text)
	if doc.Phases[0].Title != "Foundation" {
		t.Errorf("title: %q", doc.Phases[0].Title)
	}
	if doc.Phases[0].Goal != "Build a base" {
		t.Errorf("goal: %q", doc.Phases[0].Goal)
	}
}

func TestParse_FirstMatchingStrategyWins(t *testing.T) {
	// Both upper-case and markdown headings present: only the upper-case
	// pattern's matches become phases.
	text := `Summary.

PHASE 1: Real Phase
- A tactic

# Phase 9: Should Not Appear Alone
`
	doc := Parse(text)
	if len(doc.Phases) != 1 {
		t.Fatalf("expected 1 phase from the winning pattern, got %d", len(doc.Phases))
	}
	if doc.Phases[0].Title != "Real Phase" {
		t.Errorf("title: %q", doc.Phases[0].Title)
	}
}

func TestParse_CueSectionFallback(t *testing.T) {
	text := `Establish your base with daily posts.
Aim: Consistency above all.

An unrelated paragraph about nothing in particular.

Grow beyond your current audience.
- Cross-post to a second platform
`
	doc := Parse(text)
	if len(doc.Phases) != 2 {
		t.Fatalf("expected 2 cue sections as phases, got %d: %+v", len(doc.Phases), doc.Phases)
	}
	if doc.Phases[0].Goal != "Consistency above all." {
		t.Errorf("goal from aim line: %q", doc.Phases[0].Goal)
	}
	if doc.Phases[1].Tactics[0] != "Cross-post to a second platform" {
		t.Errorf("tactics: %v", doc.Phases[1].Tactics)
	}
}

func TestParse_BulletsNotMisreadAsTactics(t *testing.T) {
	// No TACTICS label, but a content-plan label is present: the schedule
	// bullets must not become tactics.
	text := `PHASE 1: Launch
Weekly Schedule:
- Video: 2
- Story: 4
`
	doc := Parse(text)
	p := doc.Phases[0]
	if len(p.Tactics) != 1 || p.Tactics[0] != Defaults.Tactic {
		t.Errorf("expected the generic tactic, got %v", p.Tactics)
	}
	if p.ContentPlan == nil || p.ContentPlan.WeeklySchedule["Story"] != 4 {
		t.Errorf("schedule not extracted: %+v", p.ContentPlan)
	}
}

func TestParse_MalformedScheduleLinesSkipped(t *testing.T) {
	text := `PHASE 1: Launch
TACTICS:
- Post daily
Weekly Schedule:
- Video: 3
- no frequency here
- Reel: zero
- : 5
- Carousel: 0
`
	doc := Parse(text)
	plan := doc.Phases[0].ContentPlan
	if plan == nil {
		t.Fatal("expected a content plan")
	}
	if len(plan.WeeklySchedule) != 1 || plan.WeeklySchedule["Video"] != 3 {
		t.Errorf("expected only Video: 3, got %v", plan.WeeklySchedule)
	}
}

func TestParse_EmptyContentPlanIsAbsent(t *testing.T) {
	text := `PHASE 1: Launch
TACTICS:
- Post daily
Weekly Schedule:
- nothing parseable
Example Post Ideas:
`
	doc := Parse(text)
	if doc.Phases[0].ContentPlan != nil {
		t.Errorf("plan with no extracted fields must be absent, got %+v", doc.Phases[0].ContentPlan)
	}
}

func TestParse_SummaryDefaultsWhenTextStartsWithHeading(t *testing.T) {
	doc := Parse("PHASE 1: Straight In\n- Go\n")
	if doc.Summary != Defaults.Summary {
		t.Errorf("expected default summary, got %q", doc.Summary)
	}
}
