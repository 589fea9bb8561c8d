// Package parser turns raw AI-generated strategy text into a typed
// StrategyDocument. The upstream generator gives no formatting guarantees,
// so every extraction step is a ranked list of patterns that degrades to a
// weaker heuristic instead of failing: Parse is total and never returns an
// unusable document.
package parser

import (
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"github.com/socialmize/strategy-engine/internal/model"
)

// phase is the intermediate extraction result before model conversion.
type phase struct {
	title   string
	goal    string
	tactics []string
	plan    *model.ContentPlan
}

// phaseStrategy is one ranked heading convention. Strategies run in order;
// the first one yielding at least one phase wins and later ones are skipped.
// Supporting a new upstream format means appending a strategy here.
type phaseStrategy struct {
	name    string
	extract func(text string) []phase
}

var (
	upperHeadingRe    = regexp.MustCompile(`(?m)^[ \t]*PHASE[ \t]+(\d+)[ \t]*:[ \t]*([^\n]*)$`)
	markdownHeadingRe = regexp.MustCompile(`(?mi)^#{1,6}[ \t]*phase[ \t]+(\d+)[ \t]*[:\-]?[ \t]*([^\n]*)$`)
	bareHeadingRe     = regexp.MustCompile(`(?mi)^[ \t]*phase[ \t]+(\d+)[ \t]*([^\S\n]*)$`)

	inlineGoalRe = regexp.MustCompile(`(?i)[\-(]?\s*goal\s*:\s*(.+?)\)?$`)
	goalLineRe   = regexp.MustCompile(`(?mi)^[#*>\- \t]*(?:goal|aim|objective)\s*\**\s*:\s*(.+)$`)

	bulletRe     = regexp.MustCompile(`^[ \t]*[-*][ \t]+(.+)$`)
	labelLineRe  = regexp.MustCompile(`(?i)^[#*> \t]*(tactics|weekly schedule|example post ideas|content plan)\s*\**\s*:`)
	scheduleRe   = regexp.MustCompile(`^(.+?):\s*(\d+)`)
	cueSectionRe = regexp.MustCompile(`(?i)\b(phase|establish|grow|expand)`)
)

var phaseStrategies = []phaseStrategy{
	{"upper-heading", func(text string) []phase { return extractByHeading(text, upperHeadingRe) }},
	{"markdown-heading", func(text string) []phase { return extractByHeading(text, markdownHeadingRe) }},
	{"bare-heading", func(text string) []phase { return extractByHeading(text, bareHeadingRe) }},
	{"cue-sections", extractCueSections},
}

// Parse converts raw generated text into a strategy document. Any input,
// including the empty string, yields a document with at least one phase and
// every phase carrying at least one tactic.
func Parse(raw string) model.StrategyDocument {
	text := strings.ReplaceAll(raw, "\r\n", "\n")

	var phases []phase
	strategy := "none"
	for _, s := range phaseStrategies {
		if phases = s.extract(text); len(phases) > 0 {
			strategy = s.name
			break
		}
	}
	if len(phases) == 0 {
		phases = syntheticPhase()
		strategy = "synthetic"
	}
	if strategy != phaseStrategies[0].name {
		slog.Debug("parser used fallback strategy", "strategy", strategy)
	}

	doc := model.StrategyDocument{Summary: extractSummary(text)}
	for _, p := range phases {
		doc.Phases = append(doc.Phases, model.Phase{
			Title:       p.title,
			Goal:        p.goal,
			Tactics:     p.tactics,
			ContentPlan: p.plan,
		})
	}
	return doc
}

// extractSummary takes everything before the first recognizable phase
// heading, falling back to the first paragraph and then to the default.
func extractSummary(text string) string {
	cut := -1
	for _, re := range []*regexp.Regexp{upperHeadingRe, markdownHeadingRe, bareHeadingRe} {
		if loc := re.FindStringIndex(text); loc != nil && (cut < 0 || loc[0] < cut) {
			cut = loc[0]
		}
	}

	var summary string
	if cut >= 0 {
		summary = strings.TrimSpace(text[:cut])
	} else {
		summary = firstParagraph(text)
	}
	if summary == "" {
		slog.Debug("parser summary fallback", "default", true)
		return Defaults.Summary
	}
	return summary
}

// extractByHeading slices the text at each heading match and builds one
// phase per match from the run of text up to the next heading.
func extractByHeading(text string, re *regexp.Regexp) []phase {
	locs := re.FindAllStringSubmatchIndex(text, -1)
	if len(locs) == 0 {
		return nil
	}

	phases := make([]phase, 0, len(locs))
	for i, loc := range locs {
		end := len(text)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		num := text[loc[2]:loc[3]]
		title := ""
		if len(loc) >= 6 && loc[4] >= 0 {
			title = strings.TrimSpace(text[loc[4]:loc[5]])
		}
		phases = append(phases, buildPhase(num, title, text[loc[1]:end]))
	}
	return phases
}

// buildPhase assembles a phase from its heading parts and details blob,
// applying the per-field defaults where the text gives nothing.
func buildPhase(num, title, details string) phase {
	goal := ""

	// "PHASE 1: Foundation - Goal: build a base" keeps goal out of the title.
	if m := inlineGoalRe.FindStringSubmatchIndex(title); m != nil {
		goal = strings.TrimSpace(title[m[2]:m[3]])
		title = strings.TrimSpace(strings.TrimRight(title[:m[0]], " \t-–("))
	}
	title = strings.Trim(title, "*# \t")
	if title == "" {
		title = "Phase " + num
	}

	if goal == "" {
		if m := goalLineRe.FindStringSubmatch(details); m != nil {
			goal = strings.TrimSpace(m[1])
		}
	}
	if goal == "" {
		goal = Defaults.Goal
	}

	return phase{
		title:   title,
		goal:    goal,
		tactics: extractTactics(details),
		plan:    extractContentPlan(details),
	}
}

// extractCueSections is the last text-driven fallback: sections that merely
// mention strategy-like cue words are treated as phases.
func extractCueSections(text string) []phase {
	var phases []phase
	for _, section := range splitSections(text) {
		if !cueSectionRe.MatchString(section) {
			continue
		}
		title := section
		body := ""
		if idx := strings.Index(section, "\n"); idx >= 0 {
			title, body = section[:idx], section[idx+1:]
		}
		title = strings.Trim(strings.TrimSpace(title), "*# \t:")
		if title == "" {
			title = Defaults.PhaseTitle
		}

		goal := Defaults.Goal
		if m := goalLineRe.FindStringSubmatch(section); m != nil {
			goal = strings.TrimSpace(m[1])
		}

		phases = append(phases, phase{
			title:   title,
			goal:    goal,
			tactics: extractTactics(body),
			plan:    extractContentPlan(body),
		})
	}
	return phases
}

// extractTactics prefers a labeled TACTICS block. Without one it takes all
// bullet lines, but only when the blob carries no content-plan label, so
// schedule and idea bullets are never misread as tactics.
func extractTactics(details string) []string {
	if block, ok := labeledBlock(details, "tactics"); ok {
		if tactics := bulletLines(block); len(tactics) > 0 {
			return tactics
		}
	}
	if !hasContentPlanLabel(details) {
		if tactics := bulletLines(details); len(tactics) > 0 {
			return tactics
		}
	}
	slog.Debug("parser tactics fallback", "default", true)
	return []string{Defaults.Tactic}
}

// extractContentPlan reads the WEEKLY SCHEDULE and EXAMPLE POST IDEAS blocks
// independently. A plan is attached only when at least one block produced
// something; it is never an empty object.
func extractContentPlan(details string) *model.ContentPlan {
	var schedule map[string]int
	if block, ok := labeledBlock(details, "weekly schedule"); ok {
		schedule = parseSchedule(block)
	}

	var ideas []string
	if block, ok := labeledBlock(details, "example post ideas"); ok {
		ideas = bulletLines(block)
	}

	if len(schedule) == 0 && len(ideas) == 0 {
		return nil
	}
	return &model.ContentPlan{WeeklySchedule: schedule, ExamplePostIdeas: ideas}
}

// parseSchedule reads "Format: N" bullet lines. Malformed lines are skipped,
// never fatal.
func parseSchedule(block string) map[string]int {
	schedule := make(map[string]int)
	for _, line := range bulletLines(block) {
		m := scheduleRe.FindStringSubmatch(line)
		if m == nil {
			slog.Debug("parser skipped malformed schedule line", "line", line)
			continue
		}
		count, err := strconv.Atoi(m[2])
		if err != nil || count <= 0 {
			continue
		}
		format := strings.Trim(strings.TrimSpace(m[1]), "*")
		if format == "" {
			continue
		}
		schedule[format] = count
	}
	if len(schedule) == 0 {
		return nil
	}
	return schedule
}

// labeledBlock returns the lines following a "LABEL:" line, stopping at the
// next recognized label line or the end of the text.
func labeledBlock(text, label string) (string, bool) {
	lines := strings.Split(text, "\n")
	start := -1
	for i, line := range lines {
		if m := labelLineRe.FindStringSubmatch(line); m != nil && strings.EqualFold(m[1], label) {
			start = i
			break
		}
	}
	if start < 0 {
		return "", false
	}

	var block []string
	// Anything after the colon on the label line belongs to the block.
	if idx := strings.Index(lines[start], ":"); idx >= 0 {
		if rest := strings.TrimSpace(lines[start][idx+1:]); rest != "" {
			block = append(block, rest)
		}
	}
	for _, line := range lines[start+1:] {
		if labelLineRe.MatchString(line) {
			break
		}
		block = append(block, line)
	}
	return strings.Join(block, "\n"), true
}

func hasContentPlanLabel(text string) bool {
	for _, line := range strings.Split(text, "\n") {
		if m := labelLineRe.FindStringSubmatch(line); m != nil && !strings.EqualFold(m[1], "tactics") {
			return true
		}
	}
	return false
}

// bulletLines returns the content of lines starting with "-" or "*", with
// the marker stripped.
func bulletLines(text string) []string {
	var items []string
	for _, line := range strings.Split(text, "\n") {
		if m := bulletRe.FindStringSubmatch(line); m != nil {
			if item := strings.TrimSpace(m[1]); item != "" {
				items = append(items, item)
			}
		}
	}
	return items
}
