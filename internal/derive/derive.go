// Package derive computes the secondary views the application consumes from
// a parsed strategy document: a content-type set, a weekday calendar, and a
// small set of example scripts. All transforms are pure; calling them twice
// on the same document yields identical output.
package derive

import (
	"fmt"
	"sort"
	"strings"

	"github.com/socialmize/strategy-engine/internal/model"
)

const maxScripts = 5

// formatKeywords maps tactic keywords to canonical content-type names,
// scanned in this order so output stays deterministic.
var formatKeywords = []struct{ keyword, name string }{
	{"video", "Video"},
	{"post", "Post"},
	{"carousel", "Carousel"},
	{"stories", "Story"},
	{"story", "Story"},
	{"reel", "Reel"},
	{"live", "Live"},
}

// BuildViews derives all three views from a document.
func BuildViews(doc model.StrategyDocument) model.DerivedViews {
	return model.DerivedViews{
		ContentTypes:   ContentTypes(doc.Phases),
		WeeklyCalendar: WeeklyCalendar(doc.Phases),
		ExampleScripts: ExampleScripts(doc.Phases),
	}
}

// ContentTypes scans every tactic for format keywords and unions the result
// with any weekly-schedule keys. The default set applies when nothing could
// be inferred.
func ContentTypes(phases []model.Phase) []string {
	seen := make(map[string]bool)
	var types []string
	add := func(name string) {
		key := strings.ToLower(name)
		if !seen[key] {
			seen[key] = true
			types = append(types, name)
		}
	}

	for _, kw := range formatKeywords {
		for _, phase := range phases {
			for _, tactic := range phase.Tactics {
				if strings.Contains(strings.ToLower(tactic), kw.keyword) {
					add(kw.name)
				}
			}
		}
	}
	// Schedule keys come from map iteration; sort them so output is stable.
	var scheduleKeys []string
	for _, phase := range phases {
		if phase.ContentPlan == nil {
			continue
		}
		for format := range phase.ContentPlan.WeeklySchedule {
			scheduleKeys = append(scheduleKeys, format)
		}
	}
	sort.Strings(scheduleKeys)
	for _, format := range scheduleKeys {
		add(format)
	}

	if len(types) == 0 {
		return append([]string(nil), Defaults.ContentTypes...)
	}
	return types
}

// WeeklyCalendar assigns a phase's example ideas positionally to weekdays
// when the phase has at least seven, appending so later phases stack onto
// earlier ones. All seven weekday keys are always present; the default
// seeding applies only when every day ended up empty.
func WeeklyCalendar(phases []model.Phase) map[string][]string {
	calendar := make(map[string][]string, len(model.Weekdays))
	for _, day := range model.Weekdays {
		calendar[day] = []string{}
	}

	for _, phase := range phases {
		if phase.ContentPlan == nil || len(phase.ContentPlan.ExamplePostIdeas) < len(model.Weekdays) {
			continue
		}
		for i, day := range model.Weekdays {
			calendar[day] = append(calendar[day], phase.ContentPlan.ExamplePostIdeas[i])
		}
	}

	empty := true
	for _, day := range model.Weekdays {
		if len(calendar[day]) > 0 {
			empty = false
			break
		}
	}
	if empty {
		for day, ideas := range Defaults.CalendarSeed {
			calendar[day] = append([]string(nil), ideas...)
		}
	}
	return calendar
}

// ExampleScripts wraps up to five example ideas, in document order, in the
// fixed hook/content/call-to-action template. The three default scripts are
// used verbatim when no ideas exist.
func ExampleScripts(phases []model.Phase) []model.Script {
	var scripts []model.Script
	for _, phase := range phases {
		if phase.ContentPlan == nil {
			continue
		}
		for _, idea := range phase.ContentPlan.ExamplePostIdeas {
			if len(scripts) == maxScripts {
				return scripts
			}
			scripts = append(scripts, scriptFromIdea(phase, idea))
		}
	}
	if len(scripts) == 0 {
		return append([]model.Script(nil), Defaults.Scripts...)
	}
	return scripts
}

func scriptFromIdea(phase model.Phase, idea string) model.Script {
	title := idea
	// Truncate on rune boundaries so multibyte ideas stay valid UTF-8.
	if r := []rune(title); len(r) > 30 {
		title = string(r[:30]) + "..."
	}
	return model.Script{
		Title: title,
		Script: fmt.Sprintf(
			"# %s\n\n**Objective:** %s\n\n## Script:\n\n[Hook - Grab attention in the first 3 seconds]\n\n[Main Content - %s]\n\n[Call to Action - Ask viewers to engage]",
			phase.Title, phase.Goal, idea),
	}
}
