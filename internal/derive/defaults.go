package derive

import "github.com/socialmize/strategy-engine/internal/model"

// Defaults enumerates what each view produces when the document gives the
// builder nothing to work with.
var Defaults = struct {
	ContentTypes []string
	CalendarSeed map[string][]string
	Scripts      []model.Script
}{
	ContentTypes: []string{"Video", "Carousel", "Post", "Story"},
	CalendarSeed: map[string][]string{
		"Monday":    {"Share a quick tip from your niche"},
		"Wednesday": {"Post a behind-the-scenes moment"},
		"Friday":    {"Answer a common question from your audience"},
		"Sunday":    {"Recap your week and tease what's next"},
	},
	Scripts: []model.Script{
		{
			Title:  "Starter Script 1",
			Script: "# Starter Script\n\n**Objective:** Build your audience\n\n## Script:\n\n[Hook - Grab attention in the first 3 seconds]\n\n[Main Content - Deliver value to your audience]\n\n[Call to Action - Ask for engagement]",
		},
		{
			Title:  "Starter Script 2",
			Script: "# Starter Script\n\n**Objective:** Show your expertise\n\n## Script:\n\n[Hook - Open with a surprising fact]\n\n[Main Content - Teach one thing your audience can use today]\n\n[Call to Action - Ask viewers to share their take]",
		},
		{
			Title:  "Starter Script 3",
			Script: "# Starter Script\n\n**Objective:** Build trust\n\n## Script:\n\n[Hook - Start with a relatable struggle]\n\n[Main Content - Tell the story of how you got past it]\n\n[Call to Action - Invite followers to join you]",
		},
	},
}
