// Package model defines the core strategy data types.
package model

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// StrategyDocument is the canonical parsed form of a generated strategy.
type StrategyDocument struct {
	Summary string  `json:"summary"`
	Phases  []Phase `json:"phases"`
}

// Phase is one stage of a content strategy.
type Phase struct {
	Title       string       `json:"title"`
	Goal        string       `json:"goal"`
	Tactics     []string     `json:"tactics"`
	ContentPlan *ContentPlan `json:"content_plan,omitempty"`
}

// ContentPlan holds a phase's posting schedule and example post ideas.
// It is only attached to a phase when at least one field is non-empty.
type ContentPlan struct {
	WeeklySchedule   map[string]int `json:"weekly_schedule,omitempty"`
	ExamplePostIdeas []string       `json:"example_post_ideas,omitempty"`
}

// Empty reports whether the plan carries no information.
func (p *ContentPlan) Empty() bool {
	return p == nil || (len(p.WeeklySchedule) == 0 && len(p.ExamplePostIdeas) == 0)
}

// Script is a synthesized example script.
type Script struct {
	Title  string `json:"title"`
	Script string `json:"script"`
}

// DerivedViews are the secondary views computed from a document.
type DerivedViews struct {
	ContentTypes   []string            `json:"content_types"`
	WeeklyCalendar map[string][]string `json:"weekly_calendar"`
	ExampleScripts []Script            `json:"example_scripts"`
}

// Weekdays are the calendar keys, in week order. The weekly calendar always
// contains exactly these seven keys.
var Weekdays = []string{
	"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday",
}

// Job statuses. A job is created pending and moves to exactly one terminal
// status; terminal rows never change again.
const (
	StatusPending   = "pending"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
	StatusCancelled = "cancelled"
	StatusExpired   = "expired"
)

// ValidStatuses are the allowed generation job statuses.
var ValidStatuses = map[string]bool{
	StatusPending:   true,
	StatusCompleted: true,
	StatusFailed:    true,
	StatusCancelled: true,
	StatusExpired:   true,
}

// TerminalStatus reports whether a status ends the job lifecycle.
func TerminalStatus(status string) bool {
	return ValidStatuses[status] && status != StatusPending
}

// GenerationJob tracks one asynchronous generation attempt.
type GenerationJob struct {
	JobID        string    `json:"job_id"`
	UserID       string    `json:"user_id"`
	Status       string    `json:"status"`
	ErrorMessage string    `json:"error_message,omitempty"`
	ResultText   string    `json:"result_text,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// StrategyRecord is the persisted, application-facing plan: the parsed
// document plus its derived views and activation state. At most one record
// per user is active at a time.
type StrategyRecord struct {
	ID          string           `json:"id"`
	JobID       string           `json:"job_id"`
	UserID      string           `json:"user_id"`
	Document    StrategyDocument `json:"document"`
	Views       DerivedViews     `json:"views"`
	RawText     string           `json:"raw_text,omitempty"`
	ConfirmedAt *time.Time       `json:"confirmed_at,omitempty"`
	IsActive    bool             `json:"is_active"`
	CreatedAt   time.Time        `json:"created_at"`
}

// Confirmed reports whether the record has been promoted by the user.
func (r *StrategyRecord) Confirmed() bool {
	return r.ConfirmedAt != nil
}

// Text renders the document as human-readable plan text.
func (d StrategyDocument) Text() string {
	var sb strings.Builder
	if d.Summary != "" {
		sb.WriteString(d.Summary)
		sb.WriteString("\n\n")
	}
	for i, phase := range d.Phases {
		fmt.Fprintf(&sb, "Phase %d: %s\n", i+1, phase.Title)
		if phase.Goal != "" {
			fmt.Fprintf(&sb, "Goal: %s\n", phase.Goal)
		}
		if len(phase.Tactics) > 0 {
			sb.WriteString("Tactics:\n")
			for _, t := range phase.Tactics {
				fmt.Fprintf(&sb, "- %s\n", t)
			}
		}
		if !phase.ContentPlan.Empty() {
			sb.WriteString("\nContent Plan:\n")
			if len(phase.ContentPlan.WeeklySchedule) > 0 {
				sb.WriteString("Weekly Schedule:\n")
				formats := make([]string, 0, len(phase.ContentPlan.WeeklySchedule))
				for f := range phase.ContentPlan.WeeklySchedule {
					formats = append(formats, f)
				}
				sort.Strings(formats)
				for _, f := range formats {
					fmt.Fprintf(&sb, "- %s: %dx per week\n", f, phase.ContentPlan.WeeklySchedule[f])
				}
			}
			if len(phase.ContentPlan.ExamplePostIdeas) > 0 {
				sb.WriteString("\nExample Post Ideas:\n")
				for _, idea := range phase.ContentPlan.ExamplePostIdeas {
					fmt.Fprintf(&sb, "- %s\n", idea)
				}
			}
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
