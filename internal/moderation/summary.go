package moderation

import (
	"fmt"
	"strings"
)

// ListBudget is the character budget for a single listing in a report.
// Discord caps embed field values at 1024 characters; staying below 1000
// leaves room for the delimiter handling.
const ListBudget = 1000

// Tone classifies the overall outcome a report describes.
type Tone int

const (
	ToneSuccess Tone = iota
	ToneWarning
	ToneFailure
)

// ReportField is one named section of a report.
type ReportField struct {
	Name  string
	Value string
}

// Report is a bounded, render-agnostic summary of a batch action. The bot
// layer turns it into an embed; the core never touches message formatting.
type Report struct {
	Tone        Tone
	Title       string
	Description string
	Fields      []ReportField
}

// Summarize converts a batch result into a report. The verb is the past
// tense of the action ("banned", "kicked"), matching how the report reads.
func Summarize(actor Entity, verb, reason string, result BatchResult) Report {
	succeeded := renderList(result.Succeeded)
	failed := renderList(result.Failed)

	if len(result.Succeeded) == 0 {
		return Report{
			Tone:  ToneFailure,
			Title: fmt.Sprintf("Users couldn't be %s!", verb),
			Description: fmt.Sprintf(
				"None of the users could be %s! "+
					"Their roles may be higher than yours, or higher than this bot's.", verb),
		}
	}

	if len(result.Failed) > 0 {
		return Report{
			Tone:  ToneWarning,
			Title: fmt.Sprintf("Some users couldn't be %s!", verb),
			Description: fmt.Sprintf(
				"%d users were %s for \"%s\"\n"+
					"%d users couldn't be %s; their roles may be higher than yours, "+
					"or higher than this bot's.",
				len(result.Succeeded), verb, truncateReason(reason),
				len(result.Failed), verb),
			Fields: []ReportField{
				{Name: fmt.Sprintf("Users not %s:", verb), Value: ShortenBelowNumber(failed, ", ", ListBudget)},
				{Name: fmt.Sprintf("Users %s:", verb), Value: ShortenBelowNumber(succeeded, ", ", ListBudget)},
			},
		}
	}

	return Report{
		Tone:  ToneSuccess,
		Title: fmt.Sprintf("Users successfully %s!", verb),
		Description: fmt.Sprintf("%d users were %s for \"%s\"",
			len(result.Succeeded), verb, truncateReason(reason)),
		Fields: []ReportField{
			{Name: fmt.Sprintf("Users %s:", verb), Value: ShortenBelowNumber(succeeded, ", ", ListBudget)},
		},
	}
}

// ShortenBelowNumber joins items with the separator, stopping before the
// accumulated length would exceed the budget. Items are never split; the
// result always contains a whole number of items.
func ShortenBelowNumber(items []string, separator string, budget int) string {
	var b strings.Builder

	for _, item := range items {
		if b.Len()+len(item) > budget {
			break
		}

		b.WriteString(item)
		b.WriteString(separator)
	}

	return strings.TrimSuffix(b.String(), separator)
}

func renderList(entities []Entity) []string {
	items := make([]string, len(entities))
	for i, e := range entities {
		items[i] = e.String()
	}

	return items
}

func truncateReason(reason string) string {
	if len(reason) > ListBudget {
		return reason[:ListBudget]
	}

	return reason
}
