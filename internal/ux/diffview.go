package ux

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/felixgeelhaar/planweave/internal/diff"
)

var (
	addedStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	removedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	modifiedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	unchangedStyle = lipgloss.NewStyle().Faint(true)
	headerStyle    = lipgloss.NewStyle().Bold(true)
)

// DiffView renders a structural plan diff as indented text, one line
// per node, with +/-/~ markers.
type DiffView struct {
	NoColor bool
	// HideUnchanged drops unchanged leaves so large plans stay readable
	HideUnchanged bool
}

// Render produces the full diff listing
func (v *DiffView) Render(entries []diff.MilestoneEntry) string {
	var b strings.Builder
	summary := diff.Summarize(entries)

	header := fmt.Sprintf("%d added, %d removed, %d modified, %d unchanged",
		summary.Added, summary.Removed, summary.Modified, summary.Unchanged)
	if diff.IsClean(entries) {
		header = fmt.Sprintf("no structural changes (%d unchanged)", summary.Unchanged)
	}
	b.WriteString(v.style(headerStyle, header))
	b.WriteString("\n")

	for _, m := range entries {
		if v.skip(m.Status) {
			continue
		}
		b.WriteString(v.line(0, m.Status, milestoneTitle(m)))
		for _, d := range m.Children {
			if v.skip(d.Status) {
				continue
			}
			b.WriteString(v.line(1, d.Status, deliverableTitle(d)))
			for _, task := range d.Children {
				if v.skip(task.Status) {
					continue
				}
				b.WriteString(v.line(2, task.Status, taskTitle(task)))
			}
		}
	}
	return b.String()
}

func (v *DiffView) skip(status diff.Status) bool {
	return v.HideUnchanged && status == diff.StatusUnchanged
}

func (v *DiffView) line(depth int, status diff.Status, title string) string {
	marker, style := " ", unchangedStyle
	switch status {
	case diff.StatusAdded:
		marker, style = "+", addedStyle
	case diff.StatusRemoved:
		marker, style = "-", removedStyle
	case diff.StatusModified:
		marker, style = "~", modifiedStyle
	}
	text := fmt.Sprintf("%s %s%s", marker, strings.Repeat("  ", depth), title)
	return v.style(style, text) + "\n"
}

func (v *DiffView) style(s lipgloss.Style, text string) string {
	if v.NoColor {
		return text
	}
	return s.Render(text)
}

func milestoneTitle(e diff.MilestoneEntry) string {
	if e.Status == diff.StatusRemoved {
		return e.Old.Title
	}
	return e.New.Title
}

func deliverableTitle(e diff.DeliverableEntry) string {
	if e.Status == diff.StatusRemoved {
		return e.Old.Title
	}
	return e.New.Title
}

func taskTitle(e diff.TaskEntry) string {
	if e.Status == diff.StatusRemoved {
		return e.Old.Title
	}
	return e.New.Title
}
