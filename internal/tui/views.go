package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/edvall/newsdesk/internal/session"
	"github.com/edvall/newsdesk/internal/sim"
	"github.com/edvall/newsdesk/internal/suggest"
)

var (
	// Colors
	primaryColor = lipgloss.Color("#2563EB")
	successColor = lipgloss.Color("#10B981")
	warningColor = lipgloss.Color("#F59E0B")
	errorColor   = lipgloss.Color("#EF4444")
	mutedColor   = lipgloss.Color("#6B7280")
	fgColor      = lipgloss.Color("#F9FAFB")
	accentColor  = lipgloss.Color("#06B6D4")

	// Styles
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(primaryColor).
			Padding(0, 1)

	statusBarStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#374151")).
			Foreground(fgColor).
			Padding(0, 1)

	selectedStyle = lipgloss.NewStyle().
			Background(primaryColor).
			Foreground(fgColor).
			Bold(true).
			Padding(0, 1)

	itemStyle = lipgloss.NewStyle().
			Padding(0, 1)

	helpStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			Italic(true)

	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(mutedColor).
			Padding(0, 1)

	guideStyle = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(accentColor).
			Padding(1, 2)
)

// View implements tea.Model.
func (a *App) View() string {
	var b strings.Builder

	header := titleStyle.Render("NEWSDESK")
	header += "  " + lipgloss.NewStyle().Foreground(mutedColor).Render(a.cfg.APIAddr)
	b.WriteString(header + "\n")
	b.WriteString(strings.Repeat("─", maxInt(a.width, 20)) + "\n")

	switch a.mode {
	case "articles":
		b.WriteString(a.renderArticles())
	case "editor":
		b.WriteString(a.renderEditor())
	case "versions":
		b.WriteString(a.renderVersions())
	case "suggest":
		b.WriteString(a.renderSuggest())
	case "simulate":
		b.WriteString(a.renderSimulate())
	}

	if a.message != "" {
		msgStyle := lipgloss.NewStyle().Foreground(successColor)
		if strings.HasPrefix(a.message, "Error") {
			msgStyle = lipgloss.NewStyle().Foreground(errorColor)
		}
		b.WriteString("\n" + msgStyle.Render(a.message))
	}

	b.WriteString("\n" + statusBarStyle.Width(maxInt(a.width, 20)).Render(a.statusLine()))
	return b.String()
}

func (a *App) statusLine() string {
	switch a.mode {
	case "articles":
		return fmt.Sprintf(" Articles: %d | ↑↓:nav | Enter:edit | r:refresh | q:quit", len(a.articles))
	case "editor":
		return " Tab:title/body | Ctrl+S:save | Ctrl+V:history | Ctrl+G:rewrite | Ctrl+R:simulate | Esc:back"
	case "versions":
		return " ↑↓:nav | m:mark base | d:diff | x:clear | R:restore | Esc:back"
	case "suggest":
		return " ←→:mode | Enter:request | a:accept | r:reject | Esc:back"
	case "simulate":
		return " ←→:audience | Enter:run | Esc:back (cancels)"
	}
	return ""
}

func (a *App) renderArticles() string {
	if a.loading {
		return "\n  Loading articles...\n"
	}
	if len(a.articles) == 0 {
		return "\n  No articles. Press r to refresh.\n"
	}

	var lines []string
	for i, article := range a.articles {
		badge := statusBadge(article.Status)
		line := fmt.Sprintf("%s  %-40s  %s", badge, truncate(article.Headline, 40), article.Author)
		if i == a.selectedIdx {
			lines = append(lines, selectedStyle.Render("▶ "+line))
		} else {
			lines = append(lines, itemStyle.Render("  "+line))
		}
	}
	return "\n" + strings.Join(lines, "\n") + "\n"
}

func (a *App) renderEditor() string {
	if a.sess == nil {
		return "\n  Loading draft...\n"
	}
	snap := a.sess.Snapshot()

	var b strings.Builder
	b.WriteString(fmt.Sprintf("\n %s  %s\n\n", saveBadge(snap), lipgloss.NewStyle().Foreground(mutedColor).Render(fmt.Sprintf("v%d", snap.BaseVersion))))
	b.WriteString(" " + a.titleInput.View() + "\n\n")
	b.WriteString(panelStyle.Render(a.bodyInput.View()) + "\n")
	if snap.State == session.StateError && snap.Err != nil {
		b.WriteString("\n " + lipgloss.NewStyle().Foreground(errorColor).Render(snap.Err.Error()) + "\n")
		b.WriteString(" " + helpStyle.Render("Your edits are kept locally. Ctrl+S retries.") + "\n")
	}
	return b.String()
}

func (a *App) renderVersions() string {
	var b strings.Builder
	b.WriteString("\n  Version history\n\n")

	if a.diffLoaded {
		b.WriteString(panelStyle.Render(a.diffView.View()) + "\n")
		b.WriteString("  " + helpStyle.Render("x: back to list") + "\n")
		return b.String()
	}

	if a.loading {
		return "\n  Loading versions...\n"
	}
	if len(a.versions) == 0 {
		return "\n  No versions recorded yet.\n"
	}

	for i, rec := range a.versions {
		marker := "  "
		if rec.Version == a.diffFrom {
			marker = lipgloss.NewStyle().Foreground(accentColor).Render("◆ ")
		}
		line := fmt.Sprintf("%sv%-4d %-14s %s", marker, rec.Version, rec.Origin, rec.CreatedAt.Format("2006-01-02 15:04"))
		if i == a.versionIdx {
			b.WriteString(selectedStyle.Render("▶ "+line) + "\n")
		} else {
			b.WriteString(itemStyle.Render("  "+line) + "\n")
		}
	}
	return b.String()
}

func (a *App) renderSuggest() string {
	var b strings.Builder
	b.WriteString("\n  AI rewrite\n\n")

	var modes []string
	for i, m := range suggest.Modes {
		if i == a.suggestModeIdx {
			modes = append(modes, selectedStyle.Render(m))
		} else {
			modes = append(modes, itemStyle.Render(m))
		}
	}
	b.WriteString("  " + strings.Join(modes, " ") + "\n\n")

	if a.guideVisible {
		guide := fmt.Sprintf("First time using %q?\n\nThe rewrite is generated from your current draft and shown\nas a diff. Nothing changes until you accept it; accepting\ncreates a new version you can always restore from.\n\nEnter: got it    Esc: back", suggest.Modes[a.suggestModeIdx])
		b.WriteString(guideStyle.Render(guide) + "\n")
		return b.String()
	}

	if a.suggesting {
		b.WriteString("  " + a.spin.View() + " Generating rewrite...\n")
		return b.String()
	}

	if p := a.workflow.Pending(); p != nil {
		stats := fmt.Sprintf("+%d −%d", p.DiffStats.Added, p.DiffStats.Removed)
		b.WriteString(fmt.Sprintf("  %s  %s\n\n", lipgloss.NewStyle().Bold(true).Render(p.Title), lipgloss.NewStyle().Foreground(accentColor).Render(stats)))
		b.WriteString(panelStyle.Render(renderDiffText(p.DiffText)) + "\n\n")
		b.WriteString("  " + helpStyle.Render("a: accept as new version    r: reject") + "\n")
	} else {
		b.WriteString("  " + helpStyle.Render("Enter requests a rewrite of the live draft.") + "\n")
	}
	return b.String()
}

func (a *App) renderSimulate() string {
	var b strings.Builder
	b.WriteString("\n  Audience simulation\n\n")

	var opts []string
	for i, aud := range sim.Audiences {
		if i == a.audienceIdx {
			opts = append(opts, selectedStyle.Render(aud))
		} else {
			opts = append(opts, itemStyle.Render(aud))
		}
	}
	b.WriteString("  " + strings.Join(opts, " ") + "\n\n")

	switch {
	case a.simRunning:
		b.WriteString("  " + a.spin.View() + " Simulating audience impact...\n")
	case a.simErr != nil:
		b.WriteString("  " + lipgloss.NewStyle().Foreground(errorColor).Render(a.simErr.Error()) + "\n")
	case a.simReport != nil:
		b.WriteString("  " + lipgloss.NewStyle().Bold(true).Render(a.simReport.Summary) + "\n\n")
		for _, seg := range a.simReport.Segments {
			bar := engagementBar(seg.Engagement)
			b.WriteString(fmt.Sprintf("  %-20s %s %.0f%%  %s\n", seg.Segment, bar, seg.Engagement*100, seg.Sentiment))
			if seg.Notes != "" {
				b.WriteString("  " + helpStyle.Render(seg.Notes) + "\n")
			}
		}
	default:
		b.WriteString("  " + helpStyle.Render("Enter runs the simulation on the current draft.") + "\n")
	}
	return b.String()
}

func saveBadge(snap session.Snapshot) string {
	switch snap.State {
	case session.StateSaved:
		return lipgloss.NewStyle().Foreground(successColor).Render("● saved")
	case session.StateUnsaved:
		return lipgloss.NewStyle().Foreground(warningColor).Render("○ unsaved")
	case session.StateSaving:
		return lipgloss.NewStyle().Foreground(accentColor).Render("◐ saving…")
	case session.StateError:
		return lipgloss.NewStyle().Foreground(errorColor).Render("✗ save failed")
	}
	return string(snap.State)
}

func statusBadge(status string) string {
	switch status {
	case "draft":
		return lipgloss.NewStyle().Foreground(warningColor).Render("○ DRAFT")
	case "review":
		return lipgloss.NewStyle().Foreground(accentColor).Render("◐ REVIEW")
	case "published":
		return lipgloss.NewStyle().Foreground(successColor).Render("● LIVE")
	case "archived":
		return lipgloss.NewStyle().Foreground(mutedColor).Render("● ARCH")
	}
	return status
}

// renderDiffText colors unified-diff lines from the backend.
func renderDiffText(diff string) string {
	var out []string
	for _, line := range strings.Split(diff, "\n") {
		switch {
		case strings.HasPrefix(line, "+"):
			out = append(out, lipgloss.NewStyle().Foreground(successColor).Render(line))
		case strings.HasPrefix(line, "-"):
			out = append(out, lipgloss.NewStyle().Foreground(errorColor).Render(line))
		default:
			out = append(out, line)
		}
	}
	return strings.Join(out, "\n")
}

func engagementBar(v float64) string {
	if v < 0 {
		v = 0
	}
	if v > 1 {
		v = 1
	}
	filled := int(v * 10)
	return lipgloss.NewStyle().Foreground(primaryColor).Render(strings.Repeat("█", filled)) +
		lipgloss.NewStyle().Foreground(mutedColor).Render(strings.Repeat("░", 10-filled))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-1] + "…"
}
