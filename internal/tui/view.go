package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/speedtype/internal/model"
)

var (
	correctStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	incorrectStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	pendingStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	currentWordStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	mutedStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	selectedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	badgeStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Padding(0, 1)
	noticeStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#8FBF7F"))
	errorStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	titleStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	bigValueStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	overlayStyle     = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#C89A3A")).
				Padding(1, 3).
				Align(lipgloss.Center)
)

// View implements tea.Model.
func (m *Model) View() string {
	var body string
	if m.session.Status() == model.StatusCompleted && m.result != nil {
		body = m.renderResult()
	} else {
		body = m.renderTest()
	}
	footer := m.renderFooter()
	if m.width == 0 || m.height == 0 {
		return body + "\n\n" + footer
	}
	if m.height < 3 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, body)
	}
	content := lipgloss.Place(m.width, m.height-1, lipgloss.Center, lipgloss.Center, body)
	return content + "\n" + lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, footer)
}

func (m *Model) renderTest() string {
	target, typed := m.session.Runes()
	cursorIndex := -1
	if len(typed) < len(target) {
		cursorIndex = len(typed)
	}
	styled := buildStyledRunes(target, typed, cursorIndex)

	contentWidth := 0
	if m.width > 0 {
		contentWidth = max(2, int(float64(m.width)*0.70))
	}
	// One cell is reserved for the space a wrapped line may end with.
	passage := wrapStyledRunes(styled, contentWidth-1)
	if contentWidth > 0 {
		passage = lipgloss.NewStyle().Width(contentWidth).Render(passage)
	}

	parts := []string{m.renderDurations(), m.renderStatsBar(), "", passage}
	if m.session.Status() == model.StatusIdle {
		parts = append(parts, "", mutedStyle.Render("Start typing to begin the test"))
	}
	return lipgloss.JoinVertical(lipgloss.Center, parts...)
}

func (m *Model) renderDurations() string {
	current := m.session.Duration()
	inert := m.session.Status() != model.StatusIdle
	items := make([]string, 0, len(model.Durations))
	for _, d := range model.Durations {
		switch {
		case d == current && !inert:
			items = append(items, selectedStyle.Render("["+d.String()+"]"))
		case d == current:
			items = append(items, correctStyle.Render("["+d.String()+"]"))
		default:
			items = append(items, mutedStyle.Render(" "+d.String()+" "))
		}
	}
	return strings.Join(items, " ")
}

func (m *Model) renderStatsBar() string {
	metrics := m.session.Metrics()
	segments := []string{
		fmt.Sprintf("%ds", m.session.TimeRemaining()),
		fmt.Sprintf("%d WPM", metrics.WPM),
		fmt.Sprintf("%d%%", metrics.Accuracy),
	}
	for i, s := range segments {
		segments[i] = badgeStyle.Render(s)
	}
	return strings.Join(segments, mutedStyle.Render("·"))
}

func (m *Model) renderResult() string {
	r := m.result
	lines := []string{
		titleStyle.Render("Test Complete!"),
		"",
		bigValueStyle.Render(fmt.Sprintf("%d WPM", r.WPM)),
		fmt.Sprintf("Accuracy: %d%%", r.Accuracy),
		mutedStyle.Render(fmt.Sprintf("Raw WPM: %d", r.RawWPM)),
		mutedStyle.Render(fmt.Sprintf("Characters: %d correct · %d incorrect · %d extra · %d missed",
			r.CorrectCharacters, r.IncorrectCharacters, r.ExtraCharacters, r.MissedCharacters)),
		mutedStyle.Render(fmt.Sprintf("Duration: %s", r.Duration)),
	}
	if m.notice != "" {
		style := noticeStyle
		if m.noticeErr {
			style = errorStyle
		}
		lines = append(lines, "", style.Render(m.notice))
	}
	return overlayStyle.Render(lipgloss.JoinVertical(lipgloss.Center, lines...))
}

func (m *Model) renderFooter() string {
	target := m.session.Len()
	progress := 0
	if target > 0 {
		progress = int(float64(m.session.Cursor()) / float64(target) * 100)
	}
	return mutedStyle.Render(fmt.Sprintf("Progress %d%%", progress)) + "  " + m.help.View(m.keys)
}
