package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/verte-zerg/simonsays/internal/engine"
	"github.com/verte-zerg/simonsays/internal/model"
)

const glyphWidth = 5

var (
	titleStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Bold(true)
	commandedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	plainStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	successStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#52C41A"))
	failureStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	hintStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	footerStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	promptBoxStyle = lipgloss.NewStyle().
			Padding(1, 4).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A")).
			Align(lipgloss.Center)
	bannerStyle = lipgloss.NewStyle().
			Padding(1, 2).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#FF4D4F")).
			Align(lipgloss.Center)
)

var instructions = []string{
	"Follow the prompts to complete the game:",
	`1. If "Simon says" is shown, perform the gesture (tilt or shake) before the timer runs out.`,
	`2. If "Simon says" is NOT shown, stay still and let the timer expire.`,
	"The game ends when you make a mistake. Your streak counts the correct actions in a row.",
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.showStats {
		return m.stats.View()
	}
	content := m.renderContent()
	footer := m.renderFooter()
	if m.width == 0 || m.height == 0 {
		return content + "\n" + footer
	}
	if m.height < 3 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
	}
	body := lipgloss.Place(m.width, m.height-1, lipgloss.Center, lipgloss.Center, content)
	footerLine := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, footer)
	return body + "\n" + footerLine
}

func (m *Model) renderContent() string {
	title := titleStyle.Render("Simon Says")
	switch m.engine.State() {
	case engine.Running:
		return lipgloss.JoinVertical(lipgloss.Center,
			title,
			"",
			m.renderPrompt(),
			"",
			m.renderCountdown(),
			"",
			m.renderStatus(),
		)
	case engine.Ended:
		banner := m.engine.Message()
		if m.hasLast {
			banner += "\n" + describeOutcome(m.last)
		}
		return lipgloss.JoinVertical(lipgloss.Center,
			title,
			"",
			bannerStyle.Render(banner),
			"",
			m.renderStatus(),
			hintStyle.Render("Press enter to play again"),
		)
	default:
		return lipgloss.JoinVertical(lipgloss.Center,
			title,
			"",
			hintStyle.Render(strings.Join(instructions, "\n")),
			"",
			hintStyle.Render("Press enter to start"),
		)
	}
}

func (m *Model) renderPrompt() string {
	p, ok := m.engine.Prompt()
	if !ok {
		return ""
	}
	style := plainStyle
	if p.Commanded {
		style = commandedStyle
	}
	glyph := centerCell(gestureGlyph(p.Gesture), glyphWidth)
	return promptBoxStyle.Render(style.Render(glyph) + "\n\n" + style.Render(p.String()))
}

func (m *Model) renderCountdown() string {
	return fmt.Sprintf("%s %ds", m.bar.ViewAs(m.engine.Progress()), m.engine.Timer())
}

func (m *Model) renderStatus() string {
	segments := []string{
		fmt.Sprintf("Streak %d", m.engine.Streak()),
		fmt.Sprintf("Best %d", m.session.HighScore()),
	}
	if runs := m.session.Runs(); runs > 0 {
		segments = append(segments, fmt.Sprintf("Runs %d · Avg %.1f", runs, m.session.AverageStreak()))
	}
	if m.hasLast && m.engine.Running() {
		segments = append(segments, describeOutcome(m.last))
	}
	if len(m.weakSet) > 0 {
		segments = append(segments, "Focus "+weakNames(m.weakSet))
	}
	return strings.Join(segments, "  ")
}

func (m *Model) renderFooter() string {
	return footerStyle.Render(m.help.View(m.keys))
}

func describeOutcome(o model.RoundOutcome) string {
	if o.Result == model.Success {
		return successStyle.Render(fmt.Sprintf("✓ %s %.2fs", o.Prompt, o.Reaction.Seconds()))
	}
	detail := string(o.Cause)
	if o.Gesture != model.None {
		detail += ": " + o.Gesture.String()
	}
	return failureStyle.Render(fmt.Sprintf("✗ %s (%s)", o.Prompt, detail))
}

func gestureGlyph(g model.Gesture) string {
	switch g {
	case model.Up:
		return "↑"
	case model.Down:
		return "↓"
	case model.Left:
		return "←"
	case model.Right:
		return "→"
	case model.Shake:
		return "≋≋"
	default:
		return "·"
	}
}

// centerCell pads s to width terminal cells.
func centerCell(s string, width int) string {
	w := runewidth.StringWidth(s)
	if w >= width {
		return s
	}
	left := (width - w) / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", width-w-left)
}

func weakNames(set map[model.Gesture]struct{}) string {
	names := make([]string, 0, len(set))
	for _, g := range model.Gestures {
		if _, ok := set[g]; ok {
			names = append(names, g.String())
		}
	}
	return strings.Join(names, ",")
}
