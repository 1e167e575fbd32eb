package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/yoojuneho/Fair-or-Framed/internal/store"
)

func renderRunPreview(run *store.Run, width, height int) string {
	if run == nil {
		return centerText("Select a run", width, height)
	}

	contentWidth := width - 2
	if contentWidth < 10 {
		contentWidth = 10
	}

	title := previewTitleStyle.Width(contentWidth).Render(run.Topic)
	meta := previewMetaStyle.Render(fmt.Sprintf(
		"%s · %s · temp %.1f · seed %d · %s",
		run.Model, run.PromptFormat, run.Temperature, run.Seed,
		run.CreatedAt.Format("Jan 2, 2006"),
	))

	var b strings.Builder
	b.WriteString(fmt.Sprintf("sampled %d opinions (left ratio %.1f)\n\n", run.SampleSize, run.LeftRatio))
	for _, op := range run.SampledOpinions {
		b.WriteString("  " + truncateStr(op, contentWidth-2) + "\n")
	}
	body := previewBodyStyle.Width(contentWidth).Render(b.String())

	content := lipgloss.JoinVertical(lipgloss.Left, title, meta, "", body)
	return fitHeight(content, height, 0)
}

func renderArticlePreview(a *store.Article, activeRater store.Rater, width, height, scroll int) string {
	if a == nil {
		return centerText("Select an article", width, height)
	}

	contentWidth := width - 2
	if contentWidth < 10 {
		contentWidth = 10
	}

	title := previewTitleStyle.Width(contentWidth).Render(a.Headline)

	badges := renderRaterBadges(a, activeRater)

	text := a.Body
	if text == "" {
		text = "(Empty article body)"
	}
	body := previewBodyStyle.Width(contentWidth).Render(wrapText(text, contentWidth))

	content := lipgloss.JoinVertical(lipgloss.Left, title, badges, "", body)
	return fitHeight(content, height, scroll)
}

func renderRaterBadges(a *store.Article, active store.Rater) string {
	raters := []struct {
		r    store.Rater
		name string
	}{
		{store.RaterHuman, "human"},
		{store.RaterHuman2, "human2"},
		{store.RaterModel, "model"},
	}

	var parts []string
	for _, it := range raters {
		name := it.name
		if it.r == active {
			name = "[" + name + "]"
		}
		parts = append(parts, itemTimeStyle.Render(name)+" "+biasBadge(a.Bias(it.r)))
	}
	return strings.Join(parts, "  ")
}

func fitHeight(content string, height, scroll int) string {
	lines := strings.Split(content, "\n")
	if scroll > 0 && scroll < len(lines) {
		lines = lines[scroll:]
	}
	if len(lines) < height {
		lines = append(lines, make([]string, height-len(lines))...)
	} else if len(lines) > height {
		lines = lines[:height]
	}
	return strings.Join(lines, "\n")
}

func wrapText(s string, width int) string {
	if width <= 0 {
		return s
	}
	words := strings.Fields(s)
	if len(words) == 0 {
		return ""
	}

	var lines []string
	line := words[0]
	for _, w := range words[1:] {
		if len(line)+1+len(w) > width {
			lines = append(lines, line)
			line = w
		} else {
			line += " " + w
		}
	}
	lines = append(lines, line)
	return strings.Join(lines, "\n")
}
