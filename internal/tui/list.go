package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/yoojuneho/Fair-or-Framed/internal/store"
)

func relativeTime(t time.Time) string {
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh", int(d.Hours()))
	case d < 7*24*time.Hour:
		return fmt.Sprintf("%dd", int(d.Hours()/24))
	default:
		return t.Format("Jan 2")
	}
}

func truncateStr(s string, n int) string {
	if n <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	if n <= 3 {
		return string(runes[:n])
	}
	return string(runes[:n-3]) + "..."
}

func renderRunItem(r store.Run, selected bool, width int) string {
	if width < 10 {
		width = 30
	}

	label := fmt.Sprintf("#%d %s", r.ID, r.Topic)
	var title string
	if selected {
		title = itemSelectedStyle.Render("> " + truncateStr(label, width-4))
	} else {
		title = itemTitleStyle.Render("  " + truncateStr(label, width-4))
	}

	meta := "  " + itemMetaStyle.Render(truncateStr(r.Model, width/2)) +
		" " + itemTimeStyle.Render("· "+relativeTime(r.CreatedAt))

	return title + "\n" + meta
}

func renderArticleItem(a store.Article, selected bool, width int) string {
	if width < 10 {
		width = 30
	}

	label := fmt.Sprintf("%d. %s", a.Position+1, a.Headline)
	var title string
	if selected {
		title = itemSelectedStyle.Render("> " + truncateStr(label, width-4))
	} else {
		title = itemTitleStyle.Render("  " + truncateStr(label, width-4))
	}

	meta := "  " + biasBadge(a.HumanBias)

	return title + "\n" + meta
}

func renderRunList(runs []store.Run, cursor int, height int, width int) string {
	if len(runs) == 0 {
		return centerText("No runs found", width, height)
	}
	return renderItems(len(runs), cursor, height, func(i int) string {
		return renderRunItem(runs[i], i == cursor, width)
	})
}

func renderArticleList(articles []store.Article, cursor int, height int, width int) string {
	if len(articles) == 0 {
		return centerText("No articles in this run", width, height)
	}
	return renderItems(len(articles), cursor, height, func(i int) string {
		return renderArticleItem(articles[i], i == cursor, width)
	})
}

// renderItems windows a two-line-per-item list around the cursor.
func renderItems(count, cursor, height int, render func(int) string) string {
	itemHeight := 3
	visible := height / itemHeight
	if visible < 1 {
		visible = 1
	}

	start := 0
	if cursor >= visible {
		start = cursor - visible + 1
	}
	end := start + visible
	if end > count {
		end = count
		start = end - visible
		if start < 0 {
			start = 0
		}
	}

	var b strings.Builder
	for i := start; i < end; i++ {
		b.WriteString(render(i))
		if i < end-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func centerText(s string, width, height int) string {
	pad := (width - len(s)) / 2
	if pad < 0 {
		pad = 0
	}
	return strings.Repeat("\n", height/3) + strings.Repeat(" ", pad) + s
}
