package tui

import (
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/yoojuneho/Fair-or-Framed/internal/store"
)

// filterBar toggles which generation models are shown in the run list.
type filterBar struct {
	models       []string
	active       map[string]bool
	filterMode   bool
	filterCursor int
}

func newFilterBar() filterBar {
	return filterBar{active: make(map[string]bool)}
}

// setModels rebuilds the toggle set from the loaded runs, keeping existing
// selections where the model still appears.
func (f *filterBar) setModels(runs []store.Run) {
	seen := map[string]bool{}
	f.models = f.models[:0]
	for _, r := range runs {
		if !seen[r.Model] {
			seen[r.Model] = true
			f.models = append(f.models, r.Model)
		}
	}
	sort.Strings(f.models)
	for m := range f.active {
		if !seen[m] {
			delete(f.active, m)
		}
	}
	if f.filterCursor >= len(f.models) {
		f.filterCursor = 0
	}
}

func (f *filterBar) toggle(model string) {
	if f.active[model] {
		delete(f.active, model)
	} else {
		f.active[model] = true
	}
}

func (f *filterBar) toggleCurrent() {
	if f.filterCursor < len(f.models) {
		f.toggle(f.models[f.filterCursor])
	}
}

// apply returns the runs matching the active model set; an empty set means all.
func (f *filterBar) apply(runs []store.Run) []store.Run {
	if len(f.active) == 0 {
		return runs
	}
	var out []store.Run
	for _, r := range runs {
		if f.active[r.Model] {
			out = append(out, r)
		}
	}
	return out
}

func (f *filterBar) activeLabel() string {
	if len(f.active) == 0 {
		return "All"
	}
	var parts []string
	for _, m := range f.models {
		if f.active[m] {
			parts = append(parts, m)
		}
	}
	return strings.Join(parts, ", ")
}

func (f *filterBar) render(width int) string {
	sep := tabSeparatorStyle.Render(" · ")
	var parts []string

	if len(f.active) == 0 {
		parts = append(parts, tabActiveStyle.Render("All"))
	} else {
		parts = append(parts, tabInactiveStyle.Render("All"))
	}

	for i, m := range f.models {
		style := tabInactiveStyle
		if f.active[m] {
			style = tabActiveStyle
		}
		label := m
		if f.filterMode && i == f.filterCursor {
			label = "[" + m + "]"
		}
		parts = append(parts, style.Render(label))
	}

	// Build row with · separators, stopping when we'd exceed width
	var row string
	for i, part := range parts {
		candidate := row
		if i > 0 {
			candidate += sep
		}
		candidate += part
		if lipgloss.Width(candidate) > width && row != "" {
			break
		}
		row = candidate
	}

	barStyle := lipgloss.NewStyle().
		Background(colorTabBg).
		Width(width).
		PaddingLeft(1)
	return barStyle.Render(row)
}
