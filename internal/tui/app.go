// Package tui is the interactive annotation browser: it lists generation
// runs, shows each run's articles, and lets a human rater assign bias
// labels that feed the agreement analysis.
package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/yoojuneho/Fair-or-Framed/internal/store"
)

type focusPane int

const (
	focusList focusPane = iota
	focusPreview
)

type mode int

const (
	modeRuns mode = iota
	modeArticles
	modeSearch
	modeFilter
	modeHelp
)

type App struct {
	db       *store.Store
	runs     []store.Run // after model filter
	allRuns  []store.Run
	articles []store.Article

	mode      mode
	focus     focusPane
	runCursor int
	artCursor int

	// Which human slot the label keys write to.
	rater store.Rater

	width  int
	height int

	searchInput textinput.Model
	spinner     spinner.Model
	filterBar   filterBar

	loading       bool
	previewScroll int
	currentDate   string
	err           error
	notice        string
}

// RunOpts holds parameters for launching the annotation browser.
type RunOpts struct {
	DB    *store.Store
	Topic string
	Model string
}

func NewApp(opts RunOpts) *App {
	ti := textinput.New()
	ti.Placeholder = "Search topics..."
	ti.Prompt = searchPromptStyle.Render("/ ")
	ti.CharLimit = 100
	ti.SetValue(opts.Topic)

	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	sp.Style = spinnerStyle

	a := &App{
		db:          opts.DB,
		mode:        modeRuns,
		rater:       store.RaterHuman,
		searchInput: ti,
		spinner:     sp,
		filterBar:   newFilterBar(),
		currentDate: time.Now().Format("Jan 2"),
		loading:     true,
	}
	if opts.Model != "" {
		a.filterBar.active[opts.Model] = true
	}
	return a
}

func (a *App) Init() tea.Cmd {
	return tea.Batch(a.loadRunsCmd(), a.spinner.Tick)
}

// loadRunsCmd captures current query state into the closure to avoid races.
func (a *App) loadRunsCmd() tea.Cmd {
	opts := store.QueryOpts{Topic: a.searchInput.Value(), Limit: 500}
	db := a.db
	return func() tea.Msg {
		runs, err := db.GetRuns(opts)
		if err != nil {
			return storeErrMsg{err: err}
		}
		return runsLoadedMsg{runs: runs}
	}
}

func (a *App) loadArticlesCmd(runID int64) tea.Cmd {
	db := a.db
	return func() tea.Msg {
		articles, err := db.GetArticles(runID)
		if err != nil {
			return storeErrMsg{err: err}
		}
		return articlesLoadedMsg{runID: runID, articles: articles}
	}
}

func (a *App) saveBiasCmd(articleID int64, rater store.Rater, bias string) tea.Cmd {
	db := a.db
	return func() tea.Msg {
		if err := db.SetBias(articleID, rater, bias); err != nil {
			return storeErrMsg{err: err}
		}
		return biasSavedMsg{articleID: articleID, rater: rater, bias: bias}
	}
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil

	case tea.KeyMsg:
		// Clear sticky error and notice on any keypress
		a.err = nil
		a.notice = ""
		return a.handleKey(msg)

	case runsLoadedMsg:
		a.loading = false
		a.allRuns = msg.runs
		a.filterBar.setModels(a.allRuns)
		a.runs = a.filterBar.apply(a.allRuns)
		if a.runCursor >= len(a.runs) {
			a.runCursor = max(0, len(a.runs)-1)
		}
		return a, nil

	case articlesLoadedMsg:
		a.loading = false
		a.articles = msg.articles
		a.artCursor = 0
		a.previewScroll = 0
		a.mode = modeArticles
		return a, nil

	case biasSavedMsg:
		for i := range a.articles {
			if a.articles[i].ID == msg.articleID {
				switch msg.rater {
				case store.RaterHuman:
					a.articles[i].HumanBias = msg.bias
				case store.RaterHuman2:
					a.articles[i].Human2Bias = msg.bias
				}
				break
			}
		}
		a.notice = fmt.Sprintf("saved %s → %s", msg.rater, msg.bias)
		return a, nil

	case storeErrMsg:
		a.loading = false
		a.err = msg.err
		return a, nil

	case spinner.TickMsg:
		if a.loading {
			var cmd tea.Cmd
			a.spinner, cmd = a.spinner.Update(msg)
			return a, cmd
		}
		return a, nil
	}

	return a, nil
}

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return a, tea.Quit
	}

	switch a.mode {
	case modeArticles:
		return a.handleArticlesKey(msg)
	case modeSearch:
		return a.handleSearchKey(msg)
	case modeFilter:
		return a.handleFilterKey(msg)
	case modeHelp:
		if msg.String() == "?" || msg.String() == "esc" || msg.String() == "q" {
			a.mode = modeRuns
		}
		return a, nil
	}

	// Run list mode
	switch msg.String() {
	case "q":
		return a, tea.Quit
	case "j", "down":
		if a.runCursor < len(a.runs)-1 {
			a.runCursor++
		}
		return a, nil
	case "k", "up":
		if a.runCursor > 0 {
			a.runCursor--
		}
		return a, nil
	case "enter", "l", "right":
		if len(a.runs) > 0 && a.runCursor < len(a.runs) {
			a.loading = true
			return a, tea.Batch(a.loadArticlesCmd(a.runs[a.runCursor].ID), a.spinner.Tick)
		}
		return a, nil
	case "/":
		a.mode = modeSearch
		a.searchInput.Focus()
		return a, textinput.Blink
	case "f":
		a.mode = modeFilter
		a.filterBar.filterMode = true
		return a, nil
	case "r":
		a.loading = true
		return a, tea.Batch(a.loadRunsCmd(), a.spinner.Tick)
	case "?":
		a.mode = modeHelp
		return a, nil
	}

	return a, nil
}

func (a *App) handleArticlesKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return a, tea.Quit
	case "esc", "h", "left":
		a.mode = modeRuns
		a.articles = nil
		a.focus = focusList
		return a, nil
	case "j", "down":
		if a.focus == focusList && a.artCursor < len(a.articles)-1 {
			a.artCursor++
			a.previewScroll = 0
		} else if a.focus == focusPreview {
			a.previewScroll++
		}
		return a, nil
	case "k", "up":
		if a.focus == focusList && a.artCursor > 0 {
			a.artCursor--
			a.previewScroll = 0
		} else if a.focus == focusPreview && a.previewScroll > 0 {
			a.previewScroll--
		}
		return a, nil
	case "tab":
		if a.focus == focusList {
			a.focus = focusPreview
		} else {
			a.focus = focusList
		}
		return a, nil
	case "t":
		if a.rater == store.RaterHuman {
			a.rater = store.RaterHuman2
		} else {
			a.rater = store.RaterHuman
		}
		return a, nil
	case "1", "L":
		return a.setBias("left")
	case "2", "N":
		return a.setBias("neutral")
	case "3", "R":
		return a.setBias("right")
	case "x":
		return a.setBias("")
	case "?":
		a.mode = modeHelp
		return a, nil
	}
	return a, nil
}

func (a *App) setBias(bias string) (tea.Model, tea.Cmd) {
	if len(a.articles) == 0 || a.artCursor >= len(a.articles) {
		return a, nil
	}
	return a, a.saveBiasCmd(a.articles[a.artCursor].ID, a.rater, bias)
}

func (a *App) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		a.mode = modeRuns
		a.searchInput.SetValue("")
		a.searchInput.Blur()
		return a, a.loadRunsCmd()
	case "enter":
		a.mode = modeRuns
		a.searchInput.Blur()
		return a, a.loadRunsCmd()
	}

	var cmd tea.Cmd
	a.searchInput, cmd = a.searchInput.Update(msg)
	return a, cmd
}

func (a *App) handleFilterKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "f":
		a.mode = modeRuns
		a.filterBar.filterMode = false
		return a, nil
	case "left", "h":
		if a.filterBar.filterCursor > 0 {
			a.filterBar.filterCursor--
		}
		return a, nil
	case "right", "l":
		if a.filterBar.filterCursor < len(a.filterBar.models)-1 {
			a.filterBar.filterCursor++
		}
		return a, nil
	case " ", "enter":
		a.filterBar.toggleCurrent()
		a.runs = a.filterBar.apply(a.allRuns)
		a.runCursor = 0
		return a, nil
	case "1", "2", "3", "4", "5", "6", "7", "8", "9":
		idx := int(msg.String()[0] - '1')
		if idx < len(a.filterBar.models) {
			a.filterBar.toggle(a.filterBar.models[idx])
			a.runs = a.filterBar.apply(a.allRuns)
			a.runCursor = 0
		}
		return a, nil
	}
	return a, nil
}

func (a *App) View() string {
	if a.width == 0 {
		return lipgloss.NewStyle().Foreground(colorAccent).Render("  fairframe")
	}

	if a.mode == modeHelp {
		return a.renderHelp()
	}

	// Layout calculations
	headerHeight := 1
	filterHeight := 1
	statusHeight := 1
	contentHeight := a.height - headerHeight - filterHeight - statusHeight - 4 // borders

	listWidth := int(float64(a.width) * 0.35)
	previewWidth := a.width - listWidth - 1 // gap

	if contentHeight < 3 {
		contentHeight = 3
	}

	// Header
	headerLeft := headerStyle.Render("fairframe review")
	headerRight := headerDateStyle.Render(a.currentDate)
	headerGap := a.width - lipgloss.Width(headerLeft) - lipgloss.Width(headerRight)
	if headerGap < 0 {
		headerGap = 0
	}
	header := headerLeft + fmt.Sprintf("%*s", headerGap, "") + headerRight

	// Filter bar (replaced by search input while searching)
	filter := a.filterBar.render(a.width)
	if a.mode == modeSearch {
		filter = a.searchInput.View()
	}

	innerListW := listWidth - 4 // border + padding
	innerPreviewW := previewWidth - 4

	var listContent, previewContent string
	if a.mode == modeArticles {
		listContent = renderArticleList(a.articles, a.artCursor, contentHeight, innerListW)
		var selected *store.Article
		if len(a.articles) > 0 && a.artCursor < len(a.articles) {
			selected = &a.articles[a.artCursor]
		}
		previewContent = renderArticlePreview(selected, a.rater, innerPreviewW, contentHeight, a.previewScroll)
	} else {
		listContent = renderRunList(a.runs, a.runCursor, contentHeight, innerListW)
		var selected *store.Run
		if len(a.runs) > 0 && a.runCursor < len(a.runs) {
			selected = &a.runs[a.runCursor]
		}
		previewContent = renderRunPreview(selected, innerPreviewW, contentHeight)
	}

	var listPane string
	if a.focus == focusList {
		listPane = listPaneActiveStyle.Width(listWidth - 2).Height(contentHeight).Render(listContent)
	} else {
		listPane = listPaneStyle.Width(listWidth - 2).Height(contentHeight).Render(listContent)
	}

	var previewPane string
	if a.focus == focusPreview {
		previewPane = previewPaneActiveStyle.Width(previewWidth - 2).Height(contentHeight).Render(previewContent)
	} else {
		previewPane = previewPaneStyle.Width(previewWidth - 2).Height(contentHeight).Render(previewContent)
	}

	content := lipgloss.JoinHorizontal(lipgloss.Top, listPane, previewPane)

	status := a.renderStatus()

	return lipgloss.JoinVertical(lipgloss.Left, header, filter, content, status)
}

func (a *App) renderStatus() string {
	var left, right string
	if a.mode == modeArticles {
		left = fmt.Sprintf(" %d articles · rating as %s", len(a.articles), a.rater)
		right = " 1 left  2 neutral  3 right  x clear  t rater  esc back  q quit "
	} else {
		left = fmt.Sprintf(" %d runs", len(a.runs))
		if label := a.filterBar.activeLabel(); label != "All" {
			left += " · " + label
		}
		right = " enter open  / search  f filter  r reload  q quit "
	}
	if a.mode == modeSearch {
		right = " esc cancel  enter search "
	}

	if a.notice != "" {
		left += " · " + a.notice
	}
	if a.loading {
		left = a.spinner.View() + left
	}
	if a.err != nil {
		left = " " + lipgloss.NewStyle().Foreground(colorAccent).Render(a.err.Error())
	}

	return renderStatusBar(left, right, a.width)
}

func (a *App) renderHelp() string {
	title := lipgloss.NewStyle().Foreground(colorAccent).Bold(true).Render("fairframe review")
	dim := helpDimStyle

	help := title + dim.Render(" — Keyboard Shortcuts") + "\n\n" +
		dim.Render("Runs") + "\n" +
		"  j/k, ↑/↓     Navigate run list\n" +
		"  enter, l      Open run's articles\n" +
		"  /             Search by topic\n" +
		"  f             Filter by model\n" +
		"  r             Reload runs\n\n" +
		dim.Render("Articles") + "\n" +
		"  j/k, ↑/↓     Navigate articles / scroll preview\n" +
		"  tab           Switch focus between list and preview\n" +
		"  1/2/3         Label left / neutral / right\n" +
		"  x             Clear label\n" +
		"  t             Toggle rater (human / human2)\n" +
		"  esc, h        Back to runs\n\n" +
		dim.Render("General") + "\n" +
		"  ?             Toggle this help\n" +
		"  q, ctrl+c    Quit"

	card := helpCardStyle.Render(help)

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, card)
}

// Run starts the annotation browser.
func Run(opts RunOpts) error {
	app := NewApp(opts)
	p := tea.NewProgram(app, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
