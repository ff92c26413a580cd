// Package tui provides the interactive terminal dashboard for newsdesk.
package tui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/edvall/newsdesk/internal/api"
	"github.com/edvall/newsdesk/internal/config"
	"github.com/edvall/newsdesk/internal/history"
	"github.com/edvall/newsdesk/internal/prefs"
	"github.com/edvall/newsdesk/internal/session"
	"github.com/edvall/newsdesk/internal/sim"
	"github.com/edvall/newsdesk/internal/suggest"
)

// App is the main dashboard model.
type App struct {
	cfg     *config.Config
	client  *api.Client
	prefs   *prefs.Store
	program *tea.Program

	mode    string // "articles", "editor", "versions", "suggest", "simulate"
	width   int
	height  int
	message string
	loading bool

	// Articles listing
	articles    []api.Article
	selectedIdx int

	// Editing session for the open draft
	sess       *session.Session
	workflow   *suggest.Workflow
	histSvc    *history.Service
	titleInput textinput.Model
	bodyInput  textarea.Model
	focusTitle bool

	// Version history pane
	versions   []api.VersionRecord
	versionIdx int
	diffFrom   int // marked "from" version; 0 = none
	diffView   viewport.Model
	diffLoaded bool

	// Suggestion pane
	suggestModeIdx int
	suggesting     bool
	guideVisible   bool
	spin           spinner.Model

	// Simulation pane
	simRunner   *sim.Runner
	simRunning  bool
	simCancel   context.CancelFunc
	simReport   *sim.Report
	simErr      error
	audienceIdx int
}

// New creates the dashboard. store may be nil when the preference database
// could not be opened; guide gating is simply skipped then.
func New(cfg *config.Config, client *api.Client, store *prefs.Store) *App {
	ti := textinput.New()
	ti.Placeholder = "Headline"
	ti.CharLimit = 200
	ti.Width = 80

	ta := textarea.New()
	ta.Placeholder = "Body"
	ta.ShowLineNumbers = false
	ta.SetWidth(80)
	ta.SetHeight(16)

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return &App{
		cfg:        cfg,
		client:     client,
		prefs:      store,
		mode:       "articles",
		titleInput: ti,
		bodyInput:  ta,
		diffView:   viewport.New(80, 16),
		spin:       sp,
		simRunner:  sim.NewRunner(client, cfg.PollInterval, cfg.PollMaxAttempts),
	}
}

// Run starts the dashboard.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen())
	a.program = p
	_, err := p.Run()
	a.teardown()
	return err
}

// teardown releases everything that may outlive the UI loop.
func (a *App) teardown() {
	a.closeSession()
	if a.simCancel != nil {
		a.simCancel()
		a.simCancel = nil
	}
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.Batch(a.fetchArticles(), a.spin.Tick)
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		switch a.mode {
		case "articles":
			return a.updateArticles(msg)
		case "editor":
			return a.updateEditor(msg)
		case "versions":
			return a.updateVersions(msg)
		case "suggest":
			return a.updateSuggest(msg)
		case "simulate":
			return a.updateSimulate(msg)
		}

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.titleInput.Width = msg.Width - 6
		a.bodyInput.SetWidth(msg.Width - 6)
		a.bodyInput.SetHeight(maxInt(6, msg.Height-12))
		a.diffView.Width = msg.Width - 4
		a.diffView.Height = maxInt(6, msg.Height-12)

	case articlesLoadedMsg:
		a.loading = false
		a.articles = msg.articles
		if a.selectedIdx >= len(a.articles) {
			a.selectedIdx = maxInt(0, len(a.articles)-1)
		}

	case draftLoadedMsg:
		a.openSession(msg.draft)

	case sessionChangedMsg:
		// The session notified a transition from a timer or save goroutine;
		// nothing to mutate, the next render reads a fresh snapshot.

	case versionsLoadedMsg:
		a.loading = false
		a.versions = msg.records
		if a.versionIdx >= len(a.versions) {
			a.versionIdx = maxInt(0, len(a.versions)-1)
		}

	case diffLoadedMsg:
		a.loading = false
		a.diffLoaded = true
		a.diffView.SetContent(msg.diff.DiffText)
		a.diffView.GotoTop()

	case restoredMsg:
		a.loading = false
		a.syncInputsFromSession()
		a.message = fmt.Sprintf("Restored as v%d", msg.draft.Version)
		return a, a.fetchVersions()

	case suggestionReadyMsg:
		a.suggesting = false
		if msg.err != nil {
			a.message = "Error: " + msg.err.Error()
			return a, nil
		}
		a.message = ""

	case suggestionDecidedMsg:
		if msg.err != nil {
			a.message = "Error: " + msg.err.Error()
			return a, nil
		}
		a.syncInputsFromSession()
		if msg.accepted {
			a.message = "Rewrite accepted as new version"
		} else {
			a.message = "Rewrite discarded"
		}
		a.mode = "editor"

	case simDoneMsg:
		a.simRunning = false
		a.simCancel = nil
		a.simReport = msg.report
		a.simErr = msg.err

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.spin, cmd = a.spin.Update(msg)
		return a, cmd

	case errMsg:
		a.loading = false
		a.message = "Error: " + msg.err.Error()
	}

	return a, nil
}

func (a *App) updateArticles(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return a, tea.Quit
	case "up", "k":
		if a.selectedIdx > 0 {
			a.selectedIdx--
		}
	case "down", "j":
		if a.selectedIdx < len(a.articles)-1 {
			a.selectedIdx++
		}
	case "r":
		return a, a.fetchArticles()
	case "enter":
		if len(a.articles) == 0 {
			return a, nil
		}
		article := a.articles[a.selectedIdx]
		a.message = ""
		return a, a.fetchDraft(article.ID)
	}
	return a, nil
}

func (a *App) fetchArticles() tea.Cmd {
	a.loading = true
	return func() tea.Msg {
		articles, err := a.client.ListArticles(context.Background(), "")
		if err != nil {
			return errMsg{err}
		}
		return articlesLoadedMsg{articles}
	}
}

func (a *App) fetchDraft(articleID string) tea.Cmd {
	return func() tea.Msg {
		draft, err := a.client.GetDraft(context.Background(), articleID)
		if err != nil {
			return errMsg{err}
		}
		return draftLoadedMsg{draft}
	}
}

func (a *App) fetchVersions() tea.Cmd {
	a.loading = true
	return func() tea.Msg {
		records, err := a.histSvc.List(context.Background())
		if err != nil {
			return errMsg{err}
		}
		return versionsLoadedMsg{records}
	}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

type articlesLoadedMsg struct {
	articles []api.Article
}

type draftLoadedMsg struct {
	draft *api.Draft
}

// sessionChangedMsg is posted by the session's notify hook whenever the save
// state machine transitions.
type sessionChangedMsg struct{}

type versionsLoadedMsg struct {
	records []api.VersionRecord
}

type diffLoadedMsg struct {
	diff *api.Diff
}

type restoredMsg struct {
	draft *api.Draft
}

type suggestionReadyMsg struct {
	err error
}

type suggestionDecidedMsg struct {
	accepted bool
	err      error
}

type simDoneMsg struct {
	report *sim.Report
	err    error
}

type errMsg struct {
	err error
}
