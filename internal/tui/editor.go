package tui

import (
	"context"
	"fmt"
	"log"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/edvall/newsdesk/internal/api"
	"github.com/edvall/newsdesk/internal/history"
	"github.com/edvall/newsdesk/internal/session"
	"github.com/edvall/newsdesk/internal/sim"
	"github.com/edvall/newsdesk/internal/suggest"
)

// openSession tears down any previous session and starts editing the given
// draft. Selecting another draft therefore always cancels pending autosave
// timers for the old one.
func (a *App) openSession(draft *api.Draft) {
	a.closeSession()

	notify := func() {
		if a.program != nil {
			a.program.Send(sessionChangedMsg{})
		}
	}
	saver := session.SaverFunc(func(ctx context.Context, req session.SaveRequest) (int, error) {
		result, err := a.client.SaveDraft(ctx, req.ArticleID, api.AutosaveRequest{
			Title:       req.Title,
			Body:        req.Body,
			BaseVersion: req.BaseVersion,
			Origin:      req.Origin,
			Note:        req.Note,
		})
		if err != nil {
			return 0, err
		}
		return result.Version, nil
	})

	a.sess = session.Open(draft.ArticleID, draft.Title, draft.Body, draft.Version, saver, a.cfg.AutosaveDelay, notify)
	a.workflow = suggest.New(draft.ArticleID, a.client, a.sess, a.guideStore())
	a.histSvc = history.New(draft.ArticleID, a.client, a.sess)

	a.titleInput.SetValue(draft.Title)
	a.bodyInput.SetValue(draft.Body)
	a.focusTitle = false
	a.titleInput.Blur()
	a.bodyInput.Focus()

	a.versions = nil
	a.versionIdx = 0
	a.diffFrom = 0
	a.diffLoaded = false
	a.simReport = nil
	a.simErr = nil
	a.mode = "editor"
	a.message = ""

	if a.prefs != nil {
		if err := a.prefs.SetLastArticle(draft.ArticleID); err != nil {
			log.Printf("record last article: %v", err)
		}
	}
}

func (a *App) guideStore() suggest.GuideStore {
	if a.prefs == nil {
		return nil
	}
	return a.prefs
}

// closeSession destroys the editing session, cancelling its timers, and
// stops any running simulation tied to the old draft.
func (a *App) closeSession() {
	if a.sess != nil {
		a.sess.Close()
		a.sess = nil
	}
	a.workflow = nil
	a.histSvc = nil
	if a.simCancel != nil {
		a.simCancel()
		a.simCancel = nil
		a.simRunning = false
	}
}

// syncInputsFromSession refreshes the widgets after the session adopted
// content from outside the keyboard (accepted rewrite, restore).
func (a *App) syncInputsFromSession() {
	if a.sess == nil {
		return
	}
	snap := a.sess.Snapshot()
	a.titleInput.SetValue(snap.Title)
	a.bodyInput.SetValue(snap.Body)
}

func (a *App) updateEditor(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		a.closeSession()
		a.mode = "articles"
		return a, a.fetchArticles()

	case "tab":
		a.focusTitle = !a.focusTitle
		if a.focusTitle {
			a.bodyInput.Blur()
			a.titleInput.Focus()
		} else {
			a.titleInput.Blur()
			a.bodyInput.Focus()
		}
		return a, nil

	case "ctrl+s":
		a.sess.SaveNow("manual checkpoint")
		return a, nil

	case "ctrl+v":
		a.mode = "versions"
		a.diffFrom = 0
		a.diffLoaded = false
		return a, a.fetchVersions()

	case "ctrl+g":
		a.mode = "suggest"
		a.guideVisible = a.workflow.NeedsGuide(suggest.Modes[a.suggestModeIdx])
		return a, nil

	case "ctrl+r":
		a.mode = "simulate"
		return a, nil
	}

	// Route the keystroke into the focused widget, then feed any content
	// change into the session so the debounce/autosave cycle runs.
	var cmd tea.Cmd
	if a.focusTitle {
		a.titleInput, cmd = a.titleInput.Update(msg)
		if a.sess != nil && a.titleInput.Value() != a.sess.Snapshot().Title {
			a.sess.SetTitle(a.titleInput.Value())
		}
	} else {
		a.bodyInput, cmd = a.bodyInput.Update(msg)
		if a.sess != nil && a.bodyInput.Value() != a.sess.Snapshot().Body {
			a.sess.SetBody(a.bodyInput.Value())
		}
	}
	return a, cmd
}

func (a *App) updateVersions(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		a.mode = "editor"
		return a, nil
	case "up", "k":
		if a.diffLoaded {
			var cmd tea.Cmd
			a.diffView, cmd = a.diffView.Update(msg)
			return a, cmd
		}
		if a.versionIdx > 0 {
			a.versionIdx--
		}
	case "down", "j":
		if a.diffLoaded {
			var cmd tea.Cmd
			a.diffView, cmd = a.diffView.Update(msg)
			return a, cmd
		}
		if a.versionIdx < len(a.versions)-1 {
			a.versionIdx++
		}
	case "m":
		// Mark the selected version as the diff base.
		if len(a.versions) > 0 {
			a.diffFrom = a.versions[a.versionIdx].Version
			a.message = fmt.Sprintf("Diff base: v%d — select another version and press d", a.diffFrom)
		}
	case "d":
		if len(a.versions) == 0 {
			return a, nil
		}
		from := a.diffFrom
		to := a.versions[a.versionIdx].Version
		if from == 0 {
			// Without a mark, diff the selection against the current version.
			from = a.sess.Snapshot().BaseVersion
		}
		return a, a.loadDiff(from, to)
	case "x":
		a.diffLoaded = false
		a.diffFrom = 0
		a.message = ""
	case "R":
		if len(a.versions) == 0 {
			return a, nil
		}
		return a, a.restoreVersion(a.versions[a.versionIdx].Version)
	case "r":
		return a, a.fetchVersions()
	}
	return a, nil
}

func (a *App) loadDiff(from, to int) tea.Cmd {
	a.loading = true
	svc := a.histSvc
	return func() tea.Msg {
		diff, err := svc.Diff(context.Background(), from, to)
		if err != nil {
			return errMsg{err}
		}
		return diffLoadedMsg{diff}
	}
}

func (a *App) restoreVersion(version int) tea.Cmd {
	a.loading = true
	svc := a.histSvc
	return func() tea.Msg {
		draft, err := svc.Restore(context.Background(), version)
		if err != nil {
			return errMsg{err}
		}
		return restoredMsg{draft}
	}
}

func (a *App) updateSuggest(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.guideVisible {
		switch msg.String() {
		case "enter", "y":
			mode := suggest.Modes[a.suggestModeIdx]
			if err := a.workflow.AcknowledgeGuide(mode); err != nil {
				log.Printf("acknowledge guide: %v", err)
			}
			a.guideVisible = false
		case "esc":
			a.guideVisible = false
			a.mode = "editor"
		}
		return a, nil
	}

	switch msg.String() {
	case "esc":
		a.mode = "editor"
		return a, nil
	case "left", "h":
		if a.suggestModeIdx > 0 {
			a.suggestModeIdx--
		}
	case "right", "l":
		if a.suggestModeIdx < len(suggest.Modes)-1 {
			a.suggestModeIdx++
		}
	case "enter":
		if a.suggesting {
			return a, nil
		}
		mode := suggest.Modes[a.suggestModeIdx]
		if a.workflow.NeedsGuide(mode) {
			a.guideVisible = true
			return a, nil
		}
		a.suggesting = true
		return a, tea.Batch(a.requestSuggestion(mode), a.spin.Tick)
	case "a":
		if a.workflow.Pending() == nil {
			return a, nil
		}
		return a, a.decideSuggestion(true)
	case "r":
		if a.workflow.Pending() == nil {
			return a, nil
		}
		return a, a.decideSuggestion(false)
	}
	return a, nil
}

func (a *App) requestSuggestion(mode string) tea.Cmd {
	wf := a.workflow
	return func() tea.Msg {
		_, err := wf.Request(context.Background(), mode)
		return suggestionReadyMsg{err}
	}
}

func (a *App) decideSuggestion(accept bool) tea.Cmd {
	wf := a.workflow
	return func() tea.Msg {
		var err error
		if accept {
			err = wf.Accept()
		} else {
			err = wf.Reject()
		}
		return suggestionDecidedMsg{accepted: accept, err: err}
	}
}

func (a *App) updateSimulate(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		if a.simCancel != nil {
			a.simCancel()
			a.simCancel = nil
			a.simRunning = false
		}
		a.mode = "editor"
		return a, nil
	case "left", "h":
		if a.audienceIdx > 0 {
			a.audienceIdx--
		}
	case "right", "l":
		if a.audienceIdx < len(sim.Audiences)-1 {
			a.audienceIdx++
		}
	case "enter":
		return a, a.startSimulation()
	}
	return a, nil
}

// startSimulation submits a run for the live draft. A new submission for the
// same slot cancels the previous loop first, so stale polls never touch the
// model.
func (a *App) startSimulation() tea.Cmd {
	if a.simCancel != nil {
		a.simCancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	a.simCancel = cancel
	a.simRunning = true
	a.simReport = nil
	a.simErr = nil

	snap := a.sess.Snapshot()
	req := sim.Request{
		ArticleID: snap.ArticleID,
		Audience:  sim.Audiences[a.audienceIdx],
		Title:     snap.Title,
		Body:      snap.Body,
	}
	runner := a.simRunner
	run := func() tea.Msg {
		report, err := runner.Run(ctx, req)
		if ctx.Err() != nil {
			// Cancelled runs report nothing; the slot owner moved on.
			return simDoneMsg{}
		}
		return simDoneMsg{report: report, err: err}
	}
	return tea.Batch(run, a.spin.Tick)
}
