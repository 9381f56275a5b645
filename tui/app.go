// app.go is the top-level Bubble Tea model.
//
// Flow:
//  1. On start, fetch the schema tree (cached) and show it optimistically
//  2. If the payload was cached, reconcile with a fresh fetch in the
//     background and swap the tree in if it changed
//  3. User edits the prompt panes, toggles databases in/out of scope,
//     then triggers Process (completion → chained execution),
//     Execute, or Fix (repair → chained execution)
//
// Key design decisions:
//   - One screen, focus-cycled panes (no tabs: the original layout is
//     a single workspace)
//   - Each action kind has its own in-flight flag; re-triggering an
//     action while it is outstanding is a no-op, different actions may
//     overlap (last writer wins, no cancellation)
//   - All session mutation happens here, on the update loop
package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kqlcommander/kqlcommander/ai"
	"github.com/kqlcommander/kqlcommander/applog"
	"github.com/kqlcommander/kqlcommander/kusto"
	"github.com/kqlcommander/kqlcommander/session"
)

const appVersion = "0.1.0"

// Focus targets, cycled with tab/shift+tab.
const (
	focusSidebar = iota
	focusSystem
	focusSchema
	focusPrompt
	focusResults
	focusCount
)

// App is the root Bubble Tea model.
type App struct {
	sess      *session.Session
	backend   *kusto.Client
	completer *ai.Client

	// Editable panes
	sysInput    textarea.Model
	schemaInput textarea.Model
	promptInput textarea.Model
	viewport    *Viewport
	spin        spinner.Model

	// UI state
	width      int
	height     int
	focus      int
	dbCursor   int
	showSchema bool
	statusMsg  string

	// Per-action in-flight flags. treeBusy guards the whole fetch
	// cycle including the background reconciliation fetch; fetching
	// only drives the processing indicator for the foreground part.
	fetching   bool
	treeBusy   bool
	completing bool
	executing  bool
	repairing  bool
}

// NewApp creates the application model.
func NewApp(sess *session.Session, backend *kusto.Client, completer *ai.Client) *App {
	sys := textarea.New()
	sys.SetValue(sess.Settings.SystemPrompt)
	sys.ShowLineNumbers = false

	schema := textarea.New()
	schema.SetValue(sess.Settings.Schema)
	schema.ShowLineNumbers = false

	prompt := textarea.New()
	prompt.SetValue(sess.Settings.Prompt)
	prompt.ShowLineNumbers = false
	prompt.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return &App{
		sess:        sess,
		backend:     backend,
		completer:   completer,
		sysInput:    sys,
		schemaInput: schema,
		promptInput: prompt,
		viewport:    NewViewport(80, 20),
		spin:        sp,
		focus:       focusPrompt,
		showSchema:  true,
	}
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, a.refreshTree())
}

// ── Commands ──

// refreshTree starts a fetch cycle (cached first). A cycle already in
// flight makes this a no-op.
func (a *App) refreshTree() tea.Cmd {
	if a.treeBusy {
		return nil
	}
	a.treeBusy = true
	a.fetching = true
	return tea.Batch(a.spin.Tick, func() tea.Msg {
		tree, err := a.backend.FetchTree(context.Background(), true)
		return TreeMsg{Tree: tree, Err: err}
	})
}

func (a *App) fetchFresh() tea.Cmd {
	return func() tea.Msg {
		tree, err := a.backend.FetchTree(context.Background(), false)
		return FreshTreeMsg{Tree: tree, Err: err}
	}
}

// process starts a completion round; execution is chained on success.
func (a *App) process() tea.Cmd {
	if a.completing {
		return nil
	}
	a.syncSettings()
	a.sess.BeginAttempt()
	a.completing = true
	a.statusMsg = ""
	msgs := session.ComposeMessages(a.sess.Settings)
	return tea.Batch(a.spin.Tick, func() tea.Msg {
		content, err := a.completer.Complete(context.Background(), msgs)
		if err != nil {
			return CompletionMsg{Err: err}
		}
		completion, err := ai.ParseCompletion(content)
		return CompletionMsg{Completion: completion, Err: err}
	})
}

// execute runs the pending query against the first database in scope.
func (a *App) execute() tea.Cmd {
	if a.executing || a.sess.Pending.Query == "" {
		return nil
	}
	a.sess.BeginAttempt()
	a.executing = true
	db, query := a.sess.TargetDatabase(), a.sess.Pending.Query
	return tea.Batch(a.spin.Tick, func() tea.Msg {
		pr, err := a.backend.Execute(context.Background(), db, query)
		return ExecuteMsg{Results: pr, Err: err}
	})
}

// fixError starts a repair round for the last failing query.
func (a *App) fixError() tea.Cmd {
	if a.repairing || !a.sess.CanRepair() {
		return nil
	}
	a.repairing = true
	msg := ai.RepairMessage(a.sess.Pending.Query, a.sess.LastError.Detail)
	return tea.Batch(a.spin.Tick, func() tea.Msg {
		content, err := a.completer.Complete(context.Background(), []ai.Message{msg})
		if err != nil {
			return RepairMsg{Err: err}
		}
		repair, err := ai.ParseRepair(content)
		return RepairMsg{Repair: repair, Err: err}
	})
}

// ── Update ──

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.applySizes()
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)

	case spinner.TickMsg:
		if a.busy() {
			var cmd tea.Cmd
			a.spin, cmd = a.spin.Update(msg)
			return a, cmd
		}
		return a, nil

	case TreeMsg:
		a.fetching = false
		if msg.Err != nil {
			a.treeBusy = false
			applog.Error("tree fetch failed: %v", msg.Err)
			a.statusMsg = StyleError.Render("tree fetch failed: " + msg.Err.Error())
			return a, nil
		}
		a.sess.ApplyTree(msg.Tree)
		a.dbCursor = 0
		a.schemaInput.SetValue(a.sess.Settings.Schema)
		if msg.Tree.IsCached {
			// Cached payload: reconcile with a fresh read in the
			// background, fire-and-forget for the indicator.
			a.sess.Reconcile = session.Reconciling
			return a, a.fetchFresh()
		}
		a.treeBusy = false
		a.sess.Reconcile = session.ReconcileIdle
		return a, nil

	case FreshTreeMsg:
		a.treeBusy = false
		if msg.Err != nil {
			// The cached tree stays visible; just note the failure.
			a.sess.Reconcile = session.Reconciled
			applog.Error("tree reconciliation failed: %v", msg.Err)
			return a, nil
		}
		if a.sess.ReconcileFresh(msg.Tree) {
			a.dbCursor = 0
			a.schemaInput.SetValue(a.sess.Settings.Schema)
			a.statusMsg = StyleWarning.Render("schema updated from live cluster")
			applog.Event("schema", "cached tree replaced by fresh tree")
		}
		return a, nil

	case CompletionMsg:
		a.completing = false
		if msg.Err != nil {
			// Abandon the attempt; prior state stays intact.
			applog.Error("completion failed: %v", msg.Err)
			a.statusMsg = StyleError.Render("completion failed: " + msg.Err.Error())
			return a, nil
		}
		if a.sess.ApplyCompletion(msg.Completion) {
			return a, a.execute()
		}
		return a, nil

	case ExecuteMsg:
		a.executing = false
		if msg.Err != nil {
			a.sess.ApplyExecutionFailure(msg.Err)
			applog.Error("execution failed: %v", msg.Err)
			return a, nil
		}
		a.sess.ApplyResults(msg.Results)
		a.viewport.SetContentLines(formatResultSet(a.sess.Results))
		a.statusMsg = ""
		return a, nil

	case RepairMsg:
		a.repairing = false
		if msg.Err != nil {
			applog.Error("repair failed: %v", msg.Err)
			a.statusMsg = StyleError.Render("repair failed: " + msg.Err.Error())
			return a, nil
		}
		a.sess.ApplyRepair(msg.Repair)
		return a, a.execute()
	}

	return a, nil
}

func (a *App) busy() bool {
	return a.fetching || a.completing || a.executing || a.repairing
}

// syncSettings pulls the textarea contents back into the session.
func (a *App) syncSettings() {
	a.sess.Settings.SystemPrompt = a.sysInput.Value()
	a.sess.Settings.Schema = a.schemaInput.Value()
	a.sess.Settings.Prompt = a.promptInput.Value()
}

// ── Keys ──

func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Global shortcuts work regardless of focus.
	switch msg.String() {
	case "ctrl+c":
		return a, tea.Quit
	case "ctrl+p":
		return a, a.process()
	case "ctrl+e":
		return a, a.execute()
	case "ctrl+f":
		return a, a.fixError()
	case "ctrl+r":
		return a, a.refreshTree()
	case "tab":
		a.setFocus((a.focus + 1) % focusCount)
		return a, nil
	case "shift+tab":
		a.setFocus((a.focus + focusCount - 1) % focusCount)
		return a, nil
	}

	switch a.focus {
	case focusSidebar:
		return a.handleSidebarKey(msg)
	case focusResults:
		return a.handleResultsKey(msg)
	default:
		return a.handleEditorKey(msg)
	}
}

func (a *App) setFocus(f int) {
	a.focus = f
	a.sysInput.Blur()
	a.schemaInput.Blur()
	a.promptInput.Blur()
	switch f {
	case focusSystem:
		a.sysInput.Focus()
	case focusSchema:
		a.schemaInput.Focus()
	case focusPrompt:
		a.promptInput.Focus()
	}
}

func (a *App) handleSidebarKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	n := 0
	if a.sess.Tree != nil {
		n = len(a.sess.Tree.DatabasesTree)
	}
	switch msg.String() {
	case "up", "k":
		if a.dbCursor > 0 {
			a.dbCursor--
		}
	case "down", "j":
		if a.dbCursor < n-1 {
			a.dbCursor++
		}
	case "home":
		a.dbCursor = 0
	case "end":
		if n > 0 {
			a.dbCursor = n - 1
		}
	case "enter", " ":
		a.sess.ToggleDatabase(a.dbCursor)
		a.sysInput.SetValue(a.sess.Settings.SystemPrompt)
		a.schemaInput.SetValue(a.sess.Settings.Schema)
	case "s":
		a.showSchema = !a.showSchema
	}
	return a, nil
}

func (a *App) handleResultsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		a.viewport.ScrollUp(1)
	case "down", "j":
		a.viewport.ScrollDown(1)
	case "left", "h":
		a.viewport.ScrollLeft(4)
	case "right", "l":
		a.viewport.ScrollRight(4)
	case "pgup":
		a.viewport.PageUp()
	case "pgdown":
		a.viewport.PageDown()
	case "home":
		a.viewport.Home()
	case "end":
		a.viewport.End()
	}
	return a, nil
}

func (a *App) handleEditorKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.focus {
	case focusSystem:
		a.sysInput, cmd = a.sysInput.Update(msg)
	case focusSchema:
		a.schemaInput, cmd = a.schemaInput.Update(msg)
	case focusPrompt:
		a.promptInput, cmd = a.promptInput.Update(msg)
	}
	a.syncSettings()
	return a, cmd
}

// ── View ──

// View implements tea.Model.
func (a *App) View() string {
	if a.width == 0 {
		return "loading..."
	}

	header := a.renderHeader()
	body := a.renderBody()
	status := a.renderStatusBar()

	return header + "\n" + body + "\n" + status
}

func (a *App) sidebarWidth() int {
	w := a.width / 4
	if w < 28 {
		w = 28
	}
	return w
}

func (a *App) applySizes() {
	sidebarW := a.sidebarWidth()
	rightW := a.width - sidebarW - 1
	editorsW := rightW * 2 / 3
	complW := rightW - editorsW - 1
	if complW < 10 {
		complW = 10
	}

	a.sysInput.SetWidth(editorsW - 2)
	a.sysInput.SetHeight(4)
	a.schemaInput.SetWidth(editorsW - 2)
	a.schemaInput.SetHeight(6)
	a.promptInput.SetWidth(editorsW - 2)
	a.promptInput.SetHeight(3)

	// header(1) + editors(3 labels + 13 lines) + results label(1) + status(1)
	resultsH := a.height - 19 - 2
	if resultsH < 3 {
		resultsH = 3
	}
	a.viewport.SetSize(rightW-1, resultsH-1)
}

func (a *App) renderHeader() string {
	left := StyleBold.Render("KQL Commander") + StyleDimmed.Render(" v"+appVersion)
	right := StyleDimmed.Render(a.completer.Model())
	gap := a.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + right
}

func (a *App) renderBody() string {
	sidebarW := a.sidebarWidth()
	bodyH := a.height - 2 // header + status
	rightW := a.width - sidebarW - 1

	sidebar := lipgloss.NewStyle().
		Width(sidebarW).
		Height(bodyH).
		Border(lipgloss.NormalBorder(), false, true, false, false).
		BorderForeground(a.paneBorderColor(focusSidebar)).
		Render(strings.Join(a.sidebarLines(sidebarW-2, bodyH), "\n"))

	editorsW := rightW * 2 / 3
	complW := rightW - editorsW - 1
	if complW < 10 {
		complW = 10
	}

	editors := lipgloss.JoinVertical(lipgloss.Left,
		a.paneLabel("System Prompt", focusSystem),
		a.sysInput.View(),
		a.paneLabel("Schema", focusSchema),
		a.schemaInput.View(),
		a.paneLabel("Prompt", focusPrompt),
		a.promptInput.View(),
	)

	completionBody := a.sess.Settings.Completion
	if completionBody == "" {
		completionBody = StyleDimmed.Render("(no completion yet)")
	}
	completion := lipgloss.JoinVertical(lipgloss.Left,
		StyleLabel.Render("COMPLETION"),
		lipgloss.NewStyle().
			Width(complW).
			Height(lipgloss.Height(editors)-1).
			MaxHeight(lipgloss.Height(editors)-1).
			Render(completionBody),
	)

	topRow := lipgloss.JoinHorizontal(lipgloss.Top, editors, " ", completion)

	results := lipgloss.JoinVertical(lipgloss.Left,
		a.paneLabel("Results", focusResults),
		a.viewport.Render(),
	)

	right := lipgloss.JoinVertical(lipgloss.Left, topRow, results)

	return lipgloss.JoinHorizontal(lipgloss.Top, sidebar, right)
}

func (a *App) paneLabel(name string, focusTarget int) string {
	label := strings.ToUpper(name)
	if a.focus == focusTarget {
		return StyleTitle.Render("● " + label)
	}
	return StyleLabel.Render("  " + label)
}

func (a *App) paneBorderColor(focusTarget int) lipgloss.Color {
	if a.focus == focusTarget {
		return ColorAccent
	}
	return ColorDim
}

func (a *App) renderStatusBar() string {
	if a.busy() {
		label := "Processing"
		switch {
		case a.fetching:
			label = "Fetching schema"
		case a.completing:
			label = "Generating query"
		case a.executing:
			label = "Executing"
		case a.repairing:
			label = "Repairing query"
		}
		return StyleProcessing.Render(a.spin.View() + label + " ...")
	}

	if a.sess.LastError != nil {
		line := StyleError.Render(a.sess.LastError.Message)
		if a.sess.CanRepair() {
			line += "  " + StyleHelpKey.Render("Ctrl+F") + " " + StyleHelpDesc.Render("fix")
		}
		return line
	}
	if a.statusMsg != "" {
		return a.statusMsg
	}

	help := []struct{ key, desc string }{
		{"Tab", "focus"},
		{"Enter", "toggle db (sidebar)"},
		{"Ctrl+P", "process"},
		{"Ctrl+E", "execute"},
		{"Ctrl+R", "refresh tree"},
		{"Ctrl+C", "quit"},
	}
	var parts []string
	for _, h := range help {
		parts = append(parts, StyleHelpKey.Render(h.key)+" "+StyleHelpDesc.Render(h.desc))
	}
	return StyleStatusBar.Width(a.width).Render(strings.Join(parts, "  │  "))
}
