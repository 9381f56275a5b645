// messages.go defines Bubble Tea messages used for async communication.
//
// Every backend and completion request runs in a tea.Cmd closure and
// posts its result back via one of these, so the UI never blocks and
// all session mutation happens on the update loop.
package tui

import (
	"github.com/kqlcommander/kqlcommander/ai"
	"github.com/kqlcommander/kqlcommander/kusto"
)

// TreeMsg is sent when the (possibly cached) schema tree fetch completes.
type TreeMsg struct {
	Tree *kusto.Tree
	Err  error
}

// FreshTreeMsg is sent when the background freshness fetch of the
// cache reconciliation protocol completes.
type FreshTreeMsg struct {
	Tree *kusto.Tree
	Err  error
}

// CompletionMsg is sent when a query-generation completion round
// finishes (transport + parse).
type CompletionMsg struct {
	Completion *ai.Completion
	Err        error
}

// ExecuteMsg is sent when a query execution completes.
type ExecuteMsg struct {
	Results *kusto.PrimaryResults
	Err     error
}

// RepairMsg is sent when a repair completion round finishes.
type RepairMsg struct {
	Repair *ai.Repair
	Err    error
}
