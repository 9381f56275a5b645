// state.go defines the session state aggregate and the state
// transitions of the query lifecycle:
//
//	Idle → Composing → AwaitingCompletion → {CompletionFailed | QueryReady}
//	     → Executing → {ResultsReady | ExecutionFailed}
//	ExecutionFailed may branch to RepairAvailable →
//	AwaitingRepairCompletion → Executing (same Executing state).
//
// The TUI drives the transitions; this file owns what each one does
// to the state.
package session

import (
	"errors"

	"github.com/kqlcommander/kqlcommander/ai"
	"github.com/kqlcommander/kqlcommander/kusto"
)

// PendingQuery is the query produced by a completion or repair round,
// consumed by the next execution attempt. It is retained only as the
// last-known query available for a repair retry.
type PendingQuery struct {
	Query    string
	Database string
}

// ErrorState is the user-visible record of the last failure. Cleared
// at the start of every new completion or execution attempt.
type ErrorState struct {
	Message    string
	Repairable bool
	Detail     string
}

// ReconcileState names the steps of the cached-tree freshness
// protocol so the TUI (and tests) can drive each step explicitly.
type ReconcileState int

const (
	ReconcileIdle     ReconcileState = iota
	ReconcileCacheHit                // cached tree shown, fresh fetch not yet issued
	Reconciling                      // fresh fetch in flight
	Reconciled                       // fresh tree compared (and applied if different)
)

// Session owns all mutable per-session state. No component keeps an
// independent copy: every operation reads the current snapshot,
// computes, and writes back.
type Session struct {
	Settings  Settings
	Tree      *kusto.Tree
	Scope     Scope
	Pending   PendingQuery
	Results   *kusto.ResultSet
	LastError *ErrorState
	Reconcile ReconcileState
}

// New creates a session seeded with the default prompt settings.
func New() *Session {
	return &Session{
		Settings: Settings{
			SystemPrompt: ai.DefaultSystemPrompt,
			Schema:       schemaPlaceholder,
			Prompt:       ai.DefaultUserPrompt,
		},
		Scope: Scope{},
	}
}

// ApplyTree replaces the tree snapshot. The old scope is invalidated
// (its indices belonged to the old snapshot), so the default
// select-all scope is recomputed and the schema text refreshed.
func (s *Session) ApplyTree(tree *kusto.Tree) {
	s.Tree = tree
	s.Scope = AllDatabases(tree)
	s.Settings.Schema = SerializeSchema(s.Tree, s.Scope)
}

// ReconcileFresh compares a freshly fetched tree against the visible
// one (IsCached ignored). A differing tree replaces the visible one;
// an equal tree changes nothing. Returns whether the tree was updated.
func (s *Session) ReconcileFresh(fresh *kusto.Tree) bool {
	s.Reconcile = Reconciled
	if fresh == nil || s.Tree.Equal(fresh) {
		return false
	}
	s.ApplyTree(fresh)
	return true
}

// ToggleDatabase flips scope membership of one database and
// immediately recomputes the serialized schema and the embedded
// prompt text (marker-pair path).
func (s *Session) ToggleDatabase(i int) {
	if s.Tree == nil || i < 0 || i >= len(s.Tree.DatabasesTree) {
		return
	}
	s.Scope.Toggle(i)
	s.Settings.Schema = SerializeSchema(s.Tree, s.Scope)
	s.Settings.SystemPrompt = EmbedSchema(s.Settings.SystemPrompt, s.Settings.Schema)
}

// TargetDatabase is the first database in the current scope, in tree
// order. An empty scope yields "" — sent as-is, the backend owns that
// validation.
func (s *Session) TargetDatabase() string {
	if s.Tree == nil {
		return ""
	}
	for _, i := range s.Scope.Indices() {
		if i < len(s.Tree.DatabasesTree) {
			return s.Tree.DatabasesTree[i].DatabaseName
		}
	}
	return ""
}

// BeginAttempt clears the error state carried from a previous attempt.
// Called at the start of every completion or execution attempt.
func (s *Session) BeginAttempt() {
	s.LastError = nil
}

// ApplyCompletion records a parsed completion: the completion pane
// text becomes query + explanation, and the query (if any) becomes
// the pending query. Returns true when execution should be chained.
func (s *Session) ApplyCompletion(c *ai.Completion) bool {
	s.Settings.Completion = c.Query + "\n\n" + c.Explanation
	if c.Query == "" {
		return false
	}
	s.Pending = PendingQuery{Query: c.Query, Database: s.TargetDatabase()}
	return true
}

// ApplyRepair replaces the pending query and the completion text with
// the repaired query. The caller re-executes immediately.
func (s *Session) ApplyRepair(r *ai.Repair) {
	s.Pending = PendingQuery{Query: r.NewQuery, Database: s.TargetDatabase()}
	s.Settings.Completion = r.NewQuery
}

// ApplyResults stores a fresh result set; the previous one is
// discarded, never merged.
func (s *Session) ApplyResults(pr *kusto.PrimaryResults) {
	s.Results = kusto.Reshape(pr)
}

// ApplyExecutionFailure classifies an execution failure into the
// user-visible error state. Backend query errors carry a detail
// string and may be repairable; everything else is generic.
func (s *Session) ApplyExecutionFailure(err error) {
	var execErr *kusto.ExecutionError
	if errors.As(err, &execErr) {
		s.LastError = &ErrorState{
			Message:    execErr.Error(),
			Repairable: IsRepairable(execErr.Detail),
			Detail:     execErr.Detail,
		}
		return
	}
	s.LastError = &ErrorState{Message: err.Error()}
}

// CanRepair reports whether the repair action is currently offered.
func (s *Session) CanRepair() bool {
	return s.LastError != nil && s.LastError.Repairable && s.Pending.Query != ""
}
