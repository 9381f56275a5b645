// Package session holds the orchestration core: the mutable session
// state aggregate, the schema scope, prompt composition, and execution
// error classification.
//
// Threading model: a Session is mutated exclusively from the Bubble
// Tea update loop, which is single-threaded and cooperative. Async
// work (HTTP calls) runs in tea.Cmd goroutines but only ever touches
// the Session through the messages it posts back. Anything that runs
// Session methods from real parallel code must add its own locking.
package session

// Settings is the user-editable prompt state: the system prompt
// template, the serialized schema text, the user prompt, and the last
// completion text. All four are free-form; edits are not validated.
type Settings struct {
	SystemPrompt string
	Schema       string
	Prompt       string
	Completion   string
}

// schemaPlaceholder is shown in the schema pane until the first tree
// arrives.
const schemaPlaceholder = "...retrieving"
