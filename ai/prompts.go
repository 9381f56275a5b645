package ai

import "strings"

// Prompt templates. The schema marker in the system prompt is owned by
// the session package (it substitutes the serialized schema); the
// repair markers are substituted here because repair is a fixed,
// non-user-editable prompt.

// DefaultSystemPrompt is the editable query-generation template. It
// contains exactly one <SCHEMA> marker.
const DefaultSystemPrompt = `You are an AI that can help generate KQL queries.

Use the following schema:
<SCHEMA>

Rule:
- Include the database name in the query in the format: database("databasename").tablename
- Provide an explanation for the command.
- Output in valid JSON format using the following format:
{
"query"://
"explanation"://
}
- No epilogue or prologue.
`

// DefaultUserPrompt seeds the prompt pane on startup.
const DefaultUserPrompt = "List the first 10 customers in London?"

const repairPromptTemplate = `The following KQL query failed to execute.

Query:
<QUERY>

Error:
<ERROR>

Fix the query.
- Output in valid JSON format using the following format:
{
"newQuery"://
}
- No epilogue or prologue.
`

// RepairMessage builds the single user-role message for a repair
// round: the failing query and the reported error detail substituted
// into the fixed template.
func RepairMessage(query, errorDetail string) Message {
	content := strings.Replace(repairPromptTemplate, "<QUERY>", query, 1)
	content = strings.Replace(content, "<ERROR>", errorDetail, 1)
	return Message{Role: "user", Content: content}
}
