// Command stockroom is the operator console for the draft catalog: it
// edits product drafts against the table or snapshot backend, derives the
// publish payload, and packages bounded submissions for handoff.
package main
