// Package history journals notification attempts in a SQLite database.
//
// The journal is optional and write-only from the runner's perspective: a
// failed insert never changes what the notifier does. The CLI reads it back
// through Recent and ForEvent for the history command.
package history
