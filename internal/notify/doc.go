// Package notify runs the configured notification commands for a ShakeMap
// event.
//
// A run locates <data_dir>/<eventid>/current/event.xml, derives the event id
// known to the external system, and walks the configured actions in sorted
// order. Only one action is ever tried: the first completed command wins
// regardless of exit code, a launch failure halts the loop, and a cancel run
// stops at the first action without an undo_command.
package notify
