// Package preflight provides readiness checks for the filesystem paths and
// external commands aqmsnotify depends on.
//
// The CLI "aqmsnotify check" command runs RunAll and renders each Result.
// Checks never modify anything; a failed check only reports.
package preflight
