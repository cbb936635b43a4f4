// Package main hosts the aqmsnotify CLI.
//
// ShakeMap invokes "aqmsnotify notify EVENTID" once an event has been
// processed; the command resolves the event, derives the AQMS external id, and
// hands off to the configured notification command. The remaining commands
// inspect configuration, readiness, and the attempt journal.
package main
