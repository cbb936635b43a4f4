package notify

import (
	"strings"

	"golang.org/x/text/cases"

	"aqmsnotify/internal/config"
)

// networkCodeLen is the width of the network prefix on ShakeMap event ids.
const networkCodeLen = 2

// ExternalID derives the identifier the external system knows the event by.
// ShakeMap ids carry the network code as a prefix ("ci38457511"); AQMS does
// not, so when eventID starts with netID (case-insensitively) the first two
// characters are dropped.
func ExternalID(eventID, netID string) string {
	if netID == "" {
		return eventID
	}
	fold := cases.Fold()
	if !strings.HasPrefix(fold.String(eventID), fold.String(netID)) {
		return eventID
	}
	runes := []rune(eventID)
	if len(runes) < networkCodeLen {
		return eventID
	}
	return string(runes[networkCodeLen:])
}

// BuildArgv substitutes every placeholder occurrence in template and splits
// the result on whitespace. No shell quoting is interpreted.
func BuildArgv(template, externalID string) []string {
	return strings.Fields(strings.ReplaceAll(template, config.EventPlaceholder, externalID))
}
