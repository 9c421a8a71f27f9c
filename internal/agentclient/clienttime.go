// ABOUTME: Formats the client_time field sent with every agent request
// ABOUTME: Mirrors the browser Date.toString layout the backend parses

package agentclient

import "time"

// FormatClientTime renders t as "Wed Feb 04 2026 02:30:00 GMT+0530 (IST)".
func FormatClientTime(t time.Time) string {
	zone, _ := t.Zone()
	return t.Format("Mon Jan 02 2006 15:04:05 GMT-0700") + " (" + zone + ")"
}
