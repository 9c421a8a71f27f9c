// ABOUTME: Keyword trigger deciding when a reply likely needs live web data
// ABOUTME: Case-insensitive substring match against a fixed keyword list

package tasksync

import "strings"

var liveDataKeywords = []string{"news", "weather", "stock", "latest", "schedule", "price"}

// NeedsLiveData reports whether text mentions any live-data keyword.
func NeedsLiveData(text string) bool {
	lower := strings.ToLower(text)
	for _, kw := range liveDataKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
