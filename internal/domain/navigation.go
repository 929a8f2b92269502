package domain

import "strings"

// PageStatus maps a finished page load to the status key shown to the user.
func PageStatus(url string) string {
	if strings.TrimSpace(url) == "" {
		return StatusCommonError
	}

	lower := strings.ToLower(url)
	tools, _ := SourceByID(string(SourceTools))

	switch {
	case strings.Contains(lower, AuthDomain):
		return StatusLoginRequired
	case strings.Contains(lower, strings.ToLower(tools.URL)):
		return StatusCheckingToken
	default:
		return StatusAllSet
	}
}
