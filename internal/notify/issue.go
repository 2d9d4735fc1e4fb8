// pattern: Functional Core

package notify

import (
	"net/url"
	"strings"
)

const (
	issueTitle      = "Uncaught Exception"
	issueBodyPrefix = "ERROR MESSAGE:\n"
)

// IssueURL returns the new-issue form of repoURL with title and body
// pre-filled from err. Returns "" when repoURL is empty.
func IssueURL(repoURL string, err error) string {
	repoURL = strings.TrimSuffix(strings.TrimSuffix(repoURL, "/"), ".git")
	if repoURL == "" {
		return ""
	}
	body := issueBodyPrefix
	if err != nil {
		body += err.Error()
	}
	return repoURL + "/issues/new?title=" + url.QueryEscape(issueTitle) + "&body=" + url.QueryEscape(body)
}
