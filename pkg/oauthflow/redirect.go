package oauthflow

import (
	"net/http"
	"net/url"
	"strings"
)

// ErrorURL builds path?error=<message> with spaces encoded as %20.
func ErrorURL(path, message string) string {
	return path + "?error=" + strings.ReplaceAll(url.QueryEscape(message), "+", "%20")
}

func (f *Flow) errorURL(reason Reason) string {
	return ErrorURL(f.errorPath, reason.Message())
}

// redirect answers with 302 Found. Flow responses are per user and must not
// be cached by intermediaries.
func (f *Flow) redirect(w http.ResponseWriter, r *http.Request, target string) {
	w.Header().Set("Cache-Control", "no-store")
	http.Redirect(w, r, target, http.StatusFound)
}
