package htmx

import "net/http"

// Request headers.
const (
	HeaderRequest    = "HX-Request"
	HeaderBoosted    = "HX-Boosted"
	HeaderCurrentURL = "HX-Current-URL"
	HeaderTarget     = "HX-Target"
	// HeaderPreloaded is sent by the preload extension on speculative fetches.
	HeaderPreloaded = "HX-Preloaded"
)

// Response headers.
const (
	HeaderPushURL    = "HX-Push-Url"
	HeaderReplaceURL = "HX-Replace-Url"
	HeaderRedirect   = "HX-Redirect"
	HeaderTrigger    = "HX-Trigger"
)

// IsHTMX reports whether r was issued by HTMX.
func IsHTMX(r *http.Request) bool {
	return r.Header.Get(HeaderRequest) == "true"
}

// IsBoosted reports whether r comes from an hx-boost element.
func IsBoosted(r *http.Request) bool {
	return r.Header.Get(HeaderBoosted) == "true"
}

// IsPreload reports whether r is a speculative preload fetch.
func IsPreload(r *http.Request) bool {
	return r.Header.Get(HeaderPreloaded) == "true"
}

// PushURL asks HTMX to push url onto the browser history.
func PushURL(w http.ResponseWriter, url string) {
	w.Header().Set(HeaderPushURL, url)
}

// Redirect sends HX-Redirect with 200 for HTMX requests and a regular
// redirect with status otherwise.
func Redirect(w http.ResponseWriter, r *http.Request, url string, status int) {
	if IsHTMX(r) {
		w.Header().Set(HeaderRedirect, url)
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, url, status)
}
