// Package router maps view paths to routes and decides, from the session
// state alone, whether a view may render, must wait or must redirect.
package router

import "strings"

// Well-known paths.
const (
	PathLanding    = "/"
	PathAuth       = "/auth"
	PathHowItWorks = "/how-it-works"
	PathDashboard  = "/dashboard"
	PathAnalyze    = "/analyze"
	PathResults    = "/results"
	PathHealth     = "/health"
)

// Route is one entry of the route table.
type Route struct {
	Path  string
	Title string
	// RequiresSession marks a protected view.
	RequiresSession bool
	// GuestOnly marks the login/signup view, which an authenticated user
	// is sent away from.
	GuestOnly bool
}

// Routes is the route table.
var Routes = []Route{
	{Path: PathLanding, Title: "VisionAQ"},
	{Path: PathAuth, Title: "Sign in", GuestOnly: true},
	{Path: PathHowItWorks, Title: "How it works"},
	{Path: PathDashboard, Title: "Dashboard", RequiresSession: true},
	{Path: PathAnalyze, Title: "Analyze", RequiresSession: true},
	{Path: PathResults, Title: "Results", RequiresSession: true},
	{Path: PathHealth, Title: "Health & Safety", RequiresSession: true},
}

// Lookup finds the route for path. Trailing slashes and case are ignored.
func Lookup(path string) (Route, bool) {
	p := Normalize(path)
	for _, r := range Routes {
		if r.Path == p {
			return r, true
		}
	}
	return Route{}, false
}

// Normalize cleans a user-typed path: "Dashboard/" -> "/dashboard".
func Normalize(path string) string {
	p := strings.ToLower(strings.TrimSpace(path))
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	if len(p) > 1 {
		p = strings.TrimRight(p, "/")
		if p == "" {
			p = "/"
		}
	}
	return p
}
