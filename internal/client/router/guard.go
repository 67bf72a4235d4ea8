package router

import (
	"fmt"

	"github.com/dmitrijs2005/visionaq/internal/client/models"
)

// Action is what the rendering surface should do with a route.
type Action int

const (
	ActionRender Action = iota
	ActionWait
	ActionRedirect
	ActionNotFound
)

func (a Action) String() string {
	switch a {
	case ActionRender:
		return "render"
	case ActionWait:
		return "wait"
	case ActionRedirect:
		return "redirect"
	case ActionNotFound:
		return "not_found"
	default:
		return fmt.Sprintf("action(%d)", int(a))
	}
}

// Decision is the outcome of Guard. Redirect is set for ActionRedirect only.
type Decision struct {
	Action   Action
	Route    Route
	Redirect string
}

// Guard decides what to do with route given state. It is pure and must be
// re-run on every state change.
func Guard(state models.SessionState, route Route) Decision {
	if !route.RequiresSession && !route.GuestOnly {
		return Decision{Action: ActionRender, Route: route}
	}
	if state.Loading {
		return Decision{Action: ActionWait, Route: route}
	}
	if route.RequiresSession && state.User == nil {
		return Decision{Action: ActionRedirect, Route: route, Redirect: PathAuth}
	}
	if route.GuestOnly && state.User != nil {
		return Decision{Action: ActionRedirect, Route: route, Redirect: PathDashboard}
	}
	return Decision{Action: ActionRender, Route: route}
}

// Resolve looks path up and guards it. Unknown paths are not found.
func Resolve(state models.SessionState, path string) Decision {
	route, ok := Lookup(path)
	if !ok {
		return Decision{Action: ActionNotFound, Route: Route{Path: Normalize(path), Title: "Not found"}}
	}
	return Guard(state, route)
}
