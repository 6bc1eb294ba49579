package nav

import (
	"strings"
	"sync"
)

// Route is a logical page of the storefront.
type Route string

const (
	RouteLanding Route = "/"
	RouteAuth    Route = "/auth"
	RouteProfile Route = "/profile"
)

// ParseRoute maps a path to a known route. Matching ignores case and a trailing slash.
func ParseRoute(path string) (Route, bool) {
	p := strings.ToLower(strings.TrimSpace(path))
	if len(p) > 1 {
		p = strings.TrimRight(p, "/")
	}
	switch Route(p) {
	case RouteLanding, RouteAuth, RouteProfile:
		return Route(p), true
	case "":
		return RouteLanding, true
	}
	return "", false
}

// Navigator moves the application to a route.
//
// reload requests a full navigation: every piece of session-derived state is
// rebuilt from scratch instead of transitioning in place.
type Navigator interface {
	Navigate(route Route, reload bool)
}

// NavigatorFunc adapts a function to [Navigator].
type NavigatorFunc func(route Route, reload bool)

func (f NavigatorFunc) Navigate(route Route, reload bool) { f(route, reload) }

// Visit is a single recorded navigation.
type Visit struct {
	Route  Route
	Reload bool
}

// History is a [Navigator] that records navigations. Used by the CLI, where
// there is no page to move to, and by tests.
type History struct {
	mu     sync.Mutex
	visits []Visit
}

// Navigate records the navigation.
func (h *History) Navigate(route Route, reload bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.visits = append(h.visits, Visit{Route: route, Reload: reload})
}

// Current returns the last visited route, or [RouteLanding] before any navigation.
func (h *History) Current() Route {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.visits) == 0 {
		return RouteLanding
	}
	return h.visits[len(h.visits)-1].Route
}

// Visits returns a copy of the recorded navigations.
func (h *History) Visits() []Visit {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]Visit, len(h.visits))
	copy(out, h.visits)
	return out
}
