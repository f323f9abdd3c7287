// Package router describes the named views of the client and decides, before
// every navigation, whether the user may see them.
package router

import (
	"strings"
)

// Route names.
const (
	Login         = "login"
	Register      = "register"
	Accounts      = "accounts"
	AccountDetail = "account-detail"
	Categories    = "categories"
	Statistics    = "statistics"
)

// Route is a static view descriptor.
type Route struct {
	// Name is the logical route name used for redirects.
	Name string

	// Path is the URL-style path; segments starting with ':' are parameters.
	Path string

	// Command is the CLI command rendering the view.
	Command string

	// RequiresAuth marks views only available to logged-in users.
	RequiresAuth bool

	// Redirect, when set, sends the path elsewhere without rendering anything.
	Redirect string
}

// Params holds path parameters extracted by Match.
type Params map[string]string

var routes = []Route{
	{Name: Login, Path: "/login", Command: "login"},
	{Name: Register, Path: "/register", Command: "register"},
	{Path: "/", Redirect: "/accounts"},
	{Name: Accounts, Path: "/accounts", Command: "accounts", RequiresAuth: true},
	{Name: AccountDetail, Path: "/accounts/:id", Command: "account", RequiresAuth: true},
	{Name: Categories, Path: "/categories", Command: "categories", RequiresAuth: true},
	{Name: Statistics, Path: "/statistics", Command: "stats", RequiresAuth: true},
}

// Routes returns a copy of the route table.
func Routes() []Route {
	out := make([]Route, len(routes))
	copy(out, routes)
	return out
}

// Lookup finds a route by name.
func Lookup(name string) (Route, bool) {
	if name == "" {
		return Route{}, false
	}
	for _, r := range routes {
		if r.Name == name {
			return r, true
		}
	}
	return Route{}, false
}

// Match resolves a path to a route, following path redirects.
func Match(path string) (Route, Params, bool) {
	// Redirect chains in the table are one hop long; the bound guards
	// against a future cycle.
	for hops := 0; hops < len(routes); hops++ {
		r, params, ok := match(path)
		if !ok {
			return Route{}, nil, false
		}
		if r.Redirect == "" {
			return r, params, true
		}
		path = r.Redirect
	}
	return Route{}, nil, false
}

func match(path string) (Route, Params, bool) {
	want := splitPath(path)
	for _, r := range routes {
		have := splitPath(r.Path)
		if len(have) != len(want) {
			continue
		}
		params := Params{}
		ok := true
		for i, seg := range have {
			if strings.HasPrefix(seg, ":") {
				if want[i] == "" {
					ok = false
					break
				}
				params[seg[1:]] = want[i]
				continue
			}
			if seg != want[i] {
				ok = false
				break
			}
		}
		if ok {
			return r, params, true
		}
	}
	return Route{}, nil, false
}

func splitPath(p string) []string {
	p = strings.Trim(p, "/")
	if p == "" {
		return nil
	}
	return strings.Split(p, "/")
}

// DecideRedirect evaluates the navigation guard for target.
// It returns the name of the route to go to instead, or false to let the
// navigation through. A redirect destination never redirects again.
func DecideRedirect(target Route, authenticated bool) (string, bool) {
	if target.RequiresAuth && !authenticated {
		return Login, true
	}
	if (target.Name == Login || target.Name == Register) && authenticated {
		return Accounts, true
	}
	return "", false
}

// Navigator performs a navigation to a named route.
type Navigator interface {
	Navigate(name string)
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(name string)

// Navigate implements Navigator.
func (f NavigatorFunc) Navigate(name string) { f(name) }
