package session

import "strings"

// RouteClass partitions the URL space for the session gate. Every request
// path maps to exactly one class.
type RouteClass int

const (
	// RoutePublic requires no session. An existing identity is attached to
	// context opportunistically but never verified.
	RoutePublic RouteClass = iota
	// RouteAuthTransition is the login page, which bounces already
	// authenticated visitors to the dashboard.
	RouteAuthTransition
	// RouteLogout always passes through so a broken session can still be
	// cleared.
	RouteLogout
	// RouteProtected requires a verified session.
	RouteProtected
)

// String returns the class name used in logs and metric tags.
func (c RouteClass) String() string {
	switch c {
	case RouteAuthTransition:
		return "auth_transition"
	case RouteLogout:
		return "logout"
	case RouteProtected:
		return "protected"
	default:
		return "public"
	}
}

// Classifier maps request paths to route classes by longest-prefix intent:
// the fixed /login and /logout paths first, then the configured protected
// prefixes, then public as the fallback for everything unmatched.
type Classifier struct {
	protected []string
}

// NewClassifier builds a classifier over the given protected path prefixes.
func NewClassifier(protectedPrefixes []string) *Classifier {
	prefixes := make([]string, 0, len(protectedPrefixes))
	for _, p := range protectedPrefixes {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if !strings.HasPrefix(p, "/") {
			p = "/" + p
		}
		prefixes = append(prefixes, strings.TrimRight(p, "/"))
	}
	return &Classifier{protected: prefixes}
}

// Classify returns the route class for a request path.
func (c *Classifier) Classify(path string) RouteClass {
	if path == "" {
		path = "/"
	}
	switch {
	case path == "/logout" || strings.HasPrefix(path, "/logout/"):
		return RouteLogout
	case path == "/login" || strings.HasPrefix(path, "/login/"):
		return RouteAuthTransition
	}
	for _, prefix := range c.protected {
		if path == prefix || strings.HasPrefix(path, prefix+"/") {
			return RouteProtected
		}
	}
	return RoutePublic
}
