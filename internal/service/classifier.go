package service

import (
	"strings"

	"dead_link_checker/internal/application/config"
	"dead_link_checker/internal/domain/models"
)

type Route string

const (
	RouteIgnored          Route = "ignored"
	RouteForbidden        Route = "forbidden"
	RouteShouldBeRelative Route = "should_be_relative"
	RouteInternal         Route = "internal"
	RouteExternal         Route = "external"
)

// Decision is the routing outcome for one link. Reason explains ignored and forbidden routes.
type Decision struct {
	Route  Route
	Reason string
}

const (
	ReasonFragment     = "fragment"
	ReasonAuthRequired = "requires authentication"
	ReasonUnsupported  = "unsupported link"
	ReasonForbidden    = "forbidden prefix"
)

// Classify routes a link by the first matching rule. Empty prefixes never match.
func Classify(link models.LinkReference, rules config.Rules) Decision {
	url := link.URL
	switch {
	case strings.HasPrefix(url, "#"):
		return Decision{Route: RouteIgnored, Reason: ReasonFragment}
	case hasPrefix(url, rules.ForbiddenLinkPrefix):
		return Decision{Route: RouteForbidden, Reason: ReasonForbidden}
	case hasPrefix(url, rules.CurrentRepoURL):
		return Decision{Route: RouteShouldBeRelative}
	case hasPrefix(url, rules.RequiresAuthPrefix):
		return Decision{Route: RouteIgnored, Reason: ReasonAuthRequired}
	case strings.HasPrefix(url, "..") || strings.HasPrefix(url, "/"):
		return Decision{Route: RouteInternal}
	case (strings.HasPrefix(url, "http://") || strings.HasPrefix(url, "https://")) && !strings.Contains(url, "localhost"):
		return Decision{Route: RouteExternal}
	default:
		return Decision{Route: RouteIgnored, Reason: ReasonUnsupported}
	}
}

func hasPrefix(s, prefix string) bool {
	return prefix != "" && strings.HasPrefix(s, prefix)
}
