package endpoint

import (
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"

	domain "github.com/rantcrypto/cmcgate/pkg/domain/errors"
)

// Endpoint describes one upstream route. The local route has the same method
// and path; Params is the full set of query parameters the upstream accepts.
type Endpoint struct {
	Method string     `json:"method"`
	Path   string     `json:"path"`
	Group  string     `json:"group"`
	Params []string   `json:"params"`
	OneOf  [][]string `json:"one_of,omitempty"`
}

func (e Endpoint) Key() string {
	return routeKey(e.Method, e.Path)
}

func (e Endpoint) accepts(param string) bool {
	for _, p := range e.Params {
		if p == param {
			return true
		}
	}
	return false
}

// Validate checks a caller query against the endpoint contract. It never
// modifies the query; a nil result means it can be forwarded as is.
func (e Endpoint) Validate(query url.Values) error {
	names := make([]string, 0, len(query))
	for name := range query {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if !e.accepts(name) {
			return domain.InvalidArgument(fmt.Sprintf("%q is not allowed", name))
		}
		if len(query[name]) > 1 {
			return domain.InvalidArgument(fmt.Sprintf("%q must not be repeated", name))
		}
	}

	for _, group := range e.OneOf {
		if !anyPresent(query, group) {
			return domain.InvalidArgument(fmt.Sprintf(
				"\"value\" must contain at least one of [%s]", strings.Join(group, ", "),
			))
		}
	}
	return nil
}

func anyPresent(query url.Values, group []string) bool {
	for _, name := range group {
		if strings.TrimSpace(query.Get(name)) != "" {
			return true
		}
	}
	return false
}

func routeKey(method, path string) string {
	return strings.ToUpper(method) + " " + strings.TrimRight(path, "/")
}

func get(group, path string, params []string, oneOf ...[]string) Endpoint {
	return Endpoint{
		Method: http.MethodGet,
		Path:   path,
		Group:  group,
		Params: params,
		OneOf:  oneOf,
	}
}

func with(base []string, extra ...string) []string {
	out := make([]string, 0, len(base)+len(extra))
	out = append(out, base...)
	return append(out, extra...)
}
