package location

import (
	"net/url"

	domainRepo "chainstore/internal/domain/repository"
)

// Compile-time check
var _ domainRepo.Location = (*Location)(nil)

// Location is an in-memory page address.
type Location struct {
	path  string
	query url.Values
}

// New creates a Location from a path and a raw query string. An unparsable query is treated as empty.
func New(path, rawQuery string) *Location {
	query, err := url.ParseQuery(rawQuery)
	if err != nil {
		query = url.Values{}
	}
	if path == "" {
		path = "/"
	}
	return &Location{path: path, query: query}
}

// Parse creates a Location from a request URI such as "/cosmoshub?denom=uatom".
func Parse(requestURI string) (*Location, error) {
	u, err := url.ParseRequestURI(requestURI)
	if err != nil {
		return nil, err
	}
	return New(u.Path, u.RawQuery), nil
}

func (l *Location) Path() string {
	return l.path
}

func (l *Location) Query() url.Values {
	out := make(url.Values, len(l.query))
	for k, v := range l.query {
		out[k] = append([]string(nil), v...)
	}
	return out
}

func (l *Location) Replace(path string, query url.Values) {
	l.path = path
	l.query = query
	if l.query == nil {
		l.query = url.Values{}
	}
}

// String renders the path with its query string, if any.
func (l *Location) String() string {
	if len(l.query) == 0 {
		return l.path
	}
	return l.path + "?" + l.query.Encode()
}
