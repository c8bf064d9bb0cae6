package repository

import "net/url"

// Location is the page address the chain is mirrored into.
type Location interface {
	// Path returns the current path, e.g. "/cosmoshub/account".
	Path() string

	// Query returns a copy of the current query parameters.
	Query() url.Values

	// Replace swaps the current address in place without adding a history entry.
	Replace(path string, query url.Values)
}
