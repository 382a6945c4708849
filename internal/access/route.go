// Package access declares the explicit route inventory the access-registry
// sync consumes. Routes are recorded at registration time instead of being
// reflected out of the framework's internals, so the inventory is plain data
// that tests can construct directly.
package access

// Route is one registered endpoint: HTTP method, full path pattern and a
// human-readable display name.
type Route struct {
	Method string
	Path   string
	Name   string
}
