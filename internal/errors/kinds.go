package errors

import "slices"

// Kind classifies a failure. Every failure in tinyssg is fatal to the run;
// the kind only decides the message and the exit code.
type Kind string

const (
	KindRead              Kind = "read"
	KindEmptyFile         Kind = "empty_file"
	KindWrite             Kind = "write"
	KindMissingContentTag Kind = "missing_content_tag"
	KindUnresolvedTag     Kind = "unresolved_tag"
	KindIncludeRead       Kind = "include_read"
	KindRender            Kind = "render"
	KindConfig            Kind = "config"
	KindUsage             Kind = "usage"
)

// Canonical context keys.
const (
	CtxPath     = "path"
	CtxTag      = "tag"
	CtxLocation = "location"
	CtxKey      = "key"
)

// Context holds structured details about an error.
type Context map[string]any

// Set adds or updates a context value.
func (c Context) Set(key string, value any) Context {
	if c == nil {
		c = make(Context)
	}
	c[key] = value
	return c
}

// Get retrieves a context value.
func (c Context) Get(key string) (any, bool) {
	if c == nil {
		return nil, false
	}
	v, ok := c[key]
	return v, ok
}

// GetString retrieves a string context value.
func (c Context) GetString(key string) (string, bool) {
	if v, ok := c.Get(key); ok {
		if s, ok := v.(string); ok {
			return s, true
		}
	}
	return "", false
}

// Keys returns the context keys in sorted order.
func (c Context) Keys() []string {
	var keys []string
	for k := range c {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
