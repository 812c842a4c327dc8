// Package query assembles the search query string sent to the orders list
// endpoint.
package query

import (
	"net/url"
	"sort"
	"strings"
)

// Filter maps a filter name to a single value. Empty values are inactive.
type Filter map[string]string

// Filter names understood by the orders service.
const (
	KeyStatus     = "status"
	KeyCustomerID = "customer_id"
)

// DefaultKeys is the declared term order for the known filters.
var DefaultKeys = []string{KeyStatus, KeyCustomerID}

// Builder renders filters as a query string in a deterministic order:
// declared keys first, then any remaining keys sorted lexicographically.
type Builder struct {
	keys []string
}

// NewBuilder returns a builder using DefaultKeys.
func NewBuilder() *Builder {
	return &Builder{keys: append([]string(nil), DefaultKeys...)}
}

// WithKeys returns a copy of the builder with extra declared keys appended
// after the existing ones. Duplicates and blank names are ignored.
func (b *Builder) WithKeys(keys ...string) *Builder {
	next := &Builder{keys: append([]string(nil), b.keys...)}
	for _, key := range keys {
		key = strings.TrimSpace(key)
		if key == "" || contains(next.keys, key) {
			continue
		}
		next.keys = append(next.keys, key)
	}
	return next
}

// Keys reports the declared key order.
func (b *Builder) Keys() []string {
	return append([]string(nil), b.keys...)
}

// Build returns the query string without a leading "?". A filter with no
// active values yields "".
func (b *Builder) Build(filter Filter) string {
	if len(filter) == 0 {
		return ""
	}

	terms := make([]string, 0, len(filter))
	for _, key := range b.order(filter) {
		value := strings.TrimSpace(filter[key])
		if value == "" {
			continue
		}
		terms = append(terms, url.QueryEscape(key)+"="+url.QueryEscape(value))
	}
	return strings.Join(terms, "&")
}

// Build renders filter with a default builder.
func Build(filter Filter) string {
	return NewBuilder().Build(filter)
}

func (b *Builder) order(filter Filter) []string {
	ordered := make([]string, 0, len(filter))
	for _, key := range b.keys {
		if _, ok := filter[key]; ok {
			ordered = append(ordered, key)
		}
	}

	var extra []string
	for key := range filter {
		if strings.TrimSpace(key) == "" || contains(b.keys, key) {
			continue
		}
		extra = append(extra, key)
	}
	sort.Strings(extra)
	return append(ordered, extra...)
}

func contains(list []string, value string) bool {
	for _, item := range list {
		if item == value {
			return true
		}
	}
	return false
}
