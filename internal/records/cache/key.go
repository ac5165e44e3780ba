package cache

import (
	"net/url"
	"strings"
)

// Param is one recognised query parameter feeding a cache key.
type Param struct {
	Name  string
	Value string
}

// Control parameters change how a query runs, not what it returns, and are
// never part of a key.
var controlParams = map[string]struct{}{
	"limit": {},
	"force": {},
}

// EncodeKey concatenates name:value: for each param in the order given. The
// empty filter encodes to "". Names and values are query-escaped, so a ':'
// inside a value cannot forge another param. Callers that want logically
// equal filters to share a key must pass params in a fixed order.
func EncodeKey(params []Param) string {
	var b strings.Builder
	for _, p := range params {
		if _, ok := controlParams[p.Name]; ok {
			continue
		}
		b.WriteString(url.QueryEscape(p.Name))
		b.WriteByte(':')
		b.WriteString(url.QueryEscape(p.Value))
		b.WriteByte(':')
	}
	return b.String()
}
