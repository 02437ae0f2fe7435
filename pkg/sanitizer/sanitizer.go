// Package sanitizer strips markup from submitted form values before they are
// validated or stored.
package sanitizer

import (
	"html"
	"net/url"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	strictPolicy *bluemonday.Policy
	initOnce     sync.Once
)

func policy() *bluemonday.Policy {
	initOnce.Do(func() {
		strictPolicy = bluemonday.StrictPolicy()
	})
	return strictPolicy
}

// Text removes every HTML element and attribute from s, decodes entities and
// trims surrounding whitespace. "<b>Awa</b> N'Diaye " becomes "Awa N'Diaye".
func Text(s string) string {
	if s == "" {
		return s
	}
	return strings.TrimSpace(html.UnescapeString(policy().Sanitize(s)))
}

// Values flattens form values to their first entry, each passed through Text.
func Values(v url.Values) map[string]string {
	out := make(map[string]string, len(v))
	for k, vs := range v {
		if len(vs) == 0 {
			out[k] = ""
			continue
		}
		out[k] = Text(vs[0])
	}
	return out
}
