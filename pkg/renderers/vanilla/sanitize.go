package vanilla

import (
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	tablePolicyOnce sync.Once
	tablePolicy     *bluemonday.Policy
)

// sanitizeTableMarkup strips everything but table structure from a rendered
// fragment, so a custom template cannot smuggle scripts or handlers into the
// results region.
func sanitizeTableMarkup(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	return strings.TrimSpace(tableSanitizer().Sanitize(trimmed))
}

func tableSanitizer() *bluemonday.Policy {
	tablePolicyOnce.Do(func() {
		policy := bluemonday.StrictPolicy()
		policy.AllowElements("table", "caption", "thead", "tbody", "tfoot", "tr", "th", "td")
		policy.AllowAttrs("class").OnElements("table", "tr", "th", "td")
		policy.AllowAttrs("scope").OnElements("th")
		tablePolicy = policy
	})
	return tablePolicy
}
