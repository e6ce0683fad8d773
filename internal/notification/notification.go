package notification

import (
	"strings"

	"github.com/satriadw/hrm-portal/internal/hrmapi"
)

// linkRule is one step of the fallback destination heuristic. Rules are
// checked in order; the first keyword hit wins.
type linkRule struct {
	keywords []string
	target   string
}

var linkRules = []linkRule{
	{keywords: []string{"leave"}, target: "/admin/leave-requests"},
	{keywords: []string{"user", "registration"}, target: "/admin/users"},
	{keywords: []string{"employee"}, target: "/admin/employees"},
	{keywords: []string{"attendance"}, target: "/admin/attendance"},
	{keywords: []string{"payroll", "salary"}, target: "/admin/payroll"},
}

// ResolveLink picks the navigation target for a clicked notification. An
// explicit link always wins; otherwise the title and message are scanned
// against the keyword rules in priority order. No match means no navigation.
func ResolveLink(n hrmapi.Notification) string {
	if n.Link != "" {
		return n.Link
	}

	haystack := strings.ToLower(n.Title + " " + n.Message)
	for _, rule := range linkRules {
		for _, kw := range rule.keywords {
			if strings.Contains(haystack, kw) {
				return rule.target
			}
		}
	}
	return ""
}
