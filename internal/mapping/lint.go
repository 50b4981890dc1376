package mapping

import (
	"fmt"
	"regexp"
	"strings"
)

// canonicalMAC is the only layout under which string ordering equals numeric ordering.
var canonicalMAC = regexp.MustCompile(`^[0-9A-F]{2}(:[0-9A-F]{2}){5}$`)

// Severity of a lint finding
type Severity int

const (
	// SeverityWarning marks formatting that still compares correctly after case normalization
	SeverityWarning Severity = iota
	// SeverityError marks an entry that can match the wrong addresses or none at all
	SeverityError
)

// String returns the lowercase severity name
func (s Severity) String() string {
	if s == SeverityError {
		return "error"
	}
	return "warning"
}

// Issue is a single lint finding against one range bound.
type Issue struct {
	Severity Severity
	ID       string // Mapping id
	Mapping  int    // Mapping index in table order
	Range    int    // Range index within the mapping
	Message  string
}

// String formats the issue for CLI output
func (i Issue) String() string {
	return fmt.Sprintf("%s: mapping %d (%s) range %d: %s", i.Severity, i.Mapping, i.ID, i.Range, i.Message)
}

// Lint reports table entries whose formatting would make string comparison
// disagree with address ordering. It does not modify anything.
func Lint(mappings []DeviceMacMapping) []Issue {
	var issues []Issue
	seen := make(map[string]int)

	for i, m := range mappings {
		if prev, dup := seen[m.ID]; dup {
			issues = append(issues, Issue{
				Severity: SeverityWarning,
				ID:       m.ID,
				Mapping:  i,
				Range:    -1,
				Message:  fmt.Sprintf("duplicate id, also used by mapping %d", prev),
			})
		} else {
			seen[m.ID] = i
		}

		if len(m.MAC) == 0 {
			issues = append(issues, Issue{
				Severity: SeverityWarning,
				ID:       m.ID,
				Mapping:  i,
				Range:    -1,
				Message:  "no ranges, mapping can never match",
			})
		}

		for j, r := range m.MAC {
			for _, bound := range []struct {
				name  string
				value string
			}{{"start", r.Start}, {"end", r.End}} {
				if msg, sev, bad := lintBound(bound.value); bad {
					issues = append(issues, Issue{
						Severity: sev,
						ID:       m.ID,
						Mapping:  i,
						Range:    j,
						Message:  fmt.Sprintf("%s %q %s", bound.name, bound.value, msg),
					})
				}
			}

			if strings.ToUpper(r.Start) > strings.ToUpper(r.End) {
				issues = append(issues, Issue{
					Severity: SeverityError,
					ID:       m.ID,
					Mapping:  i,
					Range:    j,
					Message:  fmt.Sprintf("start %q sorts after end %q, range is empty", r.Start, r.End),
				})
			}
		}
	}

	return issues
}

func lintBound(value string) (string, Severity, bool) {
	upper := strings.ToUpper(value)
	switch {
	case canonicalMAC.MatchString(value):
		return "", SeverityWarning, false
	case canonicalMAC.MatchString(upper):
		return "uses lowercase hex digits", SeverityWarning, true
	case strings.Contains(value, "-"):
		return "uses '-' separators, addresses are compared with ':'", SeverityError, true
	default:
		return "is not a 6-octet colon-separated address", SeverityError, true
	}
}

// HasErrors reports whether any issue is error severity.
func HasErrors(issues []Issue) bool {
	for _, i := range issues {
		if i.Severity == SeverityError {
			return true
		}
	}
	return false
}
