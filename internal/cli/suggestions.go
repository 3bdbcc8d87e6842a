package cli

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"

	"github.com/mtt-project/mtt/pkg/color"
)

var folder = cases.Fold()

// suggestTimers offers close matches for a mistyped timer name, comparing
// case-folded prefixes first and substrings second.
func suggestTimers(name string, names []string) string {
	if len(names) == 0 {
		return fmt.Sprintf("No timers exist yet; create one with %s.", color.Code("mtt new NAME"))
	}

	query := folder.String(name)
	var matches []string
	for _, n := range names {
		if strings.HasPrefix(folder.String(n), query) {
			matches = append(matches, n)
		}
	}
	if len(matches) == 0 {
		for _, n := range names {
			folded := folder.String(n)
			if strings.Contains(folded, query) || strings.Contains(query, folded) {
				matches = append(matches, n)
			}
		}
	}

	if len(matches) > 0 {
		if len(matches) > 3 {
			matches = matches[:3]
		}
		for i, m := range matches {
			matches[i] = color.Timer(m)
		}
		hint := "Did you mean"
		if len(matches) > 1 {
			hint += " one of"
		}
		return fmt.Sprintf("%s: %s?", hint, strings.Join(matches, ", "))
	}

	return fmt.Sprintf("Run %s to see available timers.", color.Code("mtt list"))
}
