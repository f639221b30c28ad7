package domain

import (
	"fmt"
	"unicode/utf8"
)

// checkLength records a violation when s is absent, empty, or outside
// [min, max] runes. label is the capitalised name used in messages.
func checkLength(errs *ValidationErrors, field, label string, s *string, min, max int) {
	switch {
	case s == nil:
		errs.add(field, label+" is required.")
	case *s == "":
		errs.add(field, label+" cannot be empty.")
	case utf8.RuneCountInString(*s) < min:
		errs.add(field, fmt.Sprintf("%s must be at least %d characters long.", label, min))
	case utf8.RuneCountInString(*s) > max:
		errs.add(field, fmt.Sprintf("%s cannot exceed %d characters.", label, max))
	}
}

// checkUsernames records a violation for every empty entry in names.
func checkUsernames(errs *ValidationErrors, field string, names []string) {
	for i, n := range names {
		if n == "" {
			name := fmt.Sprintf("%s[%d]", field, i)
			errs.add(name, name+" cannot be empty.")
		}
	}
}
