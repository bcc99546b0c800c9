package model

import (
	"fmt"
	"strings"
)

// AmbiguousCategoryError is returned when a fragment fits more than one
// category and no disambiguation rule decides between them
type AmbiguousCategoryError struct {
	Fragment   string     // Fragment or cluster identifier
	Candidates []Category // Categories whose scope matched
}

func (e *AmbiguousCategoryError) Error() string {
	names := make([]string, len(e.Candidates))
	for i, c := range e.Candidates {
		names[i] = c.String()
	}
	return fmt.Sprintf("ambiguous category for %s: matches %s", e.Fragment, strings.Join(names, ", "))
}

// UnclassifiedError is returned when no category scope matches a fragment
type UnclassifiedError struct {
	Fragment string
}

func (e *UnclassifiedError) Error() string {
	return fmt.Sprintf("no category scope matches %s", e.Fragment)
}

// MissingPronounContextError is returned when an override template has to
// be resolved for a subject whose gender is unknown
type MissingPronounContextError struct {
	Subject   string
	Directive string
}

func (e *MissingPronounContextError) Error() string {
	return fmt.Sprintf("override %q: gender of %q is unknown, cannot resolve pronouns", e.Directive, e.Subject)
}

// CategoryOverflowError is returned when a category would hold more than MaxNeeds needs
type CategoryOverflowError struct {
	Category Category
	Count    int
}

func (e *CategoryOverflowError) Error() string {
	return fmt.Sprintf("%s has %d needs, limit is %d", e.Category, e.Count, MaxNeeds)
}
