package pages

import (
	"fmt"
	"maps"
	"slices"

	"empsd_automation/domain/entities"
)

// Elements maps logical element names of one page to their resolution
// pairs. It is read-only once built.
type Elements struct {
	page string
	m    map[string]entities.Resolution
}

// NewElements - validates and copies the resolution map of page
func NewElements(page string, m map[string]entities.Resolution) (Elements, error) {
	for name, r := range m {
		if err := r.Validate(); err != nil {
			return Elements{}, fmt.Errorf("%s: element %q: %w", page, name, err)
		}
	}
	return Elements{page: page, m: maps.Clone(m)}, nil
}

// mustElements panics on an invalid map; maps are declared in code
func mustElements(page string, m map[string]entities.Resolution) Elements {
	els, err := NewElements(page, m)
	if err != nil {
		panic(err)
	}
	return els
}

// Page returns the page name
func (e Elements) Page() string {
	return e.page
}

// Lookup returns the resolution pair of name
func (e Elements) Lookup(name string) (entities.Resolution, bool) {
	r, ok := e.m[name]
	return r, ok
}

// Names returns the logical element names, sorted
func (e Elements) Names() []string {
	return slices.Sorted(maps.Keys(e.m))
}
