package readiness

import (
	"context"
	"fmt"
	"strings"

	"empsd_automation/domain/entities"
	"empsd_automation/domain/interfaces"
)

// headingSelectors is the structural fallback when no element exposes the heading role
const headingSelectors = "h1, h2, h3, h4, h5, h6"

type headingContains struct {
	target string
}

// HeadingContains holds once a heading whose text contains target is rendered
func HeadingContains(target string) Condition {
	return headingContains{target: target}
}

func (c headingContains) Describe() string {
	return fmt.Sprintf("heading containing %q", c.target)
}

func (c headingContains) Check(ctx context.Context, d interfaces.Driver) (bool, error) {
	for _, q := range []entities.Query{entities.ByRole("heading", ""), entities.BySelector(headingSelectors)} {
		texts, err := d.Resolve(q).AllTextContents(ctx)
		if err != nil {
			return false, err
		}
		for _, text := range texts {
			if strings.Contains(text, c.target) {
				return true, nil
			}
		}
	}
	return false, nil
}

type urlContains struct {
	fragment string
}

// URLContains holds once the current URL contains fragment
func URLContains(fragment string) Condition {
	return urlContains{fragment: fragment}
}

func (c urlContains) Describe() string {
	return fmt.Sprintf("URL containing %q", c.fragment)
}

func (c urlContains) Check(ctx context.Context, d interfaces.Driver) (bool, error) {
	return strings.Contains(d.CurrentURL(), c.fragment), nil
}

type elementVisible struct {
	query entities.Query
}

// ElementVisible holds once the first match of q is visible
func ElementVisible(q entities.Query) Condition {
	return elementVisible{query: q}
}

func (c elementVisible) Describe() string {
	return fmt.Sprintf("visible %s", c.query)
}

func (c elementVisible) Check(ctx context.Context, d interfaces.Driver) (bool, error) {
	return d.Resolve(c.query).First().IsVisible(ctx)
}
