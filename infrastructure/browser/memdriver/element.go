package memdriver

import (
	"context"
	"fmt"
	"strings"
	"time"

	"empsd_automation/domain/entities"
	"empsd_automation/domain/interfaces"
)

type element struct {
	page  *Page
	query entities.Query
	first bool
}

var _ interfaces.Element = (*element)(nil)

func (e *element) Describe() string {
	if e.first {
		return e.query.String() + " >> nth=0"
	}
	return e.query.String()
}

func (e *element) First() interfaces.Element {
	return &element{page: e.page, query: e.query, first: true}
}

// resolve returns the matched nodes. Must be called with the page lock held.
func (e *element) resolve(ctx context.Context) ([]*Node, error) {
	if err := e.page.check(ctx); err != nil {
		return nil, err
	}
	nodes := e.page.match(e.query)
	if e.first && len(nodes) > 1 {
		nodes = nodes[:1]
	}
	return nodes, nil
}

// single resolves exactly one node, as a strict locator would
func (e *element) single(ctx context.Context) (*Node, error) {
	nodes, err := e.resolve(ctx)
	if err != nil {
		return nil, err
	}
	switch len(nodes) {
	case 0:
		return nil, fmt.Errorf("%w: %s", entities.ErrElementNotFound, e.Describe())
	case 1:
		return nodes[0], nil
	default:
		return nil, fmt.Errorf("%w: strict mode violation: %s resolved to %d elements", entities.ErrAction, e.Describe(), len(nodes))
	}
}

func (e *element) Count(ctx context.Context) (int, error) {
	e.page.mu.Lock()
	defer e.page.mu.Unlock()
	nodes, err := e.resolve(ctx)
	if err != nil {
		return 0, err
	}
	return len(nodes), nil
}

func (e *element) WaitFor(ctx context.Context, timeout time.Duration) error {
	e.page.mu.Lock()
	defer e.page.mu.Unlock()
	nodes, err := e.resolve(ctx)
	if err != nil {
		return err
	}
	if len(nodes) == 0 {
		return fmt.Errorf("%w: %s not attached within %s", entities.ErrElementNotFound, e.Describe(), timeout)
	}
	return nil
}

func (e *element) Click(ctx context.Context) error {
	e.page.mu.Lock()
	n, err := e.actionable(ctx, "click")
	e.page.mu.Unlock()
	if err != nil {
		return err
	}
	if n.OnClick != nil {
		n.OnClick(e.page)
	}
	return nil
}

func (e *element) Fill(ctx context.Context, value string) error {
	return e.edit(ctx, "fill", value)
}

func (e *element) Clear(ctx context.Context) error {
	return e.edit(ctx, "clear", "")
}

func (e *element) edit(ctx context.Context, op, value string) error {
	e.page.mu.Lock()
	n, err := e.actionable(ctx, op)
	if err == nil {
		n.Value = value
	}
	onChange := e.page.OnChange
	e.page.mu.Unlock()
	if err != nil {
		return err
	}
	if onChange != nil {
		onChange(e.page)
	}
	return nil
}

// actionable resolves the target of an action. Must be called with the page lock held.
func (e *element) actionable(ctx context.Context, op string) (*Node, error) {
	e.page.record("%s %s", op, e.query)
	n, err := e.single(ctx)
	if err != nil {
		return nil, err
	}
	switch {
	case n.Broken:
		return nil, fmt.Errorf("%w: %s %s: element is not attached to the DOM", entities.ErrAction, op, e.Describe())
	case n.Hidden:
		return nil, fmt.Errorf("%w: %s %s: element is not visible", entities.ErrAction, op, e.Describe())
	case n.Disabled:
		return nil, fmt.Errorf("%w: %s %s: element is disabled", entities.ErrAction, op, e.Describe())
	}
	return n, nil
}

func (e *element) TextContent(ctx context.Context) (string, error) {
	e.page.mu.Lock()
	defer e.page.mu.Unlock()
	n, err := e.single(ctx)
	if err != nil {
		return "", err
	}
	return n.Text, nil
}

func (e *element) AllTextContents(ctx context.Context) ([]string, error) {
	e.page.mu.Lock()
	defer e.page.mu.Unlock()
	nodes, err := e.resolve(ctx)
	if err != nil {
		return nil, err
	}
	texts := make([]string, 0, len(nodes))
	for _, n := range nodes {
		texts = append(texts, n.Text)
	}
	return texts, nil
}

// IsVisible reports false without error when nothing matches
func (e *element) IsVisible(ctx context.Context) (bool, error) {
	e.page.mu.Lock()
	defer e.page.mu.Unlock()
	nodes, err := e.resolve(ctx)
	if err != nil {
		return false, err
	}
	if len(nodes) == 0 {
		return false, nil
	}
	if len(nodes) > 1 {
		return false, fmt.Errorf("%w: strict mode violation: %s resolved to %d elements", entities.ErrAction, e.Describe(), len(nodes))
	}
	return !nodes[0].Hidden, nil
}

func (e *element) IsDisabled(ctx context.Context) (bool, error) {
	e.page.mu.Lock()
	defer e.page.mu.Unlock()
	n, err := e.single(ctx)
	if err != nil {
		return false, err
	}
	return n.Disabled, nil
}

func (e *element) Attribute(ctx context.Context, name string) (string, bool, error) {
	e.page.mu.Lock()
	defer e.page.mu.Unlock()
	n, err := e.single(ctx)
	if err != nil {
		return "", false, err
	}
	switch {
	case strings.EqualFold(name, "disabled") && n.Disabled:
		return "", true, nil
	case strings.EqualFold(name, "value"):
		return n.Value, true, nil
	}
	v, ok := n.Attrs[name]
	return v, ok, nil
}
