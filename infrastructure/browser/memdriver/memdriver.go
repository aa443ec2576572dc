// Package memdriver is an in-memory interfaces.Driver. Pages are modelled as
// flat lists of nodes; queries match nodes by their declared semantics and
// selectors. Lookups never block: an absent element is reported at once.
package memdriver

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"empsd_automation/domain/entities"
	"empsd_automation/domain/interfaces"
)

// ErrClosed is returned by every call after Close
var ErrClosed = errors.New("memdriver: page closed")

// Node is one rendered element
type Node struct {
	ID          string
	Role        string
	Name        string // accessible name
	Label       string
	Placeholder string
	TestID      string
	Text        string
	Selectors   []string // structural selectors the node matches, one per alternative
	Attrs       map[string]string
	Value       string
	Hidden      bool
	Disabled    bool
	// Broken makes every action on the node fail as if it were detached
	Broken bool
	// OnClick runs after a successful click, without the page lock held
	OnClick func(p *Page)
}

// RenderFunc populates a page after navigation
type RenderFunc func(p *Page)

// ScriptFunc stands in for a page script
type ScriptFunc func(p *Page, arg any) (any, error)

// Page is an in-memory browser page
type Page struct {
	mu       sync.Mutex
	url      string
	title    string
	nodes    []*Node
	routes   map[string]RenderFunc
	scripts  map[string]ScriptFunc
	viewport entities.Viewport
	cookies  map[string]string
	calls    []string
	closed   bool

	// LoadIdleErr is returned by WaitForLoadIdle when set
	LoadIdleErr error
	// OnChange runs after every fill or clear, without the page lock held
	OnChange func(p *Page)
}

var _ interfaces.Driver = (*Page)(nil)

// New - creates an empty page at about:blank
func New() *Page {
	return &Page{
		url:      "about:blank",
		routes:   make(map[string]RenderFunc),
		scripts:  make(map[string]ScriptFunc),
		cookies:  make(map[string]string),
		viewport: entities.Viewport{Width: 1280, Height: 720},
	}
}

// Route registers what is rendered when url is navigated to. The query
// string is ignored when no exact route matches.
func (p *Page) Route(url string, render RenderFunc) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.routes[url] = render
}

// OnScript registers the result of a script passed to Evaluate or
// WaitForPredicate. Unregistered scripts evaluate to nil and satisfy predicates.
func (p *Page) OnScript(script string, fn ScriptFunc) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.scripts[script] = fn
}

// Render replaces the page content
func (p *Page) Render(title string, nodes ...*Node) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.title = title
	p.nodes = nodes
}

// Add appends nodes to the page
func (p *Page) Add(nodes ...*Node) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.nodes = append(p.nodes, nodes...)
}

// Update mutates the node with the given id, if present
func (p *Page) Update(id string, fn func(n *Node)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, n := range p.nodes {
		if n.ID == id {
			fn(n)
		}
	}
}

// Value returns the current value of the node with the given id
func (p *Page) Value(id string) string {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, n := range p.nodes {
		if n.ID == id {
			return n.Value
		}
	}
	return ""
}

// SetCookie sets a cookie in the page's context
func (p *Page) SetCookie(name, value string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cookies[name] = value
}

// DeleteCookie removes a cookie from the page's context
func (p *Page) DeleteCookie(name string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.cookies, name)
}

// Cookie returns the value of a cookie and whether it is set
func (p *Page) Cookie(name string) (string, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	v, ok := p.cookies[name]
	return v, ok
}

// Cookies returns a copy of the cookie jar
func (p *Page) Cookies() map[string]string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make(map[string]string, len(p.cookies))
	for k, v := range p.cookies {
		out[k] = v
	}
	return out
}

// Viewport returns the current viewport
func (p *Page) Viewport() entities.Viewport {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.viewport
}

// Calls returns the log of driver calls, e.g. "click label=Email"
func (p *Page) Calls() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return slices.Clone(p.calls)
}

// CountCalls returns how many logged calls start with prefix
func (p *Page) CountCalls(prefix string) int {
	n := 0
	for _, c := range p.Calls() {
		if strings.HasPrefix(c, prefix) {
			n++
		}
	}
	return n
}

func (p *Page) record(format string, args ...any) {
	p.calls = append(p.calls, fmt.Sprintf(format, args...))
}

func (p *Page) check(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if p.closed {
		return ErrClosed
	}
	return nil
}

// Navigate - renders the route registered for url
func (p *Page) Navigate(ctx context.Context, url string) error {
	p.mu.Lock()
	if err := p.check(ctx); err != nil {
		p.mu.Unlock()
		return err
	}
	p.record("navigate %s", url)
	render, ok := p.route(url)
	if !ok {
		p.mu.Unlock()
		return fmt.Errorf("%w: %s: no route", entities.ErrNavigation, url)
	}
	p.url = url
	p.title = ""
	p.nodes = nil
	p.mu.Unlock()

	render(p)
	return nil
}

// route looks up the renderer of url. Must be called with the lock held.
func (p *Page) route(url string) (RenderFunc, bool) {
	if render, ok := p.routes[url]; ok {
		return render, true
	}
	if i := strings.IndexByte(url, '?'); i >= 0 {
		render, ok := p.routes[url[:i]]
		return render, ok
	}
	return nil, false
}

// Redirect changes the current URL as a client-side router would and renders
// the route registered for it, if any. Routes call it to model redirects.
func (p *Page) Redirect(url string) {
	p.mu.Lock()
	p.url = url
	render, ok := p.route(url)
	if ok {
		p.title = ""
		p.nodes = nil
	}
	p.mu.Unlock()

	if ok {
		render(p)
	}
}

// CurrentURL returns the current page URL
func (p *Page) CurrentURL() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.url
}

// Title returns the current page title
func (p *Page) Title(ctx context.Context) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.check(ctx); err != nil {
		return "", err
	}
	return p.title, nil
}

// WaitForLoadIdle returns LoadIdleErr, the page is always idle otherwise
func (p *Page) WaitForLoadIdle(ctx context.Context, timeout time.Duration) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.check(ctx); err != nil {
		return err
	}
	p.record("wait_idle")
	return p.LoadIdleErr
}

// Resolve returns a lazy handle for q
func (p *Page) Resolve(q entities.Query) interfaces.Element {
	return &element{page: p, query: q}
}

// Evaluate runs a registered script
func (p *Page) Evaluate(ctx context.Context, script string, arg any) (any, error) {
	p.mu.Lock()
	if err := p.check(ctx); err != nil {
		p.mu.Unlock()
		return nil, err
	}
	p.record("evaluate")
	fn := p.scripts[script]
	p.mu.Unlock()

	if fn == nil {
		return nil, nil
	}
	return fn(p, arg)
}

// WaitForPredicate evaluates a registered script once; a falsy result is a timeout
func (p *Page) WaitForPredicate(ctx context.Context, script string, arg any, timeout time.Duration) error {
	p.mu.Lock()
	if err := p.check(ctx); err != nil {
		p.mu.Unlock()
		return err
	}
	p.record("wait_predicate")
	fn := p.scripts[script]
	p.mu.Unlock()

	if fn == nil {
		return nil
	}
	v, err := fn(p, arg)
	if err != nil {
		return err
	}
	if ok, _ := v.(bool); !ok {
		return fmt.Errorf("%w: predicate not satisfied within %s", entities.ErrTimeout, timeout)
	}
	return nil
}

// Pause - records the pause and returns immediately
func (p *Page) Pause(ctx context.Context, d time.Duration) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.check(ctx); err != nil {
		return err
	}
	p.record("pause %s", d)
	return nil
}

// Screenshot returns a placeholder image of the current URL
func (p *Page) Screenshot(ctx context.Context) ([]byte, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.check(ctx); err != nil {
		return nil, err
	}
	p.record("screenshot")
	return []byte("memdriver:" + p.url), nil
}

// SetViewport resizes the page
func (p *Page) SetViewport(ctx context.Context, v entities.Viewport) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.check(ctx); err != nil {
		return err
	}
	p.record("viewport %dx%d", v.Width, v.Height)
	p.viewport = v
	return nil
}

// ClearCookies empties the cookie jar
func (p *Page) ClearCookies(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err := p.check(ctx); err != nil {
		return err
	}
	p.record("clear_cookies")
	p.cookies = make(map[string]string)
	return nil
}

// Close closes the page
func (p *Page) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	return nil
}

func (p *Page) match(q entities.Query) []*Node {
	var out []*Node
	for _, n := range p.nodes {
		if matches(n, q) {
			out = append(out, n)
		}
	}
	return out
}

func matches(n *Node, q entities.Query) bool {
	switch q.Kind {
	case entities.CapabilityRole:
		if n.Role == "" || n.Role != q.Value {
			return false
		}
		return q.Name == "" || textMatches(n.Name, q)
	case entities.CapabilityText:
		return n.Text != "" && textMatches(n.Text, q)
	case entities.CapabilityLabel:
		return n.Label != "" && textMatches(n.Label, q)
	case entities.CapabilityPlaceholder:
		return n.Placeholder != "" && textMatches(n.Placeholder, q)
	case entities.CapabilityTestID:
		return n.TestID != "" && n.TestID == q.Value
	case entities.CapabilityCSS:
		for _, alt := range entities.Alternatives(q.Value) {
			if slices.Contains(n.Selectors, alt) || hasText(n, alt) {
				return true
			}
		}
		return false
	default:
		return false
	}
}

// textMatches compares have against the name of a role query or the value
// of any other query
func textMatches(have string, q entities.Query) bool {
	want := q.Value
	if q.Kind == entities.CapabilityRole {
		want = q.Name
	}
	switch {
	case q.Pattern:
		re, err := q.Regexp()
		return err == nil && re.MatchString(have)
	case q.Exact:
		return have == want
	}
	return containsFold(have, want)
}

// hasText matches a `base:has-text("x")` alternative against a node carrying
// the base selector whose text contains x, ignoring case
func hasText(n *Node, alt string) bool {
	i := strings.Index(alt, ":has-text(")
	if i <= 0 || !strings.HasSuffix(alt, ")") {
		return false
	}
	want := strings.Trim(alt[i+len(":has-text("):len(alt)-1], `"'`)
	return want != "" && slices.Contains(n.Selectors, alt[:i]) && containsFold(n.Text, want)
}

func containsFold(have, want string) bool {
	return strings.Contains(strings.ToLower(have), strings.ToLower(want))
}
