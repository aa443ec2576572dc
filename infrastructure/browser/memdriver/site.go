package memdriver

import (
	"strings"
	"time"
)

// SessionCookie is set by the modelled application after a successful login
const SessionCookie = "empsd_session"

// Node IDs rendered by Site
const (
	NodeEmail          = "email"
	NodePassword       = "password"
	NodeSubmit         = "submit"
	NodePasswordToggle = "password-toggle"
	NodeLoginForm      = "login-form"
	NodeLoginError     = "login-error"
	NodeHeading        = "dashboard-heading"
	NodeNavigation     = "navigation"
	NodeMainContent    = "main-content"
	NodeUserMenu       = "user-menu"
	NodeLogout         = "logout"
)

// Site models the EMPSD login and dashboard screens on a Page
type Site struct {
	BaseURL  string
	Title    string
	Heading  string
	Accounts map[string]string // email to password

	// LoadDelay keeps the dashboard heading at "Loading…" for a while after
	// render; zero renders the final heading at once
	LoadDelay time.Duration
	// Structural drops roles, labels and test IDs so only CSS selectors match
	Structural bool
}

// NewSite - creates a model with the default EMPSD texts
func NewSite(baseURL string, accounts map[string]string) *Site {
	return &Site{
		BaseURL:  strings.TrimSuffix(baseURL, "/"),
		Title:    "PLN EMPSD",
		Heading:  "Welcome to EMPSD Dashboard",
		Accounts: accounts,
	}
}

// HomeURL returns the application root
func (s *Site) HomeURL() string {
	return s.BaseURL + "/"
}

// LoginURL returns the login screen URL, redirecting home after login
func (s *Site) LoginURL() string {
	return s.BaseURL + "/login?redirect=%2F"
}

// DashboardURL returns the dashboard URL
func (s *Site) DashboardURL() string {
	return s.BaseURL + "/dashboard"
}

// Install registers the routes of the site on p
func (s *Site) Install(p *Page) {
	p.Route(s.BaseURL, s.home)
	p.Route(s.HomeURL(), s.home)
	p.Route(s.BaseURL+"/login", s.loginScreen)
	p.Route(s.DashboardURL(), s.dashboard)
}

func (s *Site) home(p *Page) {
	if _, ok := p.Cookie(SessionCookie); ok {
		p.Redirect(s.DashboardURL())
		return
	}
	p.Redirect(s.LoginURL())
}

func (s *Site) node(n *Node) *Node {
	if s.Structural {
		n.Role, n.Name, n.Label, n.TestID = "", "", "", ""
	}
	return n
}

func (s *Site) loginScreen(p *Page) {
	if _, ok := p.Cookie(SessionCookie); ok {
		p.Redirect(s.DashboardURL())
		return
	}

	p.Render(s.Title,
		s.node(&Node{ID: NodeLoginForm, Selectors: []string{"form"}}),
		s.node(&Node{
			ID: NodeEmail, Role: "textbox", Name: "Email", Label: "Email", Placeholder: "Enter your email",
			Selectors: []string{`input[type="email"]`, `input[name="email"]`, "#email"},
			Attrs:     map[string]string{"type": "email"},
		}),
		s.node(&Node{
			ID: NodePassword, Role: "textbox", Name: "Password", Label: "Password", Placeholder: "Enter your password",
			Selectors: []string{`input[type="password"]`, `input[name="password"]`, "#password"},
			Attrs:     map[string]string{"type": "password"},
		}),
		s.node(&Node{
			ID: NodePasswordToggle, Role: "button", Name: "Show password", TestID: "password-toggle",
			Selectors: []string{`[data-testid="password-toggle"]`, ".password-toggle"},
			OnClick:   s.togglePassword,
		}),
		s.node(&Node{
			ID: NodeSubmit, Role: "button", Name: "Login", Text: "Login", Disabled: true,
			Selectors: []string{`button[type="submit"]`, "button"},
			OnClick:   s.submit,
		}),
	)
	p.OnChange = func(p *Page) {
		filled := p.Value(NodeEmail) != "" && p.Value(NodePassword) != ""
		p.Update(NodeSubmit, func(n *Node) { n.Disabled = !filled })
	}
}

func (s *Site) togglePassword(p *Page) {
	p.Update(NodePassword, func(n *Node) {
		if n.Attrs["type"] == "password" {
			n.Attrs["type"] = "text"
		} else {
			n.Attrs["type"] = "password"
		}
	})
}

func (s *Site) submit(p *Page) {
	email, password := p.Value(NodeEmail), p.Value(NodePassword)
	if want, ok := s.Accounts[email]; ok && want == password {
		p.SetCookie(SessionCookie, email)
		p.Redirect(s.DashboardURL())
		return
	}

	p.Update(NodeLoginError, func(n *Node) { n.Hidden = false })
	if !p.has(NodeLoginError) {
		p.Add(s.node(&Node{
			ID: NodeLoginError, Role: "alert", Text: "Invalid email or password",
			Selectors: []string{".error-message", `[role="alert"]`},
		}))
	}
}

func (s *Site) dashboard(p *Page) {
	if _, ok := p.Cookie(SessionCookie); !ok {
		p.Redirect(s.LoginURL())
		return
	}
	p.OnChange = nil

	heading := s.Heading
	if s.LoadDelay > 0 {
		heading = "Loading…"
	}
	p.Render(s.Title,
		s.node(&Node{ID: NodeHeading, Role: "heading", Name: heading, Text: heading, Selectors: []string{"h1", ".dashboard-title", `[data-testid="empsd-heading"]`}}),
		s.node(&Node{ID: NodeNavigation, Role: "navigation", Selectors: []string{"nav", ".sidebar"}}),
		s.node(&Node{ID: NodeMainContent, Role: "main", Selectors: []string{"main", ".main-content"}}),
		s.node(&Node{
			ID: NodeUserMenu, Role: "button", Name: "Account", TestID: "user-menu",
			Selectors: []string{".user-menu", ".avatar"},
			OnClick: func(p *Page) {
				p.Update(NodeLogout, func(n *Node) { n.Hidden = false })
			},
		}),
		s.node(&Node{
			ID: NodeLogout, Role: "menuitem", Name: "Logout", Text: "Logout", Hidden: true,
			Selectors: []string{"button"},
			OnClick: func(p *Page) {
				p.DeleteCookie(SessionCookie)
				p.Redirect(s.LoginURL())
			},
		}),
	)
	if s.LoadDelay > 0 {
		time.AfterFunc(s.LoadDelay, func() {
			p.Update(NodeHeading, func(n *Node) {
				n.Text = s.Heading
				if !s.Structural {
					n.Name = s.Heading
				}
			})
		})
	}
}

func (p *Page) has(id string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, n := range p.nodes {
		if n.ID == id {
			return true
		}
	}
	return false
}
