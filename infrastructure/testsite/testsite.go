// Package testsite serves a local stand-in of the EMPSD login and dashboard
// screens, with the same markup contract as the real application.
package testsite

import (
	"embed"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// SessionCookie carries the session token after a successful login
const SessionCookie = "empsd_session"

//go:embed static/*.html
var static embed.FS

// Options configures the site
type Options struct {
	// Accounts maps email to password
	Accounts map[string]string
	// LoadDelay keeps the dashboard heading at "Loading…" after page load
	LoadDelay time.Duration
	Logger    *logrus.Logger
}

// Site is the HTTP handler of the stand-in application
type Site struct {
	opts     Options
	router   *gin.Engine
	login    []byte
	board    []byte
	mu       sync.Mutex
	sessions map[string]string // token to email
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// New - creates the site
func New(opts Options) (*Site, error) {
	login, err := static.ReadFile("static/login.html")
	if err != nil {
		return nil, err
	}
	board, err := static.ReadFile("static/dashboard.html")
	if err != nil {
		return nil, err
	}
	board = []byte(strings.ReplaceAll(string(board), "{{LOAD_DELAY_MS}}", strconv.FormatInt(opts.LoadDelay.Milliseconds(), 10)))

	s := &Site{
		opts:     opts,
		login:    login,
		board:    board,
		sessions: make(map[string]string),
	}
	s.router = s.routes()
	return s, nil
}

func (s *Site) routes() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	if s.opts.Logger != nil {
		r.Use(s.logRequests)
	}

	r.GET("/", func(c *gin.Context) {
		if s.authenticated(c) {
			c.Redirect(http.StatusFound, "/dashboard")
			return
		}
		c.Redirect(http.StatusFound, "/login?redirect=%2F")
	})
	r.GET("/login", func(c *gin.Context) {
		if s.authenticated(c) {
			c.Redirect(http.StatusFound, "/dashboard")
			return
		}
		c.Data(http.StatusOK, "text/html; charset=utf-8", s.login)
	})
	r.GET("/dashboard", func(c *gin.Context) {
		if !s.authenticated(c) {
			c.Redirect(http.StatusFound, "/login?redirect=%2Fdashboard")
			return
		}
		c.Data(http.StatusOK, "text/html; charset=utf-8", s.board)
	})
	r.POST("/api/login", s.handleLogin)
	r.POST("/api/logout", s.handleLogout)
	return r
}

func (s *Site) logRequests(c *gin.Context) {
	start := time.Now()
	c.Next()
	s.opts.Logger.WithFields(logrus.Fields{
		"method":   c.Request.Method,
		"path":     c.Request.URL.Path,
		"status":   c.Writer.Status(),
		"duration": time.Since(start),
	}).Debug("testsite request")
}

func (s *Site) handleLogin(c *gin.Context) {
	var req credentials
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	want, ok := s.opts.Accounts[req.Email]
	if !ok || want != req.Password {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}

	token := uuid.NewString()
	s.mu.Lock()
	s.sessions[token] = req.Email
	s.mu.Unlock()
	c.SetCookie(SessionCookie, token, 3600, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"email": req.Email})
}

func (s *Site) handleLogout(c *gin.Context) {
	if token, err := c.Cookie(SessionCookie); err == nil {
		s.mu.Lock()
		delete(s.sessions, token)
		s.mu.Unlock()
	}
	c.SetCookie(SessionCookie, "", -1, "/", "", false, true)
	c.Status(http.StatusNoContent)
}

func (s *Site) authenticated(c *gin.Context) bool {
	token, err := c.Cookie(SessionCookie)
	if err != nil {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.sessions[token]
	return ok
}

// ServeHTTP implements http.Handler
func (s *Site) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Sessions returns the number of live sessions
func (s *Site) Sessions() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}
