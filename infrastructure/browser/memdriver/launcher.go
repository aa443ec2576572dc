package memdriver

import (
	"context"
	"errors"
	"slices"
	"sync"

	"empsd_automation/domain/interfaces"
)

// Launcher hands out fresh in-memory pages, each prepared by setup
type Launcher struct {
	setup func(p *Page)

	mu     sync.Mutex
	pages  []*Page
	closed bool
}

var _ interfaces.Launcher = (*Launcher)(nil)

// NewLauncher - creates a launcher; setup may be nil
func NewLauncher(setup func(p *Page)) *Launcher {
	return &Launcher{setup: setup}
}

// NewSession returns a new blank page with its own cookie jar
func (l *Launcher) NewSession(ctx context.Context) (interfaces.Driver, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return nil, errors.New("memdriver: launcher closed")
	}
	p := New()
	if l.setup != nil {
		l.setup(p)
	}
	l.pages = append(l.pages, p)
	return p, nil
}

// Pages returns every page handed out so far
func (l *Launcher) Pages() []*Page {
	l.mu.Lock()
	defer l.mu.Unlock()
	return slices.Clone(l.pages)
}

// Close closes all pages
func (l *Launcher) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.closed = true
	for _, p := range l.pages {
		_ = p.Close()
	}
	return nil
}
