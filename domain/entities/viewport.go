package entities

import (
	"fmt"
	"time"
)

// Viewport is a browser window size
type Viewport struct {
	Name   string `json:"name,omitempty" yaml:"name,omitempty" mapstructure:"name"`
	Width  int    `json:"width" yaml:"width" mapstructure:"width"`
	Height int    `json:"height" yaml:"height" mapstructure:"height"`
}

func (v Viewport) String() string {
	if v.Name != "" {
		return fmt.Sprintf("%s (%dx%d)", v.Name, v.Width, v.Height)
	}
	return fmt.Sprintf("%dx%d", v.Width, v.Height)
}

// Timeouts are the tiers every wait in the suite is drawn from
type Timeouts struct {
	Short    time.Duration `mapstructure:"short"`
	Medium   time.Duration `mapstructure:"medium"`
	Long     time.Duration `mapstructure:"long"`
	VeryLong time.Duration `mapstructure:"very_long"`
}

// DefaultTimeouts - 5s / 10s / 30s / 60s
func DefaultTimeouts() Timeouts {
	return Timeouts{
		Short:    5 * time.Second,
		Medium:   10 * time.Second,
		Long:     30 * time.Second,
		VeryLong: 60 * time.Second,
	}
}
