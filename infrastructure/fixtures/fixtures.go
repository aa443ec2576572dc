// Package fixtures provides the static test data of the suite and helpers
// generating throwaway values.
package fixtures

import (
	_ "embed"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"empsd_automation/domain/entities"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

//go:embed testdata.yaml
var defaultData []byte

// ExpectedText holds UI texts asserted by the cases when the configuration
// leaves them blank
type ExpectedText struct {
	PageTitle        string `yaml:"pageTitle"`
	DashboardHeading string `yaml:"dashboardHeading"`
}

// ErrorMessages holds error texts shown by the login form
type ErrorMessages struct {
	InvalidCredentials string `yaml:"invalidCredentials"`
}

// Data is the whole test data set
type Data struct {
	Users         map[string]entities.User `yaml:"users"`
	ExpectedText  ExpectedText             `yaml:"expectedText"`
	ErrorMessages ErrorMessages            `yaml:"errorMessages"`
	LoginAccounts []entities.LoginScenario `yaml:"loginAccounts"`
	Viewports     []entities.Viewport      `yaml:"viewports"`
}

// Default returns the embedded data set
func Default() (*Data, error) {
	return Parse(defaultData)
}

// Parse decodes a data set from YAML
func Parse(raw []byte) (*Data, error) {
	var d Data
	if err := yaml.Unmarshal(raw, &d); err != nil {
		return nil, fmt.Errorf("failed to parse test data: %w", err)
	}
	if err := d.validate(); err != nil {
		return nil, err
	}
	return &d, nil
}

// Read decodes a data set from r
func Read(r io.Reader) (*Data, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read test data: %w", err)
	}
	return Parse(raw)
}

// Load reads a data set from path. An empty path loads the embedded set.
func Load(path string) (*Data, error) {
	if path == "" {
		return Default()
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open test data: %w", err)
	}
	defer f.Close()
	return Read(f)
}

func (d *Data) validate() error {
	for i, a := range d.LoginAccounts {
		switch a.Expected {
		case entities.OutcomeSuccess, entities.OutcomeFailure:
		default:
			return fmt.Errorf("loginAccounts[%d]: expectedResult must be success or failure, got %q", i, a.Expected)
		}
	}
	for i, v := range d.Viewports {
		if v.Width <= 0 || v.Height <= 0 {
			return fmt.Errorf("viewports[%d]: size must be positive", i)
		}
	}
	return nil
}

// User returns the named user record
func (d *Data) User(name string) (entities.User, error) {
	u, ok := d.Users[name]
	if !ok {
		return entities.User{}, fmt.Errorf("unknown user %q", name)
	}
	return u, nil
}

// RandomEmail returns a unique address at domain ("test.com" when empty)
func RandomEmail(domain string) string {
	if domain == "" {
		domain = "test.com"
	}
	return fmt.Sprintf("test_%d_%s@%s", time.Now().UnixMilli(), RandomString(6), domain)
}

// RandomString returns n random alphanumeric characters
func RandomString(n int) string {
	var b strings.Builder
	for b.Len() < n {
		b.WriteString(strings.ReplaceAll(uuid.NewString(), "-", ""))
	}
	return b.String()[:n]
}
