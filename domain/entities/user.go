package entities

// User is a named account record
type User struct {
	Email    string `json:"email" yaml:"email" mapstructure:"email"`
	Password string `json:"password" yaml:"password" mapstructure:"password"`
	Role     string `json:"role,omitempty" yaml:"role,omitempty" mapstructure:"role"`
}

// Outcome is the expected result of a login attempt
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeFailure Outcome = "failure"
)

// LoginScenario is one data-driven login attempt
type LoginScenario struct {
	Description string  `json:"description,omitempty" yaml:"description,omitempty"`
	Role        string  `json:"role" yaml:"role"`
	Email       string  `json:"email" yaml:"email"`
	Password    string  `json:"password" yaml:"password"`
	Expected    Outcome `json:"expectedResult" yaml:"expectedResult"`
}

// User - returns the credentials of the scenario
func (s LoginScenario) User() User {
	return User{Email: s.Email, Password: s.Password, Role: s.Role}
}
