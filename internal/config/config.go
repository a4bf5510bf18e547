// Package config loads the process's configuration surface. Per spec §1
// this is an external collaborator ("thin and replaceable"): its getters
// read environment variables each time they are called, Load reads the
// chains file once, and it hands the rest of the program plain Go values and the
// filters/oidc.FilterConfig/filters.Selector types, never its own
// env-specific types.
package config

type Config interface {
	EnvConfig
	FilterChainConfig
}

// EnvConfig exposes the handful of process-level settings every deployment
// needs regardless of how many filter chains it configures.
type EnvConfig interface {
	GetPort() string
	GetAppName() string
	GetEnv() string
}

type mainConfig struct {
	EnvVars
	Chains
}

// New returns a Config; nothing is read until a getter or Load is called.
func New() Config {
	return mainConfig{}
}
