package cli

import (
	envparse "github.com/caarlos0/env/v11"
)

// baseEnv defines root CLI defaults sourced from CLIENTKIT_* env vars.
type baseEnv struct {
	// LogLevel is the logging level from CLIENTKIT_LOG_LEVEL.
	LogLevel string `env:"CLIENTKIT_LOG_LEVEL"`
	// NonInteractive disables prompts from CLIENTKIT_NON_INTERACTIVE.
	NonInteractive bool `env:"CLIENTKIT_NON_INTERACTIVE"`
}

// sentryEnv captures the SDK settings shared with the application at runtime.
type sentryEnv struct {
	// DSN is the connection string from SENTRY_DSN.
	DSN string `env:"SENTRY_DSN"`
	// Environment is the environment name from SENTRY_ENVIRONMENT.
	Environment string `env:"SENTRY_ENVIRONMENT"`
	// Release is the release identifier from SENTRY_RELEASE.
	Release string `env:"SENTRY_RELEASE"`
}

// apiEnv captures provisioning API inputs.
type apiEnv struct {
	// APIKey is the bearer token from BUGSINK_API_KEY.
	APIKey string `env:"BUGSINK_API_KEY"`
	// APIURL is the server base URL from BUGSINK_API_URL.
	APIURL string `env:"BUGSINK_API_URL"`
	// Team is the team name from BUGSINK_TEAM.
	Team string `env:"BUGSINK_TEAM"`
	// Project is the project name from BUGSINK_PROJECT.
	Project string `env:"BUGSINK_PROJECT"`
}

// installEnv groups every variable the install run reads.
type installEnv struct {
	baseEnv
	sentryEnv
	apiEnv
}

// parseEnv fills target from env vars via caarlos0/env.
func parseEnv(target interface{}) error {
	return envparse.Parse(target)
}
