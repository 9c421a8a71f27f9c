// ABOUTME: Environment variable expansion in config string fields
// ABOUTME: ${VAR} becomes its value or ""; ${VAR:-default} falls back when VAR is unset or empty

package config

import (
	"os"
	"regexp"
)

var envVarPattern = regexp.MustCompile(`\$\{(\w+)(?::-([^}]*))?\}`)

// ResolveEnvVars expands ${VAR} patterns in string fields of Settings.
func ResolveEnvVars(s *Settings) {
	for _, f := range []*string{
		&s.AgentURL,
		&s.GeminiAPIKey,
		&s.GeminiModel,
		&s.Theme,
		&s.OAuth.ClientID,
		&s.OAuth.RedirectURI,
	} {
		*f = expandEnv(*f)
	}
	for k, v := range s.Env {
		s.Env[k] = expandEnv(v)
	}
}

func expandEnv(s string) string {
	if s == "" {
		return s
	}
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		m := envVarPattern.FindStringSubmatch(match)
		if v := os.Getenv(m[1]); v != "" {
			return v
		}
		return m[2]
	})
}
