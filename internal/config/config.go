// ABOUTME: Settings loading with global + project config merge and built-in defaults
// ABOUTME: JSON-based configuration; CLI overrides and env vars applied on top

package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"
)

// Defaults applied when neither config file nor flags set a value.
const (
	DefaultAgentURL       = "http://localhost:8000"
	DefaultGeminiModel    = "gemini-2.5-flash"
	DefaultPollIntervalMs = 1000
	DefaultMaxPollSeconds = 600
	DefaultTheme          = "dark"

	DefaultOAuthClientID    = "26013620017-75eelat7o28ckjat9rjnm84vc27igi1b.apps.googleusercontent.com"
	DefaultOAuthRedirectURI = "http://localhost:5173"
)

// DefaultOAuthScopes is the scope list requested from Google.
var DefaultOAuthScopes = []string{
	"openid",
	"https://www.googleapis.com/auth/userinfo.email",
	"https://www.googleapis.com/auth/userinfo.profile",
	"https://www.googleapis.com/auth/calendar.readonly",
	"https://www.googleapis.com/auth/calendar.events",
}

// OAuthSettings configures the Google connect flow.
type OAuthSettings struct {
	ClientID    string   `json:"client_id,omitempty"`
	RedirectURI string   `json:"redirect_uri,omitempty"`
	Scopes      []string `json:"scopes,omitempty"`
}

// Settings holds the merged configuration.
type Settings struct {
	AgentURL       string            `json:"agent_url,omitempty"`
	GeminiAPIKey   string            `json:"gemini_api_key,omitempty"`
	GeminiModel    string            `json:"gemini_model,omitempty"`
	PollIntervalMs int               `json:"poll_interval_ms,omitempty"`
	MaxPollSeconds int               `json:"max_poll_seconds,omitempty"`
	Theme          string            `json:"theme,omitempty"`
	OAuth          OAuthSettings     `json:"oauth,omitempty"`
	Env            map[string]string `json:"env,omitempty"`
}

// Overrides carries CLI flag values; zero values leave settings untouched.
type Overrides struct {
	AgentURL    string
	GeminiModel string
	Theme       string
}

// Load reads and merges global and project-local settings.
// Project settings override global settings; the result has defaults filled in.
func Load(projectRoot string) (*Settings, error) {
	global, err := loadFile(GlobalConfigFile())
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("loading global config: %w", err)
	}

	project, err := loadFile(ProjectConfigFile(projectRoot))
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("loading project config: %w", err)
	}

	merged := merge(global, project)
	ResolveEnvVars(merged)
	if v := os.Getenv("AGENTDESK_AGENT_URL"); v != "" {
		merged.AgentURL = v
	}
	merged.applyDefaults()
	return merged, nil
}

// Apply returns a copy of s with non-empty overrides applied.
func (s *Settings) Apply(o Overrides) *Settings {
	out := *s
	if o.AgentURL != "" {
		out.AgentURL = o.AgentURL
	}
	if o.GeminiModel != "" {
		out.GeminiModel = o.GeminiModel
	}
	if o.Theme != "" {
		out.Theme = o.Theme
	}
	return &out
}

// PollInterval returns the task poll interval.
func (s *Settings) PollInterval() time.Duration {
	return time.Duration(s.PollIntervalMs) * time.Millisecond
}

// MaxPollDuration returns the upper bound on how long a task is polled.
func (s *Settings) MaxPollDuration() time.Duration {
	return time.Duration(s.MaxPollSeconds) * time.Second
}

// GeminiKey returns the configured Gemini key, falling back to
// GEMINI_API_KEY and GOOGLE_API_KEY.
func (s *Settings) GeminiKey() string {
	if s.GeminiAPIKey != "" {
		return s.GeminiAPIKey
	}
	for _, env := range []string{"GEMINI_API_KEY", "GOOGLE_API_KEY"} {
		if v := os.Getenv(env); v != "" {
			return v
		}
	}
	return ""
}

func (s *Settings) applyDefaults() {
	if s.AgentURL == "" {
		s.AgentURL = DefaultAgentURL
	}
	s.AgentURL = strings.TrimRight(s.AgentURL, "/")
	if s.GeminiModel == "" {
		s.GeminiModel = DefaultGeminiModel
	}
	if s.PollIntervalMs <= 0 {
		s.PollIntervalMs = DefaultPollIntervalMs
	}
	if s.MaxPollSeconds <= 0 {
		s.MaxPollSeconds = DefaultMaxPollSeconds
	}
	if s.Theme == "" {
		s.Theme = DefaultTheme
	}
	if s.OAuth.ClientID == "" {
		s.OAuth.ClientID = DefaultOAuthClientID
	}
	if s.OAuth.RedirectURI == "" {
		s.OAuth.RedirectURI = DefaultOAuthRedirectURI
	}
	if len(s.OAuth.Scopes) == 0 {
		s.OAuth.Scopes = append([]string(nil), DefaultOAuthScopes...)
	}
}

// loadFile reads a Settings from a JSON file. Returns zero Settings if file
// does not exist.
func loadFile(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return &Settings{}, err
	}
	var s Settings
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return &s, nil
}

// merge overlays project settings onto global settings.
// Non-zero project values override global values.
func merge(global, project *Settings) *Settings {
	if global == nil {
		global = &Settings{}
	}
	if project == nil {
		return global
	}

	result := *global

	if project.AgentURL != "" {
		result.AgentURL = project.AgentURL
	}
	if project.GeminiAPIKey != "" {
		result.GeminiAPIKey = project.GeminiAPIKey
	}
	if project.GeminiModel != "" {
		result.GeminiModel = project.GeminiModel
	}
	if project.PollIntervalMs != 0 {
		result.PollIntervalMs = project.PollIntervalMs
	}
	if project.MaxPollSeconds != 0 {
		result.MaxPollSeconds = project.MaxPollSeconds
	}
	if project.Theme != "" {
		result.Theme = project.Theme
	}
	if project.OAuth.ClientID != "" {
		result.OAuth.ClientID = project.OAuth.ClientID
	}
	if project.OAuth.RedirectURI != "" {
		result.OAuth.RedirectURI = project.OAuth.RedirectURI
	}
	if len(project.OAuth.Scopes) > 0 {
		result.OAuth.Scopes = project.OAuth.Scopes
	}

	if len(project.Env) > 0 {
		env := make(map[string]string, len(result.Env)+len(project.Env))
		for k, v := range result.Env {
			env[k] = v
		}
		for k, v := range project.Env {
			env[k] = v
		}
		result.Env = env
	}

	return &result
}
