// ABOUTME: Human-readable rendering of effective configuration
// ABOUTME: Used by the "agentdesk config" subcommand; secrets are masked

package config

import (
	"fmt"
	"sort"
	"strings"
)

// Explain renders a human-readable summary of the effective settings.
// Shows non-zero values grouped by section.
func Explain(s *Settings) string {
	if s == nil {
		s = &Settings{}
	}

	var b strings.Builder

	b.WriteString("=== Agent ===\n")
	if s.AgentURL != "" {
		fmt.Fprintf(&b, "  AgentURL:     %s\n", s.AgentURL)
	}
	if s.PollIntervalMs != 0 {
		fmt.Fprintf(&b, "  PollInterval: %dms\n", s.PollIntervalMs)
	}
	if s.MaxPollSeconds != 0 {
		fmt.Fprintf(&b, "  MaxPoll:      %ds\n", s.MaxPollSeconds)
	}
	b.WriteString("\n")

	b.WriteString("=== Search ===\n")
	if s.GeminiModel != "" {
		fmt.Fprintf(&b, "  Model:  %s\n", s.GeminiModel)
	}
	if key := s.GeminiKey(); key != "" {
		fmt.Fprintf(&b, "  APIKey: %s\n", mask(key))
	} else {
		b.WriteString("  APIKey: (not set)\n")
	}
	b.WriteString("\n")

	b.WriteString("=== OAuth ===\n")
	if s.OAuth.ClientID != "" {
		fmt.Fprintf(&b, "  ClientID:    %s\n", s.OAuth.ClientID)
	}
	if s.OAuth.RedirectURI != "" {
		fmt.Fprintf(&b, "  RedirectURI: %s\n", s.OAuth.RedirectURI)
	}
	if len(s.OAuth.Scopes) > 0 {
		fmt.Fprintf(&b, "  Scopes:      %s\n", strings.Join(s.OAuth.Scopes, ", "))
	}
	b.WriteString("\n")

	b.WriteString("=== Display ===\n")
	if s.Theme != "" {
		fmt.Fprintf(&b, "  Theme: %s\n", s.Theme)
	}
	b.WriteString("\n")

	b.WriteString("=== Env ===\n")
	keys := make([]string, 0, len(s.Env))
	for k := range s.Env {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, "  %s=%s\n", k, s.Env[k])
	}
	b.WriteString("\n")

	return b.String()
}

// mask keeps the last four characters of a secret.
func mask(secret string) string {
	if len(secret) <= 4 {
		return "****"
	}
	return strings.Repeat("*", 4) + secret[len(secret)-4:]
}
