// ABOUTME: Conversation data model: roles, messages and cited sources
// ABOUTME: Source labels strip "www." and sites group URLs by registrable domain

package chat

import (
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/publicsuffix"
)

// Role identifies the author of a message.
type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// Source is a cited web page attached to a model message.
type Source struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// Label returns the URL hostname without a leading "www.".
// Unparsable URLs are returned unchanged.
func (s Source) Label() string {
	u, err := url.Parse(s.URL)
	if err != nil || u.Hostname() == "" {
		return s.URL
	}
	return strings.TrimPrefix(u.Hostname(), "www.")
}

// Site returns the registrable domain (eTLD+1) of the source, falling back
// to Label for hosts without one such as IPs or localhost.
func (s Source) Site() string {
	host := s.Label()
	site, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		return host
	}
	return site
}

// DistinctSites counts the registrable domains cited by sources.
func DistinctSites(sources []Source) int {
	seen := make(map[string]struct{}, len(sources))
	for _, s := range sources {
		seen[s.Site()] = struct{}{}
	}
	return len(seen)
}

// Message is one entry of a conversation.
type Message struct {
	ID        string
	Role      Role
	Content   string
	Timestamp time.Time
	Latency   time.Duration // zero when not measured
	Sources   []Source
	// TaskID links a model message to the backend task that may still update it.
	TaskID string
}

func (m Message) clone() Message {
	if m.Sources != nil {
		m.Sources = append([]Source(nil), m.Sources...)
	}
	return m
}
