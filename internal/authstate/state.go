// ABOUTME: Process-wide Google connection and settings state shared by the UI
// ABOUTME: Refreshes from the agent backend, caches to disk and broadcasts snapshots

package authstate

import (
	"context"
	"errors"
	"fmt"
	"image"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/mauromedda/agentdesk/internal/agentclient"
	"github.com/mauromedda/agentdesk/internal/eventbus"
	"github.com/mauromedda/agentdesk/internal/log"
)

// SettingCalendarSync is the backend key for calendar sync.
const SettingCalendarSync = "calendar_sync_enabled"

// Backend is the subset of the agent client that auth state needs.
type Backend interface {
	AuthStatus(ctx context.Context) agentclient.AuthStatus
	User(ctx context.Context) *agentclient.Profile
	Logout(ctx context.Context) error
	Settings(ctx context.Context) agentclient.Settings
	UpdateSetting(ctx context.Context, key string, value bool) error
	ExchangeAuthCode(ctx context.Context, code string) (*agentclient.Credentials, error)
}

// Authorizer obtains an authorization code from the user.
type Authorizer interface {
	Run(ctx context.Context) (string, error)
}

// Snapshot is an immutable view of the state.
type Snapshot struct {
	Connected bool
	Profile   *agentclient.Profile
	Settings  agentclient.Settings
	Avatar    image.Image
}

// State holds the connection flag, profile and settings.
type State struct {
	api       Backend
	cachePath string
	avatar    AvatarFetcher

	mu   sync.RWMutex
	snap Snapshot

	// Changed receives a snapshot after every refresh, login and logout.
	Changed *eventbus.Bus[Snapshot]
}

// Option configures a State.
type Option func(*State)

// WithCacheFile sets the cache path. An empty path disables caching.
func WithCacheFile(path string) Option {
	return func(s *State) { s.cachePath = path }
}

// WithAvatarFetcher replaces the avatar download. nil disables avatars.
func WithAvatarFetcher(f AvatarFetcher) Option {
	return func(s *State) { s.avatar = f }
}

// New creates the state, seeded from the cache file.
func New(api Backend, opts ...Option) *State {
	s := &State{
		api:     api,
		avatar:  FetchAvatar,
		Changed: eventbus.New[Snapshot](),
	}
	for _, opt := range opts {
		opt(s)
	}
	c := loadCache(s.cachePath)
	s.snap = Snapshot{
		Connected: c.Connected,
		Profile:   c.Profile,
		Settings:  agentclient.DefaultSettings(),
	}
	return s
}

// Snapshot returns the current state.
func (s *State) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}

// Bootstrap loads the connection state and the settings concurrently and
// publishes a single snapshot. A cancelled ctx leaves the state untouched
// and publishes nothing.
func (s *State) Bootstrap(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return s.refreshAuth(gctx)
	})
	g.Go(func() error {
		settings := s.api.Settings(gctx)
		if err := gctx.Err(); err != nil {
			return err
		}
		s.mu.Lock()
		s.snap.Settings = settings
		s.mu.Unlock()
		return nil
	})
	if err := g.Wait(); err != nil {
		return fmt.Errorf("auth bootstrap: %w", err)
	}
	s.Changed.Publish(s.Snapshot())
	return nil
}

// Refresh re-reads the connection state from the backend and publishes it.
func (s *State) Refresh(ctx context.Context) Snapshot {
	if err := s.refreshAuth(ctx); err != nil {
		log.Debug("authstate: refresh: %v", err)
	}
	snap := s.Snapshot()
	s.Changed.Publish(snap)
	return snap
}

// refreshAuth reads the connection state and stores it unless ctx ended
// while the backend was answering.
func (s *State) refreshAuth(ctx context.Context) error {
	st := s.api.AuthStatus(ctx)

	var (
		profile *agentclient.Profile
		avatar  image.Image
	)
	if st.Connected {
		profile = s.api.User(ctx)
		avatar = s.loadAvatar(ctx, profile)
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	s.snap.Connected = st.Connected
	s.snap.Profile = profile
	s.snap.Avatar = avatar
	s.mu.Unlock()

	s.persist(cacheFile{Connected: st.Connected, Profile: profile})
	return nil
}

func (s *State) loadAvatar(ctx context.Context, p *agentclient.Profile) image.Image {
	if s.avatar == nil || p == nil || p.Picture == "" {
		return nil
	}
	img, err := s.avatar(ctx, p.Picture)
	if err != nil {
		log.Debug("authstate: avatar: %v", err)
		return nil
	}
	return img
}

func (s *State) persist(c cacheFile) {
	if err := saveCache(s.cachePath, c); err != nil {
		log.Warn("authstate: %v", err)
	}
}

// CompleteLogin exchanges an authorization code and refreshes the state.
func (s *State) CompleteLogin(ctx context.Context, code string) error {
	if _, err := s.api.ExchangeAuthCode(ctx, code); err != nil {
		return fmt.Errorf("failed to connect to Google: %w", err)
	}
	s.Refresh(ctx)
	return nil
}

// Login runs the authorizer and completes the login with its code.
func (s *State) Login(ctx context.Context, a Authorizer) error {
	if a == nil {
		return errors.New("authstate: no authorizer configured")
	}
	code, err := a.Run(ctx)
	if err != nil {
		return fmt.Errorf("authorization: %w", err)
	}
	return s.CompleteLogin(ctx, code)
}

// Logout revokes the backend credentials. The local state and cache are
// cleared whether or not the backend call succeeds.
func (s *State) Logout(ctx context.Context) error {
	err := s.api.Logout(ctx)
	if err != nil {
		log.Warn("authstate: logout: %v", err)
	}

	s.mu.Lock()
	s.snap.Connected = false
	s.snap.Profile = nil
	s.snap.Avatar = nil
	snap := s.snap
	s.mu.Unlock()

	s.persist(cacheFile{})
	s.Changed.Publish(snap)
	return err
}

// SetCalendarSync updates the calendar sync setting on the backend and,
// on success, locally.
func (s *State) SetCalendarSync(ctx context.Context, enabled bool) error {
	if err := s.api.UpdateSetting(ctx, SettingCalendarSync, enabled); err != nil {
		return fmt.Errorf("updating %s: %w", SettingCalendarSync, err)
	}
	s.mu.Lock()
	s.snap.Settings.CalendarSyncEnabled = enabled
	snap := s.snap
	s.mu.Unlock()
	s.Changed.Publish(snap)
	return nil
}
