package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"
)

const (
	stateTTL           = 10 * time.Minute
	stateSweepInterval = 5 * time.Minute
)

var (
	ErrStateMissing          = errors.New("state token is required")
	ErrStateUnknown          = errors.New("unknown or already used state token")
	ErrStateExpired          = errors.New("state token has expired")
	ErrStateProviderMismatch = errors.New("state token issued for another provider")
)

// StateEntry is what a login redirect remembers until its callback arrives.
type StateEntry struct {
	CreatedAt   time.Time
	Provider    string
	UserAgent   string
	RedirectURI string
}

// StateManager hands out one-time OAuth state tokens.
type StateManager struct {
	mu     sync.Mutex
	states map[string]StateEntry
	ttl    time.Duration
	now    func() time.Time
}

var oauthStates = NewStateManager(stateTTL)

func NewStateManager(ttl time.Duration) *StateManager {
	return &StateManager{
		states: make(map[string]StateEntry),
		ttl:    ttl,
		now:    time.Now,
	}
}

func (sm *StateManager) GenerateState(provider, userAgent, redirectURI string) (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate state token: %w", err)
	}
	state := base64.RawURLEncoding.EncodeToString(b)

	sm.mu.Lock()
	sm.states[state] = StateEntry{
		CreatedAt:   sm.now(),
		Provider:    provider,
		UserAgent:   userAgent,
		RedirectURI: redirectURI,
	}
	sm.mu.Unlock()

	return state, nil
}

// ValidateState consumes state whether or not it turns out valid. A changed
// user agent is logged but tolerated.
func (sm *StateManager) ValidateState(state, provider, userAgent string) (*StateEntry, error) {
	if state == "" {
		return nil, ErrStateMissing
	}

	sm.mu.Lock()
	entry, ok := sm.states[state]
	delete(sm.states, state)
	sm.mu.Unlock()

	switch {
	case !ok:
		return nil, ErrStateUnknown
	case sm.now().Sub(entry.CreatedAt) > sm.ttl:
		return nil, ErrStateExpired
	case entry.Provider != provider:
		return nil, ErrStateProviderMismatch
	}

	if entry.UserAgent != userAgent {
		slog.Warn("OAuth callback from a different user agent",
			"component", "state_manager",
			"provider", provider,
			"stored_user_agent", entry.UserAgent,
			"received_user_agent", userAgent)
	}
	return &entry, nil
}

// sweep drops entries older than the ttl and returns how many went.
func (sm *StateManager) sweep() int {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	now := sm.now()
	removed := 0
	for state, entry := range sm.states {
		if now.Sub(entry.CreatedAt) > sm.ttl {
			delete(sm.states, state)
			removed++
		}
	}
	return removed
}

func (sm *StateManager) run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if removed := sm.sweep(); removed > 0 {
				slog.Debug("Expired OAuth states removed", "component", "state_manager", "removed", removed)
			}
		}
	}
}

// StartStateCleanup sweeps abandoned login attempts until ctx is done.
func StartStateCleanup(ctx context.Context) {
	go oauthStates.run(ctx, stateSweepInterval)
}

func GenerateOAuthState(provider, userAgent, redirectURI string) (string, error) {
	return oauthStates.GenerateState(provider, userAgent, redirectURI)
}

func ValidateOAuthState(state, provider, userAgent string) (*StateEntry, error) {
	return oauthStates.ValidateState(state, provider, userAgent)
}
