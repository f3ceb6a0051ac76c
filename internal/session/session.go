package session

import (
	"context"
	"strings"
	"sync"
	"time"
	"unicode"
	"unicode/utf8"

	"firebase.google.com/go/v4/auth"
	"github.com/google/uuid"

	"github.com/GregMSThompson/spendings-dashboard/internal/errs"
	"github.com/GregMSThompson/spendings-dashboard/pkg/logger"
)

const DefaultTTL = 24 * time.Hour

type User struct {
	UID   string
	Email string
	Name  string
	Image string
}

type Session struct {
	ID        string
	User      User
	CreatedAt time.Time
	ExpiresAt time.Time
}

type tokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*auth.Token, error)
}

// Manager owns the signed-in sessions for the lifetime of the process.
type Manager struct {
	verifier tokenVerifier
	ttl      time.Duration
	now      func() time.Time

	mu       sync.Mutex
	sessions map[string]Session
}

func NewManager(verifier tokenVerifier, ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Manager{
		verifier: verifier,
		ttl:      ttl,
		now:      time.Now,
		sessions: make(map[string]Session),
	}
}

// SignIn verifies an identity token and opens a session for its user.
func (m *Manager) SignIn(ctx context.Context, idToken string) (Session, error) {
	log := logger.FromContext(ctx)

	idToken = strings.TrimSpace(idToken)
	if idToken == "" {
		return Session{}, errs.NewUnauthorizedError("missing identity token")
	}
	if m.verifier == nil {
		return Session{}, errs.NewConfigurationError("firebase", "identity verification is not configured")
	}

	token, err := m.verifier.VerifyIDToken(ctx, idToken)
	if err != nil {
		log.Warn("identity token rejected", "error", err)
		return Session{}, errs.NewUnauthorizedError("invalid or expired token")
	}

	now := m.now()
	sess := Session{
		ID:        uuid.NewString(),
		User:      userFromToken(token),
		CreatedAt: now,
		ExpiresAt: now.Add(m.ttl),
	}

	m.mu.Lock()
	m.sessions[sess.ID] = sess
	m.mu.Unlock()

	log.Info("session started", "session_id", sess.ID, "uid", sess.User.UID)
	return sess, nil
}

// SignOut ends a session. Ending an unknown session is not an error.
func (m *Manager) SignOut(ctx context.Context, id string) {
	m.mu.Lock()
	_, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()

	if ok {
		logger.FromContext(ctx).Info("session ended", "session_id", id)
	}
}

// Get loads a live session. Expired sessions are removed on sight.
func (m *Manager) Get(ctx context.Context, id string) (Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	sess, ok := m.sessions[id]
	if !ok {
		return Session{}, errs.NewUnauthorizedError("not signed in")
	}
	if !m.now().Before(sess.ExpiresAt) {
		delete(m.sessions, id)
		return Session{}, errs.NewUnauthorizedError("session expired")
	}
	return sess, nil
}

// CleanExpired drops expired sessions and returns how many were removed.
func (m *Manager) CleanExpired() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	removed := 0
	for id, sess := range m.sessions {
		if !now.Before(sess.ExpiresAt) {
			delete(m.sessions, id)
			removed++
		}
	}
	return removed
}

func userFromToken(token *auth.Token) User {
	u := User{UID: token.UID}
	if token.Claims != nil {
		u.Email, _ = token.Claims["email"].(string)
		u.Name, _ = token.Claims["name"].(string)
		u.Image, _ = token.Claims["picture"].(string)
	}
	return u
}

// Initials takes the first letter of each word of name, upper-cased, or "U".
func Initials(name string) string {
	var b strings.Builder
	for _, word := range strings.Fields(name) {
		r, _ := utf8.DecodeRuneInString(word)
		b.WriteRune(unicode.ToUpper(r))
	}
	if b.Len() == 0 {
		return "U"
	}
	return b.String()
}
