package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/GregMSThompson/spendings-dashboard/internal/errs"
	"github.com/GregMSThompson/spendings-dashboard/internal/session"
	"github.com/GregMSThompson/spendings-dashboard/pkg/logger"
)

const (
	SessionCookie = "session"
	SessionHeader = "X-Session-ID"
)

type sessionLoader interface {
	Get(ctx context.Context, id string) (session.Session, error)
}

type errorWriter interface {
	HandleError(w http.ResponseWriter, r *http.Request, err error)
}

type sessionMiddleware struct {
	sessions  sessionLoader
	errWriter errorWriter
}

func NewSessionMiddleware(sessions sessionLoader, errWriter errorWriter) *sessionMiddleware {
	return &sessionMiddleware{sessions: sessions, errWriter: errWriter}
}

// SessionID reads the session id from the cookie, then the header.
func SessionID(r *http.Request) string {
	if c, err := r.Cookie(SessionCookie); err == nil && c.Value != "" {
		return c.Value
	}
	return strings.TrimSpace(r.Header.Get(SessionHeader))
}

// RequireSession loads the caller's session into the request context and
// rejects requests without a live one.
func (m *sessionMiddleware) RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := SessionID(r)
		if id == "" {
			m.errWriter.HandleError(w, r, errs.NewUnauthorizedError("not signed in"))
			return
		}

		sess, err := m.sessions.Get(r.Context(), id)
		if err != nil {
			m.errWriter.HandleError(w, r, err)
			return
		}

		_, ctx := logger.With(r.Context(), "uid", sess.User.UID)
		ctx = session.ToContext(ctx, sess)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
