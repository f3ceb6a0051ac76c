package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/GregMSThompson/spendings-dashboard/internal/dto"
	"github.com/GregMSThompson/spendings-dashboard/internal/errs"
	"github.com/GregMSThompson/spendings-dashboard/internal/middleware"
	"github.com/GregMSThompson/spendings-dashboard/internal/response"
	"github.com/GregMSThompson/spendings-dashboard/internal/session"
	"github.com/GregMSThompson/spendings-dashboard/pkg/logger"
)

type sessionService interface {
	SignIn(ctx context.Context, idToken string) (session.Session, error)
	SignOut(ctx context.Context, id string)
	Get(ctx context.Context, id string) (session.Session, error)
}

type sessionHandlers struct {
	ResponseHandler response.ResponseHandler
	Sessions        sessionService
	SecureCookies   bool
}

func NewSessionHandlers(deps *Deps) *sessionHandlers {
	return &sessionHandlers{
		ResponseHandler: deps.ResponseHandler,
		Sessions:        deps.Sessions,
		SecureCookies:   deps.SecureCookies,
	}
}

// SessionRoutes mounts sign-in publicly and the rest behind requireSession.
func (h *sessionHandlers) SessionRoutes(requireSession func(http.Handler) http.Handler) chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.SignIn)
	r.With(requireSession).Get("/", h.Profile)
	r.With(requireSession).Delete("/", h.SignOut)
	return r
}

func (h *sessionHandlers) SignIn(w http.ResponseWriter, r *http.Request) {
	token, ok := bearerToken(r)
	if !ok {
		h.ResponseHandler.HandleError(w, r, errs.NewUnauthorizedError("missing bearer token"))
		return
	}

	sess, err := h.Sessions.SignIn(r.Context(), token)
	if err != nil {
		h.ResponseHandler.HandleError(w, r, err)
		return
	}

	h.setCookie(w, sess.ID, sess.ExpiresAt)
	logger.FromContext(r.Context()).Info("signed in", "uid", sess.User.UID)
	h.ResponseHandler.WriteSuccess(w, r, http.StatusCreated, dto.SessionResponse{
		SessionID: sess.ID,
		ExpiresAt: sess.ExpiresAt,
		Profile:   profile(sess.User),
	})
}

func (h *sessionHandlers) Profile(w http.ResponseWriter, r *http.Request) {
	sess, ok := session.FromContext(r.Context())
	if !ok {
		h.ResponseHandler.HandleError(w, r, errs.NewUnauthorizedError("not signed in"))
		return
	}
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, profile(sess.User))
}

func (h *sessionHandlers) SignOut(w http.ResponseWriter, r *http.Request) {
	if sess, ok := session.FromContext(r.Context()); ok {
		h.Sessions.SignOut(r.Context(), sess.ID)
	}
	h.setCookie(w, "", time.Unix(0, 0))
	h.ResponseHandler.WriteSuccess(w, r, http.StatusOK, nil)
}

func (h *sessionHandlers) setCookie(w http.ResponseWriter, value string, expires time.Time) {
	c := &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    value,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   h.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	}
	if value == "" {
		c.MaxAge = -1
	}
	http.SetCookie(w, c)
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	return token, token != ""
}

func profile(u session.User) dto.Profile {
	return dto.Profile{
		UID:      u.UID,
		Email:    u.Email,
		Name:     u.Name,
		Image:    u.Image,
		Initials: session.Initials(u.Name),
	}
}
