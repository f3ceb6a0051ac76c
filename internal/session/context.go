package session

import "context"

type contextKey string

const sessionKey contextKey = "session"

func ToContext(ctx context.Context, sess Session) context.Context {
	return context.WithValue(ctx, sessionKey, sess)
}

func FromContext(ctx context.Context) (Session, bool) {
	sess, ok := ctx.Value(sessionKey).(Session)
	return sess, ok
}

// UID returns the signed-in user's id, or "" outside a session.
func UID(ctx context.Context) string {
	sess, _ := FromContext(ctx)
	return sess.User.UID
}
