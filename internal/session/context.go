package session

import "context"

type ctxKey string

const contextSessionKey ctxKey = "session"

func FromContext(ctx context.Context) (*Session, bool) {
	sess, ok := ctx.Value(contextSessionKey).(*Session)
	return sess, ok
}

func NewContext(ctx context.Context, sess *Session) context.Context {
	return context.WithValue(ctx, contextSessionKey, sess)
}
