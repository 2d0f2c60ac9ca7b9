package session

import "context"

type ctxKey struct{}

// NewContext returns a context carrying s. The application root installs
// the store once; everything below reads it with FromContext.
func NewContext(ctx context.Context, s *Store) context.Context {
	return context.WithValue(ctx, ctxKey{}, s)
}

// FromContext returns the store installed by NewContext. It panics when
// called outside that scope.
func FromContext(ctx context.Context) *Store {
	s, ok := ctx.Value(ctxKey{}).(*Store)
	if !ok || s == nil {
		panic("session: FromContext called outside a session scope (missing session.NewContext at the application root)")
	}
	return s
}
