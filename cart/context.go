package cart

import "context"

type contextKey struct{}

// NewContext returns a context carrying the cart store, marking the
// provisioning scope inside which FromContext may be called.
func NewContext(ctx context.Context, s *Store) context.Context {
	return context.WithValue(ctx, contextKey{}, s)
}

// FromContext returns the provisioned cart store. Calling it outside a
// NewContext scope is a wiring defect and panics immediately rather than
// limping along with a detached cart.
func FromContext(ctx context.Context) *Store {
	s, ok := ctx.Value(contextKey{}).(*Store)
	if !ok {
		panic("cart: FromContext called outside a cart provider scope")
	}
	return s
}
