package user

import "context"

type ctxKey int

const callerKey ctxKey = iota

// NewContext attaches the caller of a request to ctx.
func NewContext(ctx context.Context, usr User) context.Context {
	return context.WithValue(ctx, callerKey, usr)
}

// FromContext returns the caller attached by NewContext. Requests
// without one are anonymous, so the zero User is returned.
func FromContext(ctx context.Context) User {
	if ctx == nil {
		return User{}
	}
	usr, _ := ctx.Value(callerKey).(User)
	return usr
}
