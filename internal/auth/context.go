package auth

import "context"

type contextKey string

const contextKeyEmail contextKey = "account_email"

func WithEmail(ctx context.Context, email string) context.Context {
	return context.WithValue(ctx, contextKeyEmail, email)
}

func EmailFromContext(ctx context.Context) (string, bool) {
	email, ok := ctx.Value(contextKeyEmail).(string)
	return email, ok
}
