package middleware

import (
	"context"
	"custody_backend/pkg/token"
	"net/http"
	"strings"
)

type ctxKey int

const addressKey ctxKey = iota

// Auth - проверяет access токен из заголовка Authorization и кладет
// адрес вызывающего (subject токена) в контекст запроса.
func Auth(secretKey []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				http.Error(w, "missing bearer token", http.StatusUnauthorized)
				return
			}

			claims, err := token.VerifyToken(strings.TrimPrefix(header, "Bearer "), secretKey)
			if err != nil {
				http.Error(w, "invalid token", http.StatusUnauthorized)
				return
			}

			if claims.Subject == "" {
				http.Error(w, "token without subject", http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithAddress(r.Context(), claims.Subject)))
		})
	}
}

// WithAddress - положить адрес вызывающего в контекст (используется middleware и тестами)
func WithAddress(ctx context.Context, address string) context.Context {
	return context.WithValue(ctx, addressKey, address)
}

// AddressFromContext - адрес вызывающего из контекста запроса
func AddressFromContext(ctx context.Context) (string, bool) {
	address, ok := ctx.Value(addressKey).(string)
	return address, ok
}
