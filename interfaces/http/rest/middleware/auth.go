package middleware

import (
	stderrors "errors"
	"net"
	"net/http"
	"strings"

	"shop-backend/pkg/auth"
	"shop-backend/pkg/common"

	"go.uber.org/zap"
)

const (
	MessageUnauthorized    = "Unauthorized. Please provide valid credentials."
	MessageForbidden       = "Forbidden. You do not have permission to access this resource."
	MessageTooManyAttempts = "Too many failed authentication attempts"
)

// BasicAuth guards a route with the same Basic credentials check the API
// Gateway authorizer uses. A missing header answers 401, bad credentials 403.
// limiter may be nil.
func BasicAuth(checker *auth.BasicChecker, limiter *auth.FailureLimiter, logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			clientIP := getClientIP(r)

			if limiter.Blocked(ctx, clientIP) {
				logger.Warn("Authentication blocked", zap.String("ip", clientIP))
				common.RespondMessage(w, http.StatusTooManyRequests, MessageTooManyAttempts)
				return
			}

			user, err := checker.Check(r.Header.Get("Authorization"))
			if err != nil {
				if stderrors.Is(err, auth.ErrMissingCredentials) {
					common.RespondMessage(w, http.StatusUnauthorized, MessageUnauthorized)
					return
				}

				if recErr := limiter.RecordFailure(ctx, clientIP); recErr != nil {
					logger.Error("Failed to record authentication failure", zap.Error(recErr))
				}
				logger.Warn("Authentication failed", zap.String("ip", clientIP), zap.Error(err))
				common.RespondMessage(w, http.StatusForbidden, MessageForbidden)
				return
			}

			if recErr := limiter.RecordSuccess(ctx, clientIP); recErr != nil {
				logger.Error("Failed to reset authentication failures", zap.Error(recErr))
			}

			next.ServeHTTP(w, r.WithContext(common.WithUser(ctx, user)))
		})
	}
}

// getClientIP extracts the client IP from the request
func getClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return xri
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
