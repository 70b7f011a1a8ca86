package middleware

import (
	"net/http"

	"shop-backend/pkg/common"
)

// CORSHeaders stamps the CORS header set on every response, including
// errors and non-browser requests
func CORSHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		common.SetCORSHeaders(w.Header())
		next.ServeHTTP(w, r)
	})
}
