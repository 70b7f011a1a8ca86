package common

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// CORS values sent on every API response
const (
	CORSAllowOrigin  = "*"
	CORSAllowHeaders = "Content-Type"
	CORSAllowMethods = "OPTIONS,GET,POST"
)

// DefaultMaxBodyBytes caps request bodies read by ReadBody
const DefaultMaxBodyBytes = 1 << 20

// MessageResponse is the body of message-only responses
type MessageResponse struct {
	Message string `json:"message"`
}

// CORSHeaders returns the CORS header set as a plain map, for Lambda
// responses that do not go through net/http
func CORSHeaders() map[string]string {
	return map[string]string{
		"Access-Control-Allow-Origin":  CORSAllowOrigin,
		"Access-Control-Allow-Headers": CORSAllowHeaders,
		"Access-Control-Allow-Methods": CORSAllowMethods,
	}
}

// SetCORSHeaders writes the CORS header set
func SetCORSHeaders(h http.Header) {
	for k, v := range CORSHeaders() {
		h.Set(k, v)
	}
}

// RespondJSON sends data as the raw JSON body
func RespondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// RespondMessage sends {"message": message}
func RespondMessage(w http.ResponseWriter, status int, message string) {
	RespondJSON(w, status, MessageResponse{Message: message})
}

// ExtractRequestID extracts the request ID from the request headers or context
func ExtractRequestID(r *http.Request) string {
	if id := r.Header.Get("X-Request-ID"); id != "" {
		return id
	}
	if id := r.Header.Get("X-Amzn-Trace-Id"); id != "" {
		return id
	}
	if id, ok := r.Context().Value(ContextKeyRequestID).(string); ok {
		return id
	}
	return ""
}

// ReadBody reads at most maxBytes of the request body
func ReadBody(r *http.Request, maxBytes int64) ([]byte, error) {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBodyBytes
	}
	data, err := io.ReadAll(io.LimitReader(r.Body, maxBytes+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > maxBytes {
		return nil, fmt.Errorf("request body exceeds %d bytes", maxBytes)
	}
	return data, nil
}
