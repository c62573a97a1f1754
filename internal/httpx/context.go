package httpx

import (
	"context"
	"net/http"
	"sync"
)

type contextKey string

const (
	requestIDKey contextKey = "requestID"
	infoKey      contextKey = "requestInfo"
)

// requestInfo is filled in by inner handlers and read back by the outer
// logging and metrics middleware once the request completes.
type requestInfo struct {
	mu     sync.Mutex
	userID string
	route  string
}

func withInfo(r *http.Request) (*http.Request, *requestInfo) {
	if info, ok := r.Context().Value(infoKey).(*requestInfo); ok {
		return r, info
	}
	info := &requestInfo{}
	return r.WithContext(context.WithValue(r.Context(), infoKey, info)), info
}

func infoFrom(r *http.Request) *requestInfo {
	info, _ := r.Context().Value(infoKey).(*requestInfo)
	return info
}

// SetUserID records the signed-in user for the access log.
func SetUserID(r *http.Request, userID string) {
	if info := infoFrom(r); info != nil {
		info.mu.Lock()
		info.userID = userID
		info.mu.Unlock()
	}
}

// SetRoute records the mux pattern that served r.
func SetRoute(r *http.Request, pattern string) {
	if info := infoFrom(r); info != nil {
		info.mu.Lock()
		info.route = pattern
		info.mu.Unlock()
	}
}

// UserIDFrom retrieves the user ID recorded for the request.
func UserIDFrom(r *http.Request) string {
	if info := infoFrom(r); info != nil {
		info.mu.Lock()
		defer info.mu.Unlock()
		return info.userID
	}
	return ""
}

// RouteFrom returns the recorded mux pattern, or "unmatched".
func RouteFrom(r *http.Request) string {
	if info := infoFrom(r); info != nil {
		info.mu.Lock()
		defer info.mu.Unlock()
		if info.route != "" {
			return info.route
		}
	}
	return "unmatched"
}

// RouteTag wraps a handler so the pattern it is mounted on reaches metrics.
func RouteTag(pattern string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		SetRoute(r, pattern)
		next.ServeHTTP(w, r)
	})
}

func ContextWithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// RequestIDFrom retrieves the request ID from the request context.
func RequestIDFrom(r *http.Request) string {
	if v, ok := r.Context().Value(requestIDKey).(string); ok {
		return v
	}
	return ""
}
