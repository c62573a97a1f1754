package httpx

import (
	"fmt"
	"html"
	"net/http"

	"go.uber.org/zap"
)

const internalErrorPage = `<!doctype html>
<html lang="es"><head><meta charset="utf-8"><title>Error</title></head>
<body><h1>Internal error</h1><p>Something went wrong. Request id: %s</p></body></html>`

func RecoveryMiddleware(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rw := wrap(w)
			defer func() {
				if err := recover(); err != nil {
					if err == http.ErrAbortHandler {
						panic(err)
					}
					requestID := RequestIDFrom(r)
					logger.Error("panic recovered",
						zap.String("request_id", requestID),
						zap.Any("error", err),
						zap.Stack("stack"),
					)

					if !rw.wroteHeader() {
						rw.Header().Set("Content-Type", "text/html; charset=utf-8")
						rw.WriteHeader(http.StatusInternalServerError)
						_, _ = fmt.Fprintf(rw, internalErrorPage, html.EscapeString(requestID))
					}
				}
			}()
			next.ServeHTTP(rw, r)
		})
	}
}
