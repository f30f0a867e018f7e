package middleware

import (
	"net/http"

	"github.com/rs/cors"
)

// CORS 는 gin 엔진 바깥을 감싸는 CORS 핸들러를 만든다.
// 허용 origin 이 비었거나 "*" 이면 모든 origin 을 받되 credentials 는 끈다.
func CORS(allowedOrigins []string) func(http.Handler) http.Handler {
	opts := cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodPatch,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", headerRequestID},
		ExposedHeaders:   []string{headerRequestID, headerSpanID},
		AllowCredentials: true,
		MaxAge:           300,
	}
	if len(allowedOrigins) == 0 || allowedOrigins[0] == "*" {
		opts.AllowedOrigins = []string{"*"}
		opts.AllowCredentials = false
	}
	return cors.New(opts).Handler
}
