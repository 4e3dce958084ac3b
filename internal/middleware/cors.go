package middleware

import (
	"net/http"

	"github.com/rs/cors"
)

// Cors answers preflights for the game API. Sessions are addressed by id and
// carry no cookies, so credentials are never allowed.
func Cors(allowOrigin func(origin string) bool) Middleware {
	options := cors.Options{
		AllowOriginFunc: allowOrigin,
		AllowedMethods: []string{
			http.MethodHead,
			http.MethodGet,
			http.MethodPost,
		},
		AllowedHeaders: []string{"*"},
		MaxAge:         600,
	}
	return cors.New(options).Handler
}
