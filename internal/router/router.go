package router

import (
	"net/http"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ermnvldmr/wboard/internal/config"
	"github.com/ermnvldmr/wboard/internal/handler"
	mw "github.com/ermnvldmr/wboard/internal/middleware"
	"github.com/ermnvldmr/wboard/internal/middleware/metrics"
	rl "github.com/ermnvldmr/wboard/internal/middleware/ratelimiter"
)

// New creates and configures a mux router with all the routes.
// IMPORTANT! ratelimiters set with .Use limit requests for all endpoints combined in that subrouter
func New(h *handler.Handler, authMw *mw.Auth, cfg *config.Config) *mux.Router {
	r := mux.NewRouter()

	// Enable gzip compression for all responses
	r.Use(handlers.CompressHandler)

	r.Use(handlers.CORS(
		handlers.AllowedOrigins(cfg.Public.CorsOrigins),
		handlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
		handlers.AllowCredentials(),
	))

	// Strict CSP: JSON API only, no scripts/styles needed
	r.Use(mw.SecurityHeaders(cfg.Public.SecureCookies, "default-src 'none'; frame-ancestors 'none'"))

	r.Use(metrics.Middleware)

	// Wildcard OPTIONS handler to avoid 404s for preflight requests
	r.Methods("OPTIONS").HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	r.HandleFunc("/health", h.Health).Methods("GET")
	r.HandleFunc("/ready", h.Ready).Methods("GET")
	r.Handle("/metrics", promhttp.Handler()).Methods("GET")

	v1 := r.PathPrefix("/v1").Subrouter()

	// Auth routes
	auth := v1.PathPrefix("/auth").Subrouter()

	authRegister := auth.NewRoute().Subrouter()
	authRegister.Use(mw.RateLimit(rl.New(1.0/10, 1, 1*time.Hour), mw.GetEmailFromBody)) // 1 per 10s by email
	authRegister.Use(mw.RateLimit(rl.New(1.0/10, 1, 1*time.Hour), mw.GetIP))            // 1 per 10s by IP
	authRegister.Use(mw.GlobalRateLimit(rl.Rps100()))
	authRegister.HandleFunc("/register", h.Register).Methods("POST")

	authLogin := auth.NewRoute().Subrouter()
	authLogin.Use(mw.RateLimit(rl.OnceInSecond(), mw.GetIP)) // 1 per second by IP
	authLogin.Use(mw.GlobalRateLimit(rl.Rps100()))
	authLogin.HandleFunc("/login", h.Login).Methods("POST")

	// Logout (no rate limits)
	auth.HandleFunc("/logout", h.Logout).Methods("POST")

	// Public read routes. OptionalAuth resolves the viewer identity for
	// view counting without requiring a token.
	public := v1.NewRoute().Subrouter()
	public.Use(authMw.OptionalAuth())
	public.HandleFunc("/posts", h.GetPosts).Methods("GET")
	public.HandleFunc("/posts/{post}", h.GetPost).Methods("GET")
	public.HandleFunc("/posts/{post}/discussions", h.GetDiscussions).Methods("GET")
	public.HandleFunc("/users", h.GetUsers).Methods("GET")
	public.HandleFunc("/users/{user}/posts", h.GetUserPosts).Methods("GET")
	public.HandleFunc("/users/{user}/discussions", h.GetUserDiscussions).Methods("GET")
	public.HandleFunc("/media/{key}", h.GetMedia).Methods("GET")

	// Logged-in routes
	loggedIn := v1.NewRoute().Subrouter()
	loggedIn.Use(authMw.NeedAuth())
	loggedIn.Use(mw.RateLimit(rl.Rps100(), mw.GetUserIdFromContext))

	// CreatePost: 1 per minute per user
	loggedIn.Handle("/posts", mw.RateLimit(rl.OnceInMinute(), mw.GetUserIdFromContext)(http.HandlerFunc(h.CreatePost))).Methods("POST")
	loggedIn.HandleFunc("/posts/{post}", h.DeletePost).Methods("DELETE")

	// CreateDiscussion: 1 per second per user
	loggedIn.Handle("/posts/{post}/discussions", mw.RateLimit(rl.New(1, 1, 1*time.Hour), mw.GetUserIdFromContext)(http.HandlerFunc(h.CreateDiscussion))).Methods("POST")
	loggedIn.HandleFunc("/discussions/{discussion}", h.DeleteDiscussion).Methods("DELETE")

	loggedIn.HandleFunc("/posts/{post}/vote", h.CastVote).Methods("PUT")
	loggedIn.HandleFunc("/posts/{post}/vote", h.RetractVote).Methods("DELETE")

	loggedIn.HandleFunc("/users/me", h.Me).Methods("GET")
	loggedIn.HandleFunc("/users/{user}", h.EditUser).Methods("PUT")
	loggedIn.HandleFunc("/users/{user}", h.DeleteUser).Methods("DELETE")

	return r
}
