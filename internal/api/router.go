package api

import (
	"net/http"

	_ "github.com/AlexZinkM/bob-poker/docs"
	"github.com/AlexZinkM/bob-poker/internal/handler"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	httpSwagger "github.com/swaggo/http-swagger"
)

// Handlers bundles everything the router serves
type Handlers struct {
	Poker   *handler.PokerHandler
	Pairing *handler.PairingHandler
	Page    http.HandlerFunc
	Version string

	// AllowedOrigins are extra browser origins permitted to call the API
	AllowedOrigins []string
}

// SetupRouter sets up router with handlers
func SetupRouter(h Handlers) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	if len(h.AllowedOrigins) > 0 {
		r.Use(cors.New(cors.Options{
			AllowedOrigins: h.AllowedOrigins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost},
			AllowedHeaders: []string{"Content-Type"},
		}).Handler)
	}

	r.Get("/", h.Page)
	r.Get("/hc", handler.Health(h.Version))

	// Swagger UI
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	r.Route("/api", func(r chi.Router) {
		r.Use(sameOrigin(h.AllowedOrigins))
		r.Get("/state", h.Poker.GetState)
		r.Post("/connect/{connector}", h.Poker.Connect)
		r.Post("/balance", h.Poker.RefreshBalance)
		r.Post("/play", h.Poker.Play)
		r.Get("/history", h.Poker.History)
		r.Get("/contract", h.Poker.ContractInfo)
		r.Post("/wallet/generate", h.Poker.GenerateWallet)
	})

	// Remote wallets join a pairing topic here
	r.Get("/ws/pair/{topic}", h.Pairing.Join)

	return r
}
