package routes

import (
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/MrSnakeDoc/sip/internal/httpserver/deps"
	"github.com/MrSnakeDoc/sip/internal/httpserver/handlers"
	"github.com/MrSnakeDoc/sip/internal/httpserver/mw"
)

func init() { Register(registerAPI) }

func registerAPI(r chi.Router, d deps.Deps) {
	r.Route("/api", func(r chi.Router) {
		r.Use(mw.CORS(d.CORSOrigins))
		r.Use(mw.RateLimit(mw.RateLimitConfig{
			Burst:             d.RateBurst,
			RefillPerIPPerMin: d.RatePerMin,
			MaxEntries:        10_000,
			TrustProxy:        d.TrustProxy,
		}))
		r.Use(middleware.Timeout(5 * time.Second))

		r.Get("/state", handlers.State(d))
		r.Get("/drink-types", handlers.DrinkTypes(d))
		r.Put("/goal", handlers.PutGoal(d))
		r.Post("/entries", handlers.PostEntry(d))
		r.Delete("/entries/{id}", handlers.DeleteEntry(d))
		r.Post("/reset", handlers.Reset(d))
		r.Get("/export.xlsx", handlers.Export(d))
	})
}
