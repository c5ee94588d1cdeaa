package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/sip/internal/httpserver/deps"
	"github.com/MrSnakeDoc/sip/internal/httpserver/handlers"
)

func init() { Register(registerPage) }

func registerPage(r chi.Router, d deps.Deps) {
	r.Get("/", handlers.Page(d))
	r.Post("/goal", handlers.SetGoalForm(d))
	r.Post("/drinks", handlers.AddDrinkForm(d))
	r.Post("/drinks/{id}/delete", handlers.DeleteDrinkForm(d))
	r.Post("/reset", handlers.ResetForm(d))
}
