package handlers

import (
	"encoding/json"
	"errors"
	"math"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/sip/internal/domain"
	"github.com/MrSnakeDoc/sip/internal/httpserver/deps"
	"github.com/MrSnakeDoc/sip/internal/logger"
	"github.com/MrSnakeDoc/sip/internal/tracker"
)

const maxBodyBytes = 16 << 10

type goalRequest struct {
	GoalMl *float64 `json:"goalMl"`
}

type goalResponse struct {
	GoalMl int `json:"goalMl"`
}

type entryRequest struct {
	Ml     *float64 `json:"ml"`
	Type   string   `json:"type"`
	Factor *float64 `json:"factor"`
}

type removeResponse struct {
	Removed bool `json:"removed"`
}

// State returns the current view, scrolled to ?page=N.
func State(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, currentView(r, d, pageFrom(r)))
	}
}

// DrinkTypes lists the catalog.
func DrinkTypes(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		types := d.Catalog
		if types == nil {
			types = []domain.DrinkType{}
		}
		writeJSON(w, http.StatusOK, types)
	}
}

// PutGoal sets the daily goal from {"goalMl": n}.
func PutGoal(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req goalRequest
		if !decode(w, r, &req) {
			return
		}

		goal, err := d.Tracker.SetGoal(r.Context(), orNaN(req.GoalMl))
		if err != nil {
			apiError(w, d, "set goal", err)
			return
		}
		writeJSON(w, http.StatusOK, goalResponse{GoalMl: goal})
	}
}

// PostEntry adds a drink from {"ml", "type", "factor"}. Without a factor
// the catalog default of the type is used.
func PostEntry(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req entryRequest
		if !decode(w, r, &req) {
			return
		}

		factor := orNaN(req.Factor)
		if req.Factor == nil {
			if f, ok := domain.FactorFor(d.Catalog, req.Type); ok {
				factor = f
			}
		}

		entry, err := d.Tracker.AddEntry(r.Context(), tracker.NewEntry{
			Ml:     orNaN(req.Ml),
			Type:   req.Type,
			Factor: factor,
		})
		if err != nil {
			apiError(w, d, "add entry", err)
			return
		}
		writeJSON(w, http.StatusCreated, entry)
	}
}

// DeleteEntry removes one entry and reports whether it existed.
func DeleteEntry(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		removed, err := d.Tracker.RemoveEntry(r.Context(), chi.URLParam(r, "id"))
		if err != nil {
			apiError(w, d, "remove entry", err)
			return
		}
		writeJSON(w, http.StatusOK, removeResponse{Removed: removed})
	}
}

// Reset clears today's entries and returns the fresh view.
func Reset(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := d.Tracker.ResetDay(r.Context()); err != nil {
			apiError(w, d, "reset", err)
			return
		}
		writeJSON(w, http.StatusOK, currentView(r, d, pageFrom(r)))
	}
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, errors.New("invalid JSON body"))
		return false
	}
	return true
}

func apiError(w http.ResponseWriter, d deps.Deps, action string, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		d.Logger.Error("api action failed", logger.String("action", action), logger.Error(err))
	}
	writeError(w, status, err)
}

func orNaN(f *float64) float64 {
	if f == nil {
		return math.NaN()
	}
	return *f
}
