package handlers

import (
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/MrSnakeDoc/sip/internal/errs"
	"github.com/MrSnakeDoc/sip/internal/httpserver/deps"
	"github.com/MrSnakeDoc/sip/internal/pager"
	"github.com/MrSnakeDoc/sip/internal/render"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

// statusFor maps tracker errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, errs.ErrInvalidVolume),
		errors.Is(err, errs.ErrInvalidFactor),
		errors.Is(err, errs.ErrInvalidGoal):
		return http.StatusUnprocessableEntity
	case errors.Is(err, errs.ErrNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// parseNumber converts form input the way browsers coerce input values:
// blank is 0, anything unparsable is NaN.
func parseNumber(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return f
}

// pageFrom reads ?page=N, clamped by the pager. Garbage means page 0.
func pageFrom(r *http.Request) pager.Frame {
	n := parseNumber(r.URL.Query().Get("page"))
	if math.IsNaN(n) {
		n = 0
	}
	n = math.Max(-1, math.Min(n, pager.PageCount))
	return pager.New().SetPage(int(n))
}

// currentView applies a pending day rollover and projects the state.
func currentView(r *http.Request, d deps.Deps, frame pager.Frame) render.View {
	if _, err := d.Tracker.ResetIfNeeded(r.Context()); err != nil {
		d.Logger.Warnf("rollover check failed: %v", err)
	}
	return render.Project(d.Tracker.Snapshot(), d.Catalog, frame, d.Tracker.Now())
}
