package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/sip/internal/errs"
	"github.com/MrSnakeDoc/sip/internal/httpserver/deps"
	"github.com/MrSnakeDoc/sip/internal/logger"
	"github.com/MrSnakeDoc/sip/internal/tracker"
)

const (
	overviewURL = "/?page=0"
	addURL      = "/?page=1"
)

// SetGoalForm handles the goal form. Invalid goals are ignored.
func SetGoalForm(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		goal := parseNumber(r.FormValue("goalMl"))
		if _, err := d.Tracker.SetGoal(r.Context(), goal); err != nil {
			logFormError(d, "goal", err)
		}
		http.Redirect(w, r, overviewURL, http.StatusSeeOther)
	}
}

// AddDrinkForm handles the add form. A rejected drink keeps the user on
// the add page; an accepted one returns to the overview.
func AddDrinkForm(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		in := tracker.NewEntry{
			Ml:     parseNumber(r.FormValue("ml")),
			Type:   r.FormValue("type"),
			Factor: parseNumber(r.FormValue("factor")),
		}

		_, err := d.Tracker.AddEntry(r.Context(), in)
		if err != nil && !errors.Is(err, errs.ErrPersist) {
			logFormError(d, "add", err)
			http.Redirect(w, r, addURL, http.StatusSeeOther)
			return
		}
		if err != nil {
			logFormError(d, "add", err)
		}
		http.Redirect(w, r, overviewURL, http.StatusSeeOther)
	}
}

// DeleteDrinkForm removes one entry; unknown ids are ignored.
func DeleteDrinkForm(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := d.Tracker.RemoveEntry(r.Context(), chi.URLParam(r, "id")); err != nil {
			logFormError(d, "delete", err)
		}
		http.Redirect(w, r, overviewURL, http.StatusSeeOther)
	}
}

// ResetForm clears today's entries.
func ResetForm(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := d.Tracker.ResetDay(r.Context()); err != nil {
			logFormError(d, "reset", err)
		}
		http.Redirect(w, r, overviewURL, http.StatusSeeOther)
	}
}

func logFormError(d deps.Deps, action string, err error) {
	if errors.Is(err, errs.ErrPersist) {
		d.Logger.Error("form action not persisted", logger.String("action", action), logger.Error(err))
		return
	}
	d.Logger.Debug("form input rejected", logger.String("action", action), logger.Error(err))
}
