package handlers

import (
	"bytes"
	"net/http"

	"github.com/MrSnakeDoc/sip/internal/httpserver/deps"
	"github.com/MrSnakeDoc/sip/internal/logger"
	"github.com/MrSnakeDoc/sip/internal/render"
)

// Page renders both pages of the tracker, scrolled to ?page=N.
func Page(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		v := currentView(r, d, pageFrom(r))

		var buf bytes.Buffer
		if err := render.HTML(&buf, v); err != nil {
			d.Logger.Error("failed to render page", logger.Error(err))
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Cache-Control", "no-store")
		_, _ = buf.WriteTo(w)
	}
}
