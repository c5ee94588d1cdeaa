package handlers

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/MrSnakeDoc/sip/internal/httpserver/deps"
	"github.com/MrSnakeDoc/sip/internal/logger"
	"github.com/MrSnakeDoc/sip/internal/pager"
	"github.com/MrSnakeDoc/sip/internal/render"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Export downloads today's entries as a spreadsheet.
func Export(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		v := currentView(r, d, pager.Frame{})

		var buf bytes.Buffer
		if err := render.WriteXLSX(&buf, v); err != nil {
			d.Logger.Error("failed to build export", logger.Error(err))
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", xlsxContentType)
		w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="sip-%s.xlsx"`, v.DayKey))
		w.Header().Set("Cache-Control", "no-store")
		_, _ = buf.WriteTo(w)
	}
}
