package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/MrSnakeDoc/sip/internal/domain"
	"github.com/MrSnakeDoc/sip/internal/httpserver/deps"
	"github.com/MrSnakeDoc/sip/internal/logger"
	"github.com/MrSnakeDoc/sip/internal/pager"
	"github.com/MrSnakeDoc/sip/internal/realtime"
	"github.com/MrSnakeDoc/sip/internal/render"
	"github.com/MrSnakeDoc/sip/internal/store"
	"github.com/MrSnakeDoc/sip/internal/tracker"
)

var testNow = time.Date(2023, time.March, 7, 9, 30, 0, 0, time.UTC)

type downStore struct{}

func (downStore) Ping(context.Context) error { return errors.New("connection refused") }

type fixture struct {
	tracker *tracker.Tracker
	hub     *realtime.Hub
	deps    deps.Deps
	router  http.Handler
}

func newFixture(t *testing.T, mutate ...func(*deps.Deps)) *fixture {
	t.Helper()
	log := logger.Nop()
	kv := store.NewMemoryKV()
	n := 0
	tr := tracker.New(context.Background(), store.NewStateStore(kv, store.DefaultKey, log), log,
		tracker.WithClock(func() time.Time { return testNow }),
		tracker.WithLocation(time.UTC),
		tracker.WithIDGenerator(func() string {
			n++
			return "e" + string(rune('0'+n))
		}),
	)
	_, err := tr.ResetIfNeeded(context.Background())
	require.NoError(t, err)

	hub := realtime.NewHub(log)
	catalog := domain.DefaultCatalog()
	tr.Subscribe(func(s domain.State) {
		hub.Broadcast(realtime.StateMessage(render.Project(s, catalog, pager.Frame{}, tr.Now()), false))
	})

	d := deps.Deps{
		Logger:     log,
		StartTime:  testNow,
		Version:    "test",
		RateBurst:  1000,
		RatePerMin: 1000,
		Tracker:    tr,
		Store:      kv,
		Catalog:    catalog,
		Hub:        hub,
	}
	for _, m := range mutate {
		m(&d)
	}
	return &fixture{tracker: tr, hub: hub, deps: d, router: NewRouter(log, d)}
}

func (f *fixture) do(t *testing.T, method, target string, body string, contentType string) *httptest.ResponseRecorder {
	t.Helper()
	r := httptest.NewRequest(method, target, strings.NewReader(body))
	if contentType != "" {
		r.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, r)
	return w
}

func (f *fixture) form(t *testing.T, target string, values url.Values) *httptest.ResponseRecorder {
	return f.do(t, http.MethodPost, target, values.Encode(), "application/x-www-form-urlencoded")
}

func (f *fixture) json(t *testing.T, method, target, body string) *httptest.ResponseRecorder {
	return f.do(t, method, target, body, "application/json")
}

func TestPage(t *testing.T) {
	f := newFixture(t)

	w := f.do(t, http.MethodGet, "/?page=1", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Header().Get("Content-Type"), "text/html")

	doc, err := goquery.NewDocumentFromReader(w.Body)
	require.NoError(t, err)
	require.Equal(t, "Datum: 2023-03-07", doc.Find("#todayLabel").Text())
	require.Equal(t, "2000", doc.Find("#goalMl").Text())
	require.Equal(t, 1, doc.Find("#empty").Length())
	require.True(t, doc.Find("#dot1").HasClass("isActive"))
	require.Equal(t, "1", doc.Find("#pagerTrack").AttrOr("data-page", ""))
}

func TestPageClampsGarbagePage(t *testing.T) {
	f := newFixture(t)
	for _, q := range []string{"5", "-3", "abc", "1e400"} {
		w := f.do(t, http.MethodGet, "/?page="+q, "", "")
		require.Equal(t, http.StatusOK, w.Code)
		doc, err := goquery.NewDocumentFromReader(w.Body)
		require.NoError(t, err)
		page := doc.Find("#pagerTrack").AttrOr("data-page", "")
		require.Contains(t, []string{"0", "1"}, page, q)
	}
}

func TestAddDrinkForm(t *testing.T) {
	f := newFixture(t)

	w := f.form(t, "/drinks", url.Values{"ml": {"500"}, "type": {"Wasser"}, "factor": {"1"}})
	require.Equal(t, http.StatusSeeOther, w.Code)
	require.Equal(t, "/?page=0", w.Header().Get("Location"))

	s := f.tracker.Snapshot()
	require.Len(t, s.Entries, 1)
	require.Equal(t, 500.0, s.Entries[0].Hydration)
	require.Equal(t, 500, domain.Total(&s))
}

func TestAddDrinkFormRejected(t *testing.T) {
	f := newFixture(t)

	for _, v := range []url.Values{
		{"ml": {"0"}, "type": {"Wasser"}, "factor": {"1"}},
		{"ml": {""}, "type": {"Wasser"}, "factor": {"1"}},
		{"ml": {"abc"}, "type": {"Wasser"}, "factor": {"1"}},
		{"ml": {"250"}, "type": {"Wasser"}, "factor": {"1.5"}},
	} {
		w := f.form(t, "/drinks", v)
		require.Equal(t, http.StatusSeeOther, w.Code)
		require.Equal(t, "/?page=1", w.Header().Get("Location"), v.Encode())
	}
	require.Empty(t, f.tracker.Snapshot().Entries)
}

func TestAddDrinkFormBlankFactorIsZero(t *testing.T) {
	f := newFixture(t)

	w := f.form(t, "/drinks", url.Values{"ml": {"300"}, "type": {"Bier/Alkohol"}, "factor": {""}})
	require.Equal(t, "/?page=0", w.Header().Get("Location"))

	s := f.tracker.Snapshot()
	require.Len(t, s.Entries, 1)
	require.Equal(t, 0.0, s.Entries[0].Factor)
	require.Equal(t, 0.0, s.Entries[0].Hydration)
}

func TestDeleteAndResetForms(t *testing.T) {
	f := newFixture(t)
	f.form(t, "/drinks", url.Values{"ml": {"200"}, "type": {"Tee"}, "factor": {"1"}})
	f.form(t, "/drinks", url.Values{"ml": {"100"}, "type": {"Tee"}, "factor": {"1"}})
	id := f.tracker.Snapshot().Entries[0].ID

	w := f.form(t, "/drinks/"+id+"/delete", nil)
	require.Equal(t, http.StatusSeeOther, w.Code)
	require.Len(t, f.tracker.Snapshot().Entries, 1)

	w = f.form(t, "/drinks/missing/delete", nil)
	require.Equal(t, http.StatusSeeOther, w.Code)
	require.Len(t, f.tracker.Snapshot().Entries, 1)

	w = f.form(t, "/reset", nil)
	require.Equal(t, http.StatusSeeOther, w.Code)
	require.Empty(t, f.tracker.Snapshot().Entries)
}

func TestGoalForm(t *testing.T) {
	f := newFixture(t)

	f.form(t, "/goal", url.Values{"goalMl": {"249"}})
	require.Equal(t, 2000, f.tracker.Snapshot().GoalMl)

	f.form(t, "/goal", url.Values{"goalMl": {"250"}})
	require.Equal(t, 250, f.tracker.Snapshot().GoalMl)
}

func TestAPIEntries(t *testing.T) {
	f := newFixture(t)

	w := f.json(t, http.MethodPost, "/api/entries", `{"ml":500,"type":"Wasser","factor":1}`)
	require.Equal(t, http.StatusCreated, w.Code)
	var entry domain.Entry
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &entry))
	require.Equal(t, 500, entry.Ml)
	require.Equal(t, testNow.UnixMilli(), entry.TS)

	w = f.json(t, http.MethodPost, "/api/entries", `{"ml":200,"type":"Kaffee"}`)
	require.Equal(t, http.StatusCreated, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &entry))
	require.Equal(t, 0.85, entry.Factor, "catalog default")

	w = f.json(t, http.MethodPost, "/api/entries", `{"ml":200,"type":"Wasser","factor":1.5}`)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = f.json(t, http.MethodPost, "/api/entries", `{"type":"Wasser","factor":1}`)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = f.json(t, http.MethodPost, "/api/entries", `{not json`)
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = f.json(t, http.MethodDelete, "/api/entries/"+entry.ID, "")
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"removed":true}`, w.Body.String())

	w = f.json(t, http.MethodDelete, "/api/entries/"+entry.ID, "")
	require.JSONEq(t, `{"removed":false}`, w.Body.String())

	w = f.json(t, http.MethodGet, "/api/state", "")
	require.Equal(t, http.StatusOK, w.Code)
	var v render.View
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v))
	require.Equal(t, 500, v.HydrationMl)
	require.Equal(t, 25, v.Percent)
	require.Len(t, v.Entries, 1)
}

func TestAPIGoalAndReset(t *testing.T) {
	f := newFixture(t)

	w := f.json(t, http.MethodPut, "/api/goal", `{"goalMl":249}`)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = f.json(t, http.MethodPut, "/api/goal", `{"goalMl":2500.5}`)
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"goalMl":2501}`, w.Body.String())

	f.json(t, http.MethodPost, "/api/entries", `{"ml":100,"type":"Tee","factor":1}`)
	w = f.json(t, http.MethodPost, "/api/reset", "")
	require.Equal(t, http.StatusOK, w.Code)
	var v render.View
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v))
	require.True(t, v.Empty)
	require.Equal(t, 2501, v.GoalMl)
}

func TestAPIDrinkTypes(t *testing.T) {
	f := newFixture(t)

	w := f.json(t, http.MethodGet, "/api/drink-types", "")
	require.Equal(t, http.StatusOK, w.Code)
	var types []domain.DrinkType
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &types))
	require.Equal(t, domain.DefaultCatalog(), types)
}

func TestAPIExport(t *testing.T) {
	f := newFixture(t)
	f.json(t, http.MethodPost, "/api/entries", `{"ml":330,"type":"Saft","factor":0.7}`)

	w := f.do(t, http.MethodGet, "/api/export.xlsx", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Header().Get("Content-Disposition"), "sip-2023-03-07.xlsx")

	x, err := excelize.OpenReader(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	defer func() { _ = x.Close() }()
	rows, err := x.GetRows("2023-03-07")
	require.NoError(t, err)
	require.Equal(t, "Saft", rows[1][1])
}

func TestProbes(t *testing.T) {
	f := newFixture(t)
	w := f.do(t, http.MethodGet, "/healthz", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"status":"ok"`)

	w = f.do(t, http.MethodGet, "/readyz", "", "")
	require.Equal(t, http.StatusOK, w.Code)

	down := newFixture(t, func(d *deps.Deps) { d.Store = downStore{} })
	w = down.do(t, http.MethodGet, "/readyz", "", "")
	require.Equal(t, http.StatusServiceUnavailable, w.Code)

	locked := newFixture(t, func(d *deps.Deps) { d.AllowedCIDRS = []string{"10.0.0.0/8"} })
	w = locked.do(t, http.MethodGet, "/healthz", "", "")
	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestWebsocket(t *testing.T) {
	f := newFixture(t)
	srv := httptest.NewServer(f.router)
	t.Cleanup(srv.Close)

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(srv.URL, "http")+"/ws", nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	read := func() realtime.Message {
		t.Helper()
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
		var m realtime.Message
		require.NoError(t, conn.ReadJSON(&m))
		return m
	}

	m := read()
	require.Equal(t, realtime.TypeState, m.Type)
	require.True(t, m.Initial)

	require.NoError(t, conn.WriteJSON(pager.Event{Kind: pager.EventTouchStart, Touches: []pager.Point{{X: 200, Y: 100}}}))
	require.Equal(t, realtime.TypePager, read().Type)
	require.NoError(t, conn.WriteJSON(pager.Event{Kind: pager.EventTouchMove, Touches: []pager.Point{{X: 150, Y: 102}}, ViewportWidth: 400}))
	m = read()
	require.InDelta(t, -12.5, m.Frame.OffsetPct, 1e-9)
	require.NoError(t, conn.WriteJSON(pager.Event{Kind: pager.EventTouchEnd}))
	m = read()
	require.Equal(t, pager.PageAdd, m.Frame.Page)
	require.True(t, m.Frame.Dots[1])

	resp, err := http.Post(srv.URL+"/api/entries", "application/json", strings.NewReader(`{"ml":250,"type":"Wasser","factor":1}`))
	require.NoError(t, err)
	_ = resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	m = read()
	require.Equal(t, realtime.TypeState, m.Type)
	require.False(t, m.Initial)
	require.Equal(t, 250, m.View.HydrationMl)
}
