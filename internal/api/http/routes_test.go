package httpapi

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/city-weather/internal/store"
	"github.com/i474232898/city-weather/internal/ui"
	"github.com/i474232898/city-weather/internal/weather"
	"github.com/i474232898/city-weather/internal/weather/providers"
)

// fakeAccuWeather serves canned city search and current-conditions bodies.
type fakeAccuWeather struct {
	mu         sync.Mutex
	searches   map[string]string // query -> body
	conditions map[string]string // location key -> body
	calls      int
}

func (f *fakeAccuWeather) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	switch {
	case r.URL.Path == "/locations/v1/cities/search":
		body, ok := f.searches[r.URL.Query().Get("q")]
		if !ok {
			body = "[]"
		}
		_, _ = io.WriteString(w, body)
	case strings.HasPrefix(r.URL.Path, "/currentconditions/v1/"):
		key := strings.TrimPrefix(r.URL.Path, "/currentconditions/v1/")
		body, ok := f.conditions[key]
		if !ok {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_, _ = io.WriteString(w, body)
	default:
		http.NotFound(w, r)
	}
}

func (f *fakeAccuWeather) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func newFakeAccuWeather() *fakeAccuWeather {
	return &fakeAccuWeather{
		searches: map[string]string{
			"Paris":    `[{"Key":"623","LocalizedName":"Paris","Country":{"LocalizedName":"France"}}]`,
			"Quiet":    `[{"Key":"100","LocalizedName":"Quiet","Country":{"LocalizedName":"Nowhere"}}]`,
			"Partial":  `[{"Key":"200","LocalizedName":"Partial","Country":{"LocalizedName":"Nowhere"}}]`,
			"Windless": `[{"Key":"300","LocalizedName":"Windless","Country":{"LocalizedName":"Calmland"}}]`,
		},
		conditions: map[string]string{
			"623": `[{"WeatherText":"Partly sunny","WeatherIcon":3,
				"Temperature":{"Metric":{"Value":18.4,"Unit":"C"}},
				"RealFeelTemperature":{"Metric":{"Value":17.2,"Unit":"C"}},
				"RelativeHumidity":64,
				"Wind":{"Speed":{"Metric":{"Value":11.1,"Unit":"km/h"}}},
				"Pressure":{"Metric":{"Value":1012.0,"Unit":"mb"}}}]`,
			"100": `[]`,
			"200": `[{"WeatherText":"Cloudy"}]`,
			"300": `[{"WeatherText":"Calm","Temperature":{"Metric":{"Value":9.6,"Unit":"C"}}}]`,
		},
	}
}

func newTestApp(t *testing.T) (*fiber.App, *fakeAccuWeather) {
	t.Helper()

	fake := newFakeAccuWeather()
	upstream := httptest.NewServer(fake)
	t.Cleanup(upstream.Close)

	provider := providers.NewAccuWeatherProvider(upstream.Client(), "test-key", providers.WithBaseURL(upstream.URL))
	svc := weather.NewProviderService(provider, nil)

	renderer, err := ui.NewRenderer(ui.DefaultIconTemplate)
	if err != nil {
		t.Fatalf("renderer: %v", err)
	}

	sessions := store.NewSessionStore(10, time.Hour, func() *ui.Session { return ui.NewSession(svc) })

	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	RegisterRoutes(app, Dependencies{
		Service:       svc,
		Sessions:      sessions,
		Renderer:      renderer,
		SessionMaxAge: time.Hour,
	})
	return app, fake
}

func doRequest(t *testing.T, app *fiber.App, method, target string, cookies ...*http.Cookie) (*http.Response, string) {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp, string(body)
}

func sessionCookie(t *testing.T, resp *http.Response) *http.Cookie {
	t.Helper()
	for _, c := range resp.Cookies() {
		if c.Name == SessionCookie {
			return c
		}
	}
	t.Fatalf("response did not set the %s cookie", SessionCookie)
	return nil
}

func TestCurrentWeather_Paris(t *testing.T) {
	app, _ := newTestApp(t)

	resp, body := doRequest(t, app, http.MethodGet, "/api/v1/weather/current?q=Paris")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d: %s", http.StatusOK, resp.StatusCode, body)
	}

	var payload struct {
		Location weather.Location `json:"location"`
		Card     ui.Card          `json:"card"`
	}
	if err := json.Unmarshal([]byte(body), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if payload.Location != (weather.Location{Key: "623", Name: "Paris", Country: "France"}) {
		t.Fatalf("unexpected location: %+v", payload.Location)
	}
	if payload.Card.Temperature != "18°C" {
		t.Fatalf("expected temperature 18°C, got %q", payload.Card.Temperature)
	}
	if payload.Card.CityLine != "Paris, France" {
		t.Fatalf("expected city line %q, got %q", "Paris, France", payload.Card.CityLine)
	}
}

func TestCurrentWeather_EmptyQuery(t *testing.T) {
	app, fake := newTestApp(t)

	for _, target := range []string{"/api/v1/weather/current", "/api/v1/weather/current?q=%20%20"} {
		resp, _ := doRequest(t, app, http.MethodGet, target)
		if resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("%s: expected status %d, got %d", target, http.StatusBadRequest, resp.StatusCode)
		}
	}
	if fake.callCount() != 0 {
		t.Fatalf("expected no upstream calls, got %d", fake.callCount())
	}
}

func TestCurrentWeather_Failures(t *testing.T) {
	tests := []struct {
		query   string
		status  int
		message string
	}{
		{"Atlantis", http.StatusNotFound, weather.MessageNotFound},
		{"Quiet", http.StatusBadGateway, weather.MessageUnavailable},
		{"Partial", http.StatusBadGateway, weather.MessageIncomplete},
	}

	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			app, _ := newTestApp(t)

			resp, body := doRequest(t, app, http.MethodGet, "/api/v1/weather/current?q="+tt.query)
			if resp.StatusCode != tt.status {
				t.Fatalf("expected status %d, got %d", tt.status, resp.StatusCode)
			}

			var payload struct {
				Error   bool   `json:"error"`
				Message string `json:"message"`
			}
			if err := json.Unmarshal([]byte(body), &payload); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if !payload.Error || payload.Message != tt.message {
				t.Fatalf("unexpected error payload: %+v", payload)
			}
		})
	}
}

func TestSearchPage_Flow(t *testing.T) {
	app, _ := newTestApp(t)

	resp, body := doRequest(t, app, http.MethodGet, "/search?q=Paris")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}
	if !strings.Contains(body, "Paris, France") || !strings.Contains(body, "18°C") {
		t.Fatalf("page missing result card: %s", body)
	}
	cookie := sessionCookie(t, resp)

	// Blank input keeps the previous result.
	_, body = doRequest(t, app, http.MethodGet, "/search?q=%20", cookie)
	if !strings.Contains(body, "Paris, France") {
		t.Fatalf("blank search should leave the result in place")
	}

	// A failed search replaces the card with the error banner.
	_, body = doRequest(t, app, http.MethodGet, "/search?q=Atlantis", cookie)
	if strings.Contains(body, "Paris, France") {
		t.Fatalf("stale result shown next to error")
	}
	if !strings.Contains(body, "City not found") {
		t.Fatalf("missing not-found banner: %s", body)
	}

	// Reloading the page shows the same state.
	_, body = doRequest(t, app, http.MethodGet, "/", cookie)
	if !strings.Contains(body, "City not found") {
		t.Fatalf("session state was not kept")
	}
}

func TestSearchPage_MissingWindShowsPlaceholder(t *testing.T) {
	app, _ := newTestApp(t)

	_, body := doRequest(t, app, http.MethodGet, "/search?q=Windless")
	if !strings.Contains(body, "10°C") {
		t.Fatalf("expected rounded temperature in page: %s", body)
	}
	if !strings.Contains(body, "<dt>Wind</dt><dd>N/A</dd>") {
		t.Fatalf("expected wind placeholder in page: %s", body)
	}
	if !strings.Contains(body, "Windless, Calmland") {
		t.Fatalf("expected city line in page: %s", body)
	}
}

func TestSessionAPI(t *testing.T) {
	app, _ := newTestApp(t)

	resp, body := doRequest(t, app, http.MethodGet, "/api/v1/session")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, resp.StatusCode)
	}
	var st ui.State
	if err := json.Unmarshal([]byte(body), &st); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if st.Status != ui.StatusIdle {
		t.Fatalf("expected idle session, got %q", st.Status)
	}
	cookie := sessionCookie(t, resp)

	_, body = doRequest(t, app, http.MethodPost, "/api/v1/session/search?q=Quiet", cookie)
	st = ui.State{}
	if err := json.Unmarshal([]byte(body), &st); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if st.Status != ui.StatusError || st.Error != weather.MessageUnavailable || st.Report != nil {
		t.Fatalf("unexpected state: %+v", st)
	}
}

func TestSessionAPI_StoredQuerySurvivesLaterRequests(t *testing.T) {
	app, _ := newTestApp(t)

	resp, _ := doRequest(t, app, http.MethodPost, "/api/v1/session/search?q=Paris")
	cookie := sessionCookie(t, resp)

	// Later requests reuse fasthttp's request buffers.
	for i := 0; i < 20; i++ {
		doRequest(t, app, http.MethodGet, "/api/v1/weather/current?q=Zzzzz")
		doRequest(t, app, http.MethodGet, "/search?q=Qqqqq")
	}

	_, body := doRequest(t, app, http.MethodGet, "/api/v1/session", cookie)
	var st ui.State
	if err := json.Unmarshal([]byte(body), &st); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if st.Status != ui.StatusResult || st.Report == nil {
		t.Fatalf("unexpected state: %+v", st)
	}
	if st.Query != "Paris" || st.Report.Query != "Paris" {
		t.Fatalf("stored query changed: state=%q report=%q", st.Query, st.Report.Query)
	}
}

func TestSessionAPI_Delete(t *testing.T) {
	app, _ := newTestApp(t)

	resp, _ := doRequest(t, app, http.MethodPost, "/api/v1/session/search?q=Paris")
	cookie := sessionCookie(t, resp)

	resp, _ = doRequest(t, app, http.MethodDelete, "/api/v1/session", cookie)
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("expected status %d, got %d", http.StatusNoContent, resp.StatusCode)
	}
	if cleared := sessionCookie(t, resp); cleared.Value != "" {
		t.Fatalf("expected cleared cookie, got %q", cleared.Value)
	}

	// The old id no longer resolves: a fresh idle session is issued.
	resp, body := doRequest(t, app, http.MethodGet, "/api/v1/session", cookie)
	var st ui.State
	if err := json.Unmarshal([]byte(body), &st); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if st.Status != ui.StatusIdle {
		t.Fatalf("expected idle session after delete, got %q", st.Status)
	}
	if fresh := sessionCookie(t, resp); fresh.Value == cookie.Value {
		t.Fatalf("expected a new session id")
	}
}

func TestSessionAPI_DeleteUnknownSession(t *testing.T) {
	app, _ := newTestApp(t)

	resp, _ := doRequest(t, app, http.MethodDelete, "/api/v1/session")
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("expected status %d, got %d", http.StatusNoContent, resp.StatusCode)
	}
}
