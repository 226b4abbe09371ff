package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"stratos/logging"
	"stratos/manager"
)

type forecastFunc func(ctx context.Context, loc manager.Location) (manager.ForecastRecord, error)

func (f forecastFunc) Get(ctx context.Context, loc manager.Location) (manager.ForecastRecord, error) {
	return f(ctx, loc)
}

type geocodingFunc func(ctx context.Context, query string) ([]manager.Location, error)

func (f geocodingFunc) Search(ctx context.Context, query string) ([]manager.Location, error) {
	return f(ctx, query)
}

type narratorFunc func(ctx context.Context, record manager.ForecastRecord) string

func (f narratorFunc) Summarize(ctx context.Context, record manager.ForecastRecord) string {
	return f(ctx, record)
}

type locatorFunc func(ctx context.Context) (manager.Location, error)

func (f locatorFunc) Locate(ctx context.Context) (manager.Location, error) { return f(ctx) }

func record(loc manager.Location, code int) manager.ForecastRecord {
	return manager.ForecastRecord{
		Location: loc,
		Current:  manager.Current{Temperature: 4.5, WeatherCode: code, IsDay: true, WindSpeed: 40, Time: "2025-01-10T14:00", Humidity: 70},
		Hourly: manager.Hourly{
			Time:                     []string{"2025-01-10T14:00"},
			Temperature:              []float64{4.5},
			PrecipitationProbability: []int{80},
			WeatherCode:              []int{code},
		},
		Daily: manager.Daily{
			Time:           []string{"2025-01-10"},
			WeatherCode:    []int{code},
			TemperatureMax: []float64{6},
			TemperatureMin: []float64{1},
			Sunrise:        []string{"2025-01-10T09:10"},
			Sunset:         []string{"2025-01-10T15:20"},
		},
	}
}

var errUpstream = errors.New("upstream down")

func newTestServer(t *testing.T, failFor string, locator manager.Locator) *httptest.Server {
	t.Helper()

	forecast := forecastFunc(func(_ context.Context, loc manager.Location) (manager.ForecastRecord, error) {
		if loc.Name == failFor {
			return manager.ForecastRecord{}, errUpstream
		}
		return record(loc, 63), nil
	})
	narrator := narratorFunc(func(_ context.Context, r manager.ForecastRecord) string {
		return "bring an umbrella in " + r.Location.Name
	})
	opts := []manager.Option{
		manager.WithDefaultLocation(manager.Location{Name: "New Delhi", Latitude: 28.6139, Longitude: 77.209}),
		manager.WithLogger(logging.Discard()),
	}
	if locator != nil {
		opts = append(opts, manager.WithLocator(locator))
	}
	dashboard := manager.New(forecast, narrator, opts...)
	t.Cleanup(dashboard.Wait)

	resolver := manager.NewResolver(geocodingFunc(func(_ context.Context, q string) ([]manager.Location, error) {
		if q == "boom" {
			return nil, errUpstream
		}
		return []manager.Location{{Name: "Oslo", Latitude: 59.91, Longitude: 10.75, Country: "Norway"}}, nil
	}), nil, logging.Discard())

	srv := httptest.NewServer(New(dashboard, resolver, logging.Discard()).Handler())
	t.Cleanup(srv.Close)
	return srv
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var v T
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return v
}

type snapshotBody struct {
	State     string `json:"state"`
	Error     string `json:"error"`
	Alert     string `json:"alert"`
	Label     string `json:"label"`
	Icon      string `json:"icon"`
	Narrative string `json:"narrative"`
	Requested *struct {
		Name string `json:"name"`
	} `json:"requested"`
	Forecast *struct {
		Location struct {
			Name string `json:"name"`
		} `json:"location"`
	} `json:"forecast"`
	Theme struct {
		Gradient string `json:"gradient"`
		Duration int    `json:"durationSeconds"`
		Opacity  int    `json:"opacity"`
	} `json:"theme"`
}

func post(t *testing.T, url, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	return resp
}

func TestHealthAndRequestID(t *testing.T) {
	srv := newTestServer(t, "", nil)

	resp, err := http.Get(srv.URL + "/health")
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if resp.Header.Get(requestIDHeader) == "" {
		t.Fatal("expected a generated request id")
	}
	if body := decode[map[string]string](t, resp); body["status"] != "ok" {
		t.Fatalf("unexpected body %v", body)
	}

	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/health", nil)
	req.Header.Set(requestIDHeader, "abc-123")
	resp, err = http.DefaultClient.Do(req)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if got := resp.Header.Get(requestIDHeader); got != "abc-123" {
		t.Fatalf("request id = %q, want the incoming one", got)
	}
}

func TestSearch(t *testing.T) {
	srv := newTestServer(t, "", nil)

	cases := map[string]int{"osl": 1, "o": 0, "boom": 0}
	for q, want := range cases {
		resp, err := http.Get(srv.URL + "/api/search?q=" + q)
		if err != nil {
			t.Fatal(err)
		}
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("%q: status = %d", q, resp.StatusCode)
		}
		body := decode[struct {
			Results []map[string]any `json:"results"`
		}](t, resp)
		if body.Results == nil || len(body.Results) != want {
			t.Fatalf("%q: got %v, want %d results", q, body.Results, want)
		}
	}
}

func TestSelectLocation(t *testing.T) {
	srv := newTestServer(t, "", nil)

	resp := post(t, srv.URL+"/api/location", `{"name":"Oslo","latitude":59.91,"longitude":10.75}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	s := decode[snapshotBody](t, resp)
	if s.State != "success" || s.Forecast == nil || s.Forecast.Location.Name != "Oslo" {
		t.Fatalf("unexpected snapshot %+v", s)
	}
	if s.Label != "Moderate rain" || s.Icon != "cloud-rain" {
		t.Fatalf("label/icon = %q/%q", s.Label, s.Icon)
	}
	if s.Theme.Duration != 3 {
		t.Fatalf("strong wind should cap duration at 3, got %d", s.Theme.Duration)
	}
}

func TestSelectLocationRejectsBadInput(t *testing.T) {
	srv := newTestServer(t, "", nil)

	for _, body := range []string{`{`, `{"name":"x","latitude":91,"longitude":0}`, `{"latitude":0,"longitude":-181}`} {
		resp := post(t, srv.URL+"/api/location", body)
		resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("%s: status = %d", body, resp.StatusCode)
		}
	}
}

func TestForecastFailureReturnsSnapshot(t *testing.T) {
	srv := newTestServer(t, "Nowhere", nil)

	resp := post(t, srv.URL+"/api/location", `{"name":"Nowhere","latitude":1,"longitude":1}`)
	if resp.StatusCode != http.StatusBadGateway {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	s := decode[snapshotBody](t, resp)
	if s.State != "error" || !strings.Contains(s.Error, "upstream down") {
		t.Fatalf("unexpected snapshot %+v", s)
	}
}

func TestRetryLoadsDefault(t *testing.T) {
	srv := newTestServer(t, "", nil)

	resp := post(t, srv.URL+"/api/retry", ``)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	s := decode[snapshotBody](t, resp)
	if s.Requested == nil || s.Requested.Name != "New Delhi" {
		t.Fatalf("unexpected snapshot %+v", s)
	}
}

func TestCurrentLocation(t *testing.T) {
	denied := locatorFunc(func(context.Context) (manager.Location, error) {
		return manager.Location{}, manager.ErrGeolocationDenied
	})
	srv := newTestServer(t, "", denied)

	resp := post(t, srv.URL+"/api/location/current", ``)
	if resp.StatusCode != http.StatusForbidden {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	s := decode[snapshotBody](t, resp)
	if s.Alert == "" || s.State != "idle" {
		t.Fatalf("expected alert without loading, got %+v", s)
	}

	here := locatorFunc(func(context.Context) (manager.Location, error) {
		return manager.Location{Latitude: 59.91, Longitude: 10.75}, nil
	})
	srv = newTestServer(t, "", here)
	resp = post(t, srv.URL+"/api/location/current", ``)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	s = decode[snapshotBody](t, resp)
	if s.Forecast == nil || s.Forecast.Location.Name != manager.CurrentLocationName {
		t.Fatalf("unexpected snapshot %+v", s)
	}
}

func TestTheme(t *testing.T) {
	srv := newTestServer(t, "", nil)

	resp, err := http.Get(srv.URL + "/api/theme?code=0&isDay=false&wind=40")
	if err != nil {
		t.Fatal(err)
	}
	body := decode[struct {
		Variant string `json:"variant"`
		Icon    string `json:"icon"`
		Theme   struct {
			Duration int `json:"durationSeconds"`
		} `json:"theme"`
	}](t, resp)
	if body.Variant != "clear-night" || body.Icon != "moon" || body.Theme.Duration != 3 {
		t.Fatalf("unexpected theme %+v", body)
	}

	for _, q := range []string{"", "code=x", "code=1&isDay=maybe", "code=1&wind=-3"} {
		resp, err := http.Get(srv.URL + "/api/theme?" + q)
		if err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("%q: status = %d", q, resp.StatusCode)
		}
	}
}

func TestMethodNotAllowed(t *testing.T) {
	srv := newTestServer(t, "", nil)

	cases := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/retry"},
		{http.MethodGet, "/api/location"},
		{http.MethodGet, "/api/location/current"},
		{http.MethodPost, "/api/theme"},
		{http.MethodPost, "/api/dashboard"},
	}
	for _, tc := range cases {
		req, _ := http.NewRequest(tc.method, srv.URL+tc.path, nil)
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusMethodNotAllowed {
			t.Fatalf("%s %s: status = %d, want 405", tc.method, tc.path, resp.StatusCode)
		}
	}
}
