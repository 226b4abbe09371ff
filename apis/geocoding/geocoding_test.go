package geocoding

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"stratos/config"
	"stratos/manager"
)

func newTestClient(url string) *geocoding {
	return New(config.Geocoding{URL: url, Count: 5, Language: "en", Timeout: time.Second})
}

func TestSearchSendsQueryAndParsesResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("name") != "Springfield" || q.Get("count") != "5" || q.Get("language") != "en" || q.Get("format") != "json" {
			t.Errorf("unexpected query %s", r.URL.RawQuery)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"results":[
			{"name":"Springfield","latitude":39.80,"longitude":-89.64,"country":"United States","admin1":"Illinois"},
			{"name":"Springfield","latitude":37.21,"longitude":-93.29,"country":"United States"}
		],"generationtime_ms":0.5}`))
	}))
	defer srv.Close()

	got, err := newTestClient(srv.URL).Search(context.Background(), "Springfield")
	if err != nil {
		t.Fatalf("Search returned error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 results, got %d", len(got))
	}
	want := manager.Location{Name: "Springfield", Latitude: 39.80, Longitude: -89.64, Country: "United States", Region: "Illinois"}
	if got[0] != want {
		t.Fatalf("got %#v, want %#v", got[0], want)
	}
	if got[1].Subtitle() != "United States" {
		t.Fatalf("unexpected subtitle %q", got[1].Subtitle())
	}
}

func TestSearchWithoutResultsIsEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"generationtime_ms":0.3}`))
	}))
	defer srv.Close()

	got, err := newTestClient(srv.URL).Search(context.Background(), "Xyzzy")
	if err != nil {
		t.Fatalf("missing results must not be an error: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no results, got %#v", got)
	}
}

func TestSearchShortQuerySkipsNetwork(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer srv.Close()

	got, err := newTestClient(srv.URL).Search(context.Background(), "a")
	if err != nil || len(got) != 0 {
		t.Fatalf("unexpected result %#v %v", got, err)
	}
	if calls.Load() != 0 {
		t.Fatalf("expected no requests, got %d", calls.Load())
	}
}

func TestSearchReportsTransportErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":true,"reason":"Parameter count must be between 1 and 100."}`))
	}))
	defer srv.Close()

	_, err := newTestClient(srv.URL).Search(context.Background(), "Oslo")
	if !errors.Is(err, manager.ErrTransport) {
		t.Fatalf("expected ErrTransport, got %v", err)
	}

	malformed := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"results":"nope"}`))
	}))
	defer malformed.Close()

	_, err = newTestClient(malformed.URL).Search(context.Background(), "Oslo")
	if !errors.Is(err, manager.ErrTransport) {
		t.Fatalf("expected ErrTransport for malformed body, got %v", err)
	}
}
